package row

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag read by FromStruct and Decode.
const TagName = "cql"

// ErrNotStruct is returned when FromStruct is given something other than a
// struct or a pointer to one.
var ErrNotStruct = errors.New("row: value is not a struct")

// FromStruct builds a Record from the record-of-fields surface. Exported
// fields are emitted in declaration order, named by their `cql` tag or the
// field name. `cql:"-"` skips a field; `cql:",omitempty"` skips zero values.
// Embedded structs are flattened.
func FromStruct(v interface{}) (Record, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Record{}, ErrNotStruct
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Record{}, fmt.Errorf("%w: %T", ErrNotStruct, v)
	}

	r := Record{}
	appendStructFields(&r, rv)
	return r, nil
}

func appendStructFields(r *Record, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseTag(sf)
		if skip {
			continue
		}

		fv := rv.Field(i)
		if sf.Anonymous && sf.Tag.Get(TagName) == "" {
			inner := fv
			if inner.Kind() == reflect.Ptr {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				appendStructFields(r, inner)
				continue
			}
		}

		if omitEmpty && fv.IsZero() {
			continue
		}
		r.put(name, ValueOf(fv.Interface()))
	}
}

func parseTag(sf reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag := sf.Tag.Get(TagName)
	if tag == "-" {
		return "", false, true
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = sf.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// Decode copies the record into dst (a pointer to a struct or map) matching
// columns to `cql` tags, case-insensitively, with weak type conversion.
func (r Record) Decode(dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(r.Map())
}
