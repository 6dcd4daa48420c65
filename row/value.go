// Package row holds the loosely-typed row model shared by the batch builder,
// the result mapper and the command surface.
//
// A Record is an ordered name->value mapping. Column order matters: it is the
// order columns are emitted into generated statements and the order result
// columns are reported back to callers.
package row

import (
	"fmt"
	"reflect"
)

// Kind tags a Value. It only decides how the value is rendered as a literal.
type Kind uint8

const (
	KindNull  Kind = iota // absent / CQL null
	KindText              // quoted when rendered
	KindOther             // numbers, booleans, uuids, anything not text
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindOther:
		return "other"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a single column value. The zero Value is Null.
type Value struct {
	kind  Kind
	text  string
	other interface{}
}

// Null returns the absent value.
func Null() Value {
	return Value{}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Other wraps a non-text value. The value keeps KindOther even when v is a
// string, which lets callers pass pre-rendered literals through unquoted.
// A nil v yields Null.
func Other(v interface{}) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindOther, other: v}
}

// ValueOf tags an arbitrary Go value once. nil and typed nil pointers become
// Null, strings (and non-nil *string) become Text, everything else is Other.
func ValueOf(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case *Value:
		if t == nil {
			return Null()
		}
		return *t
	case string:
		return Text(t)
	case *string:
		if t == nil {
			return Null()
		}
		return Text(*t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
	}
	if rv.Kind() == reflect.Ptr {
		// *big.Int and friends render through their pointer receiver
		if _, ok := v.(fmt.Stringer); ok {
			return Other(v)
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Other(v)
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Interface returns the underlying Go value; nil for Null.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindText:
		return v.text
	case KindOther:
		return v.other
	}
	return nil
}

// String renders the value for humans. Use protocol.FormatLiteral for CQL.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindOther:
		return fmt.Sprint(v.other)
	}
	return "<null>"
}
