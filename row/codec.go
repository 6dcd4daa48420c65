package row

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/vmihailenco/msgpack/v5"
)

// MarshalJSON writes the record as a JSON object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(e.Value.Interface())
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", e.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the document's key order.
// Strings become Text, null becomes Null, integers decode as int64, other
// numbers as float64, booleans as bool. Nested objects and arrays are kept
// as raw literal text tagged Other.
func (r *Record) UnmarshalJSON(data []byte) error {
	out := Record{}
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}

		v, err := jsonValue(value, dataType)
		if err != nil {
			return fmt.Errorf("column %q: %w", name, err)
		}
		out.put(name, v)
		return nil
	})
	if err != nil {
		return err
	}

	*r = out
	return nil
}

func jsonValue(raw []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Null(), err
		}
		return Text(s), nil
	case jsonparser.Number:
		if n, err := jsonparser.ParseInt(raw); err == nil {
			return Other(n), nil
		}
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return Null(), err
		}
		return Other(f), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Null(), err
		}
		return Other(b), nil
	case jsonparser.Object, jsonparser.Array:
		return Other(string(raw)), nil
	}
	return Null(), fmt.Errorf("unsupported JSON value type %s", dataType)
}

var (
	_ msgpack.CustomEncoder = Record{}
	_ msgpack.CustomDecoder = (*Record)(nil)
)

// EncodeMsgpack writes the record as a msgpack map in column order.
func (r Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(r.entries)); err != nil {
		return err
	}
	for _, e := range r.entries {
		if err := enc.EncodeString(e.Name); err != nil {
			return err
		}
		if err := enc.Encode(e.Value.Interface()); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads a msgpack map keeping the encoded key order.
func (r *Record) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}

	out := Record{}
	for i := 0; i < n; i++ {
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		v, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return err
		}
		out.put(name, ValueOf(v))
	}

	*r = out
	return nil
}
