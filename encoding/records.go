package encoding

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/maxpert/cqlcmd/row"
)

// Format selects the wire format for record lists.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// ParseFormat accepts "json" or "msgpack", case-insensitively. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or msgpack)", s)
}

// FormatFromContentType picks a format from an HTTP Content-Type or Accept
// header. Anything that is not msgpack is treated as JSON.
func FormatFromContentType(header string) Format {
	if strings.Contains(strings.ToLower(header), "msgpack") {
		return FormatMsgpack
	}
	return FormatJSON
}

// MarshalRecords encodes records as an array of objects. A nil slice encodes
// as null so callers can tell "no result set" from "no rows".
func MarshalRecords(records []row.Record, f Format) ([]byte, error) {
	if f == FormatMsgpack {
		return Marshal(records)
	}

	if records == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := r.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalRecords decodes an array of objects. Key order inside each object
// becomes column order.
func UnmarshalRecords(data []byte, f Format) ([]row.Record, error) {
	if f == FormatMsgpack {
		var records []row.Record
		if err := Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var (
		records []row.Record
		itemErr error
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if itemErr != nil {
			return
		}
		if dataType != jsonparser.Object {
			itemErr = fmt.Errorf("row %d: expected object, got %s", len(records), dataType)
			return
		}
		var r row.Record
		if err := r.UnmarshalJSON(value); err != nil {
			itemErr = fmt.Errorf("row %d: %w", len(records), err)
			return
		}
		records = append(records, r)
	})
	if err != nil {
		return nil, err
	}
	if itemErr != nil {
		return nil, itemErr
	}
	return records, nil
}
