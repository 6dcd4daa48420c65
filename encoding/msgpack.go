// Package encoding provides centralized serialization of row records for the
// CLI and the admin API. Records keep their column order in both formats.
//
// Thread Safety: every function is safe for concurrent use.
//
// Type Preservation: when decoding msgpack into interface{}, strings decode as
// Go strings (not []byte) so they come back as text values and are quoted in
// generated statements.
package encoding

import (
	"bytes"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

type encoderPoolEntry struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		buf := new(bytes.Buffer)
		return &encoderPoolEntry{buf: buf, enc: msgpack.NewEncoder(buf)}
	},
}

// Marshal encodes a value to msgpack format using a pooled encoder.
func Marshal(v interface{}) ([]byte, error) {
	entry := encoderPool.Get().(*encoderPoolEntry)
	defer encoderPool.Put(entry)
	entry.buf.Reset()

	if err := entry.enc.Encode(v); err != nil {
		return nil, err
	}

	// the buffer goes back to the pool
	result := make([]byte, entry.buf.Len())
	copy(result, entry.buf.Bytes())
	return result, nil
}

// Unmarshal decodes msgpack data using loose interface decoding.
// When decoding into interface{}, strings are preserved as Go strings.
func Unmarshal(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	// bin payloads would otherwise surface as []byte and render unquoted
	dec.UseLooseInterfaceDecoding(true)

	return dec.Decode(v)
}
