package encoding

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat(`{"id":1,"name":"a"},`, 200))

	compressed, err := Compress(data)
	require.NoError(t, err)
	assert.True(t, IsCompressed(compressed))
	assert.Less(t, len(compressed), len(data))

	back, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestDecompressPassesPlainDataThrough(t *testing.T) {
	data := []byte(`[{"id":1}]`)
	assert.False(t, IsCompressed(data))

	back, err := Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, data, back)
}

func TestDecompressRejectsCorruptFrame(t *testing.T) {
	_, err := Decompress(append([]byte{0x28, 0xb5, 0x2f, 0xfd}, 0x00, 0x01))
	assert.Error(t, err)
}

func TestCompressConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data := []byte(strings.Repeat("row", 100))
			c, err := Compress(data)
			if !assert.NoError(t, err) {
				return
			}
			back, err := Decompress(c)
			assert.NoError(t, err)
			assert.Equal(t, data, back)
		}()
	}
	wg.Wait()
}
