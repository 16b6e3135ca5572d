package filters

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deflate compresses data as a raw DEFLATE stream.
func deflate(t *testing.T, data []byte, level int) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, level)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestInflateRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		level int
	}{
		{"short text", []byte("Hello, World! This is test data for Inflate."), flate.DefaultCompression},
		{"repetitive", []byte(strings.Repeat("<w:p><w:r><w:t>abc</w:t></w:r></w:p>", 500)), flate.BestCompression},
		{"stored blocks", []byte("no compression at all"), flate.NoCompression},
		{"empty", []byte{}, flate.DefaultCompression},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed := deflate(t, tt.input, tt.level)

			decoded, err := Inflate(compressed, int64(len(tt.input)))
			require.NoError(t, err)
			assert.True(t, bytes.Equal(decoded, tt.input), "decoded data doesn't match original")
		})
	}
}

func TestInflateWithoutLimit(t *testing.T) {
	original := []byte(strings.Repeat("leader ", 100))
	compressed := deflate(t, original, flate.BestSpeed)

	decoded, err := Inflate(compressed, -1)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestInflateOverLimit(t *testing.T) {
	original := []byte(strings.Repeat("a", 4096))
	compressed := deflate(t, original, flate.BestCompression)

	_, err := Inflate(compressed, 100)
	assert.True(t, errors.Is(err, ErrOutputLimit), "got %v", err)
}

func TestInflateHugeLimitOnSmallInput(t *testing.T) {
	// A limit far beyond what the input can expand to must not be
	// allocated up front.
	original := []byte("tiny")
	compressed := deflate(t, original, flate.DefaultCompression)

	decoded, err := Inflate(compressed, 1<<40)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Less(t, cap(decoded), 1<<20)
}

func TestInflateCorruptData(t *testing.T) {
	_, err := Inflate([]byte{0xff, 0xff, 0xff, 0xff, 0x00}, -1)
	assert.Error(t, err)
}
