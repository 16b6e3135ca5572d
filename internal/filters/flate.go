package filters

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// maxDeflateRatio is the largest expansion a DEFLATE stream can encode:
// one 258-byte match per two bits, roughly 1032:1.
const maxDeflateRatio = 1032

// ErrOutputLimit is returned when a stream inflates past its limit.
var ErrOutputLimit = errors.New("inflated data exceeds limit")

// Inflate decompresses a raw DEFLATE stream (RFC 1951, no zlib header),
// the encoding ZIP uses for method 8 entries.
//
// limit is the largest output accepted; a negative limit means none. The
// output buffer is pre-sized from limit, capped at what data could
// possibly expand to.
func Inflate(data []byte, limit int64) ([]byte, error) {
	reader := flate.NewReader(bytes.NewReader(data))
	defer reader.Close()

	var src io.Reader = reader
	var buf bytes.Buffer
	if limit >= 0 {
		buf.Grow(int(min(limit, int64(len(data))*maxDeflateRatio)))
		src = io.LimitReader(reader, limit+1)
	}
	if _, err := io.Copy(&buf, src); err != nil {
		return nil, fmt.Errorf("failed to inflate: %w", err)
	}
	if limit >= 0 && int64(buf.Len()) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrOutputLimit, limit)
	}

	return buf.Bytes(), nil
}
