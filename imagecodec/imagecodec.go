// Package imagecodec holds the image helpers shared by the document codecs:
// format sniffing, EMU conversion, intrinsic size decoding, and a file name
// scheme that records an image's size in points.
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF for DecodeConfig
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig
	"math"
	"regexp"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // register BMP for DecodeConfig
	_ "golang.org/x/image/tiff" // register TIFF for DecodeConfig
	_ "golang.org/x/image/webp" // register WebP for DecodeConfig
)

// ErrImageDecodeFailed is returned when image bytes cannot be decoded.
var ErrImageDecodeFailed = errors.New("imagecodec: image decode failed")

// Format is an image container format.
type Format int

const (
	Unknown Format = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
)

// String returns the format's name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	case WebP:
		return "WebP"
	default:
		return "Unknown"
	}
}

// Extension returns the file extension used for the format in packages.
func (f Format) Extension() string {
	switch f {
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	case WebP:
		return "webp"
	default:
		return "png"
	}
}

// ContentType returns the MIME type for a package file extension.
func ContentType(ext string) string {
	switch ext {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "tiff", "tif":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}

// sniffMagic checks the leading bytes for the four formats the DOCX writer
// packages.
func sniffMagic(data []byte) Format {
	switch {
	case len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return PNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return JPEG
	case len(data) >= 3 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F':
		return GIF
	case len(data) >= 2 && ((data[0] == 'I' && data[1] == 'I') || (data[0] == 'M' && data[1] == 'M')):
		return TIFF
	}
	return Unknown
}

// Detect identifies the image format of data. Magic bytes are checked first;
// anything else falls back to content sniffing.
func Detect(data []byte) Format {
	if f := sniffMagic(data); f != Unknown {
		return f
	}
	switch mimetype.Detect(data).String() {
	case "image/bmp":
		return BMP
	case "image/webp":
		return WebP
	}
	return Unknown
}

// Extension returns the package extension for data: png, jpeg, gif or tiff
// by magic bytes, and png for anything unrecognised.
func Extension(data []byte) string {
	return sniffMagic(data).Extension()
}

// Config is the intrinsic size of a decoded image.
type Config struct {
	Format Format
	Width  int // pixels
	Height int // pixels
}

// Points returns the intrinsic size in points, taking one pixel as one point
// (72 dpi).
func (c Config) Points() (w, h float64) {
	return float64(c.Width), float64(c.Height)
}

// Decode reads the image header of data.
func Decode(data []byte) (Config, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrImageDecodeFailed, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Config{}, fmt.Errorf("%w: empty image", ErrImageDecodeFailed)
	}
	return Config{Format: Detect(data), Width: cfg.Width, Height: cfg.Height}, nil
}

// EMUPerPoint is the number of English Metric Units in one point.
const EMUPerPoint = 12700

// EMUFromPoints converts points to EMU, rounded to the nearest unit.
func EMUFromPoints(points float64) int64 {
	return int64(math.Round(points * EMUPerPoint))
}

// PointsFromEMU converts EMU to points.
func PointsFromEMU(emu int64) float64 {
	return float64(emu) / EMUPerPoint
}

var sizeNameRe = regexp.MustCompile(`_w(\d+)_h(\d+)`)

// SizeName returns "image_w{W}_h{H}.{ext}" where W and H are the size in
// hundredths of a point. Export paths that drop attachment metadata keep the
// size recoverable through ParseSizeName.
func SizeName(width, height float64, ext string) string {
	return fmt.Sprintf("image_w%d_h%d.%s",
		int64(math.Round(width*100)), int64(math.Round(height*100)), ext)
}

// ParseSizeName extracts the size encoded by SizeName from name. It reports
// false when name carries no size or the size is zero.
func ParseSizeName(name string) (width, height float64, ok bool) {
	m := sizeNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	w, errW := strconv.ParseInt(m[1], 10, 64)
	h, errH := strconv.ParseInt(m[2], 10, 64)
	if errW != nil || errH != nil || w == 0 || h == 0 {
		return 0, 0, false
	}
	return float64(w) / 100, float64(h) / 100, true
}

// Bounds resolves an image's size in points: the encoded file name wins,
// then the decoded intrinsic size.
func Bounds(name string, data []byte) (width, height float64, err error) {
	if w, h, ok := ParseSizeName(name); ok {
		return w, h, nil
	}
	cfg, err := Decode(data)
	if err != nil {
		return 0, 0, err
	}
	w, h := cfg.Points()
	return w, h, nil
}
