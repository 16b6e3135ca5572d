package docx

import (
	"bytes"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Repair removes bytes that make producer output unparseable: characters
// outside the XML 1.0 Char production, invalid UTF-8, whitespace between
// '<' and a tag name or before a tag's closing '>', and runs of
// non-printable noise between tags. It only ever deletes bytes and never
// fails.
func Repair(data []byte) []byte {
	out := stripIllegalChars(data)
	out = tagOpenSpace.ReplaceAll(out, []byte("<$1"))
	out = tagCloseSpace.ReplaceAll(out, []byte("$1$2"))
	return stripNoise(out)
}

var (
	tagOpenSpace  = regexp.MustCompile(`<\s+(/?[A-Za-z_?!])`)
	tagCloseSpace = regexp.MustCompile(`(<[^<>"]*(?:"[^"]*"[^<>"]*)*?)\s+(/?>)`)
)

// isXMLChar reports whether r is allowed in an XML 1.0 document.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func stripIllegalChars(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if (r == utf8.RuneError && size <= 1) || !isXMLChar(r) {
			i += size
			continue
		}
		out = append(out, data[i:i+size]...)
		i += size
	}
	return out
}

// stripNoise removes text segments between tags that consist only of
// control or private-use characters. Segments holding any other text,
// format characters such as a soft hyphen or zero-width joiner included,
// are kept untouched.
func stripNoise(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for {
		gt := bytes.IndexByte(data, '>')
		if gt < 0 {
			out.Write(data)
			return out.Bytes()
		}
		out.Write(data[:gt+1])
		data = data[gt+1:]
		lt := bytes.IndexByte(data, '<')
		if lt < 0 {
			out.Write(data)
			return out.Bytes()
		}
		if !isNoise(data[:lt]) {
			out.Write(data[:lt])
		}
		data = data[lt:]
	}
}

func isNoise(seg []byte) bool {
	if len(seg) == 0 {
		return false
	}
	sawNoise := false
	for _, r := range string(seg) {
		switch {
		case unicode.IsSpace(r):
		case r == utf8.RuneError || unicode.IsControl(r) || unicode.Is(unicode.Co, r):
			sawNoise = true
		default:
			return false
		}
	}
	return sawNoise
}
