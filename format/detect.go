// Package format identifies the document packages folio works with.
package format

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tsawler/folio/ziparchive"
)

// Format represents a supported package format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// ZIP indicates a ZIP archive that is neither DOCX nor ODT.
	ZIP
)

// MIME types of the recognized packages.
const (
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEODT  = "application/vnd.oasis.opendocument.text"
	MIMEZip  = "application/zip"
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case ZIP:
		return "ZIP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case ZIP:
		return ".zip"
	default:
		return ""
	}
}

// MIMEType returns the media type of the format, or "" for Unknown.
func (f Format) MIMEType() string {
	switch f {
	case DOCX:
		return MIMEDocx
	case ODT:
		return MIMEODT
	case ZIP:
		return MIMEZip
	default:
		return ""
	}
}

// FromExtension determines the format from a filename extension.
func FromExtension(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".zip":
		return ZIP
	default:
		return Unknown
	}
}

// Detect inspects package bytes. Content sniffing decides whether the data is
// a ZIP archive at all; the archive's own entries then tell DOCX from ODT.
func Detect(data []byte) Format {
	mt := mimetype.Detect(data)
	if !isZip(mt) {
		return Unknown
	}

	r, err := ziparchive.Open(data)
	if err != nil {
		// The sniffer may still know the package type from the first
		// local header even when the directory is unreadable.
		switch {
		case mt.Is(MIMEDocx):
			return DOCX
		case mt.Is(MIMEODT):
			return ODT
		}
		return Unknown
	}
	return detectPackage(r)
}

func isZip(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(MIMEZip) {
			return true
		}
	}
	return false
}

// detectPackage checks the ODF mimetype entry first, then the OOXML main
// document part.
func detectPackage(r *ziparchive.Reader) Format {
	if r.Has("mimetype") {
		if data, err := r.Extract("mimetype"); err == nil {
			if string(bytes.TrimSpace(data)) == MIMEODT {
				return ODT
			}
		}
	}
	if r.Has("[Content_Types].xml") {
		for _, e := range r.Entries() {
			if strings.HasPrefix(e.Path, "word/") {
				return DOCX
			}
		}
	}
	return ZIP
}
