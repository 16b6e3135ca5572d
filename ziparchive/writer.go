package ziparchive

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Writer assembles a STORE-only archive in memory. Entries are written in the
// order they are added, which lets callers put an ODT mimetype entry first.
type Writer struct {
	entries []Entry
	seen    map[string]bool
	comment string
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{seen: make(map[string]bool)}
}

// Add appends an entry. Paths must be unique and non-empty.
func (w *Writer) Add(e Entry) error {
	if e.Path == "" {
		return fmt.Errorf("ziparchive: empty entry path")
	}
	if w.seen[e.Path] {
		return fmt.Errorf("ziparchive: duplicate entry %q", e.Path)
	}
	if len(e.Path) > 0xffff {
		return fmt.Errorf("ziparchive: entry path too long (%d bytes)", len(e.Path))
	}
	if uint64(len(e.Data)) > 0xffffffff {
		return fmt.Errorf("ziparchive: entry %q exceeds 4 GiB", e.Path)
	}
	w.seen[e.Path] = true
	w.entries = append(w.entries, e)
	return nil
}

// SetComment sets the archive comment stored after the end record.
func (w *Writer) SetComment(comment string) error {
	if len(comment) > maxCommentLen {
		return fmt.Errorf("ziparchive: comment too long (%d bytes)", len(comment))
	}
	w.comment = comment
	return nil
}

// Bytes renders the archive: a local header and data per entry, the central
// directory, then one end-of-central-directory record.
func (w *Writer) Bytes() ([]byte, error) {
	if len(w.entries) > 0xffff {
		return nil, fmt.Errorf("ziparchive: too many entries (%d)", len(w.entries))
	}

	var body bytes.Buffer
	var central bytes.Buffer

	for _, e := range w.entries {
		offset := body.Len()
		if uint64(offset) > 0xffffffff {
			return nil, fmt.Errorf("ziparchive: archive exceeds 4 GiB")
		}
		h := newStoredHeader(e)
		body.Write(h.localHeader())
		body.Write(e.Data)
		central.Write(h.centralDirEntry(uint32(offset)))
	}

	cdOffset := body.Len()
	cdSize := central.Len()
	body.Write(central.Bytes())

	end := make([]byte, endCentralLen)
	le := binary.LittleEndian
	le.PutUint32(end[0:], sigEndCentral)
	le.PutUint16(end[4:], 0) // this disk
	le.PutUint16(end[6:], 0) // disk with central directory
	le.PutUint16(end[8:], uint16(len(w.entries)))
	le.PutUint16(end[10:], uint16(len(w.entries)))
	le.PutUint32(end[12:], uint32(cdSize))
	le.PutUint32(end[16:], uint32(cdOffset))
	le.PutUint16(end[20:], uint16(len(w.comment)))
	body.Write(end)
	body.WriteString(w.comment)

	return body.Bytes(), nil
}

// MakeZip builds a STORE-only archive from entries, in order.
func MakeZip(entries []Entry) ([]byte, error) {
	w := NewWriter()
	for _, e := range entries {
		if err := w.Add(e); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}
