package ziparchive

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tsawler/folio/internal/filters"
)

// Reader-related errors.
var (
	ErrMalformedArchive       = errors.New("ziparchive: malformed archive")
	ErrUnsupportedCompression = errors.New("ziparchive: unsupported compression method")
	ErrEntryNotFound          = errors.New("ziparchive: entry not found")
)

// centralEntry is a parsed central directory record.
type centralEntry struct {
	info        EntryInfo
	localOffset uint32
}

// Reader reads entries from an archive held entirely in memory.
type Reader struct {
	data    []byte
	entries []centralEntry
	index   map[string]int
}

// Open parses the end-of-central-directory record and the central directory
// of data. Entry contents are not touched until Extract.
func Open(data []byte) (*Reader, error) {
	eocd, err := findEndRecord(data)
	if err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	count := int(le.Uint16(data[eocd+10:]))
	cdOffset := int(le.Uint32(data[eocd+16:]))
	if cdOffset > eocd {
		return nil, fmt.Errorf("%w: central directory offset %d past end record", ErrMalformedArchive, cdOffset)
	}

	r := &Reader{
		data:    data,
		entries: make([]centralEntry, 0, count),
		index:   make(map[string]int, count),
	}

	pos := cdOffset
	for i := 0; i < count; i++ {
		if pos+centralDirLen > len(data) {
			return nil, fmt.Errorf("%w: central directory entry %d truncated", ErrMalformedArchive, i)
		}
		if le.Uint32(data[pos:]) != sigCentralDir {
			return nil, fmt.Errorf("%w: bad central directory signature at offset %d", ErrMalformedArchive, pos)
		}

		nameLen := int(le.Uint16(data[pos+28:]))
		extraLen := int(le.Uint16(data[pos+30:]))
		commentLen := int(le.Uint16(data[pos+32:]))
		next := pos + centralDirLen + nameLen + extraLen + commentLen
		if next > len(data) {
			return nil, fmt.Errorf("%w: central directory entry %d overruns archive", ErrMalformedArchive, i)
		}

		ce := centralEntry{
			info: EntryInfo{
				Path:             string(data[pos+centralDirLen : pos+centralDirLen+nameLen]),
				Method:           Method(le.Uint16(data[pos+10:])),
				CRC32:            le.Uint32(data[pos+16:]),
				CompressedSize:   le.Uint32(data[pos+20:]),
				UncompressedSize: le.Uint32(data[pos+24:]),
				Modified:         fromDOSTime(le.Uint16(data[pos+14:]), le.Uint16(data[pos+12:])),
			},
			localOffset: le.Uint32(data[pos+42:]),
		}
		if _, dup := r.index[ce.info.Path]; !dup {
			r.index[ce.info.Path] = len(r.entries)
		}
		r.entries = append(r.entries, ce)
		pos = next
	}

	return r, nil
}

// findEndRecord scans backward from the last possible position of the
// end-of-central-directory record. The record may be followed by a comment of
// up to 65535 bytes, which bounds the scan.
func findEndRecord(data []byte) (int, error) {
	if len(data) < endCentralLen {
		return 0, fmt.Errorf("%w: %d bytes is too short for a ZIP archive", ErrMalformedArchive, len(data))
	}

	lowest := len(data) - endCentralLen - maxCommentLen
	if lowest < 0 {
		lowest = 0
	}
	for i := len(data) - endCentralLen; i >= lowest; i-- {
		if binary.LittleEndian.Uint32(data[i:]) == sigEndCentral {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: end of central directory not found", ErrMalformedArchive)
}

// Entries lists the archive's entries in central directory order.
func (r *Reader) Entries() []EntryInfo {
	out := make([]EntryInfo, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.info
	}
	return out
}

// Has reports whether the archive contains an entry named name.
func (r *Reader) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Extract returns the uncompressed contents of the entry named name.
func (r *Reader) Extract(name string) ([]byte, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}
	return r.extract(r.entries[i])
}

func (r *Reader) extract(ce centralEntry) ([]byte, error) {
	info := ce.info
	if info.Method != Store && info.Method != Deflate {
		return nil, fmt.Errorf("%w: method %d for %s", ErrUnsupportedCompression, info.Method, info.Path)
	}

	le := binary.LittleEndian
	pos := int(ce.localOffset)
	if pos+localHeaderLen > len(r.data) {
		return nil, fmt.Errorf("%w: local header for %s out of bounds", ErrMalformedArchive, info.Path)
	}
	if le.Uint32(r.data[pos:]) != sigLocalFile {
		return nil, fmt.Errorf("%w: bad local header signature for %s", ErrMalformedArchive, info.Path)
	}

	// The local name/extra lengths may differ from the central copies, so the
	// data offset is computed from the local header itself. Sizes come from the
	// central directory because the local copies are zero when bit 3 is set.
	nameLen := int(le.Uint16(r.data[pos+26:]))
	extraLen := int(le.Uint16(r.data[pos+28:]))
	start := pos + localHeaderLen + nameLen + extraLen
	end := start + int(info.CompressedSize)
	if start > len(r.data) || end > len(r.data) || end < start {
		return nil, fmt.Errorf("%w: data for %s out of bounds", ErrMalformedArchive, info.Path)
	}
	raw := r.data[start:end]

	var out []byte
	switch info.Method {
	case Store:
		out = make([]byte, len(raw))
		copy(out, raw)
	case Deflate:
		inflated, err := filters.Inflate(raw, int64(info.UncompressedSize))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedArchive, info.Path, err)
		}
		out = inflated
	}

	if uint32(len(out)) != info.UncompressedSize {
		return nil, fmt.Errorf("%w: %s: size %d, expected %d", ErrMalformedArchive, info.Path, len(out), info.UncompressedSize)
	}
	if Checksum(out) != info.CRC32 {
		return nil, fmt.Errorf("%w: %s: CRC mismatch", ErrMalformedArchive, info.Path)
	}
	return out, nil
}

// ExtractFile returns the contents of the entry named name from archive.
func ExtractFile(name string, archive []byte) ([]byte, error) {
	r, err := Open(archive)
	if err != nil {
		return nil, err
	}
	return r.Extract(name)
}
