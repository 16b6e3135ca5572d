package ziparchive

import (
	"encoding/binary"
	"time"
	"unicode/utf8"
)

// ZIP record signatures.
const (
	sigLocalFile  = 0x04034b50
	sigCentralDir = 0x02014b50
	sigEndCentral = 0x06054b50
)

// Fixed record sizes, excluding variable-length name/extra/comment fields.
const (
	localHeaderLen = 30
	centralDirLen  = 46
	endCentralLen  = 22
	maxCommentLen  = 65535
)

const (
	zipVersion = 20     // 2.0, minimum for DEFLATE
	flagUTF8   = 0x0800 // bit 11: name is UTF-8
)

// Method is a ZIP compression method.
type Method uint16

const (
	// Store holds entry data verbatim.
	Store Method = 0
	// Deflate holds entry data as a raw DEFLATE stream.
	Deflate Method = 8
)

// String returns the conventional name of the method.
func (m Method) String() string {
	switch m {
	case Store:
		return "Stored"
	case Deflate:
		return "Deflate"
	default:
		return "Unknown"
	}
}

// Entry is one file in an archive.
type Entry struct {
	Path     string
	Data     []byte
	Modified time.Time // zero means the DOS epoch (1980-01-01)
}

// EntryInfo describes an entry found in an archive's central directory.
type EntryInfo struct {
	Path             string
	Method           Method
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Modified         time.Time
}

// header holds every field shared by the local file header and the central
// directory record of a single entry. Both records are rendered from the same
// value so their name length, CRC and sizes cannot disagree.
type header struct {
	name           string
	method         Method
	flags          uint16
	crc            uint32
	compressedSize uint32
	size           uint32
	dosTime        uint16
	dosDate        uint16
}

// newStoredHeader builds the header for a STORE entry.
func newStoredHeader(e Entry) header {
	h := header{
		name:           e.Path,
		method:         Store,
		crc:            Checksum(e.Data),
		compressedSize: uint32(len(e.Data)),
		size:           uint32(len(e.Data)),
	}
	h.dosDate, h.dosTime = toDOSTime(e.Modified)
	if !isASCII(e.Path) && utf8.ValidString(e.Path) {
		h.flags |= flagUTF8
	}
	return h
}

// localHeader renders the local file header that precedes the entry data.
func (h header) localHeader() []byte {
	b := make([]byte, localHeaderLen+len(h.name))
	le := binary.LittleEndian
	le.PutUint32(b[0:], sigLocalFile)
	le.PutUint16(b[4:], zipVersion)
	le.PutUint16(b[6:], h.flags)
	le.PutUint16(b[8:], uint16(h.method))
	le.PutUint16(b[10:], h.dosTime)
	le.PutUint16(b[12:], h.dosDate)
	le.PutUint32(b[14:], h.crc)
	le.PutUint32(b[18:], h.compressedSize)
	le.PutUint32(b[22:], h.size)
	le.PutUint16(b[26:], uint16(len(h.name)))
	le.PutUint16(b[28:], 0) // extra length
	copy(b[localHeaderLen:], h.name)
	return b
}

// centralDirEntry renders the central directory record pointing at a local
// header written at offset.
func (h header) centralDirEntry(offset uint32) []byte {
	b := make([]byte, centralDirLen+len(h.name))
	le := binary.LittleEndian
	le.PutUint32(b[0:], sigCentralDir)
	le.PutUint16(b[4:], zipVersion) // version made by
	le.PutUint16(b[6:], zipVersion) // version needed
	le.PutUint16(b[8:], h.flags)
	le.PutUint16(b[10:], uint16(h.method))
	le.PutUint16(b[12:], h.dosTime)
	le.PutUint16(b[14:], h.dosDate)
	le.PutUint32(b[16:], h.crc)
	le.PutUint32(b[20:], h.compressedSize)
	le.PutUint32(b[24:], h.size)
	le.PutUint16(b[28:], uint16(len(h.name)))
	le.PutUint16(b[30:], 0) // extra length
	le.PutUint16(b[32:], 0) // comment length
	le.PutUint16(b[34:], 0) // disk number start
	le.PutUint16(b[36:], 0) // internal attributes
	le.PutUint32(b[38:], 0) // external attributes
	le.PutUint32(b[42:], offset)
	copy(b[centralDirLen:], h.name)
	return b
}

// toDOSTime converts t to MS-DOS date and time fields. Times before 1980
// clamp to the DOS epoch.
func toDOSTime(t time.Time) (date, clock uint16) {
	if t.IsZero() || t.Year() < 1980 {
		return 1<<5 | 1, 0
	}
	date = uint16(t.Day() + int(t.Month())<<5 + (t.Year()-1980)<<9)
	clock = uint16(t.Second()/2 + t.Minute()<<5 + t.Hour()<<11)
	return date, clock
}

// fromDOSTime is the inverse of toDOSTime.
func fromDOSTime(date, clock uint16) time.Time {
	return time.Date(
		int(date>>9)+1980,
		time.Month(date>>5&0xf),
		int(date&0x1f),
		int(clock>>11),
		int(clock>>5&0x3f),
		int(clock&0x1f*2),
		0,
		time.UTC,
	)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
