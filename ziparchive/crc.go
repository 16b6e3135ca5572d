package ziparchive

import "hash/crc32"

// crcTable is the IEEE polynomial table ZIP uses.
var crcTable = crc32.MakeTable(crc32.IEEE)

// Checksum returns the CRC-32 of data as stored in ZIP headers.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, crcTable)
}
