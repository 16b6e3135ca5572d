// Package filters provides the DEFLATE decoder used by the ZIP container.
//
// ZIP entries with compression method 8 hold a raw DEFLATE stream with no
// zlib header or trailer:
//
//	data, err := filters.Inflate(compressed, int64(uncompressedSize))
//
// The container writer never compresses, so there is no encoder.
package filters
