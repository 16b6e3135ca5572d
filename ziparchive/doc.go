// Package ziparchive reads and writes ZIP archives held in memory.
//
// Reading walks the end-of-central-directory record and the central
// directory, then extracts STORE (method 0) or DEFLATE (method 8) entries:
//
//	data, err := ziparchive.ExtractFile("word/document.xml", archive)
//	if errors.Is(err, ziparchive.ErrEntryNotFound) {
//	    // not a DOCX package
//	}
//
// Writing is STORE-only. Entries keep the order they were added in:
//
//	out, err := ziparchive.MakeZip([]ziparchive.Entry{
//	    {Path: "mimetype", Data: []byte("application/vnd.oasis.opendocument.text")},
//	    {Path: "content.xml", Data: content},
//	})
//
// ZIP64, encryption, multi-disk archives and data descriptors on write are
// not supported.
package ziparchive
