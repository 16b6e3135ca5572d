package docx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ziparchive"
)

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// wrapBody wraps body markup in a w:document element.
func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:wp="` + nsWP + `" xmlns:a="` + nsA + `" xmlns:pic="` + nsPic + `">` +
		`<w:body>` + body + `</w:body></w:document>`
}

// buildPackage assembles a DOCX package around a document part. Extra
// entries are appended as given.
func buildPackage(t *testing.T, document string, extra ...ziparchive.Entry) []byte {
	t.Helper()
	entries := []ziparchive.Entry{
		{Path: partContentTypes, Data: []byte(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`)},
		{Path: partRootRels, Data: []byte(testRootRels)},
		{Path: partDocument, Data: []byte(document)},
	}
	data, err := ziparchive.MakeZip(append(entries, extra...))
	require.NoError(t, err)
	return data
}

// imageRels returns a document relationships part with one image.
func imageRels(relID, target string) ziparchive.Entry {
	return ziparchive.Entry{Path: partDocumentRels, Data: []byte(
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="` + relID + `" Type="` + relTypeImage + `" Target="` + target + `"/>` +
			`</Relationships>`)}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// importWith imports data with the default configuration adjusted by fn.
func importWith(t *testing.T, data []byte, fn func(*ReaderConfig)) *Result {
	t.Helper()
	cfg := DefaultReaderConfig()
	if fn != nil {
		fn(&cfg)
	}
	res, err := NewReader(cfg).Import(data)
	require.NoError(t, err)
	return res
}

func paragraphs(t *testing.T, doc *model.Document) []*model.Paragraph {
	t.Helper()
	var out []*model.Paragraph
	for _, b := range doc.Blocks {
		if p, ok := b.(*model.Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}
