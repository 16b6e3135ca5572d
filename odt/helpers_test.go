package odt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/ziparchive"
)

const manifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.3">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.text"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>`

// wrapContent builds content.xml from automatic style and body markup.
func wrapContent(styles, body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<office:document-content` +
		` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
		` xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"` +
		` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
		` xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"` +
		` xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"` +
		` office:version="1.3">` +
		`<office:automatic-styles>` + styles + `</office:automatic-styles>` +
		`<office:body><office:text>` + body + `</office:text></office:body>` +
		`</office:document-content>`
}

// buildODT packs content.xml into a minimal ODT with the mimetype first.
func buildODT(t *testing.T, content string) []byte {
	t.Helper()
	data, err := ziparchive.MakeZip([]ziparchive.Entry{
		{Path: "mimetype", Data: []byte(format.MIMEODT)},
		{Path: "content.xml", Data: []byte(content)},
		{Path: "META-INF/manifest.xml", Data: []byte(manifestXML)},
	})
	require.NoError(t, err)
	return data
}

// failingArchiver simulates missing archive tools.
type failingArchiver struct{}

var errNoTools = errors.New("tools unavailable")

func (failingArchiver) Unpack(context.Context, string, string) error { return errNoTools }
func (failingArchiver) Pack(context.Context, string, string) error   { return errNoTools }

// countingArchiver records calls before delegating to NativeArchiver.
type countingArchiver struct {
	NativeArchiver
	unpacks, packs int
}

func (a *countingArchiver) Unpack(ctx context.Context, archive, dir string) error {
	a.unpacks++
	return a.NativeArchiver.Unpack(ctx, archive, dir)
}

func (a *countingArchiver) Pack(ctx context.Context, dir, archive string) error {
	a.packs++
	return a.NativeArchiver.Pack(ctx, dir, archive)
}
