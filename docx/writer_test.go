package docx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ziparchive"
)

func exportParts(t *testing.T, doc *model.Document) *ziparchive.Reader {
	t.Helper()
	data, err := Export(doc, model.DefaultCatalog())
	require.NoError(t, err)
	pkg, err := ziparchive.Open(data)
	require.NoError(t, err)
	return pkg
}

func part(t *testing.T, pkg *ziparchive.Reader, name string) string {
	t.Helper()
	data, err := pkg.Extract(name)
	require.NoError(t, err)
	return string(data)
}

func TestExport_PackageParts(t *testing.T) {
	pkg := exportParts(t, model.NewDocument(model.NewParagraph(model.StyleBodyText, model.Run{Text: "Hello"})))

	var names []string
	for _, e := range pkg.Entries() {
		names = append(names, e.Path)
		assert.Equal(t, ziparchive.Store, e.Method, e.Path)
	}
	assert.Equal(t, []string{partContentTypes, partRootRels, partDocument, partStyles, partDocumentRels}, names)

	styles := part(t, pkg, partStyles)
	assert.Contains(t, styles, `w:styleId="BodyText"`)
	assert.Contains(t, styles, `<w:name w:val="Body Text"/>`)
	assert.Contains(t, styles, `<w:jc w:val="both"/>`)
}

func TestExport_NilDocument(t *testing.T) {
	_, err := Export(nil, nil)
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestExport_InheritedGeometryWritesStyleOnly(t *testing.T) {
	pkg := exportParts(t, model.NewDocument(model.NewParagraph(model.StyleBodyText, model.Run{Text: "Hello"})))
	body := part(t, pkg, partDocument)
	assert.Contains(t, body,
		`<w:p><w:pPr><w:pStyle w:val="BodyText"/></w:pPr><w:r><w:t xml:space="preserve">Hello</w:t></w:r></w:p>`)
}

func TestExport_ImportedGeometryWritesStyleOnly(t *testing.T) {
	data, err := Export(model.NewDocument(model.NewParagraph(model.StyleBodyText, model.Run{Text: "Hello"})), model.DefaultCatalog())
	require.NoError(t, err)
	imported := importWith(t, data, nil).Document
	paras := paragraphs(t, imported)
	require.Len(t, paras, 1)
	require.False(t, paras[0].Geometry.IsZero(), "import fills geometry from the catalog")

	body := part(t, exportParts(t, imported), partDocument)
	assert.Contains(t, body, `<w:pPr><w:pStyle w:val="BodyText"/></w:pPr>`)
	assert.NotContains(t, body, "<w:jc ")
}

func TestExport_ExplicitGeometry(t *testing.T) {
	p := model.NewParagraph(model.StyleBodyText, model.Run{Text: "Indented"})
	p.Geometry = model.ParagraphGeometry{
		Alignment:          model.AlignCenter,
		SpacingBefore:      6,
		LineHeightMultiple: 1.5,
		HeadIndent:         36,
		FirstLineIndent:    -18,
	}
	body := part(t, exportParts(t, model.NewDocument(p)), partDocument)

	assert.Contains(t, body, `<w:spacing w:before="120" w:after="0" w:line="360" w:lineRule="auto"/>`)
	assert.Contains(t, body, `<w:ind w:left="720" w:right="0" w:hanging="360"/>`)
	assert.Contains(t, body, `<w:jc w:val="center"/>`)
}

func TestExport_LeaderStyleUsesDotTab(t *testing.T) {
	p := model.NewParagraph(model.StyleTOCEntry, model.Run{Text: "Chapter One .......... 12\t"})
	body := part(t, exportParts(t, model.NewDocument(p)), partDocument)

	assert.Contains(t, body, `<w:tabs><w:tab w:val="right" w:leader="dot" w:pos="9360"/></w:tabs>`)
	assert.Contains(t, body,
		`<w:t xml:space="preserve">Chapter One</w:t><w:tab/><w:t xml:space="preserve">12</w:t>`)
	assert.NotContains(t, body, "....")
}

func TestExport_ContentTypesListUsedImagesOnly(t *testing.T) {
	doc := model.NewDocument(
		model.NewParagraph("", model.Run{Text: "Figure"}),
		&model.Image{Data: pngBytes(t, 4, 2), Width: 40, Height: 20},
	)
	pkg := exportParts(t, doc)

	ct := part(t, pkg, partContentTypes)
	assert.Contains(t, ct, `<Default Extension="png" ContentType="image/png"/>`)
	assert.NotContains(t, ct, `Extension="jpeg"`)
	assert.NotContains(t, ct, `Extension="gif"`)

	assert.Contains(t, part(t, pkg, partDocumentRels), `Target="media/image1.png"`)
	assert.True(t, pkg.Has("word/media/image1.png"))

	body := part(t, pkg, partDocument)
	assert.Contains(t, body, `<wp:extent cx="508000" cy="254000"/>`)
	assert.Contains(t, body, `name="image_w4000_h2000.png"`)
}

func TestExport_OmitsUnsizedUndecodableImage(t *testing.T) {
	pkg := exportParts(t, model.NewDocument(&model.Image{Data: []byte("not an image")}))
	assert.False(t, pkg.Has("word/media/image1.png"))
	assert.NotContains(t, part(t, pkg, partContentTypes), `Extension="png"`)
}

func TestExport_Tables(t *testing.T) {
	cell := func(text string) model.TableCell {
		return model.TableCell{Blocks: []model.Block{model.NewParagraph("", model.Run{Text: text})}}
	}
	data := &model.Table{Columns: 2, Rows: []model.TableRow{
		{Cells: []model.TableCell{cell("a"), cell("b")}},
		{Cells: []model.TableCell{cell("c")}},
	}}
	layout := &model.Table{ColumnLayout: true, Rows: []model.TableRow{
		{Cells: []model.TableCell{cell("left"), cell("right")}},
	}}
	body := part(t, exportParts(t, model.NewDocument(data, layout)), partDocument)

	assert.Contains(t, body, `<w:gridCol w:w="4680"/><w:gridCol w:w="4680"/>`)
	assert.Contains(t, body, `<w:top w:val="single" w:sz="8" w:space="0" w:color="000000"/>`)
	assert.Contains(t, body, `<w:top w:val="none" w:sz="0" w:space="0" w:color="auto"/>`)
	// The missing cell of the second row is padded with an empty paragraph.
	assert.Contains(t, body, `<w:tcW w:w="4680" w:type="dxa"/></w:tcPr><w:p/></w:tc>`)
}

func TestWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	doc := model.NewDocument(model.NewParagraph(model.StyleStanza, model.Run{Text: "A line of verse"}))

	w := NewWriter(DefaultWriterConfig())
	require.NoError(t, w.WriteFile(path, doc))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	res, err := NewReader(DefaultReaderConfig()).ReadFile(path)
	require.NoError(t, err)
	require.Len(t, res.Document.Blocks, 1)
	assert.Equal(t, model.StyleStanza, res.Document.Blocks[0].(*model.Paragraph).Style)

	err = w.WriteFile(filepath.Join(t.TempDir(), "missing", "out.docx"), doc)
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestRunPropsMarkup(t *testing.T) {
	assert.Empty(t, runPropsMarkup(model.Run{Text: "plain"}))
	assert.Equal(t, `<w:rPr><w:b/><w:bCs/></w:rPr>`, runPropsMarkup(model.Run{}.WithBold(true)))
	assert.Equal(t, `<w:rPr><w:i w:val="0"/><w:iCs w:val="0"/></w:rPr>`, runPropsMarkup(model.Run{}.WithItalic(false)))
	assert.Equal(t,
		`<w:rPr><w:color w:val="FF0000"/><w:position w:val="6"/><w:sz w:val="21"/><w:szCs w:val="21"/></w:rPr>`,
		runPropsMarkup(model.Run{}.WithColor(model.RGB(0xFF, 0, 0)).WithBaseline(3).WithSize(10.5)))
}

func TestRunMarkup(t *testing.T) {
	got := runMarkup(model.Run{Text: "a\tb\nc<d"})
	assert.Equal(t,
		`<w:r><w:t xml:space="preserve">a</w:t><w:tab/><w:t xml:space="preserve">b</w:t><w:br/><w:t xml:space="preserve">c&lt;d</w:t></w:r>`,
		got)
}
