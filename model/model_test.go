package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	base := Run{}.WithFont("Georgia").WithSize(12)
	bold := base.WithBold(true)

	tests := []struct {
		name  string
		input []Run
		want  []string
	}{
		{"empty", nil, nil},
		{"identical neighbours merge", []Run{withText(base, "Hello, "), withText(base, "world")}, []string{"Hello, world"}},
		{"different attributes stay apart", []Run{withText(base, "plain "), withText(bold, "bold")}, []string{"plain ", "bold"}},
		{"empty runs dropped", []Run{withText(base, "a"), withText(bold, ""), withText(base, "b")}, []string{"ab"}},
		{"non-adjacent not merged", []Run{withText(base, "a"), withText(bold, "b"), withText(base, "c")}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coalesce(tt.input)
			var texts []string
			for _, r := range got {
				texts = append(texts, r.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestSameAttributesRespectsSetMask(t *testing.T) {
	a := Run{Bold: true}
	b := Run{Bold: false}
	assert.True(t, a.SameAttributes(b), "unset attributes are not compared")

	assert.False(t, a.WithBold(true).SameAttributes(b.WithBold(false)))
	assert.False(t, a.WithBold(true).SameAttributes(a), "set mask differs")
	assert.True(t, Run{}.WithColor(RGB(1, 2, 3)).SameAttributes(Run{}.WithColor(RGB(1, 2, 3))))
}

func TestApplyDefaultsKeepsExplicitAttributes(t *testing.T) {
	gray := RGB(0x33, 0x33, 0x33)
	def := StyleDefinition{Name: "Heading 1", FontName: "Georgia", FontSize: 18, Bold: true, TextColor: &gray}

	r := Run{Text: "x"}.WithItalic(true).WithBold(false).WithSize(20)
	r.ApplyDefaults(def)

	assert.Equal(t, "Georgia", r.Font)
	assert.Equal(t, 20.0, r.Size, "explicit size wins")
	assert.False(t, r.Bold, "explicit un-bold wins")
	assert.True(t, r.Italic)
	assert.Equal(t, gray, r.Color)
	assert.True(t, r.Has(AttrFont|AttrColor))
	assert.False(t, r.Has(AttrBackground))
}

func TestInferStylePrefersTitleOverHeading(t *testing.T) {
	p := &Paragraph{
		Geometry: ParagraphGeometry{Alignment: AlignCenter},
		Runs:     []Run{Run{Text: "A Tale of Two Cities"}.WithSize(24).WithBold(true)},
	}

	name, score := InferStyle(p, DefaultCatalog().Styles())
	assert.Equal(t, StyleBookTitle, name)
	assert.Greater(t, score, 0)

	// Heading 1 matches alignment and weight but not size, so it scores lower.
	_, headingOnly := InferStyle(p, []StyleDefinition{mustLookup(t, StyleHeading1)})
	assert.Less(t, headingOnly, score)
}

func TestInferStyleTieGoesToEarlierStyle(t *testing.T) {
	a := StyleDefinition{Name: "First", FontSize: 12}
	b := StyleDefinition{Name: "Second", FontSize: 12}
	p := &Paragraph{Runs: []Run{Run{Text: "same"}.WithSize(12)}}

	name, _ := InferStyle(p, []StyleDefinition{a, b})
	assert.Equal(t, "First", name)
}

func TestInferStyleUsesDominantRun(t *testing.T) {
	p := &Paragraph{
		Geometry: ParagraphGeometry{Alignment: AlignJustify},
		Runs: []Run{
			Run{Text: "1."}.WithSize(24).WithBold(true),
			Run{Text: "It was the best of times, it was the worst of times."}.WithSize(12).WithFont("Georgia"),
		},
	}
	name, _ := InferStyle(p, DefaultCatalog().Styles())
	assert.Equal(t, StyleBodyText, name)
}

func TestInferStyleEmptyCatalog(t *testing.T) {
	name, score := InferStyle(&Paragraph{}, nil)
	assert.Empty(t, name)
	assert.Zero(t, score)
}

func TestNormalizeTextColors(t *testing.T) {
	theme := RGB(0x20, 0x20, 0x20)
	doc := NewDocument(
		NewParagraph("",
			Run{Text: "white"}.WithColor(White),
			Run{Text: "faint"}.WithColor(Color{R: 0, G: 0, B: 0, A: 0x20}),
			Run{Text: "missing"},
			Run{Text: "fine"}.WithColor(RGB(0x80, 0, 0)),
		),
		&Table{Rows: []TableRow{{Cells: []TableCell{{Blocks: []Block{
			NewParagraph("", Run{Text: "in cell"}.WithColor(RGB(0xf8, 0xf8, 0xf8))),
		}}}}}},
	)

	changed := NormalizeTextColors(doc.Blocks, theme)
	assert.Equal(t, 4, changed)

	paras := doc.Paragraphs()
	require.Len(t, paras, 2)
	assert.Equal(t, theme, paras[0].Runs[0].Color)
	assert.Equal(t, theme, paras[0].Runs[1].Color)
	assert.Equal(t, theme, paras[0].Runs[2].Color)
	assert.Equal(t, RGB(0x80, 0, 0), paras[0].Runs[3].Color)
	assert.Equal(t, theme, paras[1].Runs[0].Color)
}

func TestColor(t *testing.T) {
	c, ok := ParseHex("#4472c4")
	require.True(t, ok)
	assert.Equal(t, RGB(0x44, 0x72, 0xC4), c)
	assert.Equal(t, "4472C4", c.Hex())

	for _, bad := range []string{"", "auto", "12345", "GGGGGG", "1234567"} {
		_, ok := ParseHex(bad)
		assert.False(t, ok, bad)
	}

	assert.InDelta(t, 1.0, White.Luminance(), 1e-9)
	assert.InDelta(t, 0.0, Black.Luminance(), 1e-9)
	assert.Equal(t, RGB(0x80, 0x80, 0x80), Black.Mix(White, 0.5))
	assert.Equal(t, Black, Black.Mix(White, 0))
	assert.Equal(t, White, Black.Mix(White, 1))
}

func TestLoadCatalog(t *testing.T) {
	src := `
styles:
  - name: Body Text
    font: Palatino
    size: 11
    alignment: justify
    first_line_indent: 18
    spacing_after: 6
    color: "222222"
  - name: Chapter Title
    font: Palatino
    size: 20
    bold: true
    alignment: center
    background: "#FFFF00"
`
	cat, err := LoadCatalog(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"Body Text", "Chapter Title"}, cat.Names())

	body, ok := cat.Lookup("Body Text")
	require.True(t, ok)
	assert.Equal(t, AlignJustify, body.Alignment)
	assert.Equal(t, 18.0, body.FirstLineIndent)
	require.NotNil(t, body.TextColor)
	assert.Equal(t, RGB(0x22, 0x22, 0x22), *body.TextColor)

	title, ok := cat.Lookup("Chapter Title")
	require.True(t, ok)
	assert.True(t, title.Bold)
	require.NotNil(t, title.BackgroundColor)
	assert.Equal(t, RGB(0xff, 0xff, 0), *title.BackgroundColor)

	_, ok = cat.Lookup("Heading 9")
	assert.False(t, ok)
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad alignment", "styles:\n  - name: X\n    alignment: sideways\n"},
		{"bad color", "styles:\n  - name: X\n    color: blue\n"},
		{"missing name", "styles:\n  - font: Georgia\n"},
		{"unknown field", "styles:\n  - name: X\n    colour: \"000000\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogEmpty(t *testing.T) {
	cat, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cat.Names())
}

func TestStyleID(t *testing.T) {
	tests := map[string]string{
		"Body Text":      "BodyText",
		"TOC Entry":      "TOCEntry",
		"Heading 1":      "Heading1",
		"Scene Break (*)": "SceneBreak",
		"Épigraphe":      "pigraphe",
		"***":            "CustomStyle",
	}
	for name, want := range tests {
		assert.Equal(t, want, StyleID(name), name)
	}
}

func TestIsLeaderStyle(t *testing.T) {
	assert.True(t, IsLeaderStyle(StyleTOCEntry))
	assert.True(t, IsLeaderStyle(StyleIndexEntry))
	assert.True(t, IsLeaderStyle("Table of Contents 2"))
	assert.False(t, IsLeaderStyle(StyleBodyText))
}

func TestDocumentWalkAndText(t *testing.T) {
	img := &Image{Data: []byte{1}, Ext: "png", Width: 10, Height: 20}
	doc := NewDocument(
		NewParagraph(StyleBookTitle, Run{Text: "Title"}),
		&Table{Columns: 2, ColumnLayout: true, Rows: []TableRow{{Cells: []TableCell{
			{Blocks: []Block{NewParagraph(StyleBodyText, Run{Text: "left"})}},
			{Blocks: []Block{NewParagraph(StyleStanza, Run{Text: "right"}), img}},
		}}}},
		NewParagraph(StyleBodyText, Run{Text: "after"}),
	)

	assert.Equal(t, "Title\nleft\tright\nafter", doc.Text())
	assert.Len(t, doc.Paragraphs(), 4)
	assert.Equal(t, []*Image{img}, doc.Images())
	assert.Equal(t, []string{StyleBookTitle, StyleBodyText, StyleStanza}, doc.StyleNames())

	tbl := doc.Blocks[1].(*Table)
	assert.NotNil(t, tbl.Cell(0, 1))
	assert.Nil(t, tbl.Cell(1, 0))
	assert.Equal(t, "Table", tbl.Type().String())
}

func TestGeometryEqualAndUnits(t *testing.T) {
	g := ParagraphGeometry{HeadIndent: 36, FirstLineIndent: -18, TabStops: []TabStop{{Position: 468, Alignment: TabRight, Leader: LeaderDot}}}
	h := g
	h.HeadIndent = 36.01
	assert.True(t, g.Equal(h))
	h.TabStops = nil
	assert.False(t, g.Equal(h))
	assert.Equal(t, 18.0, g.FirstLineStart())

	assert.Equal(t, 720, Twips(36))
	assert.Equal(t, 36.0, PointsFromTwips(720))
	assert.Equal(t, 24, HalfPoints(12))
	assert.Equal(t, 12.0, PointsFromHalfPoints(24))
}

func withText(r Run, text string) Run {
	r.Text = text
	return r
}

func mustLookup(t *testing.T, name string) StyleDefinition {
	t.Helper()
	def, ok := DefaultCatalog().Lookup(name)
	require.True(t, ok, name)
	return def
}
