package docx

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tsawler/folio/imagecodec"
	"github.com/tsawler/folio/internal/logging"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ziparchive"
)

// ErrExportFailed is returned when a document cannot be written.
var ErrExportFailed = errors.New("docx: export failed")

// WriterConfig controls page setup and style resolution for export.
// Lengths are in twips.
type WriterConfig struct {
	PageWidth    int
	PageHeight   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int

	// Styles resolves the paragraph style names used by the document. A nil
	// resolver writes style names without formatting.
	Styles model.StyleResolver

	// Modified is stamped on every package entry.
	Modified time.Time
}

// DefaultWriterConfig returns US Letter with one inch margins and the
// built-in style catalog.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		PageWidth:    12240,
		PageHeight:   15840,
		MarginTop:    1440,
		MarginRight:  1440,
		MarginBottom: 1440,
		MarginLeft:   1440,
		Styles:       model.DefaultCatalog(),
	}
}

// TextWidth returns the width between the side margins in twips.
func (c WriterConfig) TextWidth() int {
	w := c.PageWidth - c.MarginLeft - c.MarginRight
	if w <= 0 {
		return 9360
	}
	return w
}

// Writer serializes rich documents to DOCX packages. A Writer holds no
// per-document state and is safe for concurrent use.
type Writer struct {
	cfg WriterConfig
}

// NewWriter creates a Writer. Zero page dimensions are replaced by the
// defaults.
func NewWriter(cfg WriterConfig) *Writer {
	def := DefaultWriterConfig()
	if cfg.PageWidth <= 0 || cfg.PageHeight <= 0 {
		cfg.PageWidth, cfg.PageHeight = def.PageWidth, def.PageHeight
	}
	return &Writer{cfg: cfg}
}

// Export renders doc as a DOCX package using the built-in page setup and
// styles.
func Export(doc *model.Document, styles model.StyleResolver) ([]byte, error) {
	cfg := DefaultWriterConfig()
	cfg.Styles = styles
	return NewWriter(cfg).Export(doc)
}

// Export renders doc as a DOCX package. The document is read only.
func (w *Writer) Export(doc *model.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrExportFailed)
	}
	st := newExportState(w.cfg)
	st.writeBlocks(doc.Blocks)

	styleNames := doc.StyleNames()
	entries := []ziparchive.Entry{
		{Path: partContentTypes, Data: []byte(st.contentTypes())},
		{Path: partRootRels, Data: []byte(rootRelsXML)},
		{Path: partDocument, Data: []byte(st.documentXML())},
		{Path: partStyles, Data: []byte(st.stylesXML(styleNames))},
		{Path: partDocumentRels, Data: []byte(st.documentRels())},
	}
	for _, m := range st.media {
		entries = append(entries, ziparchive.Entry{Path: "word/" + m.target, Data: m.data})
	}

	zw := ziparchive.NewWriter()
	for _, e := range entries {
		e.Modified = w.cfg.Modified
		if err := zw.Add(e); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
		}
	}
	out, err := zw.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	logging.L().Debug("docx export",
		"blocks", len(doc.Blocks), "styles", len(styleNames), "media", len(st.media), "bytes", len(out))
	return out, nil
}

// WriteFile exports doc to path. A destination that does not exist after a
// successful write is reported as a failure.
func (w *Writer) WriteFile(path string, doc *model.Document) error {
	data, err := w.Export(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s missing after write: %w", ErrExportFailed, path, err)
	}
	if info.Size() != int64(len(data)) {
		return fmt.Errorf("%w: %s has %d bytes, wrote %d", ErrExportFailed, path, info.Size(), len(data))
	}
	return nil
}

// mediaPart is an image registered with the package.
type mediaPart struct {
	relID  string
	target string // relative to word/
	data   []byte
}

// exportState accumulates one document's body, relationships and media.
type exportState struct {
	cfg       WriterConfig
	body      strings.Builder
	media     []mediaPart
	exts      map[string]bool
	nextRel   int
	nextImage int
	nextDocPr int
}

func newExportState(cfg WriterConfig) *exportState {
	return &exportState{
		cfg:     cfg,
		exts:    make(map[string]bool),
		nextRel: 2, // rId1 is the styles part
	}
}

func (st *exportState) lookup(name string) (model.StyleDefinition, bool) {
	if name == "" || st.cfg.Styles == nil {
		return model.StyleDefinition{}, false
	}
	def, ok := st.cfg.Styles.Lookup(name)
	if !ok {
		logging.L().Debug("style not in catalog", "style", name)
	}
	return def, ok
}

func (st *exportState) writeBlocks(blocks []model.Block) {
	for _, b := range blocks {
		switch v := b.(type) {
		case *model.Paragraph:
			st.writeParagraph(v)
		case *model.Table:
			st.writeTable(v)
		case *model.Image:
			st.writeImage(v)
		}
	}
}

// addImage registers image bytes as a media part and returns its
// relationship ID.
func (st *exportState) addImage(data []byte, ext string) string {
	st.nextImage++
	m := mediaPart{
		relID:  fmt.Sprintf("rId%d", st.nextRel),
		target: fmt.Sprintf("media/image%d.%s", st.nextImage, ext),
		data:   data,
	}
	st.nextRel++
	st.media = append(st.media, m)
	st.exts[ext] = true
	return m.relID
}

// writeImage emits an image as its own paragraph holding an inline drawing.
// Images whose size cannot be determined are omitted.
func (st *exportState) writeImage(img *model.Image) {
	if len(img.Data) == 0 {
		logging.L().Warn("omitting empty image")
		return
	}
	ext := imagecodec.Extension(img.Data)
	w, h := img.Width, img.Height
	if w <= 0 || h <= 0 {
		cfg, err := imagecodec.Decode(img.Data)
		if err != nil {
			logging.L().Warn("omitting image without size", "error", err)
			return
		}
		w, h = cfg.Points()
	}
	relID := st.addImage(img.Data, ext)
	st.nextDocPr++
	st.body.WriteString("<w:p><w:r>")
	st.body.WriteString(drawingMarkup(relID, st.nextDocPr, imagecodec.SizeName(w, h, ext),
		imagecodec.EMUFromPoints(w), imagecodec.EMUFromPoints(h)))
	st.body.WriteString("</w:r></w:p>")
}

func (st *exportState) writeParagraph(p *model.Paragraph) {
	def, known := st.lookup(p.Style)
	runs := model.Coalesce(p.Runs)
	leader := model.IsLeaderStyle(p.Style)
	if leader {
		runs = StripLeaderDots(runs)
	}

	// Geometry equal to the catalog's is what the importers produce for an
	// unmodified styled paragraph, so it is written as style-only too.
	g := p.Geometry
	inherit := g.IsZero() || (known && g.Equal(def.Geometry()))
	if inherit && known {
		g = def.Geometry()
	}
	if leader {
		g.TabStops = st.leaderTabs(g.TabStops)
	}

	st.body.WriteString("<w:p>")
	st.body.WriteString(paragraphPropsMarkup(p.Style, g, inherit))
	for _, r := range runs {
		st.body.WriteString(runMarkup(r))
	}
	st.body.WriteString("</w:p>")
}

// leaderTabs gives every stop a dot leader, adding a right-aligned stop at
// the text margin when the paragraph has none.
func (st *exportState) leaderTabs(stops []model.TabStop) []model.TabStop {
	if len(stops) == 0 {
		return []model.TabStop{{
			Position:  model.PointsFromTwips(float64(st.cfg.TextWidth())),
			Alignment: model.TabRight,
			Leader:    model.LeaderDot,
		}}
	}
	out := make([]model.TabStop, len(stops))
	for i, ts := range stops {
		ts.Leader = model.LeaderDot
		out[i] = ts
	}
	return out
}

func (st *exportState) writeTable(t *model.Table) {
	cols := t.Columns
	for _, row := range t.Rows {
		cols = max(cols, len(row.Cells))
	}
	if cols == 0 {
		return
	}
	colWidth := st.cfg.TextWidth() / cols

	st.body.WriteString("<w:tbl>")
	st.body.WriteString(tablePropsMarkup(t.ColumnLayout))
	st.body.WriteString("<w:tblGrid>")
	for i := 0; i < cols; i++ {
		fmt.Fprintf(&st.body, `<w:gridCol w:w="%d"/>`, colWidth)
	}
	st.body.WriteString("</w:tblGrid>")
	for _, row := range t.Rows {
		st.body.WriteString("<w:tr>")
		for i := 0; i < cols; i++ {
			fmt.Fprintf(&st.body, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, colWidth)
			var blocks []model.Block
			if i < len(row.Cells) {
				blocks = row.Cells[i].Blocks
			}
			st.writeBlocks(blocks)
			// A cell must end with a paragraph.
			if n := len(blocks); n == 0 || blocks[n-1].Type() == model.BlockTypeTable {
				st.body.WriteString("<w:p/>")
			}
			st.body.WriteString("</w:tc>")
		}
		st.body.WriteString("</w:tr>")
	}
	st.body.WriteString("</w:tbl>")
}
