package folio

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/folio/imagecodec"
	"github.com/tsawler/folio/model"
)

// ErrInvalidDocumentFile is returned for a document file that does not
// describe a valid document.
var ErrInvalidDocumentFile = errors.New("folio: invalid document file")

// DocumentFile is the YAML and JSON form of a model.Document used by the
// command line tool. Each block sets exactly one of its fields.
//
//	blocks:
//	  - paragraph:
//	      style: Heading 1
//	      runs:
//	        - text: Chapter One
//	  - image:
//	      path: figure.png
//	      width: 144
//	      height: 96
type DocumentFile struct {
	Blocks []BlockFile `yaml:"blocks" json:"blocks"`
}

// BlockFile is one block of a DocumentFile.
type BlockFile struct {
	Paragraph *ParagraphFile `yaml:"paragraph,omitempty" json:"paragraph,omitempty"`
	Table     *TableFile     `yaml:"table,omitempty" json:"table,omitempty"`
	Image     *ImageFile     `yaml:"image,omitempty" json:"image,omitempty"`
}

// ParagraphFile is a paragraph. A nil geometry inherits the style's.
type ParagraphFile struct {
	Style    string        `yaml:"style,omitempty" json:"style,omitempty"`
	Geometry *GeometryFile `yaml:"geometry,omitempty" json:"geometry,omitempty"`
	Runs     []RunFile     `yaml:"runs" json:"runs"`
}

// GeometryFile is explicit paragraph geometry in points.
type GeometryFile struct {
	Alignment          string        `yaml:"alignment,omitempty" json:"alignment,omitempty"`
	HeadIndent         float64       `yaml:"head_indent,omitempty" json:"head_indent,omitempty"`
	FirstLineIndent    float64       `yaml:"first_line_indent,omitempty" json:"first_line_indent,omitempty"`
	TailIndent         float64       `yaml:"tail_indent,omitempty" json:"tail_indent,omitempty"`
	SpacingBefore      float64       `yaml:"spacing_before,omitempty" json:"spacing_before,omitempty"`
	SpacingAfter       float64       `yaml:"spacing_after,omitempty" json:"spacing_after,omitempty"`
	LineHeightMultiple float64       `yaml:"line_height_multiple,omitempty" json:"line_height_multiple,omitempty"`
	TabStops           []TabStopFile `yaml:"tab_stops,omitempty" json:"tab_stops,omitempty"`
}

// TabStopFile is a tab stop.
type TabStopFile struct {
	Position  float64 `yaml:"position" json:"position"`
	Alignment string  `yaml:"alignment,omitempty" json:"alignment,omitempty"`
	Leader    string  `yaml:"leader,omitempty" json:"leader,omitempty"` // "dot" or empty
}

// RunFile is a run. Unset attributes come from the paragraph style.
type RunFile struct {
	Text       string   `yaml:"text" json:"text"`
	Font       string   `yaml:"font,omitempty" json:"font,omitempty"`
	Size       float64  `yaml:"size,omitempty" json:"size,omitempty"`
	Bold       *bool    `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic     *bool    `yaml:"italic,omitempty" json:"italic,omitempty"`
	Color      string   `yaml:"color,omitempty" json:"color,omitempty"`
	Background string   `yaml:"background,omitempty" json:"background,omitempty"`
	Baseline   *float64 `yaml:"baseline,omitempty" json:"baseline,omitempty"`
}

// TableFile is a table.
type TableFile struct {
	Columns      int       `yaml:"columns,omitempty" json:"columns,omitempty"`
	ColumnLayout bool      `yaml:"column_layout,omitempty" json:"column_layout,omitempty"`
	Rows         []RowFile `yaml:"rows" json:"rows"`
}

// RowFile is a table row.
type RowFile struct {
	Cells []CellFile `yaml:"cells" json:"cells"`
}

// CellFile is a table cell.
type CellFile struct {
	Blocks []BlockFile `yaml:"blocks" json:"blocks"`
}

// ImageFile is an image, given either as a path relative to the document
// file or as base64 data.
type ImageFile struct {
	Path   string  `yaml:"path,omitempty" json:"path,omitempty"`
	Data   string  `yaml:"data,omitempty" json:"data,omitempty"`
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	Width  float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Height float64 `yaml:"height,omitempty" json:"height,omitempty"`
}

// ReadDocumentFile loads a YAML or JSON document file. Image paths are
// resolved against the file's directory.
func ReadDocumentFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(data, filepath.Dir(path))
}

// ParseDocument decodes a YAML or JSON document. baseDir resolves relative
// image paths.
func ParseDocument(data []byte, baseDir string) (*model.Document, error) {
	var f DocumentFile
	// JSON is valid YAML, so one decoder serves both.
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocumentFile, err)
	}
	blocks, err := decodeBlocks(f.Blocks, baseDir, "blocks")
	if err != nil {
		return nil, err
	}
	return model.NewDocument(blocks...), nil
}

func decodeBlocks(in []BlockFile, baseDir, where string) ([]model.Block, error) {
	var out []model.Block
	for i, b := range in {
		at := fmt.Sprintf("%s[%d]", where, i)
		n := 0
		for _, set := range []bool{b.Paragraph != nil, b.Table != nil, b.Image != nil} {
			if set {
				n++
			}
		}
		if n != 1 {
			return nil, fmt.Errorf("%w: %s must set exactly one of paragraph, table, image", ErrInvalidDocumentFile, at)
		}

		switch {
		case b.Paragraph != nil:
			p, err := decodeParagraph(*b.Paragraph, at)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		case b.Table != nil:
			t, err := decodeTable(*b.Table, baseDir, at)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		case b.Image != nil:
			img, err := decodeImage(*b.Image, baseDir, at)
			if err != nil {
				return nil, err
			}
			out = append(out, img)
		}
	}
	return out, nil
}

func decodeParagraph(f ParagraphFile, at string) (*model.Paragraph, error) {
	p := model.NewParagraph(f.Style)
	if f.Geometry != nil {
		g, err := decodeGeometry(*f.Geometry, at)
		if err != nil {
			return nil, err
		}
		p.Geometry = g
	}
	for j, rf := range f.Runs {
		r, err := decodeRun(rf)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.runs[%d]: %w", ErrInvalidDocumentFile, at, j, err)
		}
		p.Runs = append(p.Runs, r)
	}
	return p, nil
}

func decodeGeometry(f GeometryFile, at string) (model.ParagraphGeometry, error) {
	g := model.ParagraphGeometry{
		HeadIndent:         f.HeadIndent,
		FirstLineIndent:    f.FirstLineIndent,
		TailIndent:         f.TailIndent,
		SpacingBefore:      f.SpacingBefore,
		SpacingAfter:       f.SpacingAfter,
		LineHeightMultiple: f.LineHeightMultiple,
	}
	if f.Alignment != "" {
		a, ok := model.ParseAlignment(f.Alignment)
		if !ok {
			return g, fmt.Errorf("%w: %s: unknown alignment %q", ErrInvalidDocumentFile, at, f.Alignment)
		}
		g.Alignment = a
	}
	for _, ts := range f.TabStops {
		stop := model.TabStop{Position: ts.Position}
		align, ok := parseTabAlignment(ts.Alignment)
		if !ok {
			return g, fmt.Errorf("%w: %s: unknown tab alignment %q", ErrInvalidDocumentFile, at, ts.Alignment)
		}
		stop.Alignment = align
		switch ts.Leader {
		case "", "none":
		case "dot", "dots", "dotted":
			stop.Leader = model.LeaderDot
		default:
			return g, fmt.Errorf("%w: %s: unknown tab leader %q", ErrInvalidDocumentFile, at, ts.Leader)
		}
		g.TabStops = append(g.TabStops, stop)
	}
	return g, nil
}

func parseTabAlignment(s string) (model.TabAlignment, bool) {
	for _, a := range []model.TabAlignment{model.TabLeft, model.TabCenter, model.TabRight, model.TabDecimal} {
		if s == a.String() {
			return a, true
		}
	}
	return model.TabLeft, s == ""
}

func decodeRun(f RunFile) (model.Run, error) {
	r := model.Run{Text: f.Text}
	if f.Font != "" {
		r = r.WithFont(f.Font)
	}
	if f.Size > 0 {
		r = r.WithSize(f.Size)
	}
	if f.Bold != nil {
		r = r.WithBold(*f.Bold)
	}
	if f.Italic != nil {
		r = r.WithItalic(*f.Italic)
	}
	if f.Color != "" {
		c, ok := model.ParseHex(f.Color)
		if !ok {
			return r, fmt.Errorf("invalid color %q", f.Color)
		}
		r = r.WithColor(c)
	}
	if f.Background != "" {
		c, ok := model.ParseHex(f.Background)
		if !ok {
			return r, fmt.Errorf("invalid background %q", f.Background)
		}
		r = r.WithBackground(c)
	}
	if f.Baseline != nil {
		r = r.WithBaseline(*f.Baseline)
	}
	return r, nil
}

func decodeTable(f TableFile, baseDir, at string) (*model.Table, error) {
	t := &model.Table{Columns: f.Columns, ColumnLayout: f.ColumnLayout}
	for i, rf := range f.Rows {
		var row model.TableRow
		for j, cf := range rf.Cells {
			blocks, err := decodeBlocks(cf.Blocks, baseDir, fmt.Sprintf("%s.rows[%d].cells[%d].blocks", at, i, j))
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, model.TableCell{Blocks: blocks})
		}
		t.Columns = max(t.Columns, len(row.Cells))
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s: table has no rows", ErrInvalidDocumentFile, at)
	}
	return t, nil
}

func decodeImage(f ImageFile, baseDir, at string) (*model.Image, error) {
	var data []byte
	switch {
	case f.Path != "" && f.Data != "":
		return nil, fmt.Errorf("%w: %s: image sets both path and data", ErrInvalidDocumentFile, at)
	case f.Path != "":
		path := f.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocumentFile, at, err)
		}
		data = b
	case f.Data != "":
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(f.Data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: image data: %w", ErrInvalidDocumentFile, at, err)
		}
		data = b
	default:
		return nil, fmt.Errorf("%w: %s: image needs path or data", ErrInvalidDocumentFile, at)
	}

	img := &model.Image{Data: data, Ext: imagecodec.Extension(data), Name: f.Name, Width: f.Width, Height: f.Height}
	if img.Name == "" && f.Path != "" {
		img.Name = filepath.Base(f.Path)
	}
	if img.Width <= 0 || img.Height <= 0 {
		w, h, err := imagecodec.Bounds(img.Name, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDocumentFile, at, err)
		}
		img.Width, img.Height = w, h
	}
	return img, nil
}

// MarshalDocument encodes doc as a DocumentFile in "yaml" or "json".
// Images are embedded as base64 data.
func MarshalDocument(doc *model.Document, format string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocumentFile)
	}
	f := DocumentFile{Blocks: encodeBlocks(doc.Blocks)}
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(f)
	case "json":
		return json.MarshalIndent(f, "", "  ")
	}
	return nil, fmt.Errorf("folio: unknown document format %q", format)
}

func encodeBlocks(blocks []model.Block) []BlockFile {
	out := make([]BlockFile, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case *model.Paragraph:
			out = append(out, BlockFile{Paragraph: encodeParagraph(v)})
		case *model.Table:
			tf := &TableFile{Columns: v.Columns, ColumnLayout: v.ColumnLayout}
			for _, row := range v.Rows {
				var rf RowFile
				for _, cell := range row.Cells {
					rf.Cells = append(rf.Cells, CellFile{Blocks: encodeBlocks(cell.Blocks)})
				}
				tf.Rows = append(tf.Rows, rf)
			}
			out = append(out, BlockFile{Table: tf})
		case *model.Image:
			out = append(out, BlockFile{Image: &ImageFile{
				Data:   base64.StdEncoding.EncodeToString(v.Data),
				Name:   v.Name,
				Width:  v.Width,
				Height: v.Height,
			}})
		}
	}
	return out
}

func encodeParagraph(p *model.Paragraph) *ParagraphFile {
	pf := &ParagraphFile{Style: p.Style, Runs: []RunFile{}}
	if g := p.Geometry; !g.IsZero() {
		gf := &GeometryFile{
			Alignment:          g.Alignment.String(),
			HeadIndent:         g.HeadIndent,
			FirstLineIndent:    g.FirstLineIndent,
			TailIndent:         g.TailIndent,
			SpacingBefore:      g.SpacingBefore,
			SpacingAfter:       g.SpacingAfter,
			LineHeightMultiple: g.LineHeightMultiple,
		}
		for _, ts := range g.TabStops {
			tf := TabStopFile{Position: ts.Position, Alignment: ts.Alignment.String()}
			if ts.Leader == model.LeaderDot {
				tf.Leader = "dot"
			}
			gf.TabStops = append(gf.TabStops, tf)
		}
		pf.Geometry = gf
	}
	for _, r := range p.Runs {
		pf.Runs = append(pf.Runs, encodeRun(r))
	}
	return pf
}

func encodeRun(r model.Run) RunFile {
	rf := RunFile{Text: r.Text}
	if r.Has(model.AttrFont) {
		rf.Font = r.Font
	}
	if r.Has(model.AttrSize) {
		rf.Size = r.Size
	}
	if r.Has(model.AttrBold) {
		rf.Bold = &r.Bold
	}
	if r.Has(model.AttrItalic) {
		rf.Italic = &r.Italic
	}
	if r.Has(model.AttrColor) {
		rf.Color = r.Color.Hex()
	}
	if r.Has(model.AttrBackground) {
		rf.Background = r.Background.Hex()
	}
	if r.Has(model.AttrBaseline) {
		rf.Baseline = &r.Baseline
	}
	return rf
}
