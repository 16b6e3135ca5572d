package model

import "strings"

// BlockType identifies the concrete type of a Block.
type BlockType int

const (
	BlockTypeUnknown BlockType = iota
	BlockTypeParagraph
	BlockTypeTable
	BlockTypeImage
)

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeParagraph:
		return "Paragraph"
	case BlockTypeTable:
		return "Table"
	case BlockTypeImage:
		return "Image"
	default:
		return "Unknown"
	}
}

// Block is one top-level element of a document or a table cell.
type Block interface {
	Type() BlockType
}

// Document is an ordered sequence of blocks.
type Document struct {
	Blocks []Block
}

// NewDocument creates a document holding blocks.
func NewDocument(blocks ...Block) *Document {
	return &Document{Blocks: blocks}
}

// Append adds blocks to the end of the document.
func (d *Document) Append(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// Paragraphs returns every paragraph in document order, descending into
// table cells.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	Walk(d.Blocks, func(b Block) {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	})
	return out
}

// Images returns every image in document order, descending into table cells.
func (d *Document) Images() []*Image {
	var out []*Image
	Walk(d.Blocks, func(b Block) {
		if img, ok := b.(*Image); ok {
			out = append(out, img)
		}
	})
	return out
}

// StyleNames returns the distinct paragraph style names used by the
// document, in order of first use.
func (d *Document) StyleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range d.Paragraphs() {
		if p.Style == "" || seen[p.Style] {
			continue
		}
		seen[p.Style] = true
		names = append(names, p.Style)
	}
	return names
}

// Text returns the plain text of the document, one line per paragraph.
// Table cells are separated by tabs.
func (d *Document) Text() string {
	var sb strings.Builder
	writeBlocksText(&sb, d.Blocks)
	return strings.TrimSuffix(sb.String(), "\n")
}

func writeBlocksText(sb *strings.Builder, blocks []Block) {
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			sb.WriteString(v.Text())
			sb.WriteString("\n")
		case *Table:
			for _, row := range v.Rows {
				for j, cell := range row.Cells {
					if j > 0 {
						sb.WriteString("\t")
					}
					var cellText strings.Builder
					writeBlocksText(&cellText, cell.Blocks)
					sb.WriteString(strings.ReplaceAll(strings.TrimSuffix(cellText.String(), "\n"), "\n", " "))
				}
				sb.WriteString("\n")
			}
		}
	}
}

// Walk calls fn for every block in blocks, depth first, including blocks
// nested in table cells. Tables are visited before their contents.
func Walk(blocks []Block, fn func(Block)) {
	for _, b := range blocks {
		fn(b)
		if t, ok := b.(*Table); ok {
			for _, row := range t.Rows {
				for _, cell := range row.Cells {
					Walk(cell.Blocks, fn)
				}
			}
		}
	}
}

// Paragraph is a styled paragraph of runs.
type Paragraph struct {
	Style    string // catalog style name; empty when untagged
	Geometry ParagraphGeometry
	Runs     []Run
}

// NewParagraph creates a paragraph tagged with style.
func NewParagraph(style string, runs ...Run) *Paragraph {
	return &Paragraph{Style: style, Runs: runs}
}

func (p *Paragraph) Type() BlockType { return BlockTypeParagraph }

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Table is a grid of cells. A column layout is a borderless, single-row
// table used to flow text in columns; a data table has visible borders and
// any number of rows.
type Table struct {
	Rows         []TableRow
	Columns      int
	ColumnLayout bool
}

func (t *Table) Type() BlockType { return BlockTypeTable }

// TableRow is one row of a table.
type TableRow struct {
	Cells []TableCell
}

// TableCell holds the blocks of one cell.
type TableCell struct {
	Blocks []Block
}

// Cell returns the cell at (row, col), or nil when out of range.
func (t *Table) Cell(row, col int) *TableCell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	cells := t.Rows[row].Cells
	if col < 0 || col >= len(cells) {
		return nil
	}
	return &cells[col]
}

// Image is an embedded picture.
type Image struct {
	Data   []byte
	Ext    string  // file extension without dot: png, jpeg, gif, tiff
	Width  float64 // points
	Height float64 // points
	Name   string  // optional original file name
}

func (i *Image) Type() BlockType { return BlockTypeImage }
