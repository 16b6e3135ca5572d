package docx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/folio/internal/logging"
	"github.com/tsawler/folio/model"
)

// importCustom streams document.xml token by token. It reads the attributes
// this package's writer produces, keeps tables as a grid of cells keyed by
// row and column, and returns everything read before a parse error instead
// of failing.
func (c *importContext) importCustom() (*model.Document, error) {
	x := &extractor{ctx: c}
	if err := x.extract(newDecoder(c.src.xml)); err != nil {
		return nil, err
	}
	return model.NewDocument(x.blocks...), nil
}

// extractor holds the streaming state of one document.
type extractor struct {
	ctx    *importContext
	blocks []model.Block
	tables []*tableBuilder // open tables, innermost last

	para    *paragraphBuilder
	run     *model.Run
	text    strings.Builder
	inText  bool
	drawing *drawingBuilder
}

// paragraphBuilder collects one paragraph.
type paragraphBuilder struct {
	styleID string
	geom    model.ParagraphGeometry
	set     geomField
	runs    []model.Run
	images  []model.Block
}

// drawingBuilder collects one drawing's extent, name and image reference.
type drawingBuilder struct {
	cx, cy string
	name   string
	embed  string
}

// tableBuilder collects a table's cells keyed by grid position.
type tableBuilder struct {
	cells    map[[2]int][]model.Block
	row, col int
	span     int // gridSpan of the open cell
	rows     int
	cols     int
	widths   []int // cells per row, clamped to maxGridColumns
	gridCols int
	style    bool
	borders  *tableBordersXML
}

func newTableBuilder() *tableBuilder {
	return &tableBuilder{cells: make(map[[2]int][]model.Block), row: -1, col: -1}
}

func (tb *tableBuilder) build() *model.Table {
	props := tablePropsXML{}
	if tb.style {
		props.Style.Val = "table"
	}
	if tb.borders != nil {
		props.Borders = *tb.borders
	}
	t := &model.Table{
		ColumnLayout: !tableHasBorders(props),
		Columns:      min(max(tb.cols, tb.gridCols), maxGridColumns),
	}
	for r := 0; r < tb.rows; r++ {
		width := t.Columns
		if r < len(tb.widths) {
			width = min(tb.widths[r], t.Columns)
		}
		row := model.TableRow{Cells: make([]model.TableCell, width)}
		for col := range row.Cells {
			row.Cells[col].Blocks = trimCellPadding(tb.cells[[2]int{r, col}])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// trimCellPadding drops the empty paragraph that closes a cell ending in a
// table or holding nothing.
func trimCellPadding(blocks []model.Block) []model.Block {
	n := len(blocks)
	if n == 0 {
		return nil
	}
	if p, ok := blocks[n-1].(*model.Paragraph); ok && p.Style == "" && len(p.Runs) == 0 {
		if n == 1 || blocks[n-2].Type() == model.BlockTypeTable {
			return blocks[:n-1]
		}
	}
	return blocks
}

func (x *extractor) extract(d *xml.Decoder) error {
	var parseErr error
loop:
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErr = err
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := x.start(d, t); err != nil {
				parseErr = err
				break loop
			}
		case xml.EndElement:
			x.end(t)
		case xml.CharData:
			if x.inText {
				x.text.Write(t)
			}
		}
	}
	x.closeAll()

	if parseErr != nil {
		if len(x.blocks) == 0 {
			return fmt.Errorf("%w: %s: %w", ErrXMLParseFailed, x.ctx.src.part, parseErr)
		}
		x.ctx.warn("%s: kept %d blocks read before parse error: %v", x.ctx.src.part, len(x.blocks), parseErr)
	}
	return nil
}

func (x *extractor) start(d *xml.Decoder, se xml.StartElement) error {
	switch se.Name.Local {
	case "p":
		if x.para != nil {
			return d.Skip()
		}
		x.para = &paragraphBuilder{}
	case "pPr":
		if x.para == nil {
			return d.Skip()
		}
		var ppr paragraphPropsXML
		if err := d.DecodeElement(&ppr, &se); err != nil {
			return err
		}
		x.para.styleID = ppr.Style.Val
		x.para.set |= applyParagraphProps(&x.para.geom, ppr)
	case "r":
		x.run = &model.Run{}
		x.text.Reset()
	case "rPr":
		if x.run == nil {
			return d.Skip()
		}
		var rpr runPropsXML
		if err := d.DecodeElement(&rpr, &se); err != nil {
			return err
		}
		applyRunProps(x.run, rpr, x.ctx.src.theme)
	case "t":
		x.inText = x.run != nil
	case "tab":
		if x.run != nil {
			x.text.WriteByte('\t')
		}
	case "br", "cr":
		if x.run != nil {
			x.text.WriteByte('\n')
		}
	case "noBreakHyphen":
		if x.run != nil {
			x.text.WriteByte('-')
		}
	case "drawing":
		x.drawing = &drawingBuilder{}
	case "extent":
		if x.drawing != nil {
			x.drawing.cx, x.drawing.cy = attr(se, "cx"), attr(se, "cy")
		}
	case "docPr":
		if x.drawing != nil {
			x.drawing.name = attr(se, "name")
		}
	case "blip":
		if x.drawing != nil {
			x.drawing.embed = attr(se, "embed")
		}
	case "tbl":
		x.tables = append(x.tables, newTableBuilder())
	case "tblStyle":
		if tb := x.table(); tb != nil {
			tb.style = true
		}
	case "tblBorders":
		tb := x.table()
		if tb == nil {
			return d.Skip()
		}
		var b tableBordersXML
		if err := d.DecodeElement(&b, &se); err != nil {
			return err
		}
		tb.borders = &b
	case "gridCol":
		if tb := x.table(); tb != nil {
			tb.gridCols++
		}
	case "tr":
		if tb := x.table(); tb != nil {
			tb.row++
			tb.rows++
			tb.col = -1
			tb.span = 1
		}
	case "tc":
		if tb := x.table(); tb != nil {
			tb.col += tb.span
			tb.span = 1
		}
	case "gridSpan":
		if tb := x.table(); tb != nil {
			tb.span = gridSpan(attr(se, "val"), tb.gridCols)
		}
	case "Choice", "txbxContent", "pict", "object", "sectPr", "instrText", "delText":
		return d.Skip()
	}
	return nil
}

func (x *extractor) end(ee xml.EndElement) {
	switch ee.Name.Local {
	case "t":
		x.inText = false
	case "r":
		x.endRun()
	case "drawing":
		x.endDrawing()
	case "p":
		x.endParagraph()
	case "tr":
		if tb := x.table(); tb != nil {
			width := tb.col + tb.span
			tb.cols = max(tb.cols, width)
			tb.widths = append(tb.widths, min(width, maxGridColumns))
		}
	case "tbl":
		x.endTable()
	}
}

func (x *extractor) table() *tableBuilder {
	if n := len(x.tables); n > 0 {
		return x.tables[n-1]
	}
	return nil
}

// emit appends a finished block to the innermost open cell, or to the body.
func (x *extractor) emit(b model.Block) {
	tb := x.table()
	if tb == nil {
		x.blocks = append(x.blocks, b)
		return
	}
	key := [2]int{max(tb.row, 0), max(tb.col, 0)}
	tb.cells[key] = append(tb.cells[key], b)
}

func (x *extractor) endRun() {
	if x.run == nil {
		return
	}
	r := *x.run
	r.Text = x.text.String()
	x.run, x.inText = nil, false
	x.text.Reset()
	if r.Text == "" || x.para == nil {
		return
	}
	x.para.runs = append(x.para.runs, r)
}

func (x *extractor) endDrawing() {
	dr := x.drawing
	x.drawing = nil
	if dr == nil || dr.embed == "" {
		return
	}
	img := x.ctx.loadImage(dr.embed, dr.cx, dr.cy, dr.name)
	if img == nil {
		return
	}
	if x.para != nil {
		x.para.images = append(x.para.images, img)
		return
	}
	x.emit(img)
}

func (x *extractor) endParagraph() {
	pb := x.para
	if pb == nil {
		return
	}
	x.para = nil

	p := &model.Paragraph{Geometry: pb.geom, Runs: model.Coalesce(pb.runs)}
	x.ctx.finishParagraph(p, pb.set, x.ctx.styleName(pb.styleID), pb.styleID != sceneBreakID)
	if len(p.Runs) > 0 || len(pb.images) == 0 {
		x.emit(p)
	}
	for _, img := range pb.images {
		x.emit(img)
	}
}

func (x *extractor) endTable() {
	n := len(x.tables)
	if n == 0 {
		return
	}
	tb := x.tables[n-1]
	x.tables = x.tables[:n-1]
	if tb.rows == 0 {
		logging.L().Debug("dropping table without rows")
		return
	}
	if tb.cols > maxGridColumns {
		x.ctx.warn("table wider than %d columns truncated", maxGridColumns)
	}
	x.emit(tb.build())
}

// closeAll finishes whatever a truncated document left open.
func (x *extractor) closeAll() {
	x.endRun()
	x.endDrawing()
	x.endParagraph()
	for len(x.tables) > 0 {
		x.endTable()
	}
}
