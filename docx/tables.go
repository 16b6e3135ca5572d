package docx

import (
	"strconv"

	"github.com/tsawler/folio/model"
)

// tableParser converts unmarshaled tables to model tables, recursing into
// cell content.
type tableParser struct {
	ctx      *importContext
	resolver *StyleResolver
}

func newTableParser(ctx *importContext, resolver *StyleResolver) *tableParser {
	return &tableParser{ctx: ctx, resolver: resolver}
}

// maxGridColumns is the widest table either importer builds. Word stops
// at 63 columns as well.
const maxGridColumns = 63

// parse converts tbl. A cell spanning several grid columns is followed by
// empty cells so that every row keeps the grid's column count, and the
// continuation cells of a vertical merge are left empty. Cells past
// maxGridColumns are dropped with a warning.
func (tp *tableParser) parse(tbl *tableXML) *model.Table {
	gridCols := len(tbl.Grid.Cols)
	t := &model.Table{
		ColumnLayout: !tableHasBorders(tbl.Properties),
		Columns:      min(gridCols, maxGridColumns),
	}
	truncated := false
	for _, row := range tbl.Rows {
		var cells []model.TableCell
		for i := range row.Cells {
			if len(cells) >= maxGridColumns {
				truncated = true
				break
			}
			cell := &row.Cells[i]
			var blocks []model.Block
			if !isMergeContinuation(cell.Properties.VMerge) {
				blocks = tp.ctx.nativeBlocks(cell.Content.Elements, tp.resolver)
			}
			cells = append(cells, model.TableCell{Blocks: blocks})
			span := gridSpan(cell.Properties.GridSpan.Val, gridCols)
			for ; span > 1 && len(cells) < maxGridColumns; span-- {
				cells = append(cells, model.TableCell{})
			}
		}
		t.Rows = append(t.Rows, model.TableRow{Cells: cells})
		t.Columns = max(t.Columns, len(cells))
	}
	if truncated {
		tp.ctx.warn("table wider than %d columns truncated", maxGridColumns)
	}
	return t
}

// tableHasBorders reports whether a table draws borders. Without explicit
// borders a table drawn through a table style is assumed to have them.
func tableHasBorders(props tablePropsXML) bool {
	b := props.Borders
	sides := []borderXML{b.Top, b.Bottom, b.Left, b.Right, b.InsideH, b.InsideV}
	declared := false
	for _, side := range sides {
		if side.Val == "" {
			continue
		}
		declared = true
		if side.visible() {
			return true
		}
	}
	if !declared {
		return props.Style.Val != ""
	}
	return false
}

// visible reports whether a declared border is drawn.
func (b borderXML) visible() bool {
	switch b.Val {
	case "", "none", "nil":
		return false
	}
	return b.Sz != "0"
}

func isMergeContinuation(v vMergeXML) bool {
	return v.XMLName.Local != "" && v.Val != "restart"
}

// gridSpan parses a w:gridSpan value. The result never exceeds the
// declared grid, when there is one, or maxGridColumns.
func gridSpan(s string, gridCols int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	limit := maxGridColumns
	if gridCols > 0 {
		limit = min(gridCols, maxGridColumns)
	}
	return min(n, limit)
}
