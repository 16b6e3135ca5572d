package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/tsawler/folio/model"
)

// xmlEscape escapes text for use in element content or attribute values.
func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func alignmentVal(a model.TextAlignment) string {
	switch a {
	case model.AlignCenter:
		return "center"
	case model.AlignRight:
		return "right"
	case model.AlignJustify:
		return "both"
	default:
		return "left"
	}
}

// paragraphPropsMarkup renders <w:pPr>. With inherit set only the style
// reference and tab stops are written and the rest comes from the style.
func paragraphPropsMarkup(style string, g model.ParagraphGeometry, inherit bool) string {
	var sb strings.Builder
	if style != "" {
		fmt.Fprintf(&sb, `<w:pStyle w:val="%s"/>`, model.StyleID(style))
	}
	if len(g.TabStops) > 0 {
		sb.WriteString("<w:tabs>")
		for _, ts := range g.TabStops {
			sb.WriteString(tabStopMarkup(ts))
		}
		sb.WriteString("</w:tabs>")
	}
	if !inherit {
		sb.WriteString(spacingMarkup(g.SpacingBefore, g.SpacingAfter, g.LineHeightMultiple))
		sb.WriteString(indentMarkup(g.HeadIndent, g.TailIndent, g.FirstLineIndent))
		fmt.Fprintf(&sb, `<w:jc w:val="%s"/>`, alignmentVal(g.Alignment))
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<w:pPr>" + sb.String() + "</w:pPr>"
}

func tabStopMarkup(ts model.TabStop) string {
	leader := ""
	if ts.Leader == model.LeaderDot {
		leader = ` w:leader="dot"`
	}
	return fmt.Sprintf(`<w:tab w:val="%s"%s w:pos="%d"/>`, ts.Alignment, leader, model.Twips(ts.Position))
}

func spacingMarkup(before, after, lineMultiple float64) string {
	if lineMultiple <= 0 {
		lineMultiple = 1
	}
	return fmt.Sprintf(`<w:spacing w:before="%d" w:after="%d" w:line="%d" w:lineRule="auto"/>`,
		model.Twips(before), model.Twips(after), int(math.Round(lineMultiple*240)))
}

// indentMarkup renders <w:ind>. The first line offset is relative to the
// left indent, which matches the model; a negative offset is a hanging
// indent.
func indentMarkup(head, tail, firstLine float64) string {
	first := fmt.Sprintf(`w:firstLine="%d"`, model.Twips(firstLine))
	if firstLine < 0 {
		first = fmt.Sprintf(`w:hanging="%d"`, model.Twips(-firstLine))
	}
	return fmt.Sprintf(`<w:ind w:left="%d" w:right="%d" %s/>`, model.Twips(head), model.Twips(tail), first)
}

// runPropsMarkup renders <w:rPr> for the attributes set on r, in schema
// order.
func runPropsMarkup(r model.Run) string {
	var sb strings.Builder
	if r.Has(model.AttrFont) && r.Font != "" {
		f := xmlEscape(r.Font)
		fmt.Fprintf(&sb, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s" w:cs="%s"/>`, f, f, f, f)
	}
	if r.Has(model.AttrBold) {
		sb.WriteString(toggleMarkup("b", r.Bold))
		sb.WriteString(toggleMarkup("bCs", r.Bold))
	}
	if r.Has(model.AttrItalic) {
		sb.WriteString(toggleMarkup("i", r.Italic))
		sb.WriteString(toggleMarkup("iCs", r.Italic))
	}
	if r.Has(model.AttrColor) {
		fmt.Fprintf(&sb, `<w:color w:val="%s"/>`, r.Color.Hex())
	}
	if r.Has(model.AttrBaseline) && r.Baseline != 0 {
		fmt.Fprintf(&sb, `<w:position w:val="%d"/>`, model.HalfPoints(r.Baseline))
	}
	if r.Has(model.AttrSize) && r.Size > 0 {
		hp := model.HalfPoints(r.Size)
		fmt.Fprintf(&sb, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, hp, hp)
	}
	if r.Has(model.AttrBackground) {
		fmt.Fprintf(&sb, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, r.Background.Hex())
	}
	if sb.Len() == 0 {
		return ""
	}
	return "<w:rPr>" + sb.String() + "</w:rPr>"
}

func toggleMarkup(name string, on bool) string {
	if on {
		return "<w:" + name + "/>"
	}
	return "<w:" + name + ` w:val="0"/>`
}

// runMarkup renders a run. Tabs and line breaks in the text become
// <w:tab/> and <w:br/> elements.
func runMarkup(r model.Run) string {
	var sb strings.Builder
	sb.WriteString("<w:r>")
	sb.WriteString(runPropsMarkup(r))
	text := strings.ReplaceAll(r.Text, "\r\n", "\n")
	start := 0
	flush := func(end int) {
		if end > start {
			fmt.Fprintf(&sb, `<w:t xml:space="preserve">%s</w:t>`, xmlEscape(text[start:end]))
		}
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\t':
			flush(i)
			sb.WriteString("<w:tab/>")
			start = i + 1
		case '\n', '\r':
			flush(i)
			sb.WriteString("<w:br/>")
			start = i + 1
		}
	}
	flush(len(text))
	sb.WriteString("</w:r>")
	return sb.String()
}

// drawingMarkup renders an inline picture referencing relID.
func drawingMarkup(relID string, id int, name string, cx, cy int64) string {
	name = xmlEscape(name)
	return fmt.Sprintf(`<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%[3]d" cy="%[4]d"/><wp:docPr id="%[1]d" name="%[2]s"/>`+
		`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`+
		`<a:graphic><a:graphicData uri="%[6]s"><pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%[1]d" name="%[2]s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[3]d" cy="%[4]d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`,
		id, name, cx, cy, relID, nsPic)
}

// tablePropsMarkup renders <w:tblPr>. Column layouts get invisible borders
// and horizontal padding only; data tables get 1pt borders and padding on
// all sides.
func tablePropsMarkup(columnLayout bool) string {
	border, pad := `w:val="single" w:sz="8" w:space="0" w:color="000000"`, [4]int{72, 115, 72, 115}
	if columnLayout {
		border, pad = `w:val="none" w:sz="0" w:space="0" w:color="auto"`, [4]int{0, 180, 0, 180}
	}
	var sb strings.Builder
	sb.WriteString(`<w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&sb, `<w:%s %s/>`, side, border)
	}
	sb.WriteString(`</w:tblBorders><w:tblLayout w:type="fixed"/><w:tblCellMar>`)
	for i, side := range []string{"top", "left", "bottom", "right"} {
		fmt.Fprintf(&sb, `<w:%s w:w="%d" w:type="dxa"/>`, side, pad[i])
	}
	sb.WriteString(`</w:tblCellMar></w:tblPr>`)
	return sb.String()
}
