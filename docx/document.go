package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Paragraphs and tables are kept in
// document order in Elements.
type bodyXML struct {
	Elements []bodyElement
}

// bodyElement represents an element in the document body (paragraph or table).
type bodyElement struct {
	Type      string // "paragraph" or "table"
	Paragraph *paragraphXML
	Table     *tableXML
}

// UnmarshalXML decodes block content in order. Structured document tags
// (w:sdt, used by Word for tables of contents) are flattened into the
// surrounding body.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, b.decodeBlock)
}

func (b *bodyXML) decodeBlock(d *xml.Decoder, se xml.StartElement) error {
	switch se.Name.Local {
	case "p":
		var p paragraphXML
		if err := d.DecodeElement(&p, &se); err != nil {
			return err
		}
		b.Elements = append(b.Elements, bodyElement{Type: "paragraph", Paragraph: &p})
	case "tbl":
		var t tableXML
		if err := d.DecodeElement(&t, &se); err != nil {
			return err
		}
		b.Elements = append(b.Elements, bodyElement{Type: "table", Table: &t})
	case "sdt":
		var s sdtXML
		if err := d.DecodeElement(&s, &se); err != nil {
			return err
		}
		b.Elements = append(b.Elements, s.Content.Elements...)
	default:
		return d.Skip()
	}
	return nil
}

// sdtXML represents a structured document tag.
type sdtXML struct {
	Content bodyXML `xml:"sdtContent"`
}

// decodeChildren calls fn for each child element of the element being
// decoded, returning at its end tag. fn must consume the child.
func decodeChildren(d *xml.Decoder, fn func(*xml.Decoder, xml.StartElement) error) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(d, t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>). Runs nested in
// hyperlinks are flattened into Runs in document order.
type paragraphXML struct {
	Properties paragraphPropsXML
	Runs       []runXML
}

// UnmarshalXML decodes paragraph properties and runs in order.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, p.decodeChild)
}

func (p *paragraphXML) decodeChild(d *xml.Decoder, se xml.StartElement) error {
	switch se.Name.Local {
	case "pPr":
		return d.DecodeElement(&p.Properties, &se)
	case "r":
		var r runXML
		if err := d.DecodeElement(&r, &se); err != nil {
			return err
		}
		p.Runs = append(p.Runs, r)
	case "hyperlink", "smartTag", "ins", "fldSimple":
		return decodeChildren(d, p.decodeChild)
	default:
		return d.Skip()
	}
	return nil
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML      `xml:"pStyle"`
	Justification justificationXML `xml:"jc"`
	Spacing       spacingXML       `xml:"spacing"`
	Indent        indentXML        `xml:"ind"`
	Tabs          tabsXML          `xml:"tabs"`
	OutlineLvl    outlineLvlXML    `xml:"outlineLvl"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

// spacingXML represents paragraph spacing.
type spacingXML struct {
	Before   string `xml:"before,attr"`   // Space before in twips
	After    string `xml:"after,attr"`    // Space after in twips
	Line     string `xml:"line,attr"`     // Line spacing
	LineRule string `xml:"lineRule,attr"` // auto, exact, atLeast
}

// indentXML represents paragraph indentation.
type indentXML struct {
	Left      string `xml:"left,attr"`
	Start     string `xml:"start,attr"`
	Right     string `xml:"right,attr"`
	End       string `xml:"end,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// tabsXML represents paragraph tab stop definitions (<w:tabs>).
type tabsXML struct {
	Tabs []tabStopXML `xml:"tab"`
}

// tabStopXML represents a single tab stop.
type tabStopXML struct {
	Val    string `xml:"val,attr"`    // left, center, right, decimal, clear
	Leader string `xml:"leader,attr"` // none, dot, hyphen, underscore
	Pos    string `xml:"pos,attr"`    // twips
}

// outlineLvlXML represents outline level.
type outlineLvlXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>). Content keeps text, tabs, breaks
// and drawings in document order.
type runXML struct {
	Properties runPropsXML
	Content    []runContent
}

// runContent is one piece of run content: text or a drawing.
type runContent struct {
	Text    string
	Drawing *drawingXML
}

// UnmarshalXML decodes run properties and content in order.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, func(d *xml.Decoder, se xml.StartElement) error {
		switch se.Name.Local {
		case "rPr":
			return d.DecodeElement(&r.Properties, &se)
		case "t":
			var t textXML
			if err := d.DecodeElement(&t, &se); err != nil {
				return err
			}
			r.Content = append(r.Content, runContent{Text: t.Value})
		case "tab":
			r.Content = append(r.Content, runContent{Text: "\t"})
			return d.Skip()
		case "br", "cr":
			r.Content = append(r.Content, runContent{Text: "\n"})
			return d.Skip()
		case "noBreakHyphen":
			r.Content = append(r.Content, runContent{Text: "-"})
			return d.Skip()
		case "drawing":
			var dr drawingXML
			if err := d.DecodeElement(&dr, &se); err != nil {
				return err
			}
			r.Content = append(r.Content, runContent{Drawing: &dr})
		case "AlternateContent":
			var ac alternateContentXML
			if err := d.DecodeElement(&ac, &se); err != nil {
				return err
			}
			for _, t := range ac.Fallback.Text {
				r.Content = append(r.Content, runContent{Text: t.Value})
			}
		default:
			return d.Skip()
		}
		return nil
	})
}

// Text returns the run's text content.
func (r *runXML) Text() string {
	var s string
	for _, c := range r.Content {
		s += c.Text
	}
	return s
}

// alternateContentXML represents mc:AlternateContent for emoji fallbacks.
type alternateContentXML struct {
	Fallback fallbackXML `xml:"Fallback"`
}

// fallbackXML represents mc:Fallback containing text.
type fallbackXML struct {
	Text []textXML `xml:"t"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold      boolXML      `xml:"b"`
	Italic    boolXML      `xml:"i"`
	FontSize  sizeXML      `xml:"sz"`
	Font      fontXML      `xml:"rFonts"`
	Color     colorXML     `xml:"color"`
	Highlight highlightXML `xml:"highlight"`
	Shading   shadingXML   `xml:"shd"`
	VertAlign valXML       `xml:"vertAlign"`
	Position  valXML       `xml:"position"`
}

// boolXML represents a boolean attribute.
type boolXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"`
}

// Present reports whether the element appeared.
func (b boolXML) Present() bool {
	return b.XMLName.Local != ""
}

// Value returns the toggle value; a bare element means true.
func (b boolXML) Value() bool {
	return parseOnOff(b.Val)
}

// valXML is an element carrying only w:val.
type valXML struct {
	Val string `xml:"val,attr"`
}

// sizeXML represents font size (in half-points).
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII    string `xml:"ascii,attr"`
	HAnsi    string `xml:"hAnsi,attr"`
	CS       string `xml:"cs,attr"`
	EastAsia string `xml:"eastAsia,attr"`
}

// Name returns the first font family given.
func (f fontXML) Name() string {
	for _, n := range []string{f.ASCII, f.HAnsi, f.CS, f.EastAsia} {
		if n != "" {
			return n
		}
	}
	return ""
}

// colorXML represents text color.
type colorXML struct {
	Val        string `xml:"val,attr"` // Hex color or "auto"
	ThemeColor string `xml:"themeColor,attr"`
	ThemeTint  string `xml:"themeTint,attr"`
	ThemeShade string `xml:"themeShade,attr"`
}

// highlightXML represents highlight color.
type highlightXML struct {
	Val string `xml:"val,attr"` // Color name like "yellow"
}

// shadingXML represents run or cell shading.
type shadingXML struct {
	Val            string `xml:"val,attr"`   // Pattern
	Color          string `xml:"color,attr"` // Pattern color
	Fill           string `xml:"fill,attr"`  // Background color
	ThemeFill      string `xml:"themeFill,attr"`
	ThemeFillTint  string `xml:"themeFillTint,attr"`
	ThemeFillShade string `xml:"themeFillShade,attr"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"` // preserve
	Value string `xml:",chardata"`
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline *inlineXML `xml:"inline"`
	Anchor *inlineXML `xml:"anchor"`
}

// picture returns whichever of the inline or anchored forms is present.
func (d *drawingXML) picture() *inlineXML {
	if d.Inline != nil {
		return d.Inline
	}
	return d.Anchor
}

// inlineXML represents an inline or anchored image.
type inlineXML struct {
	Extent extentXML `xml:"extent"`
	DocPr  docPrXML  `xml:"docPr"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// extentXML represents image dimensions.
type extentXML struct {
	CX string `xml:"cx,attr"` // Width in EMUs
	CY string `xml:"cy,attr"` // Height in EMUs
}

// docPrXML represents document properties of an image.
type docPrXML struct {
	ID    string `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"` // Alt text
}

// blipXML represents an image reference.
type blipXML struct {
	Embed string `xml:"embed,attr"` // Relationship ID
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Properties tablePropsXML `xml:"tblPr"`
	Grid       tableGridXML  `xml:"tblGrid"`
	Rows       []tableRowXML `xml:"tr"`
}

// tablePropsXML represents table properties.
type tablePropsXML struct {
	Style   styleRefXML     `xml:"tblStyle"`
	Width   tableSizeXML    `xml:"tblW"`
	Borders tableBordersXML `xml:"tblBorders"`
}

// tableSizeXML represents table/cell size.
type tableSizeXML struct {
	W    string `xml:"w,attr"`    // Width value
	Type string `xml:"type,attr"` // dxa (twips), pct, auto
}

// tableBordersXML represents table borders.
type tableBordersXML struct {
	Top     borderXML `xml:"top"`
	Bottom  borderXML `xml:"bottom"`
	Left    borderXML `xml:"left"`
	Right   borderXML `xml:"right"`
	InsideH borderXML `xml:"insideH"`
	InsideV borderXML `xml:"insideV"`
}

// borderXML represents a single border.
type borderXML struct {
	Val   string `xml:"val,attr"`   // Border style: single, double, etc.
	Sz    string `xml:"sz,attr"`    // Size in eighths of a point
	Space string `xml:"space,attr"` // Space from text
	Color string `xml:"color,attr"` // Color
}

// tableGridXML represents table grid definition.
type tableGridXML struct {
	Cols []gridColXML `xml:"gridCol"`
}

// gridColXML represents a grid column.
type gridColXML struct {
	W string `xml:"w,attr"` // Width in twips
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>). Its content is decoded
// like a body so nested tables keep their position.
type tableCellXML struct {
	Properties cellPropsXML
	Content    bodyXML
}

// UnmarshalXML decodes the cell properties and block content.
func (c *tableCellXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	return decodeChildren(d, func(d *xml.Decoder, se xml.StartElement) error {
		if se.Name.Local == "tcPr" {
			return d.DecodeElement(&c.Properties, &se)
		}
		return c.Content.decodeBlock(d, se)
	})
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	Width    tableSizeXML `xml:"tcW"`
	GridSpan gridSpanXML  `xml:"gridSpan"`
	VMerge   vMergeXML    `xml:"vMerge"`
	Shading  shadingXML   `xml:"shd"`
}

// gridSpanXML represents column span.
type gridSpanXML struct {
	Val string `xml:"val,attr"` // Number of columns spanned
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	XMLName xml.Name
	Val     string `xml:"val,attr"` // "restart" or empty (continue)
}
