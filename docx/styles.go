package docx

import "encoding/xml"

// stylesXML is the part of word/styles.xml the importers read: document
// defaults and the style list.
type stylesXML struct {
	XMLName     xml.Name       `xml:"styles"`
	DocDefaults docDefaultsXML `xml:"docDefaults"`
	Styles      []styleDefXML  `xml:"style"`
}

// defaultParagraphStyle returns the ID of the style applied to paragraphs
// without a w:pStyle, or "" when styles.xml marks none.
func (s *stylesXML) defaultParagraphStyle() string {
	for i := range s.Styles {
		if s.Styles[i].isDefaultParagraph() {
			return s.Styles[i].StyleID
		}
	}
	return ""
}

type docDefaultsXML struct {
	RPrDefault rPrDefaultXML `xml:"rPrDefault"`
	PPrDefault pPrDefaultXML `xml:"pPrDefault"`
}

type rPrDefaultXML struct {
	RPr runPropsXML `xml:"rPr"`
}

type pPrDefaultXML struct {
	PPr paragraphPropsXML `xml:"pPr"`
}

// styleDefXML is one w:style. Only paragraph and character styles carry
// properties the model uses.
type styleDefXML struct {
	Type    string            `xml:"type,attr"`
	StyleID string            `xml:"styleId,attr"`
	Default string            `xml:"default,attr"`
	Name    styleNameXML      `xml:"name"`
	BasedOn basedOnXML        `xml:"basedOn"`
	PPr     paragraphPropsXML `xml:"pPr"`
	RPr     runPropsXML       `xml:"rPr"`
}

// isDefaultParagraph reports whether s is the document's default
// paragraph style (usually "Normal").
func (s *styleDefXML) isDefaultParagraph() bool {
	if s.Type != "paragraph" && s.Type != "" {
		return false
	}
	switch s.Default {
	case "1", "true", "on":
		return true
	}
	return false
}

type styleNameXML struct {
	Val string `xml:"val,attr"`
}

type basedOnXML struct {
	Val string `xml:"val,attr"`
}
