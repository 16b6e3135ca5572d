package odt

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// ODF XML namespaces
const (
	nsOffice = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsText   = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

// autoStylesXML represents the office:automatic-styles element of content.xml.
type autoStylesXML struct {
	XMLName xml.Name      `xml:"automatic-styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition (<style:style>).
type styleDefXML struct {
	Name            string             `xml:"name,attr"`
	Family          string             `xml:"family,attr"` // paragraph, text, table, ...
	ParentStyleName string             `xml:"parent-style-name,attr"`
	ParagraphProps  *paragraphPropsXML `xml:"paragraph-properties"`
}

// paragraphPropsXML represents <style:paragraph-properties>.
type paragraphPropsXML struct {
	TabStops *tabStopsXML `xml:"tab-stops"`
}

type tabStopsXML struct {
	Stops []tabStopXML `xml:"tab-stop"`
}

type tabStopXML struct {
	Position    string `xml:"position,attr"`
	Type        string `xml:"type,attr"`
	LeaderStyle string `xml:"leader-style,attr"`
	LeaderText  string `xml:"leader-text,attr"`
}

// hasLeaderStop reports whether the style already carries a dotted right
// tab stop at position.
func (s styleDefXML) hasLeaderStop(position string) bool {
	if s.ParagraphProps == nil || s.ParagraphProps.TabStops == nil {
		return false
	}
	for _, ts := range s.ParagraphProps.TabStops.Stops {
		if ts.Position == position && ts.Type == "right" && ts.LeaderText == "." {
			return true
		}
	}
	return false
}

// paragraphText is the rendered text of one <text:p> or <text:h>.
type paragraphText struct {
	Style string
	Text  string
}

// contentScan is what a single pass over content.xml finds.
type contentScan struct {
	autoStyles map[string]styleDefXML // automatic paragraph styles by name
	paragraphs []paragraphText
}

var errNoBody = errors.New("odt: content.xml has no office:text body")

func newDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// scanContent walks content.xml once, collecting automatic paragraph styles
// and the rendered text of every paragraph and heading, including those
// nested in lists, tables and sections.
func scanContent(data []byte) (*contentScan, error) {
	scan := &contentScan{autoStyles: make(map[string]styleDefXML)}
	decoder := newDecoder(data)

	var inBody, sawBody bool
	var stack []*paragraphBuilder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing content.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "automatic-styles" && t.Name.Space == nsOffice {
				var auto autoStylesXML
				if err := decoder.DecodeElement(&auto, &t); err != nil {
					return nil, fmt.Errorf("parsing automatic styles: %w", err)
				}
				for _, s := range auto.Styles {
					if s.Family == "paragraph" {
						scan.autoStyles[s.Name] = s
					}
				}
				continue
			}
			if t.Name.Local == "text" && t.Name.Space == nsOffice {
				inBody, sawBody = true, true
				continue
			}
			if !inBody || t.Name.Space != nsText {
				continue
			}

			switch t.Name.Local {
			case "p", "h":
				stack = append(stack, &paragraphBuilder{style: attr(t, "style-name")})
			case "tab":
				appendText(stack, "\t")
			case "line-break":
				appendText(stack, "\n")
			case "s":
				n := 1
				if c, err := strconv.Atoi(attr(t, "c")); err == nil && c > 0 {
					n = c
				}
				appendText(stack, strings.Repeat(" ", n))
			case "note", "tracked-changes":
				// Footnote bodies and change records are not part of the
				// paragraph's visible line.
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("parsing content.xml: %w", err)
				}
			}

		case xml.CharData:
			appendText(stack, string(t))

		case xml.EndElement:
			if t.Name.Local == "text" && t.Name.Space == nsOffice {
				inBody = false
				continue
			}
			if t.Name.Space == nsText && (t.Name.Local == "p" || t.Name.Local == "h") && len(stack) > 0 {
				b := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				scan.paragraphs = append(scan.paragraphs, paragraphText{Style: b.style, Text: b.String()})
			}
		}
	}

	if !sawBody {
		return nil, errNoBody
	}
	return scan, nil
}

type paragraphBuilder struct {
	style string
	strings.Builder
}

// appendText adds s to the innermost open paragraph. Text outside any
// paragraph is dropped.
func appendText(stack []*paragraphBuilder, s string) {
	if len(stack) > 0 {
		stack[len(stack)-1].WriteString(s)
	}
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
