package docx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/folio/imagecodec"
	"github.com/tsawler/folio/model"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="` + relTypeOfficeDocument + `" Target="word/document.xml"/>` +
	`</Relationships>`

// contentTypes renders [Content_Types].xml, declaring only the image
// extensions the document uses.
func (st *exportState) contentTypes() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	exts := make([]string, 0, len(st.exts))
	for ext := range st.exts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&sb, `<Default Extension="%s" ContentType="%s"/>`, ext, imagecodec.ContentType(ext))
	}
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	sb.WriteString(`</Types>`)
	return sb.String()
}

// documentRels renders word/_rels/document.xml.rels.
func (st *exportState) documentRels() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&sb, `<Relationship Id="rId1" Type="%s" Target="styles.xml"/>`, relTypeStyles)
	for _, m := range st.media {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="%s" Target="%s"/>`, m.relID, relTypeImage, m.target)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

// documentXML renders word/document.xml around the accumulated body.
func (st *exportState) documentXML() string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	fmt.Fprintf(&sb, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s" xmlns:a="%s" xmlns:pic="%s">`,
		nsW, nsR, nsWP, nsA, nsPic)
	sb.WriteString("<w:body>")
	sb.WriteString(st.body.String())
	c := st.cfg
	fmt.Fprintf(&sb, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`+
		`</w:sectPr>`,
		c.PageWidth, c.PageHeight, c.MarginTop, c.MarginRight, c.MarginBottom, c.MarginLeft)
	sb.WriteString("</w:body></w:document>")
	return sb.String()
}

// stylesXML renders word/styles.xml with a Normal style and one custom
// paragraph style per name in use.
func (st *exportState) stylesXML(names []string) string {
	var sb strings.Builder
	sb.WriteString(xmlHeader)
	fmt.Fprintf(&sb, `<w:styles xmlns:w="%s">`, nsW)

	normal := model.StyleDefinition{Name: "Normal", FontName: "Times New Roman", FontSize: 12}
	if def, ok := st.lookup(model.StyleBodyText); ok {
		normal.FontName, normal.FontSize = def.FontName, def.FontSize
	}
	sb.WriteString(`<w:docDefaults><w:rPrDefault>`)
	sb.WriteString(runPropsMarkup(normal.DefaultRun("")))
	sb.WriteString(`</w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>`)
	sb.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>`)

	seen := map[string]bool{"Normal": true}
	for _, name := range names {
		id := model.StyleID(name)
		if seen[id] {
			continue
		}
		seen[id] = true
		fmt.Fprintf(&sb, `<w:style w:type="paragraph" w:customStyle="1" w:styleId="%s"><w:name w:val="%s"/><w:basedOn w:val="Normal"/><w:qFormat/>`,
			id, xmlEscape(name))
		if def, ok := st.lookup(name); ok {
			g := def.Geometry()
			fmt.Fprintf(&sb, "<w:pPr>%s%s<w:jc w:val=\"%s\"/></w:pPr>",
				spacingMarkup(g.SpacingBefore, g.SpacingAfter, g.LineHeightMultiple),
				indentMarkup(g.HeadIndent, g.TailIndent, g.FirstLineIndent),
				alignmentVal(g.Alignment))
			sb.WriteString(runPropsMarkup(def.DefaultRun("")))
		}
		sb.WriteString(`</w:style>`)
	}
	sb.WriteString(`</w:styles>`)
	return sb.String()
}
