package docx

import (
	"bytes"
	"encoding/xml"
	"path"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/folio/ziparchive"
)

// Part names and relationship types of a WordprocessingML package.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partStyles       = "word/styles.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partTheme        = "word/theme/theme1.xml"

	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
)

// relationship is one entry of a .rels part with its target resolved to a
// package path.
type relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// relsPartFor returns the relationships part name for a part:
// word/document.xml has word/_rels/document.xml.rels.
func relsPartFor(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against the directory of the
// source part. Absolute targets ("/word/media/a.png") are taken from the
// package root; relative ones may climb with "../".
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	p := path.Join(path.Dir(sourcePart), target)
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// readRelationships parses the relationships of part. A missing .rels part
// yields an empty map.
func readRelationships(pkg *ziparchive.Reader, part string) (map[string]relationship, error) {
	rels := make(map[string]relationship)
	data, err := pkg.Extract(relsPartFor(part))
	if err != nil {
		return rels, nil
	}
	doc, err := readTree(data)
	if err != nil {
		return rels, err
	}
	root := doc.Root()
	if root == nil {
		return rels, nil
	}
	for _, el := range root.SelectElements("Relationship") {
		rel := relationship{
			ID:       el.SelectAttrValue("Id", ""),
			Type:     el.SelectAttrValue("Type", ""),
			External: strings.EqualFold(el.SelectAttrValue("TargetMode", ""), "External"),
		}
		target := el.SelectAttrValue("Target", "")
		if rel.ID == "" || target == "" {
			continue
		}
		if rel.External {
			rel.Target = target
		} else {
			rel.Target = resolveTarget(part, target)
		}
		rels[rel.ID] = rel
	}
	return rels, nil
}

// mainDocumentPart locates the main document part through the package
// relationships, falling back to word/document.xml.
func mainDocumentPart(pkg *ziparchive.Reader) string {
	rels, err := readRelationships(pkg, "")
	if err == nil {
		for _, rel := range rels {
			if rel.Type == relTypeOfficeDocument && !rel.External && pkg.Has(rel.Target) {
				return rel.Target
			}
		}
	}
	return partDocument
}

// relatedPart returns the first internal target of relType among rels, or
// fallback.
func relatedPart(rels map[string]relationship, relType, fallback string) string {
	for _, rel := range rels {
		if rel.Type == relType && !rel.External {
			return rel.Target
		}
	}
	return fallback
}

// styleNames reads the styleId → name table of a styles part.
func styleNames(data []byte) map[string]string {
	names := make(map[string]string)
	if len(data) == 0 {
		return names
	}
	doc, err := readTree(data)
	if err != nil || doc.Root() == nil {
		return names
	}
	for _, s := range doc.Root().SelectElements("style") {
		id := s.SelectAttrValue("styleId", "")
		if id == "" {
			continue
		}
		if n := s.SelectElement("name"); n != nil {
			names[id] = n.SelectAttrValue("val", "")
		}
	}
	return names
}

// readTree parses data into an etree document, accepting any charset the
// producer declared.
func readTree(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return doc, nil
}

// newDecoder returns a lenient XML decoder that accepts declared charsets.
func newDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	d.Strict = false
	return d
}
