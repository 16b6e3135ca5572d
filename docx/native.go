package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/tsawler/folio/imagecodec"
	"github.com/tsawler/folio/internal/logging"
	"github.com/tsawler/folio/model"
)

// importNative unmarshals document.xml and resolves every paragraph through
// the package's styles.xml inheritance chain, so documents from any word
// processor import with their effective formatting.
func (c *importContext) importNative() (*model.Document, error) {
	var doc documentXML
	if err := newDecoder(c.src.xml).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrXMLParseFailed, c.src.part, err)
	}
	if doc.Body == nil {
		return model.NewDocument(), nil
	}
	resolver := NewStyleResolver(c.decodeStyles(), c.src.theme)
	return model.NewDocument(c.nativeBlocks(doc.Body.Elements, resolver)...), nil
}

// nativeBlocks converts body elements in order. Images follow the paragraph
// that anchored them; a paragraph holding nothing but images is dropped.
func (c *importContext) nativeBlocks(elems []bodyElement, resolver *StyleResolver) []model.Block {
	var blocks []model.Block
	for _, el := range elems {
		switch {
		case el.Paragraph != nil:
			blocks = append(blocks, c.nativeParagraph(el.Paragraph, resolver)...)
		case el.Table != nil:
			blocks = append(blocks, newTableParser(c, resolver).parse(el.Table))
		}
	}
	return blocks
}

func (c *importContext) nativeParagraph(px *paragraphXML, resolver *StyleResolver) []model.Block {
	styleID := px.Properties.Style.Val
	base := resolver.Resolve(styleID)

	g := base.Geometry
	g.TabStops = append([]model.TabStop(nil), base.Geometry.TabStops...)
	set := applyParagraphProps(&g, px.Properties)

	// Catalog styles replace the package's own run defaults.
	runBase := base.Run
	name := c.styleName(styleID)
	if name == "" && base.IsHeading {
		if heading := fmt.Sprintf("Heading %d", base.HeadingLevel); c.hasStyle(heading) {
			name = heading
		}
	}
	if def, ok := c.lookup(name); ok {
		runBase = def.DefaultRun("")
	}

	p := &model.Paragraph{Geometry: g}
	var images []model.Block
	for i := range px.Runs {
		rx := &px.Runs[i]
		run := runBase
		applyRunProps(&run, rx.Properties, resolver.theme)
		var text strings.Builder
		for _, content := range rx.Content {
			if content.Drawing != nil {
				if img := c.nativeImage(content.Drawing); img != nil {
					images = append(images, img)
				}
				continue
			}
			text.WriteString(content.Text)
		}
		if text.Len() == 0 {
			continue
		}
		run.Text = text.String()
		p.Runs = append(p.Runs, run)
	}
	p.Runs = model.Coalesce(p.Runs)
	c.finishParagraph(p, set, name, styleID != sceneBreakID)

	if len(p.Runs) == 0 && len(images) > 0 {
		return images
	}
	return append([]model.Block{p}, images...)
}

func (c *importContext) nativeImage(d *drawingXML) *model.Image {
	pic := d.picture()
	if pic == nil || pic.Blip == nil {
		return nil
	}
	return c.loadImage(pic.Blip.Embed, pic.Extent.CX, pic.Extent.CY, pic.DocPr.Name)
}

// loadImage reads the media part behind relID and sizes it from the drawing
// extent, a size-encoded name or the image itself. Images that are missing
// or fail to decode are reported and omitted.
func (c *importContext) loadImage(relID, cx, cy, name string) *model.Image {
	rel, ok := c.src.rels[relID]
	if !ok || rel.External {
		c.warn("image %q: relationship %q not found", name, relID)
		return nil
	}
	data, err := c.src.pkg.Extract(rel.Target)
	if err != nil {
		c.warn("image %q: %v", rel.Target, err)
		return nil
	}
	if _, err := imagecodec.Decode(data); err != nil {
		c.warn("image %q: %v", rel.Target, err)
		return nil
	}
	if _, _, ok := imagecodec.ParseSizeName(name); !ok {
		if _, _, ok := imagecodec.ParseSizeName(path.Base(rel.Target)); ok {
			name = path.Base(rel.Target)
		}
	}
	w, h, err := imageSize(cx, cy, name, data)
	if err != nil {
		c.warn("image %q: %v", rel.Target, err)
		return nil
	}
	logging.L().Debug("image imported", "target", rel.Target, "width", w, "height", h)
	return &model.Image{
		Data:   data,
		Ext:    imagecodec.Extension(data),
		Width:  w,
		Height: h,
		Name:   name,
	}
}
