package folio

import (
	"context"
	"fmt"
	"time"

	"github.com/tsawler/folio/docx"
	"github.com/tsawler/folio/internal/logging"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/odt"
)

// Codec provides a fluent interface for DOCX export and import and for ODT
// leader postprocessing. Each configuration method returns a new Codec, so a
// Codec is safe for concurrent use and can be shared as a template.
type Codec struct {
	options codecOptions
}

// clone creates a copy of the Codec with a deep copy of its options.
func (c *Codec) clone() *Codec {
	return &Codec{options: c.options.clone()}
}

// ============================================================================
// Configuration Methods (return new Codec instance)
// ============================================================================

// Styles sets the style resolver used for export and import. A nil resolver
// writes style names without formatting and disables style inference.
//
// Example:
//
//	catalog, _ := model.LoadCatalog(f)
//	data, err := folio.New().Styles(catalog).ExportDocx(doc)
func (c *Codec) Styles(r model.StyleResolver) *Codec {
	n := c.clone()
	n.options.styles = r
	return n
}

// PageSize sets the page size in points.
func (c *Codec) PageSize(width, height float64) *Codec {
	n := c.clone()
	n.options.pageWidth = model.Twips(width)
	n.options.pageHeight = model.Twips(height)
	return n
}

// Margins sets the page margins in points.
func (c *Codec) Margins(top, right, bottom, left float64) *Codec {
	n := c.clone()
	n.options.marginTop = model.Twips(top)
	n.options.marginRight = model.Twips(right)
	n.options.marginBottom = model.Twips(bottom)
	n.options.marginLeft = model.Twips(left)
	return n
}

// Modified stamps every exported package entry with t. The zero time, the
// default, gives byte-identical output for identical documents.
func (c *Codec) Modified(t time.Time) *Codec {
	n := c.clone()
	n.options.modified = t
	return n
}

// Importer forces the DOCX importer instead of choosing one per document.
func (c *Codec) Importer(i docx.Importer) *Codec {
	n := c.clone()
	n.options.importer = i
	return n
}

// Markers replaces the style IDs that identify self-produced documents
// during automatic importer selection. Calling it with no markers sends
// every document to the native importer.
func (c *Codec) Markers(markers ...string) *Codec {
	n := c.clone()
	n.options.markers = append([]string{}, markers...)
	return n
}

// MarkerThreshold sets how many marker occurrences select the custom
// extractor. Values below 1 are treated as 1.
func (c *Codec) MarkerThreshold(count int) *Codec {
	n := c.clone()
	n.options.markerThreshold = count
	return n
}

// DisableStyleInference leaves untagged paragraphs untagged on import.
func (c *Codec) DisableStyleInference() *Codec {
	n := c.clone()
	n.options.inferStyles = false
	return n
}

// MinInferenceScore sets the lowest score an inferred style needs to be
// applied.
func (c *Codec) MinInferenceScore(score int) *Codec {
	n := c.clone()
	n.options.minInferenceScore = score
	return n
}

// ThemeTextColor sets the color given to imported runs whose text color is
// missing or unreadable.
func (c *Codec) ThemeTextColor(color model.Color) *Codec {
	n := c.clone()
	n.options.themeTextColor = color
	return n
}

// ODTArchiver sets how ODT packages are unpacked and repacked. The default
// runs the external unzip and zip programs.
//
// Example:
//
//	out := folio.New().ODTArchiver(odt.NativeArchiver{}).PostprocessODTLeaders(ctx, data)
func (c *Codec) ODTArchiver(a odt.Archiver) *Codec {
	n := c.clone()
	n.options.archiver = a
	return n
}

// BaselineStyles replaces the automatic paragraph styles that always get the
// leader tab stop.
func (c *Codec) BaselineStyles(names ...string) *Codec {
	n := c.clone()
	n.options.baselineStyles = append([]string{}, names...)
	return n
}

// TabPosition sets the position of the leader tab stop as an ODF length,
// such as "6.5in" or "16.5cm".
func (c *Codec) TabPosition(position string) *Codec {
	n := c.clone()
	n.options.tabPosition = position
	return n
}

// TempDir sets where ODT working directories are created.
func (c *Codec) TempDir(dir string) *Codec {
	n := c.clone()
	n.options.tempDir = dir
	return n
}

// ============================================================================
// Terminal Methods
// ============================================================================

// ExportDocx renders doc as a DOCX package. The document is only read.
func (c *Codec) ExportDocx(doc *model.Document) ([]byte, error) {
	return docx.NewWriter(c.options.writerConfig()).Export(doc)
}

// WriteDocxFile exports doc to path.
func (c *Codec) WriteDocxFile(path string, doc *model.Document) error {
	return docx.NewWriter(c.options.writerConfig()).WriteFile(path, doc)
}

// ImportDocx reads a DOCX package. Warnings describe content that was
// skipped or repaired; they never accompany a non-nil error.
//
// Example:
//
//	doc, warnings, err := folio.New().ImportDocx(data)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println(folio.FormatWarnings(warnings))
//	}
func (c *Codec) ImportDocx(data []byte) (*model.Document, []Warning, error) {
	res, err := docx.NewReader(c.options.readerConfig()).Import(data)
	if err != nil {
		return nil, nil, err
	}
	logging.L().Debug("docx imported", "importer", res.Importer, "blocks", len(res.Document.Blocks), "warnings", len(res.Warnings))
	return res.Document, toWarnings(SourceDocx, res.Warnings), nil
}

// ImportDocxFile reads the DOCX package at path.
func (c *Codec) ImportDocxFile(path string) (*model.Document, []Warning, error) {
	res, err := docx.NewReader(c.options.readerConfig()).ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return res.Document, toWarnings(SourceDocx, res.Warnings), nil
}

// PostprocessODTLeaders patches the leader lines of an ODT package. It never
// fails: if anything goes wrong the input is returned unchanged.
func (c *Codec) PostprocessODTLeaders(ctx context.Context, data []byte) []byte {
	return odt.PostprocessLeaders(ctx, data, c.options.odtOptions())
}

// RewriteODTLeaders is PostprocessODTLeaders with error reporting, for
// callers that want to know why a package was left alone.
func (c *Codec) RewriteODTLeaders(ctx context.Context, data []byte) (*odt.Result, error) {
	res, err := odt.Rewrite(ctx, data, c.options.odtOptions())
	if err != nil {
		return nil, fmt.Errorf("odt leaders: %w", err)
	}
	return res, nil
}
