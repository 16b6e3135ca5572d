// Package docx reads and writes Office Open XML word processing packages.
//
// Export renders a model.Document as a DOCX package. Import turns a DOCX
// package back into a model.Document using one of two importers: a native
// importer that resolves styles.xml inheritance the way Word does, and a
// streaming extractor tuned for packages this writer produced.
package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/folio/internal/logging"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/ziparchive"
)

var (
	// ErrImportFailed is returned when no document can be recovered from a
	// package.
	ErrImportFailed = errors.New("docx: import failed")

	// ErrXMLParseFailed is returned when document.xml yields no usable
	// content.
	ErrXMLParseFailed = errors.New("docx: XML parse failed")
)

// sceneBreakID is a style ID that only carried paragraph spacing. Paragraphs
// using it are left untagged.
const sceneBreakID = "SceneBreak"

// Importer selects how document.xml is turned into a document.
type Importer int

const (
	// ImporterAuto picks the custom extractor for packages carrying the
	// writer's marker style IDs and the native importer otherwise.
	ImporterAuto Importer = iota
	// ImporterNative resolves styles.xml inheritance over an unmarshaled
	// document tree.
	ImporterNative
	// ImporterCustom streams document.xml and recovers partial content.
	ImporterCustom
)

func (i Importer) String() string {
	switch i {
	case ImporterNative:
		return "native"
	case ImporterCustom:
		return "custom"
	default:
		return "auto"
	}
}

// ParseImporter parses the names produced by Importer.String.
func ParseImporter(s string) (Importer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ImporterAuto, nil
	case "native":
		return ImporterNative, nil
	case "custom":
		return ImporterCustom, nil
	}
	return ImporterAuto, fmt.Errorf("docx: unknown importer %q", s)
}

// DefaultMarkers are style IDs only this package's writer emits.
var DefaultMarkers = []string{"BodyText", "TOCEntry", "Stanza", "IndexEntry", "BookTitle"}

// ReaderConfig controls import.
type ReaderConfig struct {
	// Styles resolves style names. When it also lists its styles (as
	// *model.Catalog does) untagged paragraphs get an inferred style.
	Styles model.StyleResolver

	// Markers and MarkerThreshold drive ImporterAuto: when at least
	// MarkerThreshold markers appear as quoted values in document.xml the
	// custom extractor is used.
	Markers         []string
	MarkerThreshold int

	Importer Importer

	// InferStyles enables style inference; an inferred style is applied
	// only when it scores at least MinInferenceScore.
	InferStyles       bool
	MinInferenceScore int

	// ThemeTextColor replaces missing or unreadable text colors.
	ThemeTextColor model.Color
}

// DefaultReaderConfig returns the built-in catalog, the default markers and
// black theme text.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Styles:            model.DefaultCatalog(),
		Markers:           append([]string(nil), DefaultMarkers...),
		MarkerThreshold:   1,
		InferStyles:       true,
		MinInferenceScore: model.MaxInferenceScore / 2,
		ThemeTextColor:    model.Black,
	}
}

// Result is an imported document.
type Result struct {
	Document *model.Document
	Warnings []string
	Importer Importer // importer that produced Document
}

// Reader imports DOCX packages. A Reader holds no per-document state and is
// safe for concurrent use.
type Reader struct {
	cfg ReaderConfig
}

// NewReader creates a Reader.
func NewReader(cfg ReaderConfig) *Reader {
	if cfg.MarkerThreshold < 1 {
		cfg.MarkerThreshold = 1
	}
	return &Reader{cfg: cfg}
}

// Import reads a DOCX package with the default configuration and styles.
func Import(data []byte, styles model.StyleResolver) (*model.Document, []string, error) {
	cfg := DefaultReaderConfig()
	cfg.Styles = styles
	res, err := NewReader(cfg).Import(data)
	if err != nil {
		return nil, nil, err
	}
	return res.Document, res.Warnings, nil
}

// ReadFile imports the DOCX package at path.
func (r *Reader) ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	return r.Import(data)
}

// Import reads a DOCX package. Archive errors and an unparseable
// document.xml are fatal; problems with single paragraphs, styles or images
// become warnings.
func (r *Reader) Import(data []byte) (*Result, error) {
	src, err := openSource(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	ctx := newImportContext(r.cfg, src)

	importer, hits := r.selectImporter(src.raw)
	logging.L().Debug("docx importer selected", "importer", importer, "markers", hits, "part", src.part)

	res := &Result{Importer: importer}
	if importer == ImporterNative {
		doc, err := ctx.importNative()
		switch {
		case err != nil:
			ctx.warn("native importer failed, using custom extractor: %v", err)
		case len(doc.Blocks) == 0:
			logging.L().Debug("native importer found no content, using custom extractor")
		default:
			res.Document = doc
		}
	}
	if res.Document == nil {
		doc, err := ctx.importCustom()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImportFailed, err)
		}
		res.Document, res.Importer = doc, ImporterCustom
	}

	if n := model.NormalizeTextColors(res.Document.Blocks, r.cfg.ThemeTextColor); n > 0 {
		logging.L().Debug("normalized text colors", "runs", n)
	}
	res.Warnings = ctx.warnings
	return res, nil
}

// selectImporter applies the configured importer or, for ImporterAuto,
// sniffs the raw XML for marker style IDs.
func (r *Reader) selectImporter(raw []byte) (Importer, int) {
	if r.cfg.Importer != ImporterAuto {
		return r.cfg.Importer, 0
	}
	hits := countMarkers(raw, r.cfg.Markers)
	if hits >= max(r.cfg.MarkerThreshold, 1) {
		return ImporterCustom, hits
	}
	return ImporterNative, hits
}

// countMarkers counts the markers that appear as a quoted attribute value.
func countMarkers(raw []byte, markers []string) int {
	n := 0
	for _, m := range markers {
		if m != "" && bytes.Contains(raw, []byte(`"`+m+`"`)) {
			n++
		}
	}
	return n
}

// source is an opened package with the parts both importers need.
type source struct {
	pkg    *ziparchive.Reader
	part   string // main document part
	raw    []byte // document part as stored
	xml    []byte // document part after Repair
	rels   map[string]relationship
	styles []byte
	theme  themeColors

	problems []string // unreadable optional parts, reported as warnings
}

func openSource(data []byte) (*source, error) {
	pkg, err := ziparchive.Open(data)
	if err != nil {
		return nil, err
	}
	src := &source{pkg: pkg, part: mainDocumentPart(pkg)}
	src.raw, err = pkg.Extract(src.part)
	if err != nil {
		return nil, err
	}
	src.xml = Repair(src.raw)

	src.rels, err = readRelationships(pkg, src.part)
	if err != nil {
		src.problems = append(src.problems, fmt.Sprintf("ignoring unreadable document relationships: %v", err))
	}
	src.styles = src.optionalPart(relatedPart(src.rels, relTypeStyles, partStyles), "styles")
	src.theme = loadTheme(src.optionalPart(relatedPart(src.rels, relTypeTheme, partTheme), "theme"))
	return src, nil
}

// optionalPart returns the named part, or nil when it is absent. A part
// that is present but cannot be extracted is noted as a problem.
func (s *source) optionalPart(name, kind string) []byte {
	if !s.pkg.Has(name) {
		return nil
	}
	data, err := s.pkg.Extract(name)
	if err != nil {
		s.problems = append(s.problems, fmt.Sprintf("ignoring unreadable %s part: %v", kind, err))
		return nil
	}
	return data
}

// importContext carries one import's configuration, style tables and
// warnings.
type importContext struct {
	cfg      ReaderConfig
	src      *source
	byID     map[string]string // style ID → catalog name
	docNames map[string]string // style ID → styles.xml name
	catalog  []model.StyleDefinition
	warnings []string
}

// styleLister is implemented by resolvers that can enumerate their styles.
type styleLister interface {
	Styles() []model.StyleDefinition
}

func newImportContext(cfg ReaderConfig, src *source) *importContext {
	c := &importContext{
		cfg:      cfg,
		src:      src,
		byID:     make(map[string]string),
		docNames: styleNames(src.styles),
	}
	for _, p := range src.problems {
		c.warn("%s", p)
	}
	if l, ok := cfg.Styles.(styleLister); ok {
		c.catalog = l.Styles()
		for _, s := range c.catalog {
			c.byID[model.StyleID(s.Name)] = s.Name
		}
	}
	return c
}

func (c *importContext) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logging.L().Warn(msg)
	c.warnings = append(c.warnings, msg)
}

func (c *importContext) lookup(name string) (model.StyleDefinition, bool) {
	if name == "" || c.cfg.Styles == nil {
		return model.StyleDefinition{}, false
	}
	return c.cfg.Styles.Lookup(name)
}

func (c *importContext) hasStyle(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// styleName maps a style ID to a catalog style name: first through the IDs
// the writer derives from catalog names, then through the package's own
// style names. Unknown IDs map to "".
func (c *importContext) styleName(id string) string {
	if id == "" || id == sceneBreakID {
		return ""
	}
	if name, ok := c.byID[id]; ok {
		return name
	}
	for _, candidate := range []string{c.docNames[id], id} {
		if c.hasStyle(candidate) {
			return candidate
		}
	}
	return ""
}

// finishParagraph tags p with the catalog style name, or with an inferred
// one when name is empty and infer is set, and fills geometry and run
// attributes the paragraph leaves unset from that style. Explicit values
// always win.
func (c *importContext) finishParagraph(p *model.Paragraph, set geomField, name string, infer bool) {
	for i := range p.Runs {
		p.Runs[i].Text = norm.NFC.String(p.Runs[i].Text)
	}

	if name == "" && infer && c.cfg.InferStyles && len(c.catalog) > 0 && strings.TrimSpace(p.Text()) != "" {
		inferred, score := model.InferStyle(p, c.catalog)
		if inferred != "" && score >= c.cfg.MinInferenceScore {
			name = inferred
		}
	}
	if name == "" {
		return
	}
	p.Style = name
	def, ok := c.lookup(name)
	if !ok {
		logging.L().Debug("style not in catalog", "style", name)
		return
	}
	mergeGeometry(&p.Geometry, set, def.Geometry())
	for i := range p.Runs {
		p.Runs[i].ApplyDefaults(def)
	}
}

// decodeStyles unmarshals styles.xml, returning nil when absent or
// unreadable.
func (c *importContext) decodeStyles() *stylesXML {
	if len(c.src.styles) == 0 {
		return nil
	}
	var s stylesXML
	if err := newDecoder(Repair(c.src.styles)).Decode(&s); err != nil {
		c.warn("ignoring unreadable styles part: %v", err)
		return nil
	}
	return &s
}

// attr returns the value of the attribute with the given local name.
func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
