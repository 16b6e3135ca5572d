package folio

import (
	"time"

	"github.com/tsawler/folio/docx"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/odt"
)

// codecOptions holds the configuration of a Codec.
type codecOptions struct {
	styles model.StyleResolver

	// Page setup in twips
	pageWidth    int
	pageHeight   int
	marginTop    int
	marginRight  int
	marginBottom int
	marginLeft   int
	modified     time.Time

	// Import
	importer          docx.Importer
	markers           []string
	markerThreshold   int
	inferStyles       bool
	minInferenceScore int
	themeTextColor    model.Color

	// ODT leader postprocessing
	archiver       odt.Archiver
	baselineStyles []string // nil means odt.DefaultBaselineStyles
	tabPosition    string
	tempDir        string
}

// defaultOptions returns the default codec options: US Letter with one inch
// margins, the built-in style catalog, automatic importer selection and the
// external zip tools for ODT.
func defaultOptions() codecOptions {
	w := docx.DefaultWriterConfig()
	r := docx.DefaultReaderConfig()
	return codecOptions{
		styles:            w.Styles,
		pageWidth:         w.PageWidth,
		pageHeight:        w.PageHeight,
		marginTop:         w.MarginTop,
		marginRight:       w.MarginRight,
		marginBottom:      w.MarginBottom,
		marginLeft:        w.MarginLeft,
		importer:          r.Importer,
		markers:           r.Markers,
		markerThreshold:   r.MarkerThreshold,
		inferStyles:       r.InferStyles,
		minInferenceScore: r.MinInferenceScore,
		themeTextColor:    r.ThemeTextColor,
		tabPosition:       odt.DefaultTabPosition,
	}
}

// clone creates a deep copy of codecOptions.
func (o codecOptions) clone() codecOptions {
	n := o
	if o.markers != nil {
		n.markers = append([]string{}, o.markers...)
	}
	if o.baselineStyles != nil {
		n.baselineStyles = append([]string{}, o.baselineStyles...)
	}
	return n
}

func (o codecOptions) writerConfig() docx.WriterConfig {
	return docx.WriterConfig{
		PageWidth:    o.pageWidth,
		PageHeight:   o.pageHeight,
		MarginTop:    o.marginTop,
		MarginRight:  o.marginRight,
		MarginBottom: o.marginBottom,
		MarginLeft:   o.marginLeft,
		Styles:       o.styles,
		Modified:     o.modified,
	}
}

func (o codecOptions) readerConfig() docx.ReaderConfig {
	return docx.ReaderConfig{
		Styles:            o.styles,
		Markers:           append([]string(nil), o.markers...),
		MarkerThreshold:   o.markerThreshold,
		Importer:          o.importer,
		InferStyles:       o.inferStyles,
		MinInferenceScore: o.minInferenceScore,
		ThemeTextColor:    o.themeTextColor,
	}
}

func (o codecOptions) odtOptions() odt.Options {
	return odt.Options{
		Archiver:       o.archiver,
		BaselineStyles: o.baselineStyles,
		TabPosition:    o.tabPosition,
		TempDir:        o.tempDir,
	}
}
