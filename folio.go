// Package folio converts rich documents to and from DOCX and finishes ODT
// packages produced by an OpenDocument exporter.
//
// Basic usage:
//
//	data, err := folio.ExportDocx(doc, model.DefaultCatalog())
//	if err != nil {
//	    // handle error
//	}
//
//	doc, warnings, err := folio.ImportDocx(data)
//	if len(warnings) > 0 {
//	    log.Println(folio.FormatWarnings(warnings))
//	}
//
// With options:
//
//	doc, _, err := folio.New().
//	    Styles(catalog).
//	    Importer(docx.ImporterNative).
//	    ThemeTextColor(model.White).
//	    ImportDocxFile("manuscript.docx")
//
// The docx, odt, ziparchive and model packages are available for lower-level
// use.
package folio

import (
	"context"
	"log/slog"

	"github.com/tsawler/folio/internal/logging"
	"github.com/tsawler/folio/model"
)

// New returns a Codec with the default configuration.
//
// Example:
//
//	data, err := folio.New().PageSize(595.3, 841.9).ExportDocx(doc)
func New() *Codec {
	return &Codec{options: defaultOptions()}
}

// ExportDocx renders doc as a DOCX package using styles and the default page
// setup.
func ExportDocx(doc *model.Document, styles model.StyleResolver) ([]byte, error) {
	return New().Styles(styles).ExportDocx(doc)
}

// WriteDocxFile exports doc to path using styles and the default page setup.
func WriteDocxFile(path string, doc *model.Document, styles model.StyleResolver) error {
	return New().Styles(styles).WriteDocxFile(path, doc)
}

// ImportDocx reads a DOCX package with the default configuration.
func ImportDocx(data []byte) (*model.Document, []Warning, error) {
	return New().ImportDocx(data)
}

// ImportDocxFile reads the DOCX package at path with the default
// configuration.
func ImportDocxFile(path string) (*model.Document, []Warning, error) {
	return New().ImportDocxFile(path)
}

// PostprocessODTLeaders patches the leader lines of an ODT package using the
// external zip tools, returning data unchanged on any failure.
func PostprocessODTLeaders(ctx context.Context, data []byte) []byte {
	return New().PostprocessODTLeaders(ctx, data)
}

// SetLogger installs the logger every folio package reports to. The default
// discards everything; nil restores that.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	data := folio.Must(folio.ExportDocx(doc, model.DefaultCatalog()))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument wraps a call to ImportDocx or ImportDocxFile, panicking if
// the error is non-nil. Warnings are discarded.
//
// Example:
//
//	doc := folio.MustDocument(folio.ImportDocxFile("book.docx"))
func MustDocument(doc *model.Document, _ []Warning, err error) *model.Document {
	if err != nil {
		panic(err)
	}
	return doc
}
