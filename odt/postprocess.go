// Package odt patches OpenDocument Text packages produced by an ODF exporter
// so that table-of-contents leader lines render as real dotted tab leaders.
//
// The exporter writes a leader as literal dots between a title and its page
// number. The postprocessor gives the affected automatic paragraph styles a
// right tab stop with a dotted leader, and replaces each literal dot run with
// a <text:tab/>. Only content.xml is touched.
//
// Patching is a visual nicety. PostprocessLeaders never fails: on any error
// it logs a warning and returns its input unchanged.
package odt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/internal/logging"
)

// ErrNotODT is returned for input that is not an OpenDocument Text package.
var ErrNotODT = errors.New("odt: not an OpenDocument text package")

const contentEntry = "content.xml"

// Options configures the leader postprocessor. The zero value is usable.
type Options struct {
	// Archiver unpacks and repacks the package. nil means ExecArchiver.
	Archiver Archiver
	// BaselineStyles are always patched. nil means DefaultBaselineStyles;
	// an empty non-nil slice disables the baseline.
	BaselineStyles []string
	// TabPosition is the tab stop position. "" means DefaultTabPosition.
	TabPosition string
	// TempDir is where working directories are created. "" means os.TempDir.
	TempDir string
}

func (o Options) withDefaults() Options {
	if o.Archiver == nil {
		o.Archiver = ExecArchiver{}
	}
	if o.BaselineStyles == nil {
		o.BaselineStyles = DefaultBaselineStyles
	}
	if o.TabPosition == "" {
		o.TabPosition = DefaultTabPosition
	}
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	return o
}

// Result describes a successful rewrite.
type Result struct {
	Data       []byte
	Styles     []string // styles that received the tab stop
	Paragraphs int      // paragraphs whose leader run became a tab
}

// PostprocessLeaders returns data with its leader lines patched, or data
// itself if anything goes wrong.
func PostprocessLeaders(ctx context.Context, data []byte, opts Options) []byte {
	res, err := Rewrite(ctx, data, opts)
	if err != nil {
		logging.L().Warn("odt leader postprocessing skipped", "error", err)
		return data
	}
	return res.Data
}

// Rewrite patches data and reports what changed. Unlike PostprocessLeaders
// it returns errors to the caller.
func Rewrite(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if f := format.Detect(data); f != format.ODT {
		return nil, fmt.Errorf("%w: detected %s", ErrNotODT, f)
	}
	opts = opts.withDefaults()

	work := filepath.Join(opts.TempDir, "folio-odt-"+uuid.NewString())
	if err := os.MkdirAll(work, 0o700); err != nil {
		return nil, err
	}
	defer os.RemoveAll(work)

	input := filepath.Join(work, "input.odt")
	tree := filepath.Join(work, "tree")
	output := filepath.Join(work, "output.odt")

	if err := os.WriteFile(input, data, 0o600); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(tree, 0o700); err != nil {
		return nil, err
	}
	if err := opts.Archiver.Unpack(ctx, input, tree); err != nil {
		return nil, err
	}

	contentPath := filepath.Join(tree, contentEntry)
	content, err := os.ReadFile(contentPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", contentEntry, err)
	}

	patched, res, err := patchContent(content, opts)
	if err != nil {
		return nil, err
	}
	if res.Paragraphs == 0 && len(res.Styles) == 0 {
		logging.L().Debug("odt has no leader lines to patch")
		res.Data = data
		return res, nil
	}

	if err := os.WriteFile(contentPath, patched, 0o600); err != nil {
		return nil, err
	}
	if err := opts.Archiver.Pack(ctx, tree, output); err != nil {
		return nil, err
	}
	out, err := os.ReadFile(output)
	if err != nil {
		return nil, err
	}
	if format.Detect(out) != format.ODT {
		return nil, fmt.Errorf("%w: repacked output", ErrNotODT)
	}

	logging.L().Debug("odt leaders patched", "styles", res.Styles, "paragraphs", res.Paragraphs)
	res.Data = out
	return res, nil
}

// patchContent applies both rewrites to content.xml.
func patchContent(content []byte, opts Options) ([]byte, *Result, error) {
	scan, err := scanContent(content)
	if err != nil {
		return nil, nil, err
	}

	names := leaderStyles(scan, opts.BaselineStyles, opts.TabPosition)
	text, patched := injectTabStops(string(content), names, opts.TabPosition)

	// Paragraphs are converted in every style that now carries the tab stop,
	// including styles that already had it.
	tabbed := make(map[string]bool, len(names))
	for _, n := range names {
		tabbed[n] = true
	}
	for name, s := range scan.autoStyles {
		if s.hasLeaderStop(opts.TabPosition) {
			tabbed[name] = true
		}
	}
	text, count := convertLeaderRuns(text, tabbed)

	return []byte(text), &Result{Styles: patched, Paragraphs: count}, nil
}

// leaderStyles returns the automatic paragraph styles that need the tab stop:
// the baseline names present in the document plus every style used by a
// leader line. Styles that already carry the stop are left out.
func leaderStyles(scan *contentScan, baseline []string, position string) []string {
	want := make(map[string]bool)
	for _, name := range baseline {
		want[name] = true
	}
	for _, p := range scan.paragraphs {
		if p.Style != "" && isLeaderLine(p.Text) {
			if _, ok := scan.autoStyles[p.Style]; !ok {
				logging.L().Debug("leader line uses a non-automatic style", "style", p.Style)
				continue
			}
			want[p.Style] = true
		}
	}

	var names []string
	for name := range want {
		s, ok := scan.autoStyles[name]
		if !ok || s.hasLeaderStop(position) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
