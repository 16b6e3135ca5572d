// Command folio converts documents to and from DOCX and fixes leader lines
// in ODT packages.
//
// Usage:
//
//	folio export -o book.docx book.yaml          # document file to DOCX
//	folio import -format json book.docx          # DOCX to document file
//	folio odt-leaders -native book.odt           # patch leader lines in place
//	folio inspect book.odt                       # show format and entries
//
// Every command accepts -config folio.yaml and -log-level.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/tsawler/folio"
	"github.com/tsawler/folio/format"
	"github.com/tsawler/folio/model"
	"github.com/tsawler/folio/odt"
	"github.com/tsawler/folio/ziparchive"
)

const usage = `usage: folio <command> [flags] <file>

commands:
  export       write a DOCX package from a YAML or JSON document file
  import       read a DOCX package into a YAML or JSON document file
  odt-leaders  add dotted leader tab stops to an ODT package
  inspect      report the detected format and archive entries`

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "export":
		err = runExport(args, os.Stdout)
	case "import":
		err = runImport(args, os.Stdout)
	case "odt-leaders":
		err = runODTLeaders(ctx, args, os.Stdout)
	case "inspect":
		err = runInspect(args, os.Stdout)
	case "-h", "-help", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "folio: unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}

	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("folio: %v", err))
		os.Exit(1)
	}
}

// common holds the flags shared by every command.
type common struct {
	configPath string
	logLevel   string
}

func newFlagSet(name string, c *common) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.configPath, "config", "", "path to folio.yaml config file")
	fs.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	return fs
}

// setup installs the logger and builds the codec from the config file, if
// any.
func (c *common) setup() (*folio.Codec, error) {
	var level slog.Level
	switch c.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	folio.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if c.configPath == "" {
		return folio.New(), nil
	}
	cfg, err := folio.LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	return cfg.Codec()
}

// oneArg parses fs and returns its single positional argument.
func oneArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "%s: expected one input file\n", fs.Name())
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func runExport(args []string, stdout io.Writer) error {
	var c common
	fs := newFlagSet("export", &c)
	out := fs.String("o", "", "output DOCX path (default: input name with .docx)")
	stylesPath := fs.String("styles", "", "YAML style catalog replacing the configured styles")
	in, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	codec, err := c.setup()
	if err != nil {
		return err
	}

	if *stylesPath != "" {
		catalog, err := loadCatalog(*stylesPath)
		if err != nil {
			return err
		}
		codec = codec.Styles(catalog)
	}

	doc, err := folio.ReadDocumentFile(in)
	if err != nil {
		return err
	}
	dst := *out
	if dst == "" {
		dst = replaceExt(in, format.DOCX.Extension())
	}
	if err := codec.WriteDocxFile(dst, doc); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s (%d blocks)\n", color.GreenString("wrote"), dst, len(doc.Blocks))
	return nil
}

func loadCatalog(path string) (*model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.LoadCatalog(f)
}

func runImport(args []string, stdout io.Writer) error {
	var c common
	fs := newFlagSet("import", &c)
	out := fs.String("o", "", "output path (default: stdout)")
	outFormat := fs.String("format", "yaml", "output format: yaml or json")
	in, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	codec, err := c.setup()
	if err != nil {
		return err
	}

	doc, warnings, err := codec.ImportDocxFile(in)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, color.YellowString("warning:"), w)
	}

	data, err := folio.MarshalDocument(doc, *outFormat)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}

func runODTLeaders(ctx context.Context, args []string, stdout io.Writer) error {
	var c common
	fs := newFlagSet("odt-leaders", &c)
	out := fs.String("o", "", "output path (default: rewrite the input in place)")
	native := fs.Bool("native", false, "repack in-process instead of running unzip and zip")
	in, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	codec, err := c.setup()
	if err != nil {
		return err
	}
	if *native {
		codec = codec.ODTArchiver(odt.NativeArchiver{})
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	dst := *out
	if dst == "" {
		dst = in
	}

	res, err := codec.RewriteODTLeaders(ctx, data)
	if err != nil {
		// Keep the package as exported.
		w := folio.Warning{Source: folio.SourceODT, Message: err.Error()}
		fmt.Fprintln(os.Stderr, color.YellowString("warning:"), w, "(left unchanged)")
		if dst != in {
			return os.WriteFile(dst, data, 0o644)
		}
		return nil
	}

	if err := os.WriteFile(dst, res.Data, 0o644); err != nil {
		return err
	}
	styles := "none"
	if len(res.Styles) > 0 {
		styles = strings.Join(res.Styles, ", ")
	}
	fmt.Fprintf(stdout, "%s %s: styles patched: %s; leader lines converted: %d\n",
		color.GreenString("wrote"), dst, styles, res.Paragraphs)
	return nil
}

// entryReport is one archive entry in inspect's output.
type entryReport struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Size   uint32 `json:"size"`
}

type inspectReport struct {
	File    string        `json:"file"`
	Format  string        `json:"format"`
	MIME    string        `json:"mime,omitempty"`
	Entries []entryReport `json:"entries,omitempty"`
}

func runInspect(args []string, stdout io.Writer) error {
	var c common
	fs := newFlagSet("inspect", &c)
	in, err := oneArg(fs, args)
	if err != nil {
		return err
	}
	if _, err := c.setup(); err != nil {
		return err
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	f := format.Detect(data)
	report := inspectReport{File: in, Format: f.String(), MIME: f.MIMEType()}
	if f != format.Unknown {
		zr, err := ziparchive.Open(data)
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		for _, e := range zr.Entries() {
			report.Entries = append(report.Entries, entryReport{Path: e.Path, Method: e.Method.String(), Size: e.UncompressedSize})
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
