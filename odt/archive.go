package odt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/tsawler/folio/ziparchive"
)

// ErrArchiveTool is returned when unpacking or repacking a package fails.
var ErrArchiveTool = errors.New("odt: archive tool failed")

const mimetypeEntry = "mimetype"

// Archiver unpacks an ODT file into a directory and packs a directory back
// into an ODT file. Pack must write the mimetype entry first and uncompressed.
type Archiver interface {
	Unpack(ctx context.Context, archive, dir string) error
	Pack(ctx context.Context, dir, archive string) error
}

// ExecArchiver runs the external unzip and zip programs.
type ExecArchiver struct {
	Unzip string // unzip executable; "" means "unzip" on PATH
	Zip   string // zip executable; "" means "zip" on PATH
}

func (a ExecArchiver) unzip() string {
	if a.Unzip == "" {
		return "unzip"
	}
	return a.Unzip
}

func (a ExecArchiver) zip() string {
	if a.Zip == "" {
		return "zip"
	}
	return a.Zip
}

// Unpack extracts archive into dir.
func (a ExecArchiver) Unpack(ctx context.Context, archive, dir string) error {
	return run(exec.CommandContext(ctx, a.unzip(), "-q", "-o", archive, "-d", dir))
}

// Pack zips dir into archive in two invocations: the mimetype entry alone
// with storing and no extra fields, then everything else compressed.
func (a ExecArchiver) Pack(ctx context.Context, dir, archive string) error {
	archive, err := filepath.Abs(archive)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveTool, err)
	}

	store := exec.CommandContext(ctx, a.zip(), "-q", "-X", "-0", archive, mimetypeEntry)
	store.Dir = dir
	if err := run(store); err != nil {
		return err
	}

	rest := exec.CommandContext(ctx, a.zip(), "-q", "-X", "-r", "-9", archive, ".", "-x", mimetypeEntry)
	rest.Dir = dir
	return run(rest)
}

func run(cmd *exec.Cmd) error {
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%w: %s: %w", ErrArchiveTool, filepath.Base(cmd.Path), err)
		}
		return fmt.Errorf("%w: %s: %w: %s", ErrArchiveTool, filepath.Base(cmd.Path), err, msg)
	}
	return nil
}

// NativeArchiver unpacks and packs in process with klauspost/compress/zip.
// It needs no external programs.
type NativeArchiver struct{}

// Unpack extracts archive into dir, refusing entries that would land outside
// dir.
func (NativeArchiver) Unpack(_ context.Context, archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveTool, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("%w: unsafe entry path %q", ErrArchiveTool, f.Name)
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("%w: %w", ErrArchiveTool, err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrArchiveTool, f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Pack writes dir to archive: mimetype first and stored, every other file
// deflated, in lexical path order.
func (NativeArchiver) Pack(_ context.Context, dir, archive string) error {
	out, err := os.Create(archive)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveTool, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if err := packMimetype(zw, dir); err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveTool, err)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == mimetypeEntry {
			return nil
		}
		return addFile(zw, path, name, zip.Deflate)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveTool, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveTool, err)
	}
	return out.Close()
}

func packMimetype(zw *zip.Writer, dir string) error {
	path := filepath.Join(dir, mimetypeEntry)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("package has no mimetype entry: %w", err)
	}
	return addFile(zw, path, mimetypeEntry, zip.Store)
}

// addFile copies one file into the archive. Stored entries are written raw
// with their sizes in the local header, so no data descriptor follows them.
func addFile(zw *zip.Writer, path, name string, method uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var w io.Writer
	if method == zip.Store {
		w, err = zw.CreateRaw(&zip.FileHeader{
			Name:               name,
			Method:             zip.Store,
			CRC32:              ziparchive.Checksum(data),
			CompressedSize64:   uint64(len(data)),
			UncompressedSize64: uint64(len(data)),
		})
	} else {
		w, err = zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
