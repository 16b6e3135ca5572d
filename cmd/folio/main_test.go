package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookYAML = `
blocks:
  - paragraph:
      style: Heading 1
      runs: [{text: Chapter One}]
  - paragraph:
      style: Body Text
      runs: [{text: It begins.}]
`

func TestExportImportInspect(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.WriteFile(src, []byte(bookYAML), 0o600))

	var out bytes.Buffer
	require.NoError(t, runExport([]string{src}, &out))
	docxPath := filepath.Join(dir, "book.docx")
	assert.FileExists(t, docxPath)
	assert.Contains(t, out.String(), "2 blocks")

	out.Reset()
	require.NoError(t, runImport([]string{"-format", "json", docxPath}, &out))
	assert.Contains(t, out.String(), `"Chapter One"`)
	assert.Contains(t, out.String(), `"style": "Body Text"`)

	out.Reset()
	require.NoError(t, runInspect([]string{docxPath}, &out))
	var report inspectReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "DOCX", report.Format)
	assert.NotEmpty(t, report.Entries)
}

func TestInspect_Unknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0o600))

	var out bytes.Buffer
	require.NoError(t, runInspect([]string{path}, &out))
	assert.Contains(t, out.String(), `"format": "Unknown"`)
	assert.NotContains(t, out.String(), "entries")
}

func TestODTLeaders_LeavesNonODTUnchanged(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "book.odt")
	require.NoError(t, os.WriteFile(in, []byte("not a package"), 0o600))
	dst := filepath.Join(dir, "copy.odt")

	var out bytes.Buffer
	require.NoError(t, runODTLeaders(context.Background(), []string{"-native", "-o", dst, in}, &out))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "not a package", string(got))
}

func TestUsageErrors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorIs(t, runInspect(nil, &out), errUsage)
	assert.Error(t, runExport([]string{"-nope", "x"}, &out))
	assert.Error(t, runImport([]string{filepath.Join(t.TempDir(), "missing.docx")}, &out))
}
