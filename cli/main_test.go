package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/dump"
	"github.com/ankit-chaubey/image-metadata-extractor/core/exif/exiftest"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func photo(t *testing.T) string {
	t.Helper()
	b := exiftest.New()
	seg := b.
		Image(b.ASCII(0x010F, "Canon"), b.ASCII(0x0110, "EOS 80D")).
		Exif(b.Rational(0x829D, 18, 10)).
		Bytes()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, exiftest.JPEG(8, 8, seg), 0o644))
	return path
}

func TestExtract_Text(t *testing.T) {
	out, err := run(t, "extract", photo(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Camera Information:")
	assert.Contains(t, out, "  Make: Canon")
	assert.Contains(t, out, "  F-Number: 9/5")
	assert.Contains(t, out, "GPS Information:\n  N/A")
}

func TestExtract_JSON(t *testing.T) {
	out, err := run(t, "extract", "--output", "json", photo(t))
	require.NoError(t, err)

	var r core.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	v, ok := r.Value(core.SectionCamera, "Model")
	require.True(t, ok)
	assert.Equal(t, "EOS 80D", v)
}

func TestExtract_PartialFailure(t *testing.T) {
	good := photo(t)
	out, err := run(t, "extract", good, filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)

	var nf *core.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Contains(t, out, "Make: Canon")
}

func TestExtract_InvalidOutput(t *testing.T) {
	_, err := run(t, "extract", "--output", "xml", photo(t))
	assert.Error(t, err)
}

func TestExtract_RequiresArgs(t *testing.T) {
	_, err := run(t, "extract")
	assert.Error(t, err)
}

func TestExtract_ConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "imgmeta.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("extract:\n  output: json\n"), 0o644))

	out, err := run(t, "--config", cfg, "extract", photo(t))
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}

func TestDump(t *testing.T) {
	out, err := run(t, "dump", photo(t))
	require.NoError(t, err)
	assert.Contains(t, out, "EXIF Metadata:")
	assert.Contains(t, out, "Canon")

	out, err = run(t, "dump", "--json", photo(t))
	require.NoError(t, err)
	var entries []dump.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.NotEmpty(t, entries)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "imgmeta dev\n", out)
}
