// Package report builds the structured metadata report for an image file.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/exif"
	"github.com/ankit-chaubey/image-metadata-extractor/core/image"
	"github.com/ankit-chaubey/image-metadata-extractor/core/logger"
)

// Extractor produces reports. The zero value degrades on malformed metadata.
type Extractor struct {
	strict bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStrict makes a malformed metadata segment fail the extraction with a
// *core.FormatError instead of producing a report with empty EXIF sections.
func WithStrict(strict bool) Option {
	return func(e *Extractor) { e.strict = strict }
}

// New returns an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract builds the report for one file with default options.
func Extract(path string) (*core.Report, error) {
	return New().Extract(path)
}

// Extract reads path once, decodes its container and metadata segment, and
// assembles the report.
//
// It fails with *core.NotFoundError when path is not a readable regular
// file, with *core.UnsupportedFormatError when the container cannot be
// decoded, and, in strict mode only, with *core.FormatError when the
// metadata segment is malformed.
func (e *Extractor) Extract(path string) (*core.Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, core.NewNotFoundError(path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, core.NewNotFoundError(path, fmt.Errorf("not a regular file"))
	}

	data, err := readFile(path)
	if err != nil {
		return nil, core.NewNotFoundError(path, err)
	}

	c, err := image.Decode(data)
	if err != nil {
		return nil, core.NewUnsupportedFormatError(path, err)
	}
	logger.Debug("%s: %s %dx%d %s", path, c.Format, c.Width, c.Height, c.ColorMode)

	var warnings []string
	dir, err := directory(c.ID, data)
	if err != nil {
		var fe *core.FormatError
		if e.strict || !errors.As(err, &fe) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.WithField("file", path).Warnf("skipping malformed metadata: %v", err)
		warnings = append(warnings, "metadata skipped: "+err.Error())
		dir = exif.NewDirectory(nil)
	}
	if order := dir.ByteOrder(); order != nil {
		logger.Debug("%s: %d tags, %s", path, dir.Len(), order)
	}

	r := assemble(path, info.Size(), c, dir)
	r.Warnings = warnings
	return r, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func directory(format core.FormatID, data []byte) (*exif.Directory, error) {
	seg, err := image.MetadataSegment(format, data)
	if err != nil {
		return nil, err
	}
	return exif.Parse(seg)
}
