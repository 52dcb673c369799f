// Package dump lists every tag of a file's EXIF segment under the names the
// goexif library gives them, without the report's interpretation.
package dump

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/image"
)

// ErrNoExif reports a file without an EXIF segment.
var ErrNoExif = errors.New("no EXIF metadata found")

// Entry is one raw tag.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// File reads path and dumps its EXIF segment.
func File(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewNotFoundError(path, err)
	}
	format := core.DetectBytes(data)
	if format == core.FmtUnknown {
		format = core.FormatFromExt(path)
	}
	seg, err := image.MetadataSegment(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(seg) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoExif)
	}
	return Segment(seg)
}

// Segment decodes a TIFF-structured segment with goexif. Non-critical
// decode errors leave the tags read so far in place.
func Segment(seg []byte) ([]Entry, error) {
	seg = bytes.TrimPrefix(seg, []byte("Exif\x00\x00"))
	x, err := goexif.Decode(bytes.NewReader(seg))
	if err != nil && (x == nil || goexif.IsCriticalError(err)) {
		return nil, fmt.Errorf("decode EXIF: %w", err)
	}

	var entries collector
	if err := x.Walk(&entries); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// collector gathers entries as goexif walks the decoded tags.
type collector []Entry

func (c *collector) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	*c = append(*c, Entry{Name: string(name), Value: tagText(tag)})
	return nil
}

// tagText is the tag's display form. ASCII tags come out bare, not quoted.
func tagText(tag *tiff.Tag) string {
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			return strings.TrimRight(s, "\x00")
		}
	}
	return tag.String()
}

// Write prints one "name: value" line per entry.
func Write(w io.Writer, entries []Entry) {
	fmt.Fprintln(w, "EXIF Metadata:")
	for _, e := range entries {
		fmt.Fprintf(w, "  %-30s %s\n", e.Name+":", e.Value)
	}
}
