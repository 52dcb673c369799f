// Package image decodes the container-level properties of an image file
// (format, dimensions, color mode, density, animation timing) and locates
// the raw EXIF segment it embeds. Supported containers: JPEG, PNG, GIF,
// WebP, TIFF and BMP.
package image

import (
	"bytes"
	"encoding/binary"
	"fmt"
	stdimage "image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
)

// ──────────────────────────────────────────────────────────────────────────────
// Container
// ──────────────────────────────────────────────────────────────────────────────

// Container holds what the image decoder reports about a file, independent
// of any embedded metadata.
type Container struct {
	ID        core.FormatID
	Format    string // upper-case decoder name, e.g. "JPEG"
	Width     int
	Height    int
	ColorMode string

	DPI    [2]float64
	HasDPI bool

	DurationMs  int
	HasDuration bool
}

// Decode reads the container header from data. It fails when no registered
// decoder recognises the bytes or the header is corrupt.
func Decode(data []byte) (*Container, error) {
	cfg, name, err := stdimage.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}

	c := &Container{
		ID:        core.FormatID(name),
		Format:    strings.ToUpper(name),
		Width:     cfg.Width,
		Height:    cfg.Height,
		ColorMode: colorMode(cfg.ColorModel),
	}

	switch c.ID {
	case core.FmtJPEG:
		c.DPI, c.HasDPI = jpegDPI(data)
	case core.FmtPNG:
		c.DPI, c.HasDPI = pngDPI(data)
	case core.FmtBMP:
		c.DPI, c.HasDPI = bmpDPI(data)
	case core.FmtGIF:
		c.DurationMs, c.HasDuration = gifDuration(data)
	case core.FmtWebP:
		c.DurationMs, c.HasDuration = webpDuration(data)
	}
	return c, nil
}

// SizeString renders "W x H pixels".
func (c *Container) SizeString() string {
	return fmt.Sprintf("%d x %d pixels", c.Width, c.Height)
}

// DPIString renders "(x, y)" or N/A.
func (c *Container) DPIString() string {
	if !c.HasDPI {
		return core.NotApplicable
	}
	return "(" + formatDensity(c.DPI[0]) + ", " + formatDensity(c.DPI[1]) + ")"
}

// DurationString renders the first frame delay in milliseconds, or N/A.
func (c *Container) DurationString() string {
	if !c.HasDuration {
		return core.NotApplicable
	}
	return strconv.Itoa(c.DurationMs)
}

func formatDensity(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

// colorMode maps a decoder color model onto the conventional mode names.
func colorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	switch m {
	case color.YCbCrModel, color.RGBAModel, color.RGBA64Model:
		return "RGB"
	case color.NRGBAModel, color.NRGBA64Model:
		return "RGBA"
	case color.NYCbCrAModel:
		return "RGBA"
	case color.GrayModel:
		return "L"
	case color.Gray16Model:
		return "I;16"
	case color.CMYKModel:
		return "CMYK"
	case color.AlphaModel, color.Alpha16Model:
		return "LA"
	}
	return core.Unknown
}

// ─── Density ─────────────────────────────────────────────────────────────────

// jpegDPI reads the JFIF APP0 density. Units 1 are dots per inch, units 2
// dots per centimetre; unit 0 carries only an aspect ratio.
func jpegDPI(data []byte) ([2]float64, bool) {
	segs, _ := parseJPEGSegments(data)
	for _, seg := range segs {
		if seg.marker != markerAPP0 || !bytes.HasPrefix(seg.data, []byte("JFIF\x00")) || len(seg.data) < 12 {
			continue
		}
		x := float64(binary.BigEndian.Uint16(seg.data[8:10]))
		y := float64(binary.BigEndian.Uint16(seg.data[10:12]))
		switch seg.data[7] {
		case 1:
			return [2]float64{x, y}, true
		case 2:
			return [2]float64{x * 2.54, y * 2.54}, true
		}
		return [2]float64{}, false
	}
	return [2]float64{}, false
}

// pngDPI reads the pHYs chunk, stored in pixels per metre.
func pngDPI(data []byte) ([2]float64, bool) {
	chunks, err := readPNGChunks(data)
	if err != nil {
		return [2]float64{}, false
	}
	for _, c := range chunks {
		if c.typ != "pHYs" || len(c.data) < 9 {
			continue
		}
		if c.data[8] != 1 {
			return [2]float64{}, false
		}
		x := float64(binary.BigEndian.Uint32(c.data[0:4]))
		y := float64(binary.BigEndian.Uint32(c.data[4:8]))
		return [2]float64{x * 0.0254, y * 0.0254}, true
	}
	return [2]float64{}, false
}

// bmpDPI reads the pixels-per-metre fields of a BITMAPINFOHEADER.
func bmpDPI(data []byte) ([2]float64, bool) {
	if len(data) < 46 || binary.LittleEndian.Uint32(data[14:18]) < 40 {
		return [2]float64{}, false
	}
	x := float64(int32(binary.LittleEndian.Uint32(data[38:42])))
	y := float64(int32(binary.LittleEndian.Uint32(data[42:46])))
	if x <= 0 || y <= 0 {
		return [2]float64{}, false
	}
	return [2]float64{x * 0.0254, y * 0.0254}, true
}

// ─── Duration ────────────────────────────────────────────────────────────────

// gifDuration returns the delay of the first graphic control extension
// seen before the first image descriptor, in milliseconds.
func gifDuration(data []byte) (int, bool) {
	if len(data) < 13 {
		return 0, false
	}
	i := 13 // header (6) + logical screen descriptor (7)
	if data[10]&0x80 != 0 {
		i += 3 * (1 << (int(data[10]&0x07) + 1))
	}
	for i < len(data) {
		switch data[i] {
		case 0x21: // extension
			if i+1 >= len(data) {
				return 0, false
			}
			label := data[i+1]
			i += 2
			if label == 0xF9 && i+4 < len(data) && data[i] == 4 {
				delay := binary.LittleEndian.Uint16(data[i+2 : i+4])
				return int(delay) * 10, true
			}
			i = skipSubBlocks(data, i)
		case 0x2C, 0x3B: // image descriptor, trailer
			return 0, false
		default:
			return 0, false
		}
	}
	return 0, false
}

func skipSubBlocks(data []byte, i int) int {
	for i < len(data) {
		n := int(data[i])
		i++
		if n == 0 {
			break
		}
		i += n
	}
	return i
}

// webpDuration returns the duration of the first ANMF frame.
func webpDuration(data []byte) (int, bool) {
	// a truncated EXIF chunk is reported by MetadataSegment
	chunks, _ := riffChunks(data)
	for _, c := range chunks {
		if c.id != "ANMF" || len(c.data) < 16 {
			continue
		}
		d := c.data[12:15]
		return int(d[0]) | int(d[1])<<8 | int(d[2])<<16, true
	}
	return 0, false
}
