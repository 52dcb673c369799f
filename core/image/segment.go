package image

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

var exifPrefix = []byte("Exif\x00\x00")

// MetadataSegment returns the bytes holding the EXIF tag directory of a file
// in the given container format, or nil when there is none. Formats without
// an EXIF carrier always return nil.
func MetadataSegment(format core.FormatID, data []byte) ([]byte, error) {
	switch format {
	case core.FmtJPEG:
		return jpegExif(data)
	case core.FmtPNG:
		return pngExif(data)
	case core.FmtWebP:
		chunks, err := riffChunks(data)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			if c.id == "EXIF" {
				return c.data, nil
			}
		}
		return nil, nil
	case core.FmtTIFF:
		return data, nil
	case core.FmtHEIC:
		return heicExif(data)
	}
	return nil, nil
}

// ─── JPEG ────────────────────────────────────────────────────────────────────

func jpegExif(data []byte) ([]byte, error) {
	segs, err := parseJPEGSegments(data)
	if err != nil {
		return nil, err
	}
	for _, seg := range segs {
		if seg.marker == markerAPP1 && bytes.HasPrefix(seg.data, exifPrefix) {
			return seg.data[len(exifPrefix):], nil
		}
	}
	return nil, nil
}

type jpegSegment struct {
	marker byte
	data   []byte
}

// parseJPEGSegments lists the marker segments up to the start of scan. An
// APP1 segment whose declared length runs past the end of data is reported
// as a FormatError; any other truncation just ends the walk.
func parseJPEGSegments(data []byte) ([]jpegSegment, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, fmt.Errorf("not a JPEG")
	}
	var segs []jpegSegment

	i := 2
	for i < len(data) {
		if data[i] != 0xFF {
			break
		}
		i++
		// fill bytes
		for i < len(data) && data[i] == 0xFF {
			i++
		}
		if i >= len(data) {
			break
		}
		marker := data[i]
		i++

		if marker == markerSOI || marker == markerEOI || (marker >= 0xD0 && marker <= 0xD7) || marker == 0x01 {
			if marker == markerEOI {
				break
			}
			continue
		}

		if i+2 > len(data) {
			break
		}
		segLen := int(binary.BigEndian.Uint16(data[i:i+2])) - 2
		i += 2
		if segLen < 0 {
			break
		}
		if i+segLen > len(data) {
			if marker == markerAPP1 {
				return segs, core.NewFormatError(int64(i), "APP1 segment of %d bytes exceeds file size %d", segLen, len(data))
			}
			break
		}
		segs = append(segs, jpegSegment{marker: marker, data: data[i : i+segLen]})
		i += segLen
		if marker == markerSOS {
			break
		}
	}
	return segs, nil
}

// ─── PNG ─────────────────────────────────────────────────────────────────────

func pngExif(data []byte) ([]byte, error) {
	chunks, err := readPNGChunks(data)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		if c.typ == "eXIf" {
			return c.data, nil
		}
	}
	return nil, nil
}

type pngChunk struct {
	typ  string
	data []byte
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// readPNGChunks lists the chunks of a PNG file up to IEND. An eXIf chunk
// whose declared length runs past the end of data is a FormatError.
func readPNGChunks(data []byte) ([]pngChunk, error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("not a valid PNG")
	}

	var chunks []pngChunk
	i := len(pngSignature)
	for i+8 <= len(data) {
		length := int64(binary.BigEndian.Uint32(data[i : i+4]))
		typ := string(data[i+4 : i+8])
		i += 8
		if int64(i)+length > int64(len(data)) {
			if typ == "eXIf" {
				return chunks, core.NewFormatError(int64(i), "eXIf chunk of %d bytes exceeds file size %d", length, len(data))
			}
			break
		}
		chunks = append(chunks, pngChunk{typ: typ, data: data[i : i+int(length)]})
		i += int(length) + 4 // data + CRC
		if typ == "IEND" {
			break
		}
	}
	return chunks, nil
}

// ─── WebP ────────────────────────────────────────────────────────────────────

type riffChunk struct {
	id   string
	data []byte
}

// riffChunks lists the top-level chunks of a RIFF/WEBP file. Chunks are
// padded to even length. An EXIF chunk whose declared size runs past the
// end of data is a FormatError.
func riffChunks(data []byte) ([]riffChunk, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, nil
	}
	var chunks []riffChunk
	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := int64(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		offset += 8
		if int64(offset)+size > int64(len(data)) {
			if id == "EXIF" {
				return chunks, core.NewFormatError(int64(offset), "EXIF chunk of %d bytes exceeds file size %d", size, len(data))
			}
			break
		}
		chunks = append(chunks, riffChunk{id: id, data: data[offset : offset+int(size)]})
		offset += int(size)
		if size%2 != 0 {
			offset++
		}
	}
	return chunks, nil
}
