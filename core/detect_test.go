package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBytes(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want FormatID
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, FmtJPEG},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, FmtPNG},
		{"gif89a", []byte("GIF89a\x01\x00"), FmtGIF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), FmtWebP},
		{"tiff le", []byte{0x49, 0x49, 0x2A, 0x00, 8, 0, 0, 0}, FmtTIFF},
		{"tiff be", []byte{0x4D, 0x4D, 0x00, 0x2A, 0, 0, 0, 8}, FmtTIFF},
		{"bmp", []byte("BM\x00\x00\x00\x00"), FmtBMP},
		{"heic", []byte("\x00\x00\x00\x18ftypheic"), FmtHEIC},
		{"mp4 brand", []byte("\x00\x00\x00\x18ftypisom"), FmtUnknown},
		{"riff not webp", []byte("RIFF\x00\x00\x00\x00WAVE"), FmtUnknown},
		{"too short", []byte{0xFF, 0xD8}, FmtUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectBytes(tt.in))
		})
	}
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, FmtJPEG, FormatFromExt("/x/IMG_0001.JPG"))
	assert.Equal(t, FmtHEIC, FormatFromExt("photo.heif"))
	assert.Equal(t, FmtTIFF, FormatFromExt("scan.tif"))
	assert.Equal(t, FmtUnknown, FormatFromExt("notes.txt"))
	assert.Equal(t, FmtUnknown, FormatFromExt("noext"))
}

func TestErrors(t *testing.T) {
	err := NewFormatError(12, "bad magic %d", 43)
	assert.EqualError(t, err, "malformed metadata segment at offset 12: bad magic 43")

	inner := assert.AnError
	nf := NewNotFoundError("/a", inner)
	assert.ErrorIs(t, nf, inner)
	assert.Contains(t, nf.Error(), "/a")

	uf := NewUnsupportedFormatError("/b", nil)
	assert.EqualError(t, uf, "unsupported image format: /b")
}
