package exif

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
)

func dirWith(k Key, v Value) *Directory {
	return NewDirectory(map[Key]Value{k: v})
}

func TestResolvers(t *testing.T) {
	tests := []struct {
		name     string
		resolver Resolver
		labels   map[int64]string
	}{
		{"ExposureMode", ExposureMode, map[int64]string{0: "Auto", 1: "Manual", 2: "Auto bracket"}},
		{"WhiteBalance", WhiteBalance, map[int64]string{0: "Auto", 1: "Manual"}},
		{"Flash", Flash, map[int64]string{0: "Flash did not fire", 1: "Flash fired"}},
		{"MeteringMode", MeteringMode, map[int64]string{
			0: "Unknown", 1: "Average", 2: "Center-weighted average", 3: "Spot",
			4: "Multi-spot", 5: "Pattern", 6: "Partial",
		}},
		{"ExposureProgram", ExposureProgram, map[int64]string{
			0: "Not defined", 1: "Manual", 2: "Normal program", 3: "Aperture priority",
			4: "Shutter priority", 5: "Creative program", 6: "Action program",
			7: "Portrait mode", 8: "Landscape mode",
		}},
		{"SceneCaptureType", SceneCaptureType, map[int64]string{0: "Standard", 1: "Landscape", 2: "Portrait", 3: "Night scene"}},
		{"ColorSpace", ColorSpace, map[int64]string{1: "sRGB", 2: "Adobe RGB"}},
		{"ResolutionUnit", ResolutionUnit, map[int64]string{1: "No absolute unit of measurement", 2: "Inches", 3: "Centimeters"}},
		{"YCbCrPositioning", YCbCrPositioning, map[int64]string{1: "Centered", 2: "Co-sited"}},
		{"FocusMode", FocusMode, map[int64]string{0: "Manual", 1: "Auto"}},
		{"ShootingMode", ShootingMode, map[int64]string{0: "Normal", 1: "Portrait", 2: "Landscape"}},
		{"Orientation", Orientation, map[int64]string{
			1: "Normal",
			2: "Mirrored horizontally",
			3: "Rotated 180 degrees",
			4: "Mirrored vertically",
			5: "Mirrored horizontally and rotated 270 degrees CW",
			6: "Rotated 90 degrees CW",
			7: "Mirrored horizontally and rotated 90 degrees CW",
			8: "Rotated 270 degrees CW",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, core.NotApplicable, tt.resolver.Resolve(NewDirectory(nil)), "absent")
			assert.Equal(t, core.NotApplicable, tt.resolver.Resolve(nil), "nil directory")

			assert.Equal(t, core.Unknown, tt.resolver.Resolve(dirWith(tt.resolver.Key, Shorts{999})), "unmapped code")
			assert.Equal(t, core.Unknown, tt.resolver.Resolve(dirWith(tt.resolver.Key, Ascii("auto"))), "non-integer value")
			assert.Equal(t, core.Unknown, tt.resolver.Resolve(dirWith(tt.resolver.Key, Shorts{})), "empty value")

			assert.Len(t, tt.resolver.Table, len(tt.labels))
			for code, label := range tt.labels {
				assert.Equal(t, label, tt.resolver.Resolve(dirWith(tt.resolver.Key, Shorts{uint16(code)})), "code %d", code)
				assert.Equal(t, label, tt.resolver.Resolve(dirWith(tt.resolver.Key, Longs{uint32(code)})), "long code %d", code)
			}
		})
	}
}

func TestResolvers_OnlyFirstElement(t *testing.T) {
	d := dirWith(Flash.Key, Shorts{1, 0})
	assert.Equal(t, "Flash fired", Flash.Resolve(d))
}

func TestResolvers_WrongScope(t *testing.T) {
	d := dirWith(Key{ScopeThumbnail, "Orientation"}, Shorts{1})
	assert.Equal(t, core.NotApplicable, Orientation.Resolve(d))
}

func TestNoiseReduction(t *testing.T) {
	tests := []struct {
		name string
		dir  *Directory
		want string
	}{
		{"absent", NewDirectory(nil), core.NotApplicable},
		{"on", dirWith(noiseReductionKey, Shorts{1}), "On"},
		{"off", dirWith(noiseReductionKey, Shorts{0}), "Off"},
		{"other code", dirWith(noiseReductionKey, Shorts{7}), "Off"},
		{"non-integer", dirWith(noiseReductionKey, Ascii("yes")), "Off"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NoiseReduction(tt.dir)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, core.Unknown, got)
		})
	}
}
