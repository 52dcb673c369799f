package exif

import "github.com/ankit-chaubey/image-metadata-extractor/core"

// Resolver maps the integer code stored in one tag to a label.
type Resolver struct {
	Key   Key
	Table map[int64]string
}

// Resolve returns N/A when the tag is absent, Unknown when its first element
// is not an integer code listed in the table, and the label otherwise.
func (r Resolver) Resolve(d *Directory) string {
	v, ok := d.Get(r.Key)
	if !ok {
		return core.NotApplicable
	}
	code, ok := Int(v, 0)
	if !ok {
		return core.Unknown
	}
	if label, ok := r.Table[code]; ok {
		return label
	}
	return core.Unknown
}

var (
	ExposureMode = Resolver{
		Key:   Key{ScopeEXIF, "ExposureMode"},
		Table: map[int64]string{0: "Auto", 1: "Manual", 2: "Auto bracket"},
	}
	WhiteBalance = Resolver{
		Key:   Key{ScopeEXIF, "WhiteBalance"},
		Table: map[int64]string{0: "Auto", 1: "Manual"},
	}
	Flash = Resolver{
		Key:   Key{ScopeEXIF, "Flash"},
		Table: map[int64]string{0: "Flash did not fire", 1: "Flash fired"},
	}
	MeteringMode = Resolver{
		Key: Key{ScopeEXIF, "MeteringMode"},
		Table: map[int64]string{
			0: "Unknown",
			1: "Average",
			2: "Center-weighted average",
			3: "Spot",
			4: "Multi-spot",
			5: "Pattern",
			6: "Partial",
		},
	}
	ExposureProgram = Resolver{
		Key: Key{ScopeEXIF, "ExposureProgram"},
		Table: map[int64]string{
			0: "Not defined",
			1: "Manual",
			2: "Normal program",
			3: "Aperture priority",
			4: "Shutter priority",
			5: "Creative program",
			6: "Action program",
			7: "Portrait mode",
			8: "Landscape mode",
		},
	}
	SceneCaptureType = Resolver{
		Key:   Key{ScopeEXIF, "SceneCaptureType"},
		Table: map[int64]string{0: "Standard", 1: "Landscape", 2: "Portrait", 3: "Night scene"},
	}
	ColorSpace = Resolver{
		Key:   Key{ScopeEXIF, "ColorSpace"},
		Table: map[int64]string{1: "sRGB", 2: "Adobe RGB"},
	}
	ResolutionUnit = Resolver{
		Key:   Key{ScopeImage, "ResolutionUnit"},
		Table: map[int64]string{1: "No absolute unit of measurement", 2: "Inches", 3: "Centimeters"},
	}
	YCbCrPositioning = Resolver{
		Key:   Key{ScopeImage, "YCbCrPositioning"},
		Table: map[int64]string{1: "Centered", 2: "Co-sited"},
	}
	// FocusMode and ShootingMode are vendor fields with no standard EXIF
	// tag id; they only resolve when a directory carries them by name.
	FocusMode = Resolver{
		Key:   Key{ScopeEXIF, "FocusMode"},
		Table: map[int64]string{0: "Manual", 1: "Auto"},
	}
	ShootingMode = Resolver{
		Key:   Key{ScopeEXIF, "ShootingMode"},
		Table: map[int64]string{0: "Normal", 1: "Portrait", 2: "Landscape"},
	}
	Orientation = Resolver{
		Key: Key{ScopeImage, "Orientation"},
		Table: map[int64]string{
			1: "Normal",
			2: "Mirrored horizontally",
			3: "Rotated 180 degrees",
			4: "Mirrored vertically",
			5: "Mirrored horizontally and rotated 270 degrees CW",
			6: "Rotated 90 degrees CW",
			7: "Mirrored horizontally and rotated 90 degrees CW",
			8: "Rotated 270 degrees CW",
		},
	}
)

var noiseReductionKey = Key{ScopeEXIF, "NoiseReduction"}

// NoiseReduction reports "On" for code 1 and "Off" for any other present
// value. It has no Unknown outcome.
func NoiseReduction(d *Directory) string {
	v, ok := d.Get(noiseReductionKey)
	if !ok {
		return core.NotApplicable
	}
	if code, ok := Int(v, 0); ok && code == 1 {
		return "On"
	}
	return "Off"
}
