package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/exif"
	"github.com/ankit-chaubey/image-metadata-extractor/core/exif/exiftest"
)

func fullSegment() []byte {
	b := exiftest.New()
	return b.
		Image(
			b.ASCII(0x010F, "Canon"),
			b.ASCII(0x0110, "Canon EOS 80D"),
			b.ASCII(0x0131, "Firmware 1.0.2"),
			b.Short(0x0112, 6),
			b.Rational(0x011A, 72, 1),
			b.Rational(0x011B, 72, 1),
			b.Short(0x0128, 2),
			b.ASCII(0x0132, "2021:06:02 08:00:00"),
			b.Short(0x0213, 2),
			b.Short(0x0103, 6),
		).
		Exif(
			b.Rational(0x829A, 1, 100),
			b.Rational(0x829D, 28, 10),
			b.Short(0x8822, 3),
			b.Short(0x8827, 200),
			b.Undefined(0x9000, []byte("0230")),
			b.ASCII(0x9003, "2021:06:01 12:30:00"),
			b.ASCII(0x9004, "2021:06:01 12:30:01"),
			b.ASCII(0x9011, "+02:00"),
			b.SRational(0x9201, 2000, 300),
			b.Rational(0x9202, 297, 100),
			b.SRational(0x9203, 0, 1),
			b.SRational(0x9204, -1, 3),
			b.Rational(0x9205, 3, 1),
			b.Rational(0x9206, 5, 0),
			b.Short(0x9207, 5),
			b.Short(0x9209, 1),
			b.Rational(0x920A, 50, 1),
			b.Short(0x9214, 2015, 1511, 2217, 1330),
			b.Short(0xA001, 0xFFFF),
			b.Long(0xA002, 6000),
			b.Long(0xA003, 4000),
			b.Short(0xA402, 1),
			b.Short(0xA403, 0),
			b.Rational(0xA404, 1, 1),
			b.Short(0xA405, 80),
			b.Short(0xA406, 3),
			b.ASCII(0xA420, "A1B2C3"),
			b.ASCII(0xA431, "123456789"),
			b.ASCII(0xA434, "EF50mm f/1.8 STM"),
		).
		GPS(
			b.ASCII(0x01, "N"),
			b.Rational(0x02, 40, 1, 0, 1, 0, 1),
			b.ASCII(0x03, "W"),
			b.Rational(0x04, 74, 1, 0, 1, 0, 1),
			b.Byte(0x05, 0),
			b.Rational(0x06, 105, 10),
		).
		Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func value(t *testing.T, r *core.Report, section, label string) string {
	t.Helper()
	v, ok := r.Value(section, label)
	require.True(t, ok, "%s / %s missing", section, label)
	return v
}

func TestExtract_FullJPEG(t *testing.T) {
	data := exiftest.JPEG(16, 8, fullSegment())
	path := writeFile(t, "photo.jpg", data)

	r, err := Extract(path)
	require.NoError(t, err)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, path, r.FilePath)

	names := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		core.SectionImage, core.SectionCamera, core.SectionDateTime,
		core.SectionSettings, core.SectionGPS, core.SectionOther,
	}, names)

	want := map[string]map[string]string{
		core.SectionImage: {
			"Format":     "JPEG",
			"Size":       "16 x 8 pixels",
			"Color Mode": "RGB",
			"DPI":        core.NotApplicable,
			"Duration":   core.NotApplicable,
		},
		core.SectionCamera: {
			"Make":                 "Canon",
			"Model":                "Canon EOS 80D",
			"Software":             "Firmware 1.0.2",
			"Lens Model":           "EF50mm f/1.8 STM",
			"Camera Serial Number": "123456789",
			"Date of Manufacture":  "2021:06:01 12:30:00",
		},
		core.SectionDateTime: {
			"Taken":            "2021:06:01 12:30:00",
			"Digitized":        "2021:06:01 12:30:01",
			"DateTime":         "2021:06:02 08:00:00",
			"Time Zone Offset": "+02:00",
		},
		core.SectionSettings: {
			"Exposure Time":                  "1/100",
			"F-Number":                       "14/5",
			"ISO Speed":                      "200",
			"Focal Length":                   "50mm",
			"Focal Length (35mm equivalent)": "80mm",
			"Exposure Mode":                  "Manual",
			"White Balance":                  "Auto",
			"Flash":                          "Flash fired",
			"Metering Mode":                  "Pattern",
			"Exposure Program":               "Aperture priority",
			"Brightness Value":               "0",
			"Exposure Bias":                  "-1/3",
			"Max Aperture Value":             "3",
			"Digital Zoom Ratio":             "1",
			"Scene Capture Type":             "Night scene",
			"Shutter Speed Value":            "20/3",
			"Aperture Value":                 "297/100",
			"Color Space":                    core.Unknown,
			"Focus Mode":                     core.NotApplicable,
			"Shooting Mode":                  core.NotApplicable,
			"Noise Reduction":                core.NotApplicable,
			"Subject Area":                   "[2015, 1511, 2217, 1330]",
		},
		core.SectionGPS: {
			"Latitude":         "40.00000° N",
			"Longitude":        "74.00000° W",
			"Google Maps Link": "https://www.google.com/maps?q=40.0,-74.0",
			"Altitude":         "10.50 meters",
		},
		core.SectionOther: {
			"Orientation":       "Rotated 90 degrees CW",
			"YCbCr Positioning": "Co-sited",
			"Resolution":        "72 x 72 Inches",
			"Unique Image ID":   "A1B2C3",
			"Exif Version":      "0230",
			"Compression":       "6",
			"Image Width":       "6000",
			"Image Length":      "4000",
			"Subject Distance":  core.NotApplicable,
			"Metering Mode":     "Pattern",
			"File Name":         "photo.jpg",
			"File Path":         path,
		},
	}
	for section, fields := range want {
		for label, v := range fields {
			assert.Equal(t, v, value(t, r, section, label), "%s / %s", section, label)
		}
	}
	assert.Equal(t, "Make: Canon", r.Summary())
}

func TestExtract_FieldOrder(t *testing.T) {
	r, err := Extract(writeFile(t, "plain.jpg", exiftest.JPEG(4, 4, nil)))
	require.NoError(t, err)

	labels := func(name string) []string {
		var out []string
		for _, f := range r.Section(name).Fields {
			out = append(out, f.Label)
		}
		return out
	}
	assert.Equal(t, []string{"Format", "Size", "Color Mode", "File Size", "DPI", "Duration"}, labels(core.SectionImage))
	assert.Equal(t, []string{"Taken", "Digitized", "DateTime", "Time Zone Offset"}, labels(core.SectionDateTime))
	assert.Equal(t, []string{
		"Exposure Time", "F-Number", "ISO Speed", "Focal Length", "Focal Length (35mm equivalent)",
		"Exposure Mode", "White Balance", "Flash", "Metering Mode", "Exposure Program",
		"Brightness Value", "Exposure Bias", "Max Aperture Value", "Digital Zoom Ratio",
		"Scene Capture Type", "Shutter Speed Value", "Aperture Value", "Color Space",
		"Focus Mode", "Shooting Mode", "Noise Reduction", "Subject Area",
	}, labels(core.SectionSettings))
	assert.Len(t, labels(core.SectionOther), 12)
}

func TestExtract_NoMetadata(t *testing.T) {
	data := exiftest.JPEG(10, 6, nil)
	path := writeFile(t, "bare.jpg", data)

	r, err := Extract(path)
	require.NoError(t, err)

	assert.Equal(t, "JPEG", value(t, r, core.SectionImage, "Format"))
	assert.Equal(t, "10 x 6 pixels", value(t, r, core.SectionImage, "Size"))
	assert.Equal(t, "RGB", value(t, r, core.SectionImage, "Color Mode"))
	assert.NotEqual(t, "0", value(t, r, core.SectionImage, "File Size"))

	for _, name := range []string{core.SectionCamera, core.SectionDateTime, core.SectionSettings, core.SectionOther} {
		for _, f := range r.Section(name).Fields {
			if f.Label == "File Name" || f.Label == "File Path" {
				continue
			}
			assert.Equal(t, core.NotApplicable, f.Value, "%s / %s", name, f.Label)
		}
	}

	gps := r.Section(core.SectionGPS)
	require.NotNil(t, gps)
	assert.Empty(t, gps.Fields)
	assert.Equal(t, core.NotApplicable, gps.Placeholder)
}

func TestExtract_Idempotent(t *testing.T) {
	path := writeFile(t, "photo.jpg", exiftest.JPEG(8, 8, fullSegment()))

	first, err := Extract(path)
	require.NoError(t, err)
	second, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtract_PNG(t *testing.T) {
	path := writeFile(t, "shot.png", exiftest.PNG(4, 3, 2835, fullSegment()))

	r, err := Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", value(t, r, core.SectionImage, "Format"))
	assert.Equal(t, "(72.009, 72.009)", value(t, r, core.SectionImage, "DPI"))
	assert.Equal(t, "Canon", value(t, r, core.SectionCamera, "Make"))
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Extract(filepath.Join(dir, "missing.jpg"))
	var nf *core.NotFoundError
	assert.True(t, errors.As(err, &nf), "missing file: %v", err)

	_, err = Extract(dir)
	assert.True(t, errors.As(err, &nf), "directory: %v", err)

	_, err = Extract(writeFile(t, "notes.jpg", []byte("plain text, not an image")))
	var uf *core.UnsupportedFormatError
	assert.True(t, errors.As(err, &uf), "text file: %v", err)
}

func TestExtract_MalformedSegment(t *testing.T) {
	full := fullSegment()
	path := writeFile(t, "broken.jpg", exiftest.JPEG(8, 8, full[:len(full)-4]))

	t.Run("degrade", func(t *testing.T) {
		r, err := New().Extract(path)
		require.NoError(t, err)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0], "malformed")

		assert.Equal(t, "JPEG", value(t, r, core.SectionImage, "Format"))
		assert.Equal(t, core.NotApplicable, value(t, r, core.SectionCamera, "Make"))
		assert.Equal(t, core.NotApplicable, r.Section(core.SectionGPS).Placeholder)
	})

	t.Run("strict", func(t *testing.T) {
		r, err := New(WithStrict(true)).Extract(path)
		require.Error(t, err)
		assert.Nil(t, r)

		var fe *core.FormatError
		assert.True(t, errors.As(err, &fe), "got %T", err)
	})
}

func TestExtract_TruncatedWebPExif(t *testing.T) {
	vp8x := exiftest.Chunk{ID: "VP8X", Data: []byte{0x08, 0, 0, 0, 7, 0, 0, 7, 0, 0}}
	webp := exiftest.WebP(vp8x, exiftest.Chunk{ID: "EXIF", Data: fullSegment()})
	path := writeFile(t, "cut.webp", webp[:len(webp)-6])

	r, err := New().Extract(path)
	require.NoError(t, err)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "WEBP", value(t, r, core.SectionImage, "Format"))
	assert.Equal(t, core.NotApplicable, value(t, r, core.SectionCamera, "Make"))

	_, err = New(WithStrict(true)).Extract(path)
	var fe *core.FormatError
	assert.True(t, errors.As(err, &fe), "got %T", err)
}

func TestGPSSection_AltitudeOnly(t *testing.T) {
	d := exif.NewDirectory(map[exif.Key]exif.Value{
		{Scope: exif.ScopeGPS, Name: "GPSAltitude"}:    exif.Rationals{{Num: 105, Den: 10}},
		{Scope: exif.ScopeGPS, Name: "GPSAltitudeRef"}: exif.Bytes{1},
	})
	s := gpsSection(d)
	assert.Empty(t, s.Placeholder)
	assert.Equal(t, []core.Field{{Label: "Altitude", Value: "-10.50 meters"}}, s.Fields)
}

func TestResolution(t *testing.T) {
	assert.Equal(t, core.NotApplicable, resolution(exif.NewDirectory(nil)))

	d := exif.NewDirectory(map[exif.Key]exif.Value{
		{Scope: exif.ScopeImage, Name: "XResolution"}: exif.Rationals{{Num: 300, Den: 1}},
	})
	assert.Equal(t, "300 x N/A N/A", resolution(d))
}
