package report

import (
	"path/filepath"
	"strconv"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
	"github.com/ankit-chaubey/image-metadata-extractor/core/exif"
	"github.com/ankit-chaubey/image-metadata-extractor/core/image"
)

// assemble lays out every section in presentation order. It never fails;
// missing data resolves to the N/A and Unknown sentinels.
func assemble(path string, size int64, c *image.Container, d *exif.Directory) *core.Report {
	return &core.Report{
		FilePath: path,
		Sections: []core.Section{
			imageSection(c, size),
			cameraSection(d),
			dateTimeSection(d),
			settingsSection(d),
			gpsSection(d),
			otherSection(d, path),
		},
	}
}

// ─── Lookups ─────────────────────────────────────────────────────────────────

// text renders a tag as-is, or N/A when absent.
func text(d *exif.Directory, scope exif.Scope, name string) string {
	v, ok := d.Lookup(scope, name)
	if !ok {
		return core.NotApplicable
	}
	return v.String()
}

func ratio(d *exif.Directory, scope exif.Scope, name string) string {
	v, _ := d.Lookup(scope, name)
	return exif.FormatRational(v, core.NotApplicable)
}

// millimetres appends "mm" unless the value is the N/A sentinel.
func millimetres(s string) string {
	if s == core.NotApplicable {
		return s
	}
	return s + "mm"
}

// ─── Sections ────────────────────────────────────────────────────────────────

func imageSection(c *image.Container, size int64) core.Section {
	s := core.Section{Name: core.SectionImage}
	s.Add("Format", c.Format)
	s.Add("Size", c.SizeString())
	s.Add("Color Mode", c.ColorMode)
	s.Add("File Size", strconv.FormatInt(size, 10))
	s.Add("DPI", c.DPIString())
	s.Add("Duration", c.DurationString())
	return s
}

func cameraSection(d *exif.Directory) core.Section {
	s := core.Section{Name: core.SectionCamera}
	s.Add("Make", text(d, exif.ScopeImage, "Make"))
	s.Add("Model", text(d, exif.ScopeImage, "Model"))
	s.Add("Software", text(d, exif.ScopeImage, "Software"))
	s.Add("Lens Model", text(d, exif.ScopeEXIF, "LensModel"))
	s.Add("Camera Serial Number", text(d, exif.ScopeEXIF, "BodySerialNumber"))
	s.Add("Date of Manufacture", text(d, exif.ScopeEXIF, "DateTimeOriginal"))
	return s
}

func dateTimeSection(d *exif.Directory) core.Section {
	s := core.Section{Name: core.SectionDateTime}
	s.Add("Taken", text(d, exif.ScopeEXIF, "DateTimeOriginal"))
	s.Add("Digitized", text(d, exif.ScopeEXIF, "DateTimeDigitized"))
	s.Add("DateTime", text(d, exif.ScopeImage, "DateTime"))
	s.Add("Time Zone Offset", text(d, exif.ScopeEXIF, "OffsetTimeOriginal"))
	return s
}

func settingsSection(d *exif.Directory) core.Section {
	s := core.Section{Name: core.SectionSettings}
	s.Add("Exposure Time", ratio(d, exif.ScopeEXIF, "ExposureTime"))
	s.Add("F-Number", ratio(d, exif.ScopeEXIF, "FNumber"))
	s.Add("ISO Speed", text(d, exif.ScopeEXIF, "ISOSpeedRatings"))
	s.Add("Focal Length", millimetres(ratio(d, exif.ScopeEXIF, "FocalLength")))
	s.Add("Focal Length (35mm equivalent)", millimetres(text(d, exif.ScopeEXIF, "FocalLengthIn35mmFilm")))
	s.Add("Exposure Mode", exif.ExposureMode.Resolve(d))
	s.Add("White Balance", exif.WhiteBalance.Resolve(d))
	s.Add("Flash", exif.Flash.Resolve(d))
	s.Add("Metering Mode", exif.MeteringMode.Resolve(d))
	s.Add("Exposure Program", exif.ExposureProgram.Resolve(d))
	s.Add("Brightness Value", ratio(d, exif.ScopeEXIF, "BrightnessValue"))
	s.Add("Exposure Bias", ratio(d, exif.ScopeEXIF, "ExposureBiasValue"))
	s.Add("Max Aperture Value", ratio(d, exif.ScopeEXIF, "MaxApertureValue"))
	s.Add("Digital Zoom Ratio", ratio(d, exif.ScopeEXIF, "DigitalZoomRatio"))
	s.Add("Scene Capture Type", exif.SceneCaptureType.Resolve(d))
	s.Add("Shutter Speed Value", ratio(d, exif.ScopeEXIF, "ShutterSpeedValue"))
	s.Add("Aperture Value", ratio(d, exif.ScopeEXIF, "ApertureValue"))
	s.Add("Color Space", exif.ColorSpace.Resolve(d))
	s.Add("Focus Mode", exif.FocusMode.Resolve(d))
	s.Add("Shooting Mode", exif.ShootingMode.Resolve(d))
	s.Add("Noise Reduction", exif.NoiseReduction(d))
	s.Add("Subject Area", subjectArea(d))
	return s
}

func subjectArea(d *exif.Directory) string {
	v, ok := d.Lookup(exif.ScopeEXIF, "SubjectArea")
	if !ok {
		return core.NotApplicable
	}
	return exif.List(v)
}

// gpsSection lists position and altitude when known, and is the N/A
// placeholder when neither is.
func gpsSection(d *exif.Directory) core.Section {
	s := core.Section{Name: core.SectionGPS}
	g := exif.GPSFromDirectory(d)
	if g.HasPosition {
		s.Add("Latitude", g.LatitudeString())
		s.Add("Longitude", g.LongitudeString())
		s.Add("Google Maps Link", g.MapLink())
	}
	if g.HasAltitude {
		s.Add("Altitude", g.AltitudeString())
	}
	if len(s.Fields) == 0 {
		s.Placeholder = core.NotApplicable
	}
	return s
}

func otherSection(d *exif.Directory, path string) core.Section {
	s := core.Section{Name: core.SectionOther}
	s.Add("Orientation", exif.Orientation.Resolve(d))
	s.Add("YCbCr Positioning", exif.YCbCrPositioning.Resolve(d))
	s.Add("Resolution", resolution(d))
	s.Add("Unique Image ID", text(d, exif.ScopeEXIF, "ImageUniqueID"))
	s.Add("Exif Version", text(d, exif.ScopeEXIF, "ExifVersion"))
	s.Add("Compression", text(d, exif.ScopeImage, "Compression"))
	s.Add("Image Width", text(d, exif.ScopeEXIF, "ExifImageWidth"))
	s.Add("Image Length", text(d, exif.ScopeEXIF, "ExifImageLength"))
	s.Add("Subject Distance", ratio(d, exif.ScopeEXIF, "SubjectDistance"))
	s.Add("Metering Mode", exif.MeteringMode.Resolve(d))
	s.Add("File Name", filepath.Base(path))
	s.Add("File Path", path)
	return s
}

// resolution renders "<x> x <y> <unit>", or N/A when none of the three
// tags is present.
func resolution(d *exif.Directory) string {
	x := ratio(d, exif.ScopeImage, "XResolution")
	y := ratio(d, exif.ScopeImage, "YResolution")
	unit := exif.ResolutionUnit.Resolve(d)
	if x == core.NotApplicable && y == core.NotApplicable && unit == core.NotApplicable {
		return core.NotApplicable
	}
	return x + " x " + y + " " + unit
}
