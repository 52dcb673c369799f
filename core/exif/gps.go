package exif

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const mapsURL = "https://www.google.com/maps?q="

var (
	gpsLatitude     = Key{ScopeGPS, "GPSLatitude"}
	gpsLatitudeRef  = Key{ScopeGPS, "GPSLatitudeRef"}
	gpsLongitude    = Key{ScopeGPS, "GPSLongitude"}
	gpsLongitudeRef = Key{ScopeGPS, "GPSLongitudeRef"}
	gpsAltitude     = Key{ScopeGPS, "GPSAltitude"}
	gpsAltitudeRef  = Key{ScopeGPS, "GPSAltitudeRef"}
)

// Coordinate is one axis of a GPS position.
type Coordinate struct {
	Degrees float64 // unsigned value as stored
	Ref     string  // hemisphere reference as stored
	Signed  float64 // negated for S / W
}

// GPS is the position decoded from the GPS IFD.
type GPS struct {
	Latitude    Coordinate
	Longitude   Coordinate
	HasPosition bool

	Altitude    float64 // metres, negative below sea level
	HasAltitude bool
}

// ToDegrees combines a degree/minute/second rational triplet into decimal
// degrees. Each component is divided out before summing. It fails on fewer
// than three rationals or a zero denominator.
func ToDegrees(v Value) (float64, bool) {
	if v == nil || v.Len() < 3 {
		return 0, false
	}
	var parts [3]float64
	for i := range parts {
		r, ok := Rat(v, i)
		if !ok {
			return 0, false
		}
		if parts[i], ok = r.Float(); !ok {
			return 0, false
		}
	}
	return parts[0] + parts[1]/60.0 + parts[2]/3600.0, true
}

// GPSFromDirectory reads position and altitude. The position needs all four
// of latitude, latitude ref, longitude and longitude ref; altitude is read
// independently of it.
func GPSFromDirectory(d *Directory) GPS {
	var g GPS

	lat, latOK := d.Get(gpsLatitude)
	latRef, latRefOK := d.Get(gpsLatitudeRef)
	lon, lonOK := d.Get(gpsLongitude)
	lonRef, lonRefOK := d.Get(gpsLongitudeRef)
	if latOK && latRefOK && lonOK && lonRefOK {
		latDeg, ok1 := ToDegrees(lat)
		lonDeg, ok2 := ToDegrees(lon)
		if ok1 && ok2 {
			g.Latitude = newCoordinate(latDeg, refOf(latRef), "S")
			g.Longitude = newCoordinate(lonDeg, refOf(lonRef), "W")
			g.HasPosition = true
		}
	}

	if alt, ok := d.Get(gpsAltitude); ok {
		if r, ok := Rat(alt, 0); ok {
			if f, ok := r.Float(); ok {
				if ref, ok := d.Get(gpsAltitudeRef); ok {
					if code, ok := Int(ref, 0); ok && code == 1 {
						f = -f
					}
				}
				g.Altitude = f
				g.HasAltitude = true
			}
		}
	}
	return g
}

func newCoordinate(deg float64, ref, negative string) Coordinate {
	c := Coordinate{Degrees: deg, Ref: ref, Signed: deg}
	if ref == negative {
		c.Signed = -deg
	}
	return c
}

// refOf takes the first character of a hemisphere reference tag.
func refOf(v Value) string {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return ""
	}
	return s[:1]
}

// LatitudeString renders e.g. "40.71280° N". Any reference other than S
// is shown as N.
func (g GPS) LatitudeString() string {
	return formatCoordinate(g.Latitude, "S", "N")
}

// LongitudeString renders e.g. "74.00600° W". Any reference other than W
// is shown as E.
func (g GPS) LongitudeString() string {
	return formatCoordinate(g.Longitude, "W", "E")
}

func formatCoordinate(c Coordinate, negative, positive string) string {
	hemi := positive
	if c.Ref == negative {
		hemi = negative
	}
	return fmt.Sprintf("%.5f° %s", math.Abs(c.Signed), hemi)
}

// MapLink returns a Google Maps URL for the signed position.
func (g GPS) MapLink() string {
	return mapsURL + reprFloat(g.Latitude.Signed) + "," + reprFloat(g.Longitude.Signed)
}

// AltitudeString renders e.g. "10.50 meters".
func (g GPS) AltitudeString() string {
	return fmt.Sprintf("%.2f meters", g.Altitude)
}

// reprFloat is the shortest round-trip form. Magnitudes below 1e-4 or from
// 1e16 up use an exponent; otherwise there is always a decimal point.
func reprFloat(f float64) string {
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
