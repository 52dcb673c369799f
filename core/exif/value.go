package exif

import (
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindAscii Kind = iota + 1
	KindShort
	KindLong
	KindRational
	KindSRational
	KindUndefined
	KindByte
	KindSigned
	KindFloat
)

// Value is the decoded value of one tag. The set of implementations is
// closed: Ascii, Shorts, Longs, Rationals, SRationals, Undefined, Bytes,
// Signed and Floats.
type Value interface {
	Kind() Kind
	// Len is the number of elements (characters for Ascii).
	Len() int
	// Items renders each element as text.
	Items() []string
	// String renders the value the way it is shown in a report.
	String() string

	value()
}

// Ascii holds an ASCII tag with trailing NULs and whitespace removed.
type Ascii string

// Shorts holds unsigned 16-bit integers.
type Shorts []uint16

// Longs holds unsigned 32-bit integers.
type Longs []uint32

// Rationals holds unsigned rationals.
type Rationals []Rational

// SRationals holds signed rationals.
type SRationals []Rational

// Undefined holds opaque bytes, including values of unrecognised types.
type Undefined []byte

// Bytes holds unsigned 8-bit integers.
type Bytes []byte

// Signed holds SBYTE, SSHORT and SLONG values.
type Signed []int32

// Floats holds FLOAT and DOUBLE values.
type Floats []float64

func (Ascii) Kind() Kind      { return KindAscii }
func (Shorts) Kind() Kind     { return KindShort }
func (Longs) Kind() Kind      { return KindLong }
func (Rationals) Kind() Kind  { return KindRational }
func (SRationals) Kind() Kind { return KindSRational }
func (Undefined) Kind() Kind  { return KindUndefined }
func (Bytes) Kind() Kind      { return KindByte }
func (Signed) Kind() Kind     { return KindSigned }
func (Floats) Kind() Kind     { return KindFloat }

func (v Ascii) Len() int      { return len(v) }
func (v Shorts) Len() int     { return len(v) }
func (v Longs) Len() int      { return len(v) }
func (v Rationals) Len() int  { return len(v) }
func (v SRationals) Len() int { return len(v) }
func (v Undefined) Len() int  { return len(v) }
func (v Bytes) Len() int      { return len(v) }
func (v Signed) Len() int     { return len(v) }
func (v Floats) Len() int     { return len(v) }

func (Ascii) value()      {}
func (Shorts) value()     {}
func (Longs) value()      {}
func (Rationals) value()  {}
func (SRationals) value() {}
func (Undefined) value()  {}
func (Bytes) value()      {}
func (Signed) value()     {}
func (Floats) value()     {}

func (v Ascii) Items() []string { return []string{string(v)} }

func (v Shorts) Items() []string {
	out := make([]string, len(v))
	for i, n := range v {
		out[i] = strconv.FormatUint(uint64(n), 10)
	}
	return out
}

func (v Longs) Items() []string {
	out := make([]string, len(v))
	for i, n := range v {
		out[i] = strconv.FormatUint(uint64(n), 10)
	}
	return out
}

func (v Rationals) Items() []string { return ratItems(v) }

func (v SRationals) Items() []string { return ratItems(v) }

func (v Undefined) Items() []string { return Bytes(v).Items() }

func (v Bytes) Items() []string {
	out := make([]string, len(v))
	for i, n := range v {
		out[i] = strconv.Itoa(int(n))
	}
	return out
}

func (v Signed) Items() []string {
	out := make([]string, len(v))
	for i, n := range v {
		out[i] = strconv.Itoa(int(n))
	}
	return out
}

func (v Floats) Items() []string {
	out := make([]string, len(v))
	for i, f := range v {
		out[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return out
}

func ratItems(v []Rational) []string {
	out := make([]string, len(v))
	for i, r := range v {
		out[i] = r.String()
	}
	return out
}

func (v Ascii) String() string      { return string(v) }
func (v Shorts) String() string     { return listString(v.Items()) }
func (v Longs) String() string      { return listString(v.Items()) }
func (v Rationals) String() string  { return listString(v.Items()) }
func (v SRationals) String() string { return listString(v.Items()) }
func (v Bytes) String() string      { return listString(v.Items()) }
func (v Signed) String() string     { return listString(v.Items()) }
func (v Floats) String() string     { return listString(v.Items()) }

// String renders printable payloads such as ExifVersion ("0230") as text
// and anything else as a byte list.
func (v Undefined) String() string {
	text := strings.TrimRight(string(v), "\x00")
	if text != "" && isPrintable(text) {
		return strings.TrimSpace(text)
	}
	return listString(v.Items())
}

// List renders every element in brackets, even for a single element.
func List(v Value) string {
	if v == nil {
		return "[]"
	}
	return "[" + strings.Join(v.Items(), ", ") + "]"
}

const (
	longListLimit = 50
	longListShown = 20
)

func listString(items []string) string {
	switch {
	case len(items) == 1:
		return items[0]
	case len(items) > longListLimit:
		return "[" + strings.Join(items[:longListShown], ", ") + ", ... ]"
	default:
		return "[" + strings.Join(items, ", ") + "]"
	}
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

// Int returns element i of an integer-typed value.
func Int(v Value, i int) (int64, bool) {
	if v == nil || i < 0 || i >= v.Len() {
		return 0, false
	}
	switch t := v.(type) {
	case Shorts:
		return int64(t[i]), true
	case Longs:
		return int64(t[i]), true
	case Bytes:
		return int64(t[i]), true
	case Signed:
		return int64(t[i]), true
	}
	return 0, false
}

// Rat returns element i of a RATIONAL or SRATIONAL value.
func Rat(v Value, i int) (Rational, bool) {
	if v == nil || i < 0 || i >= v.Len() {
		return Rational{}, false
	}
	switch t := v.(type) {
	case Rationals:
		return t[i], true
	case SRationals:
		return t[i], true
	}
	return Rational{}, false
}
