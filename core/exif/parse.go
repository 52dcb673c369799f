package exif

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
)

// exifHeader prefixes the TIFF body inside a JPEG APP1 segment.
var exifHeader = []byte("Exif\x00\x00")

const (
	tiffHeaderSize = 8
	tiffMagic      = 42
	ifdEntrySize   = 12
)

// typeSizes is the byte size of one element of each TIFF data type.
var typeSizes = map[tiff.DataType]uint64{
	tiff.DTByte:      1,
	tiff.DTAscii:     1,
	tiff.DTShort:     2,
	tiff.DTLong:      4,
	tiff.DTRational:  8,
	tiff.DTSByte:     1,
	tiff.DTUndefined: 1,
	tiff.DTSShort:    2,
	tiff.DTSLong:     4,
	tiff.DTSRational: 8,
	tiff.DTFloat:     4,
	tiff.DTDouble:    8,
}

// subIFDs lists the pointer tags followed after IFD0, in walk order.
var subIFDs = []struct {
	from  Scope
	id    uint16
	scope Scope
}{
	{ScopeImage, exifPointer, ScopeEXIF},
	{ScopeImage, gpsPointer, ScopeGPS},
	{ScopeEXIF, interopPointer, ScopeInterop},
}

type parser struct {
	buf   []byte
	order binary.ByteOrder
	tags  map[Key]Value
	seen  map[uint32]bool
}

// Parse decodes a TIFF-structured metadata segment, with or without the
// leading "Exif\0\0" header, into a Directory.
//
// An empty segment yields an empty Directory. A bad byte-order marker or
// magic number, or any table or value running past the end of data, fails
// with *core.FormatError. Unknown tag ids and types are kept, not rejected.
func Parse(data []byte) (*Directory, error) {
	data = bytes.TrimPrefix(data, exifHeader)
	if len(data) == 0 {
		return NewDirectory(nil), nil
	}
	if len(data) < tiffHeaderSize {
		return nil, core.NewFormatError(0, "TIFF header truncated (%d bytes)", len(data))
	}

	p := &parser{
		buf:  data,
		tags: make(map[Key]Value),
		seen: make(map[uint32]bool),
	}
	switch string(data[:2]) {
	case "II":
		p.order = binary.LittleEndian
	case "MM":
		p.order = binary.BigEndian
	default:
		return nil, core.NewFormatError(0, "invalid byte order marker %q", data[:2])
	}
	if magic := p.order.Uint16(data[2:4]); magic != tiffMagic {
		return nil, core.NewFormatError(2, "invalid TIFF magic %d", magic)
	}

	next, err := p.readIFD(p.order.Uint32(data[4:8]), ScopeImage)
	if err != nil {
		return nil, err
	}
	if next != 0 {
		if _, err := p.readIFD(next, ScopeThumbnail); err != nil {
			return nil, err
		}
	}

	for _, sub := range subIFDs {
		ptr, ok := p.tags[Key{Scope: sub.from, Name: TagName(sub.from, sub.id)}]
		if !ok {
			continue
		}
		offset, ok := Int(ptr, 0)
		if !ok {
			continue
		}
		if _, err := p.readIFD(uint32(offset), sub.scope); err != nil {
			return nil, err
		}
	}

	return &Directory{order: p.order, tags: p.tags}, nil
}

// readIFD decodes the directory at offset into scope and returns the offset
// of the next IFD in the chain.
func (p *parser) readIFD(offset uint32, scope Scope) (uint32, error) {
	if p.seen[offset] {
		return 0, nil
	}
	p.seen[offset] = true

	size := uint64(len(p.buf))
	if uint64(offset)+2 > size {
		return 0, core.NewFormatError(int64(offset), "%s IFD offset past end of buffer", scope)
	}
	n := uint64(p.order.Uint16(p.buf[offset:]))
	start := uint64(offset) + 2
	end := start + n*ifdEntrySize
	if end > size {
		return 0, core.NewFormatError(int64(offset), "%s IFD with %d entries extends past end of buffer", scope, n)
	}

	for pos := start; pos < end; pos += ifdEntrySize {
		if err := p.readEntry(p.buf[pos:pos+ifdEntrySize], scope); err != nil {
			return 0, err
		}
	}

	// Some writers drop the trailing next-IFD link; treat it as the end of
	// the chain.
	if end+4 > size {
		return 0, nil
	}
	return p.order.Uint32(p.buf[end:]), nil
}

func (p *parser) readEntry(entry []byte, scope Scope) error {
	id := p.order.Uint16(entry[0:2])
	dt := tiff.DataType(p.order.Uint16(entry[2:4]))
	count := uint64(p.order.Uint32(entry[4:8]))
	raw := entry[8:12]

	key := Key{Scope: scope, Name: TagName(scope, id)}
	if _, dup := p.tags[key]; dup {
		return nil
	}

	elem, known := typeSizes[dt]
	if !known {
		p.tags[key] = Undefined(append([]byte(nil), raw...))
		return nil
	}

	total := elem * count
	var data []byte
	if total <= 4 {
		data = raw[:total]
	} else {
		offset := uint64(p.order.Uint32(raw))
		if offset+total > uint64(len(p.buf)) {
			return core.NewFormatError(int64(offset), "value of %s (%d bytes) extends past end of buffer", key, total)
		}
		data = p.buf[offset : offset+total]
	}

	p.tags[key] = decodeValue(dt, int(count), data, p.order)
	return nil
}

// decodeValue converts count elements of type dt. The result never aliases
// data.
func decodeValue(dt tiff.DataType, count int, data []byte, order binary.ByteOrder) Value {
	switch dt {
	case tiff.DTAscii:
		if i := bytes.IndexByte(data, 0); i >= 0 {
			data = data[:i]
		}
		return Ascii(bytes.TrimRight(data, " \t\r\n"))
	case tiff.DTByte:
		return Bytes(append([]byte(nil), data...))
	case tiff.DTUndefined:
		return Undefined(append([]byte(nil), data...))
	case tiff.DTShort:
		v := make(Shorts, count)
		for i := range v {
			v[i] = order.Uint16(data[i*2:])
		}
		return v
	case tiff.DTLong:
		v := make(Longs, count)
		for i := range v {
			v[i] = order.Uint32(data[i*4:])
		}
		return v
	case tiff.DTRational:
		v := make(Rationals, count)
		for i := range v {
			v[i] = Rational{
				Num: int64(order.Uint32(data[i*8:])),
				Den: int64(order.Uint32(data[i*8+4:])),
			}
		}
		return v
	case tiff.DTSRational:
		v := make(SRationals, count)
		for i := range v {
			v[i] = Rational{
				Num: int64(int32(order.Uint32(data[i*8:]))),
				Den: int64(int32(order.Uint32(data[i*8+4:]))),
			}
		}
		return v
	case tiff.DTSByte:
		v := make(Signed, count)
		for i := range v {
			v[i] = int32(int8(data[i]))
		}
		return v
	case tiff.DTSShort:
		v := make(Signed, count)
		for i := range v {
			v[i] = int32(int16(order.Uint16(data[i*2:])))
		}
		return v
	case tiff.DTSLong:
		v := make(Signed, count)
		for i := range v {
			v[i] = int32(order.Uint32(data[i*4:]))
		}
		return v
	case tiff.DTFloat:
		v := make(Floats, count)
		for i := range v {
			v[i] = float64(math.Float32frombits(order.Uint32(data[i*4:])))
		}
		return v
	case tiff.DTDouble:
		v := make(Floats, count)
		for i := range v {
			v[i] = math.Float64frombits(order.Uint64(data[i*8:]))
		}
		return v
	}
	return Undefined(append([]byte(nil), data...))
}
