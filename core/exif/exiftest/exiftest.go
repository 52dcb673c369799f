// Package exiftest builds synthetic EXIF segments and image files carrying
// them, for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
)

// TIFF data types.
const (
	TypeByte      = 1
	TypeAscii     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
	TypeSLong     = 9
	TypeSRational = 10
)

// Entry is one tag with its value already encoded.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32
	Data  []byte
}

// Builder assembles a TIFF body with IFD0 and optional EXIF and GPS
// sub-IFDs.
type Builder struct {
	order binary.ByteOrder
	image []Entry
	exif  []Entry
	gps   []Entry
}

// New returns a big-endian builder.
func New() *Builder { return &Builder{order: binary.BigEndian} }

// LittleEndian switches the builder to "II" byte order.
func (b *Builder) LittleEndian() *Builder {
	b.order = binary.LittleEndian
	return b
}

func (b *Builder) Image(e ...Entry) *Builder { b.image = append(b.image, e...); return b }
func (b *Builder) Exif(e ...Entry) *Builder  { b.exif = append(b.exif, e...); return b }
func (b *Builder) GPS(e ...Entry) *Builder   { b.gps = append(b.gps, e...); return b }

// ASCII encodes a NUL-terminated string.
func (b *Builder) ASCII(tag uint16, s string) Entry {
	data := append([]byte(s), 0)
	return Entry{Tag: tag, Type: TypeAscii, Count: uint32(len(data)), Data: data}
}

func (b *Builder) Short(tag uint16, vals ...uint16) Entry {
	data := make([]byte, 2*len(vals))
	for i, v := range vals {
		b.order.PutUint16(data[i*2:], v)
	}
	return Entry{Tag: tag, Type: TypeShort, Count: uint32(len(vals)), Data: data}
}

func (b *Builder) Long(tag uint16, vals ...uint32) Entry {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		b.order.PutUint32(data[i*4:], v)
	}
	return Entry{Tag: tag, Type: TypeLong, Count: uint32(len(vals)), Data: data}
}

// Rational encodes num/den pairs: Rational(tag, 1, 100, 5, 1).
func (b *Builder) Rational(tag uint16, pairs ...uint32) Entry {
	data := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		b.order.PutUint32(data[i*4:], v)
	}
	return Entry{Tag: tag, Type: TypeRational, Count: uint32(len(pairs) / 2), Data: data}
}

func (b *Builder) SRational(tag uint16, pairs ...int32) Entry {
	data := make([]byte, 4*len(pairs))
	for i, v := range pairs {
		b.order.PutUint32(data[i*4:], uint32(v))
	}
	return Entry{Tag: tag, Type: TypeSRational, Count: uint32(len(pairs) / 2), Data: data}
}

func (b *Builder) Byte(tag uint16, vals ...byte) Entry {
	return Entry{Tag: tag, Type: TypeByte, Count: uint32(len(vals)), Data: append([]byte(nil), vals...)}
}

func (b *Builder) Undefined(tag uint16, data []byte) Entry {
	return Entry{Tag: tag, Type: TypeUndefined, Count: uint32(len(data)), Data: append([]byte(nil), data...)}
}

// Raw is an entry with an arbitrary type code and 4 inline value bytes.
func (b *Builder) Raw(tag, typ uint16, count uint32, inline [4]byte) Entry {
	return Entry{Tag: tag, Type: typ, Count: count, Data: inline[:]}
}

const (
	exifPointer = 0x8769
	gpsPointer  = 0x8825
)

// Bytes lays out the TIFF body: header, IFD0 and its data, then the EXIF
// and GPS IFDs each followed by their data.
func (b *Builder) Bytes() []byte {
	ifd0 := append([]Entry(nil), b.image...)
	if len(b.exif) > 0 {
		ifd0 = append(ifd0, b.Long(exifPointer, 0))
	}
	if len(b.gps) > 0 {
		ifd0 = append(ifd0, b.Long(gpsPointer, 0))
	}

	off := uint32(8)
	ifd0Off := off
	off += ifdSize(ifd0)
	exifOff := off
	if len(b.exif) > 0 {
		off += ifdSize(b.exif)
	}
	gpsOff := off

	for i := range ifd0 {
		switch ifd0[i].Tag {
		case exifPointer:
			b.order.PutUint32(ifd0[i].Data, exifOff)
		case gpsPointer:
			b.order.PutUint32(ifd0[i].Data, gpsOff)
		}
	}

	var buf bytes.Buffer
	if b.order == binary.ByteOrder(binary.LittleEndian) {
		buf.WriteString("II")
	} else {
		buf.WriteString("MM")
	}
	b.writeU16(&buf, 42)
	b.writeU32(&buf, ifd0Off)
	b.writeIFD(&buf, ifd0, ifd0Off)
	if len(b.exif) > 0 {
		b.writeIFD(&buf, b.exif, exifOff)
	}
	if len(b.gps) > 0 {
		b.writeIFD(&buf, b.gps, gpsOff)
	}
	return buf.Bytes()
}

// ifdSize is the size of the entry table plus its out-of-line data.
func ifdSize(entries []Entry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.Data) > 4 {
			size += padded(len(e.Data))
		}
	}
	return size
}

func padded(n int) uint32 { return uint32(n + n%2) }

func (b *Builder) writeIFD(buf *bytes.Buffer, entries []Entry, at uint32) {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	data := at + uint32(2+12*len(sorted)+4)
	var tail bytes.Buffer
	b.writeU16(buf, uint16(len(sorted)))
	for _, e := range sorted {
		b.writeU16(buf, e.Tag)
		b.writeU16(buf, e.Type)
		b.writeU32(buf, e.Count)
		if len(e.Data) <= 4 {
			var inline [4]byte
			copy(inline[:], e.Data)
			buf.Write(inline[:])
			continue
		}
		b.writeU32(buf, data+uint32(tail.Len()))
		tail.Write(e.Data)
		if len(e.Data)%2 != 0 {
			tail.WriteByte(0)
		}
	}
	b.writeU32(buf, 0)
	buf.Write(tail.Bytes())
}

func (b *Builder) writeU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	b.order.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func (b *Builder) writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	b.order.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

// ─── Carriers ─────────────────────────────────────────────────────────────────

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

// JPEG encodes a w×h image. When tiffBody is non-nil it is inserted as an
// APP1 Exif segment right after SOI.
func JPEG(w, h int, tiffBody []byte) []byte {
	var enc bytes.Buffer
	if err := jpeg.Encode(&enc, testImage(w, h), nil); err != nil {
		panic(err)
	}
	raw := enc.Bytes()
	if tiffBody == nil {
		return raw
	}
	payload := append([]byte("Exif\x00\x00"), tiffBody...)
	var out bytes.Buffer
	out.Write(raw[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(raw[2:])
	return out.Bytes()
}

// PNG encodes a w×h RGBA image, inserting a pHYs chunk when ppm > 0 and an
// eXIf chunk when tiffBody is non-nil.
func PNG(w, h int, ppm uint32, tiffBody []byte) []byte {
	var enc bytes.Buffer
	if err := png.Encode(&enc, testImage(w, h)); err != nil {
		panic(err)
	}
	raw := enc.Bytes()
	// signature (8) + IHDR chunk (4+4+13+4)
	const ihdrEnd = 8 + 25
	var out bytes.Buffer
	out.Write(raw[:ihdrEnd])
	if ppm > 0 {
		phys := make([]byte, 9)
		binary.BigEndian.PutUint32(phys[0:], ppm)
		binary.BigEndian.PutUint32(phys[4:], ppm)
		phys[8] = 1
		writeChunk(&out, "pHYs", phys)
	}
	if tiffBody != nil {
		writeChunk(&out, "eXIf", tiffBody)
	}
	out.Write(raw[ihdrEnd:])
	return out.Bytes()
}

func writeChunk(w *bytes.Buffer, typ string, data []byte) {
	binary.Write(w, binary.BigEndian, uint32(len(data)))
	w.WriteString(typ)
	w.Write(data)
	crc := crc32.NewIEEE()
	crc.Write([]byte(typ))
	crc.Write(data)
	binary.Write(w, binary.BigEndian, crc.Sum32())
}

// WithJFIF inserts a JFIF APP0 segment with the given density after SOI.
// units: 0 none, 1 dots per inch, 2 dots per cm.
func WithJFIF(jpg []byte, units byte, x, y uint16) []byte {
	app0 := []byte("JFIF\x00\x01\x01")
	app0 = append(app0, units, byte(x>>8), byte(x), byte(y>>8), byte(y), 0, 0)
	var out bytes.Buffer
	out.Write(jpg[:2])
	out.Write([]byte{0xFF, 0xE0})
	binary.Write(&out, binary.BigEndian, uint16(len(app0)+2))
	out.Write(app0)
	out.Write(jpg[2:])
	return out.Bytes()
}

// Chunk is one RIFF chunk.
type Chunk struct {
	ID   string
	Data []byte
}

// WebP wraps chunks in a RIFF/WEBP container. Chunk payloads are padded to
// even length.
func WebP(chunks ...Chunk) []byte {
	var body bytes.Buffer
	body.WriteString("WEBP")
	for _, c := range chunks {
		body.WriteString(c.ID)
		binary.Write(&body, binary.LittleEndian, uint32(len(c.Data)))
		body.Write(c.Data)
		if len(c.Data)%2 != 0 {
			body.WriteByte(0)
		}
	}
	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func isoBox(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	out := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(out, uint32(8+len(body)))
	copy(out[4:], typ)
	return append(out, body...)
}

func u16(v uint16) []byte { b := make([]byte, 2); binary.BigEndian.PutUint16(b, v); return b }
func u32(v uint32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, v); return b }

// HEIC builds a minimal HEIF file whose single Exif item holds tiffBody
// behind the usual "Exif\0\0" header. No image item is present.
func HEIC(tiffBody []byte) []byte {
	item := append(append(u32(6), "Exif\x00\x00"...), tiffBody...)
	ftyp := isoBox("ftyp", []byte("heic"), u32(0), []byte("mif1heic"))
	infe := isoBox("infe", []byte{2, 0, 0, 0}, u16(1), u16(0), []byte("Exif\x00"))
	iinf := isoBox("iinf", []byte{0, 0, 0, 0}, u16(1), infe)
	meta := func(offset uint32) []byte {
		iloc := isoBox("iloc", []byte{0, 0, 0, 0, 0x44, 0x00},
			u16(1), u16(1), u16(0), u16(1), u32(offset), u32(uint32(len(item))))
		return isoBox("meta", []byte{0, 0, 0, 0}, iinf, iloc)
	}
	offset := uint32(len(ftyp) + len(meta(0)) + 8)
	return bytes.Join([][]byte{ftyp, meta(offset), isoBox("mdat", item)}, nil)
}
