package image

import (
	"encoding/binary"
	"math"

	"github.com/ankit-chaubey/image-metadata-extractor/core"
)

// ─── HEIC ────────────────────────────────────────────────────────────────────

type isoBox struct {
	typ    string
	data   []byte
	offset int64 // of data within the walked buffer
}

// isoBoxes lists the sibling boxes in data. A size of 1 means a 64-bit
// size follows the type; a size of 0 runs to the end of data.
func isoBoxes(data []byte) []isoBox {
	var boxes []isoBox
	pos := 0
	for pos+8 <= len(data) {
		size := uint64(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := string(data[pos+4 : pos+8])
		hdr := 8
		if size == 1 {
			if pos+16 > len(data) {
				break
			}
			size = binary.BigEndian.Uint64(data[pos+8 : pos+16])
			hdr = 16
		}
		if size == 0 {
			size = uint64(len(data) - pos)
		}
		if size < uint64(hdr) || uint64(pos)+size > uint64(len(data)) {
			break
		}
		end := pos + int(size)
		boxes = append(boxes, isoBox{typ: typ, data: data[pos+hdr : end], offset: int64(pos + hdr)})
		pos = end
	}
	return boxes
}

func findBox(boxes []isoBox, typ string) (isoBox, bool) {
	for _, b := range boxes {
		if b.typ == typ {
			return b, true
		}
	}
	return isoBox{}, false
}

// heicExif locates the Exif item of a HEIF file through the meta box: iinf
// names the item, iloc gives its byte range. The item starts with a 32-bit
// offset to the TIFF header.
func heicExif(data []byte) ([]byte, error) {
	meta, ok := findBox(isoBoxes(data), "meta")
	if !ok || len(meta.data) < 4 {
		return nil, nil
	}
	children := isoBoxes(meta.data[4:]) // skip version and flags

	iinf, ok := findBox(children, "iinf")
	if !ok {
		return nil, nil
	}
	id, ok := exifItemID(iinf.data)
	if !ok {
		return nil, nil
	}
	iloc, ok := findBox(children, "iloc")
	if !ok {
		return nil, core.NewFormatError(meta.offset, "HEIF Exif item %d has no iloc box", id)
	}
	off, length, ok := itemExtent(iloc.data, id)
	if !ok {
		return nil, core.NewFormatError(meta.offset, "HEIF Exif item %d has no file extent", id)
	}
	size := uint64(len(data))
	if off > size || length > size-off || length < 4 {
		return nil, core.NewFormatError(meta.offset, "HEIF Exif item at %d of %d bytes exceeds file size %d", off, length, len(data))
	}
	item := data[off : off+length]
	skip := uint64(binary.BigEndian.Uint32(item[0:4]))
	if 4+skip > uint64(len(item)) {
		return nil, core.NewFormatError(int64(off), "HEIF Exif header offset %d past item end", skip)
	}
	return item[4+skip:], nil
}

// exifItemID scans the item infos (version 2 or later) for the Exif item.
func exifItemID(iinf []byte) (uint32, bool) {
	if len(iinf) < 6 {
		return 0, false
	}
	start := 6
	if iinf[0] != 0 {
		start = 8
	}
	if start > len(iinf) {
		return 0, false
	}
	for _, infe := range isoBoxes(iinf[start:]) {
		if infe.typ != "infe" || len(infe.data) < 4 {
			continue
		}
		d := infe.data
		var id uint32
		var rest []byte
		switch v := d[0]; {
		case v == 2 && len(d) >= 12:
			id = uint32(binary.BigEndian.Uint16(d[4:6]))
			rest = d[8:]
		case v >= 3 && len(d) >= 14:
			id = binary.BigEndian.Uint32(d[4:8])
			rest = d[10:]
		default:
			continue
		}
		if string(rest[:4]) == "Exif" {
			return id, true
		}
	}
	return 0, false
}

// itemExtent returns the file offset and length of the first extent of
// item id. Only file-offset construction is supported.
func itemExtent(iloc []byte, id uint32) (uint64, uint64, bool) {
	r := &fieldReader{buf: iloc, ok: true}
	version := r.uint(1)
	r.uint(3) // flags
	sizes := r.uint(1)
	offsetSize, lengthSize := int(sizes>>4), int(sizes&0x0F)
	sizes = r.uint(1)
	baseSize, indexSize := int(sizes>>4), int(sizes&0x0F)
	if version == 0 {
		indexSize = 0
	}
	idSize := 2
	if version == 2 {
		idSize = 4
	}
	count := r.uint(idSize)

	for i := uint64(0); i < count && r.ok; i++ {
		itemID := r.uint(idSize)
		method := uint64(0)
		if version == 1 || version == 2 {
			method = r.uint(2) & 0x0F
		}
		r.uint(2) // data reference index
		base := r.uint(baseSize)
		extents := r.uint(2)
		var first [2]uint64
		for e := uint64(0); e < extents && r.ok; e++ {
			r.uint(indexSize)
			off, length := r.uint(offsetSize), r.uint(lengthSize)
			if e == 0 {
				first = [2]uint64{off, length}
			}
		}
		if r.ok && uint32(itemID) == id && method == 0 && extents > 0 {
			if first[0] > math.MaxUint64-base {
				return 0, 0, false
			}
			return base + first[0], first[1], true
		}
	}
	return 0, 0, false
}

// fieldReader reads big-endian integers of 0, 1, 2, 3, 4 or 8 bytes and
// latches ok to false on the first short read.
type fieldReader struct {
	buf []byte
	pos int
	ok  bool
}

func (r *fieldReader) uint(n int) uint64 {
	if !r.ok || r.pos+n > len(r.buf) {
		r.ok = false
		return 0
	}
	var v uint64
	for _, b := range r.buf[r.pos : r.pos+n] {
		v = v<<8 | uint64(b)
	}
	r.pos += n
	return v
}
