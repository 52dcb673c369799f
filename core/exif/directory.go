// Package exif decodes the EXIF tag directory embedded in an image and turns
// raw tag values into readable text: rationals, enumerated codes and GPS
// coordinates.
package exif

import (
	"encoding/binary"
	"sort"
)

// Scope is the IFD a tag was read from.
type Scope string

const (
	ScopeImage     Scope = "Image"
	ScopeThumbnail Scope = "Thumbnail"
	ScopeEXIF      Scope = "EXIF"
	ScopeGPS       Scope = "GPS"
	ScopeInterop   Scope = "Interoperability"
)

var scopeOrder = map[Scope]int{
	ScopeImage:     0,
	ScopeThumbnail: 1,
	ScopeEXIF:      2,
	ScopeGPS:       3,
	ScopeInterop:   4,
}

// Key identifies a tag by scope and name, e.g. {EXIF, FNumber}.
type Key struct {
	Scope Scope
	Name  string
}

func (k Key) String() string { return string(k.Scope) + " " + k.Name }

// Directory is the immutable result of parsing one metadata segment.
// A nil or empty Directory reports every tag as absent.
type Directory struct {
	order binary.ByteOrder
	tags  map[Key]Value
}

// NewDirectory builds a directory from already decoded values.
func NewDirectory(tags map[Key]Value) *Directory {
	d := &Directory{tags: make(map[Key]Value, len(tags))}
	for k, v := range tags {
		d.tags[k] = v
	}
	return d
}

// Get looks up a tag.
func (d *Directory) Get(k Key) (Value, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.tags[k]
	return v, ok
}

// Lookup is Get with the key spelled out.
func (d *Directory) Lookup(scope Scope, name string) (Value, bool) {
	return d.Get(Key{Scope: scope, Name: name})
}

// Len returns the number of tags.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.tags)
}

// ByteOrder returns the segment's byte order, or nil for an empty directory.
func (d *Directory) ByteOrder() binary.ByteOrder {
	if d == nil {
		return nil
	}
	return d.order
}

// Keys returns every key, ordered by scope then name.
func (d *Directory) Keys() []Key {
	if d == nil {
		return nil
	}
	keys := make([]Key, 0, len(d.tags))
	for k := range d.tags {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Scope != keys[j].Scope {
			return scopeOrder[keys[i].Scope] < scopeOrder[keys[j].Scope]
		}
		return keys[i].Name < keys[j].Name
	})
	return keys
}
