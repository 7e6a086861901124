// Copyright (c) 2025 Thorium
//
// GFF trees are encoded as a flat sequence of typed fields so that a
// patch can locate a field by dotted path (struct.struct.list[2].field)
// without walking pointer games the way the DBC record reader does.

package container

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/suprsokr/kotorpatcher/internal/binstream"
)

const gffMagic = "GFF V1.0"

// FieldType enumerates the value kinds a GFF field can hold.
type FieldType uint8

const (
	FieldByte FieldType = iota
	FieldChar
	FieldWord
	FieldShort
	FieldDword
	FieldInt
	FieldDword64
	FieldInt64
	FieldFloat
	FieldDouble
	FieldString
	FieldResRef
	FieldLocString
	FieldVoid
	FieldStruct
	FieldList
	FieldVector
	FieldOrientation
)

// LocString is a localized string: a set of (language, gender) ->text
// substrings plus a StringRef into a talk table (-1 if none).
type LocString struct {
	StringRef int32
	Strings   map[int32]string // key: language*2 + gender
}

// NewLocString returns a LocString with no talk-table reference.
func NewLocString() *LocString {
	return &LocString{StringRef: -1, Strings: map[int32]string{}}
}

// Vector3 is an (x, y, z) triple.
type Vector3 struct{ X, Y, Z float32 }

// Vector4 is an (x, y, z, w) quadruple, used for orientations.
type Vector4 struct{ X, Y, Z, W float32 }

// Field is one named value inside a Struct.
type Field struct {
	Type  FieldType
	Label string

	Int      int64
	Float    float64
	Str      string
	Loc      *LocString
	Bin      []byte
	Struct   *Struct
	List     []*Struct
	Vector3  Vector3
	Vector4  Vector4
}

// Struct is an ordered-by-label set of fields, optionally typed by a
// struct ID (the GFF dialect's discriminator for polymorphic lists).
type Struct struct {
	ID     uint32
	Fields map[string]*Field
}

// NewStruct returns an empty struct with the given struct ID.
func NewStruct(id uint32) *Struct {
	return &Struct{ID: id, Fields: map[string]*Field{}}
}

// Get returns the field named label, or nil.
func (s *Struct) Get(label string) *Field {
	return s.Fields[label]
}

// Set installs or overwrites a field.
func (s *Struct) Set(f *Field) {
	s.Fields[f.Label] = f
}

// Tree is a whole GFF document: a file type/version tag and a root
// struct.
type Tree struct {
	FileType    string // e.g. "UTC", "DLG", "GIT" — four chars, space padded
	FileVersion string
	Root        *Struct
}

// NewTree returns an empty tree of the given file type.
func NewTree(fileType string) *Tree {
	return &Tree{FileType: fileType, FileVersion: "V3.2", Root: NewStruct(0)}
}

// Resolve walks a dotted/bracketed path such as "ModList.Mod[0].Name"
// against the tree's root struct and returns the field at that path.
// A bare numeric segment addresses list-of-struct membership; "[n]"
// suffixes on a label index into that label's list.
func (t *Tree) Resolve(path string) (*Field, error) {
	return ResolveFrom(t.Root, path)
}

// ResolveFrom walks path starting at an arbitrary struct rather than a
// tree's root, for resolving paths relative to a freshly inserted node
// (an AddField's nested modifiers are rooted there, not at the tree).
func ResolveFrom(root *Struct, path string) (*Field, error) {
	segs, err := splitFieldPath(path)
	if err != nil {
		return nil, err
	}
	cur := root
	var field *Field
	for i, seg := range segs {
		field = cur.Get(seg.label)
		if field == nil {
			return nil, fmt.Errorf("container: gff path %q: no field %q", path, seg.label)
		}
		if seg.index >= 0 {
			if field.Type != FieldList {
				return nil, fmt.Errorf("container: gff path %q: %q is not a list", path, seg.label)
			}
			if seg.index >= len(field.List) {
				return nil, fmt.Errorf("container: gff path %q: index %d out of range", path, seg.index)
			}
			if i == len(segs)-1 {
				return nil, fmt.Errorf("container: gff path %q: cannot address a list element directly, descend into a field", path)
			}
			cur = field.List[seg.index]
			continue
		}
		if i < len(segs)-1 {
			if field.Type != FieldStruct {
				return nil, fmt.Errorf("container: gff path %q: %q is not a struct", path, seg.label)
			}
			cur = field.Struct
		}
	}
	return field, nil
}

type pathSeg struct {
	label string
	index int
}

func splitFieldPath(path string) ([]pathSeg, error) {
	parts := strings.Split(path, "\\")
	if len(parts) == 1 {
		parts = strings.Split(path, ".")
	}
	segs := make([]pathSeg, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if n, err := strconv.Atoi(p); err == nil && n >= 0 && len(segs) > 0 && segs[len(segs)-1].index < 0 {
			segs[len(segs)-1].index = n
			continue
		}
		label := p
		index := -1
		if open := strings.IndexByte(p, '['); open >= 0 {
			if !strings.HasSuffix(p, "]") {
				return nil, fmt.Errorf("container: malformed gff path segment %q", p)
			}
			label = p[:open]
			n, err := strconv.Atoi(p[open+1 : len(p)-1])
			if err != nil {
				return nil, fmt.Errorf("container: malformed gff path index %q: %w", p, err)
			}
			index = n
		}
		segs = append(segs, pathSeg{label: label, index: index})
	}
	return segs, nil
}

// LoadGFF decodes a GFF tree from bytes.
func LoadGFF(data []byte) (*Tree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("container: empty gff data")
	}
	r := binstream.NewReader(data)
	magic, err := r.ReadCString(4)
	if err != nil {
		return nil, fmt.Errorf("container: truncated gff header: %w", err)
	}
	if magic == "" {
		return nil, fmt.Errorf("container: empty gff file type")
	}
	version, err := r.ReadCString(4)
	if err != nil {
		return nil, fmt.Errorf("container: truncated gff header: %w", err)
	}
	root, err := readGFFStruct(r)
	if err != nil {
		return nil, fmt.Errorf("container: gff root struct: %w", err)
	}
	return &Tree{FileType: strings.TrimRight(magic, " "), FileVersion: version, Root: root}, nil
}

func readGFFStruct(r *binstream.Reader) (*Struct, error) {
	id, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	s := NewStruct(id)
	for i := uint32(0); i < count; i++ {
		f, err := readGFFField(r)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		s.Fields[f.Label] = f
	}
	return s, nil
}

func readGFFField(r *binstream.Reader) (*Field, error) {
	typ, err := r.ReadUint8()
	if err != nil {
		return nil, err
	}
	label, err := r.ReadCString(32)
	if err != nil {
		return nil, err
	}
	f := &Field{Type: FieldType(typ), Label: label}
	switch f.Type {
	case FieldByte, FieldChar:
		v, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		f.Int = int64(v)
	case FieldWord, FieldShort:
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		f.Int = int64(v)
	case FieldDword, FieldInt:
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		f.Int = int64(v)
	case FieldDword64, FieldInt64:
		v, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		f.Int = int64(v)
	case FieldFloat:
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		f.Float = float64(v)
	case FieldDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		f.Float = v
	case FieldString:
		v, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, err
		}
		f.Str = v
	case FieldResRef:
		v, err := r.ReadCString(16)
		if err != nil {
			return nil, err
		}
		f.Str = v
	case FieldLocString:
		loc, err := readLocString(r)
		if err != nil {
			return nil, err
		}
		f.Loc = loc
	case FieldVoid:
		n, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, err
		}
		f.Bin = b
	case FieldStruct:
		s, err := readGFFStruct(r)
		if err != nil {
			return nil, err
		}
		f.Struct = s
	case FieldList:
		n, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		list := make([]*Struct, n)
		for i := range list {
			s, err := readGFFStruct(r)
			if err != nil {
				return nil, err
			}
			list[i] = s
		}
		f.List = list
	case FieldVector:
		x, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		z, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		f.Vector3 = Vector3{x, y, z}
	case FieldOrientation:
		x, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		y, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		z, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		w, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		f.Vector4 = Vector4{x, y, z, w}
	default:
		return nil, fmt.Errorf("container: unknown gff field type %d", typ)
	}
	return f, nil
}

func readLocString(r *binstream.Reader) (*LocString, error) {
	ref, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	loc := &LocString{StringRef: ref, Strings: map[int32]string{}}
	for i := uint32(0); i < count; i++ {
		key, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		s, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, err
		}
		loc.Strings[key] = s
	}
	return loc, nil
}

// Save encodes the tree back to bytes.
func (t *Tree) Save() []byte {
	w := binstream.NewWriter()
	w.WriteCString(t.FileType, 4)
	w.WriteCString(t.FileVersion, 4)
	writeGFFStruct(w, t.Root)
	return w.Bytes()
}

func writeGFFStruct(w *binstream.Writer, s *Struct) {
	w.WriteUint32(s.ID)
	labels := make([]string, 0, len(s.Fields))
	for l := range s.Fields {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	w.WriteUint32(uint32(len(labels)))
	for _, l := range labels {
		writeGFFField(w, s.Fields[l])
	}
}

func writeGFFField(w *binstream.Writer, f *Field) {
	w.WriteUint8(uint8(f.Type))
	w.WriteCString(f.Label, 32)
	switch f.Type {
	case FieldByte, FieldChar:
		w.WriteUint8(uint8(f.Int))
	case FieldWord, FieldShort:
		w.WriteUint16(uint16(f.Int))
	case FieldDword, FieldInt:
		w.WriteUint32(uint32(f.Int))
	case FieldDword64, FieldInt64:
		w.WriteUint64(uint64(f.Int))
	case FieldFloat:
		w.WriteFloat32(float32(f.Float))
	case FieldDouble:
		w.WriteFloat64(f.Float)
	case FieldString:
		w.WriteLengthPrefixed(f.Str)
	case FieldResRef:
		w.WriteCString(f.Str, 16)
	case FieldLocString:
		writeLocString(w, f.Loc)
	case FieldVoid:
		w.WriteUint32(uint32(len(f.Bin)))
		w.WriteBytes(f.Bin)
	case FieldStruct:
		writeGFFStruct(w, f.Struct)
	case FieldList:
		w.WriteUint32(uint32(len(f.List)))
		for _, s := range f.List {
			writeGFFStruct(w, s)
		}
	case FieldVector:
		w.WriteFloat32(f.Vector3.X)
		w.WriteFloat32(f.Vector3.Y)
		w.WriteFloat32(f.Vector3.Z)
	case FieldOrientation:
		w.WriteFloat32(f.Vector4.X)
		w.WriteFloat32(f.Vector4.Y)
		w.WriteFloat32(f.Vector4.Z)
		w.WriteFloat32(f.Vector4.W)
	}
}

func writeLocString(w *binstream.Writer, loc *LocString) {
	if loc == nil {
		loc = NewLocString()
	}
	w.WriteInt32(loc.StringRef)
	keys := make([]int32, 0, len(loc.Strings))
	for k := range loc.Strings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	w.WriteUint32(uint32(len(keys)))
	for _, k := range keys {
		w.WriteInt32(k)
		w.WriteLengthPrefixed(loc.Strings[k])
	}
}
