// Copyright (c) 2025 Thorium
// Read-only two-level archive (an index file pointing into one or more
// data files) modeled on the same container shape as Capsule, scoped
// down to the read-only lookup a base-game resource index needs.

package container

import (
	"fmt"
	"strings"

	"github.com/suprsokr/kotorpatcher/internal/binstream"
)

const keyMagic = "KEY V1.0"
const bifMagic = "BIF V1.0"

// KeyEntry locates one resource inside a particular data file.
type KeyEntry struct {
	Name      string
	Type      string
	BifIndex  int
	ResOffset uint32
	ResSize   uint32
}

// KeyIndex is the read-only catalog of every resource the base
// installation ships, each pointing into one of BifPaths by index.
type KeyIndex struct {
	BifPaths []string
	Entries  []KeyEntry
	lookup   map[string]int // key(name,type) -> index into Entries
}

func keyLookupKey(name, typ string) string {
	return strings.ToLower(name) + "." + strings.ToLower(typ)
}

// LoadKeyIndex decodes a key index from bytes.
func LoadKeyIndex(data []byte) (*KeyIndex, error) {
	idx := &KeyIndex{lookup: map[string]int{}}
	if len(data) == 0 {
		return idx, nil
	}
	r := binstream.NewReader(data)
	magic, err := r.ReadCString(8)
	if err != nil || magic != keyMagic {
		return nil, fmt.Errorf("container: not a key index (bad magic %q)", magic)
	}
	bifCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated key header: %w", err)
	}
	idx.BifPaths = make([]string, bifCount)
	for i := range idx.BifPaths {
		p, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated key bif path %d: %w", i, err)
		}
		idx.BifPaths[i] = p
	}
	entryCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated key header: %w", err)
	}
	idx.Entries = make([]KeyEntry, entryCount)
	for i := range idx.Entries {
		name, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated key entry %d name: %w", i, err)
		}
		typ, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated key entry %d type: %w", i, err)
		}
		bifIdx, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("container: truncated key entry %d bif index: %w", i, err)
		}
		off, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("container: truncated key entry %d offset: %w", i, err)
		}
		size, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("container: truncated key entry %d size: %w", i, err)
		}
		e := KeyEntry{Name: name, Type: typ, BifIndex: int(bifIdx), ResOffset: off, ResSize: size}
		idx.Entries[i] = e
		idx.lookup[keyLookupKey(name, typ)] = i
	}
	return idx, nil
}

// Lookup returns the entry for (name, type), or ok=false if absent.
func (k *KeyIndex) Lookup(name, typ string) (KeyEntry, bool) {
	i, ok := k.lookup[keyLookupKey(name, typ)]
	if !ok {
		return KeyEntry{}, false
	}
	return k.Entries[i], true
}

// BifArchive is one opened data file a KeyIndex's entries point into.
type BifArchive struct {
	data []byte
}

// LoadBifArchive wraps a data file's bytes. The leading magic is
// validated but otherwise unused; resources are addressed purely by
// the offsets a KeyIndex supplies.
func LoadBifArchive(data []byte) (*BifArchive, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("container: bif data too short")
	}
	if string(data[:8]) != bifMagic {
		return nil, fmt.Errorf("container: not a bif data file (bad magic %q)", data[:8])
	}
	return &BifArchive{data: data}, nil
}

// Resource slices out the resource bytes for entry e.
func (b *BifArchive) Resource(e KeyEntry) ([]byte, error) {
	end := int(e.ResOffset) + int(e.ResSize)
	if int(e.ResOffset) < 0 || end > len(b.data) {
		return nil, fmt.Errorf("container: bif entry %s.%s out of range", e.Name, e.Type)
	}
	return b.data[e.ResOffset:end], nil
}
