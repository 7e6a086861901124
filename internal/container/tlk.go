// Copyright (c) 2025 Thorium
//
// Package container implements the opaque, load/save-only resource
// codecs the patch algorithms operate on: talk tables, 2-D arrays,
// structured trees, sound-sets, and the archive containers that hold
// them. None of these claims byte-for-byte parity with any particular
// game's native binary layout — per the engine's scope, only the named
// fields and round-trip semantics the patch algorithms depend on matter.
package container

import (
	"fmt"

	"github.com/suprsokr/kotorpatcher/internal/binstream"
)

const tlkMagic = "TLK V1.0"

// TLKEntry is one talk-table row: display text plus an associated sound
// resource reference (resref), addressed by integer stringref (its index
// in TLKTable.Entries).
type TLKEntry struct {
	Text  string
	Sound string
}

// TLKTable is an in-memory talk table.
type TLKTable struct {
	LanguageID uint32
	Entries    []TLKEntry
}

// NewTLKTable returns an empty talk table, used when a patch targets a
// talk table that doesn't exist yet.
func NewTLKTable() *TLKTable {
	return &TLKTable{}
}

// LoadTLK decodes a talk table from bytes.
func LoadTLK(data []byte) (*TLKTable, error) {
	if len(data) == 0 {
		return NewTLKTable(), nil
	}
	r := binstream.NewReader(data)
	magic, err := r.ReadCString(8)
	if err != nil || magic != tlkMagic {
		return nil, fmt.Errorf("container: not a talk table (bad magic %q)", magic)
	}
	langID, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated talk table header: %w", err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated talk table header: %w", err)
	}

	entries := make([]TLKEntry, count)
	for i := range entries {
		text, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated talk table entry %d: %w", i, err)
		}
		sound, err := r.ReadCString(16)
		if err != nil {
			return nil, fmt.Errorf("container: truncated talk table entry %d: %w", i, err)
		}
		entries[i] = TLKEntry{Text: text, Sound: sound}
	}
	return &TLKTable{LanguageID: langID, Entries: entries}, nil
}

// Save encodes the table back to bytes.
func (t *TLKTable) Save() []byte {
	w := binstream.NewWriter()
	w.WriteCString(tlkMagic, 8)
	w.WriteUint32(t.LanguageID)
	w.WriteUint32(uint32(len(t.Entries)))
	for _, e := range t.Entries {
		w.WriteLengthPrefixed(e.Text)
		w.WriteCString(e.Sound, 16)
	}
	return w.Bytes()
}

// Insert appends a new entry and returns its index (the new stringref).
func (t *TLKTable) Insert(text, sound string) int {
	t.Entries = append(t.Entries, TLKEntry{Text: text, Sound: sound})
	return len(t.Entries) - 1
}

// Replace overwrites the entry at index, growing the table with empty
// entries if index is past the current end (mirrors the reference tool's
// tolerance for sparse StrRef targets).
func (t *TLKTable) Replace(index int, text, sound string) {
	for len(t.Entries) <= index {
		t.Entries = append(t.Entries, TLKEntry{})
	}
	t.Entries[index] = TLKEntry{Text: text, Sound: sound}
}
