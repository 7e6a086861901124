// Copyright (c) 2025 Thorium

package installer

import (
	"testing"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

func TestApplyTLKAppendAndReplace(t *testing.T) {
	mem := NewMemory()
	patch := &TLKPatch{Modifiers: []TLKModifier{
		{TokenID: 100, Text: "Hello.", Sound: "greet", IsReplacement: false},
		{TokenID: 0, Text: "Replaced.", IsReplacement: true},
	}}
	existing := container.NewTLKTable()
	existing.Insert("Original.", "")
	result, err := ApplyTLK(patch, existing.Save(), mem)
	if err != nil {
		t.Fatalf("ApplyTLK: %v", err)
	}
	table, err := container.LoadTLK(result.Data)
	if err != nil {
		t.Fatalf("LoadTLK: %v", err)
	}
	if table.Entries[0].Text != "Replaced." {
		t.Errorf("Entries[0].Text = %q, want Replaced.", table.Entries[0].Text)
	}
	idx, err := mem.MemStr(100)
	if err != nil {
		t.Fatalf("MemStr(100): %v", err)
	}
	if table.Entries[idx].Text != "Hello." {
		t.Errorf("Entries[%d].Text = %q, want Hello.", idx, table.Entries[idx].Text)
	}
	replacedIdx, err := mem.MemStr(0)
	if err != nil {
		t.Fatalf("MemStr(0): %v", err)
	}
	if replacedIdx != 0 {
		t.Errorf("MemStr(0) = %d, want 0 (replacement stores its own token id)", replacedIdx)
	}
}
