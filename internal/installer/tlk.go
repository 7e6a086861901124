// Copyright (c) 2025 Thorium

package installer

import "github.com/suprsokr/kotorpatcher/internal/container"

// PatchResult is what a patch algorithm hands back to the driver: the
// bytes to write, or Skip if the algorithm decided nothing should be
// written for this patch (spec §4.9 step 6).
type PatchResult struct {
	Skip bool
	Data []byte
}

func skip() (PatchResult, error) { return PatchResult{Skip: true}, nil }
func wrote(b []byte) (PatchResult, error) { return PatchResult{Data: b}, nil }

// ApplyTLK runs a TLK patch's modifiers in order against existing (the
// current bytes of the target talk table, nil if it doesn't exist yet)
// and returns the new table's bytes (spec §4.4).
func ApplyTLK(patch *TLKPatch, existing []byte, mem *Memory) (PatchResult, error) {
	table, err := container.LoadTLK(existing)
	if err != nil {
		return PatchResult{}, err
	}
	for _, m := range patch.Modifiers {
		if m.IsReplacement {
			table.Replace(m.TokenID, m.Text, m.Sound)
			mem.SetMemStr(m.TokenID, m.TokenID)
		} else {
			idx := table.Insert(m.Text, m.Sound)
			mem.SetMemStr(m.TokenID, idx)
		}
	}
	return wrote(table.Save())
}
