// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

// ApplySSF runs a sound-set patch's slot assignments (spec §4.7).
func ApplySSF(patch *SSFPatch, existing []byte, mem *Memory) (PatchResult, error) {
	table, err := container.LoadSSF(existing)
	if err != nil {
		return PatchResult{}, err
	}
	for _, m := range patch.Modifiers {
		n, err := m.Value.EvaluateInt(mem, nil, -1)
		if err != nil {
			return PatchResult{}, fmt.Errorf("ssf slot %d: %w", m.Slot, err)
		}
		if err := table.SetSlot(m.Slot, int32(n)); err != nil {
			return PatchResult{}, err
		}
	}
	return wrote(table.Save())
}
