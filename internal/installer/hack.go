// Copyright (c) 2025 Thorium

package installer

import "fmt"

// ApplyHack overwrites raw little-endian integers at fixed byte
// offsets. Sequenced between GFF and NSS (spec §9 open question,
// resolved in DESIGN.md).
func ApplyHack(patch *HackPatch, existing []byte, mem *Memory) (PatchResult, error) {
	data := append([]byte(nil), existing...)
	for i, m := range patch.Modifiers {
		n, err := m.Value.EvaluateInt(mem, nil, -1)
		if err != nil {
			return PatchResult{}, fmt.Errorf("hack modifier %d: %w", i, err)
		}
		if m.Offset < 0 || m.Offset+m.Size > len(data) {
			return PatchResult{}, fmt.Errorf("hack modifier %d: offset %d+%d out of range (len %d)", i, m.Offset, m.Size, len(data))
		}
		switch m.Size {
		case 1:
			data[m.Offset] = byte(n)
		case 2:
			data[m.Offset] = byte(n)
			data[m.Offset+1] = byte(n >> 8)
		case 4:
			data[m.Offset] = byte(n)
			data[m.Offset+1] = byte(n >> 8)
			data[m.Offset+2] = byte(n >> 16)
			data[m.Offset+3] = byte(n >> 24)
		default:
			return PatchResult{}, fmt.Errorf("hack modifier %d: unsupported size %d", i, m.Size)
		}
	}
	return wrote(data)
}
