// Copyright (c) 2025 Thorium

package container

import (
	"fmt"

	"github.com/suprsokr/kotorpatcher/internal/binstream"
)

const ssfMagic = "SSF V1.1"

// SSFSlotCount is the fixed number of sound slots in a sound-set file.
const SSFSlotCount = 28

// SSFTable is a fixed-size table mapping sound-set slot index to a
// StrRef into a talk table (-1 meaning unset).
type SSFTable struct {
	Slots [SSFSlotCount]int32
}

// NewSSFTable returns a table with every slot unset.
func NewSSFTable() *SSFTable {
	t := &SSFTable{}
	for i := range t.Slots {
		t.Slots[i] = -1
	}
	return t
}

// Slot returns the StrRef at index, or an error if out of range.
func (t *SSFTable) Slot(index int) (int32, error) {
	if index < 0 || index >= SSFSlotCount {
		return 0, fmt.Errorf("container: ssf slot %d out of range [0,%d)", index, SSFSlotCount)
	}
	return t.Slots[index], nil
}

// SetSlot overwrites the StrRef at index.
func (t *SSFTable) SetSlot(index int, strRef int32) error {
	if index < 0 || index >= SSFSlotCount {
		return fmt.Errorf("container: ssf slot %d out of range [0,%d)", index, SSFSlotCount)
	}
	t.Slots[index] = strRef
	return nil
}

// LoadSSF decodes a sound-set table from bytes.
func LoadSSF(data []byte) (*SSFTable, error) {
	if len(data) == 0 {
		return NewSSFTable(), nil
	}
	r := binstream.NewReader(data)
	magic, err := r.ReadCString(8)
	if err != nil || magic != ssfMagic {
		return nil, fmt.Errorf("container: not a sound-set table (bad magic %q)", magic)
	}
	t := &SSFTable{}
	for i := 0; i < SSFSlotCount; i++ {
		v, err := r.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("container: truncated ssf slot %d: %w", i, err)
		}
		t.Slots[i] = v
	}
	return t, nil
}

// Save encodes the table back to bytes.
func (t *SSFTable) Save() []byte {
	w := binstream.NewWriter()
	w.WriteCString(ssfMagic, 8)
	for _, s := range t.Slots {
		w.WriteInt32(s)
	}
	return w.Bytes()
}
