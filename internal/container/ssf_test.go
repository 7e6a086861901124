// Copyright (c) 2025 Thorium

package container

import "testing"

func TestSSFNewTableAllUnset(t *testing.T) {
	tbl := NewSSFTable()
	for i, s := range tbl.Slots {
		if s != -1 {
			t.Fatalf("slot %d = %d, want -1", i, s)
		}
	}
}

func TestSSFRoundTrip(t *testing.T) {
	tbl := NewSSFTable()
	if err := tbl.SetSlot(3, 1701); err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	data := tbl.Save()
	got, err := LoadSSF(data)
	if err != nil {
		t.Fatalf("LoadSSF: %v", err)
	}
	v, err := got.Slot(3)
	if err != nil {
		t.Fatalf("Slot: %v", err)
	}
	if v != 1701 {
		t.Errorf("Slot(3) = %d, want 1701", v)
	}
}

func TestSSFSlotOutOfRange(t *testing.T) {
	tbl := NewSSFTable()
	if _, err := tbl.Slot(SSFSlotCount); err == nil {
		t.Fatal("expected error for out-of-range slot")
	}
	if err := tbl.SetSlot(-1, 0); err == nil {
		t.Fatal("expected error for negative slot")
	}
}

func TestSSFLoadEmpty(t *testing.T) {
	tbl, err := LoadSSF(nil)
	if err != nil {
		t.Fatalf("LoadSSF(nil): %v", err)
	}
	if tbl.Slots[0] != -1 {
		t.Errorf("expected default-unset slots")
	}
}
