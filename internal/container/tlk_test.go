// Copyright (c) 2025 Thorium

package container

import "testing"

func TestTLKRoundTrip(t *testing.T) {
	tbl := NewTLKTable()
	tbl.LanguageID = 0
	tbl.Insert("Hello there.", "greet_001")
	tbl.Insert("Goodbye.", "")

	data := tbl.Save()
	got, err := LoadTLK(data)
	if err != nil {
		t.Fatalf("LoadTLK: %v", err)
	}
	if got.LanguageID != tbl.LanguageID {
		t.Errorf("LanguageID = %d, want %d", got.LanguageID, tbl.LanguageID)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(got.Entries))
	}
	if got.Entries[0].Text != "Hello there." {
		t.Errorf("Entries[0].Text = %q", got.Entries[0].Text)
	}
	if got.Entries[0].Sound != "greet_001" {
		t.Errorf("Entries[0].Sound = %q", got.Entries[0].Sound)
	}
}

func TestTLKLoadEmpty(t *testing.T) {
	tbl, err := LoadTLK(nil)
	if err != nil {
		t.Fatalf("LoadTLK(nil): %v", err)
	}
	if len(tbl.Entries) != 0 {
		t.Errorf("expected empty table, got %d entries", len(tbl.Entries))
	}
}

func TestTLKLoadBadMagic(t *testing.T) {
	_, err := LoadTLK([]byte("not a talk table at all"))
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestTLKInsertReturnsNewIndex(t *testing.T) {
	tbl := NewTLKTable()
	tbl.Insert("a", "")
	idx := tbl.Insert("b", "")
	if idx != 1 {
		t.Errorf("Insert index = %d, want 1", idx)
	}
}

func TestTLKReplaceGrowsTable(t *testing.T) {
	tbl := NewTLKTable()
	tbl.Replace(3, "padded", "snd")
	if len(tbl.Entries) != 4 {
		t.Fatalf("expected table to grow to 4 entries, got %d", len(tbl.Entries))
	}
	if tbl.Entries[3].Text != "padded" {
		t.Errorf("Entries[3].Text = %q", tbl.Entries[3].Text)
	}
	if tbl.Entries[0].Text != "" {
		t.Errorf("expected filler entries to be empty, got %q", tbl.Entries[0].Text)
	}
}

func TestTLKReplaceOverwritesExisting(t *testing.T) {
	tbl := NewTLKTable()
	tbl.Insert("original", "snd1")
	tbl.Replace(0, "overwritten", "snd2")
	if len(tbl.Entries) != 1 {
		t.Fatalf("expected table to stay at 1 entry, got %d", len(tbl.Entries))
	}
	if tbl.Entries[0].Text != "overwritten" {
		t.Errorf("Entries[0].Text = %q, want overwritten", tbl.Entries[0].Text)
	}
}
