// Copyright (c) 2025 Thorium

package installer

import "testing"

func TestDiffBytesReportsChange(t *testing.T) {
	out := DiffBytes("dialog.tlk", []byte("hello"), []byte("hallo"))
	if out == "" {
		t.Fatal("expected non-empty diff output")
	}
	if !contains(out, "dialog.tlk") {
		t.Errorf("diff output missing label: %q", out)
	}
}

func TestDiffBytesHandlesArbitraryBinary(t *testing.T) {
	before := []byte{0x00, 0xFF, 0x7F, 0x80}
	after := []byte{0x00, 0xFE, 0x7F, 0x80}
	out := DiffBytes("bin", before, after)
	if out == "" {
		t.Fatal("expected non-empty diff output for binary content")
	}
}

func TestLogDiffDoesNotPanic(t *testing.T) {
	log := NewLogger()
	LogDiff(log, "label", []byte("a"), []byte("b"))
}
