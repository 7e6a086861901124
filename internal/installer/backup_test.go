// Copyright (c) 2025 Thorium

package installer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLedgerBackupsExistingFile(t *testing.T) {
	modRoot := t.TempDir()
	gameRoot := t.TempDir()
	target := filepath.Join(gameRoot, "Override", "dialog.tlk")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	log := NewLogger()
	ledger, err := NewLedger(modRoot, gameRoot, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), log)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if err := ledger.BackupBeforeWrite(target); err != nil {
		t.Fatalf("BackupBeforeWrite: %v", err)
	}

	// backups mirror the path relative to gameRoot, so a round-trip
	// uninstall can restore it to the same place it came from.
	backedUp := filepath.Join(ledger.BackupDir, "Override", "dialog.tlk")
	data, err := os.ReadFile(backedUp)
	if err != nil {
		t.Fatalf("expected backup at %s: %v", backedUp, err)
	}
	if string(data) != "original" {
		t.Errorf("backup content = %q, want original", data)
	}
}

func TestLedgerTracksNewFilesForRemoval(t *testing.T) {
	modRoot := t.TempDir()
	gameRoot := t.TempDir()
	target := filepath.Join(gameRoot, "Override", "new_item.uti")

	log := NewLogger()
	ledger, err := NewLedger(modRoot, gameRoot, time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), log)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	if err := ledger.BackupBeforeWrite(target); err != nil {
		t.Fatalf("BackupBeforeWrite: %v", err)
	}
	if err := ledger.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	listPath := filepath.Join(ledger.BackupDir, removeListName)
	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("expected remove list at %s: %v", listPath, err)
	}
	if !contains(string(data), target) {
		t.Errorf("remove list %q does not mention %s", data, target)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}

func TestUninstallRestoresBackup(t *testing.T) {
	gameRoot := t.TempDir()
	backupDir := t.TempDir()
	target := filepath.Join(gameRoot, "dialog.tlk")
	if err := os.WriteFile(target, []byte("patched"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(backupDir, "dialog.tlk"), []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Uninstall(backupDir, gameRoot, NewLogger()); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("target = %q, want original", data)
	}
}

func TestUninstallMissingBackupDirIsNotFatal(t *testing.T) {
	if err := Uninstall(filepath.Join(t.TempDir(), "nope"), t.TempDir(), NewLogger()); err != nil {
		t.Fatalf("Uninstall should tolerate a missing backup dir, got %v", err)
	}
}
