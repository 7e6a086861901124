// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/suprsokr/kotorpatcher/assets"
)

const removeListName = "remove these files.txt"

// Ledger is the per-run backup/uninstall bookkeeping (spec §4.10).
type Ledger struct {
	ModRoot   string
	GameRoot  string
	BackupDir string

	processed map[string]bool // lowercased absolute path -> already backed up this run
	removed   []string        // absolute paths that did not exist before the run
	log       *Logger
}

// NewLedger creates <mod_root>/backup/<timestamp>/, resets the sibling
// uninstall/ directory with canned scripts, and returns a Ledger ready
// to receive per-file backups. now is passed in explicitly so callers
// control the timestamp.
func NewLedger(modRoot, gameRoot string, now time.Time, log *Logger) (*Ledger, error) {
	ts := now.Format("2006-01-02_15.04.05")
	backupDir := filepath.Join(modRoot, "backup", ts)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	uninstallDir := filepath.Join(modRoot, "uninstall")
	if err := os.RemoveAll(uninstallDir); err != nil {
		return nil, fmt.Errorf("reset uninstall directory: %w", err)
	}
	if err := os.MkdirAll(uninstallDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uninstall directory: %w", err)
	}
	if err := writeUninstallScripts(uninstallDir, backupDir, gameRoot); err != nil {
		return nil, err
	}

	return &Ledger{
		ModRoot:   modRoot,
		GameRoot:  gameRoot,
		BackupDir: backupDir,
		processed: map[string]bool{},
		log:       log,
	}, nil
}

func writeUninstallScripts(uninstallDir, backupDir, gameRoot string) error {
	sh, err := assets.UninstallScript("sh", backupDir, gameRoot)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(uninstallDir, "uninstall.sh"), sh, 0o755); err != nil {
		return err
	}
	ps1, err := assets.UninstallScript("ps1", backupDir, gameRoot)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(uninstallDir, "uninstall.ps1"), ps1, 0o644)
}

// BackupBeforeWrite is called once per file the driver is about to
// overwrite or create, before the write happens. targetPath is an
// absolute path under the game root.
func (l *Ledger) BackupBeforeWrite(targetPath string) error {
	key := strings.ToLower(targetPath)
	if l.processed[key] {
		return nil
	}
	l.processed[key] = true

	existing, err := os.ReadFile(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			l.removed = append(l.removed, targetPath)
			return nil
		}
		return fmt.Errorf("read %s for backup: %w", targetPath, err)
	}

	rel, err := filepath.Rel(l.GameRoot, targetPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(targetPath)
	}
	dest := l.disambiguate(filepath.Join(l.BackupDir, rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, existing, 0o644)
}

// disambiguate appends " (2)", " (3)", ... to path's stem until no
// case-insensitive collision remains in the backup tree.
func (l *Ledger) disambiguate(path string) string {
	if !fileExistsCI(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if !fileExistsCI(candidate) {
			return candidate
		}
	}
}

func fileExistsCI(path string) bool {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	want := strings.ToLower(filepath.Base(path))
	for _, e := range entries {
		if strings.ToLower(e.Name()) == want {
			return true
		}
	}
	return false
}

// Finish writes the remove-list file that records every path newly
// created during this run.
func (l *Ledger) Finish() error {
	if len(l.removed) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, p := range l.removed {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	return os.WriteFile(filepath.Join(l.BackupDir, removeListName), []byte(sb.String()), 0o644)
}

// Uninstall restores every regular file under backupDir back to
// gameRoot (mirrored), then deletes every path listed in its
// "remove these files.txt". A content mismatch against the file
// currently on disk is never fatal: it is logged as a warning and the
// restore proceeds anyway (SPEC_FULL §C.5).
func Uninstall(backupDir, gameRoot string, log *Logger) error {
	info, err := os.Stat(backupDir)
	if err != nil || !info.IsDir() {
		if log != nil {
			log.Warningf("uninstall: backup directory %s does not exist, nothing to do", backupDir)
		}
		return nil
	}

	err = filepath.Walk(backupDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(backupDir, path)
		if err != nil {
			return err
		}
		if rel == removeListName {
			return nil
		}
		return restoreFile(path, filepath.Join(gameRoot, rel), log)
	})
	if err != nil {
		return err
	}

	listPath := filepath.Join(backupDir, removeListName)
	data, err := os.ReadFile(listPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		p := strings.TrimSpace(line)
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if log != nil {
				log.Warningf("uninstall: could not remove %s: %v", p, err)
			}
		}
	}
	return nil
}

func restoreFile(backedUp, target string, log *Logger) error {
	backup, err := os.ReadFile(backedUp)
	if err != nil {
		return err
	}
	if current, err := os.ReadFile(target); err == nil {
		if string(current) != string(backup) && log != nil {
			log.Warningf("uninstall: %s was modified since install; overwriting anyway", target)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, backup, 0o644)
}
