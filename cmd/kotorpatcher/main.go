// Copyright (c) 2025 Thorium
// kotorpatcher applies TSLPatcher-style mod instructions to a KOTOR /
// KOTOR II install.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ogier/pflag"

	"github.com/suprsokr/kotorpatcher/internal/installer"
	"github.com/suprsokr/kotorpatcher/internal/prefs"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	cmd := os.Args[1]
	subArgs := os.Args[2:]

	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		os.Exit(0)
	case "version", "-v", "--version":
		fmt.Printf("kotorpatcher version %s\n", version)
		os.Exit(0)
	}

	var cmdErr error
	switch cmd {
	case "install":
		cmdErr = runInstall(subArgs)
	case "uninstall":
		cmdErr = runUninstall(subArgs)
	case "validate":
		cmdErr = runValidate(subArgs)
	case "diff":
		cmdErr = runDiff(subArgs)
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", cmdErr)
		os.Exit(1)
	}
}

func runInstall(args []string) error {
	fs := pflag.NewFlagSet("install", pflag.ContinueOnError)
	changesIni := fs.StringP("changes-ini", "c", "", "changes.ini name or path (default: changes.ini)")
	verbose := fs.BoolP("verbose", "V", false, "log every patch, not just warnings and errors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	modPath, gamePath, err := requireModAndGame(fs, "install")
	if err != nil {
		return err
	}

	log := installer.NewLogger()
	if *verbose {
		log.Subscribe(func(level installer.Level, message string) {
			fmt.Println(message)
		})
	} else {
		log.Subscribe(func(level installer.Level, message string) {
			if level >= installer.LevelWarning {
				fmt.Println(message)
			}
		})
	}

	summary, err := installer.Install(modPath, gamePath, *changesIni, log)
	if err != nil {
		return err
	}
	fmt.Printf("%d patch(es) applied, %d error(s), %d warning(s)\n",
		summary.Applied.Total(), len(summary.Errors), len(summary.Warnings))

	if p, err := prefs.Load(); err == nil {
		p.LastModPath = modPath
		p.LastGamePath = gamePath
		_ = prefs.Save(p)
	}
	if len(summary.Errors) > 0 {
		os.Exit(1)
	}
	return nil
}

func runUninstall(args []string) error {
	fs := pflag.NewFlagSet("uninstall", pflag.ContinueOnError)
	backupDir := fs.StringP("backup", "b", "", "path to a specific backup/<timestamp> directory (default: the most recent one under <mod>/backup)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	modPath, gamePath, err := requireModAndGame(fs, "uninstall")
	if err != nil {
		return err
	}
	dir := *backupDir
	if dir == "" {
		dir, err = latestBackupDir(modPath)
		if err != nil {
			return err
		}
	}
	log := installer.NewLogger()
	log.Subscribe(func(level installer.Level, message string) { fmt.Println(message) })
	return installer.Uninstall(dir, gamePath, log)
}

func runValidate(args []string) error {
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	changesIni := fs.StringP("changes-ini", "c", "", "changes.ini name or path (default: changes.ini)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: kotorpatcher validate [flags] <mod-path>")
	}
	counts, err := installer.Validate(fs.Arg(0), *changesIni)
	if err != nil {
		return err
	}
	fmt.Printf("InstallList: %d\nTLK: %d\n2DA: %d\nGFF: %d\nNSS: %d\nNCS: %d\nSSF: %d\nTotal: %d\n",
		counts.Install, counts.TLK, counts.TwoDA, counts.GFF, counts.NSS, counts.NCS, counts.SSF, counts.Total())
	return nil
}

func runDiff(args []string) error {
	fs := pflag.NewFlagSet("diff", pflag.ContinueOnError)
	changesIni := fs.StringP("changes-ini", "c", "", "changes.ini name or path (default: changes.ini)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	modPath, gamePath, err := requireModAndGame(fs, "diff")
	if err != nil {
		return err
	}

	scratch, err := os.MkdirTemp("", "kotorpatcher-diff-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)
	if err := copyTree(gamePath, scratch); err != nil {
		return fmt.Errorf("stage scratch copy of %s: %w", gamePath, err)
	}
	modScratch, err := os.MkdirTemp("", "kotorpatcher-diff-mod-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(modScratch)
	if err := copyTree(modPath, modScratch); err != nil {
		return fmt.Errorf("stage scratch copy of %s: %w", modPath, err)
	}

	log := installer.NewLogger()
	log.Subscribe(func(level installer.Level, message string) {
		if level == installer.LevelVerbose {
			fmt.Println(message)
		}
	})
	_, err = installer.Install(modScratch, scratch, *changesIni, log)
	return err
}

func requireModAndGame(fs *pflag.FlagSet, cmdName string) (modPath, gamePath string, err error) {
	if fs.NArg() < 2 {
		return "", "", fmt.Errorf("usage: kotorpatcher %s [flags] <mod-path> <game-path>", cmdName)
	}
	return fs.Arg(0), fs.Arg(1), nil
}

// latestBackupDir returns the lexicographically greatest (and thus,
// given the "2006-01-02_15.04.05" timestamp format, most recent)
// backup directory under <modPath>/backup.
func latestBackupDir(modPath string) (string, error) {
	root := filepath.Join(modPath, "backup")
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", root, err)
	}
	var best string
	for _, e := range entries {
		if e.IsDir() && e.Name() > best {
			best = e.Name()
		}
	}
	if best == "" {
		return "", fmt.Errorf("no backups found under %s", root)
	}
	return filepath.Join(root, best), nil
}

// copyTree recursively copies src onto dst, used to stage the
// throwaway scratch copies of the game and the mod that the diff
// subcommand installs with, so its backup and uninstall output never
// reaches the real mod tree.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}

func printUsage() {
	fmt.Println(`kotorpatcher - KOTOR / KOTOR II mod installer engine

Usage: kotorpatcher <command> [command-flags] <mod-path> <game-path>

Commands:
  install    <mod> <game>    Apply a mod's changes.ini to a game install
  uninstall  <mod> <game>    Restore the most recent backup for a mod
  validate   <mod>           Parse changes.ini and report patch counts, no filesystem writes
  diff       <mod> <game>    Install into a scratch copy and print a byte-level diff per resource
  version                    Show version information
  help                       Show this help message

Examples:
  kotorpatcher install ./MyMod "C:/games/kotor2"
  kotorpatcher validate ./MyMod
  kotorpatcher uninstall ./MyMod "C:/games/kotor2"
  kotorpatcher diff ./MyMod "C:/games/kotor2"
`)
}
