// Copyright (c) 2025 Thorium

// Package prefs holds the CLI's own small persistent preference file,
// distinct from a mod's changes.ini (spec §4.2) and parsed with a real
// TOML library rather than the engine's own INI dialect.
package prefs

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Prefs is the on-disk shape of config.toml.
type Prefs struct {
	LastGamePath string `toml:"last_game_path"`
	LastModPath  string `toml:"last_mod_path"`
	Locale       string `toml:"locale"`
	KeepStaged   bool   `toml:"keep_staged_scripts"`
	CompilerPath string `toml:"nwnnsscomp_path"`
}

// Default returns the preferences a fresh install starts with.
func Default() *Prefs {
	return &Prefs{Locale: "en"}
}

// dir resolves $XDG_CONFIG_HOME/kotorpatcher, falling back to
// ~/.config/kotorpatcher the way thorium's config.Load walks up for a
// workspace file, adapted here to the user's home directory instead.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kotorpatcher"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kotorpatcher"), nil
}

// Path returns the full path to config.toml without requiring it to exist.
func Path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.toml"), nil
}

// Load reads config.toml, returning Default() if it does not exist yet.
func Load() (*Prefs, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	var p Prefs
	if _, err := toml.DecodeFile(path, &p); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	if p.Locale == "" {
		p.Locale = "en"
	}
	return &p, nil
}

// Save writes p to config.toml, creating its parent directory as needed.
func Save(p *Prefs) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}
