// Copyright (c) 2025 Thorium
//
// Assets package embeds static files into the binary.

package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed uninstall.sh.tmpl
var uninstallShTemplate string

//go:embed uninstall.ps1.tmpl
var uninstallPs1Template string

type uninstallVars struct {
	BackupDir string
	GameDir   string
}

// UninstallScript renders the canned uninstall script for the given
// shell ("sh" or "ps1"), parameterized with the backup directory and
// game directory the backup was taken against.
func UninstallScript(shell, backupDir, gameDir string) ([]byte, error) {
	var src string
	switch shell {
	case "sh":
		src = uninstallShTemplate
	case "ps1":
		src = uninstallPs1Template
	default:
		return nil, fmt.Errorf("assets: unknown uninstall script shell %q", shell)
	}

	tmpl, err := template.New(shell).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("assets: parse %s template: %w", shell, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, uninstallVars{BackupDir: backupDir, GameDir: gameDir}); err != nil {
		return nil, fmt.Errorf("assets: render %s template: %w", shell, err)
	}
	return buf.Bytes(), nil
}
