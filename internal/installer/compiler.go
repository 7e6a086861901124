// Copyright (c) 2025 Thorium
// Shim shape (look up an external tool on PATH or in a few fixed
// locations, shell out, read its output back) adapted from the MPQ
// archive wrapper's findMPQTool/findMPQExtractor.

package installer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CompileOutcomeKind replaces the reference tool's "no entry point"
// exception with an explicit tagged result (spec §9 redesign flag).
type CompileOutcomeKind int

const (
	CompileOutcomeCompiled CompileOutcomeKind = iota
	CompileOutcomeNoEntryPoint
	CompileOutcomeFailed
)

// CompileOutcome is what a Compiler hands back for one source file.
type CompileOutcome struct {
	Kind    CompileOutcomeKind
	Bytes   []byte
	Message string
}

// Compiler invokes a script compiler on substituted source text staged
// under workDir/name, returning its compiled bytecode.
type Compiler interface {
	Compile(name, workDir string, source []byte) (CompileOutcome, error)
}

// ExternalCompiler shells out to a named compiler binary the caller
// located (spec §1 non-goal: "it shells out to an external compiler it
// is told about").
type ExternalCompiler struct {
	BinaryPath string
}

// FindCompiler looks for name on PATH, falling back to a few common
// install locations, mirroring the MPQ tool lookup this engine's
// archive handling was adapted from.
func FindCompiler(name string) (string, error) {
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join(home, ".local/bin", name),
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/usr/bin", name),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", &compilerNotFoundError{name: name}
}

type compilerNotFoundError struct{ name string }

func (e *compilerNotFoundError) Error() string {
	return "script compiler " + e.name + " not found on PATH or in common install locations"
}

// Compile writes source to a .nss file under workDir, invokes the
// compiler on it, and reads back the sibling .ncs it produces.
func (c *ExternalCompiler) Compile(name, workDir string, source []byte) (CompileOutcome, error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	srcPath := filepath.Join(workDir, base+".nss")
	outPath := filepath.Join(workDir, base+".ncs")

	if err := os.WriteFile(srcPath, source, 0o644); err != nil {
		return CompileOutcome{}, err
	}

	cmd := exec.Command(c.BinaryPath, "-c", srcPath, "-o", outPath)
	cmd.Dir = workDir
	output, err := cmd.CombinedOutput()
	lower := strings.ToLower(string(output))

	if strings.Contains(lower, "no entry point") {
		return CompileOutcome{Kind: CompileOutcomeNoEntryPoint}, nil
	}
	if err != nil {
		return CompileOutcome{Kind: CompileOutcomeFailed, Message: string(output)}, nil
	}

	compiled, err := os.ReadFile(outPath)
	if err != nil {
		return CompileOutcome{Kind: CompileOutcomeFailed, Message: "compiler reported success but produced no output: " + err.Error()}, nil
	}
	return CompileOutcome{Kind: CompileOutcomeCompiled, Bytes: compiled}, nil
}
