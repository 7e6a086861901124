// Copyright (c) 2025 Thorium

package installer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindCompilerNotFound(t *testing.T) {
	if _, err := FindCompiler("definitely-not-a-real-compiler-binary"); err == nil {
		t.Fatal("expected error for a compiler that doesn't exist anywhere")
	}
}

func TestExternalCompilerCompileSuccess(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "fakecompiler.sh")
	script := "#!/bin/sh\nout=\"$4\"\nprintf 'NCS V1.0' > \"$out\"\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}

	c := &ExternalCompiler{BinaryPath: scriptPath}
	outcome, err := c.Compile("k_test.nss", dir, []byte("void main() {}"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if outcome.Kind != CompileOutcomeCompiled {
		t.Fatalf("Kind = %v, want Compiled", outcome.Kind)
	}
	if string(outcome.Bytes) != "NCS V1.0" {
		t.Errorf("Bytes = %q", outcome.Bytes)
	}
}

func TestExternalCompilerNoEntryPoint(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "fakecompiler.sh")
	script := "#!/bin/sh\necho 'error: no entry point found' >&2\nexit 1\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}

	c := &ExternalCompiler{BinaryPath: scriptPath}
	outcome, err := c.Compile("k_inc.nss", dir, []byte("// library file"))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if outcome.Kind != CompileOutcomeNoEntryPoint {
		t.Fatalf("Kind = %v, want NoEntryPoint", outcome.Kind)
	}
}
