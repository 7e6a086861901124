// Copyright (c) 2025 Thorium

package installer

import "testing"

func TestSubstituteTokens(t *testing.T) {
	mem := NewMemory()
	mem.SetMem2DA(1, "42")
	mem.SetMemStr(2, 7777)
	out, err := SubstituteTokens("int n = #2DAMEMORY1#; int s = #StrRef2#;", mem)
	if err != nil {
		t.Fatalf("SubstituteTokens: %v", err)
	}
	want := "int n = 42; int s = 7777;"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestSubstituteTokensUndefined(t *testing.T) {
	if _, err := SubstituteTokens("#2DAMEMORY9#", NewMemory()); err == nil {
		t.Fatal("expected error for undefined token")
	}
}

type fakeCompiler struct {
	outcome CompileOutcome
	err     error
}

func (f *fakeCompiler) Compile(name, workDir string, source []byte) (CompileOutcome, error) {
	return f.outcome, f.err
}

func TestApplyNSSCompiled(t *testing.T) {
	patch := &NSSPatch{}
	compiler := &fakeCompiler{outcome: CompileOutcome{Kind: CompileOutcomeCompiled, Bytes: []byte("NCS V1.0")}}
	result, err := ApplyNSS(patch, []byte("void main() {}"), NewMemory(), compiler)
	if err != nil {
		t.Fatalf("ApplyNSS: %v", err)
	}
	if string(result.Data) != "NCS V1.0" {
		t.Errorf("got %q", result.Data)
	}
}

func TestApplyNSSNoEntryPointSkips(t *testing.T) {
	patch := &NSSPatch{}
	compiler := &fakeCompiler{outcome: CompileOutcome{Kind: CompileOutcomeNoEntryPoint}}
	result, err := ApplyNSS(patch, []byte("// include only"), NewMemory(), compiler)
	if err != nil {
		t.Fatalf("ApplyNSS: %v", err)
	}
	if !result.Skip {
		t.Error("expected Skip=true for a no-entry-point source")
	}
}

func TestApplyNSSFailurePropagates(t *testing.T) {
	patch := &NSSPatch{}
	compiler := &fakeCompiler{outcome: CompileOutcome{Kind: CompileOutcomeFailed, Message: "syntax error"}}
	if _, err := ApplyNSS(patch, []byte("bad"), NewMemory(), compiler); err == nil {
		t.Fatal("expected compile failure to surface as an error")
	}
}

func TestApplyNCSPassesThroughUnchanged(t *testing.T) {
	result, err := ApplyNCS([]byte("NCS V1.0 bytecode"))
	if err != nil {
		t.Fatalf("ApplyNCS: %v", err)
	}
	if string(result.Data) != "NCS V1.0 bytecode" {
		t.Errorf("got %q", result.Data)
	}
}
