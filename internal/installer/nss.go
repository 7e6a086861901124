// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"
	"regexp"
	"strconv"
)

var tokenPattern = regexp.MustCompile(`#(2DAMEMORY|StrRef)([0-9]+)#`)

// SubstituteTokens replaces every #2DAMEMORY<n># and #StrRef<n># marker
// in source with its token-memory value (spec §4.8 step 2) in a single
// pass. Any #2DAMEMORY<n># or #StrRef<n># marker still present after
// that pass (for example one a substituted value introduced) is fatal;
// other "#...#" text is left alone.
func SubstituteTokens(source string, mem *Memory) (string, error) {
	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(source, func(match string) string {
		if firstErr != nil {
			return match
		}
		sub := tokenPattern.FindStringSubmatch(match)
		n, _ := strconv.Atoi(sub[2])
		if sub[1] == "2DAMEMORY" {
			v, err := mem.Mem2DA(n)
			if err != nil {
				firstErr = err
				return match
			}
			return v
		}
		v, err := mem.MemStr(n)
		if err != nil {
			firstErr = err
			return match
		}
		return strconv.Itoa(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	if loc := tokenPattern.FindStringIndex(out); loc != nil {
		return "", fmt.Errorf("unresolved token marker remains in source: %q", out[loc[0]:loc[1]])
	}
	return out, nil
}

// ApplyNSS runs the NSS algorithm: token substitution followed by
// invoking the external compiler (spec §4.8).
func ApplyNSS(patch *NSSPatch, sourceBytes []byte, mem *Memory, compiler Compiler) (PatchResult, error) {
	substituted, err := SubstituteTokens(string(sourceBytes), mem)
	if err != nil {
		return PatchResult{}, err
	}
	outcome, err := compiler.Compile(patch.saveAsOrSource(), patch.StagingDir, []byte(substituted))
	if err != nil {
		return PatchResult{}, err
	}
	switch outcome.Kind {
	case CompileOutcomeCompiled:
		return wrote(outcome.Bytes)
	case CompileOutcomeNoEntryPoint:
		return skip()
	default:
		return PatchResult{}, fmt.Errorf("nss compile failed: %s", outcome.Message)
	}
}

// ApplyNCS installs a precompiled script unchanged; no substitution or
// compilation applies to bytecode.
func ApplyNCS(input []byte) (PatchResult, error) {
	return wrote(input)
}
