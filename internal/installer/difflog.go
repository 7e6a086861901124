// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffBytes renders a human-readable diff of a resource's bytes before
// and after a patch, decoding as Latin-1 so arbitrary binary content
// never produces invalid UTF-8 in the diff text.
func DiffBytes(label string, before, after []byte) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(latin1String(before), latin1String(after), true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return fmt.Sprintf("--- %s ---\n%s", label, dmp.DiffPrettyText(diffs))
}

func latin1String(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// LogDiff emits a verbose-level diff of a patch's before/after bytes,
// used by both the driver (spec §A.1) and the diff CLI subcommand
// (SPEC_FULL §C.2).
func LogDiff(log *Logger, label string, before, after []byte) {
	log.Verbosef("%s", DiffBytes(label, before, after))
}
