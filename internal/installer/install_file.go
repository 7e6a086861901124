// Copyright (c) 2025 Thorium

package installer

// ApplyInstallFile is the degenerate "algorithm" for a bare file copy:
// the bytes read from the mod tree are written through unchanged. All
// the interesting behavior (replace/skip semantics) lives in the
// driver's should_patch decision (spec §4.9 step 4).
func ApplyInstallFile(input []byte) (PatchResult, error) {
	return wrote(input)
}
