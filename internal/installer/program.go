// Copyright (c) 2025 Thorium

package installer

// OverrideType governs what happens to an Override/ file that shadows a
// patch's target inside an archive.
type OverrideType int

const (
	OverrideIgnore OverrideType = iota
	OverrideWarn
	OverrideRename
)

// Base is the contract every patch kind embeds (spec §3
// "PatcherModifications").
type Base struct {
	SourceFile       string
	SaveAs           string
	Destination      string
	ReplaceFile      bool
	OverrideType     OverrideType
	SkipIfNotReplace bool
}

// saveAsOrSource returns SaveAs, defaulting to SourceFile when unset.
func (b *Base) saveAsOrSource() string {
	if b.SaveAs == "" {
		return b.SourceFile
	}
	return b.SaveAs
}

// InstallFilePatch is a bare file copy, governed only by Base.
type InstallFilePatch struct {
	Base
}

// TLKModifier is one edit against a talk table.
type TLKModifier struct {
	TokenID       int
	Text          string
	Sound         string
	IsReplacement bool
}

// TLKPatch edits a talk table in declaration order.
type TLKPatch struct {
	Base
	Modifiers []TLKModifier
}

// RowTarget selects the row a 2DA row-modifier applies against.
type RowTargetKind int

const (
	TargetRowIndex RowTargetKind = iota
	TargetRowLabel
	TargetLabelColumn
)

type RowTarget struct {
	Kind   RowTargetKind
	Index  int
	Label  string
	Column string
	Value  string
}

// TwoDAModifierKind selects which 2DA row-modifier variant applies.
type TwoDAModifierKind int

const (
	ModChangeRow TwoDAModifierKind = iota
	ModAddRow
	ModCopyRow
	ModAddColumn
)

// TwoDAModifier is one row/column-level edit against a 2DA table.
type TwoDAModifier struct {
	Kind      TwoDAModifierKind
	Target    RowTarget // ChangeRow/CopyRow
	Cells     map[string]RowValue
	Store2DA  map[int]RowValue
	StoreTLK  map[int]RowValue

	// AddRow / CopyRow only.
	ExclusiveColumn string
	RowLabel        string

	// AddColumn only.
	Header        string
	DefaultValue  string
	IndexInsert   map[int]RowValue
	LabelInsert   map[string]RowValue
}

// TwoDAPatch edits a 2DA table in declaration order.
type TwoDAPatch struct {
	Base
	Modifiers []TwoDAModifier
}

// GFFFieldType is one of the fixed GFF scalar/compound tags.
type GFFFieldType int

const (
	GFFByte GFFFieldType = iota
	GFFChar
	GFFWord
	GFFShort
	GFFDword
	GFFInt
	GFFInt64
	GFFFloat
	GFFDouble
	GFFString
	GFFResRef
	GFFLocString
	GFFVector
	GFFOrientation
	GFFStruct
	GFFList
)

// LocStringDelta is a partial edit to a localized string: an optional
// new stringref plus per-(language,gender) substring overrides.
type LocStringDelta struct {
	StringRef    *int32
	Substrings   map[int32]string
}

// GFFModifierKind selects which GFF modifier variant applies.
type GFFModifierKind int

const (
	GFFModifyField GFFModifierKind = iota
	GFFAddField
)

// GFFModifier is one edit against a GFF tree, possibly recursive.
type GFFModifier struct {
	Kind GFFModifierKind

	// ModifyField.
	Path  string
	Value FieldValue

	// AddField.
	ParentPath       string
	Label            string
	FieldType        GFFFieldType
	Nested           []GFFModifier
	IndexInListToken *int
}

// GFFPatch edits a GFF tree in declaration order.
type GFFPatch struct {
	Base
	Modifiers []GFFModifier
}

// SSFModifier sets one sound-set slot.
type SSFModifier struct {
	Slot  int
	Value RowValue
}

// SSFPatch edits a sound-set table.
type SSFPatch struct {
	Base
	Modifiers []SSFModifier
}

// NSSPatch is a script source to be token-substituted and compiled.
type NSSPatch struct {
	Base
	StagingDir string
}

// NCSPatch installs a precompiled script bytecode file (no token
// substitution, no compilation step).
type NCSPatch struct {
	Base
}

// HackModifier is one raw byte-offset overwrite against a resource.
type HackModifier struct {
	Offset int
	Value  RowValue
	Size   int // 1, 2, or 4 bytes
}

// HackPatch is a binary-offset patch (spec §9 open question: sequenced
// between GFF and NSS in this implementation).
type HackPatch struct {
	Base
	Modifiers []HackModifier
}

// Settings mirrors the PatchProgram's settings bag (spec §3).
type Settings struct {
	WindowCaption         string
	ConfirmMessage        string
	LookupGameNumber      int
	RequiredFile          string
	RequiredMessage       string
	SaveProcessedScripts  bool
	LogLevel              int
	IgnoreFileExtensions  bool
}

// PatchProgram is the fully realized parse of one instruction file
// (spec §3).
type PatchProgram struct {
	Settings Settings

	// PlatformCaseFold lowercases destination/save-as before
	// resolution, for case-sensitive mobile installs (SPEC_FULL §C.3).
	PlatformCaseFold bool

	InstallList []InstallFilePatch
	TLKList     []TLKPatch
	TwoDAList   []TwoDAPatch
	GFFList     []GFFPatch
	HackList    []HackPatch
	NSSList     []NSSPatch
	NCSList     []NCSPatch
	SSFList     []SSFPatch
}

// PatchCounts is the per-list breakdown SPEC_FULL §C.1's validate()
// returns alongside the parsed program.
type PatchCounts struct {
	Install, TLK, TwoDA, GFF, NSS, NCS, SSF int
}

// Counts computes the per-list patch counts.
func (p *PatchProgram) Counts() PatchCounts {
	return PatchCounts{
		Install: len(p.InstallList),
		TLK:     len(p.TLKList),
		TwoDA:   len(p.TwoDAList),
		GFF:     len(p.GFFList),
		NSS:     len(p.NSSList),
		NCS:     len(p.NCSList),
		SSF:     len(p.SSFList),
	}
}

// Total is the sum of the seven counted lists' lengths, the "total
// patches scheduled" spec §8 refers to; HackList patches are not counted.
func (c PatchCounts) Total() int {
	return c.Install + c.TLK + c.TwoDA + c.GFF + c.NSS + c.NCS + c.SSF
}
