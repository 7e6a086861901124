// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/suprsokr/kotorpatcher/internal/container"
	"github.com/suprsokr/kotorpatcher/internal/ini"
	"github.com/suprsokr/kotorpatcher/internal/vpath"
)

// ParseProgram parses a changes.ini-shaped instruction file into a
// fully realized PatchProgram (spec §4.2). sourceDir is the mod's own
// source tree (its root, or the root containing tslpatchdata/), used
// to resolve TLKList's append.tlk and File<i>= sibling tables while
// parsing.
func ParseProgram(raw []byte, sourceDir string) (*PatchProgram, error) {
	f := ini.Parse(raw)
	p := &PatchProgram{}

	p.Settings = parseSettings(f)

	var err error
	if p.InstallList, err = parseInstallList(f); err != nil {
		return nil, fmt.Errorf("InstallList: %w", err)
	}
	if p.TLKList, err = parseTLKList(f, sourceDir); err != nil {
		return nil, fmt.Errorf("TLKList: %w", err)
	}
	if p.TwoDAList, err = parseTwoDAList(f); err != nil {
		return nil, fmt.Errorf("2DAList: %w", err)
	}
	if p.GFFList, err = parseGFFList(f); err != nil {
		return nil, fmt.Errorf("GFFList: %w", err)
	}
	if p.HackList, err = parseHackList(f); err != nil {
		return nil, fmt.Errorf("HACKList: %w", err)
	}
	if p.NSSList, p.NCSList, err = parseCompileList(f); err != nil {
		return nil, fmt.Errorf("CompileList: %w", err)
	}
	if p.SSFList, err = parseSSFList(f); err != nil {
		return nil, fmt.Errorf("SSFList: %w", err)
	}
	return p, nil
}

func parseSettings(f *ini.File) Settings {
	s := Settings{LogLevel: 4}
	sec := f.Section("Settings")
	if sec == nil {
		return s
	}
	if v, ok := sec.Get("WindowCaption"); ok {
		s.WindowCaption = v
	}
	if v, ok := sec.Get("ConfirmMessage"); ok && v != "N/A" {
		s.ConfirmMessage = v
	}
	if v, ok := sec.Get("LookupGameNumber"); ok {
		s.LookupGameNumber, _ = strconv.Atoi(v)
	}
	if v, ok := sec.Get("Required"); ok {
		s.RequiredFile = v
	}
	if v, ok := sec.Get("RequiredMsg"); ok {
		s.RequiredMessage = v
	}
	if v, ok := sec.Get("SaveProcessedScripts"); ok {
		s.SaveProcessedScripts = v == "1"
	}
	if v, ok := sec.Get("LogLevel"); ok {
		s.LogLevel, _ = strconv.Atoi(v)
	}
	if v, ok := sec.Get("IgnoreFileExtensions"); ok {
		s.IgnoreFileExtensions = v == "1"
	}
	return s
}

func isReplaceKey(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), "replace")
}

// --- InstallList -----------------------------------------------------

func parseInstallList(f *ini.File) ([]InstallFilePatch, error) {
	sec := f.Section("InstallList")
	if sec == nil {
		return nil, nil
	}
	var out []InstallFilePatch
	for _, folderEntry := range sec.Entries {
		destination := folderEntry.Key
		folderSec := f.Section(destination)
		if folderSec == nil {
			continue
		}
		for _, fileEntry := range folderSec.Entries {
			if fileEntry.Value == nil {
				continue
			}
			out = append(out, InstallFilePatch{Base: Base{
				SourceFile:       *fileEntry.Value,
				SaveAs:           *fileEntry.Value,
				Destination:      destination,
				ReplaceFile:      isReplaceKey(fileEntry.Key),
				SkipIfNotReplace: true,
			}})
		}
	}
	return out, nil
}

// --- TLKList -----------------------------------------------------------

var tlkStrRefKey = regexp.MustCompile(`^StrRef([0-9]+)$`)
var tlkScalarKey = regexp.MustCompile(`^([0-9]+)\\(Text|Sound|SoundExists)$`)

// loadSiblingTLK loads name from sourceDir (checked directly and under
// tslpatchdata/), failing if it cannot be found; used for File<i>=
// custom talk tables, which the reader must not silently skip.
func loadSiblingTLK(sourceDir, name string) (*container.TLKTable, error) {
	candidates := []string{
		vpath.Resolve(sourceDir, name),
		vpath.Resolve(sourceDir, filepath.Join("tslpatchdata", name)),
	}
	for _, c := range candidates {
		if vpath.SafeIsFile(c) {
			data, err := os.ReadFile(c)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", c, err)
			}
			table, err := container.LoadTLK(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", c, err)
			}
			return table, nil
		}
	}
	return nil, fmt.Errorf("%s not found under %s", name, sourceDir)
}

// loadSiblingTLKOptional is loadSiblingTLK but returns an empty table,
// not an error, when name doesn't exist: append.tlk is read lazily and
// its absence only becomes an error once a StrRef<i>= row looks up a
// row that isn't there.
func loadSiblingTLKOptional(sourceDir, name string) (*container.TLKTable, error) {
	table, err := loadSiblingTLK(sourceDir, name)
	if err != nil {
		return container.NewTLKTable(), nil
	}
	return table, nil
}

func parseTLKList(f *ini.File, sourceDir string) ([]TLKPatch, error) {
	sec := f.Section("TLKList")
	if sec == nil {
		return nil, nil
	}

	male := TLKPatch{Base: Base{SourceFile: "dialog.tlk", SaveAs: "dialog.tlk", Destination: "."}}
	scalarByToken := map[int]*TLKModifier{}
	var appendTLK *container.TLKTable
	loadAppendTLK := func() (*container.TLKTable, error) {
		if appendTLK == nil {
			t, err := loadSiblingTLKOptional(sourceDir, "append.tlk")
			if err != nil {
				return nil, err
			}
			appendTLK = t
		}
		return appendTLK, nil
	}
	getScalar := func(token int) *TLKModifier {
		if m, ok := scalarByToken[token]; ok {
			return m
		}
		m := &TLKModifier{TokenID: token, IsReplacement: true}
		scalarByToken[token] = m
		male.Modifiers = append(male.Modifiers, *m)
		return m
	}
	syncScalar := func(token int, mutate func(*TLKModifier)) {
		m := getScalar(token)
		mutate(m)
		for i := range male.Modifiers {
			if male.Modifiers[i].TokenID == token && male.Modifiers[i].IsReplacement {
				male.Modifiers[i] = *m
				return
			}
		}
		male.Modifiers = append(male.Modifiers, *m)
	}

	for _, entry := range sec.Entries {
		if m := tlkStrRefKey.FindStringSubmatch(entry.Key); m != nil {
			token, _ := strconv.Atoi(m[1])
			appendIdx := 0
			if entry.Value != nil {
				appendIdx, _ = strconv.Atoi(*entry.Value)
			}
			table, err := loadAppendTLK()
			if err != nil {
				return nil, fmt.Errorf("StrRef%d: %w", token, err)
			}
			if appendIdx < 0 || appendIdx >= len(table.Entries) {
				return nil, fmt.Errorf("StrRef%d: append.tlk has no row %d", token, appendIdx)
			}
			row := table.Entries[appendIdx]
			male.Modifiers = append(male.Modifiers, TLKModifier{
				TokenID:       token,
				Text:          row.Text,
				Sound:         row.Sound,
				IsReplacement: false,
			})
			continue
		}
		if strings.HasPrefix(entry.Key, "File") {
			fileName := ""
			if entry.Value != nil {
				fileName = *entry.Value
			}
			fileSec := f.Section(fileName)
			if fileSec == nil {
				return nil, fmt.Errorf("TLK sub-file %q referenced but its section is missing", fileName)
			}
			customTLK, err := loadSiblingTLK(sourceDir, fileName)
			if err != nil {
				return nil, fmt.Errorf("TLK file %q: %w", fileName, err)
			}
			for _, rowEntry := range fileSec.Entries {
				if rowEntry.Value == nil {
					continue
				}
				// rowEntry.Key is the change_index (the target token in
				// dialog.tlk); rowEntry.Value is the row to copy out of
				// the referenced file.
				changeIndex, err := strconv.Atoi(rowEntry.Key)
				if err != nil {
					return nil, fmt.Errorf("TLK file %q row %q: target strref is not numeric", fileName, rowEntry.Key)
				}
				sourceRow, err := strconv.Atoi(*rowEntry.Value)
				if err != nil {
					return nil, fmt.Errorf("TLK file %q row %q: source row %q is not numeric", fileName, rowEntry.Key, *rowEntry.Value)
				}
				if sourceRow < 0 || sourceRow >= len(customTLK.Entries) {
					return nil, fmt.Errorf("TLK file %q: row %d out of range", fileName, sourceRow)
				}
				row := customTLK.Entries[sourceRow]
				male.Modifiers = append(male.Modifiers, TLKModifier{
					TokenID:       changeIndex,
					Text:          row.Text,
					Sound:         row.Sound,
					IsReplacement: true,
				})
			}
			continue
		}
		if m := tlkScalarKey.FindStringSubmatch(entry.Key); m != nil {
			token, _ := strconv.Atoi(m[1])
			value := ""
			if entry.Value != nil {
				value = *entry.Value
			}
			switch m[2] {
			case "Text":
				syncScalar(token, func(mod *TLKModifier) { mod.Text = value })
			case "Sound":
				syncScalar(token, func(mod *TLKModifier) { mod.Sound = value })
			case "SoundExists":
				// Flag only; presence already implied by Sound being set.
			}
			continue
		}
		if strings.EqualFold(entry.Key, "ReplaceFile") || strings.EqualFold(entry.Key, "OverrideType") {
			return nil, fmt.Errorf("%s is not supported on TLKList", entry.Key)
		}
	}

	if len(male.Modifiers) == 0 {
		return nil, nil
	}
	return []TLKPatch{male}, nil
}

// --- 2DAList -----------------------------------------------------------

func parse2DAMetaBase(fileSec *ini.Section, destination string) Base {
	b := Base{Destination: destination}
	if v, ok := fileSec.Get("!SourceFile"); ok {
		b.SourceFile = v
	}
	if v, ok := fileSec.Get("!SaveAs"); ok {
		b.SaveAs = v
	} else if v, ok := fileSec.Get("!Filename"); ok {
		b.SaveAs = v
	}
	if v, ok := fileSec.Get("!Destination"); ok {
		b.Destination = v
	}
	if v, ok := fileSec.Get("!ReplaceFile"); ok {
		b.ReplaceFile = v == "1"
	}
	if v, ok := fileSec.Get("!OverrideType"); ok {
		b.OverrideType = parseOverrideType(v)
	}
	return b
}

func parseOverrideType(v string) OverrideType {
	switch strings.ToLower(v) {
	case "rename":
		return OverrideRename
	case "warn":
		return OverrideWarn
	default:
		return OverrideIgnore
	}
}

func parseTwoDAList(f *ini.File) ([]TwoDAPatch, error) {
	sec := f.Section("2DAList")
	if sec == nil {
		return nil, nil
	}
	var out []TwoDAPatch
	for _, entry := range sec.Entries {
		if entry.Value == nil {
			continue
		}
		fileName := *entry.Value
		fileSec := f.Section(fileName)
		if fileSec == nil {
			return nil, fmt.Errorf("2DA file %q has no matching section", fileName)
		}
		base := parse2DAMetaBase(fileSec, "Override")
		if base.SourceFile == "" {
			base.SourceFile = fileName
		}
		if base.SaveAs == "" {
			base.SaveAs = fileName
		}
		base.ReplaceFile = base.ReplaceFile || isReplaceKey(entry.Key)

		patch := TwoDAPatch{Base: base}
		for _, mEntry := range fileSec.Entries {
			if strings.HasPrefix(mEntry.Key, "!") || mEntry.Value == nil {
				continue
			}
			modSec := f.Section(*mEntry.Value)
			if modSec == nil {
				continue
			}
			mod, err := parseTwoDAModifier(mEntry.Key, modSec)
			if err != nil {
				return nil, fmt.Errorf("2DA %s modifier %s: %w", fileName, mEntry.Key, err)
			}
			patch.Modifiers = append(patch.Modifiers, mod)
		}
		out = append(out, patch)
	}
	return out, nil
}

func parseTwoDAModifier(key string, sec *ini.Section) (TwoDAModifier, error) {
	lower := strings.ToLower(key)
	var kind TwoDAModifierKind
	switch {
	case strings.HasPrefix(lower, "changerow"):
		kind = ModChangeRow
	case strings.HasPrefix(lower, "addrow"):
		kind = ModAddRow
	case strings.HasPrefix(lower, "copyrow"):
		kind = ModCopyRow
	case strings.HasPrefix(lower, "addcolumn"):
		kind = ModAddColumn
	default:
		return TwoDAModifier{}, fmt.Errorf("unrecognized modifier prefix %q", key)
	}

	mod := TwoDAModifier{Kind: kind, Cells: map[string]RowValue{}, Store2DA: map[int]RowValue{}, StoreTLK: map[int]RowValue{}}
	if kind == ModAddColumn {
		mod.IndexInsert = map[int]RowValue{}
		mod.LabelInsert = map[string]RowValue{}
	}

	for _, e := range sec.Entries {
		val := ""
		if e.Value != nil {
			val = *e.Value
		}
		switch {
		case strings.EqualFold(e.Key, "RowIndex"):
			mod.Target = RowTarget{Kind: TargetRowIndex, Index: atoiSafe(val)}
		case strings.EqualFold(e.Key, "RowLabel"):
			mod.Target = RowTarget{Kind: TargetRowLabel, Label: val}
		case strings.EqualFold(e.Key, "LabelIndex"):
			mod.Target = RowTarget{Kind: TargetRowIndex, Index: atoiSafe(val)}
		case strings.EqualFold(e.Key, "ExclusiveColumn"):
			mod.ExclusiveColumn = val
		case strings.EqualFold(e.Key, "NewRowLabel"):
			mod.RowLabel = val
		case strings.EqualFold(e.Key, "ColumnLabel"):
			mod.Target = RowTarget{Kind: TargetLabelColumn, Column: val}
		case strings.HasPrefix(e.Key, "2DAMEMORY"):
			token, _ := strconv.Atoi(strings.TrimPrefix(e.Key, "2DAMEMORY"))
			mod.Store2DA[token] = parseRowValue(val)
		case strings.HasPrefix(e.Key, "StrRef"):
			token, _ := strconv.Atoi(strings.TrimPrefix(e.Key, "StrRef"))
			mod.StoreTLK[token] = parseRowValue(val)
		case kind == ModAddColumn && strings.EqualFold(e.Key, "ColumnLabel2"):
			mod.Header = val
		case kind == ModAddColumn && strings.EqualFold(e.Key, "Header"):
			mod.Header = val
		case kind == ModAddColumn && strings.EqualFold(e.Key, "DefaultValue"):
			mod.DefaultValue = val
		case kind == ModAddColumn && strings.HasPrefix(e.Key, "I") && isDigits(e.Key[1:]):
			idx, _ := strconv.Atoi(e.Key[1:])
			mod.IndexInsert[idx] = parseRowValue(val)
		case kind == ModAddColumn && strings.HasPrefix(e.Key, "L"):
			mod.LabelInsert[e.Key[1:]] = parseRowValue(val)
		default:
			mod.Cells[e.Key] = parseRowValue(val)
		}
	}
	return mod, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

var mem2DAPattern = regexp.MustCompile(`^2DAMEMORY([0-9]+)$`)
var strRefPattern = regexp.MustCompile(`^StrRef([0-9]+)$`)
var highPattern = regexp.MustCompile(`^high\(([^)]*)\)$`)

func parseRowValue(raw string) RowValue {
	if m := mem2DAPattern.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return RowValue{Kind: RVMem2DA, Token: n}
	}
	if m := strRefPattern.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return RowValue{Kind: RVMemStr, Token: n}
	}
	if m := highPattern.FindStringSubmatch(raw); m != nil {
		return RowValue{Kind: RVHigh, Column: m[1]}
	}
	if strings.EqualFold(raw, "RowIndex") {
		return RowValue{Kind: RVRowIndex}
	}
	if strings.EqualFold(raw, "RowLabel") {
		return RowValue{Kind: RVRowLabel}
	}
	return RowValue{Kind: RVConstant, Constant: raw}
}

// --- GFFList -------------------------------------------------------------

func parseGFFList(f *ini.File) ([]GFFPatch, error) {
	sec := f.Section("GFFList")
	if sec == nil {
		return nil, nil
	}
	var out []GFFPatch
	for _, entry := range sec.Entries {
		if entry.Value == nil {
			continue
		}
		fileName := *entry.Value
		fileSec := f.Section(fileName)
		if fileSec == nil {
			return nil, fmt.Errorf("GFF file %q has no matching section", fileName)
		}
		base := parse2DAMetaBase(fileSec, "Override")
		if base.SourceFile == "" {
			base.SourceFile = fileName
		}
		if base.SaveAs == "" {
			base.SaveAs = fileName
		}
		base.ReplaceFile = base.ReplaceFile || isReplaceKey(entry.Key)

		patch := GFFPatch{Base: base}
		mods, err := parseGFFModifiers(f, fileSec)
		if err != nil {
			return nil, fmt.Errorf("GFF %s: %w", fileName, err)
		}
		patch.Modifiers = mods
		out = append(out, patch)
	}
	return out, nil
}

func parseGFFModifiers(f *ini.File, sec *ini.Section) ([]GFFModifier, error) {
	var mods []GFFModifier
	for _, e := range sec.Entries {
		if strings.HasPrefix(e.Key, "!") {
			continue
		}
		if strings.HasPrefix(e.Key, "AddField") {
			if e.Value == nil {
				continue
			}
			nestedSec := f.Section(*e.Value)
			if nestedSec == nil {
				return nil, fmt.Errorf("AddField %q references missing section", *e.Value)
			}
			mod, err := parseGFFAddField(f, nestedSec)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
			continue
		}
		val := ""
		if e.Value != nil {
			val = *e.Value
		}
		mods = append(mods, parseGFFModifyField(e.Key, val))
	}
	return mods, nil
}

var locStrRefSuffix = regexp.MustCompile(`\(strref\)$`)
var locSubstringSuffix = regexp.MustCompile(`\(lang([0-9]+)\)$`)

func parseGFFModifyField(key, val string) GFFModifier {
	if locStrRefSuffix.MatchString(key) {
		path := locStrRefSuffix.ReplaceAllString(key, "")
		n, _ := strconv.Atoi(val)
		n32 := int32(n)
		return GFFModifier{Kind: GFFModifyField, Path: path, Value: FieldValue{Kind: FVLocDelta, LocDelta: &LocStringDelta{StringRef: &n32}}}
	}
	if m := locSubstringSuffix.FindStringSubmatch(key); m != nil {
		path := locSubstringSuffix.ReplaceAllString(key, "")
		langKey, _ := strconv.Atoi(m[1])
		return GFFModifier{Kind: GFFModifyField, Path: path, Value: FieldValue{
			Kind: FVLocDelta,
			LocDelta: &LocStringDelta{Substrings: map[int32]string{int32(langKey): val}},
		}}
	}
	return GFFModifier{Kind: GFFModifyField, Path: key, Value: parseFieldValue(val)}
}

func parseFieldValue(raw string) FieldValue {
	if m := mem2DAPattern.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return FieldValue{Kind: FVMem2DA, Token: n}
	}
	if m := strRefPattern.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return FieldValue{Kind: FVMemStr, Token: n}
	}
	return FieldValue{Kind: FVConstant, Raw: raw}
}

func parseGFFAddField(f *ini.File, sec *ini.Section) (GFFModifier, error) {
	mod := GFFModifier{Kind: GFFAddField}
	var structIDRaw, valueRaw string
	for _, e := range sec.Entries {
		val := ""
		if e.Value != nil {
			val = *e.Value
		}
		switch {
		case strings.EqualFold(e.Key, "FieldType"):
			mod.FieldType = parseGFFFieldType(val)
		case strings.EqualFold(e.Key, "Label"):
			mod.Label = val
		case strings.EqualFold(e.Key, "Path"):
			mod.ParentPath = val
		case strings.EqualFold(e.Key, "TypeId"):
			structIDRaw = val
		case strings.EqualFold(e.Key, "Value"):
			valueRaw = val
		case strings.HasPrefix(e.Key, "2DAMEMORY") && strings.EqualFold(val, "ListIndex"):
			token, _ := strconv.Atoi(strings.TrimPrefix(e.Key, "2DAMEMORY"))
			mod.IndexInListToken = &token
		case strings.HasPrefix(e.Key, "AddField"):
			if e.Value == nil {
				continue
			}
			nestedSec := f.Section(*e.Value)
			if nestedSec == nil {
				return GFFModifier{}, fmt.Errorf("nested AddField %q references missing section", *e.Value)
			}
			nested, err := parseGFFAddField(f, nestedSec)
			if err != nil {
				return GFFModifier{}, err
			}
			mod.Nested = append(mod.Nested, nested)
		default:
			mod.Nested = append(mod.Nested, parseGFFModifyField(e.Key, val))
		}
	}
	if mod.FieldType == GFFStruct {
		mod.Value = FieldValue{Kind: FVConstant, Raw: structIDRaw}
	} else {
		mod.Value = parseFieldValue(valueRaw)
	}
	return mod, nil
}

func parseGFFFieldType(v string) GFFFieldType {
	switch strings.ToLower(v) {
	case "byte":
		return GFFByte
	case "char":
		return GFFChar
	case "word":
		return GFFWord
	case "short":
		return GFFShort
	case "dword":
		return GFFDword
	case "int":
		return GFFInt
	case "int64":
		return GFFInt64
	case "float":
		return GFFFloat
	case "double":
		return GFFDouble
	case "exostring", "string":
		return GFFString
	case "resref":
		return GFFResRef
	case "exolocstring", "locstring":
		return GFFLocString
	case "position", "vector":
		return GFFVector
	case "orientation":
		return GFFOrientation
	case "list":
		return GFFList
	default:
		return GFFStruct
	}
}

// --- CompileList (NSS/NCS) ------------------------------------------------

func parseCompileList(f *ini.File) ([]NSSPatch, []NCSPatch, error) {
	sec := f.Section("CompileList")
	if sec == nil {
		return nil, nil, nil
	}
	defaultDest := "Override"
	if v, ok := sec.Get("!DefaultDestination"); ok {
		defaultDest = v
	}
	var nss []NSSPatch
	for _, e := range sec.Entries {
		if strings.HasPrefix(e.Key, "!") || e.Value == nil {
			continue
		}
		name := *e.Value
		base := Base{SourceFile: name, SaveAs: strings.TrimSuffix(name, ".nss") + ".ncs", Destination: defaultDest}
		if fileSec := f.Section(name); fileSec != nil {
			b := parse2DAMetaBase(fileSec, defaultDest)
			if b.SourceFile != "" {
				base.SourceFile = b.SourceFile
			}
			if b.SaveAs != "" {
				base.SaveAs = b.SaveAs
			}
			if b.Destination != "" {
				base.Destination = b.Destination
			}
			base.ReplaceFile = b.ReplaceFile
			base.OverrideType = b.OverrideType
		}
		base.ReplaceFile = base.ReplaceFile || isReplaceKey(e.Key)
		nss = append(nss, NSSPatch{Base: base})
	}
	return nss, nil, nil
}

// --- HACKList (optional raw-offset patches) --------------------------------

func parseHackList(f *ini.File) ([]HackPatch, error) {
	sec := f.Section("HACKList")
	if sec == nil {
		return nil, nil
	}
	var out []HackPatch
	for _, e := range sec.Entries {
		if e.Value == nil {
			continue
		}
		fileName := *e.Value
		fileSec := f.Section(fileName)
		if fileSec == nil {
			continue
		}
		base := parse2DAMetaBase(fileSec, "Override")
		if base.SourceFile == "" {
			base.SourceFile = fileName
		}
		if base.SaveAs == "" {
			base.SaveAs = fileName
		}
		patch := HackPatch{Base: base}
		for _, mEntry := range fileSec.Entries {
			if strings.HasPrefix(mEntry.Key, "!") {
				continue
			}
			offset, err := strconv.Atoi(mEntry.Key)
			if err != nil {
				continue
			}
			val := ""
			if mEntry.Value != nil {
				val = *mEntry.Value
			}
			patch.Modifiers = append(patch.Modifiers, HackModifier{Offset: offset, Value: parseRowValue(val), Size: 4})
		}
		out = append(out, patch)
	}
	return out, nil
}

// --- SSFList ---------------------------------------------------------------

var ssfSlotNames = []string{
	"Battlecry1", "Battlecry2", "Battlecry3", "Battlecry4", "Battlecry5", "Battlecry6",
	"Select1", "Select2", "Select3",
	"Attack1", "Attack2", "Attack3",
	"Pain1", "Pain2",
	"Low_health", "Death", "Critical_hit", "Target_immune",
	"Place_mine", "Disarm_mine", "Stealth_on",
	"Search", "Plant_mine_fail", "Unlock_success", "Unlock_fail",
	"Separated_from_party", "Rejoined_party", "Poisoned",
}

func parseSSFList(f *ini.File) ([]SSFPatch, error) {
	sec := f.Section("SSFList")
	if sec == nil {
		return nil, nil
	}
	var out []SSFPatch
	for _, e := range sec.Entries {
		if e.Value == nil {
			continue
		}
		fileName := *e.Value
		fileSec := f.Section(fileName)
		if fileSec == nil {
			return nil, fmt.Errorf("SSF file %q has no matching section", fileName)
		}
		base := parse2DAMetaBase(fileSec, "Override")
		if base.SourceFile == "" {
			base.SourceFile = fileName
		}
		if base.SaveAs == "" {
			base.SaveAs = fileName
		}
		base.ReplaceFile = base.ReplaceFile || isReplaceKey(e.Key)

		patch := SSFPatch{Base: base}
		for _, mEntry := range fileSec.Entries {
			if strings.HasPrefix(mEntry.Key, "!") {
				continue
			}
			slot := slotIndex(mEntry.Key)
			if slot < 0 {
				continue
			}
			val := ""
			if mEntry.Value != nil {
				val = *mEntry.Value
			}
			patch.Modifiers = append(patch.Modifiers, SSFModifier{Slot: slot, Value: parseRowValue(val)})
		}
		out = append(out, patch)
	}
	return out, nil
}

func slotIndex(name string) int {
	for i, n := range ssfSlotNames {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}
