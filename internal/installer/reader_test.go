// Copyright (c) 2025 Thorium

package installer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

func writeAppendTLK(t *testing.T, dir string, entries ...container.TLKEntry) {
	t.Helper()
	table := container.NewTLKTable()
	for _, e := range entries {
		table.Insert(e.Text, e.Sound)
	}
	if err := os.WriteFile(filepath.Join(dir, "append.tlk"), table.Save(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseTLKListStrRefLoadsRealEntry(t *testing.T) {
	dir := t.TempDir()
	writeAppendTLK(t, dir, container.TLKEntry{Text: "Hello", Sound: "greet"})

	raw := []byte("[TLKList]\nStrRef0=0\n")
	program, err := ParseProgram(raw, dir)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(program.TLKList) != 1 {
		t.Fatalf("TLKList length = %d, want 1", len(program.TLKList))
	}
	mods := program.TLKList[0].Modifiers
	if len(mods) != 1 {
		t.Fatalf("Modifiers length = %d, want 1", len(mods))
	}
	if mods[0].Text != "Hello" || mods[0].Sound != "greet" {
		t.Errorf("modifier = %+v, want text Hello sound greet", mods[0])
	}
	if mods[0].IsReplacement {
		t.Errorf("StrRef entry should insert, not replace")
	}
	if mods[0].TokenID != 0 {
		t.Errorf("TokenID = %d, want 0", mods[0].TokenID)
	}
}

func TestParseTLKListStrRefMissingRowIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeAppendTLK(t, dir, container.TLKEntry{Text: "only row"})

	raw := []byte("[TLKList]\nStrRef5=3\n")
	if _, err := ParseProgram(raw, dir); err == nil {
		t.Fatal("expected error referencing an append.tlk row that doesn't exist")
	}
}

func TestParseTLKListFileImportUsesKeyAsTargetAndValueAsSourceRow(t *testing.T) {
	dir := t.TempDir()
	table := container.NewTLKTable()
	table.Insert("first custom row", "")
	table.Insert("second custom row", "voice02")
	if err := os.WriteFile(filepath.Join(dir, "custom.tlk"), table.Save(), 0o644); err != nil {
		t.Fatal(err)
	}

	raw := []byte("[TLKList]\nFile0=custom.tlk\n\n[custom.tlk]\n42=1\n")
	program, err := ParseProgram(raw, dir)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	mods := program.TLKList[0].Modifiers
	if len(mods) != 1 {
		t.Fatalf("Modifiers length = %d, want 1", len(mods))
	}
	if mods[0].TokenID != 42 {
		t.Errorf("TokenID = %d, want 42 (the change_index, from the row's key)", mods[0].TokenID)
	}
	if mods[0].Text != "second custom row" || mods[0].Sound != "voice02" {
		t.Errorf("modifier = %+v, want row 1 of custom.tlk", mods[0])
	}
	if !mods[0].IsReplacement {
		t.Errorf("File<i>= entries replace, not insert")
	}
}

func TestParseTLKListFileImportMissingSectionIsFatal(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("[TLKList]\nFile0=custom.tlk\n")
	if _, err := ParseProgram(raw, dir); err == nil {
		t.Fatal("expected error for a File<i>= entry with no matching section")
	}
}

func TestParseTLKListFileImportMissingFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("[TLKList]\nFile0=custom.tlk\n\n[custom.tlk]\n0=0\n")
	if _, err := ParseProgram(raw, dir); err == nil {
		t.Fatal("expected error for a File<i>= entry whose referenced TLK file is missing from disk")
	}
}

func TestParseTLKListScalarSyntaxBuildsReplacement(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("[TLKList]\n10\\Text=Hi there\n10\\Sound=hello\n")
	program, err := ParseProgram(raw, dir)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	mods := program.TLKList[0].Modifiers
	if len(mods) != 1 {
		t.Fatalf("Modifiers length = %d, want 1", len(mods))
	}
	if mods[0].TokenID != 10 || mods[0].Text != "Hi there" || mods[0].Sound != "hello" || !mods[0].IsReplacement {
		t.Errorf("modifier = %+v, want token 10 replacement Hi there/hello", mods[0])
	}
}

func TestParseTLKListEmptySectionYieldsNoPatch(t *testing.T) {
	dir := t.TempDir()
	raw := []byte("[TLKList]\n")
	program, err := ParseProgram(raw, dir)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(program.TLKList) != 0 {
		t.Errorf("TLKList length = %d, want 0 for an empty [TLKList]", len(program.TLKList))
	}
}

func TestParseTLKListRejectsReplaceFileAndOverrideType(t *testing.T) {
	dir := t.TempDir()
	writeAppendTLK(t, dir, container.TLKEntry{Text: "row zero"})
	for _, key := range []string{"ReplaceFile", "OverrideType"} {
		raw := []byte("[TLKList]\nStrRef0=0\n" + key + "=1\n")
		if _, err := ParseProgram(raw, dir); err == nil {
			t.Errorf("%s should be rejected on TLKList", key)
		}
	}
}

func TestParseInstallList(t *testing.T) {
	raw := []byte("[InstallList]\nOverride=1\n\n[Override]\nReplace0=icon_01.tga\nicon_02.tga=icon_02.tga\n")
	program, err := ParseProgram(raw, t.TempDir())
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(program.InstallList) != 2 {
		t.Fatalf("InstallList length = %d, want 2", len(program.InstallList))
	}
	var sawReplace, sawPlain bool
	for _, p := range program.InstallList {
		if p.SourceFile == "icon_01.tga" {
			sawReplace = p.ReplaceFile
		}
		if p.SourceFile == "icon_02.tga" {
			sawPlain = !p.ReplaceFile
		}
	}
	if !sawReplace {
		t.Errorf("Replace0= entry should set ReplaceFile")
	}
	if !sawPlain {
		t.Errorf("plain entry should leave ReplaceFile unset")
	}
}

func TestParseGFFListModifyFieldVectorAndOrientation(t *testing.T) {
	raw := []byte(
		"[GFFList]\n" +
			"p_hk47.utc=p_hk47.utc\n\n" +
			"[p_hk47.utc]\n" +
			"Position=1.5|2|-3.25\n" +
			"Orientation=0|0|0|1\n",
	)
	program, err := ParseProgram(raw, t.TempDir())
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(program.GFFList) != 1 {
		t.Fatalf("GFFList length = %d, want 1", len(program.GFFList))
	}
	mods := program.GFFList[0].Modifiers
	if len(mods) != 2 {
		t.Fatalf("Modifiers length = %d, want 2", len(mods))
	}
	for _, m := range mods {
		if m.Value.Kind != FVConstant {
			t.Errorf("%s: Value.Kind = %d, want FVConstant (pipe literals parse at write time)", m.Path, m.Value.Kind)
		}
	}
}

func TestParseGFFListLocStringSuffixes(t *testing.T) {
	raw := []byte(
		"[GFFList]\n" +
			"convo.dlg=convo.dlg\n\n" +
			"[convo.dlg]\n" +
			"Text(strref)=12345\n" +
			"Text(lang0)=Hello there\n",
	)
	program, err := ParseProgram(raw, t.TempDir())
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	mods := program.GFFList[0].Modifiers
	if len(mods) != 2 {
		t.Fatalf("Modifiers length = %d, want 2", len(mods))
	}
	for _, m := range mods {
		if m.Path != "Text" {
			t.Errorf("path = %q, want Text with the (strref)/(langN) suffix stripped", m.Path)
		}
		if m.Value.Kind != FVLocDelta {
			t.Errorf("Value.Kind = %d, want FVLocDelta", m.Value.Kind)
		}
	}
}

func TestParseTwoDAListChangeRow(t *testing.T) {
	raw := []byte(
		"[2DAList]\n" +
			"feat.2da=feat.2da\n\n" +
			"[feat.2da]\n" +
			"ChangeRow0=change_power_attack\n\n" +
			"[change_power_attack]\n" +
			"RowIndex=5\n" +
			"label=Power Attack\n",
	)
	program, err := ParseProgram(raw, t.TempDir())
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	if len(program.TwoDAList) != 1 {
		t.Fatalf("TwoDAList length = %d, want 1", len(program.TwoDAList))
	}
	mods := program.TwoDAList[0].Modifiers
	if len(mods) != 1 {
		t.Fatalf("Modifiers length = %d, want 1", len(mods))
	}
	if mods[0].Kind != ModChangeRow {
		t.Errorf("Kind = %d, want ModChangeRow", mods[0].Kind)
	}
	if mods[0].Target.Kind != TargetRowIndex || mods[0].Target.Index != 5 {
		t.Errorf("Target = %+v, want RowIndex 5", mods[0].Target)
	}
	if cell, ok := mods[0].Cells["label"]; !ok || cell.Constant != "Power Attack" {
		t.Errorf("Cells[label] = %+v, want constant Power Attack", cell)
	}
}

func TestResolveChangesIniPathChecksTslpatchdata(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "tslpatchdata")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "changes.ini"), []byte("[Settings]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := ResolveChangesIniPath(dir, "")
	if err != nil {
		t.Fatalf("ResolveChangesIniPath: %v", err)
	}
	if resolved != filepath.Join(nested, "changes.ini") {
		t.Errorf("resolved = %s, want the tslpatchdata copy", resolved)
	}
}
