// Copyright (c) 2025 Thorium

package installer

import "testing"

func TestParseNamespacesOrderedAndPopulated(t *testing.T) {
	raw := []byte(`[Namespaces]
Namespace1=NamespaceA
Namespace2=NamespaceB

[NamespaceA]
Name=Base Game Patch
Description=Installs the core fixes
IniName=changes.ini
InfoName=info.rtf
DataPath=.

[NamespaceB]
Name=With Companion Mod
IniName=changes2.ini
DataPath=Optional
`)
	namespaces, err := ParseNamespaces(raw)
	if err != nil {
		t.Fatalf("ParseNamespaces: %v", err)
	}
	if len(namespaces) != 2 {
		t.Fatalf("got %d namespaces, want 2", len(namespaces))
	}
	if namespaces[0].ID != "NamespaceA" || namespaces[1].ID != "NamespaceB" {
		t.Errorf("order not preserved: %+v", namespaces)
	}
	if namespaces[0].Name != "Base Game Patch" || namespaces[0].IniName != "changes.ini" {
		t.Errorf("NamespaceA fields wrong: %+v", namespaces[0])
	}
	if namespaces[1].DataPath != "Optional" {
		t.Errorf("NamespaceB.DataPath = %q, want Optional", namespaces[1].DataPath)
	}
}

func TestParseNamespacesMissingSection(t *testing.T) {
	raw := []byte("[Settings]\nFileVersion=V1.0\n")
	if _, err := ParseNamespaces(raw); err == nil {
		t.Fatal("expected error when [Namespaces] is absent")
	}
}

func TestParseNamespacesMissingIniName(t *testing.T) {
	raw := []byte(`[Namespaces]
Namespace1=NamespaceA

[NamespaceA]
Name=Broken
`)
	if _, err := ParseNamespaces(raw); err == nil {
		t.Fatal("expected error when a namespace section has no IniName")
	}
}

func TestParseNamespacesDanglingReference(t *testing.T) {
	raw := []byte(`[Namespaces]
Namespace1=Ghost
`)
	if _, err := ParseNamespaces(raw); err == nil {
		t.Fatal("expected error when the referenced section doesn't exist")
	}
}
