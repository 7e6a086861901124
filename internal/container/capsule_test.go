// Copyright (c) 2025 Thorium

package container

import "testing"

func TestCapsuleRoundTrip(t *testing.T) {
	c := NewCapsule("module.mod")
	c.SetResource("n_gizka", "utc", []byte("template bytes"))
	c.SetResource("end_m01aa", "dlg", []byte("dialog bytes"))

	data := c.Save()
	got, err := LoadCapsule("module.mod", data)
	if err != nil {
		t.Fatalf("LoadCapsule: %v", err)
	}
	if !got.Exists("n_gizka", "utc") {
		t.Error("expected n_gizka.utc to exist")
	}
	res, err := got.Resource("END_M01AA", "DLG")
	if err != nil {
		t.Fatalf("Resource (case-insensitive lookup): %v", err)
	}
	if string(res) != "dialog bytes" {
		t.Errorf("Resource data = %q", res)
	}
}

func TestCapsuleSetResourceOverwritesInPlace(t *testing.T) {
	c := NewCapsule("x.mod")
	c.SetResource("a", "utc", []byte("1"))
	c.SetResource("b", "utc", []byte("2"))
	c.SetResource("a", "utc", []byte("overwritten"))

	list := c.ListResources()
	if len(list) != 2 {
		t.Fatalf("expected overwrite to keep slot count at 2, got %d", len(list))
	}
	if list[0].Name != "a" || string(list[0].Data) != "overwritten" {
		t.Errorf("expected slot 0 overwritten in place, got %+v", list[0])
	}
}

func TestCapsuleRemoveResource(t *testing.T) {
	c := NewCapsule("x.mod")
	c.SetResource("a", "utc", []byte("1"))
	c.SetResource("b", "utc", []byte("2"))
	c.RemoveResource("a", "utc")
	if c.Exists("a", "utc") {
		t.Error("expected a.utc to be removed")
	}
	if !c.Exists("b", "utc") {
		t.Error("expected b.utc to survive removal")
	}
}

func TestCapsuleResourceMissing(t *testing.T) {
	c := NewCapsule("x.mod")
	if _, err := c.Resource("nope", "utc"); err == nil {
		t.Fatal("expected error for missing resource")
	}
}

func TestCapsuleLoadEmpty(t *testing.T) {
	c, err := LoadCapsule("x.mod", nil)
	if err != nil {
		t.Fatalf("LoadCapsule(nil): %v", err)
	}
	if len(c.ListResources()) != 0 {
		t.Error("expected empty capsule")
	}
	if c.Path() != "x.mod" {
		t.Errorf("Path() = %q", c.Path())
	}
}

func TestCapsuleLoadBadMagic(t *testing.T) {
	_, err := LoadCapsule("x.mod", []byte("not a capsule"))
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
}
