// Copyright (c) 2025 Thorium

package installer

import (
	"errors"
	"testing"
)

func TestErrorCollectorAdd(t *testing.T) {
	c := &ErrorCollector{}
	c.Add(errors.New("boom"))
	c.Add(nil)
	if len(c.Errors) != 1 {
		t.Fatalf("Errors = %d, want 1 (nil should be ignored)", len(c.Errors))
	}
}

func TestErrorCollectorAddf(t *testing.T) {
	c := &ErrorCollector{}
	c.Addf("file %s missing", "dialog.tlk")
	if len(c.Errors) != 1 {
		t.Fatalf("Errors = %d, want 1", len(c.Errors))
	}
	if c.Errors[0].Error() != "file dialog.tlk missing" {
		t.Errorf("Errors[0] = %q", c.Errors[0].Error())
	}
}

func TestErrorCollectorWarn(t *testing.T) {
	c := &ErrorCollector{}
	c.Warn("heads up: %d rows skipped", 3)
	if len(c.Warnings) != 1 || len(c.Errors) != 0 {
		t.Fatalf("Warnings = %d, Errors = %d, want 1 and 0", len(c.Warnings), len(c.Errors))
	}
}
