// Copyright (c) 2025 Thorium

package installer

import (
	"testing"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

func TestRowValueConstant(t *testing.T) {
	v := RowValue{Kind: RVConstant, Constant: "3"}
	got, err := v.Evaluate(NewMemory(), nil, -1)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "3" {
		t.Errorf("got %q, want 3", got)
	}
}

func TestRowValueMem2DA(t *testing.T) {
	m := NewMemory()
	m.SetMem2DA(1, "42")
	v := RowValue{Kind: RVMem2DA, Token: 1}
	got, err := v.Evaluate(m, nil, -1)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "42" {
		t.Errorf("got %q, want 42", got)
	}
}

func TestRowValueHighNeedsTable(t *testing.T) {
	v := RowValue{Kind: RVHigh, Column: "label"}
	if _, err := v.Evaluate(NewMemory(), nil, -1); err == nil {
		t.Fatal("expected error evaluating high() with no table in scope")
	}
}

func TestRowValueHigh(t *testing.T) {
	table := container.NewTwoDA([]string{"cost"})
	table.AppendRow("0")
	table.SetCell(0, "cost", "10")
	table.AppendRow("1")
	table.SetCell(1, "cost", "25")
	v := RowValue{Kind: RVHigh, Column: "cost"}
	got, err := v.Evaluate(NewMemory(), table, -1)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "26" {
		t.Errorf("high(cost) = %q, want 26", got)
	}
}

func TestRowValueRowLabelBeforeRowExists(t *testing.T) {
	v := RowValue{Kind: RVRowLabel}
	if _, err := v.Evaluate(NewMemory(), nil, -1); err == nil {
		t.Fatal("expected error resolving RowLabel before row exists")
	}
}

func TestRowValueEvaluateIntPlainDecimal(t *testing.T) {
	v := RowValue{Kind: RVConstant, Constant: "42"}
	n, err := v.EvaluateInt(NewMemory(), nil, -1)
	if err != nil {
		t.Fatalf("EvaluateInt: %v", err)
	}
	if n != 42 {
		t.Errorf("EvaluateInt(42) = %d, want 42", n)
	}
}

func TestFieldValueEvaluateScalar(t *testing.T) {
	m := NewMemory()
	m.SetMemStr(7, 99)
	v := FieldValue{Kind: FVMemStr, Token: 7}
	got, err := v.EvaluateScalar(m)
	if err != nil {
		t.Fatalf("EvaluateScalar: %v", err)
	}
	if got != "99" {
		t.Errorf("got %q, want 99", got)
	}
}

func TestParseIntForTypeRange(t *testing.T) {
	if _, err := ParseIntForType("256", GFFByte); err == nil {
		t.Fatal("expected range error for byte value 256")
	}
	n, err := ParseIntForType("255", GFFByte)
	if err != nil {
		t.Fatalf("ParseIntForType: %v", err)
	}
	if n != 255 {
		t.Errorf("got %d, want 255", n)
	}
}

func TestParseFloatForTypeNormalizesComma(t *testing.T) {
	f, err := ParseFloatForType("1,5")
	if err != nil {
		t.Fatalf("ParseFloatForType: %v", err)
	}
	if f != 1.5 {
		t.Errorf("got %v, want 1.5", f)
	}
}
