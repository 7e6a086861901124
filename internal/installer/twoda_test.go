// Copyright (c) 2025 Thorium

package installer

import (
	"testing"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

func baseTwoDA(t *testing.T) []byte {
	t.Helper()
	table := container.NewTwoDA([]string{"label", "cost"})
	table.AppendRow("sword")
	table.SetCell(0, "label", "sword")
	table.SetCell(0, "cost", "10")
	return table.Save()
}

func TestApplyTwoDAChangeRow(t *testing.T) {
	data := baseTwoDA(t)
	patch := &TwoDAPatch{Modifiers: []TwoDAModifier{
		{
			Kind:   ModChangeRow,
			Target: RowTarget{Kind: TargetRowIndex, Index: 0},
			Cells:  map[string]RowValue{"cost": {Kind: RVConstant, Constant: "20"}},
		},
	}}
	result, err := ApplyTwoDA(patch, data, NewMemory())
	if err != nil {
		t.Fatalf("ApplyTwoDA: %v", err)
	}
	table, err := container.LoadTwoDA(result.Data)
	if err != nil {
		t.Fatalf("LoadTwoDA: %v", err)
	}
	if table.Cell(0, "cost") != "20" {
		t.Errorf("cost = %q, want 20", table.Cell(0, "cost"))
	}
}

func TestApplyTwoDAAddRowWithExclusiveColumnCollapse(t *testing.T) {
	data := baseTwoDA(t)
	patch := &TwoDAPatch{Modifiers: []TwoDAModifier{
		{
			Kind:            ModAddRow,
			ExclusiveColumn: "label",
			RowLabel:        "sword",
			Cells: map[string]RowValue{
				"label": {Kind: RVConstant, Constant: "sword"},
				"cost":  {Kind: RVConstant, Constant: "99"},
			},
		},
	}}
	result, err := ApplyTwoDA(patch, data, NewMemory())
	if err != nil {
		t.Fatalf("ApplyTwoDA: %v", err)
	}
	table, err := container.LoadTwoDA(result.Data)
	if err != nil {
		t.Fatalf("LoadTwoDA: %v", err)
	}
	if table.RowCount() != 1 {
		t.Fatalf("RowCount = %d, want 1 (exclusive column should collapse into existing row)", table.RowCount())
	}
	if table.Cell(0, "cost") != "99" {
		t.Errorf("cost = %q, want 99", table.Cell(0, "cost"))
	}
}

func TestApplyTwoDAAddColumn(t *testing.T) {
	data := baseTwoDA(t)
	patch := &TwoDAPatch{Modifiers: []TwoDAModifier{
		{
			Kind:         ModAddColumn,
			Header:       "weight",
			DefaultValue: "1",
		},
	}}
	result, err := ApplyTwoDA(patch, data, NewMemory())
	if err != nil {
		t.Fatalf("ApplyTwoDA: %v", err)
	}
	table, err := container.LoadTwoDA(result.Data)
	if err != nil {
		t.Fatalf("LoadTwoDA: %v", err)
	}
	if table.Cell(0, "weight") != "1" {
		t.Errorf("weight = %q, want 1", table.Cell(0, "weight"))
	}
}

func TestApplyTwoDAStoreToMemory(t *testing.T) {
	data := baseTwoDA(t)
	mem := NewMemory()
	patch := &TwoDAPatch{Modifiers: []TwoDAModifier{
		{
			Kind:     ModChangeRow,
			Target:   RowTarget{Kind: TargetRowIndex, Index: 0},
			Cells:    map[string]RowValue{},
			Store2DA: map[int]RowValue{0: {Kind: RVRowLabel}},
		},
	}}
	if _, err := ApplyTwoDA(patch, data, mem); err != nil {
		t.Fatalf("ApplyTwoDA: %v", err)
	}
	v, err := mem.Mem2DA(0)
	if err != nil {
		t.Fatalf("Mem2DA(0): %v", err)
	}
	if v != "sword" {
		t.Errorf("Mem2DA(0) = %q, want sword", v)
	}
}
