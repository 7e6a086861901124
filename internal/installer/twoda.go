// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

// ApplyTwoDA runs a 2DA patch's modifiers in order (spec §4.5).
func ApplyTwoDA(patch *TwoDAPatch, existing []byte, mem *Memory) (PatchResult, error) {
	table, err := container.LoadTwoDA(existing)
	if err != nil {
		return PatchResult{}, err
	}
	for i, m := range patch.Modifiers {
		if err := applyTwoDAModifier(table, mem, m); err != nil {
			return PatchResult{}, fmt.Errorf("2DA modifier %d: %w", i, err)
		}
	}
	return wrote(table.Save())
}

func resolveRowTarget(table *container.TwoDA, t RowTarget) (int, error) {
	switch t.Kind {
	case TargetRowIndex:
		if t.Index < 0 || t.Index >= table.RowCount() {
			return 0, fmt.Errorf("row index %d out of range", t.Index)
		}
		return t.Index, nil
	case TargetRowLabel:
		idx := table.RowIndexByLabel(t.Label)
		if idx < 0 {
			return 0, fmt.Errorf("row label %q does not resolve to exactly one row", t.Label)
		}
		return idx, nil
	case TargetLabelColumn:
		idx := table.RowIndexByCell(t.Column, t.Value)
		if idx < 0 {
			return 0, fmt.Errorf("cell %s=%q does not resolve to exactly one row", t.Column, t.Value)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("unknown row target kind %d", t.Kind)
	}
}

func applyCells(table *container.TwoDA, mem *Memory, row int, cells map[string]RowValue) error {
	for col, rv := range cells {
		v, err := rv.Evaluate(mem, table, row)
		if err != nil {
			return fmt.Errorf("cell %s: %w", col, err)
		}
		if err := table.SetCell(row, col, v); err != nil {
			return err
		}
	}
	return nil
}

func applyStores(table *container.TwoDA, mem *Memory, row int, store2DA, storeTLK map[int]RowValue) error {
	for token, rv := range store2DA {
		v, err := rv.Evaluate(mem, table, row)
		if err != nil {
			return fmt.Errorf("store_2da token %d: %w", token, err)
		}
		mem.SetMem2DA(token, v)
	}
	for token, rv := range storeTLK {
		n, err := rv.EvaluateInt(mem, table, row)
		if err != nil {
			return fmt.Errorf("store_tlk token %d: %w", token, err)
		}
		mem.SetMemStr(token, n)
	}
	return nil
}

func applyTwoDAModifier(table *container.TwoDA, mem *Memory, m TwoDAModifier) error {
	switch m.Kind {
	case ModChangeRow:
		row, err := resolveRowTarget(table, m.Target)
		if err != nil {
			return err
		}
		if err := applyCells(table, mem, row, m.Cells); err != nil {
			return err
		}
		return applyStores(table, mem, row, m.Store2DA, m.StoreTLK)

	case ModAddRow:
		row, collapsed := exclusiveCollapseTarget(table, mem, m.ExclusiveColumn, m.Cells)
		if !collapsed {
			row = table.AppendRow(m.RowLabel)
		}
		if err := applyCells(table, mem, row, m.Cells); err != nil {
			return err
		}
		return applyStores(table, mem, row, m.Store2DA, m.StoreTLK)

	case ModCopyRow:
		src, err := resolveRowTarget(table, m.Target)
		if err != nil {
			return err
		}
		row, collapsed := exclusiveCollapseTarget(table, mem, m.ExclusiveColumn, m.Cells)
		if !collapsed {
			row, err = table.CopyRow(src)
			if err != nil {
				return err
			}
			if m.RowLabel != "" {
				table.Labels[row] = m.RowLabel
			}
		}
		if err := applyCells(table, mem, row, m.Cells); err != nil {
			return err
		}
		return applyStores(table, mem, row, m.Store2DA, m.StoreTLK)

	case ModAddColumn:
		def := m.DefaultValue
		if def == container.CellEmpty {
			def = ""
		}
		table.AddColumn(m.Header, def)
		for idx, rv := range m.IndexInsert {
			v, err := rv.Evaluate(mem, table, idx)
			if err != nil {
				return fmt.Errorf("index_insert[%d]: %w", idx, err)
			}
			if err := table.SetCell(idx, m.Header, v); err != nil {
				return err
			}
		}
		for label, rv := range m.LabelInsert {
			row := table.RowIndexByLabel(label)
			if row < 0 {
				return fmt.Errorf("label_insert[%q]: no such row", label)
			}
			v, err := rv.Evaluate(mem, table, row)
			if err != nil {
				return fmt.Errorf("label_insert[%q]: %w", label, err)
			}
			if err := table.SetCell(row, m.Header, v); err != nil {
				return err
			}
		}
		return applyStores(table, mem, table.RowCount()-1, m.Store2DA, m.StoreTLK)

	default:
		return fmt.Errorf("unknown 2DA modifier kind %d", m.Kind)
	}
}

// exclusiveCollapseTarget implements the AddRow/CopyRow exclusive_column
// rule: if set and an existing row already carries the incoming value
// for that column, the modifier behaves as ChangeRow against that row
// instead of appending/copying a new one.
func exclusiveCollapseTarget(table *container.TwoDA, mem *Memory, exclusiveColumn string, cells map[string]RowValue) (int, bool) {
	if exclusiveColumn == "" {
		return 0, false
	}
	rv, ok := cells[exclusiveColumn]
	if !ok {
		return 0, false
	}
	v, err := rv.Evaluate(mem, table, -1)
	if err != nil {
		return 0, false
	}
	row := table.RowIndexByCell(exclusiveColumn, v)
	if row < 0 {
		return 0, false
	}
	return row, true
}
