// Copyright (c) 2025 Thorium
// Binary shape (header + records + string block) adapted from the WoW
// DBC header/record/string-block layout, generalized to 2DA's named
// columns and optional row labels.

package container

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suprsokr/kotorpatcher/internal/binstream"
)

const twoDAMagic = "2DA V1.0"

// CellEmpty is the sentinel value a 2DA cell holds when unset.
const CellEmpty = "****"

// TwoDA is a row-and-column table of named cells. Every row has the same
// number of cells as there are columns; a row may optionally carry a
// label distinct from its index.
type TwoDA struct {
	Columns []string
	Labels  []string   // len(Labels) == len(Rows); "" if unset
	Rows    [][]string // Rows[r][c]
}

// NewTwoDA returns an empty table with the given columns.
func NewTwoDA(columns []string) *TwoDA {
	return &TwoDA{Columns: append([]string(nil), columns...)}
}

// ColumnIndex returns the index of column name, or -1.
func (t *TwoDA) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// RowCount returns the number of rows.
func (t *TwoDA) RowCount() int {
	return len(t.Rows)
}

// Cell returns the cell at (row, column name), or CellEmpty if the
// column doesn't exist or the row is out of range.
func (t *TwoDA) Cell(row int, column string) string {
	ci := t.ColumnIndex(column)
	if ci < 0 || row < 0 || row >= len(t.Rows) {
		return CellEmpty
	}
	return t.Rows[row][ci]
}

// SetCell overwrites the cell at (row, column name).
func (t *TwoDA) SetCell(row int, column, value string) error {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		return fmt.Errorf("container: 2DA has no column %q", column)
	}
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("container: 2DA row %d out of range", row)
	}
	t.Rows[row][ci] = value
	return nil
}

// RowIndexByLabel returns the index of the unique row whose label equals
// label, or -1 if zero or more than one row matches.
func (t *TwoDA) RowIndexByLabel(label string) int {
	found := -1
	for i, l := range t.Labels {
		if l == label {
			if found != -1 {
				return -1
			}
			found = i
		}
	}
	return found
}

// RowIndexByCell returns the index of the unique row whose cell in
// column equals value, or -1 if zero or more than one row matches.
func (t *TwoDA) RowIndexByCell(column, value string) int {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		return -1
	}
	found := -1
	for i, row := range t.Rows {
		if row[ci] == value {
			if found != -1 {
				return -1
			}
			found = i
		}
	}
	return found
}

// AppendRow appends a new row of CellEmpty cells with the given label
// (which defaults to the row's own decimal index if label == "") and
// returns its index.
func (t *TwoDA) AppendRow(label string) int {
	row := make([]string, len(t.Columns))
	for i := range row {
		row[i] = CellEmpty
	}
	t.Rows = append(t.Rows, row)
	idx := len(t.Rows) - 1
	if label == "" {
		label = strconv.Itoa(idx)
	}
	t.Labels = append(t.Labels, label)
	return idx
}

// CopyRow duplicates the row at src, appends it, and returns the new
// row's index.
func (t *TwoDA) CopyRow(src int) (int, error) {
	if src < 0 || src >= len(t.Rows) {
		return 0, fmt.Errorf("container: 2DA row %d out of range", src)
	}
	row := append([]string(nil), t.Rows[src]...)
	t.Rows = append(t.Rows, row)
	idx := len(t.Rows) - 1
	t.Labels = append(t.Labels, t.Labels[src])
	return idx, nil
}

// AddColumn appends a new column with the given default for every
// existing row.
func (t *TwoDA) AddColumn(header, defaultValue string) {
	if defaultValue == "" {
		defaultValue = CellEmpty
	}
	t.Columns = append(t.Columns, header)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], defaultValue)
	}
}

// HighInColumn returns 1 + the maximum numeric cell value in column,
// ignoring empty/non-numeric cells, or 0 if none parse.
func (t *TwoDA) HighInColumn(column string) int {
	ci := t.ColumnIndex(column)
	if ci < 0 {
		return 0
	}
	max := -1
	for _, row := range t.Rows {
		v := strings.ReplaceAll(row[ci], ",", ".")
		n, err := strconv.Atoi(strings.TrimSuffix(v, ".0"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// HighLabel returns 1 + the maximum numeric row label, ignoring
// non-numeric labels, or 0 if none parse.
func (t *TwoDA) HighLabel() int {
	max := -1
	for _, l := range t.Labels {
		n, err := strconv.Atoi(l)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

// LoadTwoDA decodes a 2DA table from bytes.
func LoadTwoDA(data []byte) (*TwoDA, error) {
	if len(data) == 0 {
		return &TwoDA{}, nil
	}
	r := binstream.NewReader(data)
	magic, err := r.ReadCString(8)
	if err != nil || magic != twoDAMagic {
		return nil, fmt.Errorf("container: not a 2DA table (bad magic %q)", magic)
	}
	colCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated 2DA header: %w", err)
	}
	rowCount, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated 2DA header: %w", err)
	}

	t := &TwoDA{Columns: make([]string, colCount)}
	for i := range t.Columns {
		s, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated 2DA column %d: %w", i, err)
		}
		t.Columns[i] = s
	}
	t.Labels = make([]string, rowCount)
	t.Rows = make([][]string, rowCount)
	for ri := 0; ri < int(rowCount); ri++ {
		label, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated 2DA row %d label: %w", ri, err)
		}
		t.Labels[ri] = label
		row := make([]string, colCount)
		for ci := range row {
			cell, err := r.ReadLengthPrefixed()
			if err != nil {
				return nil, fmt.Errorf("container: truncated 2DA cell (%d,%d): %w", ri, ci, err)
			}
			row[ci] = cell
		}
		t.Rows[ri] = row
	}
	return t, nil
}

// Save encodes the table back to bytes.
func (t *TwoDA) Save() []byte {
	w := binstream.NewWriter()
	w.WriteCString(twoDAMagic, 8)
	w.WriteUint32(uint32(len(t.Columns)))
	w.WriteUint32(uint32(len(t.Rows)))
	for _, c := range t.Columns {
		w.WriteLengthPrefixed(c)
	}
	for ri, row := range t.Rows {
		w.WriteLengthPrefixed(t.Labels[ri])
		for _, cell := range row {
			w.WriteLengthPrefixed(cell)
		}
	}
	return w.Bytes()
}
