// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

// RowValueKind selects a 2DA cell/store value's variant (spec §4.5
// "RowValue evaluation").
type RowValueKind int

const (
	RVConstant RowValueKind = iota
	RVMem2DA
	RVMemStr
	RVHigh
	RVRowIndex
	RVRowLabel
	RVRowCell
)

// RowValue is a 2DA cell expression: a constant, a token reference, or
// one of the row-relative computed forms.
type RowValue struct {
	Kind     RowValueKind
	Constant string
	Token    int
	Column   string // RVHigh, RVRowCell
}

// Evaluate resolves v against mem and the row currently being written
// (rowIndex may be -1 for a row not yet appended, e.g. AddRow's label
// before the row exists).
func (v RowValue) Evaluate(mem *Memory, table *container.TwoDA, rowIndex int) (string, error) {
	switch v.Kind {
	case RVConstant:
		return v.Constant, nil
	case RVMem2DA:
		return mem.Mem2DA(v.Token)
	case RVMemStr:
		n, err := mem.MemStr(v.Token)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	case RVHigh:
		if table == nil {
			return "", fmt.Errorf("high(%s) has no 2DA table in scope", v.Column)
		}
		return strconv.Itoa(table.HighInColumn(v.Column)), nil
	case RVRowIndex:
		if rowIndex < 0 {
			return "", fmt.Errorf("RowIndex referenced before row exists")
		}
		return strconv.Itoa(rowIndex), nil
	case RVRowLabel:
		if table == nil || rowIndex < 0 || rowIndex >= len(table.Labels) {
			return "", fmt.Errorf("RowLabel referenced before row exists")
		}
		return table.Labels[rowIndex], nil
	case RVRowCell:
		if table == nil || rowIndex < 0 {
			return "", fmt.Errorf("row cell %q referenced before row exists", v.Column)
		}
		return table.Cell(rowIndex, v.Column), nil
	default:
		return "", fmt.Errorf("unknown RowValue kind %d", v.Kind)
	}
}

// EvaluateInt resolves v and parses it as an integer, the form SSF and
// memStr stores require.
func (v RowValue) EvaluateInt(mem *Memory, table *container.TwoDA, rowIndex int) (int, error) {
	s, err := v.Evaluate(mem, table, rowIndex)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(normalizeDecimal(s))
}

func normalizeDecimal(s string) string {
	return strings.ReplaceAll(s, ",", ".")
}

// FieldValueKind selects a GFF field value's variant (spec §4.6).
type FieldValueKind int

const (
	FVConstant FieldValueKind = iota
	FVMem2DA
	FVMemStr
	FVLocDelta
)

// FieldValue is a GFF ModifyField/AddField value expression.
type FieldValue struct {
	Kind     FieldValueKind
	Raw      string // constant, parsed per target field type
	Token    int
	LocDelta *LocStringDelta
}

// EvaluateScalar resolves v to a string form suitable for parsing into
// the target field type (everything but LocString and Struct/List).
func (v FieldValue) EvaluateScalar(mem *Memory) (string, error) {
	switch v.Kind {
	case FVConstant:
		return v.Raw, nil
	case FVMem2DA:
		return mem.Mem2DA(v.Token)
	case FVMemStr:
		n, err := mem.MemStr(v.Token)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	default:
		return "", fmt.Errorf("field value kind %d has no scalar form", v.Kind)
	}
}

// intRangeFor returns the inclusive numeric range a GFF integer scalar
// tag permits (spec §4.6 "Numeric semantics").
func intRangeFor(t GFFFieldType) (min, max int64, ok bool) {
	switch t {
	case GFFByte, GFFChar:
		return 0, 255, true
	case GFFWord:
		return 0, 65535, true
	case GFFShort:
		return -32768, 32767, true
	case GFFDword:
		return 0, 4294967295, true
	case GFFInt:
		return -2147483648, 2147483647, true
	case GFFInt64:
		return -9223372036854775808, 9223372036854775807, true
	default:
		return 0, 0, false
	}
}

// ParseIntForType parses s as a decimal integer and enforces the
// target type's range.
func ParseIntForType(s string, t GFFFieldType) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(normalizeDecimal(s)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	if min, max, ok := intRangeFor(t); ok {
		if n < min || n > max {
			return 0, fmt.Errorf("value %d out of range [%d,%d] for field type", n, min, max)
		}
	}
	return n, nil
}

// ParseFloatForType parses s as a float, normalizing the decimal
// separator first.
func ParseFloatForType(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(normalizeDecimal(s)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float %q: %w", s, err)
	}
	return n, nil
}

// parsePipeFloats splits raw on "|" and parses exactly want components,
// the X|Y|Z / X|Y|Z|W constant syntax ModifyField uses for Position and
// Orientation fields.
func parsePipeFloats(raw string, want int) ([]float32, error) {
	parts := strings.Split(raw, "|")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d pipe-delimited components, got %d in %q", want, len(parts), raw)
	}
	out := make([]float32, want)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(normalizeDecimal(p)), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid component %q in %q: %w", p, raw, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// ParseVector3 parses an "X|Y|Z" constant into a position.
func ParseVector3(raw string) (container.Vector3, error) {
	c, err := parsePipeFloats(raw, 3)
	if err != nil {
		return container.Vector3{}, err
	}
	return container.Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// ParseVector4 parses an "X|Y|Z|W" constant into an orientation
// quaternion.
func ParseVector4(raw string) (container.Vector4, error) {
	c, err := parsePipeFloats(raw, 4)
	if err != nil {
		return container.Vector4{}, err
	}
	return container.Vector4{X: c[0], Y: c[1], Z: c[2], W: c[3]}, nil
}
