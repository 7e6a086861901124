// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"

	"github.com/suprsokr/kotorpatcher/internal/container"
)

// ApplyGFF runs a GFF patch's modifiers in order (spec §4.6).
func ApplyGFF(patch *GFFPatch, existing []byte, mem *Memory) (PatchResult, error) {
	tree, err := container.LoadGFF(existing)
	if err != nil {
		return PatchResult{}, err
	}
	for i, m := range patch.Modifiers {
		if err := applyGFFModifier(tree, tree.Root, mem, m); err != nil {
			return PatchResult{}, fmt.Errorf("gff modifier %d: %w", i, err)
		}
	}
	return wrote(tree.Save())
}

// applyGFFModifier applies m with paths resolved relative to root
// (the tree's root for a top-level modifier, or a freshly inserted
// struct for a nested one).
func applyGFFModifier(tree *container.Tree, root *container.Struct, mem *Memory, m GFFModifier) error {
	switch m.Kind {
	case GFFModifyField:
		return applyModifyField(root, mem, m)
	case GFFAddField:
		return applyAddField(tree, root, mem, m)
	default:
		return fmt.Errorf("unknown gff modifier kind %d", m.Kind)
	}
}

func applyModifyField(root *container.Struct, mem *Memory, m GFFModifier) error {
	field, err := container.ResolveFrom(root, m.Path)
	if err != nil {
		return err
	}
	return writeFieldValue(field, mem, m.Value)
}

func writeFieldValue(field *container.Field, mem *Memory, value FieldValue) error {
	if value.Kind == FVLocDelta {
		if field.Type != container.FieldLocString {
			return fmt.Errorf("localized string delta applied to non-locstring field %q", field.Label)
		}
		return applyLocDelta(field, value.LocDelta)
	}

	raw, err := value.EvaluateScalar(mem)
	if err != nil {
		return err
	}
	return writeScalar(field, raw)
}

func applyLocDelta(field *container.Field, delta *LocStringDelta) error {
	if field.Loc == nil {
		field.Loc = container.NewLocString()
	}
	if delta.StringRef != nil {
		field.Loc.StringRef = *delta.StringRef
	}
	for key, s := range delta.Substrings {
		field.Loc.Strings[key] = s
	}
	return nil
}

func writeScalar(field *container.Field, raw string) error {
	gt, err := gffTypeFromContainer(field.Type)
	if err != nil {
		return err
	}
	switch field.Type {
	case container.FieldByte, container.FieldChar, container.FieldWord, container.FieldShort,
		container.FieldDword, container.FieldInt, container.FieldDword64, container.FieldInt64:
		n, err := ParseIntForType(raw, gt)
		if err != nil {
			return fmt.Errorf("field %q: %w", field.Label, err)
		}
		field.Int = n
	case container.FieldFloat, container.FieldDouble:
		f, err := ParseFloatForType(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", field.Label, err)
		}
		field.Float = f
	case container.FieldString, container.FieldResRef:
		field.Str = raw
	case container.FieldVector:
		v, err := ParseVector3(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", field.Label, err)
		}
		field.Vector3 = v
	case container.FieldOrientation:
		v, err := ParseVector4(raw)
		if err != nil {
			return fmt.Errorf("field %q: %w", field.Label, err)
		}
		field.Vector4 = v
	default:
		return fmt.Errorf("field %q: type mismatch, cannot assign scalar to type %d", field.Label, field.Type)
	}
	return nil
}

func gffTypeFromContainer(t container.FieldType) (GFFFieldType, error) {
	switch t {
	case container.FieldByte:
		return GFFByte, nil
	case container.FieldChar:
		return GFFChar, nil
	case container.FieldWord:
		return GFFWord, nil
	case container.FieldShort:
		return GFFShort, nil
	case container.FieldDword:
		return GFFDword, nil
	case container.FieldInt:
		return GFFInt, nil
	case container.FieldDword64, container.FieldInt64:
		return GFFInt64, nil
	default:
		return 0, nil
	}
}

func containerTypeFromGFF(t GFFFieldType) container.FieldType {
	switch t {
	case GFFByte:
		return container.FieldByte
	case GFFChar:
		return container.FieldChar
	case GFFWord:
		return container.FieldWord
	case GFFShort:
		return container.FieldShort
	case GFFDword:
		return container.FieldDword
	case GFFInt:
		return container.FieldInt
	case GFFInt64:
		return container.FieldInt64
	case GFFFloat:
		return container.FieldFloat
	case GFFDouble:
		return container.FieldDouble
	case GFFString:
		return container.FieldString
	case GFFResRef:
		return container.FieldResRef
	case GFFLocString:
		return container.FieldLocString
	case GFFVector:
		return container.FieldVector
	case GFFOrientation:
		return container.FieldOrientation
	case GFFStruct:
		return container.FieldStruct
	case GFFList:
		return container.FieldList
	default:
		return container.FieldVoid
	}
}

// newDefaultField constructs a field of the given type with its
// zero-value default (spec §4.6 "Construct the new field ... defaults
// per type").
func newDefaultField(label string, t GFFFieldType, structID uint32) *container.Field {
	f := &container.Field{Type: containerTypeFromGFF(t), Label: label}
	switch t {
	case GFFString, GFFResRef:
		f.Str = ""
	case GFFLocString:
		f.Loc = &container.LocString{StringRef: -1, Strings: map[int32]string{}}
	case GFFList:
		f.List = nil
	case GFFStruct:
		f.Struct = container.NewStruct(structID)
	}
	return f
}

func applyAddField(tree *container.Tree, root *container.Struct, mem *Memory, m GFFModifier) error {
	var parentStruct *container.Struct
	var parentListField *container.Field

	if m.ParentPath == "" {
		parentStruct = root
	} else {
		f, err := container.ResolveFrom(root, m.ParentPath)
		if err != nil {
			return err
		}
		switch f.Type {
		case container.FieldStruct:
			parentStruct = f.Struct
		case container.FieldList:
			parentListField = f
		default:
			return fmt.Errorf("AddField parent %q is neither struct nor list", m.ParentPath)
		}
	}

	var newNodeStruct *container.Struct

	if parentListField != nil {
		if m.FieldType != GFFStruct {
			return fmt.Errorf("AddField into a list requires field type Struct, got %d", m.FieldType)
		}
		s := container.NewStruct(structIDFromValue(m.Value))
		parentListField.List = append(parentListField.List, s)
		idx := len(parentListField.List) - 1
		if m.IndexInListToken != nil {
			mem.SetMem2DA(*m.IndexInListToken, fmt.Sprintf("%d", idx))
		}
		newNodeStruct = s
	} else {
		field := newDefaultField(m.Label, m.FieldType, structIDFromValue(m.Value))
		if m.FieldType != GFFStruct && m.FieldType != GFFList {
			if err := writeFieldValue(field, mem, m.Value); err != nil {
				return err
			}
		}
		parentStruct.Set(field)
		if field.Type == container.FieldStruct {
			newNodeStruct = field.Struct
		}
	}

	for i, nested := range m.Nested {
		nestedRoot := root
		if newNodeStruct != nil {
			nestedRoot = newNodeStruct
		}
		if err := applyGFFModifier(tree, nestedRoot, mem, nested); err != nil {
			return fmt.Errorf("nested modifier %d: %w", i, err)
		}
	}
	return nil
}

// structIDFromValue recovers the struct_id an AddField of type Struct
// carries in its Value.Raw (the parser stashes it there; a plain
// numeric field's Value is interpreted normally).
func structIDFromValue(v FieldValue) uint32 {
	if v.Kind != FVConstant || v.Raw == "" {
		return 0
	}
	var id uint32
	fmt.Sscanf(v.Raw, "%d", &id)
	return id
}
