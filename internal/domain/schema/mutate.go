package schema

import (
	"fmt"
	"sort"
)

// ApplyOperations mutates the schema with the given operation list, keyed to
// the version the caller last read. A stale expectedVersion fails with
// ErrVersionConflict before anything is touched; the version increments once
// per successful call.
//
// Deprecated fields are never removed from the list: their data stays
// queryable on existing entries, they are only hidden from new entry forms.
func (s *FormSchema) ApplyOperations(expectedVersion int, ops []Operation) error {
	if expectedVersion != s.Version {
		return fmt.Errorf("%w: expected %d, have %d", ErrVersionConflict, expectedVersion, s.Version)
	}

	for _, op := range ops {
		var err error
		switch op.Op {
		case OpAdd:
			err = s.applyAdd(op)
		case OpDeprecate:
			err = s.applyDeprecate(op)
		case OpReorder:
			err = s.applyReorder(op)
		case OpUpdate:
			err = s.applyUpdate(op)
		default:
			err = fmt.Errorf("unsupported operation %q", op.Op)
		}
		if err != nil {
			return err
		}
	}

	s.Version++
	return nil
}

func (s *FormSchema) applyAdd(op Operation) error {
	if op.Field == nil || op.Field.Name == "" {
		return fmt.Errorf("add: missing field")
	}
	if !op.Field.FieldType.Valid() {
		return fmt.Errorf("add %q: invalid field type %q", op.Field.Name, op.Field.FieldType)
	}
	for _, f := range s.Fields {
		if f.Name == op.Field.Name && f.Active() {
			return fmt.Errorf("add %q: %w", op.Field.Name, ErrDuplicateField)
		}
	}
	if s.MaxFields > 0 && len(s.Fields) >= s.MaxFields {
		return fmt.Errorf("add %q: %w (%d)", op.Field.Name, ErrMaxFields, s.MaxFields)
	}
	field := *op.Field
	field.Order = len(s.Fields)
	s.Fields = append(s.Fields, field)
	return nil
}

func (s *FormSchema) applyDeprecate(op Operation) error {
	for i := range s.Fields {
		if s.Fields[i].Name == op.Name {
			inactive := false
			s.Fields[i].IsActive = &inactive
			return nil
		}
	}
	return fmt.Errorf("deprecate %q: %w", op.Name, ErrUnknownField)
}

func (s *FormSchema) applyReorder(op Operation) error {
	idx := make(map[string]int, len(s.Fields))
	for i, f := range s.Fields {
		idx[f.Name] = i
	}
	for pos, name := range op.Order {
		i, ok := idx[name]
		if !ok {
			return fmt.Errorf("reorder %q: %w", name, ErrUnknownField)
		}
		s.Fields[i].Order = pos
	}
	sort.SliceStable(s.Fields, func(i, j int) bool {
		return s.Fields[i].Order < s.Fields[j].Order
	})
	return nil
}

func (s *FormSchema) applyUpdate(op Operation) error {
	for i := range s.Fields {
		if s.Fields[i].Name != op.Name {
			continue
		}
		return applyChanges(&s.Fields[i], op.Changes)
	}
	return fmt.Errorf("update %q: %w", op.Name, ErrUnknownField)
}

// applyChanges writes tracked properties from a decoded JSON changes map.
// Unknown keys are ignored so newer clients stay compatible.
func applyChanges(f *FormField, changes map[string]any) error {
	for key, raw := range changes {
		switch key {
		case "display_name":
			v, ok := raw.(string)
			if !ok {
				return fmt.Errorf("update %q: display_name must be a string", f.Name)
			}
			f.DisplayName = v
		case "field_type":
			v, ok := raw.(string)
			if !ok || !FieldType(v).Valid() {
				return fmt.Errorf("update %q: invalid field type %v", f.Name, raw)
			}
			f.FieldType = FieldType(v)
		case "is_required":
			v, ok := raw.(bool)
			if !ok {
				return fmt.Errorf("update %q: is_required must be a boolean", f.Name)
			}
			f.IsRequired = v
		case "is_unique":
			v, ok := raw.(bool)
			if !ok {
				return fmt.Errorf("update %q: is_unique must be a boolean", f.Name)
			}
			f.IsUnique = v
		case "is_active":
			switch v := raw.(type) {
			case bool:
				b := v
				f.IsActive = &b
			case nil:
				f.IsActive = nil
			default:
				return fmt.Errorf("update %q: is_active must be a boolean", f.Name)
			}
		case "default_value":
			v, ok := raw.(string)
			if !ok {
				return fmt.Errorf("update %q: default_value must be a string", f.Name)
			}
			f.DefaultValue = v
		case "help_text":
			v, ok := raw.(string)
			if !ok {
				return fmt.Errorf("update %q: help_text must be a string", f.Name)
			}
			f.HelpText = v
		case "validation_rules":
			switch v := raw.(type) {
			case map[string]any:
				f.ValidationRules = v // opaque, passed through unmodified
			case nil:
				f.ValidationRules = nil
			default:
				return fmt.Errorf("update %q: validation_rules must be an object", f.Name)
			}
		}
	}
	return nil
}
