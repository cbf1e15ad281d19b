package schema

import "encoding/json"

type OpKind string

const (
	OpAdd       OpKind = "add"
	OpDeprecate OpKind = "deprecate"
	OpReorder   OpKind = "reorder"
	OpUpdate    OpKind = "update"
)

// Operation is one schema mutation. Exactly one payload is set per kind:
// add carries Field, deprecate carries Name, reorder carries Order,
// update carries Name plus the changed properties.
type Operation struct {
	Op      OpKind         `json:"op"`
	Field   *FormField     `json:"field,omitempty"`
	Name    string         `json:"name,omitempty"`
	Order   []string       `json:"order,omitempty"`
	Changes map[string]any `json:"changes,omitempty"`
}

// trackedProps are the field properties compared for update operations.
// Order is deliberately absent: position changes are captured by the
// single reorder operation instead.
var trackedProps = []string{
	"display_name", "field_type", "is_required", "is_unique",
	"default_value", "help_text", "validation_rules", "is_active",
}

func trackedValue(f FormField, prop string) any {
	switch prop {
	case "display_name":
		return f.DisplayName
	case "field_type":
		return f.FieldType
	case "is_required":
		return f.IsRequired
	case "is_unique":
		return f.IsUnique
	case "default_value":
		return f.DefaultValue
	case "help_text":
		return f.HelpText
	case "validation_rules":
		return f.ValidationRules
	case "is_active":
		return f.IsActive
	}
	return nil
}

// sameValue compares by serialized form, so maps and pointers are compared
// structurally rather than by reference.
func sameValue(a, b any) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}

func byName(fields []FormField) map[string]FormField {
	m := make(map[string]FormField, len(fields))
	for _, f := range fields {
		m[f.Name] = f // duplicate names: last one wins
	}
	return m
}

// Diff computes the mutation operations turning original into edited.
//
// Operations are appended in a fixed sequence the backend relies on when
// applying them transactionally: adds (edited order), deprecates (original
// order), one reorder of the active edited names, then updates (edited
// order). The reorder is unconditional on any other change: a pure move
// still produces it. Diff is pure and never fails; malformed input such as
// duplicate names within edited degrades to last-one-wins.
func Diff(original, edited []FormField) []Operation {
	origByName := byName(original)
	editByName := byName(edited)

	var ops []Operation

	for _, f := range edited {
		if _, ok := origByName[f.Name]; !ok {
			field := f
			ops = append(ops, Operation{Op: OpAdd, Field: &field})
		}
	}

	for _, f := range original {
		if _, ok := editByName[f.Name]; !ok {
			ops = append(ops, Operation{Op: OpDeprecate, Name: f.Name})
		}
	}

	order := make([]string, 0, len(edited))
	for _, f := range edited {
		if f.Active() {
			order = append(order, f.Name)
		}
	}
	if len(order) > 0 {
		ops = append(ops, Operation{Op: OpReorder, Order: order})
	}

	for _, f := range edited {
		prev, ok := origByName[f.Name]
		if !ok {
			continue
		}
		changes := map[string]any{}
		for _, prop := range trackedProps {
			if !sameValue(trackedValue(prev, prop), trackedValue(f, prop)) {
				changes[prop] = trackedValue(f, prop)
			}
		}
		if len(changes) > 0 {
			ops = append(ops, Operation{Op: OpUpdate, Name: f.Name, Changes: changes})
		}
	}

	return ops
}
