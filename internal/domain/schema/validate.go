package schema

import "fmt"

// ValidationError reports the first field that failed submission validation.
type ValidationError struct {
	Field       string
	DisplayName string
	Reason      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.DisplayName, e.Reason)
}

// ValidateSubmission checks form data against the schema's active field
// contract before an entry is created. Every required field must hold a
// value that is neither absent, nil, nor the empty string; booleans and
// zero are acceptable values. SELECT values must be one of the field's
// options. The first violation is returned, named by display name.
func (s *FormSchema) ValidateSubmission(formData map[string]any) error {
	for _, f := range s.Fields.ActiveFields() {
		v, present := formData[f.Name]
		empty := !present || v == nil || v == ""
		if f.IsRequired && empty {
			return &ValidationError{Field: f.Name, DisplayName: f.DisplayName, Reason: "is required"}
		}
		if empty {
			continue
		}
		if f.FieldType == FieldSelect && len(f.Options) > 0 {
			sv, ok := v.(string)
			if !ok || !contains(f.Options, sv) {
				return &ValidationError{Field: f.Name, DisplayName: f.DisplayName, Reason: "must be one of the allowed options"}
			}
		}
		if f.FieldType.IsFile() {
			if _, ok := v.(string); !ok {
				return &ValidationError{Field: f.Name, DisplayName: f.DisplayName, Reason: "must be a file reference"}
			}
		}
	}
	return nil
}

// UnknownFields returns data keys that match no field, active or deprecated.
// Deprecated names stay legal so edits to historical entries still round-trip.
func (s *FormSchema) UnknownFields(formData map[string]any) []string {
	var unknown []string
	for k := range formData {
		if _, ok := s.Fields.ByName(k); !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// ApplyDefaults fills absent values from field defaults, matching what a
// rendered form would pre-populate.
func (s *FormSchema) ApplyDefaults(formData map[string]any) {
	for _, f := range s.Fields.ActiveFields() {
		if f.DefaultValue == "" {
			continue
		}
		if _, ok := formData[f.Name]; !ok {
			formData[f.Name] = f.DefaultValue
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
