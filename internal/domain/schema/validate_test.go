package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmission_RequiredFieldMissing(t *testing.T) {
	f := strField("applicant_name", "Applicant Name")
	f.IsRequired = true
	s := testSchema(f)

	err := s.ValidateSubmission(map[string]any{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Applicant Name", verr.DisplayName)
}

func TestValidateSubmission_EmptyStringCountsAsMissing(t *testing.T) {
	f := strField("applicant_name", "Applicant Name")
	f.IsRequired = true
	s := testSchema(f)

	err := s.ValidateSubmission(map[string]any{"applicant_name": ""})
	require.Error(t, err)
}

func TestValidateSubmission_FalseAndZeroAreValues(t *testing.T) {
	b := FormField{Name: "is_repeat_case", DisplayName: "Repeat Case", FieldType: FieldBoolean, IsRequired: true}
	n := FormField{Name: "loan_amount", DisplayName: "Loan Amount", FieldType: FieldNumeric, IsRequired: true}
	s := testSchema(b, n)

	err := s.ValidateSubmission(map[string]any{"is_repeat_case": false, "loan_amount": 0.0})
	require.NoError(t, err)
}

func TestValidateSubmission_DeprecatedFieldNotEnforced(t *testing.T) {
	inactive := false
	f := strField("old_field", "Old Field")
	f.IsRequired = true
	f.IsActive = &inactive
	s := testSchema(f)

	require.NoError(t, s.ValidateSubmission(map[string]any{}))
}

func TestValidateSubmission_SelectOptionMembership(t *testing.T) {
	f := FormField{Name: "case_status", DisplayName: "Case Status", FieldType: FieldSelect, Options: []string{"Open", "Closed"}}
	s := testSchema(f)

	require.NoError(t, s.ValidateSubmission(map[string]any{"case_status": "Open"}))
	require.Error(t, s.ValidateSubmission(map[string]any{"case_status": "Escalated"}))
}

func TestValidateSubmission_FileFieldWantsReference(t *testing.T) {
	f := FormField{Name: "pan_card_photo", DisplayName: "PAN Card Photo", FieldType: FieldImageUpload}
	s := testSchema(f)

	require.NoError(t, s.ValidateSubmission(map[string]any{"pan_card_photo": "/media/field-files/abc.jpg"}))
	require.Error(t, s.ValidateSubmission(map[string]any{"pan_card_photo": 42}))
}

func TestUnknownFields(t *testing.T) {
	inactive := false
	dep := strField("legacy", "Legacy")
	dep.IsActive = &inactive
	s := testSchema(strField("name", "Name"), dep)

	unknown := s.UnknownFields(map[string]any{"name": "x", "legacy": "y", "ghost": "z"})
	assert.Equal(t, []string{"ghost"}, unknown)
}

func TestApplyDefaults(t *testing.T) {
	f := strField("location", "Location")
	f.DefaultValue = "HQ"
	s := testSchema(f)

	data := map[string]any{}
	s.ApplyDefaults(data)
	assert.Equal(t, "HQ", data["location"])

	data = map[string]any{"location": "Branch"}
	s.ApplyDefaults(data)
	assert.Equal(t, "Branch", data["location"])
}
