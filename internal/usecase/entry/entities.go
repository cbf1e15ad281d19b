package entry

import (
	"time"

	domain "verifyme-backend/internal/domain/entry"

	"github.com/google/uuid"
)

type CreateEntryInput struct {
	FormSchemaID uuid.UUID      `json:"form_schema"`
	FormData     map[string]any `json:"form_data"`
	// AllowDuplicate skips the duplicate guard after a reviewer confirmed
	// the collision is legitimate.
	AllowDuplicate bool `json:"allow_duplicate,omitempty"`
	temporary      bool
}

type UpdateEntryInput struct {
	FormData          map[string]any `json:"form_data"`
	VerificationNotes *string        `json:"verification_notes,omitempty"`
}

// FilterRequest is the advanced-filter POST body; field names mirror the
// API contract. IsOutOfTAT tolerates both bool and string values.
type FilterRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	DateRange    string `json:"date_range,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Month        int    `json:"month,omitempty"`
	Year         int    `json:"year,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	CaseType     string `json:"case_type,omitempty"`
	Status       string `json:"status,omitempty"`
	IsOutOfTAT   any    `json:"is_out_of_tat,omitempty"`
	Search       string `json:"search,omitempty"`

	BankNBFCName            string `json:"bank_nbfc_name,omitempty"`
	Location                string `json:"location,omitempty"`
	ProductType             string `json:"product_type,omitempty"`
	CaseStatus              string `json:"case_status,omitempty"`
	FieldVerifierName       string `json:"field_verifier_name,omitempty"`
	BackOfficeExecutiveName string `json:"back_office_executive_name,omitempty"`
	IsRepeatCase            string `json:"is_repeat_case,omitempty"`
}

func (f *FilterRequest) businessFilters() map[string]string {
	return map[string]string{
		"bank_nbfc_name":             f.BankNBFCName,
		"location":                   f.Location,
		"product_type":               f.ProductType,
		"case_status":                f.CaseStatus,
		"field_verifier_name":        f.FieldVerifierName,
		"back_office_executive_name": f.BackOfficeExecutiveName,
		"is_repeat_case":             f.IsRepeatCase,
	}
}

type EntryDTO struct {
	ID                uuid.UUID      `json:"id"`
	CaseID            int64          `json:"case_id"`
	Organization      uuid.UUID      `json:"organization"`
	Employee          uuid.UUID      `json:"employee"`
	FormSchema        uuid.UUID      `json:"form_schema"`
	FormData          map[string]any `json:"form_data"`
	Status            string         `json:"status"`
	IsCompleted       bool           `json:"is_completed"`
	IsVerified        bool           `json:"is_verified"`
	VerificationNotes string         `json:"verification_notes,omitempty"`
	TATStartTime      time.Time      `json:"tat_start_time"`
	TATCompletionTime *time.Time     `json:"tat_completion_time,omitempty"`
	TATDurationHours  *float64       `json:"tat_duration,omitempty"`
	IsOutOfTAT        bool           `json:"is_out_of_tat"`
	CreatedAt         time.Time      `json:"created_at"`
}

// FilterPage is the normalized advanced-filter envelope.
type FilterPage struct {
	Count    int64      `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []EntryDTO `json:"results"`
	Warnings []string   `json:"warnings,omitempty"`
}

type CountsDTO struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Verified  int `json:"verified"`
	OutOfTAT  int `json:"out_of_tat"`
}

type DuplicateGroupDTO struct {
	Key        string     `json:"key"`
	Confidence int        `json:"confidence"`
	Entries    []EntryDTO `json:"entries"`
}

func toDTO(e *domain.FormEntry, tatLimitHours int, now time.Time) EntryDTO {
	return EntryDTO{
		ID:                e.ID,
		CaseID:            e.CaseID,
		Organization:      e.OrganizationID,
		Employee:          e.EmployeeID,
		FormSchema:        e.FormSchemaID,
		FormData:          e.FormData,
		Status:            string(e.Status()),
		IsCompleted:       e.IsCompleted,
		IsVerified:        e.IsVerified,
		VerificationNotes: e.VerificationNotes,
		TATStartTime:      e.TATStartTime,
		TATCompletionTime: e.TATCompletionTime,
		TATDurationHours:  e.TATDuration(),
		IsOutOfTAT:        e.IsOutOfTAT(tatLimitHours, now),
		CreatedAt:         e.CreatedAt,
	}
}
