package schema

import (
	"time"

	domain "verifyme-backend/internal/domain/schema"

	"github.com/google/uuid"
)

type CreateSchemaInput struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Fields        []domain.FormField `json:"fields_definition"`
	MaxFields     int                `json:"max_fields"`
	TATHoursLimit int                `json:"tat_hours_limit"`
}

// MutateInput carries the optimistic-concurrency mutation request: the
// version the client last read plus the operation list from the diff
// engine.
type MutateInput struct {
	ExpectedVersion int                `json:"expected_version"`
	Operations      []domain.Operation `json:"operations"`
}

type SchemaDTO struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Organization  uuid.UUID        `json:"organization"`
	Fields        domain.FieldList `json:"fields_definition"`
	MaxFields     int              `json:"max_fields"`
	TATHoursLimit int              `json:"tat_hours_limit"`
	IsActive      bool             `json:"is_active"`
	Version       int              `json:"version"`
	FieldsCount   int              `json:"fields_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toDTO(s *domain.FormSchema) *SchemaDTO {
	return &SchemaDTO{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Organization:  s.OrganizationID,
		Fields:        s.Fields,
		MaxFields:     s.MaxFields,
		TATHoursLimit: s.TATHoursLimit,
		IsActive:      s.IsActive,
		Version:       s.Version,
		FieldsCount:   s.FieldsCount(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
