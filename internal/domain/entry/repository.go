package entry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter is the advanced-filter request shape. Zero values mean "not set";
// pointers distinguish false/empty from absent where that matters.
type Filter struct {
	OrganizationID *uuid.UUID
	EmployeeID     *uuid.UUID
	SchemaID       *uuid.UUID

	DateRange    string // today|week|month|quarter|year
	StartDate    *time.Time
	EndDate      *time.Time
	Month        int
	Year         int
	EmployeeName string
	CaseType     string // schema name contains
	Status       string // pending|completed|verified
	OutOfTAT     *bool
	Search       string

	// form_data business filters, validated against schema fields upstream
	FormData map[string]string

	IncludeTemporary bool

	Page     int
	PageSize int
}

// Page is the normalized list envelope: results plus total count, never a
// bare array.
type Page struct {
	Count   int64       `json:"count"`
	Results []FormEntry `json:"results"`
}

type Repository interface {
	Create(ctx context.Context, e *FormEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*FormEntry, error)
	Save(ctx context.Context, e *FormEntry) error
	Delete(ctx context.Context, id uuid.UUID) error

	// NextCaseID returns MAX(case_id)+1 within the organization. Callers
	// run it inside a transaction so concurrent submissions cannot race.
	NextCaseID(ctx context.Context, orgID uuid.UUID) (int64, error)

	// Find applies everything except the TAT predicate, which needs
	// schema-specific limits and is computed by the caller over the
	// candidate set.
	Find(ctx context.Context, f Filter) ([]FormEntry, error)
	ListBySchema(ctx context.Context, schemaID uuid.UUID) ([]FormEntry, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]FormEntry, error)
	// ExistsWithFieldValue backs is_unique enforcement: does any
	// non-temporary entry in the org carry value under field name?
	ExistsWithFieldValue(ctx context.Context, orgID uuid.UUID, field, value string, exclude uuid.UUID) (bool, error)
}

type FileRepository interface {
	Create(ctx context.Context, f *FieldFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*FieldFile, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]FieldFile, error)
	// Claim re-points temporary files at the real entry once it exists.
	Claim(ctx context.Context, fromEntry, toEntry uuid.UUID) error
	DeleteByEntry(ctx context.Context, entryID uuid.UUID) error
}
