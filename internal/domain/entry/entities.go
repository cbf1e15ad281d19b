package entry

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("form entry not found")
	ErrDuplicateEntry = errors.New("potential duplicate entry detected")
	ErrUniqueField    = errors.New("unique field value already used")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusVerified  Status = "verified"
)

// FormEntry is one submission against a schema's field contract.
// CaseID auto-increments per organization and is assigned on create.
type FormEntry struct {
	ID                uuid.UUID         `gorm:"type:char(36);primaryKey" json:"id"`
	CaseID            int64             `gorm:"uniqueIndex:ux_entries_org_case" json:"case_id"`
	OrganizationID    uuid.UUID         `gorm:"type:char(36);uniqueIndex:ux_entries_org_case;index:idx_entries_org_employee" json:"organization"`
	EmployeeID        uuid.UUID         `gorm:"type:char(36);index:idx_entries_org_employee" json:"employee"`
	FormSchemaID      uuid.UUID         `gorm:"type:char(36);index" json:"form_schema"`
	FormData          datatypes.JSONMap `gorm:"type:json" json:"form_data"`
	IsCompleted       bool              `gorm:"default:false;index" json:"is_completed"`
	IsVerified        bool              `gorm:"default:false" json:"is_verified"`
	VerificationNotes string            `gorm:"type:text" json:"verification_notes"`
	IsTemporary       bool              `gorm:"default:false;index" json:"is_temporary"`
	TATStartTime      time.Time         `gorm:"autoCreateTime" json:"tat_start_time"`
	TATCompletionTime *time.Time        `json:"tat_completion_time,omitempty"`
	VerifiedByID      *uuid.UUID        `gorm:"type:char(36)" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time        `json:"verified_at,omitempty"`
	CreatedAt         time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (FormEntry) TableName() string { return "form_entries" }

func (e *FormEntry) Status() Status {
	switch {
	case e.IsVerified:
		return StatusVerified
	case e.IsCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// TATDuration returns elapsed hours between start and completion, or nil
// while the entry is still open.
func (e *FormEntry) TATDuration() *float64 {
	if e.TATCompletionTime == nil {
		return nil
	}
	h := e.TATCompletionTime.Sub(e.TATStartTime).Hours()
	return &h
}

// IsOutOfTAT reports whether the entry exceeded the schema's TAT limit.
// Open entries are measured against now, completed ones against their
// completion time.
func (e *FormEntry) IsOutOfTAT(limitHours int, now time.Time) bool {
	end := now
	if e.TATCompletionTime != nil {
		end = *e.TATCompletionTime
	}
	return end.Sub(e.TATStartTime).Hours() > float64(limitHours)
}

func (e *FormEntry) MarkCompleted(now time.Time) {
	e.IsCompleted = true
	t := now.UTC()
	e.TATCompletionTime = &t
}

func (e *FormEntry) MarkVerified(by uuid.UUID, notes string, now time.Time) {
	e.IsVerified = true
	e.VerifiedByID = &by
	t := now.UTC()
	e.VerifiedAt = &t
	if notes != "" {
		e.VerificationNotes = notes
	}
}

// FieldFile is an uploaded file tied to (form_entry, field_name).
// Temporary rows anchor uploads before the real entry exists.
type FieldFile struct {
	ID               uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	FormEntryID      uuid.UUID      `gorm:"type:char(36);index" json:"form_entry"`
	FieldName        string         `gorm:"size:100" json:"field_name"`
	StoredPath       string         `gorm:"size:500" json:"-"`
	FileURL          string         `gorm:"size:500" json:"file_url"`
	OriginalFilename string         `gorm:"size:255" json:"original_filename"`
	FileType         string         `gorm:"size:100" json:"file_type"`
	FileSize         int64          `json:"file_size"`
	Description      string         `gorm:"size:255" json:"description"`
	IsTemporary      bool           `json:"is_temporary"`
	UploadedByID     uuid.UUID      `gorm:"type:char(36)" json:"uploaded_by"`
	UploadedAt       time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FieldFile) TableName() string { return "form_field_files" }
