package schema

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("form schema not found")
	ErrVersionConflict = errors.New("schema version conflict")
	ErrUnknownField    = errors.New("unknown field name")
	ErrDuplicateField  = errors.New("field name already exists")
	ErrMaxFields       = errors.New("max fields exceeded")
)

type FieldType string

const (
	FieldNumeric             FieldType = "NUMERIC"
	FieldString              FieldType = "STRING"
	FieldAlphanumeric        FieldType = "ALPHANUMERIC"
	FieldSymbolsAlphanumeric FieldType = "SYMBOLS_ALPHANUMERIC"
	FieldBoolean             FieldType = "BOOLEAN"
	FieldDate                FieldType = "DATE"
	FieldEmail               FieldType = "EMAIL"
	FieldPhone               FieldType = "PHONE"
	FieldSelect              FieldType = "SELECT"
	FieldImageUpload         FieldType = "IMAGE_UPLOAD"
	FieldDocumentUpload      FieldType = "DOCUMENT_UPLOAD"
)

var fieldTypes = map[FieldType]bool{
	FieldNumeric: true, FieldString: true, FieldAlphanumeric: true,
	FieldSymbolsAlphanumeric: true, FieldBoolean: true, FieldDate: true,
	FieldEmail: true, FieldPhone: true, FieldSelect: true,
	FieldImageUpload: true, FieldDocumentUpload: true,
}

func (t FieldType) Valid() bool { return fieldTypes[t] }

// IsFile reports whether values of this type are file references (URL/identifier).
func (t FieldType) IsFile() bool {
	return t == FieldImageUpload || t == FieldDocumentUpload
}

// FormField is one field definition inside a schema's fields list.
// Name is immutable once persisted; a rename is modeled as deprecate+add.
// IsActive is a pointer: an absent value counts as active.
type FormField struct {
	Name            string         `json:"name"`
	DisplayName     string         `json:"display_name"`
	FieldType       FieldType      `json:"field_type"`
	IsRequired      bool           `json:"is_required"`
	IsUnique        bool           `json:"is_unique"`
	IsActive        *bool          `json:"is_active,omitempty"`
	DefaultValue    string         `json:"default_value,omitempty"`
	HelpText        string         `json:"help_text,omitempty"`
	ValidationRules map[string]any `json:"validation_rules,omitempty"`
	Options         []string       `json:"options,omitempty"`
	Order           int            `json:"order"`
}

func (f FormField) Active() bool { return f.IsActive == nil || *f.IsActive }

// FieldList is stored as a JSON column.
type FieldList []FormField

func (l FieldList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *FieldList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("fieldlist: cannot scan %T", src)
	}
}

// Active returns the active fields in list order.
func (l FieldList) ActiveFields() FieldList {
	out := make(FieldList, 0, len(l))
	for _, f := range l {
		if f.Active() {
			out = append(out, f)
		}
	}
	return out
}

func (l FieldList) ByName(name string) (FormField, bool) {
	for _, f := range l {
		if f.Name == name {
			return f, true
		}
	}
	return FormField{}, false
}

const (
	DefaultMaxFields     = 120
	DefaultTATHoursLimit = 24
)

// FormSchema is a versioned ordered collection of fields plus metadata.
// Mutations go through ApplyOperations keyed to an expected version.
type FormSchema struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string    `gorm:"size:255;uniqueIndex:ux_schemas_org_name" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	OrganizationID uuid.UUID `gorm:"type:char(36);uniqueIndex:ux_schemas_org_name;index:idx_schemas_org_active" json:"organization"`
	Fields         FieldList `gorm:"type:json" json:"fields_definition"`
	MaxFields      int       `gorm:"default:120" json:"max_fields"`
	TATHoursLimit  int       `gorm:"default:24" json:"tat_hours_limit"`
	// no default tag: gorm omits zero-valued fields carrying one on insert.
	IsActive    bool           `gorm:"index:idx_schemas_org_active" json:"is_active"`
	Version     int            `gorm:"default:1" json:"version"`
	CreatedByID *uuid.UUID     `gorm:"type:char(36)" json:"created_by,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FormSchema) TableName() string { return "form_schemas" }

func (s *FormSchema) FieldsCount() int { return len(s.Fields) }
