package mysql

import (
	"context"
	"time"

	entryDomain "verifyme-backend/internal/domain/entry"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EntryRepository struct{ db *gorm.DB }

func NewEntryRepository(db *gorm.DB) *EntryRepository { return &EntryRepository{db: db} }

func (r *EntryRepository) Create(ctx context.Context, e *entryDomain.FormEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EntryRepository) Save(ctx context.Context, e *entryDomain.FormEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entryDomain.FormEntry, error) {
	var out entryDomain.FormEntry
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entryDomain.FormEntry{}, "id = ?", id).Error
}

// NextCaseID includes soft-deleted rows so a case id is never reissued.
func (r *EntryRepository) NextCaseID(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var max int64
	res := r.db.WithContext(ctx).
		Model(&entryDomain.FormEntry{}).
		Unscoped().
		Where("organization_id = ?", orgID).
		Select("COALESCE(MAX(case_id), 0)").
		Scan(&max)
	return max + 1, res.Error
}

func (r *EntryRepository) ListBySchema(ctx context.Context, schemaID uuid.UUID) ([]entryDomain.FormEntry, error) {
	var out []entryDomain.FormEntry
	res := r.db.WithContext(ctx).
		Where("form_schema_id = ? AND is_temporary = ?", schemaID, false).
		Order("case_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *EntryRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]entryDomain.FormEntry, error) {
	var out []entryDomain.FormEntry
	res := r.db.WithContext(ctx).
		Where("employee_id = ? AND is_temporary = ?", employeeID, false).
		Order("created_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *EntryRepository) ExistsWithFieldValue(ctx context.Context, orgID uuid.UUID, field, value string, exclude uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).
		Model(&entryDomain.FormEntry{}).
		Where("organization_id = ? AND is_temporary = ?", orgID, false).
		Where(datatypes.JSONQuery("form_data").Equals(value, field))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	res := q.Count(&n)
	return n > 0, res.Error
}

// Find composes every filter except the out-of-TAT predicate, which needs
// schema-specific limits and is applied by the usecase over the candidates.
// Results come back ordered by case_id ascending, unpaginated.
func (r *EntryRepository) Find(ctx context.Context, f entryDomain.Filter) ([]entryDomain.FormEntry, error) {
	q := r.db.WithContext(ctx).Model(&entryDomain.FormEntry{})

	if !f.IncludeTemporary {
		q = q.Where("form_entries.is_temporary = ?", false)
	}
	if f.OrganizationID != nil {
		q = q.Where("form_entries.organization_id = ?", *f.OrganizationID)
	}
	if f.EmployeeID != nil {
		q = q.Where("form_entries.employee_id = ?", *f.EmployeeID)
	}
	if f.SchemaID != nil {
		q = q.Where("form_entries.form_schema_id = ?", *f.SchemaID)
	}

	q = applyDateFilters(q, f, time.Now().UTC())

	if f.EmployeeName != "" {
		like := "%" + f.EmployeeName + "%"
		q = q.Joins("JOIN users ON users.id = form_entries.employee_id").
			Where("users.first_name LIKE ? OR users.last_name LIKE ?", like, like)
	}
	if f.CaseType != "" {
		q = q.Joins("JOIN form_schemas ON form_schemas.id = form_entries.form_schema_id").
			Where("form_schemas.name LIKE ?", "%"+f.CaseType+"%")
	}

	switch f.Status {
	case "completed":
		q = q.Where("form_entries.is_completed = ?", true)
	case "pending":
		q = q.Where("form_entries.is_completed = ?", false)
	case "verified":
		q = q.Where("form_entries.is_verified = ?", true)
	}

	for field, value := range f.FormData {
		q = q.Where(datatypes.JSONQuery("form_data").Likes("%"+value+"%", field))
	}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Joins("JOIN users AS search_users ON search_users.id = form_entries.employee_id").
			Joins("JOIN form_schemas AS search_schemas ON search_schemas.id = form_entries.form_schema_id").
			Where(`search_users.first_name LIKE ? OR search_users.last_name LIKE ?
				OR search_users.email LIKE ? OR search_schemas.name LIKE ?
				OR form_entries.verification_notes LIKE ?
				OR CAST(form_entries.case_id AS CHAR) LIKE ?
				OR form_entries.form_data LIKE ?`,
				like, like, like, like, like, like, like)
	}

	var out []entryDomain.FormEntry
	res := q.Order("form_entries.case_id ASC").Find(&out)
	return out, res.Error
}

func applyDateFilters(q *gorm.DB, f entryDomain.Filter, now time.Time) *gorm.DB {
	switch f.DateRange {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		q = q.Where("form_entries.created_at >= ? AND form_entries.created_at < ?", start, start.AddDate(0, 0, 1))
	case "week":
		q = q.Where("form_entries.created_at >= ?", now.AddDate(0, 0, -7))
	case "month":
		q = q.Where("form_entries.created_at >= ?", now.AddDate(0, 0, -30))
	case "quarter":
		q = q.Where("form_entries.created_at >= ?", now.AddDate(0, 0, -90))
	case "year":
		q = q.Where("form_entries.created_at >= ?", now.AddDate(0, 0, -365))
	}
	if f.StartDate != nil {
		q = q.Where("form_entries.created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("form_entries.created_at <= ?", *f.EndDate)
	}
	// month/year become created_at windows so the same SQL works on both
	// mysql and the sqlite used in tests
	if f.Month >= 1 && f.Month <= 12 {
		year := f.Year
		if year == 0 {
			year = now.Year()
		}
		start := time.Date(year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("form_entries.created_at >= ? AND form_entries.created_at < ?", start, start.AddDate(0, 1, 0))
	} else if f.Year > 0 {
		start := time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("form_entries.created_at >= ? AND form_entries.created_at < ?", start, start.AddDate(1, 0, 0))
	}
	return q
}
