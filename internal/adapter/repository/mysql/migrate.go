package mysql

import (
	accountDomain "verifyme-backend/internal/domain/account"
	entryDomain "verifyme-backend/internal/domain/entry"
	schemaDomain "verifyme-backend/internal/domain/schema"

	"gorm.io/gorm"
)

// Migrate keeps the table set in sync with the models. case_id is
// unique per organization so the per-org counter in NextCaseID cannot
// silently hand out a colliding id.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&accountDomain.Organization{},
		&accountDomain.User{},
		&schemaDomain.FormSchema{},
		&entryDomain.FormEntry{},
		&entryDomain.FieldFile{},
	); err != nil {
		return err
	}
	return nil
}
