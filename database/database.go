package database

import (
	"loanwizard-go/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.LoanApplication{},
		&models.TermsVersion{},
		&models.TermsAcceptance{},
		&models.AuditLog{},
	)
	if err != nil {
		return nil, err
	}

	// A user may hold at most one open draft. Enforced here so the
	// adapter's lookup-then-write path cannot race into duplicates.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_draft_per_user
		ON loan_applications(user_id) WHERE status = 'draft' AND deleted_at IS NULL`).Error
	if err != nil {
		return nil, err
	}

	return db, nil
}
