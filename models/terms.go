package models

import (
	"time"

	"gorm.io/gorm"
)

// TermsVersion is a published revision of the terms and conditions.
// Versions are immutable once published; "current" means the most
// recent effective date.
type TermsVersion struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Version       string         `json:"version" gorm:"not null;uniqueIndex"`
	Content       string         `json:"content" gorm:"not null"`
	EffectiveDate time.Time      `json:"effective_date" gorm:"not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TermsAcceptance links a user's agreement to a specific terms version
// for a specific submitted application. Written once, never updated.
type TermsAcceptance struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	UserID            uint            `json:"user_id" gorm:"not null;index"`
	User              User            `json:"-" gorm:"foreignKey:UserID"`
	LoanApplicationID uint            `json:"loan_application_id" gorm:"not null;index"`
	LoanApplication   LoanApplication `json:"-" gorm:"foreignKey:LoanApplicationID"`
	TermsVersionID    uint            `json:"terms_version_id" gorm:"not null"`
	TermsVersion      TermsVersion    `json:"-" gorm:"foreignKey:TermsVersionID"`
	CreatedAt         time.Time       `json:"created_at"`
}

type PublishTermsRequest struct {
	Version       string    `json:"version" validate:"required,min=1"`
	Content       string    `json:"content" validate:"required,min=10"`
	EffectiveDate time.Time `json:"effective_date" validate:"required"`
}
