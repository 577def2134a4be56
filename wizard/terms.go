package wizard

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"loanwizard-go/models"
)

// TermsRecorder records a user's acceptance of the current terms
// version against a submitted application. Not idempotent: repeated
// calls insert duplicate rows, so callers invoke it exactly once per
// submission attempt.
type TermsRecorder interface {
	Record(ctx context.Context, applicationID, userID uint) (uint, error)
}

type GormTermsRecorder struct {
	db *gorm.DB
}

func NewTermsRecorder(db *gorm.DB) *GormTermsRecorder {
	return &GormTermsRecorder{db: db}
}

// Record fetches the terms version with the most recent effective date
// (newest row wins a tie) and inserts the acceptance row. Returns the
// terms version id that was accepted.
func (r *GormTermsRecorder) Record(ctx context.Context, applicationID, userID uint) (uint, error) {
	var current models.TermsVersion
	if err := r.db.WithContext(ctx).
		Order("effective_date DESC, id DESC").
		First(&current).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTermsFetch, err)
	}

	acceptance := models.TermsAcceptance{
		UserID:            userID,
		LoanApplicationID: applicationID,
		TermsVersionID:    current.ID,
	}
	if err := r.db.WithContext(ctx).Create(&acceptance).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAcceptanceInsert, err)
	}
	return current.ID, nil
}

// CurrentVersion returns the terms version in effect right now.
func (r *GormTermsRecorder) CurrentVersion(ctx context.Context) (*models.TermsVersion, error) {
	var current models.TermsVersion
	if err := r.db.WithContext(ctx).
		Order("effective_date DESC, id DESC").
		First(&current).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTermsFetch, err)
	}
	return &current, nil
}
