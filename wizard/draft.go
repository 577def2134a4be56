package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"loanwizard-go/models"
)

// DraftStore persists in-progress form state as a resumable draft,
// holding the invariant of at most one open draft per user. Save
// returns the draft's id so the caller can pin later saves to it.
type DraftStore interface {
	Save(ctx context.Context, userID uint, form *FormState, existingDraftID *uint) (uint, error)
}

type GormDraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *GormDraftStore {
	return &GormDraftStore{db: db}
}

func (s *GormDraftStore) Save(ctx context.Context, userID uint, form *FormState, existingDraftID *uint) (uint, error) {
	cols, err := applicationColumns(form)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDraftPersist, err)
	}

	if existingDraftID != nil {
		if err := s.updateDraft(ctx, *existingDraftID, userID, cols); err != nil {
			return 0, err
		}
		return *existingDraftID, nil
	}

	// No pinned id: check whether a draft already exists for this user.
	// Self-healing against duplicate creation from concurrent tabs or
	// reloads. "No rows" is the normal new-draft path, not an error.
	var existing models.LoanApplication
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusDraft).
		First(&existing).Error
	switch {
	case err == nil:
		if err := s.updateDraft(ctx, existing.ID, userID, cols); err != nil {
			return 0, err
		}
		return existing.ID, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to insert
	default:
		return 0, fmt.Errorf("%w: %v", ErrDraftLookup, err)
	}

	app, err := applicationFromForm(userID, form)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDraftPersist, err)
	}
	app.Status = models.StatusDraft

	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		// The partial unique index on (user_id) WHERE status='draft'
		// closes the lookup-then-insert race: a conflict means another
		// request created the draft first, so retry as an update.
		if isUniqueViolation(err) {
			log.Printf("draft insert conflict for user %d, updating existing draft instead", userID)
			return s.adoptExistingDraft(ctx, userID, cols)
		}
		return 0, fmt.Errorf("%w: %v", ErrDraftPersist, err)
	}
	return app.ID, nil
}

// adoptExistingDraft re-reads the draft row that won the insert race
// and overwrites it with this request's form state.
func (s *GormDraftStore) adoptExistingDraft(ctx context.Context, userID uint, cols map[string]interface{}) (uint, error) {
	var winner models.LoanApplication
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusDraft).
		First(&winner).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDraftLookup, err)
	}
	if err := s.updateDraft(ctx, winner.ID, userID, cols); err != nil {
		return 0, err
	}
	return winner.ID, nil
}

func (s *GormDraftStore) updateDraft(ctx context.Context, draftID, userID uint, cols map[string]interface{}) error {
	res := s.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND user_id = ? AND status = ?", draftID, userID, models.StatusDraft).
		Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrDraftPersist, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: draft %d not found for user %d", ErrDraftPersist, draftID, userID)
	}
	return nil
}

// FindOpen returns the user's open draft, or nil if none exists.
func (s *GormDraftStore) FindOpen(ctx context.Context, userID uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusDraft).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDraftLookup, err)
	}
	return &app, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}
