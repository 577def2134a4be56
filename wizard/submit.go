package wizard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loanwizard-go/models"
)

// Committer turns final form state into an immutable pending
// application, promoting the user's draft when one exists.
type Committer interface {
	Commit(ctx context.Context, userID uint, form *FormState, existingDraftID *uint) (uint, error)
}

type GormCommitter struct {
	db *gorm.DB
}

func NewCommitter(db *gorm.DB) *GormCommitter {
	return &GormCommitter{db: db}
}

// Commit promotes the draft identified by existingDraftID to pending,
// or inserts a new pending record when no draft exists. The promote is
// a conditional update on (id, user_id, status='draft'): a row that
// already left draft status matches nothing, which defends against a
// stale client resubmitting, and surfaces as ErrSubmissionPersist.
func (c *GormCommitter) Commit(ctx context.Context, userID uint, form *FormState, existingDraftID *uint) (uint, error) {
	now := time.Now()

	if existingDraftID != nil {
		cols, err := applicationColumns(form)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSubmissionPersist, err)
		}
		cols["status"] = models.StatusPending
		cols["reference"] = uuid.New().String()
		cols["submitted_at"] = &now

		res := c.db.WithContext(ctx).
			Model(&models.LoanApplication{}).
			Where("id = ? AND user_id = ? AND status = ?", *existingDraftID, userID, models.StatusDraft).
			Updates(cols)
		if res.Error != nil {
			return 0, fmt.Errorf("%w: %v", ErrSubmissionPersist, res.Error)
		}
		if res.RowsAffected == 0 {
			return 0, fmt.Errorf("%w: draft %d not found or already submitted", ErrSubmissionPersist, *existingDraftID)
		}
		return *existingDraftID, nil
	}

	app, err := applicationFromForm(userID, form)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSubmissionPersist, err)
	}
	app.Status = models.StatusPending
	app.Reference = uuid.New().String()
	app.SubmittedAt = &now

	if err := c.db.WithContext(ctx).Create(app).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSubmissionPersist, err)
	}
	return app.ID, nil
}
