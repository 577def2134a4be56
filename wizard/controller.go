package wizard

import (
	"context"
	"log"
)

const (
	// StepCount is the number of ordered form sections.
	StepCount = 7
	// StepDocuments is the section gated on the upload subsystem's
	// readiness signal before the terms step can be reached.
	StepDocuments = 6
)

// Identity is what the auth provider hands us. A nil *Identity means
// the caller is not logged in.
type Identity struct {
	ID uint
}

// ResultKind classifies the outcome of a wizard operation. The
// presentation layer maps kinds to notifications; the controller never
// talks to a notification channel itself.
type ResultKind int

const (
	ResultAdvanced ResultKind = iota
	ResultMoved
	ResultRefused
	ResultDraftSaved
	ResultSubmitted
	ResultFailed
)

func (k ResultKind) String() string {
	switch k {
	case ResultAdvanced:
		return "advanced"
	case ResultMoved:
		return "moved"
	case ResultRefused:
		return "refused"
	case ResultDraftSaved:
		return "draft_saved"
	case ResultSubmitted:
		return "submitted"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the structured outcome of a transition attempt.
type Result struct {
	Kind          ResultKind
	Step          int
	DraftID       *uint
	ApplicationID uint
	Message       string
	FieldErrors   map[string]string
	Err           error
}

// Controller is the wizard state machine. It owns the FormState and
// current step for one session, gates every transition, and delegates
// persistence to the injected collaborators. It never touches the
// store directly.
type Controller struct {
	user      *Identity
	form      *FormState
	step      int
	draftID   *uint
	docsValid bool
	agreed    bool
	submitted bool

	validator Validator
	drafts    DraftStore
	terms     TermsRecorder
	committer Committer
}

func NewController(user *Identity, form *FormState, v Validator, drafts DraftStore, terms TermsRecorder, committer Committer) *Controller {
	if form == nil {
		form = &FormState{}
	}
	return &Controller{
		user:      user,
		form:      form,
		step:      1,
		validator: v,
		drafts:    drafts,
		terms:     terms,
		committer: committer,
	}
}

func (c *Controller) Form() *FormState { return c.form }
func (c *Controller) Step() int        { return c.step }
func (c *Controller) DraftID() *uint   { return c.draftID }
func (c *Controller) Submitted() bool  { return c.submitted }

// UseDraft pins the session to an existing draft, as when the caller's
// location carries a draft id from a previous save.
func (c *Controller) UseDraft(id uint) {
	c.draftID = &id
}

// Resume positions the session at a given step, clamped to the valid
// range. Used when rebuilding a session from a saved draft.
func (c *Controller) Resume(step int) {
	if step < 1 {
		step = 1
	}
	if step > StepCount {
		step = StepCount
	}
	c.step = step
}

func (c *Controller) SetDocumentsValid(v bool) { c.docsValid = v }
func (c *Controller) SetTermsAgreed(v bool)    { c.agreed = v }

// Next advances one step. Guards, in order: the session must not be
// terminal, the current step's fields must validate, and leaving the
// documents step requires the readiness signal. A refused transition
// leaves the step unchanged.
func (c *Controller) Next(ctx context.Context) Result {
	if c.submitted {
		return c.refuse(ErrInvalidTransition, "Application already submitted")
	}
	if c.step >= StepCount {
		return c.refuse(ErrInvalidTransition, "Already at the final step")
	}
	if verr := c.validator.ValidateStep(c.step, c.form); verr != nil {
		return Result{
			Kind:        ResultRefused,
			Step:        c.step,
			DraftID:     c.draftID,
			Message:     "Please correct the highlighted fields",
			FieldErrors: verr.Fields,
			Err:         verr,
		}
	}
	if c.step == StepDocuments && !c.docsValid {
		return c.refuse(ErrDocumentsIncomplete, "Please upload all required documents before proceeding")
	}
	c.step++
	return Result{Kind: ResultAdvanced, Step: c.step, DraftID: c.draftID}
}

// Previous moves back one step, never below the first. Unguarded.
func (c *Controller) Previous() Result {
	if c.step > 1 {
		c.step--
	}
	return Result{Kind: ResultMoved, Step: c.step, DraftID: c.draftID}
}

// SaveDraft persists the current form state. Requires a logged-in
// user; otherwise no persistence call is attempted. On the first save
// the returned draft id is pinned so later saves overwrite the same
// record.
func (c *Controller) SaveDraft(ctx context.Context) Result {
	if c.user == nil {
		return c.refuse(ErrUnauthenticated, "Please log in to save your application")
	}
	if c.submitted {
		return c.refuse(ErrInvalidTransition, "Application already submitted")
	}

	id, err := c.drafts.Save(ctx, c.user.ID, c.form, c.draftID)
	if err != nil {
		log.Printf("draft save failed for user %d: %v", c.user.ID, err)
		return Result{Kind: ResultFailed, Step: c.step, DraftID: c.draftID, Message: "Failed to save draft", Err: err}
	}

	c.draftID = &id
	return Result{Kind: ResultDraftSaved, Step: c.step, DraftID: c.draftID, Message: "Draft saved successfully"}
}

// Submit runs the final pipeline at step 7. Guards short-circuit in
// order: authentication, document readiness, terms agreement, then
// whole-form validation; none of them touch persisted state. On
// success the committer runs first and the terms acceptance is
// recorded against the id the committer returned, so the acceptance
// always targets the submitted record in both the draft and no-draft
// paths. The session becomes terminal.
func (c *Controller) Submit(ctx context.Context) Result {
	if c.submitted {
		return c.refuse(ErrInvalidTransition, "Application already submitted")
	}
	if c.step != StepCount {
		return c.refuse(ErrInvalidTransition, "Submission is only possible from the final step")
	}
	if c.user == nil {
		return c.refuse(ErrUnauthenticated, "You must be logged in to submit an application")
	}
	if !c.docsValid {
		return c.refuse(ErrDocumentsIncomplete, "Please upload all required documents before submitting")
	}
	if !c.agreed {
		return c.refuse(ErrTermsNotAgreed, "Please agree to the terms and conditions before submitting")
	}
	if verr := c.validator.ValidateForm(c.form); verr != nil {
		return Result{
			Kind:        ResultRefused,
			Step:        c.step,
			DraftID:     c.draftID,
			Message:     "Please correct the highlighted fields",
			FieldErrors: verr.Fields,
			Err:         verr,
		}
	}

	appID, err := c.committer.Commit(ctx, c.user.ID, c.form, c.draftID)
	if err != nil {
		log.Printf("submission failed for user %d: %v", c.user.ID, err)
		return Result{Kind: ResultFailed, Step: c.step, DraftID: c.draftID, Message: "Failed to submit application", Err: err}
	}

	if _, err := c.terms.Record(ctx, appID, c.user.ID); err != nil {
		// The application is already pending; the acceptance row is
		// missing. Surface the failure with the committed id so the
		// caller can reconcile rather than resubmit.
		log.Printf("terms acceptance failed for user %d, application %d: %v", c.user.ID, appID, err)
		return Result{Kind: ResultFailed, Step: c.step, ApplicationID: appID, Message: "Failed to record terms acceptance", Err: err}
	}

	c.submitted = true
	return Result{Kind: ResultSubmitted, Step: c.step, ApplicationID: appID, Message: "Application submitted successfully"}
}

func (c *Controller) refuse(err error, msg string) Result {
	return Result{Kind: ResultRefused, Step: c.step, DraftID: c.draftID, Message: msg, Err: err}
}
