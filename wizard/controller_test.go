package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	failSteps map[int]bool
	failForm  bool
}

func (v *stubValidator) ValidateStep(step int, form *FormState) *ValidationError {
	if v.failSteps[step] {
		return &ValidationError{Step: step, Fields: map[string]string{"field": "field is required"}}
	}
	return nil
}

func (v *stubValidator) ValidateForm(form *FormState) *ValidationError {
	if v.failForm {
		return &ValidationError{Step: 0, Fields: map[string]string{"field": "field is required"}}
	}
	return nil
}

type fakeDraftStore struct {
	calls        int
	id           uint
	err          error
	lastExisting *uint
}

func (f *fakeDraftStore) Save(ctx context.Context, userID uint, form *FormState, existingDraftID *uint) (uint, error) {
	f.calls++
	f.lastExisting = existingDraftID
	if f.err != nil {
		return 0, f.err
	}
	return f.id, nil
}

type fakeTermsRecorder struct {
	calls     int
	lastAppID uint
	err       error
	order     *[]string
}

func (f *fakeTermsRecorder) Record(ctx context.Context, applicationID, userID uint) (uint, error) {
	f.calls++
	f.lastAppID = applicationID
	if f.order != nil {
		*f.order = append(*f.order, "accept")
	}
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

type fakeCommitter struct {
	calls int
	id    uint
	err   error
	order *[]string
}

func (f *fakeCommitter) Commit(ctx context.Context, userID uint, form *FormState, existingDraftID *uint) (uint, error) {
	f.calls++
	if f.order != nil {
		*f.order = append(*f.order, "commit")
	}
	if f.err != nil {
		return 0, f.err
	}
	return f.id, nil
}

type fixture struct {
	ctrl      *Controller
	drafts    *fakeDraftStore
	terms     *fakeTermsRecorder
	committer *fakeCommitter
	order     []string
}

func newFixture(user *Identity, v Validator) *fixture {
	f := &fixture{
		drafts:    &fakeDraftStore{id: 42},
		terms:     &fakeTermsRecorder{},
		committer: &fakeCommitter{id: 99},
	}
	f.terms.order = &f.order
	f.committer.order = &f.order
	f.ctrl = NewController(user, &FormState{}, v, f.drafts, f.terms, f.committer)
	return f
}

func TestNextBlockedByStepValidation(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{failSteps: map[int]bool{1: true}})

	res := f.ctrl.Next(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.Equal(t, 1, f.ctrl.Step())
	assert.NotEmpty(t, res.FieldErrors)
}

func TestNextAdvancesWhenStepValid(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})

	res := f.ctrl.Next(context.Background())

	assert.Equal(t, ResultAdvanced, res.Kind)
	assert.Equal(t, 2, res.Step)
	assert.Equal(t, 2, f.ctrl.Step())
}

func TestEachStepGatedIndividually(t *testing.T) {
	for step := 1; step <= 6; step++ {
		f := newFixture(&Identity{ID: 1}, &stubValidator{failSteps: map[int]bool{step: true}})
		f.ctrl.Resume(step)
		f.ctrl.SetDocumentsValid(true)

		res := f.ctrl.Next(context.Background())

		assert.Equal(t, ResultRefused, res.Kind, "step %d", step)
		assert.Equal(t, step, f.ctrl.Step(), "step %d", step)
	}
}

func TestLeavingDocumentsStepRequiresReadiness(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(StepDocuments)

	res := f.ctrl.Next(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrDocumentsIncomplete)
	assert.Equal(t, StepDocuments, f.ctrl.Step())

	f.ctrl.SetDocumentsValid(true)
	res = f.ctrl.Next(context.Background())

	assert.Equal(t, ResultAdvanced, res.Kind)
	assert.Equal(t, 7, f.ctrl.Step())
}

func TestNextRefusedAtFinalStep(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(StepCount)

	res := f.ctrl.Next(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrInvalidTransition)
}

func TestPreviousNeverGoesBelowFirstStep(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})

	res := f.ctrl.Previous()

	assert.Equal(t, ResultMoved, res.Kind)
	assert.Equal(t, 1, f.ctrl.Step())

	f.ctrl.Resume(3)
	res = f.ctrl.Previous()
	assert.Equal(t, 2, res.Step)
}

func TestSubmitOnlyFromFinalStep(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(4)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrInvalidTransition)
	assert.Zero(t, f.committer.calls)
	assert.Zero(t, f.terms.calls)
}

func TestSubmitWithoutDocumentsMakesNoPersistenceCall(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(StepCount)
	f.ctrl.SetTermsAgreed(true)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrDocumentsIncomplete)
	assert.Zero(t, f.committer.calls)
	assert.Zero(t, f.terms.calls)
}

func TestSubmitWithoutTermsMakesNoPersistenceCall(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrTermsNotAgreed)
	assert.Zero(t, f.committer.calls)
	assert.Zero(t, f.terms.calls)
}

func TestSubmitBlockedByWholeFormValidation(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{failForm: true})
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)
	f.ctrl.SetTermsAgreed(true)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.NotEmpty(t, res.FieldErrors)
	assert.Zero(t, f.committer.calls)
	assert.Zero(t, f.terms.calls)
}

func TestSubmitCommitsThenRecordsAcceptance(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)
	f.ctrl.SetTermsAgreed(true)

	res := f.ctrl.Submit(context.Background())

	require.Equal(t, ResultSubmitted, res.Kind)
	assert.Equal(t, uint(99), res.ApplicationID)
	assert.Equal(t, 1, f.committer.calls)
	assert.Equal(t, 1, f.terms.calls)
	assert.Equal(t, []string{"commit", "accept"}, f.order)
	// The acceptance targets the committed record's id in all paths.
	assert.Equal(t, uint(99), f.terms.lastAppID)
	assert.True(t, f.ctrl.Submitted())
}

func TestSubmitIsTerminal(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)
	f.ctrl.SetTermsAgreed(true)

	require.Equal(t, ResultSubmitted, f.ctrl.Submit(context.Background()).Kind)

	res := f.ctrl.Submit(context.Background())
	assert.Equal(t, ResultRefused, res.Kind)
	assert.Equal(t, 1, f.committer.calls)

	res = f.ctrl.Next(context.Background())
	assert.Equal(t, ResultRefused, res.Kind)

	res = f.ctrl.SaveDraft(context.Background())
	assert.Equal(t, ResultRefused, res.Kind)
}

func TestSubmitCommitFailureSkipsAcceptance(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.committer.err = ErrSubmissionPersist
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)
	f.ctrl.SetTermsAgreed(true)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultFailed, res.Kind)
	assert.ErrorIs(t, res.Err, ErrSubmissionPersist)
	assert.Zero(t, f.terms.calls)
	assert.False(t, f.ctrl.Submitted())
	assert.Equal(t, StepCount, f.ctrl.Step())
}

func TestSubmitAcceptanceFailureSurfacesCommittedID(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.terms.err = ErrAcceptanceInsert
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)
	f.ctrl.SetTermsAgreed(true)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultFailed, res.Kind)
	assert.ErrorIs(t, res.Err, ErrAcceptanceInsert)
	assert.Equal(t, uint(99), res.ApplicationID)
	assert.False(t, f.ctrl.Submitted())
}

func TestSaveDraftRequiresAuthentication(t *testing.T) {
	f := newFixture(nil, &stubValidator{})

	res := f.ctrl.SaveDraft(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrUnauthenticated)
	assert.Equal(t, "Please log in to save your application", res.Message)
	assert.Zero(t, f.drafts.calls)
}

func TestSaveDraftPinsReturnedID(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})

	res := f.ctrl.SaveDraft(context.Background())

	require.Equal(t, ResultDraftSaved, res.Kind)
	require.NotNil(t, res.DraftID)
	assert.Equal(t, uint(42), *res.DraftID)
	assert.Nil(t, f.drafts.lastExisting)

	// A later save targets the same draft.
	res = f.ctrl.SaveDraft(context.Background())
	require.Equal(t, ResultDraftSaved, res.Kind)
	require.NotNil(t, f.drafts.lastExisting)
	assert.Equal(t, uint(42), *f.drafts.lastExisting)
	assert.Equal(t, 2, f.drafts.calls)
}

func TestSaveDraftFailureLeavesSessionUsable(t *testing.T) {
	f := newFixture(&Identity{ID: 1}, &stubValidator{})
	f.drafts.err = errors.New("store down")

	res := f.ctrl.SaveDraft(context.Background())

	assert.Equal(t, ResultFailed, res.Kind)
	assert.Nil(t, f.ctrl.DraftID())
	assert.Equal(t, 1, f.ctrl.Step())
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	f := newFixture(nil, &stubValidator{})
	f.ctrl.Resume(StepCount)
	f.ctrl.SetDocumentsValid(true)
	f.ctrl.SetTermsAgreed(true)

	res := f.ctrl.Submit(context.Background())

	assert.Equal(t, ResultRefused, res.Kind)
	assert.ErrorIs(t, res.Err, ErrUnauthenticated)
	assert.Zero(t, f.committer.calls)
}

func TestFullWizardWalkthrough(t *testing.T) {
	f := newFixture(&Identity{ID: 7}, NewValidator())
	*f.ctrl.Form() = validForm()
	ctx := context.Background()

	for step := 1; step < StepCount; step++ {
		if step == StepDocuments {
			f.ctrl.SetDocumentsValid(true)
		}
		res := f.ctrl.Next(ctx)
		require.Equal(t, ResultAdvanced, res.Kind, "advancing from step %d: %v", step, res.FieldErrors)
	}
	require.Equal(t, StepCount, f.ctrl.Step())

	f.ctrl.SetTermsAgreed(true)
	res := f.ctrl.Submit(ctx)

	require.Equal(t, ResultSubmitted, res.Kind)
	assert.Equal(t, 1, f.committer.calls)
	assert.Equal(t, 1, f.terms.calls)
	assert.Equal(t, []string{"commit", "accept"}, f.order)
	assert.Equal(t, "Application submitted successfully", res.Message)
}
