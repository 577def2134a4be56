package wizard

import (
	"errors"
	"fmt"
)

// Failure taxonomy for wizard operations. Persistence-facing components
// wrap the underlying store error with one of these sentinels so the
// controller can gate on identity without inspecting driver errors.
var (
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrDocumentsIncomplete = errors.New("required documents incomplete")
	ErrTermsNotAgreed      = errors.New("terms and conditions not agreed")
	ErrDraftLookup         = errors.New("draft lookup failed")
	ErrDraftPersist        = errors.New("draft persist failed")
	ErrTermsFetch          = errors.New("terms version fetch failed")
	ErrAcceptanceInsert    = errors.New("terms acceptance insert failed")
	ErrSubmissionPersist   = errors.New("submission persist failed")
	ErrInvalidTransition   = errors.New("invalid step transition")
)

// ValidationError carries the failing step (0 for whole-form mode) and
// a field -> message map suitable for direct display.
type ValidationError struct {
	Step   int
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e.Step == 0 {
		return fmt.Sprintf("form validation failed (%d fields)", len(e.Fields))
	}
	return fmt.Sprintf("step %d validation failed (%d fields)", e.Step, len(e.Fields))
}
