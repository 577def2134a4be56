package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanwizard-go/config"
	"loanwizard-go/database"
	"loanwizard-go/middleware"
	"loanwizard-go/models"
	"loanwizard-go/utils"
	"loanwizard-go/wizard"
)

func TestMain(m *testing.M) {
	if err := utils.InitializeEncryption("0123456789abcdef0123456789abcdef"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "handlers_test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	return NewHandlers(db, config.Load())
}

func authedRequest(method, target string, body interface{}, userID uint) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, target, &buf)
	claims := &utils.Claims{UserID: userID}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func saveTestDraft(t *testing.T, h *Handlers, userID uint) uint {
	t.Helper()
	form := wizard.FormState{FirstName: "Amos", Surname: "Kaluba"}
	id, err := h.drafts.Save(context.Background(), userID, &form, nil)
	require.NoError(t, err)
	return id
}

func TestAdvanceIgnoresClientDocumentsFlagWhenDraftStored(t *testing.T) {
	h := newTestHandlers(t)
	draftID := saveTestDraft(t, h, 1)

	// The draft's stored readiness flag is false; a client claiming
	// documents_valid must not get past the step-6 gate.
	req := WizardRequest{CurrentStep: 6, DocumentsValid: true}
	r := authedRequest("POST", fmt.Sprintf("/api/wizard/advance?draft=%d", draftID), req, 1)
	w := httptest.NewRecorder()
	h.Advance(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "refused", body["kind"])
	assert.Equal(t, float64(6), body["step"])
}

func TestAdvanceUsesStoredDocumentsFlagWhenSet(t *testing.T) {
	h := newTestHandlers(t)
	draftID := saveTestDraft(t, h, 1)

	// The upload subsystem marks the draft ready server-side.
	r := authedRequest("POST", "/api/applications/draft/documents", map[string]bool{"valid": true}, 1)
	w := httptest.NewRecorder()
	h.SetDocumentsStatus(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	// Even a client sending documents_valid: false advances, because
	// the stored flag is the authority once a draft exists.
	req := WizardRequest{CurrentStep: 6, DocumentsValid: false}
	r = authedRequest("POST", fmt.Sprintf("/api/wizard/advance?draft=%d", draftID), req, 1)
	w = httptest.NewRecorder()
	h.Advance(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "advanced", body["kind"])
	assert.Equal(t, float64(7), body["step"])
}

func TestSubmitBlockedByStoredDocumentsFlag(t *testing.T) {
	h := newTestHandlers(t)
	draftID := saveTestDraft(t, h, 1)

	req := WizardRequest{CurrentStep: 7, DocumentsValid: true, TermsAgreed: true}
	r := authedRequest("POST", fmt.Sprintf("/api/wizard/submit?draft=%d", draftID), req, 1)
	w := httptest.NewRecorder()
	h.SubmitApplication(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var draft models.LoanApplication
	require.NoError(t, h.db.First(&draft, draftID).Error)
	assert.Equal(t, models.StatusDraft, draft.Status, "no commit may happen while documents are incomplete")
}
