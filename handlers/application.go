package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"loanwizard-go/middleware"
	"loanwizard-go/models"
	"loanwizard-go/wizard"
)

// WizardRequest is the stateless wizard payload: the raw form fields,
// the caller's current step, and the two gating flags. The draft id
// travels separately in the "draft" query parameter so reloads resume
// the same draft.
type WizardRequest struct {
	CurrentStep    int              `json:"current_step"`
	DocumentsValid bool             `json:"documents_valid"`
	TermsAgreed    bool             `json:"terms_agreed"`
	Form           wizard.FormState `json:"form"`
}

func (h *Handlers) identity(r *http.Request) *wizard.Identity {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		return nil
	}
	return &wizard.Identity{ID: claims.UserID}
}

// buildController rebuilds a wizard session from a stateless request.
// Once the caller has an open draft, the document-readiness flag
// stored on it is authoritative: the upload subsystem writes it
// server-side, and the client-supplied flag is ignored. The client
// flag only counts when no draft exists to check against, and a
// failed lookup keeps the gate closed.
func (h *Handlers) buildController(r *http.Request, req *WizardRequest) *wizard.Controller {
	user := h.identity(r)
	ctrl := wizard.NewController(user, &req.Form, h.validator, h.drafts, h.terms, h.committer)
	ctrl.Resume(req.CurrentStep)

	if id := draftIDFromQuery(r); id != nil {
		ctrl.UseDraft(*id)
	}

	docsValid := req.DocumentsValid
	if user != nil {
		draft, err := h.drafts.FindOpen(r.Context(), user.ID)
		switch {
		case err != nil:
			log.Printf("draft lookup failed while checking document readiness for user %d: %v", user.ID, err)
			docsValid = false
		case draft != nil:
			docsValid = draft.DocumentsValid
		}
	}
	ctrl.SetDocumentsValid(docsValid)
	ctrl.SetTermsAgreed(req.TermsAgreed)
	return ctrl
}

func writeResult(w http.ResponseWriter, res wizard.Result) {
	status := http.StatusOK
	switch res.Kind {
	case wizard.ResultRefused:
		switch {
		case errors.Is(res.Err, wizard.ErrUnauthenticated):
			status = http.StatusUnauthorized
		case errors.Is(res.Err, wizard.ErrInvalidTransition):
			status = http.StatusConflict
		default:
			status = http.StatusBadRequest
		}
	case wizard.ResultFailed:
		status = http.StatusInternalServerError
	}

	body := map[string]interface{}{
		"kind":    res.Kind.String(),
		"step":    res.Step,
		"message": res.Message,
	}
	if res.DraftID != nil {
		body["draft_id"] = *res.DraftID
	}
	if res.ApplicationID != 0 {
		body["application_id"] = res.ApplicationID
	}
	if len(res.FieldErrors) > 0 {
		body["field_errors"] = res.FieldErrors
	}
	sendJSON(w, status, body)
}

// SaveDraft persists the in-progress form as the caller's open draft.
func (h *Handlers) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req WizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ctrl := h.buildController(r, &req)
	res := ctrl.SaveDraft(r.Context())

	if res.Kind == wizard.ResultDraftSaved {
		claims := middleware.GetUserFromContext(r)
		h.logAudit(&claims.UserID, "SAVE", "DRAFT",
			fmt.Sprintf("Draft %d saved at step %d", *res.DraftID, res.Step),
			r.RemoteAddr, r.UserAgent())
	}
	writeResult(w, res)
}

// GetDraft returns the caller's open draft so a reload can resume it.
func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	draft, err := h.drafts.FindOpen(r.Context(), claims.UserID)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to look up draft", err.Error())
		return
	}
	if draft == nil {
		sendJSON(w, http.StatusOK, map[string]interface{}{"exists": false})
		return
	}

	form, err := wizard.FormFromApplication(draft)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to decode draft", err.Error())
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"exists":          true,
		"draft_id":        draft.ID,
		"form":            form,
		"documents_valid": draft.DocumentsValid,
		"updated_at":      draft.UpdatedAt,
	})
}

// Advance attempts the Next transition for the caller's session.
func (h *Handlers) Advance(w http.ResponseWriter, r *http.Request) {
	var req WizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ctrl := h.buildController(r, &req)
	writeResult(w, ctrl.Next(r.Context()))
}

// Back moves one step back, never below the first.
func (h *Handlers) Back(w http.ResponseWriter, r *http.Request) {
	var req WizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ctrl := h.buildController(r, &req)
	writeResult(w, ctrl.Previous())
}

// SubmitApplication runs the full submission pipeline from step 7.
func (h *Handlers) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req WizardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ctrl := h.buildController(r, &req)
	res := ctrl.Submit(r.Context())

	if res.Kind == wizard.ResultSubmitted {
		claims := middleware.GetUserFromContext(r)
		h.logAudit(&claims.UserID, "SUBMIT", "APPLICATION",
			fmt.Sprintf("Application %d submitted", res.ApplicationID),
			r.RemoteAddr, r.UserAgent())
	}
	writeResult(w, res)
}

// SetDocumentsStatus is the document-upload subsystem's write path for
// the readiness flag on the caller's open draft.
func (h *Handlers) SetDocumentsStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req struct {
		Valid bool `json:"valid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	res := h.db.WithContext(r.Context()).
		Model(&models.LoanApplication{}).
		Where("user_id = ? AND status = ?", claims.UserID, models.StatusDraft).
		Update("documents_valid", req.Valid)
	if res.Error != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update document status", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		sendError(w, http.StatusNotFound, "No open draft to update", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{"documents_valid": req.Valid})
}

// ListApplications returns the caller's applications, newest first.
func (h *Handlers) ListApplications(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var apps []models.LoanApplication
	if err := h.db.WithContext(r.Context()).
		Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch applications", err.Error())
		return
	}

	summaries := make([]map[string]interface{}, 0, len(apps))
	for _, app := range apps {
		summaries = append(summaries, map[string]interface{}{
			"id":           app.ID,
			"status":       app.Status,
			"reference":    app.Reference,
			"loan_amount":  app.LoanAmount,
			"loan_purpose": app.LoanPurpose,
			"submitted_at": app.SubmittedAt,
			"created_at":   app.CreatedAt,
		})
	}
	sendJSON(w, http.StatusOK, summaries)
}
