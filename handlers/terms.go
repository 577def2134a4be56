package handlers

import (
	"encoding/json"
	"net/http"

	"loanwizard-go/middleware"
	"loanwizard-go/models"
	"loanwizard-go/utils"
)

// GetCurrentTerms returns the terms version in effect right now.
func (h *Handlers) GetCurrentTerms(w http.ResponseWriter, r *http.Request) {
	current, err := h.terms.CurrentVersion(r.Context())
	if err != nil {
		sendError(w, http.StatusNotFound, "No published terms version", err.Error())
		return
	}
	sendJSON(w, http.StatusOK, current)
}

// PublishTerms publishes a new immutable terms version (admin only).
func (h *Handlers) PublishTerms(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.PublishTermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	version := models.TermsVersion{
		Version:       req.Version,
		Content:       req.Content,
		EffectiveDate: req.EffectiveDate,
	}
	if err := h.db.WithContext(r.Context()).Create(&version).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to publish terms version", err.Error())
		return
	}

	h.logAudit(&claims.UserID, "CREATE", "TERMS",
		"Published terms version "+req.Version, r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusCreated, version)
}
