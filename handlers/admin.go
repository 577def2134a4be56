package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"loanwizard-go/middleware"
	"loanwizard-go/models"
	"loanwizard-go/utils"
)

// GetPendingApplications lists submitted applications awaiting review.
func (h *Handlers) GetPendingApplications(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var apps []models.LoanApplication
	if err := h.db.WithContext(r.Context()).
		Where("status = ?", models.StatusPending).
		Preload("User").
		Order("submitted_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&apps).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch pending applications", err.Error())
		return
	}

	sendJSON(w, http.StatusOK, apps)
}

// ReviewApplication moves a pending application to approved or
// rejected. The conditional update only matches pending rows, so a
// double review or a review of a draft changes nothing.
func (h *Handlers) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	now := time.Now()
	res := h.db.WithContext(r.Context()).
		Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", req.ApplicationID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      req.Status,
			"reviewed_by": claims.UserID,
			"reviewed_at": &now,
			"review_note": req.Note,
		})
	if res.Error != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update application", res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		sendError(w, http.StatusNotFound, "Application not found or not pending", nil)
		return
	}

	h.logAudit(&claims.UserID, "UPDATE", "APPLICATION",
		"Application review: "+req.Status, r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]string{
		"message": "Application review recorded",
	})
}

func (h *Handlers) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	var auditLogs []models.AuditLog
	if err := h.db.WithContext(r.Context()).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&auditLogs).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch audit logs", err.Error())
		return
	}

	sendJSON(w, http.StatusOK, auditLogs)
}

func (h *Handlers) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var users []models.User
	if err := h.db.WithContext(r.Context()).
		Select("id, email, phone, first_name, last_name, is_active, is_admin, created_at, updated_at").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch users", err.Error())
		return
	}

	sendJSON(w, http.StatusOK, users)
}
