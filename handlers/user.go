package handlers

import (
	"encoding/json"
	"net/http"

	"loanwizard-go/middleware"
	"loanwizard-go/models"

	"gorm.io/gorm"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	user.Password = ""
	sendJSON(w, http.StatusOK, user)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone

	if err := h.db.Save(&user).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update profile", nil)
		return
	}

	h.logAudit(&user.ID, "UPDATE", "USER", "Profile updated", r.RemoteAddr, r.UserAgent())

	user.Password = ""
	sendJSON(w, http.StatusOK, user)
}
