package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"loanwizard-go/models"
	"loanwizard-go/utils"

	"gorm.io/gorm"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	// Check if user already exists
	var existingUser models.User
	if err := h.db.Where("email = ? OR phone = ?", req.Email, req.Phone).First(&existingUser).Error; err == nil {
		sendError(w, http.StatusConflict, "User already exists", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to hash password", nil)
		return
	}

	isAdmin := false
	if req.AdminCode != "" {
		if req.AdminCode != h.config.AdminCode {
			log.Printf("Invalid admin code provided for %s", req.Email)
			sendError(w, http.StatusBadRequest, "Invalid admin code", nil)
			return
		}
		isAdmin = true
		log.Printf("Admin user registered with admin code: %s", req.Email)
	}

	user := models.User{
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
		IsAdmin:   isAdmin,
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("Failed to create user %s: %v", req.Email, err)
		sendError(w, http.StatusInternalServerError, "Failed to create user", nil)
		return
	}

	auditDetails := "User registered"
	if isAdmin {
		auditDetails = "Admin user registered"
	}
	h.logAudit(&user.ID, "CREATE", "USER", auditDetails, r.RemoteAddr, r.UserAgent())

	user.Password = ""
	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("Login attempt with non-existent email: %s", req.Email)
			sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		log.Printf("Database error during login for %s: %v", req.Email, err)
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		log.Printf("Invalid password for user: %s", req.Email)
		sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !user.IsActive {
		log.Printf("Login attempt for inactive user: %s", req.Email)
		sendError(w, http.StatusForbidden, "Account is deactivated", nil)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		log.Printf("Failed to generate token for user %s: %v", req.Email, err)
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	h.logAudit(&user.ID, "LOGIN", "AUTH", "User logged in", r.RemoteAddr, r.UserAgent())

	user.Password = ""
	sendJSON(w, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user,
	})
}
