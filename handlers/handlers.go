package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	"loanwizard-go/config"
	"loanwizard-go/models"
	"loanwizard-go/wizard"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// sendError sends a standardized error response
func sendError(w http.ResponseWriter, status int, err string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:    status,
		Error:     err,
		Details:   details,
		Timestamp: time.Now(),
	})
}

func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type Handlers struct {
	db        *gorm.DB
	config    *config.Config
	drafts    *wizard.GormDraftStore
	terms     *wizard.GormTermsRecorder
	committer *wizard.GormCommitter
	validator wizard.Validator
}

func NewHandlers(db *gorm.DB, cfg *config.Config) *Handlers {
	v := wizard.NewValidator()
	v.MaxLoanAmount = cfg.MaxLoanAmount
	return &Handlers{
		db:        db,
		config:    cfg,
		drafts:    wizard.NewDraftStore(db),
		terms:     wizard.NewTermsRecorder(db),
		committer: wizard.NewCommitter(db),
		validator: v,
	}
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "LoanWizardGo",
		"version":   "1.0.0",
	})
}

func (h *Handlers) logAudit(userID *uint, action, resource, details, ipAddress, userAgent string) {
	audit := models.AuditLog{
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	h.db.Create(&audit)
}

// draftIDFromQuery reads the optional draft id carried in the request
// location, mirroring how a page reload resumes the same draft.
func draftIDFromQuery(r *http.Request) *uint {
	raw := r.URL.Query().Get("draft")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}
