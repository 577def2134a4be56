package models

import (
	"time"

	"gorm.io/gorm"
)

// Application status values. A draft moves to pending on submission;
// approved/rejected are set by the review process afterwards.
const (
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type LoanApplication struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	User      User   `json:"-" gorm:"foreignKey:UserID"`
	Status    string `json:"status" gorm:"not null;default:draft;index"`
	Reference string `json:"reference" gorm:"index"`

	// Step 1: personal details
	FirstName     string `json:"first_name"`
	Surname       string `json:"surname"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	District      string `json:"district"`
	Village       string `json:"village"`
	HomeProvince  string `json:"home_province"`

	// Step 2: employment
	EmploymentStatus string  `json:"employment_status"`
	EmployerName     string  `json:"employer_name"`
	Occupation       string  `json:"occupation"`
	MonthlyIncome    float64 `json:"monthly_income"`
	EmploymentLength string  `json:"employment_length"`
	WorkAddress      string  `json:"work_address"`
	WorkPhone        string  `json:"work_phone"`

	// Step 3: loan terms
	LoanAmount         float64 `json:"loan_amount"`
	LoanPurpose        string  `json:"loan_purpose"`
	RepaymentPeriod    int     `json:"repayment_period"`
	ExistingLoans      string  `json:"existing_loans"`
	ExistingLoanDetail string  `json:"existing_loan_details"`

	// Step 4: reference
	ReferenceFullName     string `json:"reference_full_name"`
	ReferenceRelationship string `json:"reference_relationship"`
	ReferenceAddress      string `json:"reference_address"`
	ReferencePhone        string `json:"reference_phone"`
	ReferenceOccupation   string `json:"reference_occupation"`

	// Step 5: banking. AccountNumber is stored AES-encrypted.
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountType       string `json:"account_type"`
	BranchName        string `json:"branch_name"`
	AccountHolderName string `json:"account_holder_name"`

	// Step 6: document readiness, recorded by the upload subsystem.
	DocumentsValid bool `json:"documents_valid" gorm:"default:false"`

	SubmittedAt *time.Time     `json:"submitted_at"`
	ReviewedBy  *uint          `json:"reviewed_by"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	ReviewNote  string         `json:"review_note"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

func (a *LoanApplication) IsDraft() bool {
	return a.Status == StatusDraft
}

type ReviewRequest struct {
	ApplicationID uint   `json:"application_id" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=approved rejected"`
	Note          string `json:"note"`
}
