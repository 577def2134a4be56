package wizard

import "strconv"

// FormState holds every collected field as raw string input, exactly as
// typed. Nothing here is validated or parsed; validation runs against
// these values per step, and numeric conversion happens only when a
// record is written. One FormState belongs to one wizard session.
type FormState struct {
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
	EmploymentStatus string `json:"employment_status"`
	EmployerName     string `json:"employer_name"`
	Occupation       string `json:"occupation"`
	MonthlyIncome    string `json:"monthly_income"`
	EmploymentLength string `json:"employment_length"`
	WorkAddress      string `json:"work_address"`
	WorkPhone        string `json:"work_phone"`

	// Step 3: loan terms
	LoanAmount         string `json:"loan_amount"`
	LoanPurpose        string `json:"loan_purpose"`
	RepaymentPeriod    string `json:"repayment_period"`
	ExistingLoans      string `json:"existing_loans"`
	ExistingLoanDetail string `json:"existing_loan_details"`

	// Step 4: reference
	ReferenceFullName     string `json:"reference_full_name"`
	ReferenceRelationship string `json:"reference_relationship"`
	ReferenceAddress      string `json:"reference_address"`
	ReferencePhone        string `json:"reference_phone"`
	ReferenceOccupation   string `json:"reference_occupation"`

	// Step 5: banking
	BankName          string `json:"bank_name"`
	AccountNumber     string `json:"account_number"`
	AccountType       string `json:"account_type"`
	BranchName        string `json:"branch_name"`
	AccountHolderName string `json:"account_holder_name"`
}

// ParseAmount converts a raw monetary input to float64. Empty or
// unparseable input becomes 0 rather than an error: numeric validation
// is the validation engine's job and runs before any write, so a blank
// optional amount must never block persistence.
func ParseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseMonths converts a raw repayment-period input to an integer month
// count, with the same fallback-to-zero policy as ParseAmount.
func ParseMonths(raw string) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
