package wizard

import (
	"fmt"

	"loanwizard-go/utils"
)

// Validator is the validation engine contract: per-step checks gate the
// Next transition, the whole-form check gates final submission. A nil
// return means valid; otherwise a *ValidationError with field details.
type Validator interface {
	ValidateStep(step int, form *FormState) *ValidationError
	ValidateForm(form *FormState) *ValidationError
}

// Per-step views over FormState. Tags mirror the raw-input model:
// numeric fields are validated as strings here and only parsed at
// write time.
type personalStep struct {
	FirstName     string `validate:"required,min=2"`
	Surname       string `validate:"required,min=2"`
	DateOfBirth   string `validate:"required,datetime=2006-01-02"`
	Gender        string `validate:"required,oneof=male female other"`
	MaritalStatus string `validate:"required"`
	District      string `validate:"required"`
	Village       string `validate:"required"`
	HomeProvince  string `validate:"required"`
}

type employmentStep struct {
	EmploymentStatus string `validate:"required"`
	Occupation       string `validate:"required"`
	MonthlyIncome    string `validate:"required,numeric"`
	WorkPhone        string `validate:"omitempty,e164|numeric"`
}

type loanStep struct {
	LoanAmount      string `validate:"required,numeric"`
	LoanPurpose     string `validate:"required,min=3"`
	RepaymentPeriod string `validate:"required,number"`
	ExistingLoans   string `validate:"required,oneof=yes no"`
}

type referenceStep struct {
	ReferenceFullName     string `validate:"required,min=2"`
	ReferenceRelationship string `validate:"required"`
	ReferenceAddress      string `validate:"required"`
	ReferencePhone        string `validate:"required"`
}

type bankingStep struct {
	BankName          string `validate:"required"`
	AccountNumber     string `validate:"required,min=4"`
	AccountType       string `validate:"required"`
	BranchName        string `validate:"required"`
	AccountHolderName string `validate:"required,min=2"`
}

// StructValidator implements Validator on go-playground struct tags.
// MaxLoanAmount caps the requested amount when positive; zero means
// no cap.
type StructValidator struct {
	MaxLoanAmount float64
}

func NewValidator() *StructValidator {
	return &StructValidator{}
}

func (v *StructValidator) stepView(step int, f *FormState) interface{} {
	switch step {
	case 1:
		return personalStep{f.FirstName, f.Surname, f.DateOfBirth, f.Gender,
			f.MaritalStatus, f.District, f.Village, f.HomeProvince}
	case 2:
		return employmentStep{f.EmploymentStatus, f.Occupation, f.MonthlyIncome, f.WorkPhone}
	case 3:
		return loanStep{f.LoanAmount, f.LoanPurpose, f.RepaymentPeriod, f.ExistingLoans}
	case 4:
		return referenceStep{f.ReferenceFullName, f.ReferenceRelationship,
			f.ReferenceAddress, f.ReferencePhone}
	case 5:
		return bankingStep{f.BankName, f.AccountNumber, f.AccountType,
			f.BranchName, f.AccountHolderName}
	default:
		// Steps 6 and 7 carry no form fields of their own; documents
		// and terms have dedicated gates in the controller.
		return nil
	}
}

func (v *StructValidator) ValidateStep(step int, form *FormState) *ValidationError {
	view := v.stepView(step, form)
	if view == nil {
		return nil
	}
	if err := utils.ValidateStruct(view); err != nil {
		return &ValidationError{Step: step, Fields: utils.FormatValidationError(err)}
	}
	if step == 3 {
		if fields := v.checkLoanLimit(form); len(fields) > 0 {
			return &ValidationError{Step: step, Fields: fields}
		}
	}
	return nil
}

func (v *StructValidator) ValidateForm(form *FormState) *ValidationError {
	fields := make(map[string]string)
	for step := 1; step <= 5; step++ {
		if err := utils.ValidateStruct(v.stepView(step, form)); err != nil {
			for k, msg := range utils.FormatValidationError(err) {
				fields[k] = msg
			}
		}
	}
	for k, msg := range v.checkLoanLimit(form) {
		fields[k] = msg
	}
	if len(fields) > 0 {
		return &ValidationError{Step: 0, Fields: fields}
	}
	return nil
}

func (v *StructValidator) checkLoanLimit(form *FormState) map[string]string {
	if v.MaxLoanAmount <= 0 {
		return nil
	}
	if ParseAmount(form.LoanAmount) > v.MaxLoanAmount {
		return map[string]string{
			"loanamount": fmt.Sprintf("loanamount must not exceed %.2f", v.MaxLoanAmount),
		}
	}
	return nil
}
