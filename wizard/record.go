package wizard

import (
	"strconv"

	"loanwizard-go/models"
	"loanwizard-go/utils"
)

// applicationColumns flattens FormState into the column map used for
// update-in-place writes. A map (not a struct) so that cleared fields
// and zero amounts still overwrite: draft saves are last-write-wins.
func applicationColumns(form *FormState) (map[string]interface{}, error) {
	encryptedAccount, err := utils.EncryptSensitiveData(form.AccountNumber)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"first_name":     form.FirstName,
		"surname":        form.Surname,
		"date_of_birth":  form.DateOfBirth,
		"gender":         form.Gender,
		"marital_status": form.MaritalStatus,
		"district":       form.District,
		"village":        form.Village,
		"home_province":  form.HomeProvince,

		"employment_status": form.EmploymentStatus,
		"employer_name":     form.EmployerName,
		"occupation":        form.Occupation,
		"monthly_income":    ParseAmount(form.MonthlyIncome),
		"employment_length": form.EmploymentLength,
		"work_address":      form.WorkAddress,
		"work_phone":        form.WorkPhone,

		"loan_amount":          ParseAmount(form.LoanAmount),
		"loan_purpose":         form.LoanPurpose,
		"repayment_period":     ParseMonths(form.RepaymentPeriod),
		"existing_loans":       form.ExistingLoans,
		"existing_loan_detail": form.ExistingLoanDetail,

		"reference_full_name":    form.ReferenceFullName,
		"reference_relationship": form.ReferenceRelationship,
		"reference_address":      form.ReferenceAddress,
		"reference_phone":        form.ReferencePhone,
		"reference_occupation":   form.ReferenceOccupation,

		"bank_name":           form.BankName,
		"account_number":      encryptedAccount,
		"account_type":        form.AccountType,
		"branch_name":         form.BranchName,
		"account_holder_name": form.AccountHolderName,
	}, nil
}

// applicationFromForm builds a fresh record for inserts. Status is set
// by the caller (draft vs pending).
func applicationFromForm(userID uint, form *FormState) (*models.LoanApplication, error) {
	encryptedAccount, err := utils.EncryptSensitiveData(form.AccountNumber)
	if err != nil {
		return nil, err
	}

	return &models.LoanApplication{
		UserID: userID,

		FirstName:     form.FirstName,
		Surname:       form.Surname,
		DateOfBirth:   form.DateOfBirth,
		Gender:        form.Gender,
		MaritalStatus: form.MaritalStatus,
		District:      form.District,
		Village:       form.Village,
		HomeProvince:  form.HomeProvince,

		EmploymentStatus: form.EmploymentStatus,
		EmployerName:     form.EmployerName,
		Occupation:       form.Occupation,
		MonthlyIncome:    ParseAmount(form.MonthlyIncome),
		EmploymentLength: form.EmploymentLength,
		WorkAddress:      form.WorkAddress,
		WorkPhone:        form.WorkPhone,

		LoanAmount:         ParseAmount(form.LoanAmount),
		LoanPurpose:        form.LoanPurpose,
		RepaymentPeriod:    ParseMonths(form.RepaymentPeriod),
		ExistingLoans:      form.ExistingLoans,
		ExistingLoanDetail: form.ExistingLoanDetail,

		ReferenceFullName:     form.ReferenceFullName,
		ReferenceRelationship: form.ReferenceRelationship,
		ReferenceAddress:      form.ReferenceAddress,
		ReferencePhone:        form.ReferencePhone,
		ReferenceOccupation:   form.ReferenceOccupation,

		BankName:          form.BankName,
		AccountNumber:     encryptedAccount,
		AccountType:       form.AccountType,
		BranchName:        form.BranchName,
		AccountHolderName: form.AccountHolderName,
	}, nil
}

// FormFromApplication rebuilds raw form input from a stored draft so a
// reload resumes where the user left off. Numeric columns are rendered
// back to strings; a zero value renders as empty input, mirroring the
// parse fallback.
func FormFromApplication(app *models.LoanApplication) (*FormState, error) {
	account, err := utils.DecryptSensitiveData(app.AccountNumber)
	if err != nil {
		return nil, err
	}

	f := &FormState{
		FirstName:     app.FirstName,
		Surname:       app.Surname,
		DateOfBirth:   app.DateOfBirth,
		Gender:        app.Gender,
		MaritalStatus: app.MaritalStatus,
		District:      app.District,
		Village:       app.Village,
		HomeProvince:  app.HomeProvince,

		EmploymentStatus: app.EmploymentStatus,
		EmployerName:     app.EmployerName,
		Occupation:       app.Occupation,
		EmploymentLength: app.EmploymentLength,
		WorkAddress:      app.WorkAddress,
		WorkPhone:        app.WorkPhone,

		LoanPurpose:        app.LoanPurpose,
		ExistingLoans:      app.ExistingLoans,
		ExistingLoanDetail: app.ExistingLoanDetail,

		ReferenceFullName:     app.ReferenceFullName,
		ReferenceRelationship: app.ReferenceRelationship,
		ReferenceAddress:      app.ReferenceAddress,
		ReferencePhone:        app.ReferencePhone,
		ReferenceOccupation:   app.ReferenceOccupation,

		BankName:          app.BankName,
		AccountNumber:     account,
		AccountType:       app.AccountType,
		BranchName:        app.BranchName,
		AccountHolderName: app.AccountHolderName,
	}

	f.MonthlyIncome = formatAmount(app.MonthlyIncome)
	f.LoanAmount = formatAmount(app.LoanAmount)
	f.RepaymentPeriod = formatMonths(app.RepaymentPeriod)
	return f, nil
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMonths(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
