package domain

import "github.com/shopspring/decimal"

// KYCStatus is the customer's know-your-customer verification state.
type KYCStatus string

const (
	KYCVerified KYCStatus = "verified"
	KYCPending  KYCStatus = "pending"
	KYCFailed   KYCStatus = "failed"
)

// CustomerProfile is a customer record fetched from the customer
// directory. Immutable once attached to a session; a re-fetch within the
// same conversation is not modeled.
type CustomerProfile struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Age              int             `json:"age"`
	City             string          `json:"city"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	CreditScore      int             `json:"credit_score"`
	MonthlySalary    decimal.Decimal `json:"monthly_salary"`
	CurrentLoans     int             `json:"current_loans"`
	PreApprovedLimit decimal.Decimal `json:"pre_approved_limit"`
	KYCStatus        KYCStatus       `json:"kyc_status"`
	Address          string          `json:"address"`
}
