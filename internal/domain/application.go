package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanApplication is the mutable application aggregate owned by a
// Session. RequestedAmount/RequestedTenure start unset (zero) and are
// filled from conversation input; approved fields are snapshotted only
// when the decision becomes approved.
type LoanApplication struct {
	ApplicationID   string          `json:"application_id,omitempty"`
	CustomerID      string          `json:"customer_id,omitempty"`
	Phone           string          `json:"phone"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	RequestedTenure int             `json:"requested_tenure"`
	InterestRate    decimal.Decimal `json:"interest_rate"`
	EMI             decimal.Decimal `json:"emi"`

	Decision       Decision   `json:"decision"`
	DecisionReason string     `json:"decision_reason,omitempty"`
	ReasonCode     ReasonCode `json:"reason_code,omitempty"`

	SalarySlipUploaded bool            `json:"salary_slip_uploaded"`
	SalarySlipURL      string          `json:"salary_slip_url,omitempty"`
	ParsedSalary       decimal.Decimal `json:"parsed_salary"`

	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	ApprovedTenure int             `json:"approved_tenure"`

	SanctionID  string `json:"sanction_id,omitempty"`
	SanctionURL string `json:"sanction_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewLoanApplication creates an application for a qualified customer.
func NewLoanApplication(customerID, phone string) *LoanApplication {
	return &LoanApplication{
		CustomerID: customerID,
		Phone:      phone,
		Decision:   DecisionPending,
		CreatedAt:  time.Now(),
	}
}

// TermsCaptured reports whether both requested amount and tenure are known.
func (a *LoanApplication) TermsCaptured() bool {
	return a.RequestedAmount.IsPositive() && a.RequestedTenure > 0
}

// VerifiedSalary returns the parsed salary if a slip was uploaded, nil
// otherwise. The underwriting engine treats nil as "no income proof".
func (a *LoanApplication) VerifiedSalary() *decimal.Decimal {
	if !a.SalarySlipUploaded {
		return nil
	}
	s := a.ParsedSalary
	return &s
}

// Offer is a value object computed on demand from profile and requested
// terms. It is never persisted independently of the application.
type Offer struct {
	Amount       decimal.Decimal `json:"amount"`
	TenureMonths int             `json:"tenure_months"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	EMI          decimal.Decimal `json:"emi"`
	TotalPayable decimal.Decimal `json:"total_payable"`
}

// SanctionArtifact identifies an issued sanction letter.
type SanctionArtifact struct {
	SanctionID string    `json:"sanction_id"`
	URL        string    `json:"url"`
	IssuedAt   time.Time `json:"issued_at"`
}
