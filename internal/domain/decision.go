package domain

// Decision is the outcome of an underwriting evaluation.
type Decision string

const (
	DecisionPending     Decision = "pending"
	DecisionApproved    Decision = "approved"
	DecisionRejected    Decision = "rejected"
	DecisionConditional Decision = "conditional"
)

// ReasonCode is a machine-readable code explaining an underwriting decision.
type ReasonCode string

const (
	ReasonLowCreditScore        ReasonCode = "LOW_CREDIT_SCORE"
	ReasonPreApproved           ReasonCode = "PRE_APPROVED"
	ReasonSalaryVerificationReq ReasonCode = "SALARY_VERIFICATION_REQUIRED"
	ReasonApprovedWithSalary    ReasonCode = "APPROVED_WITH_SALARY_VERIFICATION"
	ReasonHighEMIToSalaryRatio  ReasonCode = "HIGH_EMI_TO_SALARY_RATIO"
	ReasonAmountExceedsLimit    ReasonCode = "AMOUNT_EXCEEDS_LIMIT"
)

// Settled reports whether the decision is final for the application
// lifecycle. Conditional decisions feed back into verification and
// pending means no evaluation has run yet.
func (d Decision) Settled() bool {
	return d == DecisionApproved || d == DecisionRejected
}
