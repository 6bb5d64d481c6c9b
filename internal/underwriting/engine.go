package underwriting

import (
	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/domain"
)

// Evaluation is the result of running the underwriting rules. Rate and
// EMI are populated for every non-reject outcome that priced the loan;
// EMIRatio only when a verified salary entered the decision.
type Evaluation struct {
	Decision   domain.Decision
	ReasonCode domain.ReasonCode
	Reason     string
	Rate       decimal.Decimal
	EMI        decimal.Decimal
	EMIRatio   decimal.Decimal
}

// Engine evaluates loan applications against a Policy. Pure and
// deterministic: no side effects, identical inputs give identical
// evaluations.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine with the given policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the engine's policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Evaluate runs the underwriting rules in strict priority order; the
// first matching rule wins:
//
//  1. credit score below the floor            -> reject
//  2. amount within the pre-approved limit    -> approve
//  3. amount within the multiplier band       -> conditional without
//     income proof, else ratio-checked approve/reject
//  4. amount beyond the band                  -> reject
//
// verifiedSalary is nil until an income document has been verified; a
// non-positive figure counts as unverified.
func (e *Engine) Evaluate(profile *domain.CustomerProfile, amount decimal.Decimal, tenureMonths int, verifiedSalary *decimal.Decimal) Evaluation {
	p := e.policy

	if profile.CreditScore < p.MinCreditScore {
		return Evaluation{
			Decision:   domain.DecisionRejected,
			ReasonCode: domain.ReasonLowCreditScore,
			Reason:     "credit score below the minimum requirement",
		}
	}

	if amount.LessThanOrEqual(profile.PreApprovedLimit) {
		rate := p.RateForScore(profile.CreditScore)
		return Evaluation{
			Decision:   domain.DecisionApproved,
			ReasonCode: domain.ReasonPreApproved,
			Reason:     "amount within pre-approved limit",
			Rate:       rate,
			EMI:        Amortize(amount, rate, tenureMonths),
		}
	}

	if amount.LessThanOrEqual(p.MaxEligible(profile.PreApprovedLimit)) {
		if verifiedSalary == nil || !verifiedSalary.IsPositive() {
			return Evaluation{
				Decision:   domain.DecisionConditional,
				ReasonCode: domain.ReasonSalaryVerificationReq,
				Reason:     "amount exceeds pre-approved limit, income proof required",
			}
		}

		rate := p.RateForScore(profile.CreditScore)
		emi := Amortize(amount, rate, tenureMonths)
		ratio := emi.Div(*verifiedSalary)

		if ratio.LessThanOrEqual(p.MaxEMIToSalaryRatio) {
			return Evaluation{
				Decision:   domain.DecisionApproved,
				ReasonCode: domain.ReasonApprovedWithSalary,
				Reason:     "installment within the permitted share of verified income",
				Rate:       rate,
				EMI:        emi,
				EMIRatio:   ratio,
			}
		}
		return Evaluation{
			Decision:   domain.DecisionRejected,
			ReasonCode: domain.ReasonHighEMIToSalaryRatio,
			Reason:     "installment exceeds the permitted share of verified income",
			Rate:       rate,
			EMI:        emi,
			EMIRatio:   ratio,
		}
	}

	return Evaluation{
		Decision:   domain.DecisionRejected,
		ReasonCode: domain.ReasonAmountExceedsLimit,
		Reason:     "amount exceeds the maximum eligible amount",
	}
}
