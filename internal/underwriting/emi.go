package underwriting

import (
	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/domain"
)

// Currency rounding policy for the whole engine: two decimal places,
// half away from zero (decimal.Round). Applied once per derived figure;
// intermediate math stays unrounded.
const currencyScale = 2

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Amortize computes the fixed monthly installment for an amortizing
// loan: P*r*(1+r)^n / ((1+r)^n - 1), with r the monthly rate derived
// from the annual percentage. Degenerate inputs yield zero.
func Amortize(principal, annualRatePct decimal.Decimal, tenureMonths int) decimal.Decimal {
	if !principal.IsPositive() || !annualRatePct.IsPositive() || tenureMonths <= 0 {
		return decimal.Zero
	}

	monthlyRate := annualRatePct.Div(twelve).Div(hundred)
	growth := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(int64(tenureMonths)))

	numerator := principal.Mul(monthlyRate).Mul(growth)
	denominator := growth.Sub(decimal.NewFromInt(1))

	return numerator.Div(denominator).Round(currencyScale)
}

// TotalPayable is the sum of all installments over the tenure.
func TotalPayable(emi decimal.Decimal, tenureMonths int) decimal.Decimal {
	return emi.Mul(decimal.NewFromInt(int64(tenureMonths))).Round(currencyScale)
}

// ComputeOffer prices the requested terms for a profile: rate from the
// credit score, EMI from the amortization formula.
func ComputeOffer(p Policy, profile *domain.CustomerProfile, amount decimal.Decimal, tenureMonths int) domain.Offer {
	rate := p.RateForScore(profile.CreditScore)
	emi := Amortize(amount, rate, tenureMonths)
	return domain.Offer{
		Amount:       amount,
		TenureMonths: tenureMonths,
		InterestRate: rate,
		EMI:          emi,
		TotalPayable: TotalPayable(emi, tenureMonths),
	}
}
