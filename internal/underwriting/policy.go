// Package underwriting implements the pure loan decision engine: rate
// selection, EMI amortization, and the priority-ordered approval rules.
package underwriting

import "github.com/shopspring/decimal"

// RateBand maps a minimum credit score to an annual interest rate.
type RateBand struct {
	MinScore int
	Rate     decimal.Decimal
}

// Policy holds the tunable lending rules. Zero-value policies are not
// usable; construct with DefaultPolicy and override as needed.
type Policy struct {
	MinCreditScore        int
	PreApprovedMultiplier decimal.Decimal
	MaxEMIToSalaryRatio   decimal.Decimal
	// RateBands must be sorted by MinScore descending; FallbackRate
	// applies below the lowest band.
	RateBands    []RateBand
	FallbackRate decimal.Decimal
	// TenureOptions is the enumerated set of permitted tenures in months.
	TenureOptions []int
}

// DefaultPolicy returns the standard personal-loan policy.
func DefaultPolicy() Policy {
	return Policy{
		MinCreditScore:        700,
		PreApprovedMultiplier: decimal.NewFromInt(2),
		MaxEMIToSalaryRatio:   decimal.RequireFromString("0.50"),
		RateBands: []RateBand{
			{MinScore: 800, Rate: decimal.RequireFromString("10.5")},
			{MinScore: 750, Rate: decimal.RequireFromString("11.5")},
			{MinScore: 700, Rate: decimal.RequireFromString("12.5")},
		},
		FallbackRate:  decimal.RequireFromString("13.5"),
		TenureOptions: []int{12, 24, 36, 48, 60},
	}
}

// RateForScore picks the annual rate for a credit score from the band
// table. Monotone step function: higher scores never pay more.
func (p Policy) RateForScore(score int) decimal.Decimal {
	for _, band := range p.RateBands {
		if score >= band.MinScore {
			return band.Rate
		}
	}
	return p.FallbackRate
}

// ValidTenure reports whether the tenure is in the permitted set.
func (p Policy) ValidTenure(months int) bool {
	for _, t := range p.TenureOptions {
		if t == months {
			return true
		}
	}
	return false
}

// MaxEligible returns the highest amount the policy can evaluate for a
// profile: the pre-approved limit times the multiplier.
func (p Policy) MaxEligible(preApprovedLimit decimal.Decimal) decimal.Decimal {
	return preApprovedLimit.Mul(p.PreApprovedMultiplier)
}
