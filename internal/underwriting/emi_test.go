package underwriting

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAmortize(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		want      string
	}{
		{"five lakh three years", "500000", "10.5", 36, "16251.22"},
		{"four lakh two years", "400000", "10.5", 24, "18550.42"},
		{"three lakh good score", "300000", "11.5", 24, "14052.09"},
		{"one lakh fair score", "100000", "12.5", 12, "8908.29"},
		{"zero principal", "0", "10.5", 36, "0"},
		{"negative principal", "-1000", "10.5", 36, "0"},
		{"zero rate", "500000", "0", 36, "0"},
		{"zero tenure", "500000", "10.5", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Amortize(dec(tt.principal), dec(tt.rate), tt.months)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Amortize(%s, %s, %d) = %s, want %s", tt.principal, tt.rate, tt.months, got, tt.want)
			}
		})
	}
}

func TestAmortizeMonotoneDecreasingInTenure(t *testing.T) {
	principal := dec("200000")
	rate := dec("10.5")

	prev := decimal.Decimal{}
	for i, months := range []int{12, 24, 36, 48, 60} {
		emi := Amortize(principal, rate, months)
		if i > 0 && emi.GreaterThanOrEqual(prev) {
			t.Errorf("EMI must decrease with tenure: %d months gave %s, previous %s", months, emi, prev)
		}
		prev = emi
	}
}

func TestTotalPayableRoundTrip(t *testing.T) {
	// Sum of installments must approximate principal plus interest:
	// in particular it always exceeds the principal and equals emi*n.
	principal := dec("500000")
	emi := Amortize(principal, dec("10.5"), 36)

	total := TotalPayable(emi, 36)
	if !total.Equal(dec("585043.92")) {
		t.Errorf("TotalPayable = %s, want 585043.92", total)
	}
	if total.LessThanOrEqual(principal) {
		t.Errorf("total payable %s must exceed principal %s", total, principal)
	}
}

func TestRateForScoreStepTable(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		score int
		want  string
	}{
		{820, "10.5"},
		{800, "10.5"},
		{799, "11.5"},
		{750, "11.5"},
		{749, "12.5"},
		{700, "12.5"},
		{699, "13.5"},
		{300, "13.5"},
	}
	for _, tt := range tests {
		if got := p.RateForScore(tt.score); !got.Equal(dec(tt.want)) {
			t.Errorf("RateForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestComputeOffer(t *testing.T) {
	profile := &domain.CustomerProfile{CreditScore: 820}
	offer := ComputeOffer(DefaultPolicy(), profile, dec("400000"), 24)

	if !offer.InterestRate.Equal(dec("10.5")) {
		t.Errorf("rate = %s, want 10.5", offer.InterestRate)
	}
	if !offer.EMI.Equal(dec("18550.42")) {
		t.Errorf("EMI = %s, want 18550.42", offer.EMI)
	}
	if !offer.TotalPayable.Equal(dec("445210.08")) {
		t.Errorf("total payable = %s, want 445210.08", offer.TotalPayable)
	}
}

func TestValidTenure(t *testing.T) {
	p := DefaultPolicy()
	for _, months := range p.TenureOptions {
		if !p.ValidTenure(months) {
			t.Errorf("ValidTenure(%d) = false, want true", months)
		}
	}
	for _, months := range []int{0, 6, 18, 72} {
		if p.ValidTenure(months) {
			t.Errorf("ValidTenure(%d) = true, want false", months)
		}
	}
}
