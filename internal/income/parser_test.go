package income

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finbotics/loanflow/internal/domain"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		ok       bool
	}{
		{"valid pdf", "salary_slip.pdf", 200 * 1024, true},
		{"uppercase extension", "SLIP.PDF", 200 * 1024, true},
		{"at minimum size", "slip.pdf", MinUploadSize, true},
		{"at maximum size", "slip.pdf", MaxUploadSize, true},
		{"not a pdf", "slip.docx", 200 * 1024, false},
		{"no extension", "slip", 200 * 1024, false},
		{"too small", "slip.pdf", MinUploadSize - 1, false},
		{"too large", "slip.pdf", MaxUploadSize + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.size)
			if tt.ok && err != nil {
				t.Errorf("ValidateUpload(%q, %d) = %v, want nil", tt.filename, tt.size, err)
			}
			if !tt.ok {
				if !errors.Is(err, domain.ErrInvalidUpload) {
					t.Errorf("ValidateUpload(%q, %d) = %v, want ErrInvalidUpload", tt.filename, tt.size, err)
				}
			}
		})
	}
}

func TestLocalParserExtractsFromText(t *testing.T) {
	p := NewLocalParser()

	doc := []byte("ACME Corp Payslip\nEmployee Name: Rajesh Kumar\nGross Pay: 102,000\nNet Salary: Rs. 85,000.00\n")
	st, err := p.Parse(context.Background(), "slip.pdf", doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !st.MonthlySalary.Equal(decimal.RequireFromString("85000.00")) {
		t.Errorf("salary = %s, want 85000.00", st.MonthlySalary)
	}
	if st.EmployeeName != "Rajesh Kumar" {
		t.Errorf("name = %q, want Rajesh Kumar", st.EmployeeName)
	}
}

func TestLocalParserTakeHomeLabel(t *testing.T) {
	p := NewLocalParser()

	st, err := p.Parse(context.Background(), "doc.pdf", []byte("Take Home: 62,500"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !st.MonthlySalary.Equal(decimal.RequireFromString("62500")) {
		t.Errorf("salary = %s, want 62500", st.MonthlySalary)
	}
}

func TestLocalParserFilenameFallback(t *testing.T) {
	p := NewLocalParser()

	tests := []struct {
		filename string
		want     string
	}{
		{"salary_85k.pdf", "85000"},
		{"slip_50000.pdf", "50000"},
		{"payslip_75.pdf", "75000"},
		{"salary_slip.pdf", "50000"}, // no digits: demo default
		{"slip_0k.pdf", "50000"},     // zero is not a usable figure
		{"scan_0.pdf", "50000"},
	}

	for _, tt := range tests {
		st, err := p.Parse(context.Background(), tt.filename, []byte("binary content without labels"))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.filename, err)
		}
		if !st.MonthlySalary.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Parse(%q) salary = %s, want %s", tt.filename, st.MonthlySalary, tt.want)
		}
	}
}

func TestLocalNameVerifier(t *testing.T) {
	v := NewLocalNameVerifier()
	ctx := context.Background()

	tests := []struct {
		profile   string
		extracted string
		match     bool
	}{
		{"Rajesh Kumar", "Rajesh Kumar", true},
		{"Rajesh Kumar", "rajesh kumar", true},
		{"Rajesh Kumar", "Kumar Rajesh", true},
		{"Rajesh Kumar", "R. Kumar", true},
		{"Rajesh Kumar", "Rajesh K", true},
		{"Rajesh Kumar", "Priya Sharma", false},
		{"Rajesh Kumar", "", false},
		{"", "Rajesh Kumar", false},
	}

	for _, tt := range tests {
		got, err := v.VerifyNameMatch(ctx, tt.profile, tt.extracted)
		if err != nil {
			t.Fatalf("VerifyNameMatch(%q, %q) failed: %v", tt.profile, tt.extracted, err)
		}
		if got.Match != tt.match {
			t.Errorf("VerifyNameMatch(%q, %q) = %v (%s), want %v",
				tt.profile, tt.extracted, got.Match, got.Reason, tt.match)
		}
	}
}
