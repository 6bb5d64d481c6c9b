package orchestrator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Free-text extraction for the conversational inputs: phone numbers,
// loan amounts, and tenures. Unparseable input is a user-input error
// recovered by re-prompting, never a failure.

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	lakhRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lakhs?|lacs?|l)\b`)
	amountRe   = regexp.MustCompile(`\b(\d{4,})\b`)
	monthsRe   = regexp.MustCompile(`(\d+)\s*(?:months?|mnths?|mos?)\b`)
	yearsRe    = regexp.MustCompile(`(\d+)\s*(?:years?|yrs?|y)\b`)
	numberRe   = regexp.MustCompile(`\b(\d+)\b`)
)

// countryPrefix is stripped from 12-digit numbers.
const countryPrefix = "91"

// ExtractPhone pulls a 10-digit mobile number out of free text. A
// 12-digit number with the recognized country prefix is accepted with
// the prefix stripped.
func ExtractPhone(text string) (string, bool) {
	digits := nonDigitRe.ReplaceAllString(text, "")
	switch {
	case len(digits) == 10:
		return digits, true
	case len(digits) == 12 && strings.HasPrefix(digits, countryPrefix):
		return digits[2:], true
	}
	return "", false
}

// ExtractAmount pulls a loan amount out of free text. Supports "2 lakh",
// "2.5 lacs", "3l" shorthand (x100000) and raw integers of at least
// four digits.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	text = strings.ToLower(text)

	if m := lakhRe.FindStringSubmatch(text); m != nil {
		n, err := decimal.NewFromString(m[1])
		if err == nil {
			return n.Mul(decimal.NewFromInt(100000)), true
		}
	}
	if m := amountRe.FindStringSubmatch(text); m != nil {
		n, err := decimal.NewFromString(m[1])
		if err == nil {
			return n, true
		}
	}
	return decimal.Zero, false
}

// ExtractTenure pulls a tenure in months out of free text: "24 months",
// "2 years" (x12), or a bare number near "tenure"/"period" when it is
// one of the permitted options.
func ExtractTenure(text string, options []int) (int, bool) {
	text = strings.ToLower(text)

	if m := monthsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * 12, true
		}
	}
	if strings.Contains(text, "tenure") || strings.Contains(text, "period") {
		if m := numberRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				for _, opt := range options {
					if n == opt {
						return n, true
					}
				}
			}
		}
	}
	return 0, false
}

// acceptanceVocabulary are the replies treated as accepting the offer.
var acceptanceVocabulary = map[string]bool{
	"yes": true, "y": true, "ok": true, "okay": true,
	"proceed": true, "accept": true, "sure": true,
}

func isAffirmative(text string) bool {
	return acceptanceVocabulary[strings.ToLower(strings.TrimSpace(text))]
}

func wantsTenureChange(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "change") || strings.Contains(t, "modify") || strings.Contains(t, "different")
}

// cancellationVocabulary terminates the application while an income
// document is awaited.
var cancellationVocabulary = map[string]bool{
	"cancel": true, "cancel application": true, "stop": true, "quit": true, "exit": true,
}

func isCancellation(text string) bool {
	return cancellationVocabulary[strings.ToLower(strings.TrimSpace(text))]
}
