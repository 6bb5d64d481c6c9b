package income

import (
	"context"
	"sort"
	"strings"
)

// MatchResult is the outcome of comparing a document name against the
// customer profile. A false Match holds the income-document stage
// regardless of Confidence.
type MatchResult struct {
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// NameVerifier decides whether two names belong to the same person.
type NameVerifier interface {
	VerifyNameMatch(ctx context.Context, profileName, extractedName string) (MatchResult, error)
}

// LocalNameVerifier compares names without an external service:
// case-insensitive, order-insensitive token comparison with initial
// matching ("R. Kumar" matches "Rajesh Kumar").
type LocalNameVerifier struct{}

// NewLocalNameVerifier creates the deterministic local verifier.
func NewLocalNameVerifier() *LocalNameVerifier {
	return &LocalNameVerifier{}
}

// VerifyNameMatch compares the two names. It never returns an error.
func (v *LocalNameVerifier) VerifyNameMatch(_ context.Context, profileName, extractedName string) (MatchResult, error) {
	a := nameTokens(profileName)
	b := nameTokens(extractedName)

	if len(a) == 0 || len(b) == 0 {
		return MatchResult{Match: false, Confidence: 0, Reason: "one of the names is empty"}, nil
	}

	if equalTokenSets(a, b) {
		return MatchResult{Match: true, Confidence: 1.0, Reason: "names match exactly"}, nil
	}
	if tokensCompatible(a, b) {
		return MatchResult{Match: true, Confidence: 0.8, Reason: "names match allowing initials and order"}, nil
	}
	return MatchResult{Match: false, Confidence: 0.9, Reason: "names share no compatible components"}, nil
}

func nameTokens(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	sort.Strings(tokens)
	return tokens
}

func equalTokenSets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// tokensCompatible reports whether every token of the shorter name has a
// counterpart in the longer one, where a single letter matches any token
// starting with it.
func tokensCompatible(a, b []string) bool {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}

	used := make([]bool, len(long))
	for _, s := range short {
		found := false
		for i, l := range long {
			if used[i] {
				continue
			}
			if s == l || (len(s) == 1 && strings.HasPrefix(l, s)) || (len(l) == 1 && strings.HasPrefix(s, l)) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
