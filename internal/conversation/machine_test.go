package conversation

import (
	"testing"

	"github.com/finbotics/loanflow/internal/domain"
)

// allowed mirrors the permitted edge table so the exhaustive check below
// is written against an independent copy.
var allowed = map[domain.Stage]map[domain.Stage]bool{
	domain.StageGreeting:          {domain.StageIntentCapture: true},
	domain.StageIntentCapture:     {domain.StageLeadQualification: true},
	domain.StageLeadQualification: {domain.StageOfferPresentation: true, domain.StageClose: true},
	domain.StageOfferPresentation: {domain.StageOfferPresentation: true, domain.StageKYCVerification: true},
	domain.StageKYCVerification:   {domain.StageKYCVerification: true, domain.StageUnderwriting: true, domain.StageClose: true},
	domain.StageUnderwriting:      {domain.StageKYCVerification: true, domain.StageDecision: true},
	domain.StageDecision:          {domain.StageSanctionIssuance: true, domain.StageClose: true},
	domain.StageSanctionIssuance:  {domain.StageClose: true},
	domain.StageClose:             {},
}

func TestCanTransitionExhaustive(t *testing.T) {
	for _, from := range Stages() {
		for _, to := range Stages() {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCloseIsTerminal(t *testing.T) {
	for _, to := range Stages() {
		if CanTransition(domain.StageClose, to) {
			t.Errorf("close must have no outgoing transition, but close -> %s allowed", to)
		}
	}
	if !domain.StageClose.Terminal() {
		t.Error("StageClose.Terminal() = false, want true")
	}
}

func TestTransitionAppliesOnlyLegalMoves(t *testing.T) {
	s := domain.NewSession("s1")

	if ok := Transition(s, domain.StageOfferPresentation); ok {
		t.Fatal("greeting -> offer_presentation should be rejected")
	}
	if s.Stage != domain.StageGreeting {
		t.Fatalf("rejected transition must leave stage unchanged, got %s", s.Stage)
	}

	if ok := Transition(s, domain.StageIntentCapture); !ok {
		t.Fatal("greeting -> intent_capture should be allowed")
	}
	if s.Stage != domain.StageIntentCapture {
		t.Fatalf("expected stage intent_capture, got %s", s.Stage)
	}
}

func TestSelfLoops(t *testing.T) {
	for _, stage := range []domain.Stage{domain.StageOfferPresentation, domain.StageKYCVerification} {
		if !CanTransition(stage, stage) {
			t.Errorf("expected self-loop on %s", stage)
		}
	}
	for _, stage := range []domain.Stage{domain.StageGreeting, domain.StageUnderwriting, domain.StageClose} {
		if CanTransition(stage, stage) {
			t.Errorf("unexpected self-loop on %s", stage)
		}
	}
}

func TestUnderwritingBackEdge(t *testing.T) {
	if !CanTransition(domain.StageUnderwriting, domain.StageKYCVerification) {
		t.Error("underwriting must be able to return to kyc_verification for income proof")
	}
}

func TestKYCExitsToClose(t *testing.T) {
	if !CanTransition(domain.StageKYCVerification, domain.StageClose) {
		t.Error("kyc_verification must close directly on failed verification or cancellation")
	}
}
