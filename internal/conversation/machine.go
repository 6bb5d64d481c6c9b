// Package conversation defines the legal stage transitions for the loan
// conversation flow.
package conversation

import (
	"github.com/finbotics/loanflow/internal/domain"
)

// transitions lists the permitted edges of the conversation flow.
// Self-loops cover renegotiation (offer presentation) and waiting for
// OTP or income documents (KYC). Underwriting keeps a back-edge to KYC
// for conditional decisions. KYC exits to close directly on failed
// verification or an explicit cancellation. Close is terminal.
var transitions = map[domain.Stage][]domain.Stage{
	domain.StageGreeting:          {domain.StageIntentCapture},
	domain.StageIntentCapture:     {domain.StageLeadQualification},
	domain.StageLeadQualification: {domain.StageOfferPresentation, domain.StageClose},
	domain.StageOfferPresentation: {domain.StageOfferPresentation, domain.StageKYCVerification},
	domain.StageKYCVerification:   {domain.StageKYCVerification, domain.StageUnderwriting, domain.StageClose},
	domain.StageUnderwriting:      {domain.StageKYCVerification, domain.StageDecision},
	domain.StageDecision:          {domain.StageSanctionIssuance, domain.StageClose},
	domain.StageSanctionIssuance:  {domain.StageClose},
	domain.StageClose:             {},
}

// CanTransition reports whether moving from one stage to another is
// permitted. Pure guard; it never mutates anything.
func CanTransition(from, to domain.Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition applies the guard and, if the move is legal, updates the
// session's stage. Callers must check the return value; on false the
// session is left unchanged.
func Transition(s *domain.Session, to domain.Stage) bool {
	if !CanTransition(s.Stage, to) {
		return false
	}
	s.Stage = to
	return true
}

// Stages returns every stage known to the machine, in flow order.
func Stages() []domain.Stage {
	return []domain.Stage{
		domain.StageGreeting,
		domain.StageIntentCapture,
		domain.StageLeadQualification,
		domain.StageOfferPresentation,
		domain.StageKYCVerification,
		domain.StageUnderwriting,
		domain.StageDecision,
		domain.StageSanctionIssuance,
		domain.StageClose,
	}
}
