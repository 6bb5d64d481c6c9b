// Package domain defines the core types for the loan conversation flow.
package domain

// Stage identifies a step in the loan conversation flow.
type Stage string

const (
	StageGreeting          Stage = "greeting"
	StageIntentCapture     Stage = "intent_capture"
	StageLeadQualification Stage = "lead_qualification"
	StageOfferPresentation Stage = "offer_presentation"
	StageKYCVerification   Stage = "kyc_verification"
	StageUnderwriting      Stage = "underwriting"
	StageDecision          Stage = "decision"
	StageSanctionIssuance  Stage = "sanction_issuance"
	StageClose             Stage = "close"
)

// Terminal reports whether the stage has no outgoing transitions.
func (s Stage) Terminal() bool {
	return s == StageClose
}

func (s Stage) String() string {
	return string(s)
}
