package domain

import (
	"time"
)

// Message is one entry in the session's conversation history.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// StageFlags is the typed per-stage context for a session. Each flag is
// owned by the stage that sets it: OfferPresented by offer presentation,
// the KYC and income-document flags by KYC verification and
// underwriting. Flags reset only by explicit writes.
type StageFlags struct {
	OfferPresented    bool `json:"offer_presented"`
	KYCChecked        bool `json:"kyc_checked"`
	KYCVerified       bool `json:"kyc_verified"`
	AwaitingIncomeDoc bool `json:"awaiting_income_doc"`
	NameMismatch      bool `json:"name_mismatch"`
}

// Session holds all per-conversation state. Exactly one stage is active
// at a time; the orchestrator is the only writer.
type Session struct {
	ID          string           `json:"id"`
	Phone       string           `json:"phone,omitempty"`
	Customer    *CustomerProfile `json:"customer,omitempty"`
	Application *LoanApplication `json:"application,omitempty"`
	Stage       Stage            `json:"stage"`
	History     []Message        `json:"history"`
	Flags       StageFlags       `json:"flags"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// NewSession creates a session at the greeting stage.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Stage:     StageGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendMessage records a turn in the conversation history.
func (s *Session) AppendMessage(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content, At: time.Now()})
}

// RecentMessages returns the last n history entries.
func (s *Session) RecentMessages(n int) []Message {
	if n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Clone returns a deep copy of the session. The orchestrator works on a
// copy per turn and commits it back to the store only on success, so a
// failed collaborator call leaves the stored session untouched.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Customer != nil {
		c := *s.Customer
		cp.Customer = &c
	}
	if s.Application != nil {
		a := *s.Application
		cp.Application = &a
	}
	if s.History != nil {
		cp.History = make([]Message, len(s.History))
		copy(cp.History, s.History)
	}
	return &cp
}
