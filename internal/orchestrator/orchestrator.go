// Package orchestrator drives the loan-application conversation. It is
// the only writer of session state: each turn loads the session, works
// on a deep copy, dispatches the active stage handler, and persists the
// copy only when the whole turn succeeded. A collaborator failure
// mid-turn therefore leaves the stored session exactly where it was, so
// the customer can simply retry.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbotics/loanflow/internal/audit"
	"github.com/finbotics/loanflow/internal/conversation"
	"github.com/finbotics/loanflow/internal/crm"
	"github.com/finbotics/loanflow/internal/domain"
	"github.com/finbotics/loanflow/internal/income"
	"github.com/finbotics/loanflow/internal/sanction"
	"github.com/finbotics/loanflow/internal/store"
	"github.com/finbotics/loanflow/internal/underwriting"
)

// maxCascade bounds the number of stage handlers a single turn may run.
// The longest legitimate chain (intent capture through sanction
// issuance) is well inside this; hitting the cap means a handler bug.
const maxCascade = 8

// InputType tells the client what kind of input the next turn expects.
type InputType string

const (
	InputText InputType = "text"
	InputFile InputType = "file"
	InputNone InputType = "none"
)

// Outbound is the orchestrator's reply for one conversation turn.
type Outbound struct {
	SessionID     string            `json:"session_id"`
	Message       string            `json:"message"`
	Stage         domain.Stage      `json:"stage"`
	RequiresInput bool              `json:"requires_input"`
	InputType     InputType         `json:"input_type"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Deps carries the orchestrator's collaborators. Store, Directory,
// Engine and Issuer are required; Transcript and Logger default to
// no-ops when nil.
type Deps struct {
	Store      store.SessionStore
	Directory  crm.Directory
	Engine     *underwriting.Engine
	Issuer     sanction.Issuer
	Parser     income.Parser
	Names      income.NameVerifier
	Transcript audit.Recorder
	Logger     *slog.Logger
}

// Orchestrator routes conversation turns through the stage handlers.
type Orchestrator struct {
	store      store.SessionStore
	directory  crm.Directory
	engine     *underwriting.Engine
	issuer     sanction.Issuer
	parser     income.Parser
	names      income.NameVerifier
	transcript audit.Recorder
	logger     *slog.Logger
	locks      *keyedLocks
}

// New wires an orchestrator from its collaborators.
func New(deps Deps) *Orchestrator {
	if deps.Transcript == nil {
		deps.Transcript = audit.NoopRecorder{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Parser == nil {
		deps.Parser = income.NewLocalParser()
	}
	if deps.Names == nil {
		deps.Names = income.NewLocalNameVerifier()
	}
	return &Orchestrator{
		store:      deps.Store,
		directory:  deps.Directory,
		engine:     deps.Engine,
		issuer:     deps.Issuer,
		parser:     deps.Parser,
		names:      deps.Names,
		transcript: deps.Transcript,
		logger:     deps.Logger,
		locks:      newKeyedLocks(),
	}
}

// Start opens a fresh session and returns the greeting turn.
func (o *Orchestrator) Start(ctx context.Context) (*Outbound, error) {
	return o.Handle(ctx, "", "")
}

// Handle processes one inbound message for the given session. An empty
// session id starts a new conversation. Turns for the same session are
// serialized; a recognized mid-turn failure is reported as a retryable
// reply with the stored session untouched.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, text string) (*Outbound, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	mu := o.locks.acquire(sessionID)
	defer mu.Unlock()

	sess, err := o.store.Get(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		sess = domain.NewSession(sessionID)
	} else if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	work := sess.Clone()
	text = strings.TrimSpace(text)
	if text != "" {
		work.AppendMessage("user", text)
	}

	out, err := o.run(ctx, work, text)
	if err != nil {
		o.logger.Error("conversation turn failed",
			"session_id", sessionID, "stage", sess.Stage, "error", err)
		return o.failure(sessionID, sess.Stage), nil
	}

	work.AppendMessage("assistant", out.Message)
	work.UpdatedAt = time.Now()
	if err := o.store.Put(ctx, work); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	if text != "" {
		o.transcript.Record(audit.Event{
			SessionID: sessionID, Stage: string(sess.Stage), Role: "user", Content: text,
		})
	}
	o.transcript.Record(audit.Event{
		SessionID: sessionID, Stage: string(work.Stage), Role: "assistant", Content: out.Message,
	})
	return out, nil
}

// Session returns a copy of the stored session for inspection. Callers
// may not mutate conversation state through it.
func (o *Orchestrator) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	mu := o.locks.acquire(sessionID)
	defer mu.Unlock()

	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// handlerResult tells the dispatch loop what to do next: a terminal
// reply for this turn, or continue into the (already transitioned)
// next stage.
type handlerResult struct {
	out     *Outbound
	cascade bool
}

func (o *Orchestrator) run(ctx context.Context, s *domain.Session, text string) (*Outbound, error) {
	for i := 0; i < maxCascade; i++ {
		res, err := o.dispatch(ctx, s, text)
		if err != nil {
			return nil, err
		}
		if !res.cascade {
			return res.out, nil
		}
		// Cascaded stages run on state alone; the user's text was
		// consumed by the stage that triggered the cascade.
		text = ""
	}
	return nil, fmt.Errorf("stage cascade exceeded %d steps at %s", maxCascade, s.Stage)
}

func (o *Orchestrator) dispatch(ctx context.Context, s *domain.Session, text string) (handlerResult, error) {
	switch s.Stage {
	case domain.StageGreeting:
		return o.handleGreeting(s)
	case domain.StageIntentCapture:
		return o.handleIntentCapture(s, text)
	case domain.StageLeadQualification:
		return o.handleLeadQualification(ctx, s)
	case domain.StageOfferPresentation:
		return o.handleOfferPresentation(s, text)
	case domain.StageKYCVerification:
		return o.handleKYC(s, text)
	case domain.StageUnderwriting:
		return o.handleUnderwriting(s)
	case domain.StageDecision:
		return o.handleDecision(s)
	case domain.StageSanctionIssuance:
		return o.handleSanction(ctx, s)
	case domain.StageClose:
		return o.reply(s, msgClosed(), InputNone), nil
	default:
		return handlerResult{}, fmt.Errorf("unknown stage %q", s.Stage)
	}
}

// reply builds a terminal result for this turn at the session's current
// stage.
func (o *Orchestrator) reply(s *domain.Session, msg string, input InputType) handlerResult {
	return handlerResult{out: &Outbound{
		SessionID:     s.ID,
		Message:       msg,
		Stage:         s.Stage,
		RequiresInput: input != InputNone,
		InputType:     input,
	}}
}

func (o *Orchestrator) advance(s *domain.Session, to domain.Stage) error {
	if !conversation.Transition(s, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, s.Stage, to)
	}
	return nil
}

func (o *Orchestrator) failure(sessionID string, stage domain.Stage) *Outbound {
	return &Outbound{
		SessionID:     sessionID,
		Message:       msgFailure(),
		Stage:         stage,
		RequiresInput: true,
		InputType:     InputText,
	}
}
