package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finbotics/loanflow/internal/domain"
	"github.com/finbotics/loanflow/internal/underwriting"
)

// Stage handlers. Each handler either produces the turn's reply or
// transitions the session and asks the dispatch loop to continue into
// the next stage. Unparseable user input is always answered with a
// re-prompt at the same stage, never an error.

func (o *Orchestrator) handleGreeting(s *domain.Session) (handlerResult, error) {
	if err := o.advance(s, domain.StageIntentCapture); err != nil {
		return handlerResult{}, err
	}
	return o.reply(s, msgWelcome(), InputText), nil
}

func (o *Orchestrator) handleIntentCapture(s *domain.Session, text string) (handlerResult, error) {
	phone, ok := ExtractPhone(text)
	if !ok {
		return o.reply(s, msgPhoneRetry(), InputText), nil
	}
	s.Phone = phone
	if err := o.advance(s, domain.StageLeadQualification); err != nil {
		return handlerResult{}, err
	}
	return handlerResult{cascade: true}, nil
}

func (o *Orchestrator) handleLeadQualification(ctx context.Context, s *domain.Session) (handlerResult, error) {
	profile, err := o.directory.LookupByPhone(ctx, s.Phone)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		if err := o.advance(s, domain.StageClose); err != nil {
			return handlerResult{}, err
		}
		return o.reply(s, msgNotFound(), InputNone), nil
	}
	if err != nil {
		return handlerResult{}, fmt.Errorf("customer lookup: %w", err)
	}

	s.Customer = profile
	s.Application = domain.NewLoanApplication(profile.ID, s.Phone)
	if err := o.advance(s, domain.StageOfferPresentation); err != nil {
		return handlerResult{}, err
	}
	return o.reply(s, msgQualified(profile.Name, profile.PreApprovedLimit, o.engine.Policy().TenureOptions), InputText), nil
}

func (o *Orchestrator) handleOfferPresentation(s *domain.Session, text string) (handlerResult, error) {
	app := s.Application
	policy := o.engine.Policy()

	if s.Flags.OfferPresented {
		switch {
		case isAffirmative(text):
			if err := o.advance(s, domain.StageKYCVerification); err != nil {
				return handlerResult{}, err
			}
			return handlerResult{cascade: true}, nil
		case wantsTenureChange(text):
			// Renegotiation: drop the presented offer and the tenure,
			// keep the amount.
			s.Flags.OfferPresented = false
			app.RequestedTenure = 0
			return o.reply(s, msgAskNewTenure(policy.TenureOptions), InputText), nil
		default:
			return o.reply(s, msgOfferRetry(), InputText), nil
		}
	}

	if !app.RequestedAmount.IsPositive() {
		if amount, ok := ExtractAmount(text); ok {
			app.RequestedAmount = amount
		}
	}
	if app.RequestedTenure == 0 {
		if months, ok := ExtractTenure(text, policy.TenureOptions); ok {
			if !policy.ValidTenure(months) {
				return o.reply(s, msgInvalidTenure(policy.TenureOptions), InputText), nil
			}
			app.RequestedTenure = months
		}
	}

	if !app.RequestedAmount.IsPositive() {
		return o.reply(s, msgAskAmount(), InputText), nil
	}
	if app.RequestedTenure == 0 {
		return o.reply(s, msgAskTenure(policy.TenureOptions), InputText), nil
	}

	offer := underwriting.ComputeOffer(policy, s.Customer, app.RequestedAmount, app.RequestedTenure)
	app.InterestRate = offer.InterestRate
	app.EMI = offer.EMI
	s.Flags.OfferPresented = true
	return o.reply(s, msgOffer(offer), InputText), nil
}

func (o *Orchestrator) handleKYC(s *domain.Session, text string) (handlerResult, error) {
	if !s.Flags.KYCChecked {
		s.Flags.KYCChecked = true
		switch s.Customer.KYCStatus {
		case domain.KYCVerified:
			s.Flags.KYCVerified = true
			if err := o.advance(s, domain.StageUnderwriting); err != nil {
				return handlerResult{}, err
			}
			return handlerResult{cascade: true}, nil
		case domain.KYCFailed:
			if err := o.advance(s, domain.StageClose); err != nil {
				return handlerResult{}, err
			}
			return o.reply(s, msgKYCFailed(), InputNone), nil
		default:
			return o.reply(s, msgKYCOTP(s.Phone), InputText), nil
		}
	}

	if s.Flags.AwaitingIncomeDoc {
		if isCancellation(text) {
			if err := o.advance(s, domain.StageClose); err != nil {
				return handlerResult{}, err
			}
			return o.reply(s, msgCancelled(), InputNone), nil
		}
		return o.reply(s, msgSalarySlipRetry(), InputFile), nil
	}

	if !s.Flags.KYCVerified {
		// Simulated OTP: any non-empty reply verifies.
		if strings.TrimSpace(text) == "" {
			return o.reply(s, msgKYCOTP(s.Phone), InputText), nil
		}
		s.Flags.KYCVerified = true
	}
	if err := o.advance(s, domain.StageUnderwriting); err != nil {
		return handlerResult{}, err
	}
	return handlerResult{cascade: true}, nil
}

func (o *Orchestrator) handleUnderwriting(s *domain.Session) (handlerResult, error) {
	app := s.Application
	ev := o.engine.Evaluate(s.Customer, app.RequestedAmount, app.RequestedTenure, app.VerifiedSalary())

	app.Decision = ev.Decision
	app.DecisionReason = ev.Reason
	app.ReasonCode = ev.ReasonCode
	if !ev.Rate.IsZero() {
		app.InterestRate = ev.Rate
		app.EMI = ev.EMI
	}

	if ev.Decision == domain.DecisionConditional {
		s.Flags.AwaitingIncomeDoc = true
		if err := o.advance(s, domain.StageKYCVerification); err != nil {
			return handlerResult{}, err
		}
		return o.reply(s, msgSalarySlipRequest(app.RequestedAmount, s.Customer.PreApprovedLimit), InputFile), nil
	}

	if ev.Decision == domain.DecisionApproved {
		app.ApprovedAmount = app.RequestedAmount
		app.ApprovedTenure = app.RequestedTenure
		if app.ApplicationID == "" {
			app.ApplicationID = applicationID(s.ID)
		}
	}
	if err := o.advance(s, domain.StageDecision); err != nil {
		return handlerResult{}, err
	}
	return handlerResult{cascade: true}, nil
}

// handleDecision routes a settled decision onward. Reached in the same
// turn as underwriting; also acts as a safe landing point if a session
// is ever re-entered here.
func (o *Orchestrator) handleDecision(s *domain.Session) (handlerResult, error) {
	if s.Application.Decision == domain.DecisionApproved {
		if err := o.advance(s, domain.StageSanctionIssuance); err != nil {
			return handlerResult{}, err
		}
		return handlerResult{cascade: true}, nil
	}
	if err := o.advance(s, domain.StageClose); err != nil {
		return handlerResult{}, err
	}
	return o.reply(s, msgRejected(s.Application), InputNone), nil
}

func (o *Orchestrator) handleSanction(ctx context.Context, s *domain.Session) (handlerResult, error) {
	app := s.Application
	offer := domain.Offer{
		Amount:       app.ApprovedAmount,
		TenureMonths: app.ApprovedTenure,
		InterestRate: app.InterestRate,
		EMI:          app.EMI,
		TotalPayable: underwriting.TotalPayable(app.EMI, app.ApprovedTenure),
	}

	artifact, err := o.issuer.Issue(ctx, s.Customer, app, offer)
	if err != nil {
		return handlerResult{}, fmt.Errorf("issue sanction letter: %w", err)
	}
	app.SanctionID = artifact.SanctionID
	app.SanctionURL = artifact.URL

	if err := o.advance(s, domain.StageClose); err != nil {
		return handlerResult{}, err
	}
	res := o.reply(s, msgApproved(app, *artifact), InputNone)
	res.out.Metadata = map[string]string{
		"application_id": app.ApplicationID,
		"sanction_id":    artifact.SanctionID,
		"sanction_url":   artifact.URL,
	}
	return res, nil
}

// applicationID derives a stable human-readable application reference
// from the session id.
func applicationID(sessionID string) string {
	trimmed := strings.ReplaceAll(sessionID, "-", "")
	if len(trimmed) > 8 {
		trimmed = trimmed[:8]
	}
	return "APP-" + strings.ToUpper(trimmed)
}
