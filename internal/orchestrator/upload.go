package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finbotics/loanflow/internal/audit"
	"github.com/finbotics/loanflow/internal/domain"
	"github.com/finbotics/loanflow/internal/income"
)

// ProcessIncomeDocument handles a salary-slip upload for a session that
// underwriting placed in the awaiting-income-document state. A valid,
// name-matching document records the verified salary and immediately
// re-runs underwriting; a rejected document leaves the session awaiting
// a fresh upload.
func (o *Orchestrator) ProcessIncomeDocument(ctx context.Context, sessionID, filename string, data []byte) (*Outbound, error) {
	mu := o.locks.acquire(sessionID)
	defer mu.Unlock()

	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Flags.AwaitingIncomeDoc || sess.Stage != domain.StageKYCVerification {
		return nil, domain.ErrNotAwaitingUpload
	}

	if err := income.ValidateUpload(filename, int64(len(data))); err != nil {
		// Invalid file, state unchanged: the customer re-uploads.
		return &Outbound{
			SessionID:     sessionID,
			Message:       uploadRejectionMessage(err),
			Stage:         sess.Stage,
			RequiresInput: true,
			InputType:     InputFile,
		}, nil
	}

	work := sess.Clone()
	app := work.Application

	statement, err := o.parser.Parse(ctx, filename, data)
	if err != nil {
		o.logger.Error("income document parse failed",
			"session_id", sessionID, "filename", filename, "error", err)
		return o.failure(sessionID, sess.Stage), nil
	}

	if statement.EmployeeName != "" {
		match, err := o.names.VerifyNameMatch(ctx, work.Customer.Name, statement.EmployeeName)
		if err != nil {
			o.logger.Error("name verification failed",
				"session_id", sessionID, "error", err)
			return o.failure(sessionID, sess.Stage), nil
		}
		if !match.Match {
			work.Flags.NameMismatch = true
			msg := msgNameMismatch(match.Reason)
			work.AppendMessage("assistant", msg)
			work.UpdatedAt = time.Now()
			if err := o.store.Put(ctx, work); err != nil {
				return nil, fmt.Errorf("persist session: %w", err)
			}
			o.transcript.Record(audit.Event{
				SessionID: sessionID, Stage: string(work.Stage), Role: "assistant", Content: msg,
			})
			return &Outbound{
				SessionID:     sessionID,
				Message:       msg,
				Stage:         work.Stage,
				RequiresInput: true,
				InputType:     InputFile,
			}, nil
		}
	}

	app.SalarySlipUploaded = true
	app.ParsedSalary = statement.MonthlySalary
	app.SalarySlipURL = "/uploads/" + filename
	work.Flags.AwaitingIncomeDoc = false
	work.Flags.NameMismatch = false

	if err := o.advance(work, domain.StageUnderwriting); err != nil {
		return nil, err
	}
	out, err := o.run(ctx, work, "")
	if err != nil {
		o.logger.Error("post-upload assessment failed",
			"session_id", sessionID, "error", err)
		return o.failure(sessionID, sess.Stage), nil
	}

	out.Message = msgUploadAccepted(statement.MonthlySalary) + "\n\n" + out.Message
	work.AppendMessage("assistant", out.Message)
	work.UpdatedAt = time.Now()
	if err := o.store.Put(ctx, work); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	o.transcript.Record(audit.Event{
		SessionID: sessionID, Stage: string(work.Stage), Role: "assistant", Content: out.Message,
	})
	return out, nil
}

func uploadRejectionMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidUpload) {
		return "I could not accept that file: " + trimPrefixError(err) +
			". Please upload your salary slip as a PDF between 10 KB and 5 MB."
	}
	return msgFailure()
}

func trimPrefixError(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrInvalidUpload.Error()+": ")
}
