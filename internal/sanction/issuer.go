// Package sanction issues the sanction-letter artifact for approved
// applications. Issuance is idempotent per application: repeat calls
// return the artifact minted on the first call.
package sanction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finbotics/loanflow/internal/domain"
)

// Issuer mints sanction artifacts for approved applications.
type Issuer interface {
	Issue(ctx context.Context, customer *domain.CustomerProfile, app *domain.LoanApplication, offer domain.Offer) (*domain.SanctionArtifact, error)
}

// FileIssuer writes sanction letters to a directory and serves them via
// the download endpoint. Artifacts are keyed by application ID so a
// retried issuance returns the same sanction id and file.
type FileIssuer struct {
	dir string

	mu     sync.Mutex
	issued map[string]*domain.SanctionArtifact // application ID -> artifact
}

// NewFileIssuer creates an issuer writing letters under dir.
func NewFileIssuer(dir string) (*FileIssuer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create sanction directory: %w", err)
	}
	return &FileIssuer{
		dir:    dir,
		issued: make(map[string]*domain.SanctionArtifact),
	}, nil
}

// Issue mints a sanction artifact, or returns the previously minted one
// for this application.
func (i *FileIssuer) Issue(_ context.Context, customer *domain.CustomerProfile, app *domain.LoanApplication, offer domain.Offer) (*domain.SanctionArtifact, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	key := app.ApplicationID
	if key == "" {
		return nil, fmt.Errorf("issue sanction: application has no id")
	}
	if artifact, ok := i.issued[key]; ok {
		return artifact, nil
	}

	sanctionID := uuid.NewString()
	issuedAt := time.Now()

	letter := RenderLetter(sanctionID, customer, offer, issuedAt)
	if err := os.WriteFile(i.letterPath(sanctionID), []byte(letter), 0644); err != nil {
		return nil, fmt.Errorf("write sanction letter: %w", err)
	}

	artifact := &domain.SanctionArtifact{
		SanctionID: sanctionID,
		URL:        "/api/sanction/download/" + sanctionID,
		IssuedAt:   issuedAt,
	}
	i.issued[key] = artifact
	return artifact, nil
}

// LetterPath returns the on-disk path for a sanction id, or an error if
// no such letter exists. Ids that are not uuids cannot name a letter.
func (i *FileIssuer) LetterPath(sanctionID string) (string, error) {
	if _, err := uuid.Parse(sanctionID); err != nil {
		return "", domain.ErrSanctionNotFound
	}
	path := i.letterPath(sanctionID)
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrSanctionNotFound
	}
	return path, nil
}

func (i *FileIssuer) letterPath(sanctionID string) string {
	// uuid-shaped ids only; the Filepath join below never escapes dir.
	return filepath.Join(i.dir, "sanction_"+sanctionID+".txt")
}
