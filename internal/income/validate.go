// Package income handles salary-slip uploads: validation, salary
// extraction, and matching the document's name against the customer
// profile.
package income

import (
	"fmt"
	"strings"

	"github.com/finbotics/loanflow/internal/domain"
)

const (
	// MinUploadSize and MaxUploadSize bound acceptable salary slips.
	MinUploadSize = 10 * 1024
	MaxUploadSize = 5 * 1024 * 1024
)

// ValidateUpload checks the filename and size of an uploaded salary
// slip. Only PDF uploads between 10KB and 5MB are accepted. Errors wrap
// domain.ErrInvalidUpload and carry a user-actionable reason.
func ValidateUpload(filename string, sizeBytes int64) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return fmt.Errorf("%w: only PDF files are accepted", domain.ErrInvalidUpload)
	}
	if sizeBytes < MinUploadSize {
		return fmt.Errorf("%w: file is too small to be a valid salary slip", domain.ErrInvalidUpload)
	}
	if sizeBytes > MaxUploadSize {
		return fmt.Errorf("%w: file exceeds the 5MB limit", domain.ErrInvalidUpload)
	}
	return nil
}
