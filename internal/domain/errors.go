package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInvalidTransition  = errors.New("invalid stage transition")
	ErrInvalidUpload      = errors.New("invalid upload")
	ErrDocumentUnreadable = errors.New("document could not be parsed")
	ErrNameMismatch       = errors.New("document name does not match profile")
	ErrNotAwaitingUpload  = errors.New("session is not awaiting an income document")
	ErrSanctionNotFound   = errors.New("sanction letter not found")
)
