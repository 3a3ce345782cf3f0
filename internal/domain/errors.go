package domain

import "errors"

var (
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrVoterNotFound        = errors.New("voter not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAlreadyVoted         = errors.New("voter has already voted")
	ErrEmptySelection       = errors.New("selection is empty")
	ErrSelectionCapExceeded = errors.New("selection limit reached")
	ErrUnknownCandidate     = errors.New("unknown candidate")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)

var (
	// ErrInvalidInput marks caller mistakes such as blank names or passwords.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream marks a failed call to the database or the image host.
	ErrUpstream = errors.New("upstream service failed")
)
