package service

import (
	"errors"
	"fmt"

	"github.com/spec-kit/voting-service/internal/domain"
)

var knownErrors = []error{
	domain.ErrCandidateNotFound,
	domain.ErrVoterNotFound,
	domain.ErrAdminNotFound,
	domain.ErrAlreadyVoted,
	domain.ErrEmptySelection,
	domain.ErrSelectionCapExceeded,
	domain.ErrUnknownCandidate,
	domain.ErrUsernameTaken,
	domain.ErrInvalidCredentials,
	domain.ErrInvalidInput,
	domain.ErrUpstream,
}

// upstream passes domain errors through and tags everything else as an upstream failure.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
}

func invalid(message string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, message)
}
