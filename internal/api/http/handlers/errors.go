package handlers

import (
	"errors"
	"net/http"

	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/imagehost"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

// mapError translates service errors into the API error envelope.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var uploadErr *imagehost.UploadError
	switch {
	case errors.As(err, &uploadErr):
		return apperrors.NewUploadFailure(uploadErr.Status, err)
	case errors.Is(err, domain.ErrCandidateNotFound):
		return apperrors.NewNotFound("candidate", nil)
	case errors.Is(err, domain.ErrVoterNotFound):
		return apperrors.NewNotFound("voter", nil)
	case errors.Is(err, domain.ErrAdminNotFound):
		return apperrors.NewNotFound("admin", nil)
	case errors.Is(err, domain.ErrAlreadyVoted):
		return apperrors.NewDomainError("ALREADY_VOTED", err.Error(), http.StatusConflict, nil)
	case errors.Is(err, domain.ErrEmptySelection):
		return apperrors.NewBallotRejected("EMPTY_SELECTION", err.Error(), nil)
	case errors.Is(err, domain.ErrSelectionCapExceeded):
		return apperrors.NewBallotRejected("SELECTION_CAP_EXCEEDED", err.Error(), nil)
	case errors.Is(err, domain.ErrUnknownCandidate):
		return apperrors.NewBallotRejected("UNKNOWN_CANDIDATE", err.Error(), nil)
	case errors.Is(err, domain.ErrUsernameTaken):
		return apperrors.NewConflict(err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperrors.NewUnauthorized("invalid username or password")
	case errors.Is(err, domain.ErrInvalidInput):
		return apperrors.NewValidationError(err.Error(), nil)
	case errors.Is(err, domain.ErrUpstream):
		return apperrors.NewUpstreamFailure("upstream service failed", err)
	}
	return apperrors.MapError(err)
}
