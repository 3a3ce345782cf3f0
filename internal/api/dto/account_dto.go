package dto

import (
	"time"

	"github.com/spec-kit/voting-service/internal/domain"
)

// Account roles accepted by CreateAccountRequest.
const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse is an admin or voter without credentials.
type AccountResponse struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Username  string     `json:"username"`
	HasVoted  *bool      `json:"has_voted,omitempty"`
	VotedAt   *time.Time `json:"voted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// AdminAccount maps an admin record.
func AdminAccount(a *domain.Admin) AccountResponse {
	return AccountResponse{ID: a.ID, Role: RoleAdmin, Username: a.Username, CreatedAt: a.CreatedAt}
}

// VoterAccount maps a voter record.
func VoterAccount(v *domain.Voter) AccountResponse {
	hasVoted := v.HasVoted
	return AccountResponse{
		ID:        v.ID,
		Role:      RoleVoter,
		Username:  v.Username,
		HasVoted:  &hasVoted,
		VotedAt:   v.VotedAt,
		CreatedAt: v.CreatedAt,
	}
}
