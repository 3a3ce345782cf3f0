package dto

import (
	"time"

	"github.com/spec-kit/voting-service/internal/domain"
)

// CandidateResponse is a directory entry.
type CandidateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Candidate maps a domain candidate.
func Candidate(c *domain.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// Candidates maps a list.
func Candidates(list []domain.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(list))
	for i := range list {
		out = append(out, Candidate(&list[i]))
	}
	return out
}
