package dto

import (
	"time"

	"github.com/spec-kit/voting-service/internal/domain"
)

// TallyEntryResponse is one dashboard row.
type TallyEntryResponse struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url"`
	Votes       int    `json:"votes"`
}

// TallyResponse is the dashboard payload.
type TallyResponse struct {
	Counts     map[string]int       `json:"counts"`
	Entries    []TallyEntryResponse `json:"entries"`
	TotalVotes int                  `json:"total_votes"`
	ComputedAt time.Time            `json:"computed_at"`
}

// Tally maps a domain tally.
func Tally(t *domain.Tally) TallyResponse {
	entries := make([]TallyEntryResponse, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, TallyEntryResponse{
			CandidateID: e.CandidateID,
			Name:        e.Name,
			ImageURL:    e.ImageURL,
			Votes:       e.Votes,
		})
	}
	return TallyResponse{
		Counts:     t.Counts,
		Entries:    entries,
		TotalVotes: t.TotalVotes,
		ComputedAt: t.ComputedAt,
	}
}
