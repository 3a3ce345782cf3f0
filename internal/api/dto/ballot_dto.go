package dto

import (
	"time"

	"github.com/spec-kit/voting-service/internal/domain"
)

// SubmitBallotRequest optionally carries the full selection. When CandidateIDs is
// omitted the selection built through the toggle endpoint is submitted.
type SubmitBallotRequest struct {
	CandidateIDs []string `json:"candidate_ids"`
}

// BallotResponse describes the voter's ballot.
type BallotResponse struct {
	State         domain.BallotState `json:"state"`
	Selection     []string           `json:"selection"`
	MaxSelections int                `json:"max_selections"`
	Remaining     int                `json:"remaining"`
}

// Ballot maps a domain ballot.
func Ballot(b *domain.Ballot) BallotResponse {
	selection := b.Selection
	if selection == nil {
		selection = []string{}
	}
	remaining := b.MaxSelections - len(selection)
	if remaining < 0 || b.State == domain.BallotStateVoted {
		remaining = 0
	}
	return BallotResponse{
		State:         b.State,
		Selection:     selection,
		MaxSelections: b.MaxSelections,
		Remaining:     remaining,
	}
}

// BallotPage is the ballot view: the directory plus the voter's ballot.
type BallotPage struct {
	Candidates []CandidateResponse `json:"candidates"`
	Ballot     BallotResponse      `json:"ballot"`
}

// ReceiptResponse lists chosen and not-chosen candidates.
type ReceiptResponse struct {
	Username  string              `json:"username"`
	VotedAt   *time.Time          `json:"voted_at,omitempty"`
	Chosen    []CandidateResponse `json:"chosen"`
	NotChosen []CandidateResponse `json:"not_chosen"`
}

// Receipt maps a domain receipt.
func Receipt(r *domain.Receipt, votedAt *time.Time) ReceiptResponse {
	return ReceiptResponse{
		Username:  r.Username,
		VotedAt:   votedAt,
		Chosen:    Candidates(r.Chosen),
		NotChosen: Candidates(r.NotChosen),
	}
}
