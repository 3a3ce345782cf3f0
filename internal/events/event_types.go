package events

import (
	"time"

	"github.com/spec-kit/voting-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVoteCast         EventType = "vote_cast"
	EventCandidateCreated EventType = "candidate_created"
	EventCandidateUpdated EventType = "candidate_updated"
	EventCandidateDeleted EventType = "candidate_deleted"
	EventAccountCreated   EventType = "account_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   string             `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// VoteCastPayload payload.
type VoteCastPayload struct {
	CandidateIDs []string `json:"candidate_ids"`
}

// CandidatePayload payload for candidate lifecycle events.
type CandidatePayload struct {
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	Role     domain.SubjectType `json:"role"`
	Username string             `json:"username"`
}
