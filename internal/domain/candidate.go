package domain

import "time"

// Candidate is an entry in the directory of people eligible to receive votes.
type Candidate struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
