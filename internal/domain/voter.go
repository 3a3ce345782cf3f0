package domain

import "time"

// Voter is an account allowed to cast one ballot.
// Once HasVoted is true, Votes never changes.
type Voter struct {
	ID           string
	Username     string
	PasswordHash string
	HasVoted     bool
	Votes        []string
	VotedAt      *time.Time
	CreatedAt    time.Time
}

// Clone returns a copy that shares no slices with v.
func (v *Voter) Clone() *Voter {
	if v == nil {
		return nil
	}
	out := *v
	if v.Votes != nil {
		out.Votes = append([]string(nil), v.Votes...)
	}
	if v.VotedAt != nil {
		at := *v.VotedAt
		out.VotedAt = &at
	}
	return &out
}
