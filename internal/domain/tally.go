package domain

import "time"

// TallyEntry pairs a candidate's display attributes with its vote count.
type TallyEntry struct {
	CandidateID string
	Name        string
	ImageURL    string
	Votes       int
}

// Tally is a point-in-time count of votes per candidate.
// Every directory candidate has a key in Counts, including those with zero votes.
type Tally struct {
	Counts     map[string]int
	Entries    []TallyEntry
	TotalVotes int
	ComputedAt time.Time
}
