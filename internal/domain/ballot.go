package domain

// DefaultMaxSelections is the number of candidates a voter may pick when not configured.
const DefaultMaxSelections = 8

// BallotState is the per-voter position in the ballot workflow.
type BallotState string

const (
	BallotStateNotVoted BallotState = "NOT_VOTED"
	BallotStateVoted    BallotState = "VOTED"
)

// Ballot is the voter-facing view of an in-progress or recorded selection.
type Ballot struct {
	VoterID       string
	State         BallotState
	Selection     []string
	MaxSelections int
}

// Receipt splits the directory into the candidates a voter chose and the rest.
type Receipt struct {
	VoterID   string
	Username  string
	Chosen    []Candidate
	NotChosen []Candidate
}
