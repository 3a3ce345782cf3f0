package service

import (
	"context"
	"io"
	"testing"

	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/imagehost"
	"github.com/spec-kit/voting-service/internal/repository/memory"
)

type fixture struct {
	candidates *memory.CandidateStore
	voters     *memory.VoterStore
	selections *memory.SelectionStore
	dispatcher events.Dispatcher
	published  []events.Event
	ballots    *BallotService
	tally      *TallyService
}

func newFixture(t *testing.T, candidateIDs ...string) *fixture {
	t.Helper()
	seed := make([]domain.Candidate, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		seed = append(seed, domain.Candidate{ID: id, Name: "Candidate " + id, ImageURL: "https://img.example/" + id})
	}

	f := &fixture{
		candidates: memory.NewCandidateStore(seed...),
		voters: memory.NewVoterStore(
			domain.Voter{ID: "v1", Username: "v1"},
			domain.Voter{ID: "v2", Username: "v2"},
			domain.Voter{ID: "v3", Username: "v3"},
		),
		selections: memory.NewSelectionStore(),
		dispatcher: events.NewInMemoryDispatcher(),
	}
	f.dispatcher.Subscribe(events.EventVoteCast, func(_ context.Context, e events.Event) error {
		f.published = append(f.published, e)
		return nil
	})
	f.ballots = NewBallotService(BallotDependencies{
		CandidateRepo:  f.candidates,
		VoterRepo:      f.voters,
		SelectionStore: f.selections,
		Dispatcher:     f.dispatcher,
		MaxSelections:  8,
	})
	f.tally = NewTallyService(f.candidates, f.voters)
	return f
}

func (f *fixture) counts(t *testing.T) map[string]int {
	t.Helper()
	tally, err := f.tally.ComputeTally(context.Background())
	if err != nil {
		t.Fatalf("ComputeTally: %v", err)
	}
	return tally.Counts
}

type fakeUploader struct {
	calls int
	uri   string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, _ string, body io.Reader, _ int64, progress imagehost.ProgressFunc) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	_, _ = io.Copy(io.Discard, body)
	if progress != nil {
		progress(100)
	}
	return u.uri, nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('a' + i))
	}
	return out
}
