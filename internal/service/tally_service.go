package service

import (
	"context"
	"time"

	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/repository"
)

// TallyService aggregates recorded ballots into per-candidate counts.
type TallyService struct {
	candidates repository.CandidateRepository
	voters     repository.VoterRepository
	now        func() time.Time
}

// NewTallyService constructs the service.
func NewTallyService(candidates repository.CandidateRepository, voters repository.VoterRepository) *TallyService {
	return &TallyService{candidates: candidates, voters: voters, now: time.Now}
}

// ComputeTally counts, for every candidate in the directory, how many voters chose it.
// Votes for candidates no longer in the directory are ignored.
func (s *TallyService) ComputeTally(ctx context.Context) (*domain.Tally, error) {
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, upstream(err)
	}

	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		counts[c.ID] = 0
	}

	voters, err := s.voters.List(ctx)
	if err != nil {
		return nil, upstream(err)
	}

	total := 0
	for _, voter := range voters {
		for _, id := range voter.Votes {
			if _, ok := counts[id]; ok {
				counts[id]++
				total++
			}
		}
	}

	entries := make([]domain.TallyEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, domain.TallyEntry{
			CandidateID: c.ID,
			Name:        c.Name,
			ImageURL:    c.ImageURL,
			Votes:       counts[c.ID],
		})
	}

	return &domain.Tally{
		Counts:     counts,
		Entries:    entries,
		TotalVotes: total,
		ComputedAt: s.now().UTC(),
	}, nil
}
