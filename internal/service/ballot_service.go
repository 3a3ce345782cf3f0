package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/repository"
)

// BallotService drives the per-voter ballot workflow: build a selection, submit it once.
type BallotService struct {
	candidates    repository.CandidateRepository
	voters        repository.VoterRepository
	selections    repository.SelectionStore
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	maxSelections int
}

// BallotDependencies bundles collaborators for the ballot service.
type BallotDependencies struct {
	CandidateRepo  repository.CandidateRepository
	VoterRepo      repository.VoterRepository
	SelectionStore repository.SelectionStore
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxSelections  int
}

// NewBallotService constructs the service.
func NewBallotService(deps BallotDependencies) *BallotService {
	maxSelections := deps.MaxSelections
	if maxSelections <= 0 {
		maxSelections = domain.DefaultMaxSelections
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BallotService{
		candidates:    deps.CandidateRepo,
		voters:        deps.VoterRepo,
		selections:    deps.SelectionStore,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		maxSelections: maxSelections,
	}
}

// Session returns the voter's current ballot. For a voter who has voted this is the
// recorded selection.
func (s *BallotService) Session(ctx context.Context, voterID string) (*domain.Ballot, error) {
	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}
	if voter.HasVoted {
		return s.votedBallot(voter), nil
	}
	selection, err := s.selections.Members(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}
	return s.openBallot(voterID, selection), nil
}

// Toggle adds candidateID to the selection, or removes it when already selected.
func (s *BallotService) Toggle(ctx context.Context, voterID, candidateID string) (*domain.Ballot, error) {
	candidateID = strings.TrimSpace(candidateID)

	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}
	if voter.HasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	selection, err := s.selections.Members(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}

	if contains(selection, candidateID) {
		if err := s.selections.Remove(ctx, voterID, candidateID); err != nil {
			return nil, upstream(err)
		}
		return s.openBallot(voterID, without(selection, candidateID)), nil
	}

	if len(selection) >= s.maxSelections {
		return nil, domain.ErrSelectionCapExceeded
	}
	exists, err := s.candidates.Exists(ctx, candidateID)
	if err != nil {
		return nil, upstream(err)
	}
	if !exists {
		return nil, domain.ErrUnknownCandidate
	}
	if err := s.selections.Add(ctx, voterID, candidateID, s.maxSelections); err != nil {
		return nil, upstream(err)
	}
	return s.openBallot(voterID, append(selection, candidateID)), nil
}

// Submit records the selection accumulated through Toggle.
func (s *BallotService) Submit(ctx context.Context, voterID string) (*domain.Ballot, error) {
	selection, err := s.selections.Members(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}
	return s.SubmitSelection(ctx, voterID, selection)
}

// SubmitSelection validates candidateIDs and records them as the voter's ballot.
// Nothing is written unless every check passes.
func (s *BallotService) SubmitSelection(ctx context.Context, voterID string, candidateIDs []string) (*domain.Ballot, error) {
	selection := normalizeSelection(candidateIDs)
	if len(selection) == 0 {
		return nil, domain.ErrEmptySelection
	}

	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}
	if voter.HasVoted {
		return nil, domain.ErrAlreadyVoted
	}
	if len(selection) > s.maxSelections {
		return nil, domain.ErrSelectionCapExceeded
	}
	for _, id := range selection {
		exists, err := s.candidates.Exists(ctx, id)
		if err != nil {
			return nil, upstream(err)
		}
		if !exists {
			return nil, domain.ErrUnknownCandidate
		}
	}

	voted, err := s.voters.MarkVoted(ctx, voterID, selection)
	if err != nil {
		return nil, upstream(err)
	}

	if err := s.selections.Clear(ctx, voterID); err != nil {
		s.logger.Warn("failed to clear ballot selection", zap.String("voter_id", voterID), zap.Error(err))
	}
	s.logger.Info("vote recorded", zap.String("voter_id", voterID), zap.Int("selections", len(voted.Votes)))
	s.publishVoteCast(ctx, voted)

	return s.votedBallot(voted), nil
}

// Receipt lists the candidates the voter chose and those they did not.
func (s *BallotService) Receipt(ctx context.Context, voterID string) (*domain.Receipt, error) {
	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return nil, upstream(err)
	}
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, upstream(err)
	}

	chosen := make(map[string]struct{}, len(voter.Votes))
	for _, id := range voter.Votes {
		chosen[id] = struct{}{}
	}

	receipt := &domain.Receipt{
		VoterID:   voter.ID,
		Username:  voter.Username,
		Chosen:    []domain.Candidate{},
		NotChosen: []domain.Candidate{},
	}
	for _, c := range candidates {
		if _, ok := chosen[c.ID]; ok {
			receipt.Chosen = append(receipt.Chosen, c)
		} else {
			receipt.NotChosen = append(receipt.NotChosen, c)
		}
	}
	return receipt, nil
}

func (s *BallotService) openBallot(voterID string, selection []string) *domain.Ballot {
	sorted := append([]string{}, selection...)
	sort.Strings(sorted)
	return &domain.Ballot{
		VoterID:       voterID,
		State:         domain.BallotStateNotVoted,
		Selection:     sorted,
		MaxSelections: s.maxSelections,
	}
}

func (s *BallotService) votedBallot(voter *domain.Voter) *domain.Ballot {
	return &domain.Ballot{
		VoterID:       voter.ID,
		State:         domain.BallotStateVoted,
		Selection:     append([]string{}, voter.Votes...),
		MaxSelections: s.maxSelections,
	}
}

func (s *BallotService) publishVoteCast(ctx context.Context, voter *domain.Voter) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVoteCast,
		SubjectID: voter.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeVoter, ID: voter.ID},
		Timestamp: time.Now().UTC(),
		Payload:   events.VoteCastPayload{CandidateIDs: voter.Votes},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// normalizeSelection trims, drops blanks and collapses duplicates, keeping a stable order.
func normalizeSelection(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
