package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/repository"
)

// AccountService lets administrators create and list admin and voter accounts.
type AccountService struct {
	admins     repository.AdminRepository
	voters     repository.VoterRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AdminRepo  repository.AdminRepository
	VoterRepo  repository.VoterRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		admins:     deps.AdminRepo,
		voters:     deps.VoterRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
	}
}

// CreateAdmin registers an administrator. actorID is empty for bootstrap accounts.
func (s *AccountService) CreateAdmin(ctx context.Context, actorID, username, password string) (*domain.Admin, error) {
	username, hash, err := s.prepare(username, password)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{Username: username, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, upstream(err)
	}
	s.publish(ctx, actorID, admin.ID, domain.SubjectTypeAdmin, username)
	return admin, nil
}

// CreateVoter registers a voter who has not voted yet.
func (s *AccountService) CreateVoter(ctx context.Context, actorID, username, password string) (*domain.Voter, error) {
	username, hash, err := s.prepare(username, password)
	if err != nil {
		return nil, err
	}
	voter := &domain.Voter{Username: username, PasswordHash: hash}
	if err := s.voters.Create(ctx, voter); err != nil {
		return nil, upstream(err)
	}
	s.publish(ctx, actorID, voter.ID, domain.SubjectTypeVoter, username)
	return voter, nil
}

// ListAdmins returns every administrator.
func (s *AccountService) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	admins, err := s.admins.List(ctx)
	return admins, upstream(err)
}

// ListVoters returns every voter.
func (s *AccountService) ListVoters(ctx context.Context) ([]domain.Voter, error) {
	voters, err := s.voters.List(ctx)
	return voters, upstream(err)
}

func (s *AccountService) prepare(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", invalid("username and password are required")
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", "", err
	}
	return username, hash, nil
}

func (s *AccountService) publish(ctx context.Context, actorID, subjectID string, role domain.SubjectType, username string) {
	s.logger.Info("account created", zap.String("role", string(role)), zap.String("username", username))
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccountCreated,
		SubjectID: subjectID,
		Actor:     events.Actor{Type: domain.SubjectTypeAdmin, ID: actorID},
		Timestamp: time.Now().UTC(),
		Payload:   events.AccountCreatedPayload{Role: role, Username: username},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
