package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/repository"
)

// AuthService coordinates admin and voter login.
type AuthService struct {
	admins   repository.AdminRepository
	voters   repository.VoterRepository
	denylist repository.TokenDenylist
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo repository.AdminRepository
	VoterRepo repository.VoterRepository
	Denylist  repository.TokenDenylist
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:   deps.AdminRepo,
		voters:   deps.VoterRepo,
		denylist: deps.Denylist,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:   logger,
	}
}

// LoginAdmin authenticates an administrator.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, "", time.Time{}, domain.ErrInvalidCredentials
		}
		return nil, "", time.Time{}, upstream(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		s.logger.Info("admin login rejected", zap.String("username", username))
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, domain.SubjectTypeAdmin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// LoginVoter authenticates a voter. The returned record tells the caller whether to
// show the ballot or the receipt.
func (s *AuthService) LoginVoter(ctx context.Context, username, password string) (*domain.Voter, string, time.Time, error) {
	voter, err := s.voters.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrVoterNotFound) {
			return nil, "", time.Time{}, domain.ErrInvalidCredentials
		}
		return nil, "", time.Time{}, upstream(err)
	}
	if err := auth.ComparePassword(voter.PasswordHash, password); err != nil {
		s.logger.Info("voter login rejected", zap.String("username", username))
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(voter.ID, domain.SubjectTypeVoter)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return voter, token, exp, nil
}

// Logout revokes the token until it expires. Tokens that are already invalid, or carry no
// id, need nothing revoked.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.denylist == nil || token == "" {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return upstream(err)
	}
	s.logger.Info("token revoked", zap.String("subject_id", claims.SubjectID), zap.String("subject", string(claims.Subject)))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
