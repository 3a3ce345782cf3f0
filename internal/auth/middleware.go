package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/repository"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

const principalKey = "auth_principal"

// SessionCookie carries the admin token for browser clients.
const SessionCookie = "admin_session"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Admin       *domain.Admin
	Voter       *domain.Voter
}

// AuthMiddleware validates tokens and loads principals.
type AuthMiddleware struct {
	tokens   *TokenManager
	denylist repository.TokenDenylist
	admins   repository.AdminRepository
	voters   repository.VoterRepository
}

// NewAuthMiddleware constructs middleware. A nil denylist disables revocation checks.
func NewAuthMiddleware(tokens *TokenManager, denylist repository.TokenDenylist, admins repository.AdminRepository, voters repository.VoterRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist, admins: admins, voters: voters}
}

// Handle enforces authentication for protected routes. The token is taken from the
// Authorization header, or from the session cookie when the header is absent.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := TokenFromRequest(c)
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return apperrors.NewUpstreamFailure("token check failed", err)
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	principal := &Principal{SubjectType: claims.Subject}

	switch claims.Subject {
	case domain.SubjectTypeAdmin:
		admin, err := m.admins.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, domain.ErrAdminNotFound) {
				return apperrors.NewUnauthorized("admin not found")
			}
			return apperrors.MapError(err)
		}
		principal.Admin = admin
	case domain.SubjectTypeVoter:
		voter, err := m.voters.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, domain.ErrVoterNotFound) {
				return apperrors.NewUnauthorized("voter not found")
			}
			return apperrors.MapError(err)
		}
		principal.Voter = voter
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie := c.Cookies(SessionCookie); cookie != "" {
		return cookie, nil
	}
	return "", apperrors.NewUnauthorized("missing authorization header")
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
