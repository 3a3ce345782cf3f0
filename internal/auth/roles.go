package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/domain"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

// RequireAdmin ensures an administrator is authenticated.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return apperrors.NewForbidden("admin required")
		}
		return c.Next()
	}
}

// RequireVoter ensures a voter is authenticated.
func RequireVoter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeVoter || principal.Voter == nil {
			return apperrors.NewForbidden("voter required")
		}
		return c.Next()
	}
}

// RedirectBrowsersToLogin sends unauthenticated page loads to loginPath instead of
// returning a JSON 401. API clients are unaffected.
func RedirectBrowsersToLogin(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet || c.Path() == loginPath {
			return c.Next()
		}
		if c.Get(fiber.HeaderAuthorization) != "" || c.Cookies(SessionCookie) != "" {
			return c.Next()
		}
		if !strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
			return c.Next()
		}
		return c.Redirect(loginPath, http.StatusSeeOther)
	}
}
