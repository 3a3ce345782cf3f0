package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/api/dto"
	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/service"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

// AuthHandler exposes login and logout for administrators and voters.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, secureCookie: secureCookie}
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return mapError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": dto.AdminAccount(admin),
			"auth":  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// AdminLogout handles POST /auth/admin/logout.
func (h *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	token, _ := auth.TokenFromRequest(c)
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return mapError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(http.StatusNoContent)
}

// AdminLoginPage handles GET /admin/login, the target of browser redirects.
func (h *AuthHandler) AdminLoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"login":  "/auth/admin/login",
			"method": fiber.MethodPost,
			"fields": []string{"username", "password"},
		},
	})
}

// VoterLogin handles POST /auth/voter/login.
func (h *AuthHandler) VoterLogin(c *fiber.Ctx) error {
	req, err := parseLogin(c)
	if err != nil {
		return err
	}

	voter, token, exp, err := h.auth.LoginVoter(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(fiber.Map{
		"data": dto.VoterLoginResponse{
			Voter: dto.VoterAccount(voter),
			Auth:  dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// VoterLogout handles POST /auth/voter/logout.
func (h *AuthHandler) VoterLogout(c *fiber.Ctx) error {
	token, err := auth.TokenFromRequest(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseLogin(c *fiber.Ctx) (dto.LoginRequest, error) {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return req, apperrors.NewValidationError("username and password required", nil)
	}
	return req, nil
}
