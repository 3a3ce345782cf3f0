package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/api/dto"
	"github.com/spec-kit/voting-service/internal/service"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

// AccountsHandler lets administrators manage admin and voter accounts.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// Create POST /admin/accounts.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	actorID, err := currentAdminID(c)
	if err != nil {
		return err
	}
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	switch strings.ToLower(strings.TrimSpace(req.Role)) {
	case dto.RoleAdmin:
		admin, err := h.service.CreateAdmin(c.UserContext(), actorID, req.Username, req.Password)
		if err != nil {
			return mapError(err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AdminAccount(admin)})
	case dto.RoleVoter:
		voter, err := h.service.CreateVoter(c.UserContext(), actorID, req.Username, req.Password)
		if err != nil {
			return mapError(err)
		}
		return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.VoterAccount(voter)})
	default:
		return apperrors.NewValidationError("role must be admin or voter", map[string]any{"role": req.Role})
	}
}

// List GET /admin/accounts.
func (h *AccountsHandler) List(c *fiber.Ctx) error {
	admins, err := h.service.ListAdmins(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	voters, err := h.service.ListVoters(c.UserContext())
	if err != nil {
		return mapError(err)
	}

	adminItems := make([]dto.AccountResponse, 0, len(admins))
	for i := range admins {
		adminItems = append(adminItems, dto.AdminAccount(&admins[i]))
	}
	voterItems := make([]dto.AccountResponse, 0, len(voters))
	for i := range voters {
		voterItems = append(voterItems, dto.VoterAccount(&voters[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"admins": adminItems, "voters": voterItems}})
}
