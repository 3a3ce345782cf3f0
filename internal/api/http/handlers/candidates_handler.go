package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/api/dto"
	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/imagehost"
	"github.com/spec-kit/voting-service/internal/service"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

// CandidatesHandler serves the public directory and the admin candidate editor.
type CandidatesHandler struct {
	service *service.CandidateService
	logger  *zap.Logger
}

// NewCandidatesHandler constructs handler.
func NewCandidatesHandler(candidateService *service.CandidateService, logger *zap.Logger) *CandidatesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidatesHandler{service: candidateService, logger: logger}
}

// List GET /candidates and GET /admin/candidates.
func (h *CandidatesHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Candidates(list)})
}

// Get GET /admin/candidates/:id.
func (h *CandidatesHandler) Get(c *fiber.Ctx) error {
	candidate, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Candidate(candidate)})
}

// Create POST /admin/candidates (multipart: name, description, image).
func (h *CandidatesHandler) Create(c *fiber.Ctx) error {
	adminID, err := currentAdminID(c)
	if err != nil {
		return err
	}
	input, closeImage, err := h.parseForm(c, true)
	if err != nil {
		return err
	}
	defer closeImage()

	candidate, err := h.service.Create(c.UserContext(), adminID, input, h.progress(c))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.Candidate(candidate)})
}

// Update PUT /admin/candidates/:id. The image part is optional.
func (h *CandidatesHandler) Update(c *fiber.Ctx) error {
	adminID, err := currentAdminID(c)
	if err != nil {
		return err
	}
	input, closeImage, err := h.parseForm(c, false)
	if err != nil {
		return err
	}
	defer closeImage()

	candidate, err := h.service.Update(c.UserContext(), adminID, c.Params("id"), input, h.progress(c))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Candidate(candidate)})
}

// Delete DELETE /admin/candidates/:id.
func (h *CandidatesHandler) Delete(c *fiber.Ctx) error {
	adminID, err := currentAdminID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), adminID, c.Params("id")); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *CandidatesHandler) parseForm(c *fiber.Ctx, requireImage bool) (service.CandidateInput, func(), error) {
	input := service.CandidateInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}
	noop := func() {}

	header, err := c.FormFile("image")
	if err != nil {
		if requireImage {
			return input, noop, apperrors.NewValidationError("image is required", nil)
		}
		return input, noop, nil
	}

	file, err := header.Open()
	if err != nil {
		return input, noop, apperrors.NewValidationError("unreadable image", nil)
	}
	input.Image = &service.ImageInput{Filename: header.Filename, Size: header.Size, Body: file}
	return input, closer(file), nil
}

func (h *CandidatesHandler) progress(c *fiber.Ctx) imagehost.ProgressFunc {
	path := c.Path()
	return func(percent int) {
		h.logger.Debug("image upload progress", zap.String("path", path), zap.Int("percent", percent))
	}
}

func closer(file multipart.File) func() {
	return func() { _ = file.Close() }
}

func currentAdminID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return "", apperrors.NewUnauthorized("admin required")
	}
	return principal.Admin.ID, nil
}
