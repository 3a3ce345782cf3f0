package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/api/dto"
	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/service"
	apperrors "github.com/spec-kit/voting-service/pkg/util"
)

// BallotHandler serves the voter's ballot workflow.
type BallotHandler struct {
	ballots    *service.BallotService
	candidates *service.CandidateService
}

// NewBallotHandler constructs handler.
func NewBallotHandler(ballots *service.BallotService, candidates *service.CandidateService) *BallotHandler {
	return &BallotHandler{ballots: ballots, candidates: candidates}
}

// Show GET /ballot.
func (h *BallotHandler) Show(c *fiber.Ctx) error {
	voter, err := voterPrincipal(c)
	if err != nil {
		return err
	}
	ballot, err := h.ballots.Session(c.UserContext(), voter.ID)
	if err != nil {
		return mapError(err)
	}
	list, err := h.candidates.List(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.BallotPage{
		Candidates: dto.Candidates(list),
		Ballot:     dto.Ballot(ballot),
	}})
}

// Toggle POST /ballot/selection/:candidateId.
func (h *BallotHandler) Toggle(c *fiber.Ctx) error {
	voter, err := voterPrincipal(c)
	if err != nil {
		return err
	}
	ballot, err := h.ballots.Toggle(c.UserContext(), voter.ID, c.Params("candidateId"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ballot(ballot)})
}

// Submit POST /ballot/submit. A body with candidate_ids submits that selection;
// otherwise the toggled selection is submitted.
func (h *BallotHandler) Submit(c *fiber.Ctx) error {
	voter, err := voterPrincipal(c)
	if err != nil {
		return err
	}

	var req dto.SubmitBallotRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	var ballot *domain.Ballot
	if req.CandidateIDs != nil {
		ballot, err = h.ballots.SubmitSelection(c.UserContext(), voter.ID, req.CandidateIDs)
	} else {
		ballot, err = h.ballots.Submit(c.UserContext(), voter.ID)
	}
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Ballot(ballot)})
}

// Receipt GET /ballot/receipt.
func (h *BallotHandler) Receipt(c *fiber.Ctx) error {
	voter, err := voterPrincipal(c)
	if err != nil {
		return err
	}
	receipt, err := h.ballots.Receipt(c.UserContext(), voter.ID)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.Receipt(receipt, voter.VotedAt)})
}

func voterPrincipal(c *fiber.Ctx) (*domain.Voter, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Voter == nil {
		return nil, apperrors.NewUnauthorized("voter required")
	}
	return principal.Voter, nil
}
