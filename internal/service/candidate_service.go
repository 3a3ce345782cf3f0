package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/domain"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/imagehost"
	"github.com/spec-kit/voting-service/internal/repository"
)

// CandidateService manages the candidate directory.
type CandidateService struct {
	candidates    repository.CandidateRepository
	uploader      imagehost.Uploader
	maxImageBytes int64
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// CandidateDependencies bundles collaborators for the candidate service.
type CandidateDependencies struct {
	CandidateRepo repository.CandidateRepository
	Uploader      imagehost.Uploader
	MaxImageBytes int64
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// ImageInput is an image file to attach to a candidate.
type ImageInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// CandidateInput describes candidate create/update payload.
type CandidateInput struct {
	Name        string
	Description string
	Image       *ImageInput
}

// NewCandidateService constructs the service.
func NewCandidateService(deps CandidateDependencies) *CandidateService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{
		candidates:    deps.CandidateRepo,
		uploader:      deps.Uploader,
		maxImageBytes: deps.MaxImageBytes,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
	}
}

// List returns the whole directory.
func (s *CandidateService) List(ctx context.Context) ([]domain.Candidate, error) {
	list, err := s.candidates.List(ctx)
	return list, upstream(err)
}

// Get returns a single candidate.
func (s *CandidateService) Get(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	return c, upstream(err)
}

// Create adds a candidate. An image is mandatory.
func (s *CandidateService) Create(ctx context.Context, adminID string, input CandidateInput, progress imagehost.ProgressFunc) (*domain.Candidate, error) {
	name, description, err := normalizeCandidate(input)
	if err != nil {
		return nil, err
	}
	if input.Image == nil {
		return nil, invalid("image is required")
	}

	imageURL, err := s.upload(ctx, input.Image, progress)
	if err != nil {
		return nil, err
	}

	candidate := &domain.Candidate{Name: name, Description: description, ImageURL: imageURL}
	if err := s.candidates.Create(ctx, candidate); err != nil {
		return nil, upstream(err)
	}

	s.logger.Info("candidate created", zap.String("candidate_id", candidate.ID), zap.String("admin_id", adminID))
	s.publish(ctx, events.EventCandidateCreated, adminID, candidate)
	return candidate, nil
}

// Update edits a candidate. Without a new image the stored URL is kept.
func (s *CandidateService) Update(ctx context.Context, adminID, id string, input CandidateInput, progress imagehost.ProgressFunc) (*domain.Candidate, error) {
	name, description, err := normalizeCandidate(input)
	if err != nil {
		return nil, err
	}

	candidate, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, upstream(err)
	}

	if input.Image != nil {
		imageURL, err := s.upload(ctx, input.Image, progress)
		if err != nil {
			return nil, err
		}
		candidate.ImageURL = imageURL
	}
	candidate.Name = name
	candidate.Description = description

	if err := s.candidates.Update(ctx, candidate); err != nil {
		return nil, upstream(err)
	}

	s.logger.Info("candidate updated", zap.String("candidate_id", candidate.ID), zap.String("admin_id", adminID))
	s.publish(ctx, events.EventCandidateUpdated, adminID, candidate)
	return candidate, nil
}

// Delete removes a candidate. Votes already recorded for it are left in place and
// ignored by the tally.
func (s *CandidateService) Delete(ctx context.Context, adminID, id string) error {
	if err := s.candidates.Delete(ctx, id); err != nil {
		return upstream(err)
	}
	s.logger.Info("candidate deleted", zap.String("candidate_id", id), zap.String("admin_id", adminID))
	s.publish(ctx, events.EventCandidateDeleted, adminID, &domain.Candidate{ID: id})
	return nil
}

func (s *CandidateService) upload(ctx context.Context, image *ImageInput, progress imagehost.ProgressFunc) (string, error) {
	if err := imagehost.Validate(image.Filename, image.Size, s.maxImageBytes); err != nil {
		return "", invalid(err.Error())
	}
	if s.uploader == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstream, imagehost.ErrNotConfigured)
	}

	uri, err := s.uploader.Upload(ctx, image.Filename, image.Body, image.Size, progress)
	if err != nil {
		var uploadErr *imagehost.UploadError
		if errors.As(err, &uploadErr) {
			return "", err
		}
		return "", upstream(err)
	}
	return uri, nil
}

func (s *CandidateService) publish(ctx context.Context, eventType events.EventType, adminID string, c *domain.Candidate) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: c.ID,
		Actor:     events.Actor{Type: domain.SubjectTypeAdmin, ID: adminID},
		Timestamp: time.Now().UTC(),
		Payload:   events.CandidatePayload{Name: c.Name, ImageURL: c.ImageURL},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func normalizeCandidate(input CandidateInput) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return "", "", invalid("name and description are required")
	}
	return name, description, nil
}
