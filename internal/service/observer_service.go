package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type observerRepository interface {
	List(ctx context.Context, filter models.ObserverFilter) ([]models.Observer, int, error)
	FindByID(ctx context.Context, id string) (*models.Observer, error)
	Create(ctx context.Context, observer *models.Observer) error
	Update(ctx context.Context, observer *models.Observer) error
	Delete(ctx context.Context, id string) error
}

type observerCascader interface {
	RemoveObserverEverywhere(ctx context.Context, observerID string) error
}

// ObserverService manages the invigilation roster. Deleting an observer
// cascades through every term snapshot so no orphaned slot survives.
type ObserverService struct {
	repo        observerRepository
	assignments observerCascader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewObserverService constructs an ObserverService.
func NewObserverService(repo observerRepository, assignments observerCascader, validate *validator.Validate, logger *zap.Logger) *ObserverService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObserverService{repo: repo, assignments: assignments, validator: validate, logger: logger}
}

// List returns observers plus pagination data.
func (s *ObserverService) List(ctx context.Context, filter models.ObserverFilter) ([]models.Observer, *models.Pagination, error) {
	observers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list observers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return observers, pagination, nil
}

// Get returns an observer by id.
func (s *ObserverService) Get(ctx context.Context, id string) (*models.Observer, error) {
	observer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "observer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer")
	}
	return observer, nil
}

// Create registers a new observer.
func (s *ObserverService) Create(ctx context.Context, req dto.CreateObserverRequest) (*models.Observer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid observer payload")
	}

	observer := &models.Observer{
		FullName:           strings.TrimSpace(req.FullName),
		Expertise:          normalizeOptional(req.Expertise),
		ExcludedCommittees: pq.StringArray(dedupeStrings(req.ExcludedCommittees)),
		ExcludedGrades:     pq.StringArray(dedupeStrings(req.ExcludedGrades)),
		Active:             true,
	}
	if req.Active != nil {
		observer.Active = *req.Active
	}

	if err := s.repo.Create(ctx, observer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create observer")
	}
	return observer, nil
}

// Update edits an observer, including their hard exclusions.
func (s *ObserverService) Update(ctx context.Context, id string, req dto.UpdateObserverRequest) (*models.Observer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid observer payload")
	}
	observer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	observer.FullName = strings.TrimSpace(req.FullName)
	observer.Expertise = normalizeOptional(req.Expertise)
	observer.ExcludedCommittees = pq.StringArray(dedupeStrings(req.ExcludedCommittees))
	observer.ExcludedGrades = pq.StringArray(dedupeStrings(req.ExcludedGrades))
	if req.Active != nil {
		observer.Active = *req.Active
	}

	if err := s.repo.Update(ctx, observer); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "observer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update observer")
	}
	return observer, nil
}

// Delete removes an observer and clears them from every assignment slot.
func (s *ObserverService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.assignments.RemoveObserverEverywhere(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "observer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete observer")
	}
	s.logger.Info("observer deleted", zap.String("observer_id", id))
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func dedupeStrings(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
