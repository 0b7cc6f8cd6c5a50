package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type committeeRepo interface {
	List(ctx context.Context, filter models.CommitteeFilter) ([]models.Committee, int, error)
	FindByID(ctx context.Context, id string) (*models.Committee, error)
	Create(ctx context.Context, committee *models.Committee) error
	Delete(ctx context.Context, id string) error
}

type committeeCascader interface {
	RemoveCommitteeEverywhere(ctx context.Context, committeeID string) error
}

// CommitteeService manages examination rooms.
type CommitteeService struct {
	repo        committeeRepo
	assignments committeeCascader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCommitteeService constructs a CommitteeService.
func NewCommitteeService(repo committeeRepo, assignments committeeCascader, validate *validator.Validate, logger *zap.Logger) *CommitteeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitteeService{repo: repo, assignments: assignments, validator: validate, logger: logger}
}

// List returns committees plus pagination data.
func (s *CommitteeService) List(ctx context.Context, filter models.CommitteeFilter) ([]models.Committee, *models.Pagination, error) {
	committees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list committees")
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
	return committees, pagination, nil
}

// Get returns a committee by id.
func (s *CommitteeService) Get(ctx context.Context, id string) (*models.Committee, error) {
	committee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "committee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committee")
	}
	return committee, nil
}

// Create registers a new committee room.
func (s *CommitteeService) Create(ctx context.Context, req dto.CreateCommitteeRequest) (*models.Committee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid committee payload")
	}

	committee := &models.Committee{
		Name:       strings.TrimSpace(req.Name),
		Location:   strings.TrimSpace(req.Location),
		Capacity:   req.Capacity,
		GradeLevel: strings.TrimSpace(req.GradeLevel),
	}
	if err := s.repo.Create(ctx, committee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create committee")
	}
	return committee, nil
}

// Delete removes a committee and drops its assignment rows from every term.
func (s *CommitteeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.assignments.RemoveCommitteeEverywhere(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "committee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete committee")
	}
	s.logger.Info("committee deleted", zap.String("committee_id", id))
	return nil
}
