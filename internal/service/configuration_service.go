package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type observerConfigRepo interface {
	Get(ctx context.Context) (*models.ObserverConfig, error)
	Save(ctx context.Context, cfg *models.ObserverConfig) error
}

// ConfigurationService reads and rewrites the global assignment settings.
// Shrinking observers_per_committee never truncates persisted snapshots;
// existing slots stay visible until they are cleared by hand.
type ConfigurationService struct {
	repo      observerConfigRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(repo observerConfigRepo, validate *validator.Validate, logger *zap.Logger) *ConfigurationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{repo: repo, validator: validate, logger: logger}
}

// Get returns the current settings, falling back to defaults when the row
// has never been written.
func (s *ConfigurationService) Get(ctx context.Context) (*models.ObserverConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load observer configuration")
	}
	return cfg, nil
}

// Update rewrites the settings.
func (s *ConfigurationService) Update(ctx context.Context, req dto.UpdateObserverConfigRequest) (*models.ObserverConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration payload")
	}
	cfg := &models.ObserverConfig{
		ObserversPerCommittee: req.ObserversPerCommittee,
		MembersPerCorrection:  req.MembersPerCorrection,
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save observer configuration")
	}
	s.logger.Info("observer configuration updated",
		zap.Int("observers_per_committee", cfg.ObserversPerCommittee),
		zap.Int("members_per_correction", cfg.MembersPerCorrection))
	return cfg, nil
}
