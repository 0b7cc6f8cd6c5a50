package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/dto"
	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type examSessionRepo interface {
	ListByTerm(ctx context.Context, term models.TermKey) ([]models.ExamSession, error)
	ListByGradeAndTerm(ctx context.Context, gradeLevel string, term models.TermKey) ([]models.ExamSession, error)
	FindByID(ctx context.Context, id string) (*models.ExamSession, error)
	Create(ctx context.Context, session *models.ExamSession) error
	Delete(ctx context.Context, id string) error
}

type sessionCascader interface {
	RemoveSessionEverywhere(ctx context.Context, sessionID string) error
}

type calendarInvalidator interface {
	Invalidate(ctx context.Context)
}

// ExamSessionService manages the exam schedule feed consumed by the
// assignment engine. Any schedule change invalidates the calendar index.
type ExamSessionService struct {
	repo        examSessionRepo
	assignments sessionCascader
	calendar    calendarInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewExamSessionService constructs an ExamSessionService.
func NewExamSessionService(repo examSessionRepo, assignments sessionCascader, calendar calendarInvalidator, validate *validator.Validate, logger *zap.Logger) *ExamSessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamSessionService{repo: repo, assignments: assignments, calendar: calendar, validator: validate, logger: logger}
}

// List returns sessions for a term, optionally narrowed to one grade.
func (s *ExamSessionService) List(ctx context.Context, term models.TermKey, gradeLevel string) ([]models.ExamSession, error) {
	if !term.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown term")
	}
	var (
		sessions []models.ExamSession
		err      error
	)
	if gradeLevel == "" {
		sessions, err = s.repo.ListByTerm(ctx, term)
	} else {
		sessions, err = s.repo.ListByGradeAndTerm(ctx, gradeLevel, term)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exam sessions")
	}
	return sessions, nil
}

// Get returns a session by id.
func (s *ExamSessionService) Get(ctx context.Context, id string) (*models.ExamSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam session")
	}
	return session, nil
}

// Create schedules a new exam session.
func (s *ExamSessionService) Create(ctx context.Context, req dto.CreateExamSessionRequest) (*models.ExamSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam session payload")
	}
	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exam_date must be formatted as YYYY-MM-DD")
	}

	session := &models.ExamSession{
		GradeLevel:    strings.TrimSpace(req.GradeLevel),
		Term:          models.TermKey(req.Term),
		Subject:       strings.TrimSpace(req.Subject),
		ExamDate:      examDate,
		WeekdayLabel:  strings.TrimSpace(req.WeekdayLabel),
		StartLabel:    strings.TrimSpace(req.StartLabel),
		EndLabel:      strings.TrimSpace(req.EndLabel),
		DurationLabel: strings.TrimSpace(req.DurationLabel),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam session")
	}
	s.calendar.Invalidate(ctx)
	return session, nil
}

// Delete removes a session along with any assignments placed on it.
func (s *ExamSessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.assignments.RemoveSessionEverywhere(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "exam session not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam session")
	}
	s.calendar.Invalidate(ctx)
	s.logger.Info("exam session deleted", zap.String("session_id", id))
	return nil
}
