package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

type calendarSessionReader interface {
	ListByTerm(ctx context.Context, term models.TermKey) ([]models.ExamSession, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CalendarService derives the per-term calendar index: a flat lookup from
// session id to its time window across every grade level. The index is a
// disposable cache, rebuilt whenever any grade's session list changes.
type CalendarService struct {
	sessions calendarSessionReader
	cache    calendarCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCalendarService wires the calendar index dependencies.
func NewCalendarService(sessions calendarSessionReader, cache calendarCache, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CalendarService{sessions: sessions, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func calendarCacheKey(term models.TermKey) string {
	return fmt.Sprintf("calindex:%s", term)
}

// BuildIndex returns the calendar index for a term, across all grades.
func (s *CalendarService) BuildIndex(ctx context.Context, term models.TermKey) (models.CalendarIndex, error) {
	if !term.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown term %q", term))
	}

	if s.cache != nil {
		var cached models.CalendarIndex
		if err := s.cache.Get(ctx, calendarCacheKey(term), &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("calendar cache read failed", zap.Error(err))
		}
	}

	sessions, err := s.sessions.ListByTerm(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam calendar")
	}

	index := BuildCalendarIndex(sessions)

	if s.cache != nil {
		if err := s.cache.Set(ctx, calendarCacheKey(term), index, s.cacheTTL); err != nil {
			s.logger.Warn("calendar cache write failed", zap.Error(err))
		}
	}
	return index, nil
}

// Invalidate drops the cached index for every term. Called whenever the exam
// calendar changes.
func (s *CalendarService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "calindex:*"); err != nil {
		s.logger.Warn("calendar cache invalidation failed", zap.Error(err))
	}
}

// BuildCalendarIndex flattens sessions into the index without touching any
// collaborator. Pure derivation, usable directly by the planner.
func BuildCalendarIndex(sessions []models.ExamSession) models.CalendarIndex {
	index := make(models.CalendarIndex, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		start := strings.TrimSpace(session.StartLabel)
		end := strings.TrimSpace(session.EndLabel)
		index[session.ID] = models.SessionWindow{
			SessionID:    session.ID,
			Date:         session.DateKey(),
			StartMinutes: ParseClockMinutes(session.StartLabel),
			EndMinutes:   ParseClockMinutes(session.EndLabel),
			GradeLevel:   session.GradeLevel,
			Subject:      session.Subject,
			TimeRange:    start + " - " + end,
		}
	}
	return index
}

// ParseClockMinutes converts a clock label to minutes since midnight. The
// parser is deliberately lenient: non-digit/non-colon characters are
// stripped, and anything that still fails to parse degrades to 0 so a
// malformed schedule never takes the UI down.
func ParseClockMinutes(label string) int {
	var cleaned strings.Builder
	for _, r := range label {
		if (r >= '0' && r <= '9') || r == ':' {
			cleaned.WriteRune(r)
		}
	}

	parts := strings.Split(cleaned.String(), ":")
	if len(parts) < 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}
