package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-api/pkg/errors"
)

func TestParseClockMinutes(t *testing.T) {
	cases := []struct {
		label string
		want  int
	}{
		{"07:30", 450},
		{"07.30 WIB", 0}, // dot separator is stripped, leaving no colon
		{"07:30 WIB", 450},
		{" 10:00 ", 600},
		{"10:00 AM", 600},
		{"morning", 0},
		{"", 0},
		{"13:", 0},
		{"24:00", 1440},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseClockMinutes(tc.label), "label %q", tc.label)
	}
}

func TestBuildCalendarIndex(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	sessions := []models.ExamSession{
		{ID: "sess-1", GradeLevel: "grade-10", Subject: "Matematika", ExamDate: date, StartLabel: "07:30", EndLabel: "09:30"},
		{ID: "sess-2", GradeLevel: "grade-11", Subject: "Fisika", ExamDate: date, StartLabel: "  08:00", EndLabel: "10:00  "},
	}

	index := BuildCalendarIndex(sessions)
	require.Len(t, index, 2)

	w1 := index["sess-1"]
	assert.Equal(t, "2026-03-09", w1.Date)
	assert.Equal(t, 450, w1.StartMinutes)
	assert.Equal(t, 570, w1.EndMinutes)
	assert.Equal(t, "07:30 - 09:30", w1.TimeRange)

	w2 := index["sess-2"]
	assert.Equal(t, 480, w2.StartMinutes)
	assert.Equal(t, "08:00 - 10:00", w2.TimeRange)

	assert.True(t, w1.Overlaps(w2), "overlapping windows on the same date should collide")
}

func TestSessionWindowOverlaps(t *testing.T) {
	base := models.SessionWindow{Date: "2026-03-09", StartMinutes: 450, EndMinutes: 570}

	assert.True(t, base.Overlaps(models.SessionWindow{Date: "2026-03-09", StartMinutes: 560, EndMinutes: 680}))
	assert.False(t, base.Overlaps(models.SessionWindow{Date: "2026-03-09", StartMinutes: 570, EndMinutes: 690}), "back-to-back windows do not overlap")
	assert.False(t, base.Overlaps(models.SessionWindow{Date: "2026-03-10", StartMinutes: 450, EndMinutes: 570}), "different dates never overlap")
}

type stubSessionReader struct {
	sessions []models.ExamSession
	calls    int
}

func (s *stubSessionReader) ListByTerm(ctx context.Context, term models.TermKey) ([]models.ExamSession, error) {
	s.calls++
	return s.sessions, nil
}

func TestCalendarServiceBuildIndexRejectsUnknownTerm(t *testing.T) {
	svc := NewCalendarService(&stubSessionReader{}, nil, 0, nil)

	_, err := svc.BuildIndex(context.Background(), models.TermKey("summer"))
	require.Error(t, err)
	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCalendarServiceBuildIndexWithoutCache(t *testing.T) {
	reader := &stubSessionReader{sessions: []models.ExamSession{
		{ID: "sess-1", ExamDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), StartLabel: "07:30", EndLabel: "09:30"},
	}}
	svc := NewCalendarService(reader, nil, 0, nil)

	index, err := svc.BuildIndex(context.Background(), models.Term1)
	require.NoError(t, err)
	assert.Len(t, index, 1)
	assert.Equal(t, 1, reader.calls)
}
