package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-api/internal/models"
)

func conflictIndex() models.CalendarIndex {
	return models.CalendarIndex{
		"sess-10a": {SessionID: "sess-10a", Date: "2026-03-09", StartMinutes: 450, EndMinutes: 570, GradeLevel: "grade-10", Subject: "Matematika", TimeRange: "07:30 - 09:30"},
		"sess-11a": {SessionID: "sess-11a", Date: "2026-03-09", StartMinutes: 480, EndMinutes: 600, GradeLevel: "grade-11", Subject: "Fisika", TimeRange: "08:00 - 10:00"},
		"sess-11b": {SessionID: "sess-11b", Date: "2026-03-09", StartMinutes: 600, EndMinutes: 720, GradeLevel: "grade-11", Subject: "Kimia", TimeRange: "10:00 - 12:00"},
	}
}

func TestFindConflictAcrossGrades(t *testing.T) {
	snapshot := &models.AssignmentSnapshot{
		Term: models.Term1,
		Assignments: []models.Assignment{
			{SessionID: "sess-11a", CommitteeID: "com-11", Observers: []string{"obs-1", ""}},
		},
	}
	names := map[string]string{"com-11": "Ruang 201"}

	conflict := findConflict("obs-1", "sess-10a", "com-10", conflictIndex(), snapshot, names)
	require.NotNil(t, conflict, "overlapping sessions on different grades must collide")
	assert.Equal(t, "sess-11a", conflict.SessionID)
	assert.Equal(t, "Ruang 201", conflict.CommitteeName)
	assert.Equal(t, "grade-11", conflict.GradeLevel)
	assert.Equal(t, "08:00 - 10:00", conflict.TimeRange)
}

func TestFindConflictBackToBackIsClean(t *testing.T) {
	snapshot := &models.AssignmentSnapshot{
		Term: models.Term1,
		Assignments: []models.Assignment{
			{SessionID: "sess-11a", CommitteeID: "com-11", Observers: []string{"obs-1", ""}},
		},
	}

	// sess-11b starts exactly when sess-11a ends.
	conflict := findConflict("obs-1", "sess-11b", "com-11", conflictIndex(), snapshot, nil)
	assert.Nil(t, conflict)
}

func TestFindConflictSkipsTargetPair(t *testing.T) {
	snapshot := &models.AssignmentSnapshot{
		Term: models.Term1,
		Assignments: []models.Assignment{
			{SessionID: "sess-10a", CommitteeID: "com-10", Observers: []string{"obs-1", ""}},
		},
	}

	conflict := findConflict("obs-1", "sess-10a", "com-10", conflictIndex(), snapshot, nil)
	assert.Nil(t, conflict, "the target pair itself never counts as a conflict")
}

func TestFindConflictReserveSlotCounts(t *testing.T) {
	snapshot := &models.AssignmentSnapshot{
		Term: models.Term1,
		Assignments: []models.Assignment{
			{SessionID: "sess-11a", CommitteeID: "com-11", Observers: []string{"", ""}, Reserve: "obs-1"},
		},
	}

	conflict := findConflict("obs-1", "sess-10a", "com-10", conflictIndex(), snapshot, nil)
	assert.NotNil(t, conflict, "a reserve placement blocks overlapping sessions too")
}

func TestFindConflictEmptyObserver(t *testing.T) {
	snapshot := &models.AssignmentSnapshot{Term: models.Term1}
	assert.Nil(t, findConflict("", "sess-10a", "com-10", conflictIndex(), snapshot, nil))
}

func TestFindConflictUnknownTargetSession(t *testing.T) {
	snapshot := &models.AssignmentSnapshot{
		Term: models.Term1,
		Assignments: []models.Assignment{
			{SessionID: "sess-11a", CommitteeID: "com-11", Observers: []string{"obs-1"}},
		},
	}
	assert.Nil(t, findConflict("obs-1", "sess-unknown", "com-10", conflictIndex(), snapshot, nil))
}
