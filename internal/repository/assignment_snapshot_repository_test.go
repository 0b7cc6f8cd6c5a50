package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-api/internal/models"
)

func newSnapshotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAssignmentSnapshotRepositoryGetMissingYieldsEmpty(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewAssignmentSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT term_key, payload, updated_at FROM assignment_snapshots WHERE term_key = $1")).
		WithArgs(models.Term1).
		WillReturnRows(sqlmock.NewRows([]string{"term_key", "payload", "updated_at"}))

	snapshot, err := repo.Get(context.Background(), models.Term1)
	require.NoError(t, err)
	assert.Equal(t, models.Term1, snapshot.Term)
	assert.Empty(t, snapshot.Assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentSnapshotRepositoryGetDecodesPayload(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewAssignmentSnapshotRepository(db)

	stored := models.AssignmentSnapshot{
		Assignments: []models.Assignment{
			{SessionID: "sess-1", CommitteeID: "com-1", Observers: []string{"obs-1", ""}, Reserve: "obs-2"},
		},
	}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT term_key, payload, updated_at FROM assignment_snapshots WHERE term_key = $1")).
		WithArgs(models.Term2).
		WillReturnRows(sqlmock.NewRows([]string{"term_key", "payload", "updated_at"}).
			AddRow("term2", payload, time.Now()))

	snapshot, err := repo.Get(context.Background(), models.Term2)
	require.NoError(t, err)
	assert.Equal(t, models.Term2, snapshot.Term)
	require.Len(t, snapshot.Assignments, 1)
	assert.Equal(t, "obs-1", snapshot.Assignments[0].Observers[0])
	assert.Equal(t, "obs-2", snapshot.Assignments[0].Reserve)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentSnapshotRepositorySaveUpserts(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewAssignmentSnapshotRepository(db)

	mock.ExpectExec("INSERT INTO assignment_snapshots").
		WithArgs(models.Term1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	snapshot := &models.AssignmentSnapshot{
		Term: models.Term1,
		Assignments: []models.Assignment{
			{SessionID: "sess-1", CommitteeID: "com-1", Observers: []string{"obs-1"}},
		},
	}
	require.NoError(t, repo.Save(context.Background(), snapshot))
	assert.False(t, snapshot.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentSnapshotRepositoryListTerms(t *testing.T) {
	db, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()
	repo := NewAssignmentSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT term_key FROM assignment_snapshots ORDER BY term_key ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"term_key"}).AddRow("term1").AddRow("term2"))

	terms, err := repo.ListTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.TermKey{models.Term1, models.Term2}, terms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
