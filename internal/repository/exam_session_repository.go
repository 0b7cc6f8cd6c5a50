package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-exam-api/internal/models"
)

// ExamSessionRepository reads and writes the exam calendar. Sessions are
// created by the external scheduling screen; the assignment engine treats
// them as immutable input.
type ExamSessionRepository struct {
	db *sqlx.DB
}

// NewExamSessionRepository constructs an ExamSessionRepository.
func NewExamSessionRepository(db *sqlx.DB) *ExamSessionRepository {
	return &ExamSessionRepository{db: db}
}

const sessionColumns = "id, grade_level, term, subject, exam_date, weekday_label, start_label, end_label, duration_label, created_at, updated_at"

// ListByTerm returns every session of the term across all grade levels,
// ordered by date then start label. This is the Calendar Index input.
func (r *ExamSessionRepository) ListByTerm(ctx context.Context, term models.TermKey) ([]models.ExamSession, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_sessions WHERE term = $1 ORDER BY exam_date ASC, start_label ASC", sessionColumns)
	var sessions []models.ExamSession
	if err := r.db.SelectContext(ctx, &sessions, query, term); err != nil {
		return nil, fmt.Errorf("list sessions by term: %w", err)
	}
	return sessions, nil
}

// ListByGradeAndTerm returns the sessions the planner rebuilds.
func (r *ExamSessionRepository) ListByGradeAndTerm(ctx context.Context, gradeLevel string, term models.TermKey) ([]models.ExamSession, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_sessions WHERE grade_level = $1 AND term = $2 ORDER BY exam_date ASC, start_label ASC", sessionColumns)
	var sessions []models.ExamSession
	if err := r.db.SelectContext(ctx, &sessions, query, gradeLevel, term); err != nil {
		return nil, fmt.Errorf("list sessions by grade and term: %w", err)
	}
	return sessions, nil
}

// FindByID fetches a session by ID.
func (r *ExamSessionRepository) FindByID(ctx context.Context, id string) (*models.ExamSession, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_sessions WHERE id = $1", sessionColumns)
	var session models.ExamSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// Create inserts a new exam session.
func (r *ExamSessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	const query = `INSERT INTO exam_sessions (id, grade_level, term, subject, exam_date, weekday_label, start_label, end_label, duration_label, created_at, updated_at)
		VALUES (:id, :grade_level, :term, :subject, :exam_date, :weekday_label, :start_label, :end_label, :duration_label, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create exam session: %w", err)
	}
	return nil
}

// Delete removes an exam session.
func (r *ExamSessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM exam_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam session: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
