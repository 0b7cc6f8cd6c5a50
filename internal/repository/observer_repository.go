package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-exam-api/internal/models"
)

// ObserverRepository manages persistence for the observer roster.
type ObserverRepository struct {
	db *sqlx.DB
}

// NewObserverRepository constructs an ObserverRepository.
func NewObserverRepository(db *sqlx.DB) *ObserverRepository {
	return &ObserverRepository{db: db}
}

const observerColumns = "id, full_name, expertise, excluded_committees, excluded_grades, active, created_at, updated_at"

// List returns observers matching filters along with total count.
func (r *ObserverRepository) List(ctx context.Context, filter models.ObserverFilter) ([]models.Observer, int, error) {
	base := "FROM observers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) LIKE $%d OR LOWER(COALESCE(expertise, '')) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "full_name"
	}
	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "full_name"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", observerColumns, base, column, order, size, offset)
	var observers []models.Observer
	if err := r.db.SelectContext(ctx, &observers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list observers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count observers: %w", err)
	}

	return observers, total, nil
}

// ListActive returns every active observer, the pool handed to the planner.
func (r *ObserverRepository) ListActive(ctx context.Context) ([]models.Observer, error) {
	query := fmt.Sprintf("SELECT %s FROM observers WHERE active = TRUE ORDER BY full_name ASC", observerColumns)
	var observers []models.Observer
	if err := r.db.SelectContext(ctx, &observers, query); err != nil {
		return nil, fmt.Errorf("list active observers: %w", err)
	}
	return observers, nil
}

// FindByID fetches an observer by ID.
func (r *ObserverRepository) FindByID(ctx context.Context, id string) (*models.Observer, error) {
	query := fmt.Sprintf("SELECT %s FROM observers WHERE id = $1", observerColumns)
	var observer models.Observer
	if err := r.db.GetContext(ctx, &observer, query, id); err != nil {
		return nil, err
	}
	return &observer, nil
}

// Create inserts a new observer record.
func (r *ObserverRepository) Create(ctx context.Context, observer *models.Observer) error {
	if observer.ID == "" {
		observer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if observer.CreatedAt.IsZero() {
		observer.CreatedAt = now
	}
	observer.UpdatedAt = now
	if observer.ExcludedCommittees == nil {
		observer.ExcludedCommittees = []string{}
	}
	if observer.ExcludedGrades == nil {
		observer.ExcludedGrades = []string{}
	}

	const query = `INSERT INTO observers (id, full_name, expertise, excluded_committees, excluded_grades, active, created_at, updated_at)
		VALUES (:id, :full_name, :expertise, :excluded_committees, :excluded_grades, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, observer); err != nil {
		return fmt.Errorf("create observer: %w", err)
	}
	return nil
}

// Update modifies an existing observer record.
func (r *ObserverRepository) Update(ctx context.Context, observer *models.Observer) error {
	observer.UpdatedAt = time.Now().UTC()
	const query = `UPDATE observers SET full_name = :full_name, expertise = :expertise, excluded_committees = :excluded_committees, excluded_grades = :excluded_grades, active = :active, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, observer)
	if err != nil {
		return fmt.Errorf("update observer: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an observer record. Cascade removal from assignment
// snapshots is handled by the service layer.
func (r *ObserverRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM observers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete observer: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
