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

// CommitteeRepository manages persistence for examination committees.
type CommitteeRepository struct {
	db *sqlx.DB
}

// NewCommitteeRepository constructs a CommitteeRepository.
func NewCommitteeRepository(db *sqlx.DB) *CommitteeRepository {
	return &CommitteeRepository{db: db}
}

const committeeColumns = "id, name, location, capacity, grade_level, created_at, updated_at"

// List returns committees matching filters along with total count.
func (r *CommitteeRepository) List(ctx context.Context, filter models.CommitteeFilter) ([]models.Committee, int, error) {
	base := "FROM committees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.GradeLevel != "" {
		conditions = append(conditions, fmt.Sprintf("grade_level = $%d", len(args)+1))
		args = append(args, filter.GradeLevel)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(location) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", committeeColumns, base, size, offset)
	var committees []models.Committee
	if err := r.db.SelectContext(ctx, &committees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list committees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count committees: %w", err)
	}

	return committees, total, nil
}

// ListByGrade returns the committees of one grade level in stable name order.
func (r *CommitteeRepository) ListByGrade(ctx context.Context, gradeLevel string) ([]models.Committee, error) {
	query := fmt.Sprintf("SELECT %s FROM committees WHERE grade_level = $1 ORDER BY name ASC", committeeColumns)
	var committees []models.Committee
	if err := r.db.SelectContext(ctx, &committees, query, gradeLevel); err != nil {
		return nil, fmt.Errorf("list committees by grade: %w", err)
	}
	return committees, nil
}

// ListAll returns every committee across every grade level.
func (r *CommitteeRepository) ListAll(ctx context.Context) ([]models.Committee, error) {
	query := fmt.Sprintf("SELECT %s FROM committees ORDER BY grade_level ASC, name ASC", committeeColumns)
	var committees []models.Committee
	if err := r.db.SelectContext(ctx, &committees, query); err != nil {
		return nil, fmt.Errorf("list all committees: %w", err)
	}
	return committees, nil
}

// FindByID fetches a committee by ID.
func (r *CommitteeRepository) FindByID(ctx context.Context, id string) (*models.Committee, error) {
	query := fmt.Sprintf("SELECT %s FROM committees WHERE id = $1", committeeColumns)
	var committee models.Committee
	if err := r.db.GetContext(ctx, &committee, query, id); err != nil {
		return nil, err
	}
	return &committee, nil
}

// Create inserts a new committee record.
func (r *CommitteeRepository) Create(ctx context.Context, committee *models.Committee) error {
	if committee.ID == "" {
		committee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if committee.CreatedAt.IsZero() {
		committee.CreatedAt = now
	}
	committee.UpdatedAt = now

	const query = `INSERT INTO committees (id, name, location, capacity, grade_level, created_at, updated_at)
		VALUES (:id, :name, :location, :capacity, :grade_level, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, committee); err != nil {
		return fmt.Errorf("create committee: %w", err)
	}
	return nil
}

// Delete removes a committee record. Nulling out snapshot slots that
// reference it is handled by the service layer.
func (r *CommitteeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM committees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete committee: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
