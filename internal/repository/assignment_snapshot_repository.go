package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-exam-api/internal/models"
)

// AssignmentSnapshotRepository persists one assignment document per term.
// The whole snapshot is written on every mutation; it is the unit of
// atomicity for swaps and auto-distribution.
type AssignmentSnapshotRepository struct {
	db *sqlx.DB
}

// NewAssignmentSnapshotRepository constructs an AssignmentSnapshotRepository.
func NewAssignmentSnapshotRepository(db *sqlx.DB) *AssignmentSnapshotRepository {
	return &AssignmentSnapshotRepository{db: db}
}

type snapshotRow struct {
	TermKey   string         `db:"term_key"`
	Payload   types.JSONText `db:"payload"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// Get loads the snapshot for a term. A term with no stored document yields an
// empty snapshot rather than an error; assignments are created lazily.
func (r *AssignmentSnapshotRepository) Get(ctx context.Context, term models.TermKey) (*models.AssignmentSnapshot, error) {
	const query = `SELECT term_key, payload, updated_at FROM assignment_snapshots WHERE term_key = $1`
	var row snapshotRow
	if err := r.db.GetContext(ctx, &row, query, term); err != nil {
		if err == sql.ErrNoRows {
			return &models.AssignmentSnapshot{Term: term}, nil
		}
		return nil, fmt.Errorf("get snapshot %s: %w", term, err)
	}

	var snapshot models.AssignmentSnapshot
	if err := json.Unmarshal(row.Payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", term, err)
	}
	snapshot.Term = term
	snapshot.UpdatedAt = row.UpdatedAt
	return &snapshot, nil
}

// Save upserts the whole snapshot document for its term.
func (r *AssignmentSnapshotRepository) Save(ctx context.Context, snapshot *models.AssignmentSnapshot) error {
	snapshot.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snapshot.Term, err)
	}

	const query = `INSERT INTO assignment_snapshots (term_key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (term_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, snapshot.Term, types.JSONText(payload), snapshot.UpdatedAt); err != nil {
		return fmt.Errorf("save snapshot %s: %w", snapshot.Term, err)
	}
	return nil
}

// ListTerms returns every term that has a stored snapshot. Used by the
// roster cascades, which must sweep all terms.
func (r *AssignmentSnapshotRepository) ListTerms(ctx context.Context) ([]models.TermKey, error) {
	const query = `SELECT term_key FROM assignment_snapshots ORDER BY term_key ASC`
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, fmt.Errorf("list snapshot terms: %w", err)
	}
	terms := make([]models.TermKey, len(keys))
	for i, key := range keys {
		terms[i] = models.TermKey(key)
	}
	return terms, nil
}
