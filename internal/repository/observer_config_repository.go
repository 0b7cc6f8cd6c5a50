package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-exam-api/internal/models"
)

// ObserverConfigRepository persists the single global ObserverConfig row.
type ObserverConfigRepository struct {
	db *sqlx.DB
}

// NewObserverConfigRepository constructs an ObserverConfigRepository.
func NewObserverConfigRepository(db *sqlx.DB) *ObserverConfigRepository {
	return &ObserverConfigRepository{db: db}
}

// Get returns the stored configuration, falling back to defaults when the
// row has never been written.
func (r *ObserverConfigRepository) Get(ctx context.Context) (*models.ObserverConfig, error) {
	const query = `SELECT observers_per_committee, members_per_correction, updated_at FROM observer_config WHERE id = 1`
	var cfg models.ObserverConfig
	if err := r.db.GetContext(ctx, &cfg, query); err != nil {
		if err == sql.ErrNoRows {
			return &models.ObserverConfig{
				ObserversPerCommittee: models.DefaultObserversPerCommittee,
				MembersPerCorrection:  models.DefaultMembersPerCorrection,
			}, nil
		}
		return nil, fmt.Errorf("get observer config: %w", err)
	}
	return &cfg, nil
}

// Save upserts the configuration row.
func (r *ObserverConfigRepository) Save(ctx context.Context, cfg *models.ObserverConfig) error {
	cfg.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO observer_config (id, observers_per_committee, members_per_correction, updated_at)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET observers_per_committee = EXCLUDED.observers_per_committee, members_per_correction = EXCLUDED.members_per_correction, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, cfg.ObserversPerCommittee, cfg.MembersPerCorrection, cfg.UpdatedAt); err != nil {
		return fmt.Errorf("save observer config: %w", err)
	}
	return nil
}
