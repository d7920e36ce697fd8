package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guessme/internal/database"
	"guessme/internal/models"
)

// LifeRepository handles database operations for the daily lives ledger
type LifeRepository struct {
	db database.DBTX
}

// NewLifeRepository creates a new daily lives repository
func NewLifeRepository(db database.DBTX) *LifeRepository {
	return &LifeRepository{db: db}
}

// Get returns the ledger row for the user and day, or nil if absent
func (r *LifeRepository) Get(ctx context.Context, userID int64, day string) (*models.DailyLife, error) {
	query := `
		SELECT id, user_id, day, lives_left, hints_used, version
		FROM daily_lives
		WHERE user_id = ? AND day = ?
	`
	life := &models.DailyLife{}
	err := r.db.GetContext(ctx, life, query, userID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily lives: %w", err)
	}
	return life, nil
}

// CreateIfAbsent inserts the ledger row with a full budget. A row created
// concurrently by another request is left untouched.
func (r *LifeRepository) CreateIfAbsent(ctx context.Context, userID int64, day string, lives int) error {
	query := r.db.GetDialect().InsertIgnore("daily_lives", "user_id", "day", "lives_left", "hints_used", "version")
	if _, err := r.db.ExecContext(ctx, query, userID, day, lives, 0, 1); err != nil {
		return fmt.Errorf("failed to create daily lives: %w", err)
	}
	return nil
}

// Spend decrements lives_left, and increments hints_used when hint is set,
// if the row version still matches and a life remains.
func (r *LifeRepository) Spend(ctx context.Context, life *models.DailyLife, hint bool) error {
	hints := 0
	if hint {
		hints = 1
	}

	query := `
		UPDATE daily_lives
		SET lives_left = lives_left - 1, hints_used = hints_used + ?, version = version + 1
		WHERE id = ? AND version = ? AND lives_left > 0
	`
	result, err := r.db.ExecContext(ctx, query, hints, life.ID, life.Version)
	if err != nil {
		return fmt.Errorf("failed to spend life: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read spend result: %w", err)
	}
	if rows == 0 {
		return ErrStaleWrite
	}

	life.LivesLeft--
	life.HintsUsed += hints
	life.Version++
	return nil
}
