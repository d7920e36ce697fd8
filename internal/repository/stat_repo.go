package repository

import (
	"context"
	"fmt"

	"guessme/internal/database"
	"guessme/internal/models"
)

// StatRepository handles database operations for completed game results
type StatRepository struct {
	db database.DBTX
}

// NewStatRepository creates a new game stats repository
func NewStatRepository(db database.DBTX) *StatRepository {
	return &StatRepository{db: db}
}

// Create records the outcome of a completed game
func (r *StatRepository) Create(ctx context.Context, stat *models.GameStat) error {
	query := `
		INSERT INTO game_stats (user_id, game_session_id, day, won, attempts)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, stat.UserID, stat.GameSessionID, stat.Day, stat.Won, stat.Attempts)
	if err != nil {
		return fmt.Errorf("failed to record game stat: %w", err)
	}
	stat.ID = id
	return nil
}

// ExistsForSession reports whether the session's outcome is already recorded
func (r *StatRepository) ExistsForSession(ctx context.Context, sessionID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM game_stats WHERE game_session_id = ?"
	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return false, fmt.Errorf("failed to check game stat: %w", err)
	}
	return count > 0, nil
}

// GetOutcomes returns the won flag of every recorded game in creation order
func (r *StatRepository) GetOutcomes(ctx context.Context, userID int64) ([]bool, error) {
	var outcomes []bool
	query := "SELECT won FROM game_stats WHERE user_id = ? ORDER BY id"
	if err := r.db.SelectContext(ctx, &outcomes, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list game stats: %w", err)
	}
	return outcomes, nil
}
