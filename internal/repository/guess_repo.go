package repository

import (
	"context"
	"fmt"

	"guessme/internal/database"
	"guessme/internal/models"
)

// GuessRepository handles database operations for guesses
type GuessRepository struct {
	db database.DBTX
}

// NewGuessRepository creates a new guess repository
func NewGuessRepository(db database.DBTX) *GuessRepository {
	return &GuessRepository{db: db}
}

// Create appends a guess to its session
func (r *GuessRepository) Create(ctx context.Context, guess *models.Guess) error {
	query := `
		INSERT INTO guesses (user_id, game_session_id, day, guess, correct)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, guess.UserID, guess.GameSessionID, guess.Day, guess.Guess, guess.Correct)
	if err != nil {
		return fmt.Errorf("failed to create guess: %w", err)
	}
	guess.ID = id
	return nil
}

// GetWordsBySession returns the guessed words of a session in order
func (r *GuessRepository) GetWordsBySession(ctx context.Context, sessionID int64) ([]string, error) {
	var words []string
	query := "SELECT guess FROM guesses WHERE game_session_id = ? ORDER BY id"
	if err := r.db.SelectContext(ctx, &words, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list guesses: %w", err)
	}
	return words, nil
}

// CountBySession counts the guesses made in a session
func (r *GuessRepository) CountBySession(ctx context.Context, sessionID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM guesses WHERE game_session_id = ?"
	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, fmt.Errorf("failed to count guesses: %w", err)
	}
	return count, nil
}
