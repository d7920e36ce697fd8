package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guessme/internal/database"
	"guessme/internal/models"
)

// WordRepository handles database operations for the word catalog
type WordRepository struct {
	db database.DBTX
}

// NewWordRepository creates a new word repository
func NewWordRepository(db database.DBTX) *WordRepository {
	return &WordRepository{db: db}
}

// eligibleWhere selects solution words never assigned to the user
const eligibleWhere = `
	is_solution = ?
	AND id NOT IN (SELECT word_id FROM game_sessions WHERE user_id = ?)
`

// CountEligible counts the solution words the user has never been assigned
func (r *WordRepository) CountEligible(ctx context.Context, userID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM words WHERE " + eligibleWhere
	if err := r.db.GetContext(ctx, &count, query, true, userID); err != nil {
		return 0, fmt.Errorf("failed to count eligible words: %w", err)
	}
	return count, nil
}

// EligibleAt returns the eligible solution word at offset in id order
func (r *WordRepository) EligibleAt(ctx context.Context, userID int64, offset int) (*models.Word, error) {
	query := "SELECT id, word, is_solution, used FROM words WHERE " + eligibleWhere +
		" ORDER BY id LIMIT 1 OFFSET ?"

	word := &models.Word{}
	err := r.db.GetContext(ctx, word, query, true, userID, offset)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick eligible word: %w", err)
	}
	return word, nil
}

// GetByWord looks up a catalog entry by its exact (normalized) text
func (r *WordRepository) GetByWord(ctx context.Context, text string) (*models.Word, error) {
	word := &models.Word{}
	err := r.db.GetContext(ctx, word, "SELECT id, word, is_solution, used FROM words WHERE word = ?", text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return word, nil
}

// Insert adds a word unless it already exists and reports whether a row was
// created. When isSolution is set an existing word is promoted to a solution.
func (r *WordRepository) Insert(ctx context.Context, text string, isSolution bool) (bool, error) {
	query := r.db.GetDialect().InsertIgnore("words", "word", "is_solution", "used")
	result, err := r.db.ExecContext(ctx, query, text, isSolution, false)
	if err != nil {
		return false, fmt.Errorf("failed to insert word: %w", err)
	}

	created, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	if created == 0 && isSolution {
		if _, err := r.db.ExecContext(ctx, "UPDATE words SET is_solution = ? WHERE word = ?", true, text); err != nil {
			return false, fmt.Errorf("failed to promote word: %w", err)
		}
	}

	return created > 0, nil
}

// MarkUsed sets the advisory used flag on a word
func (r *WordRepository) MarkUsed(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE words SET used = ? WHERE id = ?", true, id); err != nil {
		return fmt.Errorf("failed to mark word used: %w", err)
	}
	return nil
}

// GetAll returns the full catalog in id order
func (r *WordRepository) GetAll(ctx context.Context) ([]models.Word, error) {
	var words []models.Word
	if err := r.db.SelectContext(ctx, &words, "SELECT id, word, is_solution, used FROM words ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list words: %w", err)
	}
	return words, nil
}
