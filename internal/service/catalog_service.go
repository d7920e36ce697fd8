package service

import (
	"context"
	"fmt"
	"math/rand/v2"

	"guessme/internal/database"
	"guessme/internal/game"
	"guessme/internal/models"
	"guessme/internal/repository"

	"go.uber.org/zap"
)

// CatalogService manages the word catalog: solution picks, guess
// validation, admin edits and bulk import/export
type CatalogService struct {
	db     *database.DB
	logger *zap.SugaredLogger
	intn   func(n int) int
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *database.DB, logger *zap.SugaredLogger) *CatalogService {
	return &CatalogService{db: db, logger: logger, intn: rand.IntN}
}

// ImportResult summarizes a bulk import
type ImportResult struct {
	Added    int `json:"added"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

// PickSolution draws a solution word uniformly at random from those the user
// has never been assigned. It runs on q so the draw and the session insert
// share a transaction.
func (c *CatalogService) PickSolution(ctx context.Context, q database.DBTX, userID int64) (*models.Word, error) {
	words := repository.NewWordRepository(q)

	n, err := words.CountEligible(ctx, userID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoWordsAvailable
	}

	word, err := words.EligibleAt(ctx, userID, c.intn(n))
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, ErrNoWordsAvailable
	}
	return word, nil
}

// IsValidGuess reports whether text, case-insensitively, is in the catalog
func (c *CatalogService) IsValidGuess(ctx context.Context, q database.DBTX, text string) (bool, error) {
	text = game.Normalize(text)
	if !game.WellFormed(text) {
		return false, nil
	}
	word, err := repository.NewWordRepository(q).GetByWord(ctx, text)
	if err != nil {
		return false, err
	}
	return word != nil, nil
}

// MarkUsed sets the advisory used flag. Selection never reads it.
func (c *CatalogService) MarkUsed(ctx context.Context, q database.DBTX, wordID int64) error {
	return repository.NewWordRepository(q).MarkUsed(ctx, wordID)
}

// UseWord marks a word used by its text
func (c *CatalogService) UseWord(ctx context.Context, text string) error {
	words := repository.NewWordRepository(c.db)
	word, err := words.GetByWord(ctx, game.Normalize(text))
	if err != nil {
		return err
	}
	if word == nil {
		return ErrWordNotFound
	}
	return words.MarkUsed(ctx, word.ID)
}

// CheckWord looks a word up without revealing anything but its flags
func (c *CatalogService) CheckWord(ctx context.Context, text string) (*models.WordCheck, error) {
	text = game.Normalize(text)
	check := &models.WordCheck{Word: text}
	if !game.WellFormed(text) {
		return check, nil
	}

	word, err := repository.NewWordRepository(c.db).GetByWord(ctx, text)
	if err != nil {
		return nil, err
	}
	if word != nil {
		check.Valid = true
		check.IsSolution = word.IsSolution
	}
	return check, nil
}

// AddWord adds a word to the catalog. An existing word is promoted to a
// solution when isSolution is set. created reports whether a new row exists.
func (c *CatalogService) AddWord(ctx context.Context, text string, isSolution bool) (word *models.Word, created bool, err error) {
	text = game.Normalize(text)
	if !game.WellFormed(text) {
		return nil, false, validationError(fmt.Sprintf("word must be %d letters a-z", game.WordLength))
	}

	words := repository.NewWordRepository(c.db)
	created, err = words.Insert(ctx, text, isSolution)
	if err != nil {
		return nil, false, err
	}
	word, err = words.GetByWord(ctx, text)
	if err != nil {
		return nil, false, err
	}
	if word == nil {
		return nil, false, fmt.Errorf("word %q missing after insert", text)
	}
	return word, created, nil
}

// Import loads guessable words and solution words in one transaction.
// Anything that is not a 5-letter alphabetic word is skipped; words are
// lowercased. Solutions already present are promoted.
func (c *CatalogService) Import(ctx context.Context, valid, solutions []string) (ImportResult, error) {
	var result ImportResult

	err := c.db.WithTx(ctx, func(tx *database.Tx) error {
		result = ImportResult{}
		words := repository.NewWordRepository(tx)

		load := func(list []string, isSolution bool) error {
			for _, raw := range list {
				text := game.Normalize(raw)
				if !game.WellFormed(text) {
					result.Skipped++
					continue
				}
				created, err := words.Insert(ctx, text, isSolution)
				if err != nil {
					return err
				}
				if created {
					result.Added++
				} else {
					result.Existing++
				}
			}
			return nil
		}

		if err := load(valid, false); err != nil {
			return err
		}
		return load(solutions, true)
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to import words: %w", err)
	}

	c.logger.Infow("words imported", "added", result.Added, "existing", result.Existing, "skipped", result.Skipped)
	return result, nil
}

// Export returns the whole catalog in id order
func (c *CatalogService) Export(ctx context.Context) ([]models.Word, error) {
	return repository.NewWordRepository(c.db).GetAll(ctx)
}
