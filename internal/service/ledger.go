package service

import (
	"context"
	"errors"
	"fmt"

	"guessme/internal/database"
	"guessme/internal/models"
	"guessme/internal/repository"
)

const maxSpendAttempts = 3

// Ledger gates every life spend against the user's daily budget
type Ledger struct {
	dailyLives int
}

// NewLedger creates a ledger granting dailyLives per user per day
func NewLedger(dailyLives int) *Ledger {
	return &Ledger{dailyLives: dailyLives}
}

// EnsureToday returns the user's row for day, creating a full budget if absent
func (l *Ledger) EnsureToday(ctx context.Context, q database.DBTX, userID int64, day string) (*models.DailyLife, error) {
	lives := repository.NewLifeRepository(q)

	life, err := lives.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if life != nil {
		return life, nil
	}

	if err := lives.CreateIfAbsent(ctx, userID, day, l.dailyLives); err != nil {
		return nil, err
	}
	life, err = lives.Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if life == nil {
		return nil, fmt.Errorf("daily lives for user %d missing after insert", userID)
	}
	return life, nil
}

// Peek returns the user's row for day without creating it. An absent row
// reads as a full budget.
func (l *Ledger) Peek(ctx context.Context, q database.DBTX, userID int64, day string) (*models.DailyLife, error) {
	life, err := repository.NewLifeRepository(q).Get(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if life == nil {
		return &models.DailyLife{UserID: userID, Day: day, LivesLeft: l.dailyLives}, nil
	}
	return life, nil
}

// Spend takes one life, counting it as a hint when hint is set. It fails
// with ErrNoLivesLeft once the budget is empty. A lost compare-and-swap
// re-reads the row and tries again.
func (l *Ledger) Spend(ctx context.Context, q database.DBTX, userID int64, day string, hint bool) (*models.DailyLife, error) {
	lives := repository.NewLifeRepository(q)

	var err error
	for attempt := 0; attempt < maxSpendAttempts; attempt++ {
		var life *models.DailyLife
		life, err = l.EnsureToday(ctx, q, userID, day)
		if err != nil {
			return nil, err
		}
		if !life.HasLife() {
			return nil, ErrNoLivesLeft
		}

		err = lives.Spend(ctx, life, hint)
		if err == nil {
			return life, nil
		}
		if !errors.Is(err, repository.ErrStaleWrite) {
			return nil, err
		}
	}
	return nil, err
}
