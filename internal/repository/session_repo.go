package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guessme/internal/database"
	"guessme/internal/models"
)

// SessionRepository handles database operations for game sessions
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new game session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionSelect = `
	SELECT gs.id, gs.user_id, gs.word_id, w.word AS solution, gs.day, gs.active,
		gs.hint_mask, gs.version, gs.created_at
	FROM game_sessions gs
	JOIN words w ON w.id = gs.word_id
`

// Create inserts a new active session bound to wordID
func (r *SessionRepository) Create(ctx context.Context, userID, wordID int64, day, hintMask string) (int64, error) {
	query := `
		INSERT INTO game_sessions (user_id, word_id, day, active, hint_mask, version)
		VALUES (?, ?, ?, ?, ?, 1)
	`
	id, err := r.db.ExecReturningID(ctx, query, userID, wordID, day, true, hintMask)
	if err != nil {
		return 0, fmt.Errorf("failed to create game session: %w", err)
	}
	return id, nil
}

// DeactivateAll flags every active session of the user inactive, whatever
// its day.
func (r *SessionRepository) DeactivateAll(ctx context.Context, userID int64) error {
	query := `
		UPDATE game_sessions
		SET active = ?, version = version + 1
		WHERE user_id = ? AND active = ?
	`
	if _, err := r.db.ExecContext(ctx, query, false, userID, true); err != nil {
		return fmt.Errorf("failed to deactivate game sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) getOne(ctx context.Context, query string, args ...any) (*models.GameSession, error) {
	session := &models.GameSession{}
	err := r.db.GetContext(ctx, session, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return session, nil
}

// GetActive returns the most recent active session for the user and day
func (r *SessionRepository) GetActive(ctx context.Context, userID int64, day string) (*models.GameSession, error) {
	query := sessionSelect + `
		WHERE gs.user_id = ? AND gs.day = ? AND gs.active = ?
		ORDER BY gs.id DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, userID, day, true)
}

// GetLatest returns the most recent session for the user and day, active or not
func (r *SessionRepository) GetLatest(ctx context.Context, userID int64, day string) (*models.GameSession, error) {
	query := sessionSelect + `
		WHERE gs.user_id = ? AND gs.day = ?
		ORDER BY gs.id DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, userID, day)
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.GameSession, error) {
	return r.getOne(ctx, sessionSelect+" WHERE gs.id = ?", id)
}

// Finish flags the session inactive if its version still matches.
// Finishing an inactive session is a no-op.
func (r *SessionRepository) Finish(ctx context.Context, session *models.GameSession) error {
	if !session.Active {
		return nil
	}

	query := `
		UPDATE game_sessions
		SET active = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	if err := r.casUpdate(ctx, query, false, session.ID, session.Version); err != nil {
		return fmt.Errorf("failed to finish game session: %w", err)
	}

	session.Active = false
	session.Version++
	return nil
}

// UpdateHintMask stores a new hint mask if the session version still matches
func (r *SessionRepository) UpdateHintMask(ctx context.Context, session *models.GameSession, mask string) error {
	query := `
		UPDATE game_sessions
		SET hint_mask = ?, version = version + 1
		WHERE id = ? AND version = ? AND active = ?
	`
	if err := r.casUpdate(ctx, query, mask, session.ID, session.Version, true); err != nil {
		return fmt.Errorf("failed to update hint mask: %w", err)
	}

	session.HintMask = mask
	session.Version++
	return nil
}

func (r *SessionRepository) casUpdate(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStaleWrite
	}
	return nil
}
