package models

import "time"

// GameSession is one attempt at a solution word on a given day
type GameSession struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	WordID    int64     `db:"word_id"`
	Solution  string    `db:"solution"`
	Day       string    `db:"day"`
	Active    bool      `db:"active"`
	HintMask  string    `db:"hint_mask"`
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
}

// Guess is a recorded, already-validated guess
type Guess struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	GameSessionID int64     `db:"game_session_id"`
	Day           string    `db:"day"`
	Guess         string    `db:"guess"`
	Correct       bool      `db:"correct"`
	CreatedAt     time.Time `db:"created_at"`
}

// DailyLife is a user's action budget for one day
type DailyLife struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	Day       string `db:"day"`
	LivesLeft int    `db:"lives_left"`
	HintsUsed int    `db:"hints_used"`
	Version   int64  `db:"version"`
}

// HasLife reports whether another life can be spent
func (d *DailyLife) HasLife() bool {
	return d.LivesLeft > 0
}

// GameStat is the outcome of one completed game
type GameStat struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	GameSessionID int64     `db:"game_session_id"`
	Day           string    `db:"day"`
	Won           bool      `db:"won"`
	Attempts      int       `db:"attempts"`
	CreatedAt     time.Time `db:"created_at"`
}
