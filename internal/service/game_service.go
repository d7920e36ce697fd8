package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"guessme/internal/database"
	"guessme/internal/game"
	"guessme/internal/models"
	"guessme/internal/repository"
	"guessme/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	dayLayout     = "2006-01-02"
	maxTxAttempts = 3
)

// GameConfig holds the rules of the daily game
type GameConfig struct {
	MaxAttempts int
	Location    *time.Location
}

// StartResult is returned when a new game begins
type StartResult struct {
	Word      string `json:"word"`
	LivesLeft int    `json:"lives_left"`
}

// GuessResult is the feedback for one guess
type GuessResult struct {
	Correct      bool        `json:"correct"`
	Feedback     []game.Mark `json:"feedback"`
	SolutionWord string      `json:"solution_word,omitempty"`
	Attempts     int         `json:"attempts"`
}

// HintResult is the pattern revealed by a hint
type HintResult struct {
	Hint      string `json:"hint"`
	LivesLeft int    `json:"lives_left"`
	HintsUsed int    `json:"hints_used"`
}

// StatsResult is a player's record plus today's progress
type StatsResult struct {
	GamesPlayed   int     `json:"games_played"`
	Wins          int     `json:"wins"`
	CurrentStreak int     `json:"current_streak"`
	MaxStreak     int     `json:"max_streak"`
	WinPercentage float64 `json:"win_percentage"`
	LivesLeft     int     `json:"lives_left"`
	HintsUsed     int     `json:"hints_used"`
	TodayWord     *string `json:"today_word"`
	Hint          string  `json:"hint"`
	Attempts      int     `json:"attempts"`
}

// GameService runs the daily game: sessions, guesses, hints and stats.
// Every action is one transaction.
type GameService struct {
	db          *database.DB
	catalog     *CatalogService
	ledger      *Ledger
	logger      *zap.SugaredLogger
	tracer      trace.Tracer
	maxAttempts int
	loc         *time.Location
	now         func() time.Time
	intn        func(n int) int
}

// NewGameService creates a new game service
func NewGameService(db *database.DB, catalog *CatalogService, ledger *Ledger, cfg GameConfig, logger *zap.SugaredLogger) *GameService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &GameService{
		db:          db,
		catalog:     catalog,
		ledger:      ledger,
		logger:      logger,
		tracer:      telemetry.Tracer(),
		maxAttempts: cfg.MaxAttempts,
		loc:         loc,
		now:         time.Now,
		intn:        rand.IntN,
	}
}

func (s *GameService) today() string {
	return s.now().In(s.loc).Format(dayLayout)
}

func (s *GameService) startSpan(ctx context.Context, name string, userID int64) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "game."+name, trace.WithAttributes(attribute.Int64("user.id", userID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil && KindOf(err) == 0 {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// runTx runs fn in a transaction, re-running it when a versioned update
// lost a race
func (s *GameService) runTx(ctx context.Context, fn func(tx *database.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.db.WithTx(ctx, fn)
		if !errors.Is(err, repository.ErrStaleWrite) {
			return err
		}
		s.logger.Debugw("retrying after stale write", "attempt", attempt)
	}
	return ErrConcurrentUpdate
}

// StartGame spends a life and opens a new session on a word the user has
// never been given. Any earlier active session is closed. A deleted account
// gets ErrUserNotFound before anything is written.
func (s *GameService) StartGame(ctx context.Context, userID int64) (result *StartResult, err error) {
	ctx, span := s.startSpan(ctx, "start", userID)
	defer func() { endSpan(span, err) }()

	day := s.today()
	err = s.runTx(ctx, func(tx *database.Tx) error {
		// a token can outlive its account
		user, err := repository.NewUserRepository(tx).GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		life, err := s.ledger.Spend(ctx, tx, userID, day, false)
		if err != nil {
			return err
		}

		word, err := s.catalog.PickSolution(ctx, tx, userID)
		if err != nil {
			return err
		}

		sessions := repository.NewSessionRepository(tx)
		if err := sessions.DeactivateAll(ctx, userID); err != nil {
			return err
		}
		if _, err := sessions.Create(ctx, userID, word.ID, day, game.EmptyMask); err != nil {
			return err
		}
		if err := s.catalog.MarkUsed(ctx, tx, word.ID); err != nil {
			return err
		}

		result = &StartResult{Word: word.Word, LivesLeft: life.LivesLeft}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("game started", "user_id", userID, "day", day, "lives_left", result.LivesLeft)
	s.logger.Debugw("game solution", "user_id", userID, "word", result.Word)
	return result, nil
}

// SubmitGuess scores a guess against the active session. A correct guess, or
// the guess that uses the last attempt, finishes the session and records the
// outcome.
func (s *GameService) SubmitGuess(ctx context.Context, userID int64, raw string) (result *GuessResult, err error) {
	ctx, span := s.startSpan(ctx, "guess", userID)
	defer func() { endSpan(span, err) }()

	text := game.Normalize(raw)
	if !game.WellFormed(text) {
		return nil, ErrInvalidWord
	}

	day := s.today()
	err = s.runTx(ctx, func(tx *database.Tx) error {
		valid, err := s.catalog.IsValidGuess(ctx, tx, text)
		if err != nil {
			return err
		}
		if !valid {
			return ErrInvalidWord
		}

		sessions := repository.NewSessionRepository(tx)
		session, err := sessions.GetActive(ctx, userID, day)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrNoActiveSession
		}

		marks := game.Evaluate(text, session.Solution)
		correct := game.Solved(marks)

		guesses := repository.NewGuessRepository(tx)
		if err := guesses.Create(ctx, &models.Guess{
			UserID:        userID,
			GameSessionID: session.ID,
			Day:           day,
			Guess:         text,
			Correct:       correct,
		}); err != nil {
			return err
		}

		attempts, err := guesses.CountBySession(ctx, session.ID)
		if err != nil {
			return err
		}

		result = &GuessResult{Correct: correct, Feedback: marks, Attempts: attempts}
		if correct || attempts >= s.maxAttempts {
			if err := s.finish(ctx, tx, session, correct, attempts); err != nil {
				return err
			}
			result.SolutionWord = session.Solution
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.SolutionWord != "" {
		s.logger.Infow("game finished", "user_id", userID, "won", result.Correct, "attempts", result.Attempts)
	}
	return result, nil
}

// finish closes the session and records its outcome once
func (s *GameService) finish(ctx context.Context, tx *database.Tx, session *models.GameSession, won bool, attempts int) error {
	if err := repository.NewSessionRepository(tx).Finish(ctx, session); err != nil {
		return err
	}

	stats := repository.NewStatRepository(tx)
	recorded, err := stats.ExistsForSession(ctx, session.ID)
	if err != nil {
		return err
	}
	if recorded {
		return nil
	}
	return stats.Create(ctx, &models.GameStat{
		UserID:        session.UserID,
		GameSessionID: session.ID,
		Day:           session.Day,
		Won:           won,
		Attempts:      attempts,
	})
}

// UseHint reveals one more letter of the active session's solution for a life
func (s *GameService) UseHint(ctx context.Context, userID int64) (result *HintResult, err error) {
	ctx, span := s.startSpan(ctx, "hint", userID)
	defer func() { endSpan(span, err) }()

	day := s.today()
	err = s.runTx(ctx, func(tx *database.Tx) error {
		sessions := repository.NewSessionRepository(tx)
		session, err := sessions.GetActive(ctx, userID, day)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrNoActiveSession
		}

		life, err := s.ledger.EnsureToday(ctx, tx, userID, day)
		if err != nil {
			return err
		}
		if !life.HasLife() {
			return ErrNoLivesLeft
		}

		guessed, err := repository.NewGuessRepository(tx).GetWordsBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		if len(guessed) == 0 {
			return ErrNoGuessYet
		}

		pattern := game.RevealedPattern(session.Solution, guessed, session.HintMask)
		revealed, index, ok := game.RevealOne(session.Solution, pattern, s.intn)
		if !ok {
			return ErrAllRevealed
		}

		if err := sessions.UpdateHintMask(ctx, session, game.AddToMask(session.HintMask, session.Solution, index)); err != nil {
			return err
		}
		life, err = s.ledger.Spend(ctx, tx, userID, day, true)
		if err != nil {
			return err
		}

		result = &HintResult{Hint: revealed, LivesLeft: life.LivesLeft, HintsUsed: life.HintsUsed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("hint used", "user_id", userID, "lives_left", result.LivesLeft, "hints_used", result.HintsUsed)
	return result, nil
}

// EndGame finishes today's latest session with the client's verdict. A
// session whose outcome is already recorded keeps it.
func (s *GameService) EndGame(ctx context.Context, userID int64, won bool) (message string, err error) {
	ctx, span := s.startSpan(ctx, "end", userID)
	defer func() { endSpan(span, err) }()

	day := s.today()
	err = s.runTx(ctx, func(tx *database.Tx) error {
		session, err := repository.NewSessionRepository(tx).GetLatest(ctx, userID, day)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrNoActiveSession
		}

		attempts, err := repository.NewGuessRepository(tx).CountBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		return s.finish(ctx, tx, session, won, attempts)
	})
	if err != nil {
		return "", err
	}

	s.logger.Infow("game ended", "user_id", userID, "won", won)
	return "Game ended", nil
}

// GetStats folds the user's recorded games into streaks and reports today's
// budget and progress. Today's word is revealed only once today's latest
// session is finished.
func (s *GameService) GetStats(ctx context.Context, userID int64) (result *StatsResult, err error) {
	ctx, span := s.startSpan(ctx, "stats", userID)
	defer func() { endSpan(span, err) }()

	user, err := repository.NewUserRepository(s.db).GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	outcomes, err := repository.NewStatRepository(s.db).GetOutcomes(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := game.Summarize(outcomes)

	day := s.today()
	life, err := s.ledger.Peek(ctx, s.db, userID, day)
	if err != nil {
		return nil, err
	}

	result = &StatsResult{
		GamesPlayed:   summary.GamesPlayed,
		Wins:          summary.Wins,
		CurrentStreak: summary.CurrentStreak,
		MaxStreak:     summary.MaxStreak,
		WinPercentage: summary.WinPercentage,
		LivesLeft:     life.LivesLeft,
		HintsUsed:     life.HintsUsed,
	}

	session, err := repository.NewSessionRepository(s.db).GetLatest(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return result, nil
	}

	guessed, err := repository.NewGuessRepository(s.db).GetWordsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	result.Attempts = len(guessed)
	result.Hint = game.RevealedPattern(session.Solution, guessed, session.HintMask)
	if !session.Active {
		word := session.Solution
		result.TodayWord = &word
	}
	return result, nil
}
