package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"guessme/internal/game"
)

func TestStartGameSpendsOneLife(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate"})

	result, err := f.games.StartGame(ctx, userID)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if result.Word != "crane" {
		t.Errorf("StartGame() word = %q, want crane", result.Word)
	}
	if result.LivesLeft != 4 {
		t.Errorf("StartGame() lives_left = %d, want 4", result.LivesLeft)
	}
	if lives, _ := f.lives(t, userID); lives != 4 {
		t.Errorf("stored lives_left = %d, want 4", lives)
	}
	if n := f.count(t, "SELECT COUNT(*) FROM words WHERE used = ?", true); n != 1 {
		t.Errorf("used words = %d, want 1", n)
	}
}

func TestStartGameNeverRepeatsWords(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate", "pious"})

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		result, err := f.games.StartGame(ctx, userID)
		if err != nil {
			t.Fatalf("StartGame() #%d error = %v", i+1, err)
		}
		if seen[result.Word] {
			t.Fatalf("StartGame() #%d reassigned %q", i+1, result.Word)
		}
		seen[result.Word] = true
	}

	if n := f.count(t, "SELECT COUNT(*) FROM game_sessions WHERE user_id = ? AND active = ?", userID, true); n != 1 {
		t.Errorf("active sessions = %d, want 1", n)
	}

	// Exhausted: the failed start must not spend a life
	if _, err := f.games.StartGame(ctx, userID); !errors.Is(err, ErrNoWordsAvailable) {
		t.Fatalf("StartGame() error = %v, want ErrNoWordsAvailable", err)
	}
	if lives, _ := f.lives(t, userID); lives != 2 {
		t.Errorf("lives_left = %d, want 2", lives)
	}

	// Another player still gets the first word
	other := f.addUser(t, "bob")
	result, err := f.games.StartGame(ctx, other)
	if err != nil {
		t.Fatalf("StartGame() for other user error = %v", err)
	}
	if result.Word != "crane" {
		t.Errorf("other user word = %q, want crane", result.Word)
	}
}

func TestStartGameNoLivesLeft(t *testing.T) {
	f := newFixture(t, 2, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate", "pious"})

	for i := 0; i < 2; i++ {
		if _, err := f.games.StartGame(ctx, userID); err != nil {
			t.Fatalf("StartGame() #%d error = %v", i+1, err)
		}
	}

	if _, err := f.games.StartGame(ctx, userID); !errors.Is(err, ErrNoLivesLeft) {
		t.Fatalf("StartGame() error = %v, want ErrNoLivesLeft", err)
	}
	if n := f.count(t, "SELECT COUNT(*) FROM game_sessions WHERE user_id = ?", userID); n != 2 {
		t.Errorf("sessions = %d, want 2", n)
	}
	if lives, _ := f.lives(t, userID); lives != 0 {
		t.Errorf("lives_left = %d, want 0", lives)
	}
}

func TestStartGameConcurrent(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate", "pious", "adieu", "audio", "bloke", "chime", "dwarf", "eject", "flume"})

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.games.StartGame(ctx, userID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	if successes != 5 {
		t.Errorf("successful starts = %d, want 5", successes)
	}
	for _, err := range failures {
		if !errors.Is(err, ErrNoLivesLeft) {
			t.Errorf("unexpected failure: %v", err)
		}
	}
	if lives, _ := f.lives(t, userID); lives != 0 {
		t.Errorf("lives_left = %d, want 0", lives)
	}
	if n := f.count(t, "SELECT COUNT(DISTINCT word_id) FROM game_sessions WHERE user_id = ?", userID); n != 5 {
		t.Errorf("distinct words assigned = %d, want 5", n)
	}
}

func TestSubmitGuessInvalidWord(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"}, "slate")

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	tests := []struct {
		name  string
		guess string
	}{
		{name: "not in catalog", guess: "zzzzz"},
		{name: "too short", guess: "cran"},
		{name: "too long", guess: "cranes"},
		{name: "not letters", guess: "cr4ne"},
		{name: "empty", guess: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.games.SubmitGuess(ctx, userID, tt.guess); !errors.Is(err, ErrInvalidWord) {
				t.Errorf("SubmitGuess(%q) error = %v, want ErrInvalidWord", tt.guess, err)
			}
		})
	}

	if n := f.count(t, "SELECT COUNT(*) FROM guesses"); n != 0 {
		t.Errorf("guess rows = %d, want 0", n)
	}
	if lives, _ := f.lives(t, userID); lives != 4 {
		t.Errorf("lives_left = %d, want 4", lives)
	}
}

func TestSubmitGuessWithoutSession(t *testing.T) {
	f := newFixture(t, 5, 6)
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"})

	if _, err := f.games.SubmitGuess(context.Background(), userID, "crane"); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("SubmitGuess() error = %v, want ErrNoActiveSession", err)
	}
}

func TestSubmitGuessWin(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"}, "slate")

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	result, err := f.games.SubmitGuess(ctx, userID, "SLATE")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	want := []game.Mark{game.Gray, game.Gray, game.Green, game.Gray, game.Green}
	for i := range want {
		if result.Feedback[i] != want[i] {
			t.Fatalf("feedback = %v, want %v", result.Feedback, want)
		}
	}
	if result.Correct || result.SolutionWord != "" || result.Attempts != 1 {
		t.Errorf("first guess result = %+v", result)
	}

	result, err = f.games.SubmitGuess(ctx, userID, " Crane ")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if !result.Correct || result.SolutionWord != "crane" || result.Attempts != 2 {
		t.Errorf("winning guess result = %+v", result)
	}

	if _, err := f.games.SubmitGuess(ctx, userID, "crane"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("guess after win error = %v, want ErrNoActiveSession", err)
	}

	stats, err := f.games.GetStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 || stats.CurrentStreak != 1 || stats.MaxStreak != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.WinPercentage != 100 {
		t.Errorf("win_percentage = %v, want 100", stats.WinPercentage)
	}
	if stats.TodayWord == nil || *stats.TodayWord != "crane" {
		t.Errorf("today_word = %v, want crane", stats.TodayWord)
	}
	if stats.Attempts != 2 || stats.Hint != "crane" {
		t.Errorf("attempts = %d, hint = %q", stats.Attempts, stats.Hint)
	}
}

func TestSubmitGuessAttemptsExhausted(t *testing.T) {
	f := newFixture(t, 5, 2)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"}, "slate", "pious")

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	result, err := f.games.SubmitGuess(ctx, userID, "slate")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if result.SolutionWord != "" {
		t.Errorf("solution revealed after first guess")
	}

	result, err = f.games.SubmitGuess(ctx, userID, "pious")
	if err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}
	if result.Correct || result.SolutionWord != "crane" {
		t.Errorf("last attempt result = %+v", result)
	}

	if n := f.count(t, "SELECT COUNT(*) FROM game_stats WHERE user_id = ? AND won = ?", userID, false); n != 1 {
		t.Errorf("recorded losses = %d, want 1", n)
	}
	if _, err := f.games.SubmitGuess(ctx, userID, "crane"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("guess after loss error = %v, want ErrNoActiveSession", err)
	}
}

func TestUseHintRequiresGuess(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"})

	if _, err := f.games.UseHint(ctx, userID); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("UseHint() without session error = %v, want ErrNoActiveSession", err)
	}

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	if _, err := f.games.UseHint(ctx, userID); !errors.Is(err, ErrNoGuessYet) {
		t.Fatalf("UseHint() error = %v, want ErrNoGuessYet", err)
	}
	lives, hints := f.lives(t, userID)
	if lives != 4 || hints != 0 {
		t.Errorf("lives_left = %d, hints_used = %d, want 4 and 0", lives, hints)
	}
}

func TestUseHintRevealsOneLetterEachTime(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"}, "crank")

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := f.games.SubmitGuess(ctx, userID, "crank"); err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}

	result, err := f.games.UseHint(ctx, userID)
	if err != nil {
		t.Fatalf("UseHint() error = %v", err)
	}
	if result.Hint != "crane" {
		t.Errorf("hint = %q, want crane", result.Hint)
	}
	if result.LivesLeft != 3 || result.HintsUsed != 1 {
		t.Errorf("lives_left = %d, hints_used = %d, want 3 and 1", result.LivesLeft, result.HintsUsed)
	}

	if _, err := f.games.UseHint(ctx, userID); !errors.Is(err, ErrAllRevealed) {
		t.Fatalf("UseHint() error = %v, want ErrAllRevealed", err)
	}
	lives, hints := f.lives(t, userID)
	if lives != 3 || hints != 1 {
		t.Errorf("after refused hint lives_left = %d, hints_used = %d, want 3 and 1", lives, hints)
	}
}

func TestUseHintAccumulates(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"}, "pious")

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := f.games.SubmitGuess(ctx, userID, "pious"); err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}

	// intn always picks the first hidden index
	for _, want := range []string{"c____", "cr___", "cra__"} {
		result, err := f.games.UseHint(ctx, userID)
		if err != nil {
			t.Fatalf("UseHint() error = %v", err)
		}
		if result.Hint != want {
			t.Errorf("hint = %q, want %q", result.Hint, want)
		}
	}

	stats, err := f.games.GetStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.Hint != "cra__" || stats.HintsUsed != 3 || stats.LivesLeft != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TodayWord != nil {
		t.Errorf("today_word revealed while the game is active")
	}

	// Last life goes to a hint, the next one is refused
	if _, err := f.games.UseHint(ctx, userID); err != nil {
		t.Fatalf("UseHint() error = %v", err)
	}
	if _, err := f.games.UseHint(ctx, userID); !errors.Is(err, ErrNoLivesLeft) {
		t.Fatalf("UseHint() error = %v, want ErrNoLivesLeft", err)
	}
}

func TestEndGame(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate"})

	if _, err := f.games.EndGame(ctx, userID, false); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("EndGame() without session error = %v, want ErrNoActiveSession", err)
	}

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := f.games.EndGame(ctx, userID, false); err != nil {
		t.Fatalf("EndGame() error = %v", err)
	}
	if _, err := f.games.EndGame(ctx, userID, true); err != nil {
		t.Fatalf("second EndGame() error = %v", err)
	}

	if n := f.count(t, "SELECT COUNT(*) FROM game_stats WHERE user_id = ?", userID); n != 1 {
		t.Errorf("stat rows = %d, want 1", n)
	}
	if n := f.count(t, "SELECT COUNT(*) FROM game_sessions WHERE user_id = ? AND active = ?", userID, true); n != 0 {
		t.Errorf("active sessions = %d, want 0", n)
	}

	// A new game the same day is a fresh session
	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	stats, err := f.games.GetStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TodayWord != nil || stats.Attempts != 0 || stats.Hint != game.EmptyMask {
		t.Errorf("stats for new session = %+v", stats)
	}
}

func TestGetStatsStreaks(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate", "pious", "adieu"})

	for _, won := range []bool{true, true, false, true} {
		if _, err := f.games.StartGame(ctx, userID); err != nil {
			t.Fatalf("StartGame() error = %v", err)
		}
		if _, err := f.games.EndGame(ctx, userID, won); err != nil {
			t.Fatalf("EndGame() error = %v", err)
		}
	}

	stats, err := f.games.GetStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.GamesPlayed != 4 || stats.Wins != 3 {
		t.Errorf("games_played = %d, wins = %d", stats.GamesPlayed, stats.Wins)
	}
	if stats.CurrentStreak != 1 || stats.MaxStreak != 2 {
		t.Errorf("current_streak = %d, max_streak = %d, want 1 and 2", stats.CurrentStreak, stats.MaxStreak)
	}
	if stats.WinPercentage != 75 {
		t.Errorf("win_percentage = %v, want 75", stats.WinPercentage)
	}
	if stats.LivesLeft != 1 {
		t.Errorf("lives_left = %d, want 1", stats.LivesLeft)
	}
}

func TestGetStatsEmptyAndUnknownUser(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")

	stats, err := f.games.GetStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.GamesPlayed != 0 || stats.WinPercentage != 0 || stats.LivesLeft != 5 || stats.TodayWord != nil || stats.Hint != "" {
		t.Errorf("empty stats = %+v", stats)
	}

	if _, err := f.games.GetStats(ctx, userID+100); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetStats() unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestDeletedUserCannotPlay(t *testing.T) {
	f := newFixture(t, 5, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane", "slate"})

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if err := f.auth.DeleteUser(ctx, userID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	_, err := f.games.StartGame(ctx, userID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("StartGame() after delete error = %v, want ErrUserNotFound", err)
	}
	if n := f.count(t, "SELECT COUNT(*) FROM daily_lives WHERE user_id = ?", userID); n != 0 {
		t.Errorf("daily_lives rows = %d, want 0", n)
	}
	if n := f.count(t, "SELECT COUNT(*) FROM game_sessions WHERE user_id = ?", userID); n != 0 {
		t.Errorf("game_sessions rows = %d, want 0", n)
	}

	for name, call := range map[string]func() error{
		"UseHint":     func() error { _, err := f.games.UseHint(ctx, userID); return err },
		"SubmitGuess": func() error { _, err := f.games.SubmitGuess(ctx, userID, "slate"); return err },
		"EndGame":     func() error { _, err := f.games.EndGame(ctx, userID, true); return err },
		"GetStats":    func() error { _, err := f.games.GetStats(ctx, userID); return err },
	} {
		if err := call(); KindOf(err) == 0 {
			t.Errorf("%s() after delete error = %v, want a service error", name, err)
		}
	}
}

func TestUseHintConcurrent(t *testing.T) {
	f := newFixture(t, 2, 6)
	ctx := context.Background()
	userID := f.addUser(t, "alice")
	f.addWords(t, []string{"crane"}, "slate")

	if _, err := f.games.StartGame(ctx, userID); err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if _, err := f.games.SubmitGuess(ctx, userID, "slate"); err != nil {
		t.Fatalf("SubmitGuess() error = %v", err)
	}

	const workers = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.games.UseHint(ctx, userID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successful hints = %d, want 1", successes)
	}
	for _, err := range failures {
		if !errors.Is(err, ErrNoLivesLeft) {
			t.Errorf("unexpected failure: %v", err)
		}
	}
	lives, hints := f.lives(t, userID)
	if lives != 0 || hints != 1 {
		t.Errorf("lives_left = %d, hints_used = %d, want 0 and 1", lives, hints)
	}
}
