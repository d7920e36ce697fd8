package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"guessme/internal/database"
	"guessme/internal/repository"
	"guessme/internal/security"

	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

const testDay = "2024-05-01"

type fixture struct {
	db      *database.DB
	catalog *CatalogService
	ledger  *Ledger
	games   *GameService
	auth    *AuthService
}

func newFixture(t *testing.T, dailyLives, maxAttempts int) *fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	logger := zap.NewNop().Sugar()
	catalog := NewCatalogService(db, logger)
	catalog.intn = func(int) int { return 0 }
	ledger := NewLedger(dailyLives)

	games := NewGameService(db, catalog, ledger, GameConfig{MaxAttempts: maxAttempts, Location: time.UTC}, logger)
	games.now = func() time.Time { return testNow }
	games.intn = func(int) int { return 0 }

	tokens := security.NewTokenManager("test-secret", time.Hour)
	auth := NewAuthService(db, tokens, func(email string) bool { return email == "admin@example.com" }, logger)

	return &fixture{db: db, catalog: catalog, ledger: ledger, games: games, auth: auth}
}

func (f *fixture) addUser(t *testing.T, username string) int64 {
	t.Helper()
	user, err := repository.NewUserRepository(f.db).CreateUser(context.Background(), username, username+"@example.com", "not-a-hash")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user.ID
}

func (f *fixture) addWords(t *testing.T, solutions []string, valid ...string) {
	t.Helper()
	if _, err := f.catalog.Import(context.Background(), valid, solutions); err != nil {
		t.Fatalf("Failed to import words: %v", err)
	}
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := f.db.GetContext(context.Background(), &n, query, args...); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func (f *fixture) lives(t *testing.T, userID int64) (livesLeft, hintsUsed int) {
	t.Helper()
	life, err := f.ledger.Peek(context.Background(), f.db, userID, testDay)
	if err != nil {
		t.Fatalf("Failed to read lives: %v", err)
	}
	return life.LivesLeft, life.HintsUsed
}
