package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	tables := []string{"users", "words", "game_sessions", "guesses", "daily_lives", "game_stats"}
	for _, table := range tables {
		var name string
		err := db.GetContext(ctx, &name, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// A second run must be a no-op
	if err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Re-running migrations failed: %v", err)
	}
	var applied int
	if err := db.GetContext(ctx, &applied, "SELECT COUNT(*) FROM migrations"); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", applied)
	}
}

// TestWithTx tests commit and rollback through WithTx
func TestWithTx(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecReturningID(ctx, "INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
			"testuser", "test@example.com", "hashedpass")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	errBoom := errors.New("boom")
	err = db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
			"testuser2", "test2@example.com", "hashedpass"); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("WithTx error = %v, want %v", err, errBoom)
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users"); err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user after rollback, got %d", count)
	}
}

// TestInsertIgnoreSkipsDuplicates tests the dialect's duplicate-tolerant insert
func TestInsertIgnoreSkipsDuplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()
	query := db.Dialect.InsertIgnore("words", "word", "is_solution")

	for i := 0; i < 3; i++ {
		if _, err := db.ExecContext(ctx, query, "crane", true); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM words WHERE word = ?", "crane"); err != nil {
		t.Fatalf("Failed to count words: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 word row, got %d", count)
	}
}

func TestUniqueViolationFromDriver(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()
	insert := "INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)"

	if _, err := db.ExecContext(ctx, insert, "alice", "alice@example.com", "x"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := db.ExecContext(ctx, insert, "alice", "other@example.com", "x")
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, "INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"concurrentuser", "concurrent@example.com", "hashedpass")
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var username string
			err := db.GetContext(ctx, &username, "SELECT username FROM users WHERE email = ?", "concurrent@example.com")
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if username != "concurrentuser" {
				t.Errorf("Expected username 'concurrentuser', got '%s'", username)
			}
		}()
	}
	wg.Wait()
}
