package testutil

import (
	"context"
	"database/sql"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var testMigrationsFS embed.FS

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	migrations := []string{
		"migrations/0001_init.sql",
	}
	for _, migration := range migrations {
		sqlBytes, err := testMigrationsFS.ReadFile(migration)
		require.NoError(t, err, "failed to read migration %s", migration)

		_, err = db.Exec(string(sqlBytes))
		require.NoError(t, err, "failed to apply migration %s", migration)
	}

	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedUser inserts a user row and returns its id.
func SeedUser(t *testing.T, db *sql.DB, id, email string) string {
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)
	`, id, email, "x")
	require.NoError(t, err)
	return id
}

// SeedDeck inserts a deck row and returns its id.
func SeedDeck(t *testing.T, db *sql.DB, id, userID, title, description string) string {
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO decks (id, title, description, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, title, description, userID, now, now)
	require.NoError(t, err)
	return id
}

// SeedFlashcard inserts a flashcard row attached to deckID and returns its id.
func SeedFlashcard(t *testing.T, db *sql.DB, id, deckID, userID, front, back string, starred bool) string {
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO flashcards (id, front, back, deck_id, user_id, is_starred, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, front, back, deckID, userID, starred, now, now)
	require.NoError(t, err)
	return id
}
