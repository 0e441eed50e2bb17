package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

const deckColumns = `d.id, d.title, d.description, d.user_id, d.is_public, d.color, d.created_at, d.updated_at,
       (SELECT COUNT(*) FROM flashcards f WHERE f.deck_id = d.id) AS flashcard_count`

func scanDeck(row interface{ Scan(...any) error }) (*models.Deck, error) {
	var d models.Deck
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.UserID, &d.IsPublic, &d.Color, &d.CreatedAt, &d.UpdatedAt, &d.FlashcardCount)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, user_id=%s", d.ID, d.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO decks (id, title, description, user_id, is_public, color, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, d.ID, d.Title, d.Description, d.UserID, d.IsPublic, d.Color, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
	}
	return err
}

func (r *deckRepository) Update(ctx context.Context, id, userID string, patch models.DeckUpdate) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%s, user_id=%s", id, userID)

	update := sqlBuilder.Update("decks").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if patch.Title != nil {
		update = update.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		update = update.Set("description", *patch.Description)
	}
	if patch.IsPublic != nil {
		update = update.Set("is_public", *patch.IsPublic)
	}
	if patch.Color != nil {
		update = update.Set("color", *patch.Color)
	}

	query, args, err := update.ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update deck: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("deck not found for update: id=%s", id)
		return nil, nil
	}

	return r.get(ctx, id)
}

func (r *deckRepository) get(ctx context.Context, id string) (*models.Deck, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+deckColumns+`
FROM decks d
WHERE d.id = ?
`, id)
	d, err := scanDeck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *deckRepository) Delete(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s, user_id=%s", id, userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}

func (r *deckRepository) GetVisible(ctx context.Context, id, userID string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting visible deck: id=%s", id)

	var row *sql.Row
	if userID != "" {
		row = r.db.QueryRowContext(ctx, `
SELECT `+deckColumns+`
FROM decks d
WHERE d.id = ? AND (d.user_id = ? OR d.is_public = 1)
`, id, userID)
	} else {
		row = r.db.QueryRowContext(ctx, `
SELECT `+deckColumns+`
FROM decks d
WHERE d.id = ? AND d.is_public = 1
`, id)
	}

	d, err := scanDeck(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not visible: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s, deck_ids=%d", filter.UserID, len(filter.DeckIDs))

	query := sqlBuilder.Select(
		"d.id", "d.title", "d.description", "d.user_id", "d.is_public", "d.color",
		"d.created_at", "d.updated_at",
		"(SELECT COUNT(*) FROM flashcards f WHERE f.deck_id = d.id) AS flashcard_count",
	).From("decks d").Where(squirrel.Eq{"d.user_id": filter.UserID})

	if len(filter.DeckIDs) > 0 {
		query = query.Where(squirrel.Eq{"d.id": filter.DeckIDs})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"d.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"d.created_at": *filter.DateTo})
	}
	query = query.OrderBy("d.updated_at DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, *d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) ListRefs(ctx context.Context, userID string, deckIDs []string) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing deck refs: user_id=%s", userID)

	query := sqlBuilder.Select("id", "title").From("decks").Where(squirrel.Eq{"user_id": userID})
	if len(deckIDs) > 0 {
		query = query.Where(squirrel.Eq{"id": deckIDs})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list deck refs: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.Title); err != nil {
			log.Error("failed to scan deck ref row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *deckRepository) Count(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		log.Error("failed to count decks: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *deckRepository) TitlesMatching(ctx context.Context, userID, query string, limit int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("matching deck titles: user_id=%s, limit=%d", userID, limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT title
FROM decks
WHERE user_id = ? AND lower(title) LIKE lower(?)
LIMIT ?
`, userID, containsPattern(query), limit)
	if err != nil {
		log.Error("failed to match deck titles: %v", err)
		return nil, err
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			log.Error("failed to scan title row: %v", err)
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}
