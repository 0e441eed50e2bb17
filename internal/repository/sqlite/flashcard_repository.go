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

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

var flashcardColumns = []string{
	"id", "front", "back", "deck_id", "user_id", "is_starred", "difficulty",
	"created_at", "updated_at", "last_reviewed_at",
}

func scanFlashcard(row interface{ Scan(...any) error }) (*models.Flashcard, error) {
	var c models.Flashcard
	err := row.Scan(&c.ID, &c.Front, &c.Back, &c.DeckID, &c.UserID, &c.IsStarred,
		&c.Difficulty, &c.CreatedAt, &c.UpdatedAt, &c.LastReviewedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: id=%s, user_id=%s", c.ID, c.UserID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO flashcards (id, front, back, deck_id, user_id, is_starred, difficulty, created_at, updated_at, last_reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.Front, c.Back, c.DeckID, c.UserID, c.IsStarred, c.Difficulty, c.CreatedAt, c.UpdatedAt, c.LastReviewedAt)
	if err != nil {
		log.Error("failed to insert flashcard: %v", err)
	}
	return err
}

func (r *flashcardRepository) InsertBatch(ctx context.Context, cards []models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting %d flashcards", len(cards))

	if len(cards) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO flashcards (id, front, back, deck_id, user_id, is_starred, difficulty, created_at, updated_at, last_reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range cards {
			_, err := stmt.ExecContext(ctx, c.ID, c.Front, c.Back, c.DeckID, c.UserID,
				c.IsStarred, c.Difficulty, c.CreatedAt, c.UpdatedAt, c.LastReviewedAt)
			if err != nil {
				log.Error("failed to insert flashcard %s: %v", c.ID, err)
				return err
			}
		}
		return nil
	})
}

func (r *flashcardRepository) Update(ctx context.Context, id, userID string, patch models.FlashcardUpdate) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%s, user_id=%s", id, userID)

	update := sqlBuilder.Update("flashcards").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if patch.Front != nil {
		update = update.Set("front", *patch.Front)
	}
	if patch.Back != nil {
		update = update.Set("back", *patch.Back)
	}
	if patch.IsStarred != nil {
		update = update.Set("is_starred", *patch.IsStarred)
	}
	if patch.DeckID != nil {
		// Empty string detaches the card from its deck.
		if *patch.DeckID == "" {
			update = update.Set("deck_id", nil)
		} else {
			update = update.Set("deck_id", *patch.DeckID)
		}
	}

	query, args, err := update.ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("flashcard not found for update: id=%s", id)
		return nil, nil
	}

	return r.Get(ctx, id)
}

func (r *flashcardRepository) Delete(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s, user_id=%s", id, userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
	}
	return err
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, front, back, deck_id, user_id, is_starred, difficulty, created_at, updated_at, last_reviewed_at
FROM flashcards
WHERE id = ?
`, id)
	c, err := scanFlashcard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("flashcard_repo").Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *flashcardRepository) ListByDeck(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	return r.queryCards(ctx, sqlBuilder.Select(flashcardColumns...).
		From("flashcards").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("created_at ASC"))
}

func (r *flashcardRepository) ListUnattached(ctx context.Context, userID string) ([]models.Flashcard, error) {
	return r.queryCards(ctx, sqlBuilder.Select(flashcardColumns...).
		From("flashcards").
		Where(squirrel.Eq{"user_id": userID}).
		Where("deck_id IS NULL").
		OrderBy("created_at DESC"))
}

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	query := sqlBuilder.Select(flashcardColumns...).From("flashcards")

	if len(filter.DeckIDs) > 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckIDs})
	}
	if filter.StarredOnly {
		query = query.Where(squirrel.Eq{"is_starred": true})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}
	query = query.OrderBy("created_at ASC")

	return r.queryCards(ctx, query)
}

func (r *flashcardRepository) queryCards(ctx context.Context, query squirrel.SelectBuilder) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Flashcard
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func (r *flashcardRepository) Count(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		log.Error("failed to count flashcards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *flashcardRepository) FrontsMatching(ctx context.Context, deckIDs []string, query string, limit int) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("matching card fronts: decks=%d, limit=%d", len(deckIDs), limit)

	if len(deckIDs) == 0 {
		return nil, nil
	}

	sqlStr, args, err := sqlBuilder.Select("front").
		From("flashcards").
		Where(squirrel.Eq{"deck_id": deckIDs}).
		Where("lower(front) LIKE lower(?)", containsPattern(query)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to match card fronts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var fronts []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			log.Error("failed to scan front row: %v", err)
			return nil, err
		}
		fronts = append(fronts, f)
	}
	return fronts, rows.Err()
}
