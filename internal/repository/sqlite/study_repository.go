package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"flashdeck/internal/logger"
	"flashdeck/internal/models"
	"flashdeck/internal/repository"
)

type studyRepository struct {
	db *sql.DB
}

// NewStudyRepository creates a new StudyRepository implementation
func NewStudyRepository(db *sql.DB) repository.StudyRepository {
	return &studyRepository{db: db}
}

func scanSession(row interface{ Scan(...any) error }, withDeckTitle bool) (*models.StudySession, error) {
	var (
		s        models.StudySession
		settings string
	)
	dest := []any{
		&s.ID, &s.UserID, &s.DeckID, &s.StartedAt, &s.CompletedAt,
		&s.TotalCards, &s.CardsStudied, &s.CorrectAnswers, &s.IncorrectAnswers,
		&s.Accuracy, &s.DurationSeconds, &s.StudyMode, &settings, &s.UpdatedAt,
	}
	if withDeckTitle {
		dest = append(dest, &s.DeckTitle)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if settings != "" {
		if err := json.Unmarshal([]byte(settings), &s.Settings); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

const sessionColumns = `s.id, s.user_id, s.deck_id, s.started_at, s.completed_at,
       s.total_cards, s.cards_studied, s.correct_answers, s.incorrect_answers,
       s.accuracy, s.duration_seconds, s.study_mode, s.settings, s.updated_at`

func (r *studyRepository) InsertSession(ctx context.Context, s models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("inserting session: id=%s, deck_id=%s", s.ID, s.DeckID)

	settings, err := json.Marshal(s.Settings)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO study_sessions
  (id, user_id, deck_id, started_at, completed_at, total_cards, cards_studied,
   correct_answers, incorrect_answers, accuracy, duration_seconds, study_mode, settings, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.UserID, s.DeckID, s.StartedAt, s.CompletedAt, s.TotalCards, s.CardsStudied,
		s.CorrectAnswers, s.IncorrectAnswers, s.Accuracy, s.DurationSeconds, s.StudyMode,
		string(settings), s.UpdatedAt)
	if err != nil {
		log.Error("failed to insert session: %v", err)
	}
	return err
}

func (r *studyRepository) GetSession(ctx context.Context, id, userID string) (*models.StudySession, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+sessionColumns+`
FROM study_sessions s
WHERE s.id = ? AND s.user_id = ?
`, id, userID)

	s, err := scanSession(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("study_repo").Error("failed to get session: %v", err)
		return nil, err
	}
	return s, nil
}

func (r *studyRepository) GetSessionWithAnswers(ctx context.Context, id, userID string) (*models.StudySessionWithAnswers, error) {
	s, err := r.GetSession(ctx, id, userID)
	if err != nil || s == nil {
		return nil, err
	}
	answers, err := r.AnswersForSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.StudySessionWithAnswers{StudySession: *s, Answers: answers}, nil
}

func (r *studyRepository) UpdateSession(ctx context.Context, id, userID string, patch models.SessionPatch) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("updating session: id=%s, user_id=%s", id, userID)

	update := sqlBuilder.Update("study_sessions").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if patch.CardsStudied != nil {
		update = update.Set("cards_studied", *patch.CardsStudied)
	}
	if patch.CorrectAnswers != nil {
		update = update.Set("correct_answers", *patch.CorrectAnswers)
	}
	if patch.IncorrectAnswers != nil {
		update = update.Set("incorrect_answers", *patch.IncorrectAnswers)
	}
	if patch.Accuracy != nil {
		update = update.Set("accuracy", *patch.Accuracy)
	}
	if patch.DurationSeconds != nil {
		update = update.Set("duration_seconds", *patch.DurationSeconds)
	}
	if patch.CompletedAt != nil {
		update = update.Set("completed_at", *patch.CompletedAt)
	}

	query, args, err := update.ToSql()
	if err != nil {
		log.Error("failed to build update: %v", err)
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update session: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug("session not found for update: id=%s", id)
		return nil, nil
	}

	return r.GetSession(ctx, id, userID)
}

func (r *studyRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")

	query := sqlBuilder.Select(
		"s.id", "s.user_id", "s.deck_id", "s.started_at", "s.completed_at",
		"s.total_cards", "s.cards_studied", "s.correct_answers", "s.incorrect_answers",
		"s.accuracy", "s.duration_seconds", "s.study_mode", "s.settings", "s.updated_at",
		"COALESCE(d.title, '')",
	).From("study_sessions s").
		LeftJoin("decks d ON d.id = s.deck_id").
		Where(squirrel.Eq{"s.user_id": filter.UserID})

	if filter.DeckID != "" {
		query = query.Where(squirrel.Eq{"s.deck_id": filter.DeckID})
	}
	if filter.CompletedOnly {
		query = query.Where("s.completed_at IS NOT NULL")
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"s.started_at": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"s.started_at": *filter.To})
	}
	if filter.Before != nil {
		query = query.Where(squirrel.Lt{"s.started_at": *filter.Before})
	}
	query = query.OrderBy("s.started_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		s, err := scanSession(rows, true)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *studyRepository) StartTimes(ctx context.Context, userID string) ([]time.Time, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT started_at
FROM study_sessions
WHERE user_id = ? AND completed_at IS NOT NULL
ORDER BY started_at DESC
`, userID)
	if err != nil {
		log.Error("failed to fetch session start times: %v", err)
		return nil, err
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			log.Error("failed to scan start time: %v", err)
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *studyRepository) InsertAnswer(ctx context.Context, a models.StudyAnswer) error {
	log := logger.FromContext(ctx).WithPrefix("study_repo")
	log.Debug("inserting answer: session_id=%s, flashcard_id=%s", a.SessionID, a.FlashcardID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO study_session_answers
  (id, session_id, flashcard_id, answer, response_time_ms, attempt_number, answered_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, a.ID, a.SessionID, a.FlashcardID, a.Answer, a.ResponseTimeMS, a.AttemptNumber, a.AnsweredAt)
	if err != nil {
		log.Error("failed to insert answer: %v", err)
	}
	return err
}

func (r *studyRepository) AnswersForSession(ctx context.Context, sessionID string) ([]models.StudyAnswer, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, flashcard_id, answer, response_time_ms, attempt_number, answered_at
FROM study_session_answers
WHERE session_id = ?
ORDER BY answered_at ASC
`, sessionID)
	if err != nil {
		log.Error("failed to list answers: %v", err)
		return nil, err
	}
	defer rows.Close()

	var answers []models.StudyAnswer
	for rows.Next() {
		var a models.StudyAnswer
		err := rows.Scan(&a.ID, &a.SessionID, &a.FlashcardID, &a.Answer,
			&a.ResponseTimeMS, &a.AttemptNumber, &a.AnsweredAt)
		if err != nil {
			log.Error("failed to scan answer row: %v", err)
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (r *studyRepository) SumDurations(ctx context.Context, userID string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")

	var total int
	err := r.db.QueryRowContext(ctx, `
SELECT COALESCE(SUM(duration_seconds), 0)
FROM study_sessions
WHERE user_id = ? AND completed_at IS NOT NULL
`, userID).Scan(&total)
	if err != nil {
		log.Error("failed to sum durations: %v", err)
		return 0, err
	}
	return total, nil
}

func (r *studyRepository) CloseStale(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("study_repo")

	res, err := r.db.ExecContext(ctx, `
UPDATE study_sessions
SET completed_at = started_at, updated_at = ?
WHERE completed_at IS NULL AND started_at < ?
`, time.Now().UTC(), cutoff)
	if err != nil {
		log.Error("failed to close stale sessions: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info("closed %d stale study sessions", n)
	}
	return n, nil
}
