package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var cardColumns = []string{
	"id", "word", "translation", "source_language", "context", "context_translation",
	"ease_factor", "interval_days", "repetition", "next_review_date", "added_at", "last_reviewed_at",
}

type cardStore struct {
	db *sql.DB
}

// NewCardStore creates a new CardStore backed by SQLite.
func NewCardStore(db *sql.DB) repository.CardStore {
	return &cardStore{db: db}
}

func (s *cardStore) Get(ctx context.Context, id string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_store")

	query, args, err := sqlBuilder.
		Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return card, nil
}

func (s *cardStore) Upsert(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_store")
	log.Debug("upserting card: id=%s, interval=%d, ease=%.2f", c.ID, c.IntervalDays, c.EaseFactor)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO cards (id, word, translation, source_language, context, context_translation,
                   ease_factor, interval_days, repetition, next_review_date, added_at, last_reviewed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    word = excluded.word,
    translation = excluded.translation,
    source_language = excluded.source_language,
    context = excluded.context,
    context_translation = excluded.context_translation,
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    repetition = excluded.repetition,
    next_review_date = excluded.next_review_date,
    added_at = excluded.added_at,
    last_reviewed_at = excluded.last_reviewed_at
`, c.ID, c.Word, c.Translation, c.SourceLanguage, c.Context, c.ContextTranslation,
		c.EaseFactor, c.IntervalDays, c.Repetition, c.NextReviewDate, c.AddedAt, nullTime(c.LastReviewedAt))
	if err != nil {
		log.Error("failed to upsert card: %v", err)
	}
	return err
}

func (s *cardStore) Remove(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("card_store")
	log.Debug("removing card: id=%s", id)

	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to remove card: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *cardStore) DueAsOf(ctx context.Context, now time.Time) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_store")

	// Inclusive boundary: a card due exactly at now is due.
	query, args, err := sqlBuilder.
		Select(cardColumns...).
		From("cards").
		Where(squirrel.LtOrEq{"next_review_date": now}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, err
	}

	cards, err := s.queryCards(ctx, query, args...)
	if err != nil {
		log.Error("failed to query due cards: %v", err)
		return nil, err
	}
	log.Debug("found %d due cards", len(cards))
	return cards, nil
}

func (s *cardStore) All(ctx context.Context) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_store")

	query, args, err := sqlBuilder.
		Select(cardColumns...).
		From("cards").
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, err
	}

	cards, err := s.queryCards(ctx, query, args...)
	if err != nil {
		log.Error("failed to query all cards: %v", err)
		return nil, err
	}
	return cards, nil
}

func (s *cardStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

func (s *cardStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	query, args, err := sqlBuilder.
		Select("COUNT(*)").
		From("cards").
		Where(squirrel.LtOrEq{"next_review_date": now}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func (s *cardStore) Stats(ctx context.Context, now time.Time) (*models.DeckStats, error) {
	log := logger.FromContext(ctx).WithPrefix("card_store")

	var stats models.DeckStats
	err := s.db.QueryRowContext(ctx, `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN next_review_date <= ? THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN repetition = 0 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN repetition > 0 THEN 1 ELSE 0 END), 0),
    COALESCE(AVG(ease_factor), 0)
FROM cards
`, now).Scan(&stats.Total, &stats.Due, &stats.Learning, &stats.Graduated, &stats.AvgEase)
	if err != nil {
		log.Error("failed to query deck stats: %v", err)
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_log`).Scan(&stats.ReviewsAll); err != nil {
		log.Error("failed to count review log: %v", err)
		return nil, err
	}
	return &stats, nil
}

func (s *cardStore) InsertReviewLog(ctx context.Context, cardID string, rating string, timeSeconds float64, reviewedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_store")
	log.Debug("inserting review log: card_id=%s, rating=%s, time=%.2fs", cardID, rating, timeSeconds)

	_, err := s.db.ExecContext(ctx, `
INSERT INTO review_log (card_id, rating, time_seconds, reviewed_at)
VALUES (?, ?, ?, ?)
`, cardID, rating, timeSeconds, reviewedAt)
	if err != nil {
		log.Error("failed to insert review log: %v", err)
	}
	return err
}

func (s *cardStore) queryCards(ctx context.Context, query string, args ...any) ([]models.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var lastReviewed sql.NullTime
	err := row.Scan(&c.ID, &c.Word, &c.Translation, &c.SourceLanguage, &c.Context, &c.ContextTranslation,
		&c.EaseFactor, &c.IntervalDays, &c.Repetition, &c.NextReviewDate, &c.AddedAt, &lastReviewed)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		c.LastReviewedAt = &t
	}
	return &c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
