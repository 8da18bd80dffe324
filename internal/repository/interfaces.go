package repository

import (
	"context"
	"time"

	"github.com/wordflash/wordflash/internal/models"
)

// CardStore handles durable card data access. Store operations do not
// validate scheduling invariants; that is the scheduler's job. The store
// only guarantees identity integrity and durability of acknowledged writes.
type CardStore interface {
	// Get returns the card with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*models.Card, error)
	// Upsert inserts the card or replaces the existing card with the same id.
	Upsert(ctx context.Context, card models.Card) error
	// Remove deletes the card. Removing an absent id reports found=false.
	Remove(ctx context.Context, id string) (found bool, err error)
	// DueAsOf returns all cards with next_review_date <= now (inclusive
	// boundary), in store order. Session ordering is the review queue's job.
	DueAsOf(ctx context.Context, now time.Time) ([]models.Card, error)
	// All returns every card in store order, for export and deck reporting.
	All(ctx context.Context) ([]models.Card, error)
	Count(ctx context.Context) (int, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
	// Stats aggregates deck-wide scheduling state.
	Stats(ctx context.Context, now time.Time) (*models.DeckStats, error)
	// InsertReviewLog appends one review event to the history log.
	InsertReviewLog(ctx context.Context, cardID string, rating string, timeSeconds float64, reviewedAt time.Time) error
}
