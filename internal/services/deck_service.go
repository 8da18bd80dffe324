package services

import (
	"context"
	"time"

	"github.com/wordflash/wordflash/internal/errors"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
	"github.com/wordflash/wordflash/internal/review"
	"github.com/wordflash/wordflash/internal/srs"
)

// AddWordInput carries the learner-supplied fields for a new card.
type AddWordInput struct {
	Word               string
	Translation        string
	SourceLanguage     string
	Context            string
	ContextTranslation string
}

// AddWordResult reports whether the word was newly added and the card that
// now holds it.
type AddWordResult struct {
	Added bool        `json:"added"`
	Card  models.Card `json:"card"`
}

// DeckService composes the card store, the scheduler and review sessions
// into the operations the rest of the application calls.
type DeckService interface {
	AddWord(ctx context.Context, input AddWordInput, now time.Time) (*AddWordResult, error)
	DueCount(ctx context.Context, now time.Time) (int, error)
	TotalCount(ctx context.Context) (int, error)
	Stats(ctx context.Context, now time.Time) (*models.DeckStats, error)
	StartReview(ctx context.Context, now time.Time) (*review.Session, error)
	Rate(ctx context.Context, session *review.Session, cardID string, rating srs.Rating, now time.Time, timeSeconds float64) (*models.Card, error)
	ResetCard(ctx context.Context, id string, now time.Time) (*models.Card, error)
	RemoveCard(ctx context.Context, id string) error
	ExportSnapshot(ctx context.Context) ([]models.Card, error)
	ImportSnapshot(ctx context.Context, cards []models.Card) (int, error)
}

type deckService struct {
	store       repository.CardStore
	reviewLimit int
}

// NewDeckService creates a DeckService over the given store. reviewLimit
// caps how many due cards a session pulls; 0 means no cap.
func NewDeckService(store repository.CardStore, reviewLimit int) DeckService {
	return &deckService{store: store, reviewLimit: reviewLimit}
}

func (s *deckService) AddWord(ctx context.Context, input AddWordInput, now time.Time) (*AddWordResult, error) {
	log := logger.FromContext(ctx)

	if input.Word == "" {
		return nil, errors.NewValidationError("word", "cannot be empty")
	}
	if input.Translation == "" {
		return nil, errors.NewValidationError("translation", "cannot be empty")
	}

	id := models.NormalizeID(input.Word)
	log.Debug("adding word: id=%s, source_language=%s", id, input.SourceLanguage)

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		log.Error("failed to check for existing card: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	if existing != nil {
		log.Debug("word already in deck: id=%s", id)
		return &AddWordResult{Added: false, Card: *existing}, nil
	}

	card := models.NewCard(input.Word, input.Translation, input.SourceLanguage, now)
	card.Context = input.Context
	card.ContextTranslation = input.ContextTranslation

	if err := s.store.Upsert(ctx, card); err != nil {
		log.Error("failed to persist new card: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	log.Info("word added to deck: id=%s", id)
	return &AddWordResult{Added: true, Card: card}, nil
}

func (s *deckService) DueCount(ctx context.Context, now time.Time) (int, error) {
	n, err := s.store.CountDue(ctx, now)
	if err != nil {
		return 0, errors.NewStoreUnavailableError(err)
	}
	return n, nil
}

func (s *deckService) TotalCount(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, errors.NewStoreUnavailableError(err)
	}
	return n, nil
}

func (s *deckService) Stats(ctx context.Context, now time.Time) (*models.DeckStats, error) {
	stats, err := s.store.Stats(ctx, now)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}
	return stats, nil
}

func (s *deckService) StartReview(ctx context.Context, now time.Time) (*review.Session, error) {
	log := logger.FromContext(ctx)

	due, err := s.store.DueAsOf(ctx, now)
	if err != nil {
		log.Error("failed to fetch due cards: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}
	if s.reviewLimit > 0 && len(due) > s.reviewLimit {
		due = due[:s.reviewLimit]
	}

	session := review.NewSession(due, now)
	log.Info("review session started: session_id=%s, due=%d", session.ID, session.Remaining())
	return session, nil
}

// Rate applies a rating to a card in the session and persists the result.
// The write happens before the session advances, so a store failure leaves
// the in-memory session exactly as it was.
func (s *deckService) Rate(ctx context.Context, session *review.Session, cardID string, rating srs.Rating, now time.Time, timeSeconds float64) (*models.Card, error) {
	log := logger.FromContext(ctx)

	if !rating.IsValid() {
		return nil, errors.NewInvalidRatingError(rating.String())
	}

	card, ok := session.Card(cardID)
	if !ok {
		return nil, errors.NewCardNotFoundError(cardID)
	}

	updated, err := srs.Review(card, rating, now)
	if err != nil {
		return nil, errors.NewInvalidRatingError(rating.String())
	}

	log.Debug("rated card: id=%s, rating=%s, interval=%d days, ease=%.2f",
		cardID, rating, updated.IntervalDays, updated.EaseFactor)

	if err := s.store.Upsert(ctx, updated); err != nil {
		log.Error("failed to persist rating: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	if err := session.Advance(updated); err != nil {
		// Card vanished from the session between lookup and advance; the
		// write above already committed, so surface it as not found.
		return nil, errors.NewCardNotFoundError(cardID)
	}

	// Store review history (non-blocking): a failed append never fails the
	// review itself.
	if err := s.store.InsertReviewLog(ctx, cardID, rating.String(), timeSeconds, now); err != nil {
		log.Warn("failed to store review log: %v", err)
	}

	return &updated, nil
}

func (s *deckService) ResetCard(ctx context.Context, id string, now time.Time) (*models.Card, error) {
	log := logger.FromContext(ctx)

	card, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}
	if card == nil {
		return nil, errors.NewCardNotFoundError(id)
	}

	reset := srs.Reset(*card, now)
	if err := s.store.Upsert(ctx, reset); err != nil {
		log.Error("failed to persist card reset: %v", err)
		return nil, errors.NewStoreUnavailableError(err)
	}

	log.Info("card reset: id=%s", id)
	return &reset, nil
}

func (s *deckService) RemoveCard(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	found, err := s.store.Remove(ctx, id)
	if err != nil {
		return errors.NewStoreUnavailableError(err)
	}
	if !found {
		return errors.NewCardNotFoundError(id)
	}
	log.Info("card removed: id=%s", id)
	return nil
}

func (s *deckService) ExportSnapshot(ctx context.Context) ([]models.Card, error) {
	cards, err := s.store.All(ctx)
	if err != nil {
		return nil, errors.NewStoreUnavailableError(err)
	}
	// An empty deck exports as an empty snapshot, not null.
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, nil
}

func (s *deckService) ImportSnapshot(ctx context.Context, cards []models.Card) (int, error) {
	log := logger.FromContext(ctx)

	for i, card := range cards {
		if card.ID == "" {
			return i, errors.NewValidationError("id", "snapshot card missing id")
		}
		if err := s.store.Upsert(ctx, card); err != nil {
			log.Error("snapshot import failed at card %d (id=%s): %v", i, card.ID, err)
			return i, errors.NewStoreUnavailableError(err)
		}
	}

	log.Info("snapshot imported: %d cards", len(cards))
	return len(cards), nil
}
