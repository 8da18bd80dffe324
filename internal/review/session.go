package review

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/srs"
)

// Sentinel errors for session operations. Check with errors.Is.
var (
	ErrNotInSession  = errors.New("review: card not in session")
	ErrInvalidRating = errors.New("review: invalid rating")
)

// Session is an in-memory review session over the cards that were due when
// it started. It is not persisted: discarding a session has no effect on
// card state already written to the store.
//
// Cards live in one of two collections with different time granularities:
// the queue, ordered by calendar due date at session start, and the learning
// buffer, keyed by minute-scale requeue times within the session. Keeping
// them separate avoids comparing the two clocks directly.
type Session struct {
	ID        string
	StartedAt time.Time

	queue    []models.Card
	learning []learningEntry
	reviewed int
}

type learningEntry struct {
	card    models.Card
	readyAt time.Time
}

// NewSession creates a session over the given due cards. Cards are ordered
// oldest-due first; ties keep the store's order.
func NewSession(dueCards []models.Card, now time.Time) *Session {
	queue := make([]models.Card, len(dueCards))
	copy(queue, dueCards)
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].NextReviewDate.Before(queue[j].NextReviewDate)
	})
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: now,
		queue:     queue,
	}
}

// Current returns the card to show at the given time.
//
// A learning-buffer card whose requeue time has elapsed takes priority over
// untouched queue cards, so a card the learner just missed reappears as soon
// as it is ready. The queue itself is never reordered mid-session.
//
// When no card is ready the second return value is the time the earliest
// learning card becomes ready, for a countdown display; (nil, nil) means the
// session is done. Calling Current on a done session is not an error.
func (s *Session) Current(now time.Time) (*models.Card, *time.Time) {
	if idx := s.earliestReady(now); idx >= 0 {
		card := s.learning[idx].card
		return &card, nil
	}
	if len(s.queue) > 0 {
		card := s.queue[0]
		return &card, nil
	}
	if len(s.learning) > 0 {
		wait := s.learning[0].readyAt
		for _, e := range s.learning[1:] {
			if e.readyAt.Before(wait) {
				wait = e.readyAt
			}
		}
		return nil, &wait
	}
	return nil, nil
}

// Rate applies the rating to the identified card and advances the session.
// The card must be in the working set (queue or learning buffer); rating an
// unknown id is ErrNotInSession and mutates nothing. The updated card is
// returned for the caller to persist.
//
// Callers that need to persist the transition before the session moves on
// (so a failed write leaves the session unchanged) should use Card, the
// scheduler, and Advance separately; Rate is the one-shot composition.
func (s *Session) Rate(cardID string, rating srs.Rating, now time.Time) (models.Card, error) {
	if !rating.IsValid() {
		return models.Card{}, ErrInvalidRating
	}

	card, ok := s.Card(cardID)
	if !ok {
		return models.Card{}, ErrNotInSession
	}

	updated, err := srs.Review(card, rating, now)
	if err != nil {
		return models.Card{}, err
	}

	if err := s.Advance(updated); err != nil {
		return models.Card{}, err
	}
	return updated, nil
}

// Card returns the card with the given id from the working set.
func (s *Session) Card(cardID string) (models.Card, bool) {
	return s.find(cardID)
}

// Advance moves the session past a card that was just rated, given its
// post-review state. A card that remains in (or re-enters) the learning
// phase moves into the learning buffer keyed by its new due time; any other
// card leaves the session for good. The reviewed count only ever grows,
// including when a card is requeued.
func (s *Session) Advance(updated models.Card) error {
	if _, ok := s.find(updated.ID); !ok {
		return ErrNotInSession
	}
	s.remove(updated.ID)
	s.reviewed++

	if updated.InLearning() {
		s.learning = append(s.learning, learningEntry{card: updated, readyAt: updated.NextReviewDate})
	}
	return nil
}

// ReviewedCount returns the number of ratings applied this session.
func (s *Session) ReviewedCount() int {
	return s.reviewed
}

// Remaining returns how many cards are still in the working set.
func (s *Session) Remaining() int {
	return len(s.queue) + len(s.learning)
}

// IsDone reports whether both the queue and the learning buffer are empty.
func (s *Session) IsDone() bool {
	return s.Remaining() == 0
}

// earliestReady returns the index of the learning entry with the earliest
// elapsed requeue time, or -1 if none is ready yet.
func (s *Session) earliestReady(now time.Time) int {
	idx := -1
	for i, e := range s.learning {
		if e.readyAt.After(now) {
			continue
		}
		if idx < 0 || e.readyAt.Before(s.learning[idx].readyAt) {
			idx = i
		}
	}
	return idx
}

func (s *Session) find(cardID string) (models.Card, bool) {
	for _, c := range s.queue {
		if c.ID == cardID {
			return c, true
		}
	}
	for _, e := range s.learning {
		if e.card.ID == cardID {
			return e.card, true
		}
	}
	return models.Card{}, false
}

func (s *Session) remove(cardID string) {
	for i, c := range s.queue {
		if c.ID == cardID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return
		}
	}
	for i, e := range s.learning {
		if e.card.ID == cardID {
			s.learning = append(s.learning[:i], s.learning[i+1:]...)
			return
		}
	}
}
