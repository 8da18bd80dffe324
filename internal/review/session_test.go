package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/review"
	"github.com/wordflash/wordflash/internal/srs"
)

var sessionNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func dueCard(id string, due time.Time) models.Card {
	return models.Card{
		ID:             id,
		Word:           id,
		Translation:    "translation of " + id,
		EaseFactor:     2.5,
		NextReviewDate: due,
	}
}

func TestNewSession_OrdersOldestDueFirst(t *testing.T) {
	cards := []models.Card{
		dueCard("c", sessionNow.Add(-1*time.Hour)),
		dueCard("a", sessionNow.Add(-48*time.Hour)),
		dueCard("b", sessionNow.Add(-24*time.Hour)),
	}

	s := review.NewSession(cards, sessionNow)

	current, wait := s.Current(sessionNow)
	require.NotNil(t, current)
	assert.Nil(t, wait)
	assert.Equal(t, "a", current.ID, "oldest-due card is shown first")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 3, s.Remaining())
}

func TestNewSession_TiesKeepStoreOrder(t *testing.T) {
	due := sessionNow.Add(-time.Hour)
	cards := []models.Card{
		dueCard("first", due),
		dueCard("second", due),
	}

	s := review.NewSession(cards, sessionNow)

	current, _ := s.Current(sessionNow)
	require.NotNil(t, current)
	assert.Equal(t, "first", current.ID)
}

func TestSession_EmptyIsDone(t *testing.T) {
	s := review.NewSession(nil, sessionNow)

	current, wait := s.Current(sessionNow)
	assert.Nil(t, current)
	assert.Nil(t, wait, "a done session reports no card, not an error")
	assert.True(t, s.IsDone())
	assert.Equal(t, 0, s.ReviewedCount())
}

func TestSession_GoodRemovesCard(t *testing.T) {
	s := review.NewSession([]models.Card{dueCard("uno", sessionNow)}, sessionNow)

	updated, err := s.Rate("uno", srs.Good, sessionNow)

	require.NoError(t, err)
	assert.Equal(t, 1, updated.Repetition)
	assert.True(t, s.IsDone(), "graduated card leaves the session")
	assert.Equal(t, 1, s.ReviewedCount())
}

func TestSession_AgainRequeuesInSameSession(t *testing.T) {
	s := review.NewSession([]models.Card{dueCard("uno", sessionNow)}, sessionNow)

	updated, err := s.Rate("uno", srs.Again, sessionNow)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Repetition)

	// Immediately after the rating the card is delayed, not gone.
	current, wait := s.Current(sessionNow)
	assert.Nil(t, current)
	require.NotNil(t, wait, "session should report a waiting countdown")
	assert.Equal(t, sessionNow.Add(1*time.Minute), *wait)
	assert.False(t, s.IsDone())

	// Once the requeue delay elapses the card is shown again.
	later := sessionNow.Add(61 * time.Second)
	current, wait = s.Current(later)
	require.NotNil(t, current)
	assert.Nil(t, wait)
	assert.Equal(t, "uno", current.ID)
}

func TestSession_ReadyLearningCardShownBeforeQueue(t *testing.T) {
	s := review.NewSession([]models.Card{
		dueCard("missed", sessionNow.Add(-2*time.Hour)),
		dueCard("untouched", sessionNow.Add(-1*time.Hour)),
	}, sessionNow)

	_, err := s.Rate("missed", srs.Again, sessionNow)
	require.NoError(t, err)

	// While the missed card is delayed, the queue keeps serving.
	current, _ := s.Current(sessionNow)
	require.NotNil(t, current)
	assert.Equal(t, "untouched", current.ID)

	// Once ready, the just-missed card takes priority over queue cards.
	later := sessionNow.Add(2 * time.Minute)
	current, _ = s.Current(later)
	require.NotNil(t, current)
	assert.Equal(t, "missed", current.ID)
}

func TestSession_EarliestReadyLearningCardWins(t *testing.T) {
	s := review.NewSession([]models.Card{
		dueCard("a", sessionNow.Add(-2*time.Hour)),
		dueCard("b", sessionNow.Add(-1*time.Hour)),
	}, sessionNow)

	_, err := s.Rate("a", srs.Again, sessionNow) // ready at +1m
	require.NoError(t, err)
	_, err = s.Rate("b", srs.Hard, sessionNow) // ready at +5m
	require.NoError(t, err)

	later := sessionNow.Add(10 * time.Minute)
	current, _ := s.Current(later)
	require.NotNil(t, current)
	assert.Equal(t, "a", current.ID, "the entry that became ready first is shown first")
}

func TestSession_ReviewedCountNeverDecrements(t *testing.T) {
	s := review.NewSession([]models.Card{
		dueCard("a", sessionNow),
		dueCard("b", sessionNow),
	}, sessionNow)

	// Miss "a" (requeue), then graduate it plus "b".
	_, err := s.Rate("a", srs.Again, sessionNow)
	require.NoError(t, err)
	assert.Equal(t, 1, s.ReviewedCount())

	_, err = s.Rate("b", srs.Good, sessionNow)
	require.NoError(t, err)
	assert.Equal(t, 2, s.ReviewedCount(), "requeue must not reset the count")

	later := sessionNow.Add(2 * time.Minute)
	_, err = s.Rate("a", srs.Good, later)
	require.NoError(t, err)

	assert.Equal(t, 3, s.ReviewedCount())
	assert.True(t, s.IsDone())
}

func TestSession_TwoGoodRatingsFinishTheSession(t *testing.T) {
	s := review.NewSession([]models.Card{
		dueCard("a", sessionNow),
		dueCard("b", sessionNow),
	}, sessionNow)

	_, err := s.Rate("a", srs.Good, sessionNow)
	require.NoError(t, err)
	_, err = s.Rate("b", srs.Good, sessionNow)
	require.NoError(t, err)

	assert.Equal(t, 2, s.ReviewedCount())
	assert.True(t, s.IsDone())
}

func TestSession_LapsedGraduatedCardReentersLearning(t *testing.T) {
	card := dueCard("veteran", sessionNow.Add(-time.Hour))
	card.Repetition = 2
	card.IntervalDays = 6

	s := review.NewSession([]models.Card{card}, sessionNow)

	updated, err := s.Rate("veteran", srs.Again, sessionNow)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Repetition)
	assert.False(t, s.IsDone(), "a lapsed card stays in the session")

	later := sessionNow.Add(90 * time.Second)
	current, _ := s.Current(later)
	require.NotNil(t, current)
	assert.Equal(t, "veteran", current.ID)
}

func TestSession_RateUnknownCard(t *testing.T) {
	s := review.NewSession([]models.Card{dueCard("uno", sessionNow)}, sessionNow)

	_, err := s.Rate("nope", srs.Good, sessionNow)

	assert.ErrorIs(t, err, review.ErrNotInSession)
	assert.Equal(t, 0, s.ReviewedCount(), "failed rating must not advance the session")
	assert.Equal(t, 1, s.Remaining())
}

func TestSession_RateInvalidRating(t *testing.T) {
	s := review.NewSession([]models.Card{dueCard("uno", sessionNow)}, sessionNow)

	_, err := s.Rate("uno", srs.Rating(7), sessionNow)

	assert.ErrorIs(t, err, review.ErrInvalidRating)
	assert.Equal(t, 1, s.Remaining(), "invalid rating fails closed")
}

func TestSession_AdvanceRequiresCardInSession(t *testing.T) {
	s := review.NewSession([]models.Card{dueCard("uno", sessionNow)}, sessionNow)

	err := s.Advance(dueCard("stranger", sessionNow))

	assert.ErrorIs(t, err, review.ErrNotInSession)
}
