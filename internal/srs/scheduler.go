package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/wordflash/wordflash/internal/models"
)

// SM-2 variant constants. These delays and multipliers are the contract the
// rest of the system depends on; changing them reschedules every deck.
const (
	againDelay = 1 * time.Minute
	hardDelay  = 5 * time.Minute

	graduateGoodDays = 1
	graduateEasyDays = 5

	easyBonus    = 0.15
	hardPenalty  = 0.15
	lapsePenalty = 0.2

	hardMultiplier = 1.2
	easyMultiplier = 1.3

	day = 24 * time.Hour
)

// Review computes the next scheduling state of a card after the given rating.
// It is a pure function: the input card is not mutated and no I/O happens.
// An invalid rating is rejected before any state is touched.
//
// A card with Repetition == 0 is in the learning phase and is scheduled with
// short fixed delays; a graduated card follows the expanding-interval SM-2
// curve. A graduated card rated Again lapses back into the learning phase.
func Review(card models.Card, rating Rating, now time.Time) (models.Card, error) {
	if !rating.IsValid() {
		return models.Card{}, fmt.Errorf("invalid rating %d", int(rating))
	}

	if card.InLearning() {
		card = reviewLearning(card, rating, now)
	} else {
		card = reviewGraduated(card, rating, now)
	}

	reviewedAt := now
	card.LastReviewedAt = &reviewedAt
	return card, nil
}

func reviewLearning(card models.Card, rating Rating, now time.Time) models.Card {
	switch rating {
	case Again:
		card.NextReviewDate = now.Add(againDelay)
	case Hard:
		card.NextReviewDate = now.Add(hardDelay)
	case Good:
		card.Repetition = 1
		card.IntervalDays = graduateGoodDays
		card.NextReviewDate = now.Add(graduateGoodDays * day)
	case Easy:
		card.Repetition = 1
		card.IntervalDays = graduateEasyDays
		card.EaseFactor += easyBonus
		card.NextReviewDate = now.Add(graduateEasyDays * day)
	}
	return card
}

func reviewGraduated(card models.Card, rating Rating, now time.Time) models.Card {
	switch rating {
	case Again:
		// Lapse: back to the learning phase with a short in-session delay.
		card.Repetition = 0
		card.IntervalDays = 0
		card.EaseFactor = clampEase(card.EaseFactor - lapsePenalty)
		card.NextReviewDate = now.Add(againDelay)
	case Hard:
		card.IntervalDays = roundDays(float64(card.IntervalDays) * hardMultiplier)
		card.EaseFactor = clampEase(card.EaseFactor - hardPenalty)
		card.NextReviewDate = now.Add(time.Duration(card.IntervalDays) * day)
	case Good:
		card.IntervalDays = roundDays(float64(card.IntervalDays) * card.EaseFactor)
		card.Repetition++
		card.NextReviewDate = now.Add(time.Duration(card.IntervalDays) * day)
	case Easy:
		card.IntervalDays = roundDays(float64(card.IntervalDays) * card.EaseFactor * easyMultiplier)
		card.EaseFactor += easyBonus
		card.Repetition++
		card.NextReviewDate = now.Add(time.Duration(card.IntervalDays) * day)
	}
	return card
}

// Reset returns a card to the fresh learning state, due immediately. This is
// the only transition allowed to move NextReviewDate backward.
func Reset(card models.Card, now time.Time) models.Card {
	card.EaseFactor = models.InitialEaseFactor
	card.IntervalDays = 0
	card.Repetition = 0
	card.NextReviewDate = now
	return card
}

// Preview describes when a card would next be due for each rating, so a UI
// can label its rating buttons (e.g. "1m / 5m / 1d / 5d" for a new card).
type Preview struct {
	Again time.Time `json:"again"`
	Hard  time.Time `json:"hard"`
	Good  time.Time `json:"good"`
	Easy  time.Time `json:"easy"`
}

// PreviewIntervals computes the next due date under each of the four ratings
// without committing any of them.
func PreviewIntervals(card models.Card, now time.Time) Preview {
	again, _ := Review(card, Again, now)
	hard, _ := Review(card, Hard, now)
	good, _ := Review(card, Good, now)
	easy, _ := Review(card, Easy, now)
	return Preview{
		Again: again.NextReviewDate,
		Hard:  hard.NextReviewDate,
		Good:  good.NextReviewDate,
		Easy:  easy.NextReviewDate,
	}
}

func roundDays(v float64) int {
	return int(math.Round(v))
}

func clampEase(ef float64) float64 {
	if ef < models.MinEaseFactor {
		return models.MinEaseFactor
	}
	return ef
}
