package models

import (
	"strings"
	"time"
	"unicode"
)

// Default scheduling values for a freshly added card.
const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Card is a single vocabulary flashcard with its scheduling state.
// ID is the normalized lemma of the word and is unique within the store.
type Card struct {
	ID                 string     `json:"id"`
	Word               string     `json:"word"`
	Translation        string     `json:"translation"`
	SourceLanguage     string     `json:"source_language"`
	Context            string     `json:"context,omitempty"`
	ContextTranslation string     `json:"context_translation,omitempty"`
	EaseFactor         float64    `json:"ease_factor"`
	IntervalDays       int        `json:"interval_days"`
	Repetition         int        `json:"repetition"`
	NextReviewDate     time.Time  `json:"next_review_date"`
	AddedAt            time.Time  `json:"added_at"`
	LastReviewedAt     *time.Time `json:"last_reviewed_at,omitempty"`
}

// NewCard builds a card in the initial learning state, due immediately.
func NewCard(word, translation, sourceLanguage string, now time.Time) Card {
	return Card{
		ID:             NormalizeID(word),
		Word:           word,
		Translation:    translation,
		SourceLanguage: sourceLanguage,
		EaseFactor:     InitialEaseFactor,
		IntervalDays:   0,
		Repetition:     0,
		NextReviewDate: now,
		AddedAt:        now,
	}
}

// NormalizeID computes the card identity for a word: trimmed and lowercased.
// By convention the id is the lemma/base form of the word.
func NormalizeID(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// InLearning reports whether the card is still in the short-term learning
// phase, i.e. it has never completed a graduating review.
func (c Card) InLearning() bool {
	return c.Repetition == 0
}

// DueAsOf reports whether the card is due at the given time. The boundary is
// inclusive: a card whose NextReviewDate equals now is due.
func (c Card) DueAsOf(now time.Time) bool {
	return !c.NextReviewDate.After(now)
}

// Front returns the learner-facing prompt side of the card. The front is
// whichever text is in the target (non-Latin) script, regardless of which
// field it was stored in at creation time. If both sides are Latin script,
// Word is the front.
func (c Card) Front() string {
	front, _ := c.sides()
	return front
}

// Back returns the answer side of the card. See Front for the selection rule.
func (c Card) Back() string {
	_, back := c.sides()
	return back
}

func (c Card) sides() (front, back string) {
	if hasNonLatinScript(c.Translation) && !hasNonLatinScript(c.Word) {
		return c.Translation, c.Word
	}
	return c.Word, c.Translation
}

// hasNonLatinScript reports whether s contains at least one letter outside
// the Latin script. Digits and punctuation are ignored.
func hasNonLatinScript(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

// DeckStats summarizes the scheduling state of the whole deck.
type DeckStats struct {
	Total      int     `json:"total"`
	Due        int     `json:"due"`
	Learning   int     `json:"learning"`
	Graduated  int     `json:"graduated"`
	AvgEase    float64 `json:"avg_ease"`
	ReviewsAll int     `json:"reviews_all"`
}
