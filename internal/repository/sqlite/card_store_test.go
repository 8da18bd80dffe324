package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/wordflash/wordflash/internal/db"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
	"github.com/wordflash/wordflash/internal/repository/sqlite"
	"github.com/wordflash/wordflash/internal/testutil"
)

type CardStoreSuite struct {
	suite.Suite
	db    *db.DB
	store repository.CardStore
	now   time.Time
}

func (s *CardStoreSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewCardStore(s.db.DB)
	s.now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
}

func (s *CardStoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardStoreSuite) newCard(id string, due time.Time) models.Card {
	card := models.NewCard(id, "translation of "+id, "es", s.now)
	card.NextReviewDate = due
	return card
}

func (s *CardStoreSuite) TestUpsertAndGet() {
	ctx := context.Background()

	card := s.newCard("hablar", s.now)
	card.Context = "quiero hablar contigo"
	card.ContextTranslation = "I want to talk to you"

	s.Require().NoError(s.store.Upsert(ctx, card))

	got, err := s.store.Get(ctx, "hablar")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("hablar", got.ID)
	s.Assert().Equal("quiero hablar contigo", got.Context)
	s.Assert().Equal(2.5, got.EaseFactor)
	s.Assert().Equal(0, got.Repetition)
	s.Assert().Nil(got.LastReviewedAt)
}

func (s *CardStoreSuite) TestGetMissingReturnsNil() {
	got, err := s.store.Get(context.Background(), "nope")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *CardStoreSuite) TestUpsertReplacesById() {
	ctx := context.Background()

	card := s.newCard("hablar", s.now)
	s.Require().NoError(s.store.Upsert(ctx, card))

	reviewedAt := s.now.Add(time.Minute)
	card.Repetition = 1
	card.IntervalDays = 1
	card.EaseFactor = 2.65
	card.NextReviewDate = s.now.Add(24 * time.Hour)
	card.LastReviewedAt = &reviewedAt
	s.Require().NoError(s.store.Upsert(ctx, card))

	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(1, count, "upsert must not create a duplicate")

	got, err := s.store.Get(ctx, "hablar")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal(1, got.Repetition)
	s.Assert().Equal(2.65, got.EaseFactor)
	s.Require().NotNil(got.LastReviewedAt)
	s.Assert().True(reviewedAt.Equal(*got.LastReviewedAt))
}

func (s *CardStoreSuite) TestDueAsOfInclusiveBoundary() {
	ctx := context.Background()

	s.Require().NoError(s.store.Upsert(ctx, s.newCard("exact", s.now)))
	s.Require().NoError(s.store.Upsert(ctx, s.newCard("past", s.now.Add(-time.Hour))))
	s.Require().NoError(s.store.Upsert(ctx, s.newCard("future", s.now.Add(time.Hour))))

	due, err := s.store.DueAsOf(ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(due, 2)

	ids := []string{due[0].ID, due[1].ID}
	s.Assert().Contains(ids, "exact", "a card due exactly at now is due")
	s.Assert().Contains(ids, "past")
}

func (s *CardStoreSuite) TestDueAsOfKeepsStoreOrder() {
	ctx := context.Background()

	s.Require().NoError(s.store.Upsert(ctx, s.newCard("b", s.now.Add(-time.Hour))))
	s.Require().NoError(s.store.Upsert(ctx, s.newCard("a", s.now.Add(-2*time.Hour))))
	s.Require().NoError(s.store.Upsert(ctx, s.newCard("c", s.now.Add(-3*time.Hour))))

	due, err := s.store.DueAsOf(ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(due, 3)

	// Insertion order, not due order: ordering is the review queue's job.
	s.Assert().Equal("b", due[0].ID)
	s.Assert().Equal("a", due[1].ID)
	s.Assert().Equal("c", due[2].ID)
}

func (s *CardStoreSuite) TestCountDue() {
	ctx := context.Background()

	s.Require().NoError(s.store.Upsert(ctx, s.newCard("due", s.now.Add(-time.Hour))))
	s.Require().NoError(s.store.Upsert(ctx, s.newCard("later", s.now.Add(time.Hour))))

	due, err := s.store.CountDue(ctx, s.now)
	s.Require().NoError(err)
	s.Assert().Equal(1, due)

	total, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, total)
}

func (s *CardStoreSuite) TestRemove() {
	ctx := context.Background()

	s.Require().NoError(s.store.Upsert(ctx, s.newCard("hablar", s.now)))

	found, err := s.store.Remove(ctx, "hablar")
	s.Require().NoError(err)
	s.Assert().True(found)

	got, err := s.store.Get(ctx, "hablar")
	s.Require().NoError(err)
	s.Assert().Nil(got)

	found, err = s.store.Remove(ctx, "hablar")
	s.Require().NoError(err)
	s.Assert().False(found, "removing an absent id reports not found")
}

func (s *CardStoreSuite) TestAllReturnsEveryCard() {
	ctx := context.Background()

	s.Require().NoError(s.store.Upsert(ctx, s.newCard("uno", s.now)))
	s.Require().NoError(s.store.Upsert(ctx, s.newCard("dos", s.now.Add(time.Hour))))

	all, err := s.store.All(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Assert().Equal("uno", all[0].ID)
	s.Assert().Equal("dos", all[1].ID)
}

func (s *CardStoreSuite) TestStats() {
	ctx := context.Background()

	learning := s.newCard("learning", s.now.Add(-time.Hour))
	graduated := s.newCard("graduated", s.now.Add(48*time.Hour))
	graduated.Repetition = 2
	graduated.IntervalDays = 6
	graduated.EaseFactor = 2.3

	s.Require().NoError(s.store.Upsert(ctx, learning))
	s.Require().NoError(s.store.Upsert(ctx, graduated))
	s.Require().NoError(s.store.InsertReviewLog(ctx, "graduated", "good", 3.5, s.now))

	stats, err := s.store.Stats(ctx, s.now)
	s.Require().NoError(err)
	s.Assert().Equal(2, stats.Total)
	s.Assert().Equal(1, stats.Due)
	s.Assert().Equal(1, stats.Learning)
	s.Assert().Equal(1, stats.Graduated)
	s.Assert().InDelta(2.4, stats.AvgEase, 1e-9)
	s.Assert().Equal(1, stats.ReviewsAll)
}

func (s *CardStoreSuite) TestRemoveCascadesReviewLog() {
	ctx := context.Background()

	s.Require().NoError(s.store.Upsert(ctx, s.newCard("hablar", s.now)))
	s.Require().NoError(s.store.InsertReviewLog(ctx, "hablar", "again", 1.0, s.now))

	found, err := s.store.Remove(ctx, "hablar")
	s.Require().NoError(err)
	s.Require().True(found)

	var n int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_log`).Scan(&n)
	s.Require().NoError(err)
	s.Assert().Equal(0, n)
}

func TestCardStoreSuite(t *testing.T) {
	suite.Run(t, new(CardStoreSuite))
}
