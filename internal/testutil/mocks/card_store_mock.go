package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/wordflash/wordflash/internal/models"
)

// MockCardStore is a mock implementation of repository.CardStore
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) Get(ctx context.Context, id string) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardStore) Upsert(ctx context.Context, card models.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardStore) Remove(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardStore) DueAsOf(ctx context.Context, now time.Time) ([]models.Card, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardStore) All(ctx context.Context) ([]models.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCardStore) CountDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockCardStore) Stats(ctx context.Context, now time.Time) (*models.DeckStats, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckStats), args.Error(1)
}

func (m *MockCardStore) InsertReviewLog(ctx context.Context, cardID string, rating string, timeSeconds float64, reviewedAt time.Time) error {
	args := m.Called(ctx, cardID, rating, timeSeconds, reviewedAt)
	return args.Error(0)
}
