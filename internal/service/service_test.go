package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tapfolio/backend/internal/models"
)

// setupTestDB opens an isolated in-memory sqlite database and migrates the
// schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Theme{}, &models.ClickEvent{}))
	return db
}

// stubPublisher records published change events.
type stubPublisher struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (p *stubPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *stubPublisher) published() []ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ChangeEvent, len(p.events))
	copy(out, p.events)
	return out
}

// stubSubscriber hands out a manually fed subscription.
type stubSubscriber struct {
	ch chan ChangeEvent
}

func newStubSubscriber() *stubSubscriber {
	return &stubSubscriber{ch: make(chan ChangeEvent, 16)}
}

func (s *stubSubscriber) Subscribe(ctx context.Context, table string) (*Subscription, error) {
	return NewSubscription(s.ch, nil), nil
}
