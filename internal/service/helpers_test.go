package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bodega/internal/models"
	"github.com/Skotchmaster/bodega/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repo.Migrate(db))
	return &repo.GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, active bool) models.Product {
	t.Helper()

	p := models.Product{
		Name:      name,
		Category:  "abarrotes",
		Price:     decimal.RequireFromString(price),
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, r.CreateProduct(context.Background(), &p))
	return p
}

type event struct {
	topic string
	key   string
	body  map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, e any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	body, _ := e.(map[string]any)
	p.events = append(p.events, event{topic: topic, key: key, body: body})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i], _ = e.body["type"].(string)
	}
	return out
}

type countingCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

type recordingIndex struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	deleted []uuid.UUID
	err     error
}

func (i *recordingIndex) IndexProduct(_ context.Context, p models.Product) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.indexed = append(i.indexed, p.ID)
	return i.err
}

func (i *recordingIndex) DeleteProduct(_ context.Context, id uuid.UUID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deleted = append(i.deleted, id)
	return i.err
}

func (i *recordingIndex) SearchProducts(context.Context, string, int, int) (int64, []models.Product, error) {
	return 0, nil, i.err
}

var errBackend = errors.New("backend unavailable")
