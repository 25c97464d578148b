package session

import (
	"context"
	"testing"
	"time"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func newTestStore(ttl time.Duration, max int) (*MemoryStore, *time.Time) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	m := NewMemoryStore(ttl, max)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestMemoryStore_UpdateCreatesImplicitly(t *testing.T) {
	m, _ := newTestStore(time.Hour, 0)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, 1)
	assert.NoError(t, err)
	assert.False(t, ok)

	s, err := m.Update(ctx, 1, func(s *models.Session) { s.Brand = "Nike" })
	assert.NoError(t, err)
	assert.Equal(t, int64(1), s.UserID)
	assert.Equal(t, "Nike", s.Brand)

	got, ok, _ := m.Get(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, "Nike", got.Brand)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	m, _ := newTestStore(time.Hour, 0)
	ctx := context.Background()

	p := models.Product{Brand: "Nike", SizeStock: map[models.Size]int{models.SizeM: 3}}
	_, _ = m.Update(ctx, 1, func(s *models.Session) { s.Product = &p })

	got, _, _ := m.Get(ctx, 1)
	got.Brand = "changed"
	got.Product.SizeStock[models.SizeM] = 0

	again, _, _ := m.Get(ctx, 1)
	assert.Equal(t, "", again.Brand)
	assert.Equal(t, 3, again.Product.SizeStock[models.SizeM])
}

func TestMemoryStore_ResetDropsStaleFields(t *testing.T) {
	m, _ := newTestStore(time.Hour, 0)
	ctx := context.Background()

	_, _ = m.Update(ctx, 1, func(s *models.Session) {
		s.Brand = "Nike"
		s.Size = models.SizeM
		s.Quantity = 2
	})
	assert.NoError(t, m.Reset(ctx, 1))

	got, ok, _ := m.Get(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, "", got.Brand)
	assert.Equal(t, models.Size(""), got.Size)
	assert.Equal(t, 0, got.Quantity)
}

func TestMemoryStore_IdleExpiryAndSweep(t *testing.T) {
	m, now := newTestStore(time.Hour, 0)
	ctx := context.Background()

	_, _ = m.Update(ctx, 1, func(s *models.Session) { s.Brand = "Nike" })
	*now = now.Add(30 * time.Minute)
	_, _ = m.Update(ctx, 2, func(s *models.Session) { s.Brand = "Adidas" })

	*now = now.Add(40 * time.Minute)
	_, ok, _ := m.Get(ctx, 1)
	assert.False(t, ok, "session idle for 70m is gone")

	_, ok, _ = m.Get(ctx, 2)
	assert.True(t, ok)

	assert.Equal(t, 1, m.Sweep(now.Add(time.Hour)))
	n, _ := m.Len(ctx)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_MaxEntriesEvictsOldest(t *testing.T) {
	m, now := newTestStore(0, 2)
	ctx := context.Background()

	_, _ = m.Update(ctx, 1, func(s *models.Session) {})
	*now = now.Add(time.Second)
	_, _ = m.Update(ctx, 2, func(s *models.Session) {})
	*now = now.Add(time.Second)
	_, _ = m.Update(ctx, 1, func(s *models.Session) {}) // 1 снова свежая
	*now = now.Add(time.Second)
	_, _ = m.Update(ctx, 3, func(s *models.Session) {})

	n, _ := m.Len(ctx)
	assert.Equal(t, 2, n)
	_, ok, _ := m.Get(ctx, 2)
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, 1)
	assert.True(t, ok)
}

func TestSweeper_StopsOnCancel(t *testing.T) {
	m := NewMemoryStore(time.Millisecond, 0)
	_, _ = m.Update(context.Background(), 1, func(s *models.Session) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(m, discardLogger()).Start(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		n, _ := m.Len(context.Background())
		return n == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
