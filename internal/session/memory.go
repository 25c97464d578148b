package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linemk/vitrina-bot/internal/domain/models"
)

// MemoryStore сессии в памяти процесса, ограниченные временем простоя и числом записей.
type MemoryStore struct {
	idleTTL    time.Duration
	maxEntries int
	now        func() time.Time

	mu       sync.Mutex
	sessions map[int64]*models.Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore: idleTTL <= 0 отключает вытеснение по простою, maxEntries <= 0 - по размеру.
func NewMemoryStore(idleTTL time.Duration, maxEntries int) *MemoryStore {
	return &MemoryStore{
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
		now:        time.Now,
		sessions:   make(map[int64]*models.Session),
	}
}

func (m *MemoryStore) Get(_ context.Context, userID int64) (*models.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, false, nil
	}
	if m.expired(s, m.now()) {
		delete(m.sessions, userID)
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (m *MemoryStore) Reset(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(userID, &models.Session{UserID: userID, UpdatedAt: m.now()})
	return nil
}

func (m *MemoryStore) Update(_ context.Context, userID int64, fn func(*models.Session)) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	s, ok := m.sessions[userID]
	if !ok || m.expired(s, now) {
		s = &models.Session{UserID: userID}
	}
	fn(s)
	s.UserID = userID
	s.UpdatedAt = now
	m.put(userID, s)
	return s.Clone(), nil
}

func (m *MemoryStore) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}

// Sweep удаляет сессии, простаивающие дольше idleTTL, и возвращает их число.
func (m *MemoryStore) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) expired(s *models.Session, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(s.UpdatedAt) >= m.idleTTL
}

// put под m.mu; при переполнении вытесняет самую давнюю сессию
func (m *MemoryStore) put(userID int64, s *models.Session) {
	if _, exists := m.sessions[userID]; !exists && m.maxEntries > 0 && len(m.sessions) >= m.maxEntries {
		var (
			oldestID int64
			oldest   time.Time
			found    bool
		)
		for id, cur := range m.sessions {
			if !found || cur.UpdatedAt.Before(oldest) {
				oldestID, oldest, found = id, cur.UpdatedAt, true
			}
		}
		delete(m.sessions, oldestID)
	}
	m.sessions[userID] = s
}

// Sweeper периодически чистит MemoryStore.
type Sweeper struct {
	store  *MemoryStore
	logger *slog.Logger
}

func NewSweeper(store *MemoryStore, logger *slog.Logger) *Sweeper {
	return &Sweeper{store: store, logger: logger}
}

// Start запускает очистку с заданным интервалом до отмены контекста.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	const op = "session.Sweeper.Start"
	logger := s.logger.With(slog.String("op", op))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("session sweeper started", slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			if removed := s.store.Sweep(now); removed > 0 {
				logger.Debug("idle sessions evicted", slog.Int("removed", removed))
			}
		}
	}
}
