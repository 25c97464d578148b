package bot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter ограничивает частоту событий от одного пользователя (двойные нажатия и т.п.).
type Limiter struct {
	rate  rate.Limit
	burst int
	now   func() time.Time

	mu       sync.Mutex
	limiters map[int64]*userLimiter
}

// NewLimiter возвращает nil при perSecond <= 0: ограничение выключено.
func NewLimiter(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rate:     rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
		limiters: make(map[int64]*userLimiter),
	}
}

func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastAccess = now
	return ul.limiter.AllowN(now, 1)
}

// Cleanup удаляет лимитеры, к которым не обращались дольше idle.
func (l *Limiter) Cleanup(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, ul := range l.limiters {
		if now.Sub(ul.lastAccess) > idle {
			delete(l.limiters, id)
			removed++
		}
	}
	return removed
}

// Start периодически вызывает Cleanup до отмены контекста.
func (l *Limiter) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(interval)
		}
	}
}
