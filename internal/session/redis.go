package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vitrina:session:"

// RedisStore сессии в Redis; TTL продлевается при каждом изменении.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (r *RedisStore) Get(ctx context.Context, userID int64) (*models.Session, bool, error) {
	const op = "session.RedisStore.Get"

	b, err := r.rdb.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, false, fmt.Errorf("%s: unmarshal session: %w", op, err)
	}
	return &s, true, nil
}

func (r *RedisStore) Reset(ctx context.Context, userID int64) error {
	const op = "session.RedisStore.Reset"

	if err := r.save(ctx, &models.Session{UserID: userID, UpdatedAt: r.now()}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Update читает и перезаписывает сессию без WATCH: события одного пользователя
// обрабатываются последовательно диспетчером.
func (r *RedisStore) Update(ctx context.Context, userID int64, fn func(*models.Session)) (*models.Session, error) {
	const op = "session.RedisStore.Update"

	s, ok, err := r.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		s = &models.Session{}
	}
	fn(s)
	s.UserID = userID
	s.UpdatedAt = r.now()

	if err := r.save(ctx, s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Clone(), nil
}

func (r *RedisStore) Len(ctx context.Context) (int, error) {
	n := 0
	iter := r.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("session.RedisStore.Len: %w", err)
	}
	return n, nil
}

func (r *RedisStore) save(ctx context.Context, s *models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(s.UserID), b, r.ttl).Err()
}
