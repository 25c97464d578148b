package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linemk/vitrina-bot/internal/metrics"
)

// Handler обработчик одного события
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// Dispatcher обрабатывает события одного пользователя строго по порядку,
// разные пользователи обслуживаются параллельно. У каждого пользователя с
// непустой очередью ровно одна горутина-владелец.
type Dispatcher struct {
	log     *slog.Logger
	handler Handler
	limiter *Limiter
	metrics metrics.Recorder

	mu     sync.Mutex
	queues map[int64][]Event
	wg     sync.WaitGroup
}

// NewDispatcher: limiter может быть nil.
func NewDispatcher(log *slog.Logger, handler Handler, limiter *Limiter, rec metrics.Recorder) *Dispatcher {
	return &Dispatcher{
		log:     log,
		handler: handler,
		limiter: limiter,
		metrics: rec,
		queues:  make(map[int64][]Event),
	}
}

// Dispatch ставит событие в очередь пользователя и сразу возвращается.
// Возвращает false, если событие отброшено ограничителем.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) bool {
	if d.limiter != nil && !d.limiter.Allow(ev.UserID) {
		d.metrics.RecordDroppedEvent()
		d.log.Debug("event dropped by rate limiter", slog.Int64("userID", ev.UserID), slog.String("kind", ev.Kind.String()))
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if q, busy := d.queues[ev.UserID]; busy {
		d.queues[ev.UserID] = append(q, ev)
		return true
	}
	d.queues[ev.UserID] = []Event{ev}
	d.wg.Add(1)
	go d.drain(ctx, ev.UserID)
	return true
}

// Wait ждет завершения всех очередей.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) drain(ctx context.Context, userID int64) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		q := d.queues[userID]
		if len(q) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		ev := q[0]
		d.queues[userID] = q[1:]
		d.mu.Unlock()

		d.handle(ctx, ev)
	}
}

// handle паника в обработчике завершает только это событие
func (d *Dispatcher) handle(ctx context.Context, ev Event) {
	const op = "bot.Dispatcher.handle"
	logger := d.log.With(slog.String("op", op), slog.Int64("userID", ev.UserID), slog.String("kind", ev.Kind.String()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("handler panicked", slog.Any("error", fmt.Errorf("%v", r)))
		}
	}()

	err := d.handler.Handle(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, ErrPrecondition):
		logger.Warn("usage error", slog.String("data", ev.Data), slog.Any("error", err))
	default:
		logger.Error("failed to handle event", slog.String("data", ev.Data), slog.Any("error", err))
	}
}
