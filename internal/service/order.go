package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/linemk/vitrina-bot/internal/events"
	"github.com/linemk/vitrina-bot/internal/metrics"
	"github.com/linemk/vitrina-bot/internal/storage"
)

// ErrIncompleteSession в сессии нет товара, размера или количества
var ErrIncompleteSession = errors.New("session is incomplete")

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, sess *models.Session, contact models.Contact, username string) (*models.Order, error)
}

// OrderService собирает заказ из сессии и записывает его в журнал.
type OrderService struct {
	log       *slog.Logger
	orders    storage.OrderStorage
	publisher events.Publisher
	metrics   metrics.Recorder
	validate  *validator.Validate
	now       func() time.Time
}

var _ OrderPlacer = (*OrderService)(nil)

func NewOrderService(log *slog.Logger, orders storage.OrderStorage, publisher events.Publisher, rec metrics.Recorder, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.Local
	}
	return &OrderService{
		log:       log,
		orders:    orders,
		publisher: publisher,
		metrics:   rec,
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// PlaceOrder строит заказ и добавляет одну строку в журнал.
// Повторов нет: при ошибке хранилища заказ не записан.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *models.Session, contact models.Contact, username string) (*models.Order, error) {
	const op = "service.OrderService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", sess.UserID))

	order, err := s.buildOrder(sess, contact, username)
	if err != nil {
		logger.Warn("cannot build order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.validate.Struct(order); err != nil {
		logger.Warn("order validation failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: invalid order: %w", op, err)
	}

	if err := s.orders.AppendOrder(ctx, order); err != nil {
		logger.Error("failed to append order", slog.Any("error", err))
		s.metrics.RecordStoreError("append_order")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordOrderPlaced(order.Brand, order.Price)

	// строка уже записана, ошибка публикации заказ не отменяет
	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		logger.Error("failed to publish order event", slog.String("orderID", order.ID), slog.Any("error", err))
	}

	logger.Info("order placed",
		slog.String("orderID", order.ID),
		slog.String("brand", order.Brand),
		slog.String("product", order.ProductName),
		slog.Int("quantity", order.Quantity),
		slog.Int64("price", order.Price),
	)
	return order, nil
}

func (s *OrderService) buildOrder(sess *models.Session, contact models.Contact, username string) (*models.Order, error) {
	if sess == nil || sess.Product == nil || sess.Size == "" || sess.Quantity <= 0 {
		return nil, ErrIncompleteSession
	}

	price, err := TotalPrice(sess.Product.UnitPrice, sess.Quantity)
	if err != nil {
		return nil, err
	}

	return &models.Order{
		ID:           uuid.NewString(),
		CreatedAt:    s.now(),
		ProductName:  sess.Product.Name(),
		Size:         sess.Size,
		Quantity:     sess.Quantity,
		ContactName:  contact.FirstName,
		ContactPhone: contact.PhoneNumber,
		Username:     username,
		Price:        price,
		Brand:        sess.Product.Brand,
		Deadline:     sess.Deadline(),
	}, nil
}
