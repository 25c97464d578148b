package storage

import (
	"context"
	"errors"

	"github.com/linemk/vitrina-bot/internal/domain/models"
)

// ErrStoreUnavailable чтение или запись во внешнее хранилище не удались
var ErrStoreUnavailable = errors.New("store unavailable")

// CatalogStorage описывает чтение каталога товаров.
type CatalogStorage interface {
	// ListProducts возвращает все строки каталога в порядке хранилища.
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// OrderStorage описывает журнал заказов.
type OrderStorage interface {
	// AppendOrder добавляет одну строку заказа. Повторный вызов создаст дубликат.
	AppendOrder(ctx context.Context, order *models.Order) error
}
