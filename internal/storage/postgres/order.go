package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/linemk/vitrina-bot/internal/storage"
)

// orderRepository - реализация storage.OrderStorage поверх таблицы orders.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт репозиторий заказов.
func NewOrderRepository(db *sql.DB) storage.OrderStorage {
	return &orderRepository{db: db}
}

const insertOrderQuery = `INSERT INTO orders (id, created_at, product_name, size, quantity, contact_name,
	          contact_phone, username, price, brand, deadline)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// AppendOrder вставляет одну строку заказа.
func (r *orderRepository) AppendOrder(ctx context.Context, o *models.Order) error {
	const op = "storage.postgres.AppendOrder"

	_, err := r.db.ExecContext(ctx, insertOrderQuery,
		o.ID, o.CreatedAt, o.ProductName, string(o.Size), o.Quantity, o.ContactName,
		o.ContactPhone, o.Username, o.PriceLabel(), o.Brand, o.Deadline)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
	}
	return nil
}
