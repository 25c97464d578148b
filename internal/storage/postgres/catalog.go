package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/linemk/vitrina-bot/internal/storage"
)

// catalogRepository - реализация storage.CatalogStorage поверх таблицы products.
type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository создаёт репозиторий каталога.
func NewCatalogRepository(db *sql.DB) storage.CatalogStorage {
	return &catalogRepository{db: db}
}

const listProductsQuery = `
		SELECT brand, category, item, bot_name, unit_price, total_stock,
		       size_s, size_m, size_l, size_xl, photo
		FROM products
		ORDER BY position`

// ListProducts читает все товары в порядке колонки position.
func (r *catalogRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "storage.postgres.ListProducts"

	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			p           models.Product
			s, m, l, xl int
		)
		if err := rows.Scan(&p.Brand, &p.Category, &p.Item, &p.DisplayName, &p.UnitPrice, &p.TotalStock,
			&s, &m, &l, &xl, &p.Photo); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
		}
		p.SizeStock = map[models.Size]int{
			models.SizeS:  max(s, 0),
			models.SizeM:  max(m, 0),
			models.SizeL:  max(l, 0),
			models.SizeXL: max(xl, 0),
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
	}
	return products, nil
}
