package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/linemk/vitrina-bot/internal/metrics"
	"github.com/linemk/vitrina-bot/internal/storage"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogService отвечает на вопросы о брендах, категориях и товарах.
// Каждый вызов читает каталог через storage.CatalogStorage.
type CatalogService struct {
	log     *slog.Logger
	catalog storage.CatalogStorage
	metrics metrics.Recorder
}

func NewCatalogService(log *slog.Logger, catalog storage.CatalogStorage, rec metrics.Recorder) *CatalogService {
	return &CatalogService{log: log, catalog: catalog, metrics: rec}
}

// Brands уникальные бренды в алфавитном порядке
func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	const op = "service.CatalogService.Brands"

	products, err := s.list(ctx, op)
	if err != nil {
		return nil, err
	}
	return distinct(products, func(p models.Product) (string, bool) { return p.Brand, true }), nil
}

// Categories уникальные категории бренда в алфавитном порядке
func (s *CatalogService) Categories(ctx context.Context, brand string) ([]string, error) {
	const op = "service.CatalogService.Categories"

	products, err := s.list(ctx, op)
	if err != nil {
		return nil, err
	}
	return distinct(products, func(p models.Product) (string, bool) { return p.Category, p.Brand == brand }), nil
}

// Products товары бренда и категории в порядке хранилища.
// Позиция в срезе служит идентификатором товара в кнопках.
func (s *CatalogService) Products(ctx context.Context, brand, category string) ([]models.Product, error) {
	const op = "service.CatalogService.Products"

	products, err := s.list(ctx, op)
	if err != nil {
		return nil, err
	}
	var out []models.Product
	for _, p := range products {
		if p.Brand == brand && p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Product товар по позиции в выборке Products
func (s *CatalogService) Product(ctx context.Context, brand, category string, index int) (models.Product, error) {
	const op = "service.CatalogService.Product"

	products, err := s.Products(ctx, brand, category)
	if err != nil {
		return models.Product{}, err
	}
	if index < 0 || index >= len(products) {
		return models.Product{}, fmt.Errorf("%s: index %d of %d: %w", op, index, len(products), ErrProductNotFound)
	}
	return products[index], nil
}

func (s *CatalogService) list(ctx context.Context, op string) ([]models.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.log.Error("failed to read catalog", slog.String("op", op), slog.Any("error", err))
		s.metrics.RecordStoreError("list_products")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func distinct(products []models.Product, key func(models.Product) (string, bool)) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		k, ok := key(p)
		if !ok || k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
