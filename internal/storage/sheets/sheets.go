// Package sheets хранит каталог и журнал заказов в Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/linemk/vitrina-bot/internal/storage"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ValuesAPI минимальный набор операций с диапазонами таблицы
type ValuesAPI interface {
	Get(ctx context.Context, rng string) ([][]interface{}, error)
	Append(ctx context.Context, rng string, row []interface{}) error
}

// Store реализует storage.CatalogStorage и storage.OrderStorage на двух листах.
type Store struct {
	api           ValuesAPI
	productsSheet string
	ordersSheet   string
}

var (
	_ storage.CatalogStorage = (*Store)(nil)
	_ storage.OrderStorage   = (*Store)(nil)
)

// NewStore создаёт хранилище над листами productsSheet и ordersSheet.
func NewStore(api ValuesAPI, productsSheet, ordersSheet string) *Store {
	return &Store{api: api, productsSheet: productsSheet, ordersSheet: ordersSheet}
}

// ListProducts читает лист товаров целиком; первая строка - заголовок.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	const op = "storage.sheets.ListProducts"

	rows, err := s.api.Get(ctx, sheetRange(s.productsSheet))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
	}

	var products []models.Product
	for _, rec := range storage.RowsToRecords(rows) {
		if p, ok := storage.ProductFromRecord(rec); ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// AppendOrder добавляет заказ строкой в конец листа заказов.
func (s *Store) AppendOrder(ctx context.Context, order *models.Order) error {
	const op = "storage.sheets.AppendOrder"

	if err := s.api.Append(ctx, sheetRange(s.ordersSheet), order.Row()); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrStoreUnavailable, err)
	}
	return nil
}

// имя листа в A1-нотации, кавычки внутри удваиваются
func sheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// serviceValues обертка над Sheets API v4
type serviceValues struct {
	srv           *gsheets.Service
	spreadsheetID string
}

// NewValuesAPI подключается к таблице по ключу сервисного аккаунта.
func NewValuesAPI(ctx context.Context, credentialsFile, spreadsheetID string) (ValuesAPI, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &serviceValues{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (v *serviceValues) Get(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := v.srv.Spreadsheets.Values.Get(v.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) Append(ctx context.Context, rng string, row []interface{}) error {
	_, err := v.srv.Spreadsheets.Values.Append(v.spreadsheetID, rng, &gsheets.ValueRange{
		Values: [][]interface{}{row},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
