package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linemk/vitrina-bot/internal/domain/models"
)

// Заголовки колонок листа товаров
const (
	ColBrand       = "Бренд"
	ColCategory    = "Категория"
	ColItem        = "Товар"
	ColDisplayName = "Название (бот)"
	ColUnitPrice   = "Цена за единицу"
	ColTotalStock  = "Общий остаток"
	ColPhoto       = "Фото (бот)"
)

// SizeColumn заголовок колонки остатка по размеру, например "Размер M"
func SizeColumn(size models.Size) string {
	return "Размер " + string(size)
}

// ProductFromRecord собирает товар из строки, индексированной заголовками.
// Строки без бренда пропускаются (ok = false).
func ProductFromRecord(rec map[string]string) (models.Product, bool) {
	brand := strings.TrimSpace(rec[ColBrand])
	if brand == "" {
		return models.Product{}, false
	}

	p := models.Product{
		Brand:       brand,
		Category:    strings.TrimSpace(rec[ColCategory]),
		Item:        strings.TrimSpace(rec[ColItem]),
		DisplayName: strings.TrimSpace(rec[ColDisplayName]),
		UnitPrice:   strings.TrimSpace(rec[ColUnitPrice]),
		TotalStock:  parseCount(rec[ColTotalStock]),
		Photo:       strings.TrimSpace(rec[ColPhoto]),
		SizeStock:   make(map[models.Size]int, len(models.Sizes)),
	}
	for _, size := range models.Sizes {
		p.SizeStock[size] = parseCount(rec[SizeColumn(size)])
	}
	return p, true
}

// RowsToRecords превращает таблицу с заголовком в первой строке в записи
func RowsToRecords(rows [][]interface{}) []map[string]string {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(cellString(h))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = cellString(row[i])
			}
		}
		records = append(records, rec)
	}
	return records
}

// пустые и нечисловые остатки считаются нулем, отрицательные тоже
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}
