package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedPrice в строке цены нет ни одной цифры
var ErrMalformedPrice = errors.New("malformed price")

var maxPrice = decimal.NewFromInt(math.MaxInt64)

// ParsePrice оставляет в строке только цифры: "2 000₽" -> 2000.
func ParsePrice(s string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedPrice, s)
	}
	return decimal.RequireFromString(b.String()), nil
}

// TotalPrice цена за единицу, умноженная на количество
func TotalPrice(unitPrice string, quantity int) (int64, error) {
	price, err := ParsePrice(unitPrice)
	if err != nil {
		return 0, err
	}
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	if total.GreaterThan(maxPrice) {
		return 0, fmt.Errorf("%w: %q x %d overflows", ErrMalformedPrice, unitPrice, quantity)
	}
	return total.IntPart(), nil
}
