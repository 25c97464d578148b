package models

// Size размер одежды в каталоге
type Size string

const (
	SizeS  Size = "S"
	SizeM  Size = "M"
	SizeL  Size = "L"
	SizeXL Size = "XL"
)

// Sizes фиксированный порядок показа размеров
var Sizes = []Size{SizeS, SizeM, SizeL, SizeXL}

// ParseSize проверяет, что строка - один из известных размеров
func ParseSize(s string) (Size, bool) {
	for _, size := range Sizes {
		if string(size) == s {
			return size, true
		}
	}
	return "", false
}

// Product строка каталога; во время сессии не меняется
type Product struct {
	Brand       string       `json:"brand"`
	Category    string       `json:"category"`
	Item        string       `json:"item"`
	DisplayName string       `json:"display_name"` // "Название (бот)", может быть пустым
	UnitPrice   string       `json:"unit_price"`   // как в таблице, например "2 000₽"
	TotalStock  int          `json:"total_stock"`
	SizeStock   map[Size]int `json:"size_stock"`
	Photo       string       `json:"photo"`
}

// Name название для бота, если его нет - название товара
func (p Product) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Item
}

// Stock остаток по размеру
func (p Product) Stock(size Size) int {
	return p.SizeStock[size]
}

// AvailableSizes размеры с положительным остатком в порядке S, M, L, XL
func (p Product) AvailableSizes() []Size {
	var sizes []Size
	for _, size := range Sizes {
		if p.SizeStock[size] > 0 {
			sizes = append(sizes, size)
		}
	}
	return sizes
}

// Clone глубокая копия, чтобы сессия хранила снимок, а не ссылку на каталог
func (p Product) Clone() Product {
	c := p
	c.SizeStock = make(map[Size]int, len(p.SizeStock))
	for k, v := range p.SizeStock {
		c.SizeStock[k] = v
	}
	return c
}
