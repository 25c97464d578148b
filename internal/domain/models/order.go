package models

import (
	"strconv"
	"time"
)

// TimestampLayout формат времени заказа в журнале
const TimestampLayout = "2006-01-02 15:04:05"

// Currency знак валюты, дописываемый к сумме заказа
const Currency = "₽"

// Order запись о заказе, только добавляется в журнал
type Order struct {
	ID           string    `json:"id" validate:"required"`
	CreatedAt    time.Time `json:"created_at" validate:"required"`
	ProductName  string    `json:"product_name" validate:"required"`
	Size         Size      `json:"size" validate:"required,oneof=S M L XL"`
	Quantity     int       `json:"quantity" validate:"min=1"`
	ContactName  string    `json:"contact_name" validate:"required"`
	ContactPhone string    `json:"contact_phone" validate:"required"`
	Username     string    `json:"username,omitempty"`
	Price        int64     `json:"price" validate:"min=0"`
	Brand        string    `json:"brand" validate:"required"`
	Deadline     string    `json:"deadline" validate:"required"`
}

// PriceLabel сумма в виде "4000₽"
func (o *Order) PriceLabel() string {
	return strconv.FormatInt(o.Price, 10) + Currency
}

// Row десять значений в порядке колонок листа заказов
func (o *Order) Row() []interface{} {
	return []interface{}{
		o.CreatedAt.Format(TimestampLayout),
		o.ProductName,
		string(o.Size),
		o.Quantity,
		o.ContactName,
		o.ContactPhone,
		o.Username,
		o.PriceLabel(),
		o.Brand,
		o.Deadline,
	}
}

// Contact контакт, которым поделился пользователь
type Contact struct {
	FirstName   string
	PhoneNumber string
}
