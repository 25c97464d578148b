package models

import (
	"strings"
	"time"
)

// Session незавершенный заказ пользователя, заполняется по шагам
type Session struct {
	UserID    int64     `json:"user_id"`
	Brand     string    `json:"brand,omitempty"`
	Category  string    `json:"category,omitempty"`
	Product   *Product  `json:"product,omitempty"`
	Size      Size      `json:"size,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Date      string    `json:"date,omitempty"`
	Time      string    `json:"time,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone копия сессии вместе со снимком товара
func (s *Session) Clone() *Session {
	c := *s
	if s.Product != nil {
		p := s.Product.Clone()
		c.Product = &p
	}
	return &c
}

// Deadline дата и время получения одной строкой
func (s *Session) Deadline() string {
	return strings.TrimSpace(s.Date + " " + s.Time)
}
