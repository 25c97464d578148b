// Package session хранит незавершенные заказы пользователей.
package session

import (
	"context"

	"github.com/linemk/vitrina-bot/internal/domain/models"
)

// Store хранилище сессий по идентификатору пользователя.
// Get возвращает копию; изменения делаются только через Update.
type Store interface {
	Get(ctx context.Context, userID int64) (*models.Session, bool, error)
	// Reset заменяет сессию пустой.
	Reset(ctx context.Context, userID int64) error
	// Update создает сессию при отсутствии и применяет fn.
	Update(ctx context.Context, userID int64, fn func(*models.Session)) (*models.Session, error)
	Len(ctx context.Context) (int, error)
}
