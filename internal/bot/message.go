// Package bot ведет пользователя по шагам оформления заказа.
// Транспорт (Telegram) подключается через Messenger и Event.
package bot

import (
	"context"

	"github.com/linemk/vitrina-bot/internal/domain/models"
)

type EventKind int

const (
	EventStart EventKind = iota
	EventCallback
	EventContact
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventCallback:
		return "callback"
	case EventContact:
		return "contact"
	default:
		return "unknown"
	}
}

// Event входящее событие от транспорта
type Event struct {
	Kind      EventKind
	UserID    int64
	ChatID    int64
	Username  string
	MessageID int    // сообщение с нажатой кнопкой, для редактирования
	Data      string // данные кнопки для EventCallback
	Contact   *models.Contact
}

// Button кнопка с данными обратного вызова
type Button struct {
	Text string
	Data string
}

// Keyboard кнопки под сообщением, по рядам
type Keyboard struct {
	Rows [][]Button
}

// Message исходящее сообщение. PhotoURL переключает на отправку фото с подписью Text.
// EditMessageID != 0 просит отредактировать существующее сообщение.
type Message struct {
	Text           string
	PhotoURL       string
	Keyboard       *Keyboard
	RequestContact bool
	RemoveKeyboard bool
	EditMessageID  int
}

// Messenger отправка сообщений пользователю
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg Message) error
}

// grid раскладывает кнопки по рядам шириной perRow
func grid(buttons []Button, perRow int) [][]Button {
	var rows [][]Button
	for len(buttons) > 0 {
		n := min(perRow, len(buttons))
		rows = append(rows, buttons[:n:n])
		buttons = buttons[n:]
	}
	return rows
}

func keyboard(buttons []Button, perRow int, extra ...Button) *Keyboard {
	kb := &Keyboard{Rows: grid(buttons, perRow)}
	for _, b := range extra {
		kb.Rows = append(kb.Rows, []Button{b})
	}
	return kb
}
