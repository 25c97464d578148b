// Package telegram связывает bot.Controller с Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linemk/vitrina-bot/internal/bot"
)

// API часть tgbotapi.BotAPI, нужная адаптеру
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger реализует bot.Messenger поверх Bot API.
type Messenger struct {
	log *slog.Logger
	api API
}

var _ bot.Messenger = (*Messenger)(nil)

func NewMessenger(log *slog.Logger, api API) *Messenger {
	return &Messenger{log: log, api: api}
}

// Send отправляет сообщение. Неудачное редактирование или фото
// заменяется обычным текстовым сообщением.
func (m *Messenger) Send(ctx context.Context, chatID int64, msg bot.Message) error {
	const op = "telegram.Messenger.Send"
	logger := m.log.With(slog.String("op", op), slog.Int64("chatID", chatID))

	if msg.EditMessageID != 0 && msg.Keyboard != nil {
		_, err := m.api.Request(editMessage(chatID, msg))
		if err == nil {
			return nil
		}
		logger.Debug("edit failed, sending new message", slog.Any("error", err))
	}

	if msg.PhotoURL != "" {
		_, err := m.api.Send(photoMessage(chatID, msg))
		if err == nil {
			return nil
		}
		logger.Warn("failed to send photo, falling back to text",
			slog.String("photo", msg.PhotoURL), slog.Any("error", err))
	}

	if _, err := m.api.Send(textMessage(chatID, msg)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func textMessage(chatID int64, msg bot.Message) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(chatID, msg.Text)
	if markup := replyMarkup(msg); markup != nil {
		out.ReplyMarkup = markup
	}
	return out
}

func photoMessage(chatID int64, msg bot.Message) tgbotapi.PhotoConfig {
	out := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(msg.PhotoURL))
	out.Caption = msg.Text
	if markup := replyMarkup(msg); markup != nil {
		out.ReplyMarkup = markup
	}
	return out
}

func editMessage(chatID int64, msg bot.Message) tgbotapi.EditMessageTextConfig {
	return tgbotapi.NewEditMessageTextAndMarkup(chatID, msg.EditMessageID, msg.Text, inlineKeyboard(msg.Keyboard))
}

// replyMarkup: запрос контакта и снятие клавиатуры важнее inline-кнопок
func replyMarkup(msg bot.Message) interface{} {
	switch {
	case msg.RequestContact:
		kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(bot.ShareContactText),
		))
		kb.ResizeKeyboard = true
		kb.OneTimeKeyboard = true
		return kb
	case msg.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(true)
	case msg.Keyboard != nil && len(msg.Keyboard.Rows) > 0:
		return inlineKeyboard(msg.Keyboard)
	default:
		return nil
	}
}

func inlineKeyboard(kb *bot.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
