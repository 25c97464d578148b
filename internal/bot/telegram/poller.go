package telegram

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linemk/vitrina-bot/internal/bot"
	"github.com/linemk/vitrina-bot/internal/domain/models"
)

const startCommand = "start"

// UpdatesSource источник обновлений long polling
type UpdatesSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher принимает события для обработки
type Dispatcher interface {
	Dispatch(ctx context.Context, ev bot.Event) bool
}

// Poller читает обновления и передает их диспетчеру.
type Poller struct {
	log        *slog.Logger
	api        API
	updates    UpdatesSource
	dispatcher Dispatcher
	timeout    int
}

func NewPoller(log *slog.Logger, api API, updates UpdatesSource, dispatcher Dispatcher, timeout int) *Poller {
	return &Poller{
		log:        log,
		api:        api,
		updates:    updates,
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

// Run блокируется до отмены контекста
func (p *Poller) Run(ctx context.Context) {
	const op = "telegram.Poller.Run"
	logger := p.log.With(slog.String("op", op))

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	updates := p.updates.GetUpdatesChan(cfg)
	defer p.updates.StopReceivingUpdates()

	logger.Info("polling started", slog.Int("timeout", p.timeout))
	for {
		select {
		case <-ctx.Done():
			logger.Info("polling stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				logger.Warn("updates channel closed")
				return
			}
			p.handle(ctx, upd)
		}
	}
}

func (p *Poller) handle(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		// убираем "часики" на кнопке сразу, до обработки
		if _, err := p.api.Request(tgbotapi.NewCallback(upd.CallbackQuery.ID, "")); err != nil {
			p.log.Debug("failed to answer callback", slog.Any("error", err))
		}
	}

	ev, ok := ToEvent(upd)
	if !ok {
		return
	}
	// принятые события дорабатываются и после остановки опроса
	p.dispatcher.Dispatch(context.WithoutCancel(ctx), ev)
}

// ToEvent переводит обновление Telegram в событие бота.
// Прочие сообщения и команды игнорируются.
func ToEvent(upd tgbotapi.Update) (bot.Event, bool) {
	switch {
	case upd.CallbackQuery != nil:
		q := upd.CallbackQuery
		if q.From == nil {
			return bot.Event{}, false
		}
		ev := bot.Event{
			Kind:     bot.EventCallback,
			UserID:   q.From.ID,
			ChatID:   q.From.ID,
			Username: q.From.UserName,
			Data:     q.Data,
		}
		if q.Message != nil {
			ev.MessageID = q.Message.MessageID
			if q.Message.Chat != nil {
				ev.ChatID = q.Message.Chat.ID
			}
		}
		return ev, true

	case upd.Message != nil:
		m := upd.Message
		if m.From == nil || m.Chat == nil {
			return bot.Event{}, false
		}
		ev := bot.Event{
			UserID:    m.From.ID,
			ChatID:    m.Chat.ID,
			Username:  m.From.UserName,
			MessageID: m.MessageID,
		}
		switch {
		case m.Contact != nil:
			ev.Kind = bot.EventContact
			ev.Contact = &models.Contact{FirstName: m.Contact.FirstName, PhoneNumber: m.Contact.PhoneNumber}
			return ev, true
		case m.IsCommand() && m.Command() == startCommand:
			ev.Kind = bot.EventStart
			return ev, true
		}
	}
	return bot.Event{}, false
}
