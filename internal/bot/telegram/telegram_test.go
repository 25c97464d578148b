package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/linemk/vitrina-bot/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu         sync.Mutex
	sent       []tgbotapi.Chattable
	requested  []tgbotapi.Chattable
	sendErr    map[string]error
	requestErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.sendErr[kindOf(c)]; err != nil {
		return tgbotapi.Message{}, err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, c)
	if f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func kindOf(c tgbotapi.Chattable) string {
	switch c.(type) {
	case tgbotapi.PhotoConfig:
		return "photo"
	case tgbotapi.MessageConfig:
		return "message"
	default:
		return "other"
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var keyboard = &bot.Keyboard{Rows: [][]bot.Button{
	{{Text: "Nike", Data: "brand:Nike"}, {Text: "Puma", Data: "brand:Puma"}},
	{{Text: "⬅️ Назад", Data: "back:start"}},
}}

func TestMessenger_TextWithInlineKeyboard(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(discardLogger(), api)

	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "hi", Keyboard: keyboard}))
	require.Len(t, api.sent, 1)

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(10), msg.ChatID)
	assert.Equal(t, "hi", msg.Text)

	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "brand:Puma", *markup.InlineKeyboard[0][1].CallbackData)
}

func TestMessenger_PhotoFallsBackToText(t *testing.T) {
	api := &fakeAPI{sendErr: map[string]error{"photo": errors.New("bad url")}}
	m := NewMessenger(discardLogger(), api)

	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "card", PhotoURL: "https://x/y.jpg", Keyboard: keyboard}))
	require.Len(t, api.sent, 1)
	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "card", msg.Text)
}

func TestMessenger_Photo(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(discardLogger(), api)

	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "card", PhotoURL: "https://x/y.jpg"}))
	photo, ok := api.sent[0].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, "card", photo.Caption)
	assert.Equal(t, tgbotapi.FileURL("https://x/y.jpg"), photo.File)
	assert.Nil(t, photo.ReplyMarkup)
}

func TestMessenger_EditAndFallback(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(discardLogger(), api)

	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "edit", Keyboard: keyboard, EditMessageID: 5}))
	require.Len(t, api.requested, 1)
	edit, ok := api.requested[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 5, edit.MessageID)
	assert.Empty(t, api.sent)

	api.requestErr = errors.New("message is not modified")
	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "edit", Keyboard: keyboard, EditMessageID: 5}))
	assert.Len(t, api.sent, 1)
}

func TestMessenger_ContactAndRemoveKeyboard(t *testing.T) {
	api := &fakeAPI{}
	m := NewMessenger(discardLogger(), api)

	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "contact?", RequestContact: true}))
	require.NoError(t, m.Send(context.Background(), 10, bot.Message{Text: "thanks", RemoveKeyboard: true}))

	reply, ok := api.sent[0].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, reply.ResizeKeyboard)
	assert.True(t, reply.OneTimeKeyboard)
	assert.True(t, reply.Keyboard[0][0].RequestContact)
	assert.Equal(t, bot.ShareContactText, reply.Keyboard[0][0].Text)

	remove, ok := api.sent[1].(tgbotapi.MessageConfig).ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	require.True(t, ok)
	assert.True(t, remove.RemoveKeyboard)
}

func TestMessenger_SendError(t *testing.T) {
	api := &fakeAPI{sendErr: map[string]error{"message": errors.New("blocked")}}
	m := NewMessenger(discardLogger(), api)

	assert.Error(t, m.Send(context.Background(), 10, bot.Message{Text: "hi"}))
}

func startUpdate() tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 7, UserName: "anna"},
		Chat:      &tgbotapi.Chat{ID: 7},
		Text:      "/start",
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}
}

func TestToEvent(t *testing.T) {
	ev, ok := ToEvent(startUpdate())
	require.True(t, ok)
	assert.Equal(t, bot.EventStart, ev.Kind)
	assert.Equal(t, int64(7), ev.UserID)
	assert.Equal(t, "anna", ev.Username)

	ev, ok = ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q1",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{MessageID: 33, Chat: &tgbotapi.Chat{ID: 70}},
		Data:    "time:10:00",
	}})
	require.True(t, ok)
	assert.Equal(t, bot.EventCallback, ev.Kind)
	assert.Equal(t, int64(70), ev.ChatID)
	assert.Equal(t, 33, ev.MessageID)
	assert.Equal(t, "time:10:00", ev.Data)

	ev, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		From:    &tgbotapi.User{ID: 7},
		Chat:    &tgbotapi.Chat{ID: 7},
		Contact: &tgbotapi.Contact{FirstName: "Anna", PhoneNumber: "+79990000000"},
	}})
	require.True(t, ok)
	assert.Equal(t, bot.EventContact, ev.Kind)
	assert.Equal(t, "Anna", ev.Contact.FirstName)
	assert.Equal(t, "+79990000000", ev.Contact.PhoneNumber)

	_, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 7}, Chat: &tgbotapi.Chat{ID: 7}, Text: "привет",
	}})
	assert.False(t, ok)
}

type fakeUpdates struct {
	ch      chan tgbotapi.Update
	stopped bool
}

func (f *fakeUpdates) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.ch }
func (f *fakeUpdates) StopReceivingUpdates()                                       { f.stopped = true }

type fakeDispatcher struct {
	mu     sync.Mutex
	events []bot.Event
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, ev bot.Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return true
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestPoller_Run(t *testing.T) {
	api := &fakeAPI{}
	updates := &fakeUpdates{ch: make(chan tgbotapi.Update, 2)}
	dispatcher := &fakeDispatcher{}
	p := NewPoller(discardLogger(), api, updates, dispatcher, 1)

	updates.ch <- startUpdate()
	updates.ch <- tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "q", From: &tgbotapi.User{ID: 7}, Data: "done"}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return dispatcher.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.True(t, updates.stopped)
	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.requested, 1)
	_, ok := api.requested[0].(tgbotapi.CallbackConfig)
	assert.True(t, ok)
}
