package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/linemk/vitrina-bot/internal/domain/models"
	"github.com/linemk/vitrina-bot/internal/metrics"
	"github.com/linemk/vitrina-bot/internal/service"
	"github.com/linemk/vitrina-bot/internal/session"
)

// ErrPrecondition шаг вызван без обязательного предыдущего выбора
var ErrPrecondition = errors.New("usage precondition failed")

const (
	dateLayout  = "2006-01-02"
	dateLabel   = "02.01"
	daysOffered = 5
)

// TimeSlots фиксированные слоты времени получения
var TimeSlots = []string{"10:00", "12:00", "14:00", "16:00", "18:00"}

// Catalog источник вариантов для кнопок
type Catalog interface {
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context, brand string) ([]string, error)
	Products(ctx context.Context, brand, category string) ([]models.Product, error)
	Product(ctx context.Context, brand, category string, index int) (models.Product, error)
}

// Controller конечный автомат диалога: одно событие - один переход и одно сообщение.
type Controller struct {
	log       *slog.Logger
	catalog   Catalog
	orders    service.OrderPlacer
	sessions  session.Store
	messenger Messenger
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewController(
	log *slog.Logger,
	catalog Catalog,
	orders service.OrderPlacer,
	sessions session.Store,
	messenger Messenger,
	rec metrics.Recorder,
	loc *time.Location,
) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		log:       log,
		catalog:   catalog,
		orders:    orders,
		sessions:  sessions,
		messenger: messenger,
		metrics:   rec,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

// Handle обрабатывает одно событие. Пользователь уже уведомлен об ошибке,
// возвращаемое значение нужно транспорту для логирования.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	c.metrics.RecordEvent(ev.Kind.String())

	switch ev.Kind {
	case EventStart:
		return c.start(ctx, ev)
	case EventContact:
		return c.saveOrder(ctx, ev)
	case EventCallback:
		return c.handleCallback(ctx, ev)
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func (c *Controller) handleCallback(ctx context.Context, ev Event) error {
	action, value := parseCallback(ev.Data)

	switch action {
	case ActionStartOver:
		return c.start(ctx, ev)
	case ActionDone:
		return c.send(ctx, ev, Message{Text: textGoodbye})
	case ActionBrand:
		return c.chooseBrand(ctx, ev, value, true)
	case ActionCategory:
		return c.chooseCategory(ctx, ev, value)
	case ActionProduct:
		return c.chooseProduct(ctx, ev, value)
	case ActionSize:
		return c.chooseSize(ctx, ev, value)
	case ActionQuantity:
		return c.chooseQuantity(ctx, ev, value)
	case ActionDate:
		return c.chooseDate(ctx, ev, value)
	case ActionTime:
		return c.chooseTime(ctx, ev, value)
	case ActionBack:
		return c.goBack(ctx, ev, value)
	default:
		c.log.Debug("unknown callback ignored", slog.Int64("userID", ev.UserID), slog.String("data", ev.Data))
		return nil
	}
}

// start сбрасывает сессию и предлагает бренды
func (c *Controller) start(ctx context.Context, ev Event) error {
	if err := c.sessions.Reset(ctx, ev.UserID); err != nil {
		return c.storeFailure(ctx, ev, "start", err)
	}

	brands, err := c.catalog.Brands(ctx)
	if err != nil {
		return c.storeFailure(ctx, ev, "start", err)
	}
	if len(brands) == 0 {
		return c.send(ctx, ev, Message{Text: textNoBrands})
	}

	buttons := make([]Button, 0, len(brands))
	for _, b := range brands {
		buttons = append(buttons, brandButton(b))
	}
	return c.send(ctx, ev, Message{Text: textWelcome, Keyboard: keyboard(buttons, 2)})
}

// chooseBrand полностью перезаписывает сессию выбранным брендом
func (c *Controller) chooseBrand(ctx context.Context, ev Event, brand string, overwrite bool) error {
	if brand == "" {
		return c.precondition(ctx, ev, "brand", textErrNoBrand)
	}
	if overwrite {
		if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
			*s = models.Session{Brand: brand}
		}); err != nil {
			return c.storeFailure(ctx, ev, "brand", err)
		}
	}

	categories, err := c.catalog.Categories(ctx, brand)
	if err != nil {
		return c.storeFailure(ctx, ev, "brand", err)
	}

	buttons := make([]Button, 0, len(categories))
	for _, cat := range categories {
		buttons = append(buttons, categoryButton(cat))
	}
	msg := Message{
		Text:     fmt.Sprintf(textChooseCategory, brand),
		Keyboard: keyboard(buttons, 2, backButton(BackStart)),
	}
	if overwrite {
		msg.EditMessageID = ev.MessageID
	}
	return c.send(ctx, ev, msg)
}

func (c *Controller) chooseCategory(ctx context.Context, ev Event, category string) error {
	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "category", err)
	}
	if sess.Brand == "" {
		return c.precondition(ctx, ev, "category", textErrNoBrand)
	}

	if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
		s.Category = category
		clearFromProduct(s)
	}); err != nil {
		return c.storeFailure(ctx, ev, "category", err)
	}
	return c.showProducts(ctx, ev, sess.Brand, category, ev.MessageID)
}

func (c *Controller) showProducts(ctx context.Context, ev Event, brand, category string, editID int) error {
	products, err := c.catalog.Products(ctx, brand, category)
	if err != nil {
		return c.storeFailure(ctx, ev, "category", err)
	}

	buttons := make([]Button, 0, len(products))
	for i, p := range products {
		buttons = append(buttons, productButton(p.Name(), i))
	}
	text := fmt.Sprintf(textChooseProduct, category)
	if len(products) == 0 {
		text = textNoProducts
	}
	return c.send(ctx, ev, Message{
		Text:          text,
		Keyboard:      keyboard(buttons, 1, backButton(BackBrand)),
		EditMessageID: editID,
	})
}

// chooseProduct сохраняет снимок товара по позиции в списке
func (c *Controller) chooseProduct(ctx context.Context, ev Event, value string) error {
	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "product", err)
	}
	if sess.Brand == "" {
		return c.precondition(ctx, ev, "product", textErrNoBrand)
	}
	if sess.Category == "" {
		return c.precondition(ctx, ev, "product", textErrNoCategory)
	}

	idx, err := strconv.Atoi(value)
	if err != nil {
		return c.precondition(ctx, ev, "product", textErrProductGone)
	}
	product, err := c.catalog.Product(ctx, sess.Brand, sess.Category, idx)
	if errors.Is(err, service.ErrProductNotFound) {
		return c.precondition(ctx, ev, "product", textErrProductGone)
	}
	if err != nil {
		return c.storeFailure(ctx, ev, "product", err)
	}

	snapshot := product.Clone()
	if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
		clearFromProduct(s)
		s.Product = &snapshot
	}); err != nil {
		return c.storeFailure(ctx, ev, "product", err)
	}
	return c.showProductCard(ctx, ev, snapshot)
}

// showProductCard фото с подписью и кнопки размеров с положительным остатком
func (c *Controller) showProductCard(ctx context.Context, ev Event, p models.Product) error {
	sizes := p.AvailableSizes()
	buttons := make([]Button, 0, len(sizes))
	for _, s := range sizes {
		buttons = append(buttons, Button{Text: string(s), Data: callbackData(ActionSize, string(s))})
	}

	caption := fmt.Sprintf(textProductCard, p.Name(), p.UnitPrice, p.TotalStock)
	if len(sizes) == 0 {
		caption += textOutOfStock
	}
	return c.send(ctx, ev, Message{
		Text:     caption,
		PhotoURL: p.Photo,
		Keyboard: keyboard(buttons, 2, backButton(BackCategory)),
	})
}

func (c *Controller) chooseSize(ctx context.Context, ev Event, value string) error {
	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "size", err)
	}
	if sess.Product == nil {
		return c.precondition(ctx, ev, "size", textErrNoProduct)
	}
	size, ok := models.ParseSize(value)
	if !ok || sess.Product.Stock(size) <= 0 {
		return c.precondition(ctx, ev, "size", textErrSizeGone)
	}

	if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
		s.Size = size
		s.Quantity = 0
		s.Date, s.Time = "", ""
	}); err != nil {
		return c.storeFailure(ctx, ev, "size", err)
	}
	return c.showQuantities(ctx, ev, *sess.Product, size)
}

// showQuantities кнопки от 1 до остатка выбранного размера
func (c *Controller) showQuantities(ctx context.Context, ev Event, p models.Product, size models.Size) error {
	stock := p.Stock(size)
	buttons := make([]Button, 0, stock)
	for i := 1; i <= stock; i++ {
		n := strconv.Itoa(i)
		buttons = append(buttons, Button{Text: n, Data: callbackData(ActionQuantity, n)})
	}
	return c.send(ctx, ev, Message{
		Text:     fmt.Sprintf(textChooseQuantity, size),
		Keyboard: keyboard(buttons, 4, backButton(BackProduct)),
	})
}

func (c *Controller) chooseQuantity(ctx context.Context, ev Event, value string) error {
	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "quantity", err)
	}
	if sess.Product == nil {
		return c.precondition(ctx, ev, "quantity", textErrNoProduct)
	}
	if sess.Size == "" {
		return c.precondition(ctx, ev, "quantity", textErrNoSize)
	}
	qty, err := strconv.Atoi(value)
	if err != nil || qty < 1 || qty > sess.Product.Stock(sess.Size) {
		return c.precondition(ctx, ev, "quantity", textErrQuantity)
	}

	if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
		s.Quantity = qty
	}); err != nil {
		return c.storeFailure(ctx, ev, "quantity", err)
	}

	today := c.now()
	buttons := make([]Button, 0, daysOffered)
	for i := 0; i < daysOffered; i++ {
		d := today.AddDate(0, 0, i)
		buttons = append(buttons, Button{Text: d.Format(dateLabel), Data: callbackData(ActionDate, d.Format(dateLayout))})
	}
	return c.send(ctx, ev, Message{Text: textChooseDate, Keyboard: keyboard(buttons, 3)})
}

func (c *Controller) chooseDate(ctx context.Context, ev Event, value string) error {
	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "date", err)
	}
	if sess.Quantity <= 0 {
		return c.precondition(ctx, ev, "date", textErrNoQuantity)
	}
	if !c.validDate(value) {
		return c.precondition(ctx, ev, "date", textErrDate)
	}

	if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
		s.Date = value
	}); err != nil {
		return c.storeFailure(ctx, ev, "date", err)
	}

	buttons := make([]Button, 0, len(TimeSlots))
	for _, slot := range TimeSlots {
		buttons = append(buttons, Button{Text: slot, Data: callbackData(ActionTime, slot)})
	}
	return c.send(ctx, ev, Message{Text: textChooseTime, Keyboard: keyboard(buttons, 3)})
}

// validDate дата в формате 2006-01-02 не раньше сегодняшней
func (c *Controller) validDate(value string) bool {
	now := c.now()
	d, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !d.Before(today)
}

func (c *Controller) chooseTime(ctx context.Context, ev Event, value string) error {
	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "time", err)
	}
	if sess.Date == "" {
		return c.precondition(ctx, ev, "time", textErrNoDate)
	}
	if !isTimeSlot(value) {
		return c.precondition(ctx, ev, "time", textErrTime)
	}

	if _, err := c.sessions.Update(ctx, ev.UserID, func(s *models.Session) {
		s.Time = value
	}); err != nil {
		return c.storeFailure(ctx, ev, "time", err)
	}
	return c.send(ctx, ev, Message{Text: textRequestContact, RequestContact: true})
}

func isTimeSlot(v string) bool {
	for _, slot := range TimeSlots {
		if slot == v {
			return true
		}
	}
	return false
}

// saveOrder записывает заказ и сбрасывает сессию
func (c *Controller) saveOrder(ctx context.Context, ev Event) error {
	const op = "bot.Controller.saveOrder"

	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "contact", err)
	}
	switch {
	case sess.Product == nil || sess.Size == "" || sess.Quantity <= 0:
		return c.precondition(ctx, ev, "contact", textErrIncomplete)
	case sess.Date == "":
		return c.precondition(ctx, ev, "contact", textErrNoDate)
	case sess.Time == "":
		return c.precondition(ctx, ev, "contact", textErrNoTime)
	case ev.Contact == nil:
		return c.precondition(ctx, ev, "contact", textErrIncomplete)
	}

	order, err := c.orders.PlaceOrder(ctx, sess, *ev.Contact, ev.Username)
	switch {
	case errors.Is(err, service.ErrMalformedPrice):
		_ = c.send(ctx, ev, Message{Text: textErrPrice})
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, service.ErrIncompleteSession):
		return c.precondition(ctx, ev, "contact", textErrIncomplete)
	case err != nil:
		return c.storeFailure(ctx, ev, "contact", err)
	}

	if err := c.sessions.Reset(ctx, ev.UserID); err != nil {
		c.log.Warn("failed to reset session after order",
			slog.String("op", op), slog.String("orderID", order.ID), slog.Any("error", err))
	}

	if err := c.send(ctx, ev, Message{Text: textOrderAccepted, RemoveKeyboard: true}); err != nil {
		return err
	}
	return c.send(ctx, ev, Message{
		Text: textWhatNext,
		Keyboard: &Keyboard{Rows: [][]Button{{
			{Text: textStartOver, Data: ActionStartOver},
			{Text: textFinish, Data: ActionDone},
		}}},
	})
}

// goBack пересчитывает экран нужного шага из текущей сессии, истории шагов нет
func (c *Controller) goBack(ctx context.Context, ev Event, target string) error {
	if target == BackStart {
		return c.start(ctx, ev)
	}

	sess, err := c.session(ctx, ev)
	if err != nil {
		return c.storeFailure(ctx, ev, "back", err)
	}

	switch target {
	case BackBrand:
		if sess.Brand == "" {
			return c.precondition(ctx, ev, "back", textErrNoBrand)
		}
		return c.chooseBrand(ctx, ev, sess.Brand, false)
	case BackCategory:
		if sess.Brand == "" {
			return c.precondition(ctx, ev, "back", textErrNoBrand)
		}
		if sess.Category == "" {
			return c.precondition(ctx, ev, "back", textErrNoCategory)
		}
		return c.showProducts(ctx, ev, sess.Brand, sess.Category, 0)
	case BackProduct:
		if sess.Product == nil {
			return c.precondition(ctx, ev, "back", textErrNoProduct)
		}
		return c.showProductCard(ctx, ev, *sess.Product)
	default:
		c.log.Debug("unknown back target ignored", slog.Int64("userID", ev.UserID), slog.String("target", target))
		return nil
	}
}

// session текущая сессия; отсутствие - пустая сессия
func (c *Controller) session(ctx context.Context, ev Event) (*models.Session, error) {
	sess, ok, err := c.sessions.Get(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &models.Session{UserID: ev.UserID}, nil
	}
	return sess, nil
}

func clearFromProduct(s *models.Session) {
	s.Product = nil
	s.Size = ""
	s.Quantity = 0
	s.Date, s.Time = "", ""
}

func (c *Controller) send(ctx context.Context, ev Event, msg Message) error {
	if err := c.messenger.Send(ctx, ev.ChatID, msg); err != nil {
		return fmt.Errorf("bot.Controller.send: %w", err)
	}
	return nil
}

func (c *Controller) precondition(ctx context.Context, ev Event, step, text string) error {
	c.metrics.RecordUsageError(step)
	if err := c.send(ctx, ev, Message{Text: text}); err != nil {
		return err
	}
	return fmt.Errorf("%w: step %s", ErrPrecondition, step)
}

// storeFailure общий ответ на сбой хранилища, без повторов
func (c *Controller) storeFailure(ctx context.Context, ev Event, step string, err error) error {
	if sendErr := c.send(ctx, ev, Message{Text: textErrUnavailable}); sendErr != nil {
		c.log.Error("failed to notify user", slog.Int64("userID", ev.UserID), slog.Any("error", sendErr))
	}
	return fmt.Errorf("step %s: %w", step, err)
}
