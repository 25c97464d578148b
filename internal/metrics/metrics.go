// Package metrics собирает Prometheus-метрики бота.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder интерфейс, которым пользуются сервисы и контроллер диалога.
type Recorder interface {
	RecordEvent(kind string)
	RecordDroppedEvent()
	RecordUsageError(step string)
	RecordStoreError(op string)
	RecordOrderPlaced(brand string, amount int64)
}

// Collector реализация на Prometheus.
type Collector struct {
	events      *prometheus.CounterVec
	dropped     prometheus.Counter
	usageErrors *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
	orders      *prometheus.CounterVec
	orderValue  prometheus.Counter
}

var _ Recorder = (*Collector)(nil)

// NewCollector регистрирует метрики в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitrina_events_total",
			Help: "Обработанные входящие события по типу",
		}, []string{"kind"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitrina_events_dropped_total",
			Help: "События, отброшенные ограничителем частоты",
		}),
		usageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitrina_usage_errors_total",
			Help: "Шаги, вызванные без обязательных предыдущих полей",
		}, []string{"step"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitrina_store_errors_total",
			Help: "Ошибки чтения и записи во внешнее хранилище",
		}, []string{"op"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vitrina_orders_placed_total",
			Help: "Оформленные заказы по бренду",
		}, []string{"brand"}),
		orderValue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vitrina_orders_value_rub_total",
			Help: "Сумма оформленных заказов в рублях",
		}),
	}

	reg.MustRegister(c.events, c.dropped, c.usageErrors, c.storeErrors, c.orders, c.orderValue)
	return c
}

func (c *Collector) RecordEvent(kind string) {
	c.events.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordDroppedEvent() {
	c.dropped.Inc()
}

func (c *Collector) RecordUsageError(step string) {
	c.usageErrors.WithLabelValues(step).Inc()
}

func (c *Collector) RecordStoreError(op string) {
	c.storeErrors.WithLabelValues(op).Inc()
}

func (c *Collector) RecordOrderPlaced(brand string, amount int64) {
	c.orders.WithLabelValues(brand).Inc()
	c.orderValue.Add(float64(amount))
}

// Handler отдает метрики для скрейпа.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop ничего не записывает.
type Nop struct{}

func (Nop) RecordEvent(string)              {}
func (Nop) RecordDroppedEvent()             {}
func (Nop) RecordUsageError(string)         {}
func (Nop) RecordStoreError(string)         {}
func (Nop) RecordOrderPlaced(string, int64) {}
