package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/linemk/vitrina-bot/internal/bot"
	"github.com/linemk/vitrina-bot/internal/config"
	"github.com/linemk/vitrina-bot/internal/events"
	"github.com/linemk/vitrina-bot/internal/metrics"
	"github.com/linemk/vitrina-bot/internal/service"
	"github.com/linemk/vitrina-bot/internal/session"
	"github.com/linemk/vitrina-bot/internal/storage"
	"github.com/linemk/vitrina-bot/internal/storage/postgres"
	"github.com/linemk/vitrina-bot/internal/storage/sheets"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const producerName = "vitrina-bot"

type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sql.DB       // только для store.driver = postgres
	Redis    *redis.Client // только для session.backend = redis
	Registry *prometheus.Registry
	Metrics  *metrics.Collector

	Sessions  session.Store
	Catalog   *service.CatalogService
	Orders    *service.OrderService
	Publisher events.Publisher
	Limiter   *bot.Limiter

	memSessions *session.MemoryStore
}

// NewApp создаёт новый экземпляр App: хранилище, сессии, события и сервисы
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	}
	app.Metrics = metrics.NewCollector(app.Registry)

	catalog, orders, err := app.openStore(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	if err := app.openSessions(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		app.Publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, producerName)
		log.Info("order events enabled", slog.String("topic", cfg.Kafka.Topic))
	}

	cached := storage.NewCachedCatalog(catalog, cfg.Catalog.CacheTTL)
	app.Catalog = service.NewCatalogService(log, cached, app.Metrics)
	app.Orders = service.NewOrderService(log, orders, app.Publisher, app.Metrics, cfg.Location())
	app.Limiter = bot.NewLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	return app, nil
}

func (a *App) openStore(ctx context.Context) (storage.CatalogStorage, storage.OrderStorage, error) {
	cfg := a.Config
	switch cfg.Store.Driver {
	case config.StoreSheets:
		if cfg.Sheets.SpreadsheetID == "" {
			return nil, nil, errors.New("SPREADSHEET_ID is not set")
		}
		api, err := sheets.NewValuesAPI(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		store := sheets.NewStore(api, cfg.Sheets.ProductsSheet, cfg.Sheets.OrdersSheet)
		a.Logger.Info("using google sheets store", slog.String("products", cfg.Sheets.ProductsSheet))
		return store, store, nil

	case config.StorePostgres:
		if cfg.Database.Password == "" {
			return nil, nil, errors.New("DB_PASSWORD environment variable is not set")
		}
		db, err := sql.Open("postgres", PostgresDSN(cfg.Database))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.DB = db
		if err := db.PingContext(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		a.Logger.Info("using postgres store", slog.String("host", cfg.Database.Host))
		return postgres.NewCatalogRepository(db), postgres.NewOrderRepository(db), nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func (a *App) openSessions(ctx context.Context) error {
	cfg := a.Config
	switch cfg.Session.Backend {
	case config.SessionMemory:
		a.memSessions = session.NewMemoryStore(cfg.Session.IdleTTL, cfg.Session.MaxEntries)
		a.Sessions = a.memSessions

	case config.SessionRedis:
		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		a.Sessions = session.NewRedisStore(a.Redis, cfg.Session.IdleTTL)

	default:
		return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
	a.Logger.Info("session store ready", slog.String("backend", cfg.Session.Backend))
	return nil
}

// PostgresDSN строка подключения к БД
func PostgresDSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)
}

// Dispatcher собирает контроллер диалога поверх транспорта
func (a *App) Dispatcher(messenger bot.Messenger) *bot.Dispatcher {
	controller := bot.NewController(a.Logger, a.Catalog, a.Orders, a.Sessions, messenger, a.Metrics, a.Config.Location())
	return bot.NewDispatcher(a.Logger, controller, a.Limiter, a.Metrics)
}

// StartBackground запускает фоновую чистку сессий и лимитеров до отмены контекста
func (a *App) StartBackground(ctx context.Context) {
	interval := a.Config.Session.SweepInterval
	if interval <= 0 {
		return
	}
	if a.memSessions != nil {
		go session.NewSweeper(a.memSessions, a.Logger).Start(ctx, interval)
	}
	if a.Limiter != nil {
		go a.Limiter.Start(ctx, interval)
	}
}

// Close освобождает соединения; вызывается один раз при остановке
func (a *App) Close() error {
	var errs []error
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
