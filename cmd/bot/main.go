package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/linemk/vitrina-bot/internal/app"
	"github.com/linemk/vitrina-bot/internal/app/handlers"
	"github.com/linemk/vitrina-bot/internal/bot/telegram"
	"github.com/linemk/vitrina-bot/internal/config"
	"github.com/linemk/vitrina-bot/internal/lib/logger"
	"github.com/linemk/vitrina-bot/internal/metrics"
	"github.com/pkg/errors"
)

func main() {
	// .env необязателен, переменные окружения имеют приоритет
	_ = godotenv.Load()

	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting bot", slog.String("env", cfg.Env), slog.String("store", cfg.Store.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// хранилище, сессии, события и сервисы
	application, err := app.NewApp(ctx, log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("failed to connect to telegram", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to connect to telegram"))
	}
	api.Debug = cfg.Telegram.Debug
	log.Info("authorized", slog.String("bot", api.Self.UserName))

	dispatcher := application.Dispatcher(telegram.NewMessenger(log, api))
	poller := telegram.NewPoller(log, api, api, dispatcher, cfg.Telegram.PollTimeout)

	application.StartBackground(ctx)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      handlers.NewRouter(log, application.Sessions, metrics.Handler(application.Registry)),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting ops server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	pollDone := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(pollDone)
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case stopSign := <-stop:
		log.Info("received shutdown signal", slog.String("signal", stopSign.String()))
	case <-pollDone:
		log.Warn("polling finished unexpectedly")
	}

	cancel()
	<-pollDone
	// дожидаемся событий, уже принятых в очереди пользователей
	dispatcher.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("bot gracefully stopped")
}
