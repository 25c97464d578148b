package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/linemk/vitrina-bot/internal/config"
	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yaml")
	assert.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	assert.NoError(t, err)
	assert.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestMustLoadByPath_Success(t *testing.T) {
	// Токен бота обязателен и берется из окружения
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SPREADSHEET_ID", "sheet-id")

	content := `
env: "prod"
timezone: "Europe/Moscow"
telegram:
  poll_timeout: 30
store:
  driver: "postgres"
sheets:
  products_sheet: "Товары"
  orders_sheet: "Заказы"
database:
  host: "db"
  port: 5433
  user: "bot"
  name: "shop"
session:
  backend: "redis"
  idle_ttl: "2h"
  sweep_interval: "1m"
  max_entries: 50
catalog:
  cache_ttl: "30s"
kafka:
  brokers: ["k1:9092", "k2:9092"]
  topic: "orders"
http_server:
  address: "0.0.0.0:9090"
`
	cfg := config.MustLoadByPath(writeConfig(t, content))

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, 30, cfg.Telegram.PollTimeout)
	assert.Equal(t, config.StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "sheet-id", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "Товары", cfg.Sheets.ProductsSheet)
	assert.Equal(t, "Заказы", cfg.Sheets.OrdersSheet)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, config.SessionRedis, cfg.Session.Backend)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, 50, cfg.Session.MaxEntries)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTPServer.Address)
	assert.Equal(t, 4*time.Second, cfg.HTTPServer.Timeout)
}

func TestMustLoadByPath_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg := config.MustLoadByPath(writeConfig(t, "env: local\n"))

	assert.Equal(t, config.StoreSheets, cfg.Store.Driver)
	assert.Equal(t, "creds.json", cfg.Sheets.CredentialsFile)
	assert.Equal(t, config.SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.IdleTTL)
	assert.Equal(t, time.Duration(0), cfg.Catalog.CacheTTL)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
}

func TestMustLoadByPath_FileNotFound(t *testing.T) {
	// Ожидаем панику, если файла не существует
	assert.Panics(t, func() {
		config.MustLoadByPath("non_existent_config.yaml")
	})
}

func TestLocation_Fallback(t *testing.T) {
	cfg := &config.Config{Timezone: "Nowhere/Nothing"}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestMustLoadMigrator_IgnoresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CONFIG_PATH", writeConfig(t, "database:\n  host: \"db\"\nmigrations:\n  path: \"/migrations\"\n"))

	cfg := config.MustLoadMigrator()

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "/migrations", cfg.Migrations.Path)
}
