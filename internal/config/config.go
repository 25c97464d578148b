package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// драйверы хранилища каталога и заказов
const (
	StoreSheets   = "sheets"
	StorePostgres = "postgres"
)

// бэкенды хранения сессий
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"` // environment
	Timezone   string           `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/Moscow"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Store      StoreConfig      `yaml:"store"`
	Sheets     SheetsConfig     `yaml:"sheets"`
	Database   DatabaseConfig   `yaml:"database"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	HTTPServer HTTPServerConfig `yaml:"http_server"`
}

// TelegramConfig настройки бота. Токен берется только из окружения.
type TelegramConfig struct {
	Token       string `yaml:"-" env:"BOT_TOKEN" env-required:"true"`
	PollTimeout int    `yaml:"poll_timeout" env-default:"60"`
	Debug       bool   `yaml:"debug" env:"BOT_DEBUG" env-default:"false"`
}

// StoreConfig выбирает бэкенд для каталога и журнала заказов
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"sheets"`
}

// SheetsConfig настройки Google Sheets
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" env:"SPREADSHEET_ID"`
	CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_CREDENTIALS_FILE" env-default:"creds.json"`
	ProductsSheet   string `yaml:"products_sheet" env-default:"Товары"`
	OrdersSheet     string `yaml:"orders_sheet" env-default:"Заказы"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env-default:"vitrina"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// SessionConfig ограничивает хранилище сессий по времени простоя и размеру
type SessionConfig struct {
	Backend       string        `yaml:"backend" env:"SESSION_BACKEND" env-default:"memory"`
	IdleTTL       time.Duration `yaml:"idle_ttl" env-default:"24h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env-default:"10m"`
	MaxEntries    int           `yaml:"max_entries" env-default:"10000"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

// CatalogConfig: cache_ttl = 0 означает чтение таблицы на каждый запрос
type CatalogConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env:"CATALOG_CACHE_TTL" env-default:"0s"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env-default:"vitrina.orders"`
}

type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second" env-default:"5"`
	Burst     int     `yaml:"burst" env-default:"10"`
}

// HTTPServerConfig структура http сервера для /healthz и /metrics
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// MigratorConfig часть конфигурации, нужная cmd/migrator: токен бота не требуется
type MigratorConfig struct {
	Database   DatabaseConfig   `yaml:"database"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// MustLoad - если не загружаем - паникуем.
// Файл конфигурации необязателен: без CONFIG_PATH все читается из окружения.
func MustLoad() *Config {
	var cfg Config
	mustRead(os.Getenv("CONFIG_PATH"), &cfg)
	return &cfg
}

func MustLoadByPath(configPath string) *Config {
	if configPath == "" {
		panic("config path is empty")
	}
	var cfg Config
	mustRead(configPath, &cfg)
	return &cfg
}

func MustLoadMigrator() *MigratorConfig {
	var cfg MigratorConfig
	mustRead(os.Getenv("CONFIG_PATH"), &cfg)
	return &cfg
}

func mustRead(configPath string, cfg interface{}) {
	if configPath == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			log.Fatalf("can't read config from environment: %v", err)
		}
		return
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}
	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}
}

// Location возвращает часовой пояс магазина, при ошибке - UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
