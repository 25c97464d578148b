package app

import (
	"context"
	"testing"

	"github.com/linemk/vitrina-bot/internal/config"
	"github.com/linemk/vitrina-bot/internal/lib/logger"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "bot", Password: "pw", Name: "shop"})
	assert.Equal(t, "postgres://bot:pw@db:5433/shop?sslmode=disable", dsn)
}

func TestNewApp_InvalidStore(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{
			name:    "unknown driver",
			cfg:     config.Config{Store: config.StoreConfig{Driver: "mongo"}},
			wantErr: `unknown store driver "mongo"`,
		},
		{
			name:    "sheets without spreadsheet",
			cfg:     config.Config{Store: config.StoreConfig{Driver: config.StoreSheets}},
			wantErr: "SPREADSHEET_ID is not set",
		},
		{
			name:    "postgres without password",
			cfg:     config.Config{Store: config.StoreConfig{Driver: config.StorePostgres}},
			wantErr: "DB_PASSWORD environment variable is not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			_, err := NewApp(context.Background(), logger.Discard(), &cfg)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
