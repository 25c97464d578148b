package main

import (
	"testing"

	"github.com/linemk/vitrina-bot/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestBuildMigrateDSN(t *testing.T) {
	dsn := buildMigrateDSN(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "bot", Password: "secret", Name: "vitrina",
	}, "migrations")

	assert.Equal(t, "postgres://bot:secret@db:5432/vitrina?sslmode=disable&x-migrations-table=migrations", dsn)
}
