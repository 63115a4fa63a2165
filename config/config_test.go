package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBUser:    "recipeshare",
		DBPass:    "pw",
		DBHost:    "localhost",
		DBPort:    "5432",
		DBName:    "recipeshare",
		DBSSLMode: "disable",
	}
	assert.Equal(t,
		"postgres://recipeshare:pw@localhost:5432/recipeshare?sslmode=disable",
		cfg.PostgresDSN())

	// DATABASE_URL wins over the individual fields.
	cfg.DatabaseURL = "postgres://u:p@db:5432/other"
	assert.Equal(t, "postgres://u:p@db:5432/other", cfg.PostgresDSN())
}

func TestSessionKey(t *testing.T) {
	cfg := &Config{SessionSecret: "s3cret"}
	assert.Equal(t, []byte("s3cret"), cfg.SessionKey())
}

func TestSplitTrimmed(t *testing.T) {
	assert.Equal(t,
		[]string{"recipeshare.app", "www.recipeshare.app"},
		splitTrimmed(" recipeshare.app, www.recipeshare.app ,"))
	assert.Empty(t, splitTrimmed(" , "))
}
