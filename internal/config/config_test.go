package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_TIMEOUT", "")
	t.Setenv("ADMIN_EMAILS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 5*time.Second, cfg.SessionTimeout)
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("SESSION_TIMEOUT", "2s")
	t.Setenv("STORE_IDLE_TTL", "not-a-duration")
	t.Setenv("ADMIN_EMAILS", " a@x.com, ,b@x.com ")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 2*time.Second, cfg.SessionTimeout)
	assert.Equal(t, 30*time.Minute, cfg.StoreIdleTTL)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.AdminEmails)
}
