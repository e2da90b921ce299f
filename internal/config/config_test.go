package config

import (
	"testing"
	"time"

	"insurtech-portal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_ACCOUNT", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("ADMIN_NAME", "Portal Admin")
	t.Setenv("ADMIN_START_DATE", "2026-01-01")
	t.Setenv("ADMIN_END_DATE", "2026-12-31")
	t.Setenv("USER_ACCOUNT", "viewer")
	t.Setenv("USER_PASSWORD", "viewer-pass")
	t.Setenv("USER_START_DATE", "2026-03-01")
	t.Setenv("USER_END_DATE", "2026-03-31")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_MODE", "dev")
	t.Setenv("PAYMENT_TERM_MODE", "slash-list")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, domain.TermMatchSlashList, cfg.Data.TermMatchMode)

	assert.Equal(t, domain.RoleAdmin, cfg.Admin.Role)
	assert.Equal(t, "Portal Admin", cfg.Admin.DisplayName)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Admin.WindowStart)

	assert.Equal(t, domain.RoleUser, cfg.User.Role)
	// Display name falls back to the account when unset
	assert.Equal(t, "viewer", cfg.User.DisplayName)

	creds := cfg.Credentials()
	require.Len(t, creds, 2)
	assert.Equal(t, cfg.Admin, creds[0])
	assert.Equal(t, cfg.User, creds[1])
}

func TestLoad_InvalidAppMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingCredential(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USER_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedDate(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_END_DATE", "31/12/2026")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_WindowEndBeforeStart(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_START_DATE", "2026-12-31")
	t.Setenv("ADMIN_END_DATE", "2026-01-01")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTermMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYMENT_TERM_MODE", "fuzzy")

	_, err := Load()
	assert.Error(t, err)
}
