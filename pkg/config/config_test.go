package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "X-User-Data", cfg.Auth.TrustedHeader)
	assert.Equal(t, "Voter", cfg.Auth.DefaultRole)
	assert.Equal(t, []string{"Admin"}, cfg.Auth.AdminRoles)
	assert.True(t, cfg.Auth.RoleFailOpen)
	assert.True(t, cfg.Auth.RoleActiveOnly)
	assert.Equal(t, 5*time.Second, cfg.Postgres.QueryTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ADMIN_ROLES", "Admin, Superuser ,,")
	t.Setenv("ROLE_FAIL_OPEN", "false")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("TRUSTED_HEADER_SECRET", "s3cret")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"Admin", "Superuser"}, cfg.Auth.AdminRoles)
	assert.False(t, cfg.Auth.RoleFailOpen)
	assert.Equal(t, 250*time.Millisecond, cfg.Postgres.QueryTimeout)
	assert.Equal(t, int32(7), cfg.Postgres.MaxConns)
	assert.Equal(t, "s3cret", cfg.Auth.TrustedHeaderSecret)
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ROLE_ACTIVE_ONLY", "maybe")
	t.Setenv("DB_QUERY_TIMEOUT", "-1s")
	t.Setenv("DB_MAX_CONNS", "abc")
	t.Setenv("ADMIN_ROLES", " , ")

	cfg := FromEnv()

	assert.True(t, cfg.Auth.RoleActiveOnly)
	assert.Equal(t, 5*time.Second, cfg.Postgres.QueryTimeout)
	assert.Equal(t, int32(20), cfg.Postgres.MaxConns)
	assert.Equal(t, []string{"Admin"}, cfg.Auth.AdminRoles)
}
