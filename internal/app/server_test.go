package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formkit/internal/config"
)

func TestPoolConfigCopiesDatabaseSettings(t *testing.T) {
	pool := poolConfig(config.Config{
		DatabaseMaxOpenConns:    12,
		DatabaseMaxIdleConns:    4,
		DatabaseConnMaxLifetime: time.Minute,
	})
	assert.Equal(t, 12, pool.MaxOpenConns)
	assert.Equal(t, 4, pool.MaxIdleConns)
	assert.Equal(t, time.Minute, pool.ConnMaxLifetime)
}

func TestEnsureBootstrapUserSkipsWhenUnset(t *testing.T) {
	err := ensureBootstrapUser(context.Background(), nil, config.Config{}, slog.Default())
	require.NoError(t, err)
}

func TestLogResetNotifierOmitsToken(t *testing.T) {
	var out bytes.Buffer
	notify := logResetNotifier(slog.New(slog.NewJSONHandler(&out, nil)))

	expiresAt := time.Date(2025, time.June, 15, 11, 0, 0, 0, time.UTC)
	require.NoError(t, notify(context.Background(), "maria@example.com", "secret-token", expiresAt))

	assert.Contains(t, out.String(), "maria@example.com")
	assert.Contains(t, out.String(), "password reset issued")
	assert.NotContains(t, out.String(), "secret-token")
}
