package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/internal/config"
	"github.com/tuanvumaihuynh/storefront/internal/log"
	"github.com/tuanvumaihuynh/storefront/pkg/correlationid"
)

func TestNewSlogLoggerTo(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	t.Run("Should enrich json records with correlation id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.NewSlogLoggerTo(&buf, config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo})

		ctx := correlationid.NewContext(context.Background(), "corr-9")
		logger.InfoContext(ctx, "listing products", slog.Int("count", 3))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "listing products", rec["msg"])
		assert.Equal(t, "corr-9", rec["correlation_id"])
		assert.EqualValues(t, 3, rec["count"])
	})

	t.Run("Should drop records below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.NewSlogLoggerTo(&buf, config.Log{Format: config.LogFormatText, Level: slog.LevelWarn})

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.With(slog.String("service", "http")).Warn("shown")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "service")
		assert.Contains(t, buf.String(), "http")
	})
}
