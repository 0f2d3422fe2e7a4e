package config_test

import (
	"testing"

	"github.com/SscSPs/accounting_core/internal/platform/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "DIARIO", cfg.JournalNumberPrefix)
	assert.Equal(t, 20, cfg.JournalDefaultPageSize)
	assert.Equal(t, 100, cfg.JournalMaxPageSize)
	assert.Equal(t, 4, cfg.RotationWorkers)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"JOURNAL_NUMBER_PREFIX": " jd ",
		"CORS_ALLOWED_ORIGINS":  "https://a.example, https://b.example,",
		"ROTATION_WORKERS":      0,
	}))
	require.NoError(t, err)

	assert.Equal(t, "JD", cfg.JournalNumberPrefix)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 1, cfg.RotationWorkers)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"empty prefix", map[string]any{"JOURNAL_NUMBER_PREFIX": "  "}},
		{"max below default", map[string]any{"JOURNAL_DEFAULT_PAGE_SIZE": 50, "JOURNAL_MAX_PAGE_SIZE": 10}},
		{"default jwt secret in production", map[string]any{"IS_PRODUCTION": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}
