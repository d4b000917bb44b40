package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")
	t.Setenv("PORT", "9090")
	t.Setenv("DAILYMOOD_PREDICTION_TIMEZONE", "Europe/Berlin")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://dailymood.app, https://*.dailymood.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "https://project.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "Europe/Berlin", cfg.Prediction.Timezone)
	assert.Equal(t, 90, cfg.Prediction.HistoryDays)
	assert.Equal(t, 3, cfg.Prediction.FreeForecastDays)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, []string{"https://dailymood.app", "https://*.dailymood.app"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoad_RequiresSupabase(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Supabase:   SupabaseConfig{URL: "https://x.supabase.co", ServiceKey: "k"},
			Prediction: PredictionConfig{Timezone: "UTC", HistoryDays: 90, FreeForecastDays: 3},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing service key", func(c *Config) { c.Supabase.ServiceKey = "" }, true},
		{"bad timezone", func(c *Config) { c.Prediction.Timezone = "Mars/Olympus" }, true},
		{"zero history", func(c *Config) { c.Prediction.HistoryDays = 0 }, true},
		{"forecast too long", func(c *Config) { c.Prediction.FreeForecastDays = 8 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPredictionLocation(t *testing.T) {
	loc, err := PredictionConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
