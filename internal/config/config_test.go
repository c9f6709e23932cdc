package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/acai")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DELIVERY_MAX_RADIUS_KM", "4,5")
	t.Setenv("DELIVERY_EXCLUDED_CITIES", "Guarulhos, Osasco ,")
	t.Setenv("CEP_LOOKUP_TIMEOUT", "3")
	t.Setenv("PUBLIC_BASE_URL", "https://acai.example.com/")
	t.Setenv("DB_MAX_CONNS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "BRL", cfg.DefaultCurrency)
	assert.InDelta(t, 4.5, cfg.DeliveryMaxRadiusKm, 1e-9)
	assert.InDelta(t, 1.35, cfg.DeliveryRouteFactor, 1e-9)
	assert.Equal(t, []string{"Guarulhos", "Osasco"}, cfg.ExcludedCities)
	assert.Equal(t, 3*time.Second, cfg.CEPLookupTimeout)
	assert.Equal(t, "https://acai.example.com", cfg.PublicBaseURL)
	assert.Equal(t, "03828", cfg.BlockedCEPPrefix)
	assert.Equal(t, 500, cfg.ImageMaxWidth)
	assert.Equal(t, 4, cfg.DBMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.DBMaxConnIdle)
}
