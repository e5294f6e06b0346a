package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresProductStore(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PRODUCT_STORE_URL", "")
	t.Setenv("PRODUCT_STORE_KEY", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrStoreNotConfigured)

	t.Setenv("PRODUCT_STORE_URL", "postgres://pos@localhost:5432/pos")
	_, err = Load()
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("PRODUCT_STORE_URL", "postgres://pos@localhost:5432/pos")
	t.Setenv("PRODUCT_STORE_KEY", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "inventorySystem", cfg.BlobKey)
	assert.Equal(t, "postgres", cfg.FeedDriver)
	assert.Equal(t, 30, cfg.AlertExpiryDays)
	assert.Equal(t, "Minimarket Karito", cfg.BusinessName)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers())
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.False(t, cfg.IsProduction())
}

func TestDemoSkipsStoreCheck(t *testing.T) {
	t.Setenv("APP_ENV", "demo")
	t.Setenv("PRODUCT_STORE_URL", "")
	t.Setenv("PRODUCT_STORE_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDemo())
}
