package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalog-sync/core/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Sync.PageSize)
	assert.Equal(t, 3, cfg.Sync.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Sync.InitialInterval)
	assert.Equal(t, 2*time.Minute, cfg.Sync.ItemTimeout)
	assert.Equal(t, []platform.Kind{platform.KindProduct, platform.KindCollection}, cfg.Sync.Kinds())
	assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
	assert.False(t, cfg.Database.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SYNC_MAX_ATTEMPTS", "5")
	t.Setenv("SYNC_ITEM_TIMEOUT", "30s")
	t.Setenv("SHOPIFY_SHOP", "demo.myshopify.com")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=9090\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("SERVER_PORT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Sync.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Sync.Executor().ItemTimeout)
	assert.Equal(t, "demo.myshopify.com", cfg.Shopify.Shop)
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Log.Level = "loud"
	cfg.Sync.MaxAttempts = 0
	cfg.Sync.Schedule = "every day"
	cfg.Sync.ScheduleKinds = []string{"product", "coupon"}
	cfg.Shopify.Shop = "demo.myshopify.com"

	err = cfg.Validate()
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "sync.max_attempts")
	assert.Contains(t, err.Error(), "sync.schedule")
	assert.Contains(t, err.Error(), `unknown kind "coupon"`)
	assert.Contains(t, err.Error(), "access token is required")
}

func TestValidate_Schedule(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Sync.Schedule = "*/15 * * * *"
	assert.NoError(t, cfg.Validate())

	cfg.Sync.ScheduleSource = "magento"
	assert.ErrorContains(t, cfg.Validate(), "schedule_source")
}
