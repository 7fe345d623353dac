package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/permstate/internal/permissions"
	apperrors "github.com/charlesng35/permstate/pkg/errors"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Format)

	require.Equal(t, "acme-corp", cfg.Permissions.Entity)
	require.Equal(t, "advanced", cfg.Permissions.Mode)
	require.False(t, cfg.Permissions.ReadOnly)
	require.True(t, cfg.Permissions.Strict)
	require.True(t, cfg.Permissions.RequireEnabledFocus)
	require.Equal(t, 25*time.Millisecond, cfg.Permissions.NotifyDelay)

	require.Equal(t, "./catalog.yaml", cfg.Inputs.Catalog)
	require.Equal(t, "./selection.json", cfg.Inputs.Selection)
	require.Equal(t, "./script.yaml", cfg.Inputs.Script)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "basic", cfg.Permissions.Mode)
	require.Equal(t, permissions.DefaultNotifyDelay, cfg.Permissions.NotifyDelay)
	require.Empty(t, cfg.Permissions.Entity)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("PERMSTATE_PERMISSIONS_READ_ONLY", "true")
	t.Setenv("PERMSTATE_PERMISSIONS_NOTIFY_DELAY", "1s")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.True(t, cfg.Permissions.ReadOnly)
	require.Equal(t, time.Second, cfg.Permissions.NotifyDelay)
}

func TestLoadConfigRejectsInvalidMode(t *testing.T) {
	_, err := LoadConfig(filepath.Join("testdata", "invalid"))
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrConfigInvalid))
	require.ErrorContains(t, err, "permissions.mode failed on oneof")
}

func TestPermissionsConfigOptions(t *testing.T) {
	cfg := PermissionsConfig{
		Entity:              "entity-1",
		Mode:                "advanced",
		ReadOnly:            true,
		Strict:              true,
		RequireEnabledFocus: true,
		NotifyDelay:         time.Second,
	}

	opts := cfg.Options()
	require.Equal(t, "entity-1", opts.Entity)
	require.Equal(t, permissions.ModeAdvanced, opts.Mode)
	require.True(t, opts.ReadOnly)
	require.True(t, opts.Strict)
	require.True(t, opts.RequireEnabledFocus)
	require.Equal(t, time.Second, opts.NotifyDelay)
}

func TestApplyRuntimeDefaults(t *testing.T) {
	cfg := &Config{Permissions: PermissionsConfig{Mode: "advanced"}}

	generated, err := ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)
	require.True(t, generated["permissions.entity"])
	require.True(t, generated["permissions.notify_delay"])
	require.Contains(t, cfg.Permissions.Entity, "entity-")
	require.Equal(t, permissions.DefaultNotifyDelay, cfg.Permissions.NotifyDelay)

	again, err := ApplyRuntimeDefaults(cfg)
	require.NoError(t, err)
	require.Empty(t, again)

	_, err = ApplyRuntimeDefaults(nil)
	require.Error(t, err)
}
