package app

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/charlesng35/permstate/internal/permissions"
)

// ApplyRuntimeDefaults fills values that cannot be expressed as static
// defaults. It returns the keys that were generated so callers can log them.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	generated := make(map[string]bool)

	if strings.TrimSpace(cfg.Permissions.Entity) == "" {
		cfg.Permissions.Entity = "entity-" + uuid.NewString()
		generated["permissions.entity"] = true
	}

	if cfg.Permissions.Mode == string(permissions.ModeAdvanced) && cfg.Permissions.NotifyDelay == 0 {
		cfg.Permissions.NotifyDelay = permissions.DefaultNotifyDelay
		generated["permissions.notify_delay"] = true
	}

	return generated, nil
}
