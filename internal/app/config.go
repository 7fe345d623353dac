package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/charlesng35/permstate/internal/permissions"
	apperrors "github.com/charlesng35/permstate/pkg/errors"
	"github.com/charlesng35/permstate/pkg/validator"
)

// Config represents the runtime configuration for permstate.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Permissions PermissionsConfig `mapstructure:"permissions"`
	Inputs      InputsConfig      `mapstructure:"inputs"`
}

// LogConfig configures the global zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// PermissionsConfig holds controller behaviour switches.
type PermissionsConfig struct {
	Entity              string        `mapstructure:"entity"`
	Mode                string        `mapstructure:"mode" validate:"required,oneof=basic advanced"`
	ReadOnly            bool          `mapstructure:"read_only"`
	Strict              bool          `mapstructure:"strict"`
	RequireEnabledFocus bool          `mapstructure:"require_enabled_focus"`
	NotifyDelay         time.Duration `mapstructure:"notify_delay" validate:"gte=0"`
}

// InputsConfig points the permctl harness at its input documents.
type InputsConfig struct {
	Catalog   string `mapstructure:"catalog"`
	Selection string `mapstructure:"selection"`
	Script    string `mapstructure:"script"`
}

// Options converts the configuration into controller options.
func (c PermissionsConfig) Options() permissions.Options {
	return permissions.Options{
		Entity:              c.Entity,
		Mode:                permissions.Mode(c.Mode),
		ReadOnly:            c.ReadOnly,
		Strict:              c.Strict,
		RequireEnabledFocus: c.RequireEnabledFocus,
		NotifyDelay:         c.NotifyDelay,
	}
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("PERMSTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, apperrors.ErrConfigInvalid.WithInternal(fmt.Errorf("config: read file: %w", err))
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, apperrors.ErrConfigInvalid.WithInternal(fmt.Errorf("config: unmarshal: %w", err))
	}

	if err := validator.ValidateStruct(config); err != nil {
		return nil, apperrors.ErrConfigInvalid.WithInternal(fmt.Errorf("config: validate: %w", err))
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("permissions.entity", "")
	v.SetDefault("permissions.mode", string(permissions.ModeBasic))
	v.SetDefault("permissions.read_only", false)
	v.SetDefault("permissions.strict", false)
	v.SetDefault("permissions.require_enabled_focus", false)
	v.SetDefault("permissions.notify_delay", permissions.DefaultNotifyDelay.String())

	v.SetDefault("inputs.catalog", "")
	v.SetDefault("inputs.selection", "")
	v.SetDefault("inputs.script", "")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
