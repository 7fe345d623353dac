package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/charlesng35/permstate/internal/app"
	"github.com/charlesng35/permstate/internal/permissions"
	"github.com/charlesng35/permstate/internal/script"
	"github.com/charlesng35/permstate/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// changeEvent is one line of permctl output.
type changeEvent struct {
	Event string                 `json:"event"`
	Field string                 `json:"field,omitempty"`
	State permissions.Projection `json:"state"`
	Dirty *bool                  `json:"hasChanges,omitempty"`
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("permctl", pflag.ContinueOnError)
	fs.SetOutput(stdout)

	var (
		configPath    string
		catalogPath   string
		selectionPath string
		scriptPath    string
	)
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")
	fs.StringVar(&catalogPath, "catalog", "", "Permission catalog (YAML or JSON)")
	fs.StringVar(&selectionPath, "selection", "", "Previously saved selection (YAML or JSON)")
	fs.StringVar(&scriptPath, "script", "", "Steps to replay (YAML or JSON)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	generated, err := app.ApplyRuntimeDefaults(cfg)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Log); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("permctl")
	for key := range generated {
		log.Info("generated runtime default", zap.String("key", key))
	}

	catalogPath = firstNonEmpty(catalogPath, cfg.Inputs.Catalog)
	selectionPath = firstNonEmpty(selectionPath, cfg.Inputs.Selection)
	scriptPath = firstNonEmpty(scriptPath, cfg.Inputs.Script)
	if catalogPath == "" {
		return errors.New("a catalog is required (--catalog or inputs.catalog)")
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		var partial *partialCatalogError
		if !errors.As(err, &partial) {
			return err
		}
		log.Warn("catalog entries skipped", zap.Error(partial.issues))
	}

	selection, err := loadSelection(selectionPath)
	if err != nil {
		return err
	}

	steps, err := loadScript(scriptPath)
	if err != nil {
		return err
	}

	var writeMu sync.Mutex
	encoder := json.NewEncoder(stdout)
	opts := cfg.Permissions.Options()
	opts.OnChange = func(field string, value permissions.Projection) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if encErr := encoder.Encode(changeEvent{Event: "change", Field: field, State: value}); encErr != nil {
			log.Warn("write change event", zap.Error(encErr))
		}
	}

	ctrl := permissions.NewController(opts)
	defer ctrl.Close()

	ctrl.Initialize(catalog, selection)
	log.Info("controller initialised",
		zap.String("entity", ctrl.Entity()),
		zap.String("status", ctrl.Status().String()),
		zap.Int("steps", len(steps)),
	)

	_, runErr := script.Run(ctx, ctrl, steps)
	ctrl.Flush()

	dirty := ctrl.HasChanges()
	writeMu.Lock()
	defer writeMu.Unlock()
	if err := encoder.Encode(changeEvent{Event: "final", State: ctrl.Projection(), Dirty: &dirty}); err != nil {
		return fmt.Errorf("write final state: %w", err)
	}

	return runErr
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
