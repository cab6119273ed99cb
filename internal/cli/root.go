// Package cli wires the command surface: the interactive shell as the root
// command, plus list/velocity/backup/restore subcommands for scripting.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jhaenchen/procrastitask/internal/clock"
	"github.com/jhaenchen/procrastitask/internal/config"
	"github.com/jhaenchen/procrastitask/internal/dynamic"
	"github.com/jhaenchen/procrastitask/internal/location"
	"github.com/jhaenchen/procrastitask/internal/store"
	"github.com/jhaenchen/procrastitask/internal/telemetry"
)

var (
	cfgPath string
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "procrastitask",
		Short:         "Procrastinator's Companion, a stress-aware task tracker",
		RunE:          runInteractive,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to procrastitask.yml")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(velocityCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// env is everything a command needs: config, logger, parser, store and the
// event log.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	reg    *dynamic.Registry
	store  *store.FileStore
	events telemetry.Repository
	clk    clock.Clock

	closers []func() error
}

func (e *env) Close() {
	for _, c := range e.closers {
		_ = c()
	}
	_ = e.log.Sync()
}

func setup() (*env, error) {
	path := cfgPath
	if path == "" {
		path = filepath.Join(config.Default().DataDir, "procrastitask.yml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	// Logs go to a file so they never interleave with the prompt.
	zapCfg := zap.NewProductionConfig()
	zapCfg.OutputPaths = []string{filepath.Join(cfg.DataDir, "log.txt")}
	zapCfg.ErrorOutputPaths = zapCfg.OutputPaths
	log, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	provider, err := buildLocationProvider(cfg, log)
	if err != nil {
		return nil, err
	}
	reg := dynamic.NewRegistry(dynamic.WithLocationProvider(provider))

	st, err := store.NewFileStore(cfg.DataDir, reg, log)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log, reg: reg, store: st, clk: clock.Real{}}
	if cfg.Telemetry.Disabled {
		e.events = telemetry.NewMemoryRepository()
	} else {
		sqlite, err := telemetry.NewSQLiteRepository(cfg.TelemetryPath())
		if err != nil {
			// A broken event log should not keep the tracker from starting.
			log.Warn("telemetry unavailable, events will not persist", zap.Error(err))
			e.events = telemetry.NewMemoryRepository()
		} else {
			e.events = sqlite
			e.closers = append(e.closers, sqlite.Close)
		}
	}
	return e, nil
}

func buildLocationProvider(cfg *config.Config, log *zap.Logger) (dynamic.LocationProvider, error) {
	if cfg.Location.Disabled {
		return location.None{}, nil
	}
	if cfg.Location.Override != "" {
		lat, lon, err := location.ParseLatLon(cfg.Location.Override)
		if err != nil {
			return nil, fmt.Errorf("location override: %w", err)
		}
		return location.Static{Lat: lat, Lon: lon}, nil
	}
	return location.NewIPInfo(log), nil
}
