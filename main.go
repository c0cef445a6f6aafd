/*
Package main
File: main.go
Description: Server entry point. Loads the economy configuration, restores
the saved pile, and serves the REST + WebSocket presentation boundary while
the passive generator keeps the pile growing.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/everforgeworks/pile-clicker/internal/api"
	"github.com/everforgeworks/pile-clicker/internal/game"
	"github.com/everforgeworks/pile-clicker/internal/storage"
)

var (
	configPath string
	addrFlag   string
	dbFlag     string
	debug      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pile-server",
	Short: "Idle pile clicker economy server",
	Long: `Serves the pile clicker economy over HTTP and WebSocket.
State is persisted after every change and restored on start.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if debug {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServer,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "economy.yaml", "path to the economy config")
	rootCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides config)")
	rootCmd.Flags().StringVar(&dbFlag, "db", "", "sqlite database path (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore builds the persistence backend named by the config.
func openStore(cfg game.StorageConfig) (game.Store, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return storage.NewMemoryStore(), func() error { return nil }, nil
	default:
		st, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	// 1. Load the economy configuration from YAML
	cfg, err := game.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if addrFlag != "" {
		cfg.Server.Addr = addrFlag
	}
	if dbFlag != "" {
		cfg.Storage.Path = dbFlag
	}

	// 2. Open storage and restore the saved economy
	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeStore()

	engine := game.NewEngine(cfg, store, game.WithLogger(logger.Named("engine")))
	snap := engine.Snapshot()
	logger.Info("economy restored",
		zap.Int("pile", snap.Pile),
		zap.Int("tier", snap.Tier),
		zap.Int("passive_units", snap.PassiveUnits))

	// 3. Real-time hub, hold repeater, and passive heartbeat
	hub := api.NewHub(logger.Named("hub"))
	engine.Subscribe(hub.PublishEvent)
	holder := game.NewHolder(engine, logger.Named("hold"))
	defer holder.Close()
	generator := game.NewGenerator(engine, cfg.Server.TickInterval, logger.Named("generator"))

	handlers := api.NewHandlers(engine, holder, logger.Named("api"))
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.Routes(hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 4. Run everything until SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		generator.Run(ctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("pile server live", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		holder.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("pile server stopped")
	return err
}
