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

	"github.com/rs/zerolog"
	"github.com/sliink/barline/internal/api"
	"github.com/sliink/barline/internal/blocks"
	"github.com/sliink/barline/internal/core"
	"github.com/sliink/barline/internal/render"
	"github.com/spf13/cobra"
)

var (
	configFile string
	debug      bool
	apiEnabled bool
	apiPort    int
	apiHost    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "barline",
		Short: "barline - run configured status-line blocks against a renderer",
		RunE:  runBar,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// API server flags
	rootCmd.PersistentFlags().BoolVar(&apiEnabled, "api", true, "Enable the introspection API server")
	rootCmd.PersistentFlags().IntVar(&apiPort, "api-port", 8080, "API server port")
	rootCmd.PersistentFlags().StringVar(&apiHost, "api-host", "localhost", "API server host")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runBar(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if configFile == "" {
		return errors.New("--config is required")
	}
	cfg, err := core.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if len(cfg.Blocks) == 0 {
		return fmt.Errorf("config %s defines no blocks", configFile)
	}

	registry := core.NewRegistry()
	blocks.RegisterAll(registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := core.NewEngine(registry, logger)
	renderer := render.NewRenderer(engine.Requests(), logger)

	for i, raw := range cfg.Blocks {
		handle, err := engine.SpawnBlock(ctx, raw)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		renderer.Attach(ctx, handle)
	}
	go renderer.Run(ctx)

	logger.Info().Int("blocks", len(cfg.Blocks)).Msg("bar started")

	var apiServer *api.API
	if apiEnabled {
		apiServer = api.NewAPI(engine, renderer, apiPort, apiHost)
		go func() {
			logger.Info().Str("host", apiHost).Int("port", apiPort).Msg("API server started")
			if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("API server failed")
			}
		}()
	}

	// Wait for shutdown signal
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	logger.Info().Msg("shutting down")

	if apiServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("API server shutdown failed")
		}
	}

	cancel()
	engine.Wait()

	logger.Info().Msg("shutdown complete")
	return nil
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
