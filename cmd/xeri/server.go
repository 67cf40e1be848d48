package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	rand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/jim-kask/project-xeri/cmd/xeri/shared"
	"github.com/jim-kask/project-xeri/internal/game"
	"github.com/jim-kask/project-xeri/internal/randutil"
	"github.com/jim-kask/project-xeri/internal/server"
)

// ServerCmd contains core server configuration
type ServerCmd struct {
	Addr         string        `kong:"help='Server address (overrides config)'"`
	Config       string        `kong:"default='xeri.hcl',help='Path to HCL config file'"`
	Debug        bool          `kong:"help='Enable debug logging'"`
	Seed         *int64        `kong:"help='Deterministic RNG seed for the server (optional)'"`
	ReapInterval time.Duration `kong:"default='5m',help='How often to reap empty tables'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	// Configure logging; the flag wins over the config file.
	logger := shared.SetupLogger(c.Debug || cfg.Server.LogLevel == "debug")

	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	// Setup RNG and seed
	var rng *rand.Rand
	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
		rng = randutil.New(seed)
	} else {
		seed = time.Now().UnixNano()
		logger.Info().Int64("seed", seed).Msg("Using random seed")
		rng = randutil.New(seed)
	}

	registry := game.NewRegistry(logger, rng, game.WithReapInterval(c.ReapInterval))

	// Pre-declare tables from config before accepting connections.
	for _, tc := range cfg.Tables {
		kind := game.Kind(tc.Game)
		if _, err := registry.Declare(kind, tc.Room, tc.Name, tc.Password); err != nil {
			return err
		}
		logger.Info().
			Str("room", tc.Room).
			Str("game", tc.Game).
			Bool("locked", tc.Password != "").
			Msg("Declared table")
	}

	s := server.NewServer(logger, registry)

	logger.Info().
		Str("address", addr).
		Int("tables", registry.TableCount()).
		Dur("reap_interval", c.ReapInterval).
		Msg("Starting card table server")

	// Setup graceful shutdown
	ctx := shared.SetupSignalHandler(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		registry.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
