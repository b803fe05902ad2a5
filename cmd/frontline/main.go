package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/sauerbraten/frontline/internal/auth"
	"github.com/sauerbraten/frontline/internal/httpapi"
	"github.com/sauerbraten/frontline/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: e.LogLevel,
	}))

	conf, err := loadConfig(e.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	users, err := auth.FromFile(e.UsersFile)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		MapDir:       e.MapDir,
		FirstMap:     conf.FirstMap,
		Pools:        conf.MapPools,
		Intermission: conf.intermission(),
		TickInterval: e.tickInterval(),
		Settings:     conf.Settings,
		EventBuffer:  conf.EventBuffer,
	}, logger)

	api := httpapi.New(e.HTTPAddr, logger, srv, auth.Cached(users))

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting simulation", "description", conf.ServerDescription, "map_dir", e.MapDir)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting http server", "addr", e.HTTPAddr)
		return api.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return api.Shutdown(context.Background())
	})

	return g.Wait()
}
