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
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Arena/internal/adapters/http"
	"github.com/dkeye/Arena/internal/app"
	"github.com/dkeye/Arena/internal/app/orch"
	"github.com/dkeye/Arena/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// zerolog goes first so config.Load can log.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cmd := &cli.Command{
		Name:  "arena",
		Usage: "lobby and relay server for two-player matches",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-env", Usage: "config/config.<env>.yaml to load"},
			&cli.StringFlag{Name: "static", Usage: "override static_path"},
			&cli.BoolFlag{Name: "debug", Usage: "debug mode and log level"},
		},
		Action: run,
	}
	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("arena stopped")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config-env"))
	if err != nil {
		return err
	}
	if s := cmd.String("static"); s != "" {
		cfg.StaticPath = s
	}
	if cmd.Bool("debug") {
		cfg.Mode = "debug"
		cfg.LogLevel = "debug"
	}
	setupLogger(cfg)

	reg := app.NewRegistry()
	rooms := app.NewRoomStore(app.StoreOptions{
		MaxNameLen:      cfg.Rooms.MaxNameLen,
		MaxPlayersLimit: cfg.Rooms.MaxPlayersLimit,
	})
	o := orch.New(reg, rooms, app.PolicyFor(cfg.Rooms.Backpressure))

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("module", "main").Str("addr", addr).Msg("Arena server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("module", "main").Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("module", "main").Msg("Server forced to shutdown")
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Str("module", "main").Msg("Server exited gracefully")
	return nil
}

func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
