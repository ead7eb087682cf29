package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bonkgamesio/bonkgames-sub000/internal/ai"
	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/db"
	"github.com/bonkgamesio/bonkgames-sub000/internal/render"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
	"github.com/bonkgamesio/bonkgames-sub000/internal/spawn"
)

const ArenaConfigPath = "config/arena.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ArenaConfigPath
	if p := os.Getenv("BONK_ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadArena(cfgPath)
	if err != nil {
		return fmt.Errorf("loading arena config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	// Optional bounded run, e.g. BONK_ARENA_DURATION=2m
	if d := os.Getenv("BONK_ARENA_DURATION"); d != "" {
		limit, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("parsing BONK_ARENA_DURATION: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	slog.Info("arena starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"seed", seed,
		"tick_rate", cfg.TickRate,
		"aggressive", cfg.Aggressive)

	clock := schedule.SystemClock{}
	ticks := ai.NewTickManager(cfg.TickRate, clock)
	host := render.NewHeadlessHost(cfg.Resources)
	mgr := spawn.NewManager(cfg, host, clock, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), ticks)

	g, gctx := errgroup.WithContext(ctx)

	// The recorder runs on its own context; simulate cancels it.
	recCancel := context.CancelFunc(func() {})
	if cfg.RecordMatches {
		database, recorder, err := db.StartMatch(ctx, cfg, seed)
		if err != nil {
			return fmt.Errorf("starting match recording: %w", err)
		}
		defer database.Close()

		var recCtx context.Context
		recCtx, recCancel = context.WithCancel(context.Background())
		defer recCancel()

		mgr.SetEventSink(recorder)
		g.Go(func() error {
			if err := recorder.Run(recCtx); err != nil {
				return fmt.Errorf("match recorder: %w", err)
			}
			return nil
		})
	}

	if _, err := mgr.SpawnConfigured(); err != nil {
		return fmt.Errorf("spawning configured agents: %w", err)
	}
	slog.Info("agents spawned", "count", mgr.Count())

	g.Go(func() error {
		return simulate(gctx, ticks, mgr, recCancel)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("arena error: %w", err)
	}

	slog.Info("arena stopped", "banners", host.Banners())
	return nil
}

// simulate runs the tick loop until ctx ends, tears the roster down and
// only then stops the recorder, so the final despawn events are recorded.
func simulate(ctx context.Context, ticks *ai.TickManager, mgr *spawn.Manager, stopRecorder context.CancelFunc) error {
	err := ticks.Start(ctx, mgr.Update)
	mgr.DestroyAll()
	stopRecorder()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
