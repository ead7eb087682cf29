package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bonkgamesio/bonkgames-sub000/internal/ai"
	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/render"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
	"github.com/bonkgamesio/bonkgames-sub000/internal/spawn"
	"github.com/bonkgamesio/bonkgames-sub000/internal/world"
)

const (
	ArenaConfigPath = "config/arena.yaml"
	LogPath         = "arena-sandbox.log"
)

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
		fmt.Fprintln(os.Stderr, "fatal:", err)
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

	// The screen owns stdout, logs go to a file.
	logPath := LogPath
	if p := os.Getenv("BONK_ARENA_LOG"); p != "" {
		logPath = p
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	clock := schedule.NewManualClock(time.Now())
	ticks := ai.NewTickManager(cfg.TickRate, clock)
	s := &sandbox{
		cfg:   cfg,
		rng:   rng,
		clock: clock,
		host:  render.NewTerminalHost(screen, clock, world.NewBounds(cfg.Bounds), cfg.Resources),
		scale: 1,
	}
	s.mgr = spawn.NewManager(cfg, s.host, clock, rng, ticks)

	slog.Info("sandbox starting", "config", cfgPath, "seed", seed)

	if _, err := s.mgr.SpawnConfigured(); err != nil {
		return fmt.Errorf("spawning configured agents: %w", err)
	}
	defer s.mgr.DestroyAll()

	eventCh := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(eventCh)
				return
			}
			eventCh <- ev
		}
	}()

	ticker := time.NewTicker(ticks.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-eventCh:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if s.apply(keyToCommand(ev)) {
					return nil
				}
			}

		case <-ticker.C:
			s.step(ticks.Interval())
			s.host.SetStatus(s.status())
			s.host.Draw()
		}
	}
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
