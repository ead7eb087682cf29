package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkgamesio/bonkgames-sub000/internal/ai"
	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/db"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/render"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
	"github.com/bonkgamesio/bonkgames-sub000/internal/spawn"
)

type memStore struct {
	mu       sync.Mutex
	events   []model.CombatEvent
	finished bool
}

func (s *memStore) SaveEvents(_ context.Context, _ int64, events []model.CombatEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *memStore) Finish(context.Context, int64, time.Time, int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	return nil
}

func TestSimulate_RecordsTeardown(t *testing.T) {
	cfg := config.DefaultArena()
	clock := schedule.SystemClock{}
	ticks := ai.NewTickManager(cfg.TickRate, clock)
	mgr := spawn.NewManager(cfg, render.NewHeadlessHost(cfg.Resources), clock, rand.New(rand.NewPCG(3, 5)), ticks)

	store := &memStore{}
	rec := db.NewRecorder(store, 1, 256)
	mgr.SetEventSink(rec)

	handles, err := mgr.SpawnConfigured()
	require.NoError(t, err)
	require.NotEmpty(t, handles)

	recCtx, recCancel := context.WithCancel(context.Background())
	defer recCancel()
	recDone := make(chan error, 1)
	go func() { recDone <- rec.Run(recCtx) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, simulate(ctx, ticks, mgr, recCancel))

	select {
	case err := <-recDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("recorder did not stop")
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.True(t, store.finished)
	despawns := 0
	for _, ev := range store.events {
		if ev.Kind == model.EventDespawn {
			despawns++
		}
	}
	assert.Equal(t, len(handles), despawns, "every teardown despawn recorded")
	assert.Zero(t, mgr.Count())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}
