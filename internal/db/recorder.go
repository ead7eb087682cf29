package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// EventStore persists recorded events.
type EventStore interface {
	SaveEvents(ctx context.Context, matchID int64, events []model.CombatEvent) error
	Finish(ctx context.Context, matchID int64, endedAt time.Time, dropped int64) error
}

// DefaultFlushInterval is how often buffered events are written even when
// the batch is not full.
const DefaultFlushInterval = time.Second

// Recorder collects lifecycle events from the simulation goroutine and
// writes them to the store from its own goroutine.
//
// Emit never blocks: when the buffer is full the event is dropped and
// counted. The drop count is stored with the match when recording ends.
type Recorder struct {
	store   EventStore
	matchID int64
	events  chan model.CombatEvent

	batchSize     int
	flushInterval time.Duration

	dropped atomic.Int64
}

// NewRecorder creates a recorder for matchID with a buffer of the given size.
func NewRecorder(store EventStore, matchID int64, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{
		store:         store,
		matchID:       matchID,
		events:        make(chan model.CombatEvent, buffer),
		batchSize:     max(buffer/4, 1),
		flushInterval: DefaultFlushInterval,
	}
}

// Emit queues ev for recording without blocking.
func (r *Recorder) Emit(ev model.CombatEvent) {
	select {
	case r.events <- ev:
	default:
		n := r.dropped.Add(1)
		slog.Warn("match event dropped, recorder buffer full",
			"matchID", r.matchID,
			"kind", ev.Kind,
			"dropped", n)
	}
}

// Dropped returns how many events were dropped so far.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run writes events until ctx is canceled, then flushes what is left and
// finishes the match.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	slog.Info("match recorder started", "matchID", r.matchID)

	batch := make([]model.CombatEvent, 0, r.batchSize)
	flush := func(ctx context.Context) error {
		if len(batch) == 0 {
			return nil
		}
		if err := r.store.SaveEvents(ctx, r.matchID, batch); err != nil {
			return fmt.Errorf("saving %d events: %w", len(batch), err)
		}
		batch = batch[:0]
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return r.finish(batch)

		case ev := <-r.events:
			batch = append(batch, ev)
			if len(batch) >= r.batchSize {
				if err := flush(ctx); err != nil {
					slog.Error("flushing match events", "matchID", r.matchID, "error", err)
				}
			}

		case <-ticker.C:
			if err := flush(ctx); err != nil {
				slog.Error("flushing match events", "matchID", r.matchID, "error", err)
			}
		}
	}
}

// finish drains the buffer and closes the match on a fresh context since
// the run context is already canceled.
func (r *Recorder) finish(batch []model.CombatEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

drain:
	for {
		select {
		case ev := <-r.events:
			batch = append(batch, ev)
		default:
			break drain
		}
	}

	if len(batch) > 0 {
		if err := r.store.SaveEvents(ctx, r.matchID, batch); err != nil {
			return fmt.Errorf("saving final %d events: %w", len(batch), err)
		}
	}
	if err := r.store.Finish(ctx, r.matchID, time.Now(), r.dropped.Load()); err != nil {
		return fmt.Errorf("finishing match: %w", err)
	}

	slog.Info("match recorder stopped",
		"matchID", r.matchID,
		"dropped", r.dropped.Load())
	return nil
}
