package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
)

// StartMatch connects to the configured database, brings the schema up to
// date and creates a match row for this run. The returned recorder must be run by
// the caller; the DB must be closed after the recorder has stopped.
func StartMatch(ctx context.Context, cfg config.Arena, seed uint64) (*DB, *Recorder, error) {
	database, err := New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}

	matches := database.Matches()
	matchID, err := matches.Create(ctx, MatchRow{
		Seed:        seed,
		ArenaWidth:  cfg.Bounds.MaxX - cfg.Bounds.MinX,
		ArenaHeight: cfg.Bounds.MaxY - cfg.Bounds.MinY,
		Aggressive:  cfg.Aggressive,
		StartedAt:   time.Now(),
	})
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("creating match: %w", err)
	}

	slog.Info("match recording enabled",
		"matchID", matchID,
		"db", cfg.Database.DBName,
		"buffer", cfg.EventBuffer)

	return database, NewRecorder(matches, matchID, cfg.EventBuffer), nil
}
