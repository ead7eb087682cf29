package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// ErrMatchNotFound is returned when a match ID does not exist.
var ErrMatchNotFound = errors.New("match not found")

// MatchRow is one recorded match.
type MatchRow struct {
	ID            int64
	Seed          uint64
	ArenaWidth    float64
	ArenaHeight   float64
	Aggressive    bool
	StartedAt     time.Time
	EndedAt       *time.Time
	DroppedEvents int64
}

// MatchRepository stores matches and their lifecycle events.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// Create inserts a new match and returns its ID.
func (r *MatchRepository) Create(ctx context.Context, m MatchRow) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO matches (seed, arena_width, arena_height, aggressive, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		int64(m.Seed), m.ArenaWidth, m.ArenaHeight, m.Aggressive, m.StartedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting match: %w", err)
	}
	return id, nil
}

// Finish marks a match as ended and records how many events were dropped.
func (r *MatchRepository) Finish(ctx context.Context, matchID int64, endedAt time.Time, dropped int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE matches SET ended_at = $2, dropped_events = $3 WHERE id = $1`,
		matchID, endedAt, dropped)
	if err != nil {
		return fmt.Errorf("finishing match %d: %w", matchID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finishing match %d: %w", matchID, ErrMatchNotFound)
	}
	return nil
}

// Get loads one match.
func (r *MatchRepository) Get(ctx context.Context, matchID int64) (MatchRow, error) {
	var (
		m    MatchRow
		seed int64
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, seed, arena_width, arena_height, aggressive, started_at, ended_at, dropped_events
		 FROM matches WHERE id = $1`, matchID,
	).Scan(&m.ID, &seed, &m.ArenaWidth, &m.ArenaHeight, &m.Aggressive, &m.StartedAt, &m.EndedAt, &m.DroppedEvents)
	if errors.Is(err, pgx.ErrNoRows) {
		return MatchRow{}, fmt.Errorf("loading match %d: %w", matchID, ErrMatchNotFound)
	}
	if err != nil {
		return MatchRow{}, fmt.Errorf("loading match %d: %w", matchID, err)
	}
	m.Seed = uint64(seed)
	return m, nil
}

// SaveEvents appends a batch of events to a match in one transaction.
func (r *MatchRepository) SaveEvents(ctx context.Context, matchID int64, events []model.CombatEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for match %d: %w", matchID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "matchID", matchID, "error", err)
		}
	}()

	if err := r.SaveEventsTx(ctx, tx, matchID, events); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for match %d: %w", matchID, err)
	}
	return nil
}

// SaveEventsTx appends events within a transaction.
func (r *MatchRepository) SaveEventsTx(ctx context.Context, tx pgx.Tx, matchID int64, events []model.CombatEvent) error {
	rows := make([][]any, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []any{
			matchID, string(ev.Kind), ev.At, int64(ev.AgentID), ev.Archetype, ev.Faction,
			ev.Position.X, ev.Position.Y, ev.Amount, ev.Outcome, ev.Health, ev.Shield,
		})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"match_events"},
		[]string{"match_id", "kind", "at", "agent_id", "archetype", "faction",
			"pos_x", "pos_y", "amount", "outcome", "health", "shield"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting events for match %d: %w", matchID, err)
	}

	slog.Debug("saved match events",
		"matchID", matchID,
		"count", len(events))

	return nil
}

// LoadEvents returns the events of a match in recording order.
func (r *MatchRepository) LoadEvents(ctx context.Context, matchID int64) ([]model.CombatEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, at, agent_id, archetype, faction, pos_x, pos_y, amount, outcome, health, shield
		 FROM match_events WHERE match_id = $1 ORDER BY at, id`, matchID)
	if err != nil {
		return nil, fmt.Errorf("querying events for match %d: %w", matchID, err)
	}
	defer rows.Close()

	var result []model.CombatEvent
	for rows.Next() {
		var (
			ev      model.CombatEvent
			kind    string
			agentID int64
		)
		if err := rows.Scan(&kind, &ev.At, &agentID, &ev.Archetype, &ev.Faction,
			&ev.Position.X, &ev.Position.Y, &ev.Amount, &ev.Outcome, &ev.Health, &ev.Shield); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		ev.Kind = model.CombatEventKind(kind)
		ev.AgentID = uint32(agentID)
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}
	return result, nil
}

// CountByKind returns how many events of each kind a match recorded.
func (r *MatchRepository) CountByKind(ctx context.Context, matchID int64) (map[model.CombatEventKind]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, COUNT(*) FROM match_events WHERE match_id = $1 GROUP BY kind`, matchID)
	if err != nil {
		return nil, fmt.Errorf("counting events for match %d: %w", matchID, err)
	}
	defer rows.Close()

	result := make(map[model.CombatEventKind]int)
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scanning event count: %w", err)
		}
		result[model.CombatEventKind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event counts: %w", err)
	}
	return result, nil
}
