package anim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// Activity is the behavioral intent shown by an animation.
type Activity int32

const (
	ActivityIdle Activity = iota
	ActivityMove
)

// String returns the resource-key spelling of the activity.
func (a Activity) String() string {
	if a == ActivityMove {
		return "move"
	}
	return "idle"
}

// MaxLivelinessChance caps the per-tick idle liveliness override.
const MaxLivelinessChance = 0.05

// Resources answers whether a playable resource key exists.
// Implementations must never panic on unknown keys.
type Resources interface {
	Exists(key string) bool
}

// Key builds the resource key for archetype, activity and facing,
// e.g. "grunt_move_side".
func Key(archetype string, activity Activity, facing model.Facing) string {
	return fmt.Sprintf("%s_%s_%s", archetype, activity, facing)
}

// PlaceholderKey is the explicit archetype-wide placeholder resource.
func PlaceholderKey(archetype string) string {
	return archetype + "_placeholder"
}

type fallbackStep struct {
	facing   model.Facing
	activity Activity
}

type missKey struct {
	archetype string
	facing    model.Facing
	activity  Activity
}

// Director resolves playable resource keys through an ordered fallback
// chain and decides when a presentation change must be issued.
//
// Not safe for concurrent use; owned by the simulation goroutine.
type Director struct {
	res          Resources
	rng          model.Rand
	liveliness   float64
	placeholders map[string]string
	warned       map[missKey]struct{}
}

// NewDirector creates a director. livelinessChance is capped at
// MaxLivelinessChance.
func NewDirector(res Resources, rng model.Rand, livelinessChance float64) *Director {
	return &Director{
		res:          res,
		rng:          rng,
		liveliness:   min(max(livelinessChance, 0), MaxLivelinessChance),
		placeholders: make(map[string]string),
		warned:       make(map[missKey]struct{}),
	}
}

// RegisterArchetype builds the archetype-wide placeholder from the first
// resource that can be located for it. Returns the placeholder key, or
// "" when nothing exists for the archetype at all.
func (d *Director) RegisterArchetype(archetype string, extra ...string) string {
	candidates := make([]string, 0, 2+len(model.Facings)*2+len(extra))
	candidates = append(candidates, PlaceholderKey(archetype), Key(archetype, ActivityIdle, model.FacingDown))
	for _, act := range []Activity{ActivityIdle, ActivityMove} {
		for _, f := range model.Facings {
			candidates = append(candidates, Key(archetype, act, f))
		}
	}
	candidates = append(candidates, extra...)

	for _, key := range candidates {
		if d.res.Exists(key) {
			d.placeholders[archetype] = key
			return key
		}
	}

	slog.Warn("no resources found for archetype", "archetype", archetype)
	return ""
}

// Placeholder returns the registered placeholder for archetype.
func (d *Director) Placeholder(archetype string) (string, bool) {
	key, ok := d.placeholders[archetype]
	return key, ok
}

// Resolve returns the best available key for the request:
//
//  1. exact archetype + facing + activity
//  2. same facing, idle
//  3. facing down, same activity
//  4. facing down, idle
//  5. archetype placeholder
//
// When every step misses, ok is false and a warning is logged once for
// that combination; the caller leaves its presentation unchanged.
func (d *Director) Resolve(archetype string, facing model.Facing, activity Activity) (string, bool) {
	chain := [...]fallbackStep{
		{facing, activity},
		{facing, ActivityIdle},
		{model.FacingDown, activity},
		{model.FacingDown, ActivityIdle},
	}
	for _, step := range chain {
		key := Key(archetype, step.activity, step.facing)
		if d.res.Exists(key) {
			return key, true
		}
	}

	if key, ok := d.placeholders[archetype]; ok && d.res.Exists(key) {
		d.noteMiss(archetype, facing, activity, slog.LevelDebug)
		return key, true
	}

	d.noteMiss(archetype, facing, activity, slog.LevelWarn)
	return "", false
}

func (d *Director) noteMiss(archetype string, facing model.Facing, activity Activity, level slog.Level) {
	k := missKey{archetype: archetype, facing: facing, activity: activity}
	if _, seen := d.warned[k]; seen {
		return
	}
	d.warned[k] = struct{}{}
	slog.Log(context.Background(), level, "animation resource missing",
		"archetype", archetype,
		"facing", facing,
		"activity", activity)
}

// Request describes what an agent wants to show this tick.
type Request struct {
	Archetype     string
	Direction     model.Direction
	Activity      Activity
	CurrentKey    string
	CurrentMirror bool

	// Position and TargetPos decide mirroring while idle; HasTarget marks
	// TargetPos as valid.
	Position  model.Vec2
	TargetPos model.Vec2
	HasTarget bool
}

// Result is the resolved presentation.
type Result struct {
	Key     string
	Mirror  bool
	Changed bool
	// Lively is set when the idle liveliness override fired.
	Lively bool
}

// Present resolves the key for req and reports whether the host must be
// told to play it. A change is issued only when the key or mirror flag
// differs from the current presentation, or when the idle liveliness
// override fires.
func (d *Director) Present(req Request) Result {
	dir := req.Direction
	if req.Activity == ActivityIdle && req.HasTarget && dir.Facing != model.FacingDown && dir.Facing != model.FacingUp {
		dir.Mirror = model.MirrorToward(req.Position, req.TargetPos)
	}

	var lively bool
	if req.Activity == ActivityIdle && model.Chance(d.rng, d.liveliness) {
		dir = model.Directions[d.rng.IntN(len(model.Directions))]
		lively = true
	}

	key, ok := d.Resolve(req.Archetype, dir.Facing, req.Activity)
	if !ok {
		return Result{Key: req.CurrentKey, Mirror: req.CurrentMirror}
	}

	mirror := mirrorFor(dir)
	return Result{
		Key:     key,
		Mirror:  mirror,
		Changed: key != req.CurrentKey || mirror != req.CurrentMirror || lively,
		Lively:  lively,
	}
}

func mirrorFor(d model.Direction) bool {
	switch d.Facing {
	case model.FacingSide, model.FacingDownCorner, model.FacingUpCorner:
		return d.Mirror
	default:
		return false
	}
}
