package combat

import (
	"log/slog"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

// TargetLocator returns the current position of the agent's target.
type TargetLocator func(a *model.Agent) (model.Vec2, bool)

// Teleporter is a shot extension that occasionally blinks the shooter to a
// point behind its target. Gated by its own cooldown; a new maneuver is
// rejected while the previous one is still in flight.
type Teleporter struct {
	spec   model.TeleportSpec
	rng    model.Rand
	timers *schedule.Group
	locate TargetLocator
	clamp  func(model.Vec2) model.Vec2

	onArrive func(a *model.Agent)
}

// NewTeleporter creates a teleport extension. clamp keeps the destination
// inside the arena and may be nil.
func NewTeleporter(spec model.TeleportSpec, rng model.Rand, timers *schedule.Group, locate TargetLocator, clamp func(model.Vec2) model.Vec2) *Teleporter {
	return &Teleporter{
		spec:   spec,
		rng:    rng,
		timers: timers,
		locate: locate,
		clamp:  clamp,
	}
}

// SetArriveFunc sets a callback run when the agent reappears.
func (t *Teleporter) SetArriveFunc(fn func(a *model.Agent)) {
	t.onArrive = fn
}

// Ready reports whether a maneuver may start at now.
func (t *Teleporter) Ready(a *model.Agent, now time.Time) bool {
	if a.IsTeleporting() || !a.IsAlive() {
		return false
	}
	last := a.LastTeleport()
	return last.IsZero() || now.Sub(last) >= t.spec.Cooldown
}

// OnShot implements ShotExtension.
func (t *Teleporter) OnShot(a *model.Agent, now time.Time, aim model.Vec2) {
	if !t.Ready(a, now) || !model.Chance(t.rng, t.spec.Chance) {
		return
	}
	if _, ok := t.locate(a); !ok {
		return
	}

	a.SetTeleporting(true, now)
	fallback := aim.Normalize()

	t.timers.After(t.spec.Duration, func() {
		a.SetTeleporting(false, now)
		targetPos, ok := t.locate(a)
		if !ok {
			slog.Debug("teleport target lost, staying in place", "agent", a.ObjectID())
			return
		}
		a.SetPosition(t.destination(a.Position(), targetPos, fallback))

		if t.onArrive != nil {
			t.onArrive(a)
		}
	})

	slog.Debug("teleport started",
		"agent", a.ObjectID(),
		"duration", t.spec.Duration)
}

// destination returns the point Distance behind target as seen from origin.
func (t *Teleporter) destination(origin, target, fallback model.Vec2) model.Vec2 {
	dir := target.Sub(origin).Normalize()
	if dir.IsZero() {
		dir = fallback
	}
	dest := target.Add(dir.Scale(t.spec.Distance))
	if t.clamp != nil {
		dest = t.clamp(dest)
	}
	return dest
}
