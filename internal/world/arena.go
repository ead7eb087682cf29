package world

import (
	"log/slog"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

// DefaultProjectileRadius is the contact radius of every projectile.
const DefaultProjectileRadius = 2

// HitFunc delivers a resolved projectile hit to the agent's lifecycle.
// Injected by the spawn manager to avoid an import cycle.
type HitFunc func(target *model.Agent, p *model.Projectile)

// EdgeFunc is called when an agent was clamped at the arena bounds.
type EdgeFunc func(a *model.Agent)

// Arena integrates agent and projectile motion, detects contacts and
// resolves them into hits.
//
// The arena only reads agent positions for contact detection and writes
// the integrated position back; every other agent field is owned by the
// decision and lifecycle layers.
//
// Not safe for concurrent use; stepped from the simulation goroutine.
type Arena struct {
	bounds Bounds
	clock  schedule.Clock
	pool   *model.ProjectilePool

	agents      []*model.Agent
	index       map[uint32]int
	projectiles []*model.Projectile
	grid        *grid

	timeScale    float64
	friendlyFire bool

	// Callbacks (injected to avoid import cycles)
	onHit  HitFunc
	onEdge EdgeFunc
}

// NewArena creates an arena. poolSize projectile records are preallocated.
func NewArena(bounds Bounds, clock schedule.Clock, poolSize int) *Arena {
	return &Arena{
		bounds:    bounds,
		clock:     clock,
		pool:      model.NewProjectilePool(poolSize),
		index:     make(map[uint32]int),
		grid:      newGrid(),
		timeScale: 1,
	}
}

// SetHitFunc sets the hit delivery callback.
func (w *Arena) SetHitFunc(fn HitFunc) {
	w.onHit = fn
}

// SetEdgeFunc sets the bounds contact callback.
func (w *Arena) SetEdgeFunc(fn EdgeFunc) {
	w.onEdge = fn
}

// SetFriendlyFire allows projectiles to hit agents of the shooter's faction.
func (w *Arena) SetFriendlyFire(enabled bool) {
	w.friendlyFire = enabled
}

// SetTimeScale scales motion integration. Values ≤ 0 freeze motion.
func (w *Arena) SetTimeScale(scale float64) {
	w.timeScale = max(scale, 0)
}

// TimeScale returns the current motion scale.
func (w *Arena) TimeScale() float64 {
	return w.timeScale
}

// Bounds returns the playable rectangle.
func (w *Arena) Bounds() Bounds {
	return w.bounds
}

// AddAgent registers an agent for motion and contacts.
func (w *Arena) AddAgent(a *model.Agent) {
	if _, ok := w.index[a.ObjectID()]; ok {
		return
	}
	w.index[a.ObjectID()] = len(w.agents)
	w.agents = append(w.agents, a)
}

// RemoveAgent unregisters an agent. Unknown IDs are ignored.
func (w *Arena) RemoveAgent(objectID uint32) {
	i, ok := w.index[objectID]
	if !ok {
		return
	}
	delete(w.index, objectID)
	w.agents = append(w.agents[:i], w.agents[i+1:]...)
	for j := i; j < len(w.agents); j++ {
		w.index[w.agents[j].ObjectID()] = j
	}
}

// Agent returns a registered agent.
func (w *Arena) Agent(objectID uint32) (*model.Agent, bool) {
	i, ok := w.index[objectID]
	if !ok {
		return nil, false
	}
	return w.agents[i], true
}

// Agents returns registered agents in registration order.
// The slice must not be modified.
func (w *Arena) Agents() []*model.Agent {
	return w.agents
}

// Projectiles returns the projectiles in flight.
// The slice must not be modified.
func (w *Arena) Projectiles() []*model.Projectile {
	return w.projectiles
}

// NearestOpponent returns the closest live agent of another faction.
func (w *Arena) NearestOpponent(a *model.Agent) (*model.Agent, bool) {
	var (
		best   *model.Agent
		bestSq float64
	)
	for _, o := range w.agents {
		if o == a || !o.IsAlive() || o.Faction() == a.Faction() {
			continue
		}
		d := a.Position().DistanceSquared(o.Position())
		if best == nil || d < bestSq {
			best, bestSq = o, d
		}
	}
	return best, best != nil
}

// SpawnProjectile implements combat.ProjectileSpawner.
func (w *Arena) SpawnProjectile(owner *model.Agent, origin, velocity model.Vec2, damage int32, lifetime time.Duration) {
	p := w.pool.Acquire()
	p.Owner = owner.ObjectID()
	p.OwnerFaction = owner.Faction()
	p.Origin = origin
	p.Position = origin
	p.Velocity = velocity
	p.Damage = damage
	p.Radius = DefaultProjectileRadius
	p.ExpiresAt = w.clock.Now().Add(lifetime)
	w.projectiles = append(w.projectiles, p)
}

// Step advances motion by dt (scaled by the time scale), expires
// projectiles and resolves contacts.
func (w *Arena) Step(now time.Time, dt time.Duration) {
	secs := dt.Seconds() * w.timeScale

	for _, a := range w.agents {
		if !a.IsAlive() || a.Velocity().IsZero() {
			continue
		}
		next := a.Position().Add(a.Velocity().Scale(secs))
		clamped := w.bounds.Clamp(next)
		a.SetPosition(clamped)
		if clamped != next {
			w.HandleContact(Contact{A: AgentParticipant(a), B: BoundsParticipant()})
		}
	}

	w.grid.reset()
	for _, a := range w.agents {
		if a.IsAlive() {
			w.grid.insert(a)
		}
	}

	for _, p := range w.projectiles {
		if p.Resolved {
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Scale(secs))
		if p.Expired(now) || !w.bounds.Contains(p.Position) {
			p.Resolved = true
			continue
		}
		w.grid.near(p.Position, func(a *model.Agent) bool {
			r := a.Archetype().Radius + p.Radius
			if p.Position.DistanceSquared(a.Position()) > r*r {
				return true
			}
			return !w.HandleContact(Contact{A: ProjectileParticipant(p), B: AgentParticipant(a)})
		})
	}

	w.sweep()
}

// HandleContact resolves one contact. Swapped roles are corrected;
// contacts without exactly one projectile and one agent (or one agent and
// the bounds) are dropped. A projectile applies damage at most once.
// Returns true if a hit was delivered.
func (w *Arena) HandleContact(c Contact) bool {
	norm, kind, swapped := c.Normalize()
	if swapped {
		slog.Debug("contact roles corrected",
			"first", c.A.Role,
			"second", c.B.Role)
	}

	switch kind {
	case ContactEdge:
		if w.onEdge != nil {
			w.onEdge(norm.A.Agent)
		}
		return false

	case ContactHit:
		p, a := norm.A.Projectile, norm.B.Agent
		if p.Resolved || !a.IsAlive() || p.Owner == a.ObjectID() {
			return false
		}
		if !w.friendlyFire && p.OwnerFaction != "" && p.OwnerFaction == a.Faction() {
			return false
		}
		p.Resolved = true
		if w.onHit != nil {
			w.onHit(a, p)
		}
		return true

	default:
		slog.Warn("dropping malformed contact",
			"first", c.A.Role,
			"second", c.B.Role)
		return false
	}
}

// sweep returns resolved projectiles to the pool.
func (w *Arena) sweep() {
	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		if p.Resolved {
			w.pool.Release(p)
			continue
		}
		live = append(live, p)
	}
	clear(w.projectiles[len(live):])
	w.projectiles = live
}

// Clear releases every projectile in flight.
func (w *Arena) Clear() {
	for _, p := range w.projectiles {
		w.pool.Release(p)
	}
	clear(w.projectiles)
	w.projectiles = w.projectiles[:0]
}
