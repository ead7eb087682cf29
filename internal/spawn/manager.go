package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/ai"
	"github.com/bonkgamesio/bonkgames-sub000/internal/anim"
	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/game/combat"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
	"github.com/bonkgamesio/bonkgames-sub000/internal/world"
)

// DefaultProjectilePool is the number of projectile records preallocated
// by the arena.
const DefaultProjectilePool = 64

var (
	ErrMissingPosition  = errors.New("spawn position is required")
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrOutOfBounds      = errors.New("spawn position outside arena")
)

// EventSink receives lifecycle events for match recording.
// Emit must not block the simulation.
type EventSink interface {
	Emit(ev model.CombatEvent)
}

// SpawnRequest describes one agent to place in the arena.
type SpawnRequest struct {
	// Position is required; a nil position is rejected.
	Position  *model.Vec2
	Archetype string
	Faction   string
}

// Manager owns the agents of one arena: it spawns them, steps the
// simulation and drives each agent's presentation and lifecycle.
//
// Not safe for concurrent use. Update, Spawn and every Handle method must
// be called from the simulation goroutine.
type Manager struct {
	cfg      config.Arena
	host     Host
	sched    *schedule.Scheduler
	arena    *world.Arena
	director *anim.Director
	ticks    *ai.TickManager
	ids      *world.ObjectIDGenerator
	rng      model.Rand

	archetypes map[string]*model.Archetype
	handles    map[uint32]*Handle
	settings   ai.Settings
	weaponCfg  combat.WeaponConfig

	events EventSink

	// respawns holds pending respawn callbacks so DestroyAll can drop them.
	respawns *schedule.Group
}

// NewManager creates a manager for cfg. cfg is expected to be validated.
// Every archetype is registered with the animation director up front so
// each gets its placeholder before the first spawn.
func NewManager(cfg config.Arena, host Host, clock schedule.Clock, rng model.Rand, ticks *ai.TickManager) *Manager {
	bounds := world.NewBounds(cfg.Bounds)
	sched := schedule.New(clock)
	m := &Manager{
		cfg:        cfg,
		host:       host,
		sched:      sched,
		respawns:   sched.NewGroup(),
		arena:      world.NewArena(bounds, clock, DefaultProjectilePool),
		director:   anim.NewDirector(host, rng, cfg.Animation.LivelinessChance),
		ticks:      ticks,
		ids:        world.NewObjectIDGenerator(),
		rng:        rng,
		archetypes: make(map[string]*model.Archetype, len(cfg.Archetypes)),
		handles:    make(map[uint32]*Handle),
		settings: ai.Settings{
			Behavior:   cfg.Behavior,
			Aggressive: cfg.Aggressive,
			DeadZone:   cfg.Animation.DeadZone,
			Bounds:     bounds,
		},
		weaponCfg: combat.WeaponConfig{
			MaxSpread:               cfg.Weapon.MaxSpread,
			MuzzleOffset:            cfg.Weapon.MuzzleOffset,
			Aggressive:              cfg.Aggressive,
			AggressiveAccuracyBoost: cfg.Weapon.AggressiveAccuracyBoost,
			ShootStateChance:        cfg.Weapon.ShootStateChance,
		},
	}

	for _, ac := range cfg.Archetypes {
		arch := ac.Model()
		m.archetypes[arch.Name] = arch
		m.director.RegisterArchetype(arch.Name, arch.DeathFrames...)
	}

	m.arena.SetHitFunc(m.deliverHit)
	m.arena.SetEdgeFunc(m.boundsContact)

	return m
}

// SetEventSink sets the destination of lifecycle events. nil disables
// emission.
func (m *Manager) SetEventSink(sink EventSink) {
	m.events = sink
}

// SetFriendlyFire allows projectiles to hit agents of the shooter's faction.
func (m *Manager) SetFriendlyFire(enabled bool) {
	m.arena.SetFriendlyFire(enabled)
}

// SetTimeScale scales locomotion and projectile motion. Scheduled
// timelines (reloads, death frames, fades) keep running on the clock.
func (m *Manager) SetTimeScale(scale float64) {
	m.arena.SetTimeScale(scale)
	slog.Info("time scale changed", "scale", m.arena.TimeScale())
}

// Arena returns the physics arena.
func (m *Manager) Arena() *world.Arena { return m.arena }

// Scheduler returns the scheduler timelines run on.
func (m *Manager) Scheduler() *schedule.Scheduler { return m.sched }

// Handle returns the live handle for objectID.
func (m *Manager) Handle(objectID uint32) (*Handle, bool) {
	h, ok := m.handles[objectID]
	return h, ok
}

// Handles returns the handles in arena order.
func (m *Manager) Handles() []*Handle {
	out := make([]*Handle, 0, len(m.handles))
	for _, a := range m.arena.Agents() {
		if h, ok := m.handles[a.ObjectID()]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Count returns the number of agents that have not finished dying.
func (m *Manager) Count() int { return len(m.handles) }

// Spawn validates req and places a new agent in the arena.
func (m *Manager) Spawn(req SpawnRequest) (*Handle, error) {
	if req.Position == nil {
		return nil, ErrMissingPosition
	}
	arch, ok := m.archetypes[req.Archetype]
	if !ok {
		return nil, fmt.Errorf("spawning %q: %w", req.Archetype, ErrUnknownArchetype)
	}
	pos := *req.Position
	if !m.arena.Bounds().Contains(pos) {
		return nil, fmt.Errorf("spawning %q at (%.1f, %.1f): %w", req.Archetype, pos.X, pos.Y, ErrOutOfBounds)
	}

	now := m.sched.Now()
	a := model.NewAgent(m.ids.NextAgentID(), arch, req.Faction, pos, now)
	h := &Handle{
		mgr:    m,
		agent:  a,
		timers: m.sched.NewGroup(),
		origin: SpawnRequest{Position: &pos, Archetype: arch.Name, Faction: req.Faction},
	}

	h.weapon = combat.NewWeapon(a, m.weaponCfg, m.rng, h.timers, m.arena)
	if arch.Teleport != nil {
		tp := combat.NewTeleporter(*arch.Teleport, m.rng, h.timers, m.targetPosition, m.arena.Bounds().Clamp)
		tp.SetArriveFunc(func(*model.Agent) {
			m.host.Apply(h.actor, h.agent.Position())
			h.followWidgets()
		})
		h.weapon.AddExtension(tp)
	}
	h.brain = ai.NewBehaviorAI(a, m.settings, h.weapon, m.rng, m.arena.Agent, m.arena.NearestOpponent)

	// The idle key never fails to resolve to something: an empty key asks
	// the host for its own placeholder.
	h.key, _ = m.director.Resolve(arch.Name, model.FacingDown, anim.ActivityIdle)
	h.actor = m.host.CreateActor(h.key, pos)
	h.depth, h.scale = depthOf(pos), 1
	m.host.Play(h.actor, h.key, false)
	m.host.SetDepth(h.actor, h.depth)
	m.host.SetTransform(h.actor, h.rotation, h.scale)
	h.attachWidgets(a.Shield() > 0)

	m.handles[a.ObjectID()] = h
	m.arena.AddAgent(a)
	m.ticks.Register(a.ObjectID(), h.brain)

	m.emit(model.CombatEvent{
		Kind:      model.EventSpawn,
		At:        now,
		AgentID:   a.ObjectID(),
		Archetype: arch.Name,
		Faction:   a.Faction(),
		Position:  pos,
		Health:    a.Health(),
		Shield:    a.Shield(),
	})
	slog.Info("agent spawned",
		"agent", a.ObjectID(),
		"archetype", arch.Name,
		"faction", a.Faction(),
		"x", pos.X,
		"y", pos.Y,
		"key", h.key)

	return h, nil
}

// SpawnConfigured spawns every entry of the configured roster. Entries that
// fail are skipped; their errors are joined.
func (m *Manager) SpawnConfigured() ([]*Handle, error) {
	var (
		out  []*Handle
		errs []error
	)
	for _, sc := range m.cfg.Spawns {
		pos := model.Vec2{X: sc.X, Y: sc.Y}
		h, err := m.Spawn(SpawnRequest{Position: &pos, Archetype: sc.Archetype, Faction: sc.Faction})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, h)
	}
	return out, errors.Join(errs...)
}

// Update advances the simulation by one step: due timeline callbacks run
// first, then every agent decides and acts, then the arena integrates
// motion and resolves hits, and finally every agent is presented.
func (m *Manager) Update(now time.Time, dt time.Duration) {
	m.sched.RunDue()
	m.ticks.TickAll(now)
	m.arena.Step(now, dt)

	for _, h := range m.Handles() {
		h.present(now)
	}
}

// DestroyAll tears every agent down immediately and drops pending
// respawns.
func (m *Manager) DestroyAll() {
	m.respawns.CancelAll()
	for _, h := range m.Handles() {
		h.Destroy()
	}
	m.arena.Clear()
}

// deliverHit routes a resolved projectile hit to the target's handle.
func (m *Manager) deliverHit(target *model.Agent, p *model.Projectile) {
	h, ok := m.handles[target.ObjectID()]
	if !ok {
		return
	}
	h.lastAttacker = p.OwnerFaction
	h.ReceiveHit(p.Damage)
}

func (m *Manager) boundsContact(a *model.Agent) {
	if h, ok := m.handles[a.ObjectID()]; ok {
		h.brain.OnBoundsContact()
	}
}

// targetPosition resolves the agent's current target to a position. An
// opponent that left the arena no longer resolves.
func (m *Manager) targetPosition(a *model.Agent) (model.Vec2, bool) {
	t := a.Target()
	switch t.Kind() {
	case model.TargetPoint:
		return t.Point(), true
	case model.TargetOpponent:
		opp, ok := m.arena.Agent(t.OpponentID())
		if !ok {
			return model.Vec2{}, false
		}
		return opp.Position(), true
	default:
		return model.Vec2{}, false
	}
}

func (m *Manager) emit(ev model.CombatEvent) {
	if m.events != nil {
		m.events.Emit(ev)
	}
}
