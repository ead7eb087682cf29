package ai

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/world"
)

// GetAgentFunc looks up an agent by objectID. Returns false once the agent
// has been destroyed. Injected by the spawn manager to avoid an import cycle.
type GetAgentFunc func(objectID uint32) (*model.Agent, bool)

// FindOpponentFunc returns the nearest live opponent of a, if any.
// Injected by the spawn manager to avoid an import cycle.
type FindOpponentFunc func(a *model.Agent) (*model.Agent, bool)

// Shooter is the combat side of an agent. Satisfied by *combat.Weapon.
type Shooter interface {
	TryShoot(now time.Time, aim model.Vec2, shootState bool) bool
	Reload() bool
}

// Settings groups the arena-wide tuning a BehaviorAI needs.
type Settings struct {
	Behavior   config.Behavior
	Aggressive bool
	DeadZone   float64
	Bounds     world.Bounds
}

// BehaviorAI is the top-level decision loop of one agent.
// State machine: IDLE ⇄ {APPROACH, EVADE, STRAFE, SHOOT}.
//
// With a live opponent the state follows distance bands (evade when close,
// approach when far, strafe in between) with a chance to hold and shoot.
// Without one the agent roams between synthetic points using weighted
// random choices. A watchdog breaks long idles and long movement episodes.
// Once the opponent is dying the agent latches a celebration mode.
//
// Not safe for concurrent use; ticked from the simulation goroutine.
type BehaviorAI struct {
	agent     *model.Agent
	set       Settings
	loco      *Locomotion
	shooter   Shooter
	rng       model.Rand
	isRunning atomic.Bool

	// Callbacks (injected to avoid import cycles)
	getAgent     GetAgentFunc
	findOpponent FindOpponentFunc
}

// NewBehaviorAI creates a decision loop for agent.
func NewBehaviorAI(
	agent *model.Agent,
	set Settings,
	shooter Shooter,
	rng model.Rand,
	getAgent GetAgentFunc,
	findOpponent FindOpponentFunc,
) *BehaviorAI {
	return &BehaviorAI{
		agent:        agent,
		set:          set,
		loco:         NewLocomotion(set.Behavior, rng),
		shooter:      shooter,
		rng:          rng,
		getAgent:     getAgent,
		findOpponent: findOpponent,
	}
}

// Agent returns the controlled agent.
func (ai *BehaviorAI) Agent() *model.Agent {
	return ai.agent
}

// Start starts the controller in the Idle state.
func (ai *BehaviorAI) Start() {
	ai.isRunning.Store(true)
	ai.agent.SetState(model.StateIdle, ai.agent.StateSince())

	if IsDebugEnabled() {
		slog.Debug("behavior AI started",
			"agent", ai.agent.ObjectID(),
			"archetype", ai.agent.Archetype().Name)
	}
}

// Stop stops the controller and halts the agent.
func (ai *BehaviorAI) Stop() {
	ai.isRunning.Store(false)
	ai.agent.SetVelocity(model.Vec2{})

	if IsDebugEnabled() {
		slog.Debug("behavior AI stopped", "agent", ai.agent.ObjectID())
	}
}

// SetState switches the behavior state. Entering Strafe fixes the orbit
// direction for the whole episode.
func (ai *BehaviorAI) SetState(state model.BehaviorState, now time.Time) {
	a := ai.agent
	old := a.State()
	a.SetState(state, now)

	if state == old {
		return
	}
	if state == model.StateStrafe {
		sign := 1.0
		if ai.rng.IntN(2) == 0 {
			sign = -1
		}
		a.SetStrafeSign(sign)
	}

	if IsDebugEnabled() {
		slog.Debug("behavior state changed",
			"agent", a.ObjectID(),
			"from", old,
			"to", state)
	}
}

// CurrentState returns the current behavior state.
func (ai *BehaviorAI) CurrentState() model.BehaviorState {
	return ai.agent.State()
}

// Tick runs perception, then the decision step when due, then the
// watchdog, and finally acts on the resulting state in the same tick.
// Dying and dead agents are skipped entirely.
func (ai *BehaviorAI) Tick(now time.Time) {
	if !ai.isRunning.Load() {
		return
	}
	a := ai.agent
	if !a.IsAlive() {
		return
	}

	if a.IsVictorious() {
		ai.celebrate(now)
		return
	}
	opp := ai.perceive()
	if a.IsVictorious() {
		ai.celebrate(now)
		return
	}

	live := opp != nil
	if ai.decisionDue(now, live) {
		ai.decide(now, opp)
	}
	ai.watchdog(now, live)
	ai.act(now, opp)
}

// OnBoundsContact is called when the arena clamped the agent at its edge.
// A synthetic target that pushed the agent into the wall is dropped and a
// fresh decision is forced on the next tick.
func (ai *BehaviorAI) OnBoundsContact() {
	a := ai.agent
	if !a.Target().IsSynthetic() {
		return
	}
	a.ClearTarget()
	a.SetLastDecision(time.Time{})

	if IsDebugEnabled() {
		slog.Debug("roaming target dropped at arena edge", "agent", a.ObjectID())
	}
}

// perceive resolves the weak opponent reference, latching victory when the
// opponent is dying or dead. Returns nil in roaming mode.
func (ai *BehaviorAI) perceive() *model.Agent {
	a := ai.agent

	if t := a.Target(); t.Kind() == model.TargetOpponent {
		opp, ok := ai.getAgent(t.OpponentID())
		if ok && opp.IsAlive() {
			return opp
		}
		a.ClearTarget()
		if ok {
			a.MarkVictorious()
			a.SetVelocity(model.Vec2{})
			slog.Info("opponent down, celebrating",
				"agent", a.ObjectID(),
				"opponent", opp.ObjectID())
			return nil
		}
	}

	if ai.findOpponent == nil {
		return nil
	}
	opp, ok := ai.findOpponent(a)
	if !ok {
		return nil
	}
	a.SetTarget(model.OpponentTarget(opp.ObjectID()))

	if IsDebugEnabled() {
		slog.Debug("opponent acquired",
			"agent", a.ObjectID(),
			"opponent", opp.ObjectID(),
			"distance", a.Position().Distance(opp.Position()))
	}
	return opp
}

func (ai *BehaviorAI) decisionDue(now time.Time, live bool) bool {
	interval := ai.set.Behavior.DecisionInterval
	if live && ai.set.Aggressive {
		interval = ai.set.Behavior.AggressiveDecisionInterval
	}
	last := ai.agent.LastDecision()
	return last.IsZero() || now.Sub(last) >= interval
}

func (ai *BehaviorAI) decide(now time.Time, opp *model.Agent) {
	a := ai.agent
	cfg := ai.set.Behavior
	a.SetLastDecision(now)

	if opp != nil {
		dist := a.Position().Distance(opp.Position())
		next := model.StateStrafe
		switch {
		case dist < cfg.NearRange:
			next = model.StateEvade
		case dist > cfg.FarRange:
			next = model.StateApproach
		}
		if model.Chance(ai.rng, cfg.HoldAndShootChance) {
			next = model.StateShoot
		}
		ai.SetState(next, now)
		return
	}

	next := ai.pick(cfg.RoamWeights)
	ai.SetState(next, now)
	if next != model.StateIdle && (a.Target().IsNone() || model.Chance(ai.rng, cfg.NewRoamPointChance)) {
		ai.newRoamPoint()
	}
}

func (ai *BehaviorAI) watchdog(now time.Time, live bool) {
	a := ai.agent
	cfg := ai.set.Behavior
	state := a.State()
	since := now.Sub(a.StateSince())

	switch {
	case state == model.StateIdle && since > cfg.IdleStall:
		ai.SetState(ai.pickMovement(model.StateIdle), now)
		if !live {
			ai.newRoamPoint()
		}

	case state.IsMovement() && since > cfg.MoveStall:
		if model.Chance(ai.rng, cfg.SettleChance) {
			ai.SetState(model.StateIdle, now)
			if !live {
				a.ClearTarget()
			}
		} else {
			ai.SetState(ai.pickMovement(state), now)
			if !live {
				ai.newRoamPoint()
			}
		}

	default:
		return
	}

	a.SetLastDecision(now)
	if IsDebugEnabled() {
		slog.Debug("watchdog fired",
			"agent", a.ObjectID(),
			"stalled", state,
			"after", since,
			"now", a.State())
	}
}

func (ai *BehaviorAI) act(now time.Time, opp *model.Agent) {
	a := ai.agent
	if a.IsTeleporting() {
		a.SetVelocity(model.Vec2{})
		return
	}

	target, live, ok := ai.targetPoint(opp)
	if !ok && a.State() != model.StateIdle {
		ai.newRoamPoint()
		target, live, ok = ai.targetPoint(opp)
	}

	var m Motion
	if ok {
		m = ai.loco.Step(a, target, live)
	}
	if m.Arrived {
		ai.SetState(model.StateIdle, now)
		a.ClearTarget()
		ok = false
	}

	a.SetVelocity(m.Velocity)
	ai.face(now, m.Face)
	if a.State() == model.StateIdle {
		ai.shuffleFacing(now, ai.set.Behavior.IdleFacingInterval)
	}

	ai.fight(now, opp, target, ok)
}

func (ai *BehaviorAI) fight(now time.Time, opp *model.Agent, target model.Vec2, hasTarget bool) {
	a := ai.agent
	cfg := ai.set.Behavior
	shootState := a.State() == model.StateShoot

	switch {
	case opp != nil:
		aim := opp.Position().Sub(a.Position())
		if aim.Len() <= cfg.ShootRange {
			ai.shooter.TryShoot(now, aim, shootState)
		}
	case shootState && hasTarget:
		ai.shooter.TryShoot(now, target.Sub(a.Position()), true)
	}

	if !shootState && a.Ammo() <= cfg.LowAmmo {
		ai.shooter.Reload()
	}
}

// celebrate holds position and cycles facing until the agent is despawned.
func (ai *BehaviorAI) celebrate(now time.Time) {
	a := ai.agent
	a.SetVelocity(model.Vec2{})
	ai.SetState(model.StateIdle, now)

	if now.Sub(a.LastDirectionChange()) >= ai.set.Behavior.CelebrationInterval {
		a.SetDirection(ai.otherDirection(a.Direction()), now)
	}
}

func (ai *BehaviorAI) face(now time.Time, v model.Vec2) {
	if v.IsZero() {
		return
	}
	if dir, ok := model.ClassifyDirection(v, ai.set.DeadZone); ok {
		ai.agent.SetDirection(dir, now)
	}
}

func (ai *BehaviorAI) shuffleFacing(now time.Time, every time.Duration) {
	a := ai.agent
	if every <= 0 || now.Sub(a.LastDirectionChange()) < every {
		return
	}
	a.SetDirection(ai.otherDirection(a.Direction()), now)
}

// otherDirection draws a random direction different from cur.
func (ai *BehaviorAI) otherDirection(cur model.Direction) model.Direction {
	idx := 0
	for i, d := range model.Directions {
		if d == cur {
			idx = i
			break
		}
	}
	n := len(model.Directions)
	return model.Directions[(idx+1+ai.rng.IntN(n-1))%n]
}

func (ai *BehaviorAI) targetPoint(opp *model.Agent) (model.Vec2, bool, bool) {
	if opp != nil {
		return opp.Position(), true, true
	}
	if t := ai.agent.Target(); t.IsSynthetic() {
		return t.Point(), false, true
	}
	return model.Vec2{}, false, false
}

func (ai *BehaviorAI) newRoamPoint() {
	p := ai.set.Bounds.RandomPoint(ai.rng, ai.set.Behavior.RoamMargin)
	ai.agent.SetTarget(model.PointTarget(p))
}

// pick draws a state from the roaming weights.
func (ai *BehaviorAI) pick(w config.RoamWeights, exclude ...model.BehaviorState) model.BehaviorState {
	choices := [...]struct {
		state  model.BehaviorState
		weight float64
	}{
		{model.StateApproach, w.Approach},
		{model.StateStrafe, w.Strafe},
		{model.StateShoot, w.Shoot},
		{model.StateIdle, w.Idle},
		{model.StateEvade, w.Evade},
	}

	skip := func(s model.BehaviorState) bool {
		for _, e := range exclude {
			if e == s {
				return true
			}
		}
		return false
	}

	var total float64
	for _, c := range choices {
		if !skip(c.state) && c.weight > 0 {
			total += c.weight
		}
	}
	if total <= 0 {
		return model.StateApproach
	}

	r := ai.rng.Float64() * total
	last := model.StateApproach
	for _, c := range choices {
		if skip(c.state) || c.weight <= 0 {
			continue
		}
		if r < c.weight {
			return c.state
		}
		r -= c.weight
		last = c.state
	}
	return last
}

// pickMovement draws a movement state other than cur.
func (ai *BehaviorAI) pickMovement(cur model.BehaviorState) model.BehaviorState {
	return ai.pick(ai.set.Behavior.RoamWeights, cur, model.StateIdle, model.StateShoot)
}
