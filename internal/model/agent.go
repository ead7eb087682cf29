package model

import "time"

// Agent is the state record of one autonomous combat entity.
//
// All behavior flags live here instead of being scattered over the
// controllers. The record is owned by a single simulation goroutine;
// collaborators outside the subsystem only read Position and deliver
// hits through the lifecycle handle.
type Agent struct {
	objectID  uint32
	faction   string
	archetype *Archetype

	position  Vec2
	velocity  Vec2
	direction Direction
	state     BehaviorState
	target    Target

	health int32
	shield int32

	ammo      int32
	magazines int32
	reloading bool

	lastDecision        time.Time
	lastShot            time.Time
	lastDirectionChange time.Time
	stateSince          time.Time
	damageCooldownUntil time.Time
	lastTeleport        time.Time

	teleporting bool
	strafeSign  float64
	victorious  bool

	dying bool
	dead  bool
}

// NewAgent creates an agent with pools initialized to archetype defaults.
func NewAgent(objectID uint32, archetype *Archetype, faction string, pos Vec2, now time.Time) *Agent {
	return &Agent{
		objectID:   objectID,
		faction:    faction,
		archetype:  archetype,
		position:   pos,
		direction:  DirectionDown,
		state:      StateIdle,
		health:     archetype.MaxHealth,
		shield:     archetype.MaxShield,
		ammo:       archetype.MagazineSize,
		magazines:  archetype.Magazines,
		stateSince: now,
		strafeSign: 1,

		lastDirectionChange: now,
	}
}

// ObjectID returns the unique agent ID (immutable).
func (a *Agent) ObjectID() uint32 { return a.objectID }

// Faction returns the agent's faction tag.
func (a *Agent) Faction() string { return a.faction }

// Archetype returns the agent's profile.
func (a *Agent) Archetype() *Archetype { return a.archetype }

// Position returns the current position.
func (a *Agent) Position() Vec2 { return a.position }

// SetPosition moves the agent.
func (a *Agent) SetPosition(p Vec2) { a.position = p }

// Velocity returns the current velocity.
func (a *Agent) Velocity() Vec2 { return a.velocity }

// SetVelocity sets the current velocity.
func (a *Agent) SetVelocity(v Vec2) { a.velocity = v }

// Direction returns the presentation direction.
func (a *Agent) Direction() Direction { return a.direction }

// SetDirection updates facing and records when it last changed.
func (a *Agent) SetDirection(d Direction, now time.Time) {
	if d != a.direction {
		a.direction = d
		a.lastDirectionChange = now
	}
}

// LastDirectionChange returns when facing last changed.
func (a *Agent) LastDirectionChange() time.Time { return a.lastDirectionChange }

// State returns the current behavior state.
func (a *Agent) State() BehaviorState { return a.state }

// SetState switches behavior state. Re-entering the same state keeps StateSince.
func (a *Agent) SetState(s BehaviorState, now time.Time) {
	if s != a.state {
		a.state = s
		a.stateSince = now
	}
}

// StateSince returns when the current state was entered.
func (a *Agent) StateSince() time.Time { return a.stateSince }

// Target returns the current target.
func (a *Agent) Target() Target { return a.target }

// SetTarget replaces the current target.
func (a *Agent) SetTarget(t Target) { a.target = t }

// ClearTarget drops the current target.
func (a *Agent) ClearTarget() { a.target = Target{} }

// Health returns current health.
func (a *Agent) Health() int32 { return a.health }

// SetHealth sets health clamped to 0..MaxHealth.
func (a *Agent) SetHealth(h int32) { a.health = clamp32(h, 0, a.archetype.MaxHealth) }

// Shield returns current shield.
func (a *Agent) Shield() int32 { return a.shield }

// SetShield sets shield clamped to 0..MaxShield.
func (a *Agent) SetShield(s int32) { a.shield = clamp32(s, 0, a.archetype.MaxShield) }

// Ammo returns rounds left in the magazine.
func (a *Agent) Ammo() int32 { return a.ammo }

// SetAmmo sets rounds in the magazine clamped to 0..MagazineSize.
func (a *Agent) SetAmmo(n int32) { a.ammo = clamp32(n, 0, a.archetype.MagazineSize) }

// Magazines returns spare magazines.
func (a *Agent) Magazines() int32 { return a.magazines }

// SetMagazines sets spare magazines (never negative).
func (a *Agent) SetMagazines(n int32) {
	if n < 0 {
		n = 0
	}
	a.magazines = n
}

// IsReloading reports whether a reload is in progress.
func (a *Agent) IsReloading() bool { return a.reloading }

// SetReloading sets the reload flag.
func (a *Agent) SetReloading(v bool) { a.reloading = v }

// LastDecision returns when the behavior machine last re-decided.
func (a *Agent) LastDecision() time.Time { return a.lastDecision }

// SetLastDecision records a re-decision.
func (a *Agent) SetLastDecision(t time.Time) { a.lastDecision = t }

// LastShot returns when the trigger was last pulled.
func (a *Agent) LastShot() time.Time { return a.lastShot }

// SetLastShot records a trigger pull.
func (a *Agent) SetLastShot(t time.Time) { a.lastShot = t }

// DamageCooldownUntil returns the end of the current hit cooldown window.
func (a *Agent) DamageCooldownUntil() time.Time { return a.damageCooldownUntil }

// SetDamageCooldownUntil opens a hit cooldown window.
func (a *Agent) SetDamageCooldownUntil(t time.Time) { a.damageCooldownUntil = t }

// RecentlyDamaged reports whether now falls inside the hit cooldown window.
func (a *Agent) RecentlyDamaged(now time.Time) bool {
	return now.Before(a.damageCooldownUntil)
}

// IsTeleporting reports whether a teleport maneuver is in flight.
func (a *Agent) IsTeleporting() bool { return a.teleporting }

// SetTeleporting sets the in-flight flag; starting a maneuver stamps LastTeleport.
func (a *Agent) SetTeleporting(v bool, now time.Time) {
	a.teleporting = v
	if v {
		a.lastTeleport = now
	}
}

// LastTeleport returns when the last teleport started.
func (a *Agent) LastTeleport() time.Time { return a.lastTeleport }

// StrafeSign returns the orbit direction of the current strafe episode (+1 or -1).
func (a *Agent) StrafeSign() float64 { return a.strafeSign }

// SetStrafeSign fixes the orbit direction for a strafe episode.
func (a *Agent) SetStrafeSign(sign float64) {
	if sign < 0 {
		a.strafeSign = -1
		return
	}
	a.strafeSign = 1
}

// IsVictorious reports whether the agent outlived its opponent.
func (a *Agent) IsVictorious() bool { return a.victorious }

// MarkVictorious latches celebration mode.
func (a *Agent) MarkVictorious() { a.victorious = true }

// ResetVictory starts a new episode for a victorious agent.
func (a *Agent) ResetVictory() { a.victorious = false }

// IsDying reports whether the death sequence is running.
func (a *Agent) IsDying() bool { return a.dying }

// IsDead reports whether the death sequence has finished.
func (a *Agent) IsDead() bool { return a.dead }

// IsAlive reports whether the agent still takes part in combat.
func (a *Agent) IsAlive() bool { return !a.dying && !a.dead }

// MarkDying moves the agent into the dying phase.
// Returns false if it was already dying or dead.
func (a *Agent) MarkDying() bool {
	if a.dying || a.dead {
		return false
	}
	a.dying = true
	a.velocity = Vec2{}
	return true
}

// MarkDead finishes the lifecycle.
func (a *Agent) MarkDead() {
	a.dying = false
	a.dead = true
	a.velocity = Vec2{}
}

func clamp32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
