package combat

import (
	"log/slog"
	"math"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

// ProjectileSpawner creates projectiles in the arena.
// Injected to avoid an import cycle with the world package.
type ProjectileSpawner interface {
	SpawnProjectile(owner *model.Agent, origin, velocity model.Vec2, damage int32, lifetime time.Duration)
}

// ShotExtension attaches archetype-specific side effects to a fired shot.
type ShotExtension interface {
	OnShot(a *model.Agent, now time.Time, aim model.Vec2)
}

// WeaponConfig holds tuning shared by every weapon in the arena.
type WeaponConfig struct {
	// MaxSpread is the widest angular error (radians) at accuracy 0.
	MaxSpread float64
	// MuzzleOffset is how far in front of the agent projectiles appear.
	MuzzleOffset float64
	// Aggressive enables the global aggressive tuning.
	Aggressive bool
	// AggressiveAccuracyBoost multiplies accuracy while Aggressive is on.
	AggressiveAccuracyBoost float64
	// ShootStateChance is the independent second trial used in the Shoot state.
	ShootStateChance float64
}

// DefaultWeaponConfig returns WeaponConfig with sensible defaults.
func DefaultWeaponConfig() WeaponConfig {
	return WeaponConfig{
		MaxSpread:               0.35,
		MuzzleOffset:            12,
		AggressiveAccuracyBoost: 1.25,
		ShootStateChance:        0.7,
	}
}

// Weapon manages ammunition, reload timing, fire-rate gating and spread
// for one agent. Ammo counters live on the agent record.
type Weapon struct {
	agent      *model.Agent
	cfg        WeaponConfig
	rng        model.Rand
	timers     *schedule.Group
	spawner    ProjectileSpawner
	extensions []ShotExtension
}

// NewWeapon creates a weapon controller for agent.
// timers must be the agent's scheduler group so reloads die with the agent.
func NewWeapon(agent *model.Agent, cfg WeaponConfig, rng model.Rand, timers *schedule.Group, spawner ProjectileSpawner) *Weapon {
	return &Weapon{
		agent:   agent,
		cfg:     cfg,
		rng:     rng,
		timers:  timers,
		spawner: spawner,
	}
}

// AddExtension registers a shot extension.
func (w *Weapon) AddExtension(ext ShotExtension) {
	w.extensions = append(w.extensions, ext)
}

// Accuracy returns effective accuracy including aggressive tuning.
func (w *Weapon) Accuracy() float64 {
	acc := w.agent.Archetype().Accuracy
	if w.cfg.Aggressive {
		acc *= w.cfg.AggressiveAccuracyBoost
	}
	return math.Min(math.Max(acc, 0), 1)
}

// Ready reports whether the trigger can be pulled at now.
func (w *Weapon) Ready(now time.Time) bool {
	a := w.agent
	if a.IsReloading() || a.Ammo() <= 0 {
		return false
	}
	last := a.LastShot()
	return last.IsZero() || now.Sub(last) >= a.Archetype().FireInterval
}

// TryShoot pulls the trigger if the weapon is ready and the accuracy trial
// succeeds. In the Shoot behavior state a second independent trial at
// ShootStateChance is OR-ed in. A failed trial still uses up the fire slot.
// Returns true if a projectile was fired.
func (w *Weapon) TryShoot(now time.Time, aim model.Vec2, shootState bool) bool {
	if aim.IsZero() || !w.Ready(now) {
		return false
	}

	hit := model.Chance(w.rng, w.Accuracy())
	if shootState && model.Chance(w.rng, w.cfg.ShootStateChance) {
		hit = true
	}
	if !hit {
		w.agent.SetLastShot(now)
		return false
	}
	return w.Shoot(now, aim)
}

// Shoot fires one projectile along aim with random spread.
// Returns false when the weapon cannot fire or aim is zero.
func (w *Weapon) Shoot(now time.Time, aim model.Vec2) bool {
	a := w.agent
	if aim.IsZero() || a.IsReloading() || a.Ammo() <= 0 {
		return false
	}

	dir := aim.Normalize()
	spread := w.cfg.MaxSpread * (1 - w.Accuracy())
	angle := dir.Angle() + model.Between(w.rng, -spread, spread)
	dir = model.FromAngle(angle, 1)

	arch := a.Archetype()
	origin := a.Position().Add(dir.Scale(w.cfg.MuzzleOffset))
	if w.spawner != nil {
		w.spawner.SpawnProjectile(a, origin, dir.Scale(arch.ProjectileSpeed), arch.ProjectileDamage, arch.ProjectileLifetime)
	}

	a.SetAmmo(a.Ammo() - 1)
	a.SetLastShot(now)

	for _, ext := range w.extensions {
		ext.OnShot(a, now, aim)
	}

	if a.Ammo() == 0 && a.Magazines() > 0 {
		w.Reload()
	}
	return true
}

// Reload starts a reload. No-op when already reloading, out of spare
// magazines, or the magazine is full. The weapon cannot fire until the
// reload completes. Returns true if a reload was started.
func (w *Weapon) Reload() bool {
	a := w.agent
	arch := a.Archetype()
	if a.IsReloading() || a.Magazines() <= 0 || a.Ammo() >= arch.MagazineSize {
		return false
	}

	a.SetReloading(true)
	w.timers.After(arch.ReloadDuration, func() {
		a.SetAmmo(arch.MagazineSize)
		a.SetMagazines(a.Magazines() - 1)
		a.SetReloading(false)

		slog.Debug("reload complete",
			"agent", a.ObjectID(),
			"ammo", a.Ammo(),
			"magazines", a.Magazines())
	})

	slog.Debug("reload started",
		"agent", a.ObjectID(),
		"duration", arch.ReloadDuration,
		"magazines", a.Magazines())
	return true
}
