package model

import "time"

// TeleportSpec tunes the blink-behind-target maneuver some archetypes
// attach to a successful shot.
type TeleportSpec struct {
	Chance   float64       // probability per successful shot
	Cooldown time.Duration // minimum time between maneuvers
	Duration time.Duration // time spent in flight before reappearing
	Distance float64       // how far behind the target to reappear
}

// Archetype is a named visual/behavioral profile. Immutable after load.
type Archetype struct {
	Name string

	MaxHealth int32
	MaxShield int32
	MoveSpeed float64 // units per second
	Radius    float64 // contact radius

	MagazineSize   int32
	Magazines      int32 // spare magazines at spawn
	FireInterval   time.Duration
	ReloadDuration time.Duration
	Accuracy       float64 // 0..1

	ProjectileSpeed    float64
	ProjectileDamage   int32
	ProjectileLifetime time.Duration

	// Teleport is nil for archetypes without the maneuver.
	Teleport *TeleportSpec

	// DeathFrames are resource keys shown in order during the death timeline.
	DeathFrames        []string
	DeathFrameDuration time.Duration

	ShadowCasters int
}

// HasShield reports whether agents of this archetype spawn with a shield.
func (a *Archetype) HasShield() bool {
	return a.MaxShield > 0
}
