package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bonkgamesio/bonkgames-sub000/internal/anim"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// Bounds is the playable rectangle in world units, y grows downward.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// RoamWeights are the relative weights of each state while roaming.
type RoamWeights struct {
	Approach float64 `yaml:"approach"`
	Strafe   float64 `yaml:"strafe"`
	Shoot    float64 `yaml:"shoot"`
	Idle     float64 `yaml:"idle"`
	Evade    float64 `yaml:"evade"`
}

// Total returns the sum of all weights.
func (w RoamWeights) Total() float64 {
	return w.Approach + w.Strafe + w.Shoot + w.Idle + w.Evade
}

// Behavior tunes the decision loop and locomotion.
type Behavior struct {
	DecisionInterval           time.Duration `yaml:"decision_interval"`
	AggressiveDecisionInterval time.Duration `yaml:"aggressive_decision_interval"`

	NearRange  float64 `yaml:"near_range"`
	FarRange   float64 `yaml:"far_range"`
	ShootRange float64 `yaml:"shoot_range"`

	HoldAndShootChance float64 `yaml:"hold_and_shoot_chance"`
	LowAmmo            int32   `yaml:"low_ammo"`

	// Watchdog
	IdleStall    time.Duration `yaml:"idle_stall"`
	MoveStall    time.Duration `yaml:"move_stall"`
	SettleChance float64       `yaml:"settle_chance"`

	IdleFacingInterval  time.Duration `yaml:"idle_facing_interval"`
	CelebrationInterval time.Duration `yaml:"celebration_interval"`

	// Roaming
	RoamWeights        RoamWeights `yaml:"roam_weights"`
	NewRoamPointChance float64     `yaml:"new_roam_point_chance"`
	RoamMargin         float64     `yaml:"roam_margin"`

	// Locomotion
	ArrivalRadius  float64 `yaml:"arrival_radius"`
	EvadeFarRadius float64 `yaml:"evade_far_radius"`
	Jitter         float64 `yaml:"jitter"` // radians
}

// DefaultBehavior returns Behavior with sensible defaults.
func DefaultBehavior() Behavior {
	return Behavior{
		DecisionInterval:           900 * time.Millisecond,
		AggressiveDecisionInterval: 400 * time.Millisecond,
		NearRange:                  90,
		FarRange:                   260,
		ShootRange:                 420,
		HoldAndShootChance:         0.2,
		LowAmmo:                    3,
		IdleStall:                  2500 * time.Millisecond,
		MoveStall:                  4 * time.Second,
		SettleChance:               0.4,
		IdleFacingInterval:         1500 * time.Millisecond,
		CelebrationInterval:        600 * time.Millisecond,
		RoamWeights: RoamWeights{
			Approach: 0.4,
			Strafe:   0.35,
			Shoot:    0.1,
			Idle:     0.1,
			Evade:    0.05,
		},
		NewRoamPointChance: 0.3,
		RoamMargin:         24,
		ArrivalRadius:      16,
		EvadeFarRadius:     320,
		Jitter:             0.15,
	}
}

// Weapon tunes shooting for every agent.
type Weapon struct {
	MaxSpread               float64 `yaml:"max_spread"`
	MuzzleOffset            float64 `yaml:"muzzle_offset"`
	AggressiveAccuracyBoost float64 `yaml:"aggressive_accuracy_boost"`
	ShootStateChance        float64 `yaml:"shoot_state_chance"`
}

// Animation tunes presentation.
type Animation struct {
	DeadZone         float64 `yaml:"dead_zone"`
	LivelinessChance float64 `yaml:"liveliness_chance"`
}

// Lifecycle tunes damage intake and the death sequence.
type Lifecycle struct {
	HitCooldown    time.Duration `yaml:"hit_cooldown"`
	FreezeDuration time.Duration `yaml:"freeze_duration"`
	FlashDuration  time.Duration `yaml:"flash_duration"`
	FadeDuration   time.Duration `yaml:"fade_duration"`
	BannerDuration time.Duration `yaml:"banner_duration"`
	// RespawnDelay brings a dead agent back with the same archetype and
	// faction after the delay. Zero disables respawning.
	RespawnDelay time.Duration `yaml:"respawn_delay"`
}

// TeleportConfig is the YAML form of model.TeleportSpec.
type TeleportConfig struct {
	Chance   float64       `yaml:"chance"`
	Cooldown time.Duration `yaml:"cooldown"`
	Duration time.Duration `yaml:"duration"`
	Distance float64       `yaml:"distance"`
}

// ArchetypeConfig is the YAML form of model.Archetype.
type ArchetypeConfig struct {
	Name               string          `yaml:"name"`
	MaxHealth          int32           `yaml:"max_health"`
	MaxShield          int32           `yaml:"max_shield"`
	MoveSpeed          float64         `yaml:"move_speed"`
	Radius             float64         `yaml:"radius"`
	MagazineSize       int32           `yaml:"magazine_size"`
	Magazines          int32           `yaml:"magazines"`
	FireInterval       time.Duration   `yaml:"fire_interval"`
	ReloadDuration     time.Duration   `yaml:"reload_duration"`
	Accuracy           float64         `yaml:"accuracy"`
	ProjectileSpeed    float64         `yaml:"projectile_speed"`
	ProjectileDamage   int32           `yaml:"projectile_damage"`
	ProjectileLifetime time.Duration   `yaml:"projectile_lifetime"`
	Teleport           *TeleportConfig `yaml:"teleport,omitempty"`
	DeathFrames        []string        `yaml:"death_frames"`
	DeathFrameDuration time.Duration   `yaml:"death_frame_duration"`
	ShadowCasters      int             `yaml:"shadow_casters"`
}

// Model converts the config entry into a model.Archetype.
func (c ArchetypeConfig) Model() *model.Archetype {
	a := &model.Archetype{
		Name:               c.Name,
		MaxHealth:          c.MaxHealth,
		MaxShield:          c.MaxShield,
		MoveSpeed:          c.MoveSpeed,
		Radius:             c.Radius,
		MagazineSize:       c.MagazineSize,
		Magazines:          c.Magazines,
		FireInterval:       c.FireInterval,
		ReloadDuration:     c.ReloadDuration,
		Accuracy:           c.Accuracy,
		ProjectileSpeed:    c.ProjectileSpeed,
		ProjectileDamage:   c.ProjectileDamage,
		ProjectileLifetime: c.ProjectileLifetime,
		DeathFrames:        append([]string(nil), c.DeathFrames...),
		DeathFrameDuration: c.DeathFrameDuration,
		ShadowCasters:      c.ShadowCasters,
	}
	if c.Teleport != nil {
		a.Teleport = &model.TeleportSpec{
			Chance:   c.Teleport.Chance,
			Cooldown: c.Teleport.Cooldown,
			Duration: c.Teleport.Duration,
			Distance: c.Teleport.Distance,
		}
	}
	return a
}

// SpawnConfig places one agent at startup.
type SpawnConfig struct {
	Archetype string  `yaml:"archetype"`
	Faction   string  `yaml:"faction"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

// Arena holds all configuration for the arena simulation.
type Arena struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	TickRate     int    `yaml:"tick_rate"` // ticks per second
	Seed         uint64 `yaml:"seed"`      // 0 = random
	Aggressive   bool   `yaml:"aggressive"`
	DebugOverlay bool   `yaml:"debug_overlay"`
	Bounds       Bounds `yaml:"bounds"`

	Behavior  Behavior  `yaml:"behavior"`
	Weapon    Weapon    `yaml:"weapon"`
	Animation Animation `yaml:"animation"`
	Lifecycle Lifecycle `yaml:"lifecycle"`

	Archetypes []ArchetypeConfig `yaml:"archetypes"`
	Spawns     []SpawnConfig     `yaml:"spawns"`

	// Resources maps playable resource keys to the glyph drawn by the
	// terminal sandbox. A key absent here does not exist. Entries from the
	// file are merged over the defaults.
	Resources map[string]string `yaml:"resources"`

	// Match recording
	RecordMatches bool           `yaml:"record_matches"`
	EventBuffer   int            `yaml:"event_buffer"`
	Database      DatabaseConfig `yaml:"database"`
}

// DefaultArena returns Arena config with sensible defaults.
func DefaultArena() Arena {
	return Arena{
		LogLevel: "info",
		TickRate: 30,
		Bounds:   Bounds{MinX: 0, MinY: 0, MaxX: 800, MaxY: 480},
		Behavior: DefaultBehavior(),
		Weapon: Weapon{
			MaxSpread:               0.35,
			MuzzleOffset:            12,
			AggressiveAccuracyBoost: 1.25,
			ShootStateChance:        0.7,
		},
		Animation: Animation{
			DeadZone:         4,
			LivelinessChance: 0.03,
		},
		Lifecycle: Lifecycle{
			HitCooldown:    120 * time.Millisecond,
			FreezeDuration: 150 * time.Millisecond,
			FlashDuration:  80 * time.Millisecond,
			FadeDuration:   400 * time.Millisecond,
			BannerDuration: 2 * time.Second,
		},
		Archetypes: defaultArchetypes(),
		Spawns: []SpawnConfig{
			{Archetype: "grunt", Faction: "red", X: 160, Y: 240},
			{Archetype: "guardian", Faction: "blue", X: 640, Y: 240},
		},
		Resources:   defaultResources(),
		EventBuffer: 256,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "bonk",
			Password: "bonk",
			DBName:   "bonk_arena",
			SSLMode:  "disable",
		},
	}
}

func defaultArchetypes() []ArchetypeConfig {
	return []ArchetypeConfig{
		{
			Name:               "grunt",
			MaxHealth:          6,
			MoveSpeed:          110,
			Radius:             10,
			MagazineSize:       8,
			Magazines:          3,
			FireInterval:       350 * time.Millisecond,
			ReloadDuration:     1500 * time.Millisecond,
			Accuracy:           0.6,
			ProjectileSpeed:    380,
			ProjectileDamage:   1,
			ProjectileLifetime: 1500 * time.Millisecond,
			DeathFrames:        []string{"grunt_death_1", "grunt_death_2", "grunt_death_3"},
			DeathFrameDuration: 120 * time.Millisecond,
			ShadowCasters:      1,
		},
		{
			Name:               "guardian",
			MaxHealth:          4,
			MaxShield:          3,
			MoveSpeed:          90,
			Radius:             12,
			MagazineSize:       12,
			Magazines:          2,
			FireInterval:       500 * time.Millisecond,
			ReloadDuration:     2 * time.Second,
			Accuracy:           0.5,
			ProjectileSpeed:    320,
			ProjectileDamage:   1,
			ProjectileLifetime: 2 * time.Second,
			DeathFrames:        []string{"guardian_death_1", "guardian_death_2"},
			DeathFrameDuration: 150 * time.Millisecond,
			ShadowCasters:      2,
		},
		{
			Name:               "phantom",
			MaxHealth:          3,
			MaxShield:          1,
			MoveSpeed:          140,
			Radius:             9,
			MagazineSize:       6,
			Magazines:          4,
			FireInterval:       300 * time.Millisecond,
			ReloadDuration:     1200 * time.Millisecond,
			Accuracy:           0.7,
			ProjectileSpeed:    420,
			ProjectileDamage:   1,
			ProjectileLifetime: 1200 * time.Millisecond,
			Teleport: &TeleportConfig{
				Chance:   0.25,
				Cooldown: 3 * time.Second,
				Duration: 250 * time.Millisecond,
				Distance: 60,
			},
			DeathFrames:        []string{"phantom_death_1", "phantom_death_2"},
			DeathFrameDuration: 100 * time.Millisecond,
			ShadowCasters:      1,
		},
	}
}

// defaultResources leaves gaps on purpose so the fallback chain has work to do.
func defaultResources() map[string]string {
	return map[string]string{
		"grunt_idle_down":     "g",
		"grunt_idle_side":     "g",
		"grunt_move_down":     "G",
		"grunt_move_side":     "G",
		"grunt_move_up":       "G",
		"grunt_death_1":       "x",
		"grunt_death_2":       "+",
		"grunt_death_3":       ".",
		"guardian_idle_down":  "h",
		"guardian_move_down":  "H",
		"guardian_death_1":    "X",
		"guardian_death_2":    ".",
		"phantom_placeholder": "p",
		"phantom_death_1":     "*",
		"phantom_death_2":     ".",
	}
}

// Archetype returns the archetype config with the given name.
func (c Arena) Archetype(name string) (ArchetypeConfig, bool) {
	for _, a := range c.Archetypes {
		if a.Name == name {
			return a, true
		}
	}
	return ArchetypeConfig{}, false
}

// Validate checks the config for values the simulation cannot run with.
func (c Arena) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.Bounds.MaxX <= c.Bounds.MinX || c.Bounds.MaxY <= c.Bounds.MinY {
		errs = append(errs, fmt.Errorf("bounds are empty: %+v", c.Bounds))
	}
	if c.Behavior.DecisionInterval <= 0 {
		errs = append(errs, errors.New("behavior.decision_interval must be positive"))
	}
	if c.Behavior.NearRange >= c.Behavior.FarRange {
		errs = append(errs, fmt.Errorf("behavior.near_range %.1f must be below far_range %.1f",
			c.Behavior.NearRange, c.Behavior.FarRange))
	}
	if c.Behavior.RoamWeights.Total() <= 0 {
		errs = append(errs, errors.New("behavior.roam_weights must not all be zero"))
	}
	if c.Animation.LivelinessChance < 0 || c.Animation.LivelinessChance > anim.MaxLivelinessChance {
		errs = append(errs, fmt.Errorf("animation.liveliness_chance must be within [0, %.2f]",
			anim.MaxLivelinessChance))
	}
	if c.Lifecycle.RespawnDelay < 0 {
		errs = append(errs, errors.New("lifecycle.respawn_delay must not be negative"))
	}

	seen := make(map[string]bool, len(c.Archetypes))
	for _, a := range c.Archetypes {
		switch {
		case a.Name == "":
			errs = append(errs, errors.New("archetype without name"))
		case seen[a.Name]:
			errs = append(errs, fmt.Errorf("duplicate archetype %q", a.Name))
		case a.MaxHealth <= 0:
			errs = append(errs, fmt.Errorf("archetype %q: max_health must be positive", a.Name))
		case a.MagazineSize <= 0:
			errs = append(errs, fmt.Errorf("archetype %q: magazine_size must be positive", a.Name))
		}
		seen[a.Name] = true
	}
	for i, s := range c.Spawns {
		if !seen[s.Archetype] {
			errs = append(errs, fmt.Errorf("spawn %d: unknown archetype %q", i, s.Archetype))
		}
	}

	return errors.Join(errs...)
}

// LoadArena loads arena config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadArena(path string) (Arena, error) {
	cfg := DefaultArena()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
