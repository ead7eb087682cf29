package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultArena_Valid(t *testing.T) {
	cfg := DefaultArena()
	require.NoError(t, cfg.Validate())

	for _, s := range cfg.Spawns {
		_, ok := cfg.Archetype(s.Archetype)
		assert.True(t, ok, "default spawn %q has an archetype", s.Archetype)
	}

	guardian, ok := cfg.Archetype("guardian")
	require.True(t, ok)
	assert.True(t, guardian.Model().HasShield())

	phantom, ok := cfg.Archetype("phantom")
	require.True(t, ok)
	require.NotNil(t, phantom.Model().Teleport)
	assert.Equal(t, 3*time.Second, phantom.Model().Teleport.Cooldown)
}

func TestLoadArena_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadArena(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultArena(), cfg)
}

func TestLoadArena_Overrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
tick_rate: 60
seed: 42
aggressive: true
behavior:
  decision_interval: 1s
  idle_stall: 500ms
lifecycle:
  respawn_delay: 3s
resources:
  guardian_move_side: "H"
spawns:
  - archetype: phantom
    faction: green
    x: 10
    y: 20
`)

	cfg, err := LoadArena(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.Aggressive)
	assert.Equal(t, time.Second, cfg.Behavior.DecisionInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Behavior.IdleStall)
	assert.Equal(t, DefaultBehavior().FarRange, cfg.Behavior.FarRange, "unset fields keep defaults")
	assert.Equal(t, 3*time.Second, cfg.Lifecycle.RespawnDelay)

	assert.Equal(t, "H", cfg.Resources["guardian_move_side"])
	assert.Equal(t, "g", cfg.Resources["grunt_idle_down"], "resources merge over defaults")

	require.Len(t, cfg.Spawns, 1)
	assert.Equal(t, SpawnConfig{Archetype: "phantom", Faction: "green", X: 10, Y: 20}, cfg.Spawns[0])
}

func TestLoadArena_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "tick_rate: [1, 2"},
		{"bad duration", "behavior:\n  decision_interval: soon\n"},
		{"invalid values", "tick_rate: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadArena(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestArena_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Arena)
		wantMsg string
	}{
		{"tick rate", func(c *Arena) { c.TickRate = -1 }, "tick_rate"},
		{"empty bounds", func(c *Arena) { c.Bounds.MaxX = c.Bounds.MinX }, "bounds are empty"},
		{"decision interval", func(c *Arena) { c.Behavior.DecisionInterval = 0 }, "decision_interval"},
		{"range order", func(c *Arena) { c.Behavior.NearRange = c.Behavior.FarRange }, "near_range"},
		{"zero weights", func(c *Arena) { c.Behavior.RoamWeights = RoamWeights{} }, "roam_weights"},
		{"liveliness cap", func(c *Arena) { c.Animation.LivelinessChance = 0.5 }, "liveliness_chance"},
		{"respawn delay", func(c *Arena) { c.Lifecycle.RespawnDelay = -time.Second }, "respawn_delay"},
		{"nameless archetype", func(c *Arena) { c.Archetypes[0].Name = "" }, "without name"},
		{"duplicate archetype", func(c *Arena) { c.Archetypes[1].Name = c.Archetypes[0].Name }, "duplicate archetype"},
		{"health", func(c *Arena) { c.Archetypes[0].MaxHealth = 0 }, "max_health"},
		{"magazine", func(c *Arena) { c.Archetypes[0].MagazineSize = 0 }, "magazine_size"},
		{"spawn archetype", func(c *Arena) { c.Spawns[0].Archetype = "dragon" }, "unknown archetype"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultArena()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "arena", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/arena?sslmode=disable", d.DSN())
}

func TestLoadArena_ShippedConfig(t *testing.T) {
	cfg, err := LoadArena(filepath.Join("..", "..", "config", "arena.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Spawns, 3)
	assert.Equal(t, DefaultArena().Archetypes, cfg.Archetypes)
	assert.False(t, cfg.RecordMatches)
}
