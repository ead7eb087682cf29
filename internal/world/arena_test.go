package world

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

var testEpoch = time.Unix(1_700_000_000, 0)

var testArch = &model.Archetype{
	Name:         "grunt",
	MaxHealth:    3,
	Radius:       10,
	MagazineSize: 5,
	MoveSpeed:    100,
}

type arenaFixture struct {
	arena *Arena
	clock *schedule.ManualClock
	hits  []hitRecord
	edges []uint32
}

type hitRecord struct {
	target     uint32
	projectile uint64
	damage     int32
}

func newArenaFixture(t *testing.T) *arenaFixture {
	t.Helper()
	f := &arenaFixture{clock: schedule.NewManualClock(testEpoch)}
	f.arena = NewArena(NewBounds(config.Bounds{MaxX: 400, MaxY: 300}), f.clock, 4)
	f.arena.SetHitFunc(func(a *model.Agent, p *model.Projectile) {
		f.hits = append(f.hits, hitRecord{target: a.ObjectID(), projectile: p.ID, damage: p.Damage})
	})
	f.arena.SetEdgeFunc(func(a *model.Agent) {
		f.edges = append(f.edges, a.ObjectID())
	})
	return f
}

func (f *arenaFixture) agent(id uint32, faction string, pos model.Vec2) *model.Agent {
	a := model.NewAgent(id, testArch, faction, pos, testEpoch)
	f.arena.AddAgent(a)
	return a
}

func (f *arenaFixture) step(dt time.Duration) {
	f.arena.Step(f.clock.Advance(dt), dt)
}

func TestBounds(t *testing.T) {
	b := NewBounds(config.Bounds{MinX: 10, MinY: 20, MaxX: 110, MaxY: 220})

	assert.True(t, b.Contains(model.Vec2{X: 10, Y: 20}), "edges are inside")
	assert.False(t, b.Contains(model.Vec2{X: 9, Y: 50}))
	assert.Equal(t, model.Vec2{X: 110, Y: 20}, b.Clamp(model.Vec2{X: 500, Y: -5}))
	assert.Equal(t, 100.0, b.Width())
	assert.Equal(t, 200.0, b.Height())

	collapsed := b.Inset(80)
	assert.Equal(t, 60.0, collapsed.Min.X, "over-inset collapses to the centre")
	assert.Equal(t, collapsed.Min.X, collapsed.Max.X)

	rng := rand.New(rand.NewPCG(1, 2))
	inner := b.Inset(5)
	for range 500 {
		p := b.RandomPoint(rng, 5)
		require.True(t, inner.Contains(p), "%+v", p)
	}
}

func TestArena_ProjectileHitsOpponentOnce(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 50, Y: 100})
	target := f.agent(2, "blue", model.Vec2{X: 100, Y: 100})

	f.arena.SpawnProjectile(shooter, model.Vec2{X: 62, Y: 100}, model.Vec2{X: 600}, 2, time.Second)
	require.Len(t, f.arena.Projectiles(), 1)

	for range 5 {
		f.step(16 * time.Millisecond)
	}

	require.Len(t, f.hits, 1)
	assert.Equal(t, target.ObjectID(), f.hits[0].target)
	assert.Equal(t, int32(2), f.hits[0].damage)
	assert.Empty(t, f.arena.Projectiles(), "spent projectile released")
	assert.Equal(t, 4, f.arena.pool.Free())
}

func TestArena_NoFriendlyOrSelfHits(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 50, Y: 100})
	f.agent(2, "red", model.Vec2{X: 70, Y: 100})

	f.arena.SpawnProjectile(shooter, shooter.Position(), model.Vec2{X: 600}, 1, time.Second)
	f.step(16 * time.Millisecond)
	f.step(16 * time.Millisecond)
	assert.Empty(t, f.hits)

	f.arena.SetFriendlyFire(true)
	f.step(16 * time.Millisecond)
	require.Len(t, f.hits, 1)
	assert.Equal(t, uint32(2), f.hits[0].target, "never the shooter itself")
}

func TestArena_OverlappingTargetsTakeOneHit(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 20, Y: 100})
	f.agent(2, "blue", model.Vec2{X: 100, Y: 100})
	f.agent(3, "blue", model.Vec2{X: 102, Y: 100})

	f.arena.SpawnProjectile(shooter, model.Vec2{X: 100, Y: 100}, model.Vec2{X: 1}, 1, time.Second)
	f.step(time.Millisecond)

	assert.Len(t, f.hits, 1)
}

func TestArena_HandleContactCorrectsSwappedRoles(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 20, Y: 100})
	target := f.agent(2, "blue", model.Vec2{X: 100, Y: 100})
	f.arena.SpawnProjectile(shooter, target.Position(), model.Vec2{X: 1}, 3, time.Second)
	p := f.arena.Projectiles()[0]

	hit := f.arena.HandleContact(Contact{A: AgentParticipant(target), B: ProjectileParticipant(p)})
	require.True(t, hit)
	require.Len(t, f.hits, 1)
	assert.Equal(t, target.ObjectID(), f.hits[0].target)
	assert.Equal(t, p.ID, f.hits[0].projectile)

	again := f.arena.HandleContact(Contact{A: ProjectileParticipant(p), B: AgentParticipant(target)})
	assert.False(t, again, "resolved projectile applies damage once")
	assert.Len(t, f.hits, 1)

	f.step(time.Millisecond)
	assert.Empty(t, f.arena.Projectiles())
}

func TestArena_HandleContactDropsMalformed(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 20, Y: 100})
	other := f.agent(2, "blue", model.Vec2{X: 40, Y: 100})
	f.arena.SpawnProjectile(shooter, model.Vec2{X: 30, Y: 100}, model.Vec2{X: 1}, 1, time.Second)
	f.arena.SpawnProjectile(shooter, model.Vec2{X: 30, Y: 100}, model.Vec2{X: 1}, 1, time.Second)
	p1, p2 := f.arena.Projectiles()[0], f.arena.Projectiles()[1]

	tests := []struct {
		name string
		c    Contact
	}{
		{"two projectiles", Contact{A: ProjectileParticipant(p1), B: ProjectileParticipant(p2)}},
		{"two agents", Contact{A: AgentParticipant(shooter), B: AgentParticipant(other)}},
		{"nil agent", Contact{A: ProjectileParticipant(p1), B: Participant{Role: RoleAgent}}},
		{"empty", Contact{}},
		{"projectile and bounds", Contact{A: ProjectileParticipant(p1), B: BoundsParticipant()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, f.arena.HandleContact(tt.c))
			})
		})
	}
	assert.Empty(t, f.hits)
	assert.False(t, p1.Resolved)
}

func TestArena_DyingAgentsAreNotHit(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 20, Y: 100})
	target := f.agent(2, "blue", model.Vec2{X: 100, Y: 100})
	require.True(t, target.MarkDying())

	f.arena.SpawnProjectile(shooter, target.Position(), model.Vec2{X: 1}, 1, time.Second)
	f.step(time.Millisecond)
	assert.Empty(t, f.hits)
	assert.Len(t, f.arena.Projectiles(), 1, "projectile keeps flying")
}

func TestArena_ProjectileExpires(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 20, Y: 100})
	f.arena.SpawnProjectile(shooter, shooter.Position(), model.Vec2{Y: 1}, 1, 100*time.Millisecond)

	f.step(50 * time.Millisecond)
	assert.Len(t, f.arena.Projectiles(), 1)
	f.step(50 * time.Millisecond)
	assert.Empty(t, f.arena.Projectiles())
}

func TestArena_ProjectileLeavesBounds(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 390, Y: 100})
	f.arena.SpawnProjectile(shooter, shooter.Position(), model.Vec2{X: 1000}, 1, time.Minute)

	f.step(50 * time.Millisecond)
	assert.Empty(t, f.arena.Projectiles())
}

func TestArena_EdgeContact(t *testing.T) {
	f := newArenaFixture(t)
	a := f.agent(1, "red", model.Vec2{X: 395, Y: 100})
	a.SetVelocity(model.Vec2{X: 100})

	f.step(100 * time.Millisecond)

	assert.Equal(t, model.Vec2{X: 400, Y: 100}, a.Position())
	assert.Equal(t, []uint32{1}, f.edges)

	f.arena.HandleContact(Contact{A: BoundsParticipant(), B: AgentParticipant(a)})
	assert.Equal(t, []uint32{1, 1}, f.edges, "swapped edge contact")
}

func TestArena_TimeScale(t *testing.T) {
	f := newArenaFixture(t)
	a := f.agent(1, "red", model.Vec2{X: 100, Y: 100})
	a.SetVelocity(model.Vec2{X: 100})

	f.arena.SetTimeScale(0.5)
	f.step(time.Second)
	assert.InDelta(t, 150, a.Position().X, 1e-9)

	f.arena.SetTimeScale(-1)
	assert.Zero(t, f.arena.TimeScale())
	f.step(time.Second)
	assert.InDelta(t, 150, a.Position().X, 1e-9)
}

func TestArena_AgentRoster(t *testing.T) {
	f := newArenaFixture(t)
	red := f.agent(1, "red", model.Vec2{X: 100, Y: 100})
	f.agent(2, "blue", model.Vec2{X: 300, Y: 100})
	near := f.agent(3, "blue", model.Vec2{X: 150, Y: 100})
	f.arena.AddAgent(red) // duplicate ignored

	opp, ok := f.arena.NearestOpponent(red)
	require.True(t, ok)
	assert.Same(t, near, opp)

	near.MarkDying()
	opp, ok = f.arena.NearestOpponent(red)
	require.True(t, ok)
	assert.Equal(t, uint32(2), opp.ObjectID(), "dying agents are not candidates")

	f.arena.RemoveAgent(2)
	f.arena.RemoveAgent(99)
	assert.Len(t, f.arena.Agents(), 2)
	got, ok := f.arena.Agent(3)
	require.True(t, ok)
	assert.Same(t, near, got)

	_, ok = f.arena.NearestOpponent(red)
	assert.False(t, ok)
}

func TestArena_Clear(t *testing.T) {
	f := newArenaFixture(t)
	shooter := f.agent(1, "red", model.Vec2{X: 20, Y: 100})
	for range 6 {
		f.arena.SpawnProjectile(shooter, shooter.Position(), model.Vec2{X: 1}, 1, time.Second)
	}

	f.arena.Clear()
	assert.Empty(t, f.arena.Projectiles())
	assert.Equal(t, 6, f.arena.pool.Free())
}
