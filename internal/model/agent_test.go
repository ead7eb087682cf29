package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testArchetype() *Archetype {
	return &Archetype{
		Name:         "grunt",
		MaxHealth:    10,
		MaxShield:    5,
		MagazineSize: 30,
		Magazines:    2,
	}
}

func TestNewAgent_Defaults(t *testing.T) {
	now := time.Unix(100, 0)
	a := NewAgent(7, testArchetype(), "red", Vec2{X: 1, Y: 2}, now)

	assert.Equal(t, uint32(7), a.ObjectID())
	assert.Equal(t, int32(10), a.Health())
	assert.Equal(t, int32(5), a.Shield())
	assert.Equal(t, int32(30), a.Ammo())
	assert.Equal(t, int32(2), a.Magazines())
	assert.Equal(t, StateIdle, a.State())
	assert.Equal(t, DirectionDown, a.Direction())
	assert.True(t, a.Target().IsNone())
	assert.True(t, a.IsAlive())
	assert.Equal(t, now, a.StateSince())
}

func TestAgent_PoolsClamp(t *testing.T) {
	a := NewAgent(1, testArchetype(), "", Vec2{}, time.Time{})

	a.SetHealth(-5)
	assert.Equal(t, int32(0), a.Health())
	a.SetHealth(50)
	assert.Equal(t, int32(10), a.Health())

	a.SetShield(-1)
	assert.Equal(t, int32(0), a.Shield())

	a.SetAmmo(-3)
	assert.Equal(t, int32(0), a.Ammo())

	a.SetMagazines(-1)
	assert.Equal(t, int32(0), a.Magazines())
}

func TestAgent_MarkDyingOnce(t *testing.T) {
	a := NewAgent(1, testArchetype(), "", Vec2{}, time.Time{})
	a.SetVelocity(Vec2{X: 3})

	assert.True(t, a.MarkDying())
	assert.False(t, a.MarkDying(), "second dying transition must be rejected")
	assert.True(t, a.Velocity().IsZero())
	assert.False(t, a.IsAlive())

	a.MarkDead()
	assert.True(t, a.IsDead())
	assert.False(t, a.IsDying())
	assert.False(t, a.MarkDying())
}

func TestAgent_SetStateKeepsSince(t *testing.T) {
	t0 := time.Unix(10, 0)
	a := NewAgent(1, testArchetype(), "", Vec2{}, t0)

	a.SetState(StateIdle, t0.Add(time.Second))
	assert.Equal(t, t0, a.StateSince(), "re-entering the same state keeps its start time")

	a.SetState(StateApproach, t0.Add(2*time.Second))
	assert.Equal(t, t0.Add(2*time.Second), a.StateSince())
}

func TestAgent_RecentlyDamaged(t *testing.T) {
	now := time.Unix(10, 0)
	a := NewAgent(1, testArchetype(), "", Vec2{}, now)
	a.SetDamageCooldownUntil(now.Add(100 * time.Millisecond))

	assert.True(t, a.RecentlyDamaged(now))
	assert.True(t, a.RecentlyDamaged(now.Add(99*time.Millisecond)))
	assert.False(t, a.RecentlyDamaged(now.Add(100*time.Millisecond)))
}

func TestProjectilePool_Reuse(t *testing.T) {
	pool := NewProjectilePool(1)
	p1 := pool.Acquire()
	p1.Damage = 5
	p1.Resolved = true
	assert.Equal(t, 0, pool.Free())

	pool.Release(p1)
	p2 := pool.Acquire()
	assert.Same(t, p1, p2, "released record should be reused")
	assert.False(t, p2.Resolved, "reused record must be reset")
	assert.Equal(t, int32(0), p2.Damage)
	assert.NotEqual(t, uint64(1), p2.ID, "reused record gets a fresh ID")

	extra := pool.Acquire()
	assert.NotNil(t, extra, "empty pool allocates")
}

func TestTarget_Kinds(t *testing.T) {
	assert.True(t, Target{}.IsNone())

	opp := OpponentTarget(42)
	assert.Equal(t, TargetOpponent, opp.Kind())
	assert.Equal(t, uint32(42), opp.OpponentID())
	assert.False(t, opp.IsSynthetic())

	pt := PointTarget(Vec2{X: 3, Y: 4})
	assert.True(t, pt.IsSynthetic())
	assert.Equal(t, Vec2{X: 3, Y: 4}, pt.Point())
}
