package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

func newTeleportFixture(t *testing.T, targetPos model.Vec2) (*Teleporter, *model.Agent, *schedule.ManualClock, *schedule.Scheduler) {
	t.Helper()
	clock := schedule.NewManualClock(testEpoch)
	sched := schedule.New(clock)
	agent := newTestAgent(10, 0)
	spec := model.TeleportSpec{
		Chance:   1,
		Cooldown: 3 * time.Second,
		Duration: 200 * time.Millisecond,
		Distance: 40,
	}
	locate := func(*model.Agent) (model.Vec2, bool) { return targetPos, true }
	clamp := func(p model.Vec2) model.Vec2 {
		p.X = min(max(p.X, 0), 500)
		p.Y = min(max(p.Y, 0), 500)
		return p
	}
	return NewTeleporter(spec, constRand{}, sched.NewGroup(), locate, clamp), agent, clock, sched
}

func TestTeleporter_BlinksBehindTarget(t *testing.T) {
	tp, agent, clock, sched := newTeleportFixture(t, model.Vec2{X: 200, Y: 100})

	arrived := false
	tp.SetArriveFunc(func(*model.Agent) { arrived = true })

	tp.OnShot(agent, clock.Now(), model.Vec2{X: 1})
	require.True(t, agent.IsTeleporting())
	assert.Equal(t, model.Vec2{X: 100, Y: 100}, agent.Position(), "position changes only on arrival")

	clock.Advance(200 * time.Millisecond)
	sched.RunDue()

	assert.False(t, agent.IsTeleporting())
	assert.True(t, arrived)
	assert.InDelta(t, 240, agent.Position().X, 1e-9)
	assert.InDelta(t, 100, agent.Position().Y, 1e-9)
}

func TestTeleporter_RejectedWhileInFlight(t *testing.T) {
	tp, agent, clock, sched := newTeleportFixture(t, model.Vec2{X: 200, Y: 100})

	tp.OnShot(agent, clock.Now(), model.Vec2{X: 1})
	started := agent.LastTeleport()

	clock.Advance(50 * time.Millisecond)
	tp.OnShot(agent, clock.Now(), model.Vec2{X: 1})
	assert.Equal(t, started, agent.LastTeleport(), "second maneuver must be rejected mid-flight")

	clock.Advance(time.Second)
	sched.RunDue()
	assert.Equal(t, 0, sched.Pending())
}

func TestTeleporter_Cooldown(t *testing.T) {
	tp, agent, clock, sched := newTeleportFixture(t, model.Vec2{X: 200, Y: 100})

	tp.OnShot(agent, clock.Now(), model.Vec2{X: 1})
	clock.Advance(time.Second)
	sched.RunDue()
	require.False(t, agent.IsTeleporting())

	assert.False(t, tp.Ready(agent, clock.Now()), "cooldown not over")
	clock.Advance(2 * time.Second)
	assert.True(t, tp.Ready(agent, clock.Now()))
}

func TestTeleporter_DestinationClamped(t *testing.T) {
	tp, agent, clock, sched := newTeleportFixture(t, model.Vec2{X: 490, Y: 100})
	agent.SetPosition(model.Vec2{X: 400, Y: 100})

	tp.OnShot(agent, clock.Now(), model.Vec2{X: 1})
	clock.Advance(time.Second)
	sched.RunDue()

	assert.Equal(t, model.Vec2{X: 500, Y: 100}, agent.Position())
}

func TestTeleporter_ZeroChanceNeverFires(t *testing.T) {
	clock := schedule.NewManualClock(testEpoch)
	sched := schedule.New(clock)
	agent := newTestAgent(10, 0)
	locate := func(*model.Agent) (model.Vec2, bool) { return model.Vec2{X: 1}, true }
	tp := NewTeleporter(model.TeleportSpec{Chance: 0}, constRand{}, sched.NewGroup(), locate, nil)

	tp.OnShot(agent, clock.Now(), model.Vec2{X: 1})
	assert.False(t, agent.IsTeleporting())
	assert.Equal(t, 0, sched.Pending())
}

func TestWeapon_RunsShotExtensions(t *testing.T) {
	f := newWeaponFixture(t, constRand{})
	tp, _, _, _ := newTeleportFixture(t, model.Vec2{X: 300, Y: 100})
	tp.timers = f.sched.NewGroup()
	f.weapon.AddExtension(tp)

	require.True(t, f.weapon.Shoot(f.clock.Now(), model.Vec2{X: 1}))
	assert.True(t, f.agent.IsTeleporting())
}
