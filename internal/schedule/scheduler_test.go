package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() (*Scheduler, *ManualClock) {
	clock := NewManualClock(time.Unix(1000, 0))
	return New(clock), clock
}

func TestScheduler_RunsInDeadlineOrder(t *testing.T) {
	s, clock := newTestScheduler()

	var order []string
	s.After(30*time.Millisecond, func() { order = append(order, "c") })
	s.After(10*time.Millisecond, func() { order = append(order, "a") })
	s.After(20*time.Millisecond, func() { order = append(order, "b") })
	s.After(20*time.Millisecond, func() { order = append(order, "b2") })

	assert.Equal(t, 0, s.RunDue(), "nothing is due yet")

	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, 3, s.RunDue())
	assert.Equal(t, []string{"a", "b", "b2"}, order, "ties keep scheduling order")

	clock.Advance(time.Second)
	assert.Equal(t, 1, s.RunDue())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_Cancel(t *testing.T) {
	s, clock := newTestScheduler()

	fired := false
	tok := s.After(time.Millisecond, func() { fired = true })
	require.True(t, s.Cancel(tok))
	assert.False(t, s.Cancel(tok), "double cancel reports false")

	clock.Advance(time.Second)
	s.RunDue()
	assert.False(t, fired)
}

func TestScheduler_ChainedCallbacks(t *testing.T) {
	s, clock := newTestScheduler()

	steps := 0
	var step func()
	step = func() {
		steps++
		if steps < 3 {
			s.After(10*time.Millisecond, step)
		}
	}
	s.After(10*time.Millisecond, step)

	for range 5 {
		clock.Advance(10 * time.Millisecond)
		s.RunDue()
	}
	assert.Equal(t, 3, steps)
}

func TestGroup_CancelAllBumpsGeneration(t *testing.T) {
	s, clock := newTestScheduler()
	g := s.NewGroup()

	fired := 0
	g.After(10*time.Millisecond, func() { fired++ })
	g.After(20*time.Millisecond, func() { fired++ })
	assert.Equal(t, 2, g.Pending())

	g.CancelAll()
	assert.Equal(t, uint64(1), g.Generation())
	assert.Equal(t, 0, g.Pending())
	assert.Equal(t, 0, s.Pending())

	clock.Advance(time.Second)
	s.RunDue()
	assert.Equal(t, 0, fired)
}

func TestGroup_StaleCallbackIsNoop(t *testing.T) {
	s, clock := newTestScheduler()
	g := s.NewGroup()

	fired := 0
	// Both callbacks are due in the same pass; the first tears the owner
	// down, the second must observe the new generation and do nothing.
	g.After(10*time.Millisecond, func() {
		fired++
		g.generation++
	})
	g.After(10*time.Millisecond, func() { fired++ })

	clock.Advance(10 * time.Millisecond)
	s.RunDue()
	assert.Equal(t, 1, fired)
}

func TestGroup_CallbackAfterCancelAllRunsInNewGeneration(t *testing.T) {
	s, clock := newTestScheduler()
	g := s.NewGroup()

	g.CancelAll()
	fired := false
	g.After(5*time.Millisecond, func() { fired = true })

	clock.Advance(5 * time.Millisecond)
	s.RunDue()
	assert.True(t, fired)
	assert.Equal(t, 0, g.Pending())
}

func TestGroup_CancelForeignToken(t *testing.T) {
	s, _ := newTestScheduler()
	g := s.NewGroup()

	tok := s.After(time.Second, func() {})
	assert.False(t, g.Cancel(tok), "group must not cancel tokens it does not own")
	assert.Equal(t, 1, s.Pending())
}

func BenchmarkScheduler_AfterRunDue(b *testing.B) {
	s, clock := newTestScheduler()
	b.ReportAllocs()
	for b.Loop() {
		s.After(time.Millisecond, func() {})
		clock.Advance(time.Millisecond)
		s.RunDue()
	}
}
