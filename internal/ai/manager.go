package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

// StepFunc advances the simulation by one fixed step.
type StepFunc func(now time.Time, dt time.Duration)

// TickManager keeps the registered controllers and drives the fixed-step
// simulation loop.
//
// Controllers are ticked in registration order so a seeded random source
// yields the same run every time.
type TickManager struct {
	mu          sync.RWMutex
	controllers map[uint32]Controller // objectID → controller
	order       []uint32

	interval time.Duration
	clock    schedule.Clock
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTickManager creates a tick manager running at rate ticks per second.
func NewTickManager(rate int, clock schedule.Clock) *TickManager {
	if rate <= 0 {
		rate = 30
	}
	return &TickManager{
		controllers: make(map[uint32]Controller),
		interval:    time.Second / time.Duration(rate),
		clock:       clock,
		stopCh:      make(chan struct{}),
	}
}

// Interval returns the fixed step length.
func (m *TickManager) Interval() time.Duration {
	return m.interval
}

// Register registers a controller and starts it.
// Registering the same objectID again replaces the previous controller.
func (m *TickManager) Register(objectID uint32, controller Controller) {
	m.mu.Lock()
	if old, ok := m.controllers[objectID]; ok {
		old.Stop()
	} else {
		m.order = append(m.order, objectID)
	}
	m.controllers[objectID] = controller
	m.mu.Unlock()

	controller.Start()

	slog.Debug("AI controller registered",
		"objectID", objectID,
		"state", controller.CurrentState())
}

// Unregister stops and removes a controller.
func (m *TickManager) Unregister(objectID uint32) {
	m.mu.Lock()
	controller, ok := m.controllers[objectID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.controllers, objectID)
	for i, id := range m.order {
		if id == objectID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	controller.Stop()

	slog.Debug("AI controller unregistered", "objectID", objectID)
}

// TickAll ticks every registered controller once.
func (m *TickManager) TickAll(now time.Time) {
	m.mu.RLock()
	batch := make([]Controller, 0, len(m.order))
	for _, id := range m.order {
		batch = append(batch, m.controllers[id])
	}
	m.mu.RUnlock()

	// Controllers may unregister themselves (or others) while ticking.
	for _, c := range batch {
		c.Tick(now)
	}

	if len(batch) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(batch))
	}
}

// Start runs the fixed-step loop until ctx is canceled or Stop is called.
// step receives the clock time and the fixed step length on every tick.
func (m *TickManager) Start(ctx context.Context, step StepFunc) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("AI tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("AI tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI tick manager stopped")
			return nil

		case <-ticker.C:
			step(m.clock.Now(), m.interval)
		}
	}
}

// Stop stops the loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Count returns number of registered controllers.
func (m *TickManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.controllers)
}

// GetController returns the controller registered for objectID.
func (m *TickManager) GetController(objectID uint32) (Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.controllers[objectID]
	if !ok {
		return nil, fmt.Errorf("controller not found for objectID %d", objectID)
	}
	return c, nil
}
