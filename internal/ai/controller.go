package ai

import (
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// Controller represents the decision loop of one agent.
type Controller interface {
	// Start starts the controller
	Start()

	// Stop stops the controller; Tick becomes a no-op
	Stop()

	// SetState sets the behavior state
	SetState(state model.BehaviorState, now time.Time)

	// CurrentState returns the current behavior state
	CurrentState() model.BehaviorState

	// Tick decides (when due) and then acts for one simulation tick
	Tick(now time.Time)
}
