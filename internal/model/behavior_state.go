package model

// BehaviorState is the decision state chosen by the behavior machine.
// Dying and dead are lifecycle flags on Agent, not behavior states.
type BehaviorState int32

const (
	// StateIdle - agent stands still, facing held or periodically randomized
	StateIdle BehaviorState = iota
	// StateApproach - agent moves toward its target
	StateApproach
	// StateEvade - agent moves away from its target
	StateEvade
	// StateStrafe - agent orbits its target while facing it
	StateStrafe
	// StateShoot - agent holds position and fires at its target
	StateShoot
)

// String returns human-readable state name
func (s BehaviorState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateApproach:
		return "APPROACH"
	case StateEvade:
		return "EVADE"
	case StateStrafe:
		return "STRAFE"
	case StateShoot:
		return "SHOOT"
	default:
		return "UNKNOWN"
	}
}

// IsMovement reports whether the state produces locomotion.
func (s BehaviorState) IsMovement() bool {
	return s == StateApproach || s == StateEvade || s == StateStrafe
}
