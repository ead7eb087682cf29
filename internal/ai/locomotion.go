package ai

import (
	"math"

	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// Motion is the result of one locomotion step.
type Motion struct {
	// Velocity in world units per second.
	Velocity model.Vec2
	// Face is the vector the agent should face along. Zero means hold the
	// current facing.
	Face model.Vec2
	// Arrived is set when a synthetic target has been reached (Approach) or
	// left far enough behind (Evade). The caller reverts to Idle and clears
	// the target.
	Arrived bool
}

// Locomotion converts a behavior state into a velocity toward, away from
// or around a target point at the archetype's move speed.
type Locomotion struct {
	cfg config.Behavior
	rng model.Rand
}

// NewLocomotion creates a locomotion controller.
func NewLocomotion(cfg config.Behavior, rng model.Rand) *Locomotion {
	return &Locomotion{cfg: cfg, rng: rng}
}

// Step computes motion for the agent's current state relative to target.
// live is true when target is a live opponent's position and false for a
// synthetic roaming point; arrival is only detected for synthetic points.
func (l *Locomotion) Step(a *model.Agent, target model.Vec2, live bool) Motion {
	pos := a.Position()
	speed := a.Archetype().MoveSpeed
	toTarget := target.Sub(pos)
	dist := toTarget.Len()

	switch a.State() {
	case model.StateApproach:
		if !live && dist <= l.cfg.ArrivalRadius {
			return Motion{Arrived: true}
		}
		if toTarget.IsZero() {
			return Motion{}
		}
		vel := model.FromAngle(toTarget.Angle()+l.jitter(), speed)
		return Motion{Velocity: vel, Face: vel}

	case model.StateEvade:
		if !live && dist >= l.cfg.EvadeFarRadius {
			return Motion{Arrived: true}
		}
		away := pos.Sub(target)
		if away.IsZero() {
			// Standing on the target: any direction is away.
			away = model.FromAngle(model.Between(l.rng, -math.Pi, math.Pi), 1)
		}
		vel := model.FromAngle(away.Angle()+l.jitter(), speed)
		return Motion{Velocity: vel, Face: vel}

	case model.StateStrafe:
		if toTarget.IsZero() {
			return Motion{}
		}
		angle := toTarget.Angle() + float64(a.StrafeSign())*math.Pi/2
		return Motion{
			Velocity: model.FromAngle(angle, speed),
			Face:     toTarget,
		}

	case model.StateShoot:
		return Motion{Face: toTarget}

	default:
		return Motion{}
	}
}

func (l *Locomotion) jitter() float64 {
	if l.cfg.Jitter <= 0 {
		return 0
	}
	return model.Between(l.rng, -l.cfg.Jitter, l.cfg.Jitter)
}
