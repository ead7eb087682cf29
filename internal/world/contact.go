package world

import (
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// Role identifies what a contact participant is.
type Role int32

const (
	RoleNone Role = iota
	RoleProjectile
	RoleAgent
	RoleBounds
)

// String returns human-readable role name
func (r Role) String() string {
	switch r {
	case RoleProjectile:
		return "projectile"
	case RoleAgent:
		return "agent"
	case RoleBounds:
		return "bounds"
	default:
		return "none"
	}
}

// Participant is one side of a contact.
type Participant struct {
	Role       Role
	Projectile *model.Projectile
	Agent      *model.Agent
}

// ProjectileParticipant wraps a projectile.
func ProjectileParticipant(p *model.Projectile) Participant {
	return Participant{Role: RoleProjectile, Projectile: p}
}

// AgentParticipant wraps an agent.
func AgentParticipant(a *model.Agent) Participant {
	return Participant{Role: RoleAgent, Agent: a}
}

// BoundsParticipant is the arena edge.
func BoundsParticipant() Participant {
	return Participant{Role: RoleBounds}
}

func (p Participant) valid() bool {
	switch p.Role {
	case RoleProjectile:
		return p.Projectile != nil
	case RoleAgent:
		return p.Agent != nil
	case RoleBounds:
		return true
	default:
		return false
	}
}

// Contact is a typed overlap report. Collision systems may deliver the two
// sides in either order; the arena normalizes them before acting.
type Contact struct {
	A, B Participant
}

// ContactKind is the normalized meaning of a contact.
type ContactKind int32

const (
	// ContactInvalid - dropped: missing side, two projectiles, two agents
	ContactInvalid ContactKind = iota
	// ContactHit - a projectile overlapping an agent
	ContactHit
	// ContactEdge - an agent touching the arena bounds
	ContactEdge
)

// Normalize orders the contact so that A is the projectile (for hits) or
// the agent (for edge contacts). swapped is true when the delivered order
// had to be corrected.
func (c Contact) Normalize() (norm Contact, kind ContactKind, swapped bool) {
	if !c.A.valid() || !c.B.valid() {
		return c, ContactInvalid, false
	}

	switch {
	case c.A.Role == RoleProjectile && c.B.Role == RoleAgent:
		return c, ContactHit, false
	case c.A.Role == RoleAgent && c.B.Role == RoleProjectile:
		return Contact{A: c.B, B: c.A}, ContactHit, true
	case c.A.Role == RoleAgent && c.B.Role == RoleBounds:
		return c, ContactEdge, false
	case c.A.Role == RoleBounds && c.B.Role == RoleAgent:
		return Contact{A: c.B, B: c.A}, ContactEdge, true
	default:
		return c, ContactInvalid, false
	}
}
