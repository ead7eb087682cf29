package model

import "time"

// CombatEventKind classifies lifecycle events emitted for match recording.
type CombatEventKind string

const (
	EventSpawn   CombatEventKind = "spawn"
	EventHit     CombatEventKind = "hit"
	EventDeath   CombatEventKind = "death"
	EventDespawn CombatEventKind = "despawn"
)

// CombatEvent is one recorded lifecycle fact about an agent.
type CombatEvent struct {
	Kind      CombatEventKind
	At        time.Time
	AgentID   uint32
	Archetype string
	Faction   string
	Position  Vec2
	Amount    int32  // hit damage
	Outcome   string // hit outcome
	Health    int32
	Shield    int32
}
