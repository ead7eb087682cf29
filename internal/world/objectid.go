package world

import "sync/atomic"

// ObjectIDGenerator hands out unique agent object IDs.
//
// ID ranges (convention):
//
//	0x00000000 - 0x1FFFFFFF: Reserved (0 = invalid)
//	0x20000000 - 0x2FFFFFFF: Agents
type ObjectIDGenerator struct {
	nextAgentID atomic.Uint32
}

// AgentIDBase is the first ID of the agent range.
const AgentIDBase = 0x20000000

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextAgentID.Store(AgentIDBase)
	return gen
}

// NextAgentID generates the next unique agent object ID.
// Thread-safe via atomic increment.
func (g *ObjectIDGenerator) NextAgentID() uint32 {
	return g.nextAgentID.Add(1)
}
