package model

// TargetKind distinguishes live opponents from synthetic roaming points.
type TargetKind int32

const (
	TargetNone TargetKind = iota
	TargetOpponent
	TargetPoint
)

// Target is what an agent currently moves and aims relative to.
//
// A live opponent is held by object ID only and resolved through a lookup
// every tick, so a despawned opponent can never be reached through a
// stale pointer. A synthetic point is an owned value.
type Target struct {
	kind       TargetKind
	opponentID uint32
	point      Vec2
}

// OpponentTarget targets a live opponent by object ID.
func OpponentTarget(objectID uint32) Target {
	return Target{kind: TargetOpponent, opponentID: objectID}
}

// PointTarget targets a synthetic roaming point.
func PointTarget(p Vec2) Target {
	return Target{kind: TargetPoint, point: p}
}

// Kind returns the target kind.
func (t Target) Kind() TargetKind { return t.kind }

// IsNone reports whether no target is set.
func (t Target) IsNone() bool { return t.kind == TargetNone }

// IsSynthetic reports whether the target is a roaming point.
func (t Target) IsSynthetic() bool { return t.kind == TargetPoint }

// OpponentID returns the opponent object ID (0 for non-opponent targets).
func (t Target) OpponentID() uint32 { return t.opponentID }

// Point returns the roaming point (zero for non-point targets).
func (t Target) Point() Vec2 { return t.point }
