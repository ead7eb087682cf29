package model

import "math"

// Facing is one of the five directional resource buckets.
// Left/right variants of Side and the corners share a bucket and are
// told apart by Direction.Mirror.
type Facing int32

const (
	FacingDown Facing = iota
	FacingUp
	FacingSide
	FacingDownCorner
	FacingUpCorner
)

// Facings lists every bucket in resolution order.
var Facings = [...]Facing{FacingDown, FacingUp, FacingSide, FacingDownCorner, FacingUpCorner}

// String returns the resource-key spelling of the bucket.
func (f Facing) String() string {
	switch f {
	case FacingDown:
		return "down"
	case FacingUp:
		return "up"
	case FacingSide:
		return "side"
	case FacingDownCorner:
		return "down_corner"
	case FacingUpCorner:
		return "up_corner"
	default:
		return "unknown"
	}
}

// Direction is one of the eight presentation directions: a bucket plus
// a horizontal mirror flag. Mirror is always false for Down and Up.
type Direction struct {
	Facing Facing
	Mirror bool
}

// DirectionDown is the default facing of a freshly spawned agent.
var DirectionDown = Direction{Facing: FacingDown}

// Directions lists all eight presentation directions.
var Directions = [...]Direction{
	{Facing: FacingSide},
	{Facing: FacingDownCorner},
	{Facing: FacingDown},
	{Facing: FacingDownCorner, Mirror: true},
	{Facing: FacingSide, Mirror: true},
	{Facing: FacingUpCorner, Mirror: true},
	{Facing: FacingUp},
	{Facing: FacingUpCorner},
}

// Opposite returns the visually opposite direction.
func (d Direction) Opposite() Direction {
	switch d.Facing {
	case FacingDown:
		return Direction{Facing: FacingUp}
	case FacingUp:
		return Direction{Facing: FacingDown}
	case FacingSide:
		return Direction{Facing: FacingSide, Mirror: !d.Mirror}
	case FacingDownCorner:
		return Direction{Facing: FacingUpCorner, Mirror: !d.Mirror}
	case FacingUpCorner:
		return Direction{Facing: FacingDownCorner, Mirror: !d.Mirror}
	default:
		return d
	}
}

// String returns e.g. "side" or "side/mirror".
func (d Direction) String() string {
	if d.Mirror {
		return d.Facing.String() + "/mirror"
	}
	return d.Facing.String()
}

// ClassifyDirection maps a velocity or aim vector onto one of the eight
// directions using 45° arcs centred on the axes and diagonals.
//
// Vectors shorter than deadZone return ok=false and the caller keeps its
// previous facing, so an agent settling to a stop does not jitter.
func ClassifyDirection(v Vec2, deadZone float64) (Direction, bool) {
	if v.Len() < deadZone || v.IsZero() {
		return Direction{}, false
	}

	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}

	// Shift by half an arc so that every sector starts at a multiple of 45°.
	sector := int(math.Floor((deg+22.5)/45)) % len(Directions)
	return Directions[sector], true
}

// MirrorToward reports whether an agent at from must be mirrored to look at to.
func MirrorToward(from, to Vec2) bool {
	return to.X < from.X
}
