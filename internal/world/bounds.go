package world

import (
	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// Bounds is the axis-aligned playable rectangle of the arena.
type Bounds struct {
	Min model.Vec2
	Max model.Vec2
}

// NewBounds creates bounds from config.
func NewBounds(c config.Bounds) Bounds {
	return Bounds{
		Min: model.Vec2{X: c.MinX, Y: c.MinY},
		Max: model.Vec2{X: c.MaxX, Y: c.MaxY},
	}
}

// Width returns horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies inside the bounds (edges included).
func (b Bounds) Contains(p model.Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Clamp returns p moved to the nearest point inside the bounds.
func (b Bounds) Clamp(p model.Vec2) model.Vec2 {
	return model.Vec2{
		X: min(max(p.X, b.Min.X), b.Max.X),
		Y: min(max(p.Y, b.Min.Y), b.Max.Y),
	}
}

// Inset shrinks the bounds by margin on every side. A margin larger than
// half the extent collapses that axis onto its centre.
func (b Bounds) Inset(margin float64) Bounds {
	out := Bounds{
		Min: model.Vec2{X: b.Min.X + margin, Y: b.Min.Y + margin},
		Max: model.Vec2{X: b.Max.X - margin, Y: b.Max.Y - margin},
	}
	if out.Min.X > out.Max.X {
		c := (b.Min.X + b.Max.X) / 2
		out.Min.X, out.Max.X = c, c
	}
	if out.Min.Y > out.Max.Y {
		c := (b.Min.Y + b.Max.Y) / 2
		out.Min.Y, out.Max.Y = c, c
	}
	return out
}

// RandomPoint draws a uniform point at least margin away from every edge.
func (b Bounds) RandomPoint(rng model.Rand, margin float64) model.Vec2 {
	in := b.Inset(margin)
	return model.Vec2{
		X: model.Between(rng, in.Min.X, in.Max.X),
		Y: model.Between(rng, in.Min.Y, in.Max.Y),
	}
}
