package spawn

import (
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// ActorID identifies a visual actor owned by the presentation host.
type ActorID uint64

// WidgetID identifies a derived visual element (shadow, bar, marker, overlay).
type WidgetID uint64

// WidgetKind is the type of a derived visual element.
type WidgetKind int32

const (
	WidgetShadow WidgetKind = iota
	WidgetShieldBar
	WidgetMarker
	WidgetDebug
)

// String returns human-readable widget kind
func (k WidgetKind) String() string {
	switch k {
	case WidgetShadow:
		return "shadow"
	case WidgetShieldBar:
		return "shield_bar"
	case WidgetMarker:
		return "marker"
	case WidgetDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Tint is a color modulation applied to an actor.
type Tint int32

const (
	TintNone Tint = iota
	TintDamage
	TintShield
)

// Host is the presentation side the lifecycle drives: actors, widgets and
// banners. Implementations must tolerate unknown IDs and empty keys; an
// empty key asks for a visually distinct placeholder.
type Host interface {
	// Exists reports whether a playable resource key exists.
	Exists(key string) bool

	CreateActor(key string, pos model.Vec2) ActorID
	DestroyActor(id ActorID)
	Play(id ActorID, key string, mirror bool)
	// Freeze holds (true) or releases (false) the actor on its current frame.
	Freeze(id ActorID, frozen bool)
	// Apply moves the actor to pos.
	Apply(id ActorID, pos model.Vec2)
	SetTint(id ActorID, tint Tint)
	// SetDepth sets the draw order; higher depths are drawn on top.
	SetDepth(id ActorID, depth int)
	SetTransform(id ActorID, rotation, scale float64)

	CreateWidget(kind WidgetKind, owner ActorID, pos model.Vec2) WidgetID
	// UpdateWidget moves a widget and refreshes its value (0..1 for bars)
	// and label (debug overlay, faction marker).
	UpdateWidget(id WidgetID, pos model.Vec2, value float64, label string)
	HideWidget(id WidgetID)
	FadeWidget(id WidgetID, d time.Duration)
	DestroyWidget(id WidgetID)

	ShowBanner(text string, d time.Duration)
}

// PresentationSnapshot is everything needed to rebuild an actor's look
// after the visual handle has been replaced. It does not reference the
// handle itself, so it can outlive the actor it was taken from.
type PresentationSnapshot struct {
	Position  model.Vec2
	Velocity  model.Vec2
	Direction model.Direction
	State     model.BehaviorState

	Key      string
	Mirror   bool
	Depth    int
	Rotation float64 // radians
	Scale    float64
	Tint     Tint
}
