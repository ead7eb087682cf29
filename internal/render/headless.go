package render

import (
	"log/slog"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/spawn"
)

// HeadlessHost implements spawn.Host without drawing anything. It tracks
// live actors and widgets so a headless run can report them, and logs
// banners.
type HeadlessHost struct {
	keys    map[string]string
	nextID  uint64
	actors  map[spawn.ActorID]string
	widgets map[spawn.WidgetID]spawn.WidgetKind
	banners int
}

var _ spawn.Host = (*HeadlessHost)(nil)

// NewHeadlessHost creates a host where exactly the keys of resources exist.
func NewHeadlessHost(resources map[string]string) *HeadlessHost {
	return &HeadlessHost{
		keys:    resources,
		actors:  make(map[spawn.ActorID]string),
		widgets: make(map[spawn.WidgetID]spawn.WidgetKind),
	}
}

func (h *HeadlessHost) Exists(key string) bool {
	_, ok := h.keys[key]
	return ok
}

func (h *HeadlessHost) CreateActor(key string, _ model.Vec2) spawn.ActorID {
	h.nextID++
	id := spawn.ActorID(h.nextID)
	h.actors[id] = key
	return id
}

func (h *HeadlessHost) DestroyActor(id spawn.ActorID) { delete(h.actors, id) }

func (h *HeadlessHost) Play(id spawn.ActorID, key string, _ bool) {
	if _, ok := h.actors[id]; ok {
		h.actors[id] = key
	}
}

func (h *HeadlessHost) Freeze(spawn.ActorID, bool)                   {}
func (h *HeadlessHost) Apply(spawn.ActorID, model.Vec2)              {}
func (h *HeadlessHost) SetTint(spawn.ActorID, spawn.Tint)            {}
func (h *HeadlessHost) HideWidget(spawn.WidgetID)                    {}
func (h *HeadlessHost) FadeWidget(spawn.WidgetID, time.Duration)     {}
func (h *HeadlessHost) SetDepth(spawn.ActorID, int)                  {}
func (h *HeadlessHost) SetTransform(spawn.ActorID, float64, float64) {}

func (h *HeadlessHost) CreateWidget(kind spawn.WidgetKind, _ spawn.ActorID, _ model.Vec2) spawn.WidgetID {
	h.nextID++
	id := spawn.WidgetID(h.nextID)
	h.widgets[id] = kind
	return id
}

func (h *HeadlessHost) UpdateWidget(spawn.WidgetID, model.Vec2, float64, string) {}

func (h *HeadlessHost) DestroyWidget(id spawn.WidgetID) { delete(h.widgets, id) }

func (h *HeadlessHost) ShowBanner(text string, d time.Duration) {
	h.banners++
	slog.Info("banner", "text", text, "duration", d)
}

// Actors returns the number of live actors.
func (h *HeadlessHost) Actors() int { return len(h.actors) }

// Widgets returns the number of live widgets.
func (h *HeadlessHost) Widgets() int { return len(h.widgets) }

// Banners returns how many banners were shown.
func (h *HeadlessHost) Banners() int { return h.banners }
