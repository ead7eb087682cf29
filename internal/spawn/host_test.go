package spawn

import (
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

type fakeActor struct {
	key       string
	mirror    bool
	frozen    bool
	pos       model.Vec2
	tint      Tint
	depth     int
	rotation  float64
	scale     float64
	plays     []string
	destroyed bool
}

type fakeWidget struct {
	kind      WidgetKind
	owner     ActorID
	pos       model.Vec2
	value     float64
	label     string
	hidden    bool
	fading    time.Duration
	destroyed bool
}

// fakeHost records every presentation call.
type fakeHost struct {
	keys    map[string]bool
	nextID  uint64
	actors  map[ActorID]*fakeActor
	widgets map[WidgetID]*fakeWidget
	banners []string
}

func newFakeHost(keys ...string) *fakeHost {
	h := &fakeHost{
		keys:    make(map[string]bool, len(keys)),
		actors:  make(map[ActorID]*fakeActor),
		widgets: make(map[WidgetID]*fakeWidget),
	}
	for _, k := range keys {
		h.keys[k] = true
	}
	return h
}

func (h *fakeHost) Exists(key string) bool { return h.keys[key] }

func (h *fakeHost) CreateActor(key string, pos model.Vec2) ActorID {
	h.nextID++
	id := ActorID(h.nextID)
	h.actors[id] = &fakeActor{key: key, pos: pos}
	return id
}

func (h *fakeHost) DestroyActor(id ActorID) {
	if a, ok := h.actors[id]; ok {
		a.destroyed = true
	}
}

func (h *fakeHost) Play(id ActorID, key string, mirror bool) {
	if a, ok := h.actors[id]; ok {
		a.key, a.mirror = key, mirror
		a.plays = append(a.plays, key)
	}
}

func (h *fakeHost) Freeze(id ActorID, frozen bool) {
	if a, ok := h.actors[id]; ok {
		a.frozen = frozen
	}
}

func (h *fakeHost) Apply(id ActorID, pos model.Vec2) {
	if a, ok := h.actors[id]; ok {
		a.pos = pos
	}
}

func (h *fakeHost) SetTint(id ActorID, tint Tint) {
	if a, ok := h.actors[id]; ok {
		a.tint = tint
	}
}

func (h *fakeHost) SetDepth(id ActorID, depth int) {
	if a, ok := h.actors[id]; ok {
		a.depth = depth
	}
}

func (h *fakeHost) SetTransform(id ActorID, rotation, scale float64) {
	if a, ok := h.actors[id]; ok {
		a.rotation, a.scale = rotation, scale
	}
}

func (h *fakeHost) CreateWidget(kind WidgetKind, owner ActorID, pos model.Vec2) WidgetID {
	h.nextID++
	id := WidgetID(h.nextID)
	h.widgets[id] = &fakeWidget{kind: kind, owner: owner, pos: pos}
	return id
}

func (h *fakeHost) UpdateWidget(id WidgetID, pos model.Vec2, value float64, label string) {
	if w, ok := h.widgets[id]; ok {
		w.pos, w.value, w.label = pos, value, label
	}
}

func (h *fakeHost) HideWidget(id WidgetID) {
	if w, ok := h.widgets[id]; ok {
		w.hidden = true
	}
}

func (h *fakeHost) FadeWidget(id WidgetID, d time.Duration) {
	if w, ok := h.widgets[id]; ok {
		w.fading = d
	}
}

func (h *fakeHost) DestroyWidget(id WidgetID) {
	if w, ok := h.widgets[id]; ok {
		w.destroyed = true
	}
}

func (h *fakeHost) ShowBanner(text string, _ time.Duration) {
	h.banners = append(h.banners, text)
}

// liveWidgets returns the widgets of owner that were not destroyed.
func (h *fakeHost) liveWidgets(owner ActorID) []*fakeWidget {
	var out []*fakeWidget
	for _, w := range h.widgets {
		if w.owner == owner && !w.destroyed {
			out = append(out, w)
		}
	}
	return out
}

func countKind(ws []*fakeWidget, kind WidgetKind) int {
	n := 0
	for _, w := range ws {
		if w.kind == kind {
			n++
		}
	}
	return n
}

// liveActors counts actors not yet destroyed.
func (h *fakeHost) liveActors() int {
	n := 0
	for _, a := range h.actors {
		if !a.destroyed {
			n++
		}
	}
	return n
}
