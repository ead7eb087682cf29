package render

import (
	"cmp"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
	"github.com/bonkgamesio/bonkgames-sub000/internal/spawn"
	"github.com/bonkgamesio/bonkgames-sub000/internal/world"
)

// PlaceholderGlyph is drawn for actors whose key has no glyph.
const PlaceholderGlyph = "?"

type actor struct {
	key    string
	mirror bool
	frozen bool
	pos    model.Vec2
	tint   spawn.Tint
	depth  int
}

type widget struct {
	kind      spawn.WidgetKind
	owner     spawn.ActorID
	pos       model.Vec2
	value     float64
	label     string
	hidden    bool
	fadeUntil time.Time
}

// TerminalHost implements spawn.Host on a tcell screen. Resource keys map
// to glyphs; a key without a glyph does not exist.
//
// Not safe for concurrent use; called from the simulation goroutine.
type TerminalHost struct {
	screen tcell.Screen
	clock  schedule.Clock
	bounds world.Bounds
	glyphs map[string]string

	nextID  uint64
	actors  map[spawn.ActorID]*actor
	order   []spawn.ActorID
	widgets map[spawn.WidgetID]*widget

	banner      string
	bannerUntil time.Time
	status      string
}

var _ spawn.Host = (*TerminalHost)(nil)

// NewTerminalHost creates a host drawing the arena bounds onto screen.
func NewTerminalHost(screen tcell.Screen, clock schedule.Clock, bounds world.Bounds, glyphs map[string]string) *TerminalHost {
	return &TerminalHost{
		screen:  screen,
		clock:   clock,
		bounds:  bounds,
		glyphs:  glyphs,
		actors:  make(map[spawn.ActorID]*actor),
		widgets: make(map[spawn.WidgetID]*widget),
	}
}

// Exists implements anim.Resources.
func (h *TerminalHost) Exists(key string) bool {
	_, ok := h.glyphs[key]
	return ok
}

func (h *TerminalHost) CreateActor(key string, pos model.Vec2) spawn.ActorID {
	h.nextID++
	id := spawn.ActorID(h.nextID)
	h.actors[id] = &actor{key: key, pos: pos}
	h.order = append(h.order, id)
	return id
}

func (h *TerminalHost) DestroyActor(id spawn.ActorID) {
	if _, ok := h.actors[id]; !ok {
		return
	}
	delete(h.actors, id)
	for i, o := range h.order {
		if o == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

func (h *TerminalHost) Play(id spawn.ActorID, key string, mirror bool) {
	if a, ok := h.actors[id]; ok {
		a.key, a.mirror = key, mirror
	}
}

func (h *TerminalHost) Freeze(id spawn.ActorID, frozen bool) {
	if a, ok := h.actors[id]; ok {
		a.frozen = frozen
	}
}

func (h *TerminalHost) Apply(id spawn.ActorID, pos model.Vec2) {
	if a, ok := h.actors[id]; ok {
		a.pos = pos
	}
}

func (h *TerminalHost) SetTint(id spawn.ActorID, tint spawn.Tint) {
	if a, ok := h.actors[id]; ok {
		a.tint = tint
	}
}

// SetDepth orders overlapping actors; higher depths are drawn on top.
func (h *TerminalHost) SetDepth(id spawn.ActorID, depth int) {
	a, ok := h.actors[id]
	if !ok || a.depth == depth {
		return
	}
	a.depth = depth
	slices.SortStableFunc(h.order, func(x, y spawn.ActorID) int {
		return cmp.Compare(h.actors[x].depth, h.actors[y].depth)
	})
}

// SetTransform is accepted for interface parity; a terminal cell cannot
// rotate or scale.
func (h *TerminalHost) SetTransform(spawn.ActorID, float64, float64) {}

func (h *TerminalHost) CreateWidget(kind spawn.WidgetKind, owner spawn.ActorID, pos model.Vec2) spawn.WidgetID {
	h.nextID++
	id := spawn.WidgetID(h.nextID)
	h.widgets[id] = &widget{kind: kind, owner: owner, pos: pos}
	return id
}

func (h *TerminalHost) UpdateWidget(id spawn.WidgetID, pos model.Vec2, value float64, label string) {
	if w, ok := h.widgets[id]; ok {
		w.pos, w.value, w.label = pos, value, label
	}
}

func (h *TerminalHost) HideWidget(id spawn.WidgetID) {
	if w, ok := h.widgets[id]; ok {
		w.hidden = true
	}
}

func (h *TerminalHost) FadeWidget(id spawn.WidgetID, d time.Duration) {
	if w, ok := h.widgets[id]; ok {
		w.fadeUntil = h.clock.Now().Add(d)
	}
}

func (h *TerminalHost) DestroyWidget(id spawn.WidgetID) {
	delete(h.widgets, id)
}

func (h *TerminalHost) ShowBanner(text string, d time.Duration) {
	h.banner = text
	h.bannerUntil = h.clock.Now().Add(d)
}

// SetStatus sets the line drawn under the arena.
func (h *TerminalHost) SetStatus(text string) {
	h.status = text
}

// ActorCount returns the number of live actors.
func (h *TerminalHost) ActorCount() int {
	return len(h.actors)
}

// Draw renders the arena, widgets, actors and the banner, then shows the
// frame.
func (h *TerminalHost) Draw() {
	now := h.clock.Now()
	h.screen.Clear()
	h.drawBorder()

	// Shadows under everything else.
	for _, w := range h.widgets {
		if w.kind == spawn.WidgetShadow {
			h.drawWidget(w, now)
		}
	}
	for _, id := range h.order {
		h.drawActor(h.actors[id])
	}
	for _, w := range h.widgets {
		if w.kind != spawn.WidgetShadow {
			h.drawWidget(w, now)
		}
	}

	if h.banner != "" && now.Before(h.bannerUntil) {
		sw, _ := h.screen.Size()
		x := (sw - runewidth.StringWidth(h.banner)) / 2
		h.drawText(x, 0, h.banner, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}
	if h.status != "" {
		_, sh := h.screen.Size()
		h.drawText(0, sh-1, h.status, tcell.StyleDefault)
	}

	h.screen.Show()
}

// cell maps an arena position to a screen cell inside the border.
func (h *TerminalHost) cell(p model.Vec2) (int, int) {
	sw, sh := h.screen.Size()
	innerW, innerH := max(sw-2, 1), max(sh-3, 1)

	fx := (p.X - h.bounds.Min.X) / max(h.bounds.Width(), 1)
	fy := (p.Y - h.bounds.Min.Y) / max(h.bounds.Height(), 1)
	x := 1 + int(fx*float64(innerW-1)+0.5)
	y := 1 + int(fy*float64(innerH-1)+0.5)
	return x, y
}

func (h *TerminalHost) drawBorder() {
	sw, sh := h.screen.Size()
	bottom := sh - 2
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for x := 0; x < sw; x++ {
		h.screen.SetContent(x, 0, '─', nil, style)
		h.screen.SetContent(x, bottom, '─', nil, style)
	}
	for y := 0; y <= bottom; y++ {
		h.screen.SetContent(0, y, '│', nil, style)
		h.screen.SetContent(sw-1, y, '│', nil, style)
	}
}

func (h *TerminalHost) drawActor(a *actor) {
	style := tcell.StyleDefault
	switch a.tint {
	case spawn.TintDamage:
		style = style.Foreground(tcell.ColorRed)
	case spawn.TintShield:
		style = style.Foreground(tcell.ColorAqua)
	}
	if a.frozen {
		style = style.Bold(true)
	}

	glyph, ok := h.glyphs[a.key]
	if !ok || glyph == "" {
		glyph = PlaceholderGlyph
		style = style.Reverse(true)
	}
	if a.mirror {
		glyph = mirrorGlyph(glyph)
	}

	x, y := h.cell(a.pos)
	h.putGlyph(x, y, glyph, style)
}

func (h *TerminalHost) drawWidget(w *widget, now time.Time) {
	if w.hidden {
		return
	}
	style := tcell.StyleDefault
	if !w.fadeUntil.IsZero() {
		if !now.Before(w.fadeUntil) {
			return
		}
		style = style.Dim(true)
	}

	x, y := h.cell(w.pos)
	switch w.kind {
	case spawn.WidgetShadow:
		h.screen.SetContent(x, y+1, '.', nil, style.Foreground(tcell.ColorGray))
	case spawn.WidgetShieldBar:
		h.drawBar(x-1, y+1, w.value, style.Foreground(tcell.ColorAqua))
	case spawn.WidgetMarker:
		if w.label != "" {
			r := []rune(w.label)[0]
			h.screen.SetContent(x, y-1, r, nil, style.Foreground(tcell.ColorGreen))
		}
	case spawn.WidgetDebug:
		h.drawText(x+2, y, w.label, style.Foreground(tcell.ColorGray))
	}
}

func (h *TerminalHost) drawBar(x, y int, value float64, style tcell.Style) {
	const width = 3
	filled := int(value*width + 0.5)
	for i := range width {
		r := '·'
		if i < filled {
			r = '='
		}
		h.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (h *TerminalHost) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	h.screen.SetContent(x, y, runes[0], runes[1:], style)
	if runewidth.StringWidth(glyph) == 2 {
		h.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func (h *TerminalHost) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		h.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}

var mirrored = map[rune]rune{
	'<': '>', '>': '<',
	'(': ')', ')': '(',
	'/': '\\', '\\': '/',
	'[': ']', ']': '[',
	'{': '}', '}': '{',
}

// mirrorGlyph flips directional glyphs; others are returned unchanged.
func mirrorGlyph(glyph string) string {
	runes := []rune(glyph)
	for i, r := range runes {
		if m, ok := mirrored[r]; ok {
			runes[i] = m
		}
	}
	return string(runes)
}
