package spawn

import (
	"log/slog"
	"math"
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/ai"
	"github.com/bonkgamesio/bonkgames-sub000/internal/anim"
	"github.com/bonkgamesio/bonkgames-sub000/internal/game/combat"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
)

// widgetSet holds the derived visual elements of one actor.
type widgetSet struct {
	shadows   []WidgetID
	shieldBar WidgetID
	marker    WidgetID
	debug     WidgetID

	hasShieldBar bool
	hasMarker    bool
	hasDebug     bool
}

// Handle is the logical identity of a spawned agent. The visual actor
// behind it may be replaced at any time; scheduled callbacks capture the
// handle and read the current actor when they fire.
type Handle struct {
	mgr    *Manager
	agent  *model.Agent
	brain  *ai.BehaviorAI
	weapon *combat.Weapon
	timers *schedule.Group

	actor    ActorID
	key      string
	mirror   bool
	depth    int
	rotation float64
	scale    float64
	widgets  widgetSet

	// Feedback tints are derived from these; tint is the last one applied.
	tint     Tint
	frozen   bool
	flashing bool

	freezeTok schedule.Token
	flashTok  schedule.Token

	origin       SpawnRequest
	lastAttacker string
	deathStarted bool
	destroyed    bool
}

// ObjectID returns the agent's object ID.
func (h *Handle) ObjectID() uint32 { return h.agent.ObjectID() }

// Agent returns the agent record.
func (h *Handle) Agent() *model.Agent { return h.agent }

// Weapon returns the agent's weapon.
func (h *Handle) Weapon() *combat.Weapon { return h.weapon }

// Actor returns the current visual actor.
func (h *Handle) Actor() ActorID { return h.actor }

// Key returns the resource key currently playing.
func (h *Handle) Key() string { return h.key }

// IsDying reports whether the death sequence is running.
func (h *Handle) IsDying() bool { return h.agent.IsDying() }

// IsDead reports whether the agent has finished dying or was destroyed.
func (h *Handle) IsDead() bool { return h.agent.IsDead() }

// ReceiveHit applies amount through the damage model and reacts to the
// outcome. Safe to call any number of times per frame; the damage
// cooldown drops repeats of the same physical contact.
func (h *Handle) ReceiveHit(amount int32) combat.Outcome {
	if h.destroyed {
		return combat.OutcomeIgnored
	}
	m := h.mgr
	now := m.sched.Now()
	a := h.agent

	out := combat.ApplyDamage(a, amount, now, m.cfg.Lifecycle.HitCooldown)
	if out == combat.OutcomeIgnored {
		return out
	}

	m.emit(model.CombatEvent{
		Kind:      model.EventHit,
		At:        now,
		AgentID:   a.ObjectID(),
		Archetype: a.Archetype().Name,
		Faction:   a.Faction(),
		Position:  a.Position(),
		Amount:    amount,
		Outcome:   out.String(),
		Health:    a.Health(),
		Shield:    a.Shield(),
	})

	switch out {
	case combat.OutcomeAbsorbed:
		h.replaceActor()
	case combat.OutcomeReduced:
		h.flash()
	case combat.OutcomeLethal:
		h.startDeath(now)
	}
	return out
}

// Destroy tears the agent down immediately: pending callbacks are
// cancelled, widgets and the actor are destroyed without fading and the
// agent leaves the arena. Idempotent.
func (h *Handle) Destroy() {
	if h.destroyed {
		return
	}
	h.timers.CancelAll()
	h.mgr.ticks.Unregister(h.ObjectID())
	h.destroyWidgets()
	h.mgr.host.DestroyActor(h.actor)
	h.agent.MarkDead()
	h.remove()

	slog.Info("agent destroyed", "agent", h.ObjectID())
}

// Snapshot returns the current presentation state.
func (h *Handle) Snapshot() PresentationSnapshot { return h.capture() }

// capture records the current presentation.
func (h *Handle) capture() PresentationSnapshot {
	a := h.agent
	return PresentationSnapshot{
		Position:  a.Position(),
		Velocity:  a.Velocity(),
		Direction: a.Direction(),
		State:     a.State(),
		Key:       h.key,
		Mirror:    h.mirror,
		Depth:     h.depth,
		Rotation:  h.rotation,
		Scale:     h.scale,
		Tint:      h.tint,
	}
}

// restore applies a snapshot to the current actor. Velocity, direction and
// state belong to the agent record and survive the swap on their own.
func (h *Handle) restore(s PresentationSnapshot) {
	host := h.mgr.host
	h.key, h.mirror = s.Key, s.Mirror
	h.depth, h.rotation, h.scale = s.Depth, s.Rotation, s.Scale
	host.Play(h.actor, s.Key, s.Mirror)
	host.Apply(h.actor, s.Position)
	host.SetDepth(h.actor, s.Depth)
	host.SetTransform(h.actor, s.Rotation, s.Scale)
	h.tint = s.Tint
	host.SetTint(h.actor, s.Tint)
}

// feedbackTint is the tint the actor should show right now: the shield
// tint while frozen, the damage tint while flashing, nothing otherwise.
func (h *Handle) feedbackTint() Tint {
	switch {
	case h.frozen:
		return TintShield
	case h.flashing:
		return TintDamage
	default:
		return TintNone
	}
}

func (h *Handle) applyTint() {
	h.tint = h.feedbackTint()
	h.mgr.host.SetTint(h.actor, h.tint)
}

func depthOf(p model.Vec2) int {
	return int(math.Floor(p.Y))
}

// replaceActor swaps the visual actor after a shield hit: capture, destroy,
// recreate, restore, then hold on a static tinted frame for FreezeDuration
// before resuming.
func (h *Handle) replaceActor() {
	m := h.mgr
	host := m.host

	snap := h.capture()
	bar := h.widgets.hasShieldBar
	h.destroyWidgets()
	host.DestroyActor(h.actor)

	h.actor = host.CreateActor(snap.Key, snap.Position)
	h.restore(snap)
	h.attachWidgets(bar)

	h.frozen = true
	host.Freeze(h.actor, true)
	h.applyTint()

	h.timers.Cancel(h.freezeTok)
	h.freezeTok = h.timers.After(m.cfg.Lifecycle.FreezeDuration, func() {
		h.frozen = false
		host.Freeze(h.actor, false)
		h.applyTint()
		if snap.Key != "" {
			host.Play(h.actor, snap.Key, snap.Mirror)
			h.key, h.mirror = snap.Key, snap.Mirror
			return
		}
		h.present(m.sched.Now())
	})

	slog.Debug("actor replaced after shield hit",
		"agent", h.ObjectID(),
		"actor", h.actor,
		"shield", h.agent.Shield())
}

// flash tints the actor briefly after a health hit. A running freeze keeps
// its shield tint; the flash shows once the freeze ends if it is still on.
func (h *Handle) flash() {
	h.flashing = true
	h.applyTint()

	h.timers.Cancel(h.flashTok)
	h.flashTok = h.timers.After(h.mgr.cfg.Lifecycle.FlashDuration, func() {
		h.flashing = false
		h.applyTint()
	})
}

// startDeath runs the death timeline exactly once: death frames at the
// archetype's fixed frame duration, then the victory banner, then widget
// release, then removal.
func (h *Handle) startDeath(now time.Time) {
	if h.deathStarted || !h.agent.MarkDying() {
		return
	}
	h.deathStarted = true

	m := h.mgr
	host := m.host
	a := h.agent
	arch := a.Archetype()

	// Reloads, teleports, flashes and freezes of the living agent become
	// stale from here on.
	h.timers.CancelAll()
	m.ticks.Unregister(a.ObjectID())
	h.frozen, h.flashing = false, false
	host.Freeze(h.actor, false)
	h.applyTint()

	m.emit(model.CombatEvent{
		Kind:      model.EventDeath,
		At:        now,
		AgentID:   a.ObjectID(),
		Archetype: arch.Name,
		Faction:   a.Faction(),
		Position:  a.Position(),
	})
	slog.Info("agent died",
		"agent", a.ObjectID(),
		"archetype", arch.Name,
		"killer_faction", h.lastAttacker)

	step := arch.DeathFrameDuration
	for i, key := range arch.DeathFrames {
		h.timers.After(step*time.Duration(i), func() {
			h.key = key
			host.Play(h.actor, key, h.mirror)
		})
	}

	total := step * time.Duration(len(arch.DeathFrames))
	h.timers.After(total, func() {
		host.ShowBanner(h.bannerText(), m.cfg.Lifecycle.BannerDuration)
		h.releaseWidgets()
		h.timers.After(m.cfg.Lifecycle.FadeDuration, h.finish)
	})
}

func (h *Handle) bannerText() string {
	if h.lastAttacker == "" {
		return "VICTORY"
	}
	return "VICTORY: " + h.lastAttacker
}

// finish ends the death timeline.
func (h *Handle) finish() {
	if h.destroyed {
		return
	}
	h.destroyWidgets()
	h.mgr.host.DestroyActor(h.actor)
	h.agent.MarkDead()
	h.remove()
	h.mgr.scheduleRespawn(h.origin)
}

// remove detaches the handle from the manager and the arena.
func (h *Handle) remove() {
	m := h.mgr
	h.destroyed = true
	m.arena.RemoveAgent(h.ObjectID())
	delete(m.handles, h.ObjectID())

	m.emit(model.CombatEvent{
		Kind:      model.EventDespawn,
		At:        m.sched.Now(),
		AgentID:   h.ObjectID(),
		Archetype: h.agent.Archetype().Name,
		Faction:   h.agent.Faction(),
		Position:  h.agent.Position(),
	})
}

// attachWidgets creates the derived visual elements for the current actor.
// A shield bar, once shown, stays for the agent's lifetime even when empty.
func (h *Handle) attachWidgets(shieldBar bool) {
	m := h.mgr
	host := m.host
	a := h.agent
	pos := a.Position()

	h.widgets = widgetSet{}
	for range a.Archetype().ShadowCasters {
		h.widgets.shadows = append(h.widgets.shadows, host.CreateWidget(WidgetShadow, h.actor, pos))
	}
	if shieldBar {
		h.widgets.shieldBar = host.CreateWidget(WidgetShieldBar, h.actor, pos)
		h.widgets.hasShieldBar = true
	}
	if a.Faction() != "" {
		h.widgets.marker = host.CreateWidget(WidgetMarker, h.actor, pos)
		h.widgets.hasMarker = true
	}
	if m.cfg.DebugOverlay {
		h.widgets.debug = host.CreateWidget(WidgetDebug, h.actor, pos)
		h.widgets.hasDebug = true
	}
	h.followWidgets()
}

// releaseWidgets hides bars immediately and fades shadows, markers and the
// overlay; everything is destroyed once the fade is over.
func (h *Handle) releaseWidgets() {
	host := h.mgr.host
	fade := h.mgr.cfg.Lifecycle.FadeDuration
	w := &h.widgets

	if w.hasShieldBar {
		host.HideWidget(w.shieldBar)
	}
	for _, id := range w.shadows {
		host.FadeWidget(id, fade)
	}
	if w.hasMarker {
		host.FadeWidget(w.marker, fade)
	}
	if w.hasDebug {
		host.FadeWidget(w.debug, fade)
	}
}

func (h *Handle) destroyWidgets() {
	host := h.mgr.host
	w := &h.widgets

	for _, id := range w.shadows {
		host.DestroyWidget(id)
	}
	if w.hasShieldBar {
		host.DestroyWidget(w.shieldBar)
	}
	if w.hasMarker {
		host.DestroyWidget(w.marker)
	}
	if w.hasDebug {
		host.DestroyWidget(w.debug)
	}
	h.widgets = widgetSet{}
}

// followWidgets keeps widgets on the agent and refreshes their values.
func (h *Handle) followWidgets() {
	host := h.mgr.host
	a := h.agent
	pos := a.Position()
	w := &h.widgets

	for _, id := range w.shadows {
		host.UpdateWidget(id, pos, 1, "")
	}
	if w.hasShieldBar {
		var v float64
		if maxShield := a.Archetype().MaxShield; maxShield > 0 {
			v = float64(a.Shield()) / float64(maxShield)
		}
		host.UpdateWidget(w.shieldBar, pos, v, "")
	}
	if w.hasMarker {
		host.UpdateWidget(w.marker, pos, 1, a.Faction())
	}
	if w.hasDebug {
		host.UpdateWidget(w.debug, pos, float64(a.Health())/float64(a.Archetype().MaxHealth), a.State().String())
	}
}

// present resolves and plays the animation for this tick and keeps every
// position-following element on the agent. Dying agents only follow.
func (h *Handle) present(now time.Time) {
	if h.destroyed {
		return
	}
	m := h.mgr
	a := h.agent

	m.host.Apply(h.actor, a.Position())
	if d := depthOf(a.Position()); d != h.depth {
		h.depth = d
		m.host.SetDepth(h.actor, d)
	}
	h.followWidgets()

	if !a.IsAlive() || h.frozen {
		return
	}

	req := anim.Request{
		Archetype:     a.Archetype().Name,
		Direction:     a.Direction(),
		Activity:      anim.ActivityIdle,
		CurrentKey:    h.key,
		CurrentMirror: h.mirror,
		Position:      a.Position(),
	}
	if !a.Velocity().IsZero() {
		req.Activity = anim.ActivityMove
	}
	if pos, ok := m.targetPosition(a); ok {
		req.TargetPos, req.HasTarget = pos, true
	}

	res := m.director.Present(req)
	if !res.Changed {
		return
	}
	h.key, h.mirror = res.Key, res.Mirror
	m.host.Play(h.actor, res.Key, res.Mirror)

	if res.Lively && ai.IsDebugEnabled() {
		slog.Debug("liveliness override", "agent", a.ObjectID(), "key", res.Key, "at", now)
	}
}
