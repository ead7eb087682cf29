package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/bonkgamesio/bonkgames-sub000/internal/config"
	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
	"github.com/bonkgamesio/bonkgames-sub000/internal/render"
	"github.com/bonkgamesio/bonkgames-sub000/internal/schedule"
	"github.com/bonkgamesio/bonkgames-sub000/internal/spawn"
)

// Command is a sandbox key binding.
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdPause
	CmdFaster
	CmdSlower
	CmdFriendlyFire
	CmdSpawn
	CmdClear
)

const (
	minScale  = 0.125
	maxScale  = 4
	spawnEdge = 24
)

// keyToCommand maps a tcell key event to a sandbox command.
func keyToCommand(ev *tcell.EventKey) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyUp:
		return CmdFaster
	case tcell.KeyDown:
		return CmdSlower
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return CmdQuit
	case ' ', 'p', 'P':
		return CmdPause
	case '+', '=':
		return CmdFaster
	case '-', '_':
		return CmdSlower
	case 'f', 'F':
		return CmdFriendlyFire
	case 's', 'S':
		return CmdSpawn
	case 'c', 'C':
		return CmdClear
	}
	return CmdNone
}

// sandbox drives the simulation on its own clock. The clock only moves in
// step, so nothing comes due while paused.
type sandbox struct {
	cfg   config.Arena
	rng   model.Rand
	clock *schedule.ManualClock
	mgr   *spawn.Manager
	host  *render.TerminalHost

	paused       bool
	scale        float64
	friendlyFire bool
	factions     int
}

// apply runs cmd and reports whether the sandbox should exit.
func (s *sandbox) apply(cmd Command) bool {
	switch cmd {
	case CmdQuit:
		return true
	case CmdPause:
		s.paused = !s.paused
	case CmdFaster:
		s.setScale(s.scale * 2)
	case CmdSlower:
		s.setScale(s.scale / 2)
	case CmdFriendlyFire:
		s.friendlyFire = !s.friendlyFire
		s.mgr.SetFriendlyFire(s.friendlyFire)
	case CmdSpawn:
		s.spawnRandom()
	case CmdClear:
		s.mgr.DestroyAll()
	}
	return false
}

// step advances the clock by dt and updates the simulation unless paused.
func (s *sandbox) step(dt time.Duration) {
	if s.paused {
		return
	}
	s.mgr.Update(s.clock.Advance(dt), dt)
}

func (s *sandbox) setScale(scale float64) {
	s.scale = min(max(scale, minScale), maxScale)
	s.mgr.SetTimeScale(s.scale)
}

// spawnRandom drops a random archetype at a random point under a fresh
// faction.
func (s *sandbox) spawnRandom() {
	if len(s.cfg.Archetypes) == 0 {
		return
	}
	arch := s.cfg.Archetypes[s.rng.IntN(len(s.cfg.Archetypes))]
	pos := s.mgr.Arena().Bounds().RandomPoint(s.rng, spawnEdge)
	s.factions++

	_, err := s.mgr.Spawn(spawn.SpawnRequest{
		Position:  &pos,
		Archetype: arch.Name,
		Faction:   fmt.Sprintf("p%d", s.factions),
	})
	if err != nil {
		slog.Error("sandbox spawn failed", "archetype", arch.Name, "error", err)
	}
}

func (s *sandbox) status() string {
	state := "running"
	if s.paused {
		state = "paused"
	}
	ff := "off"
	if s.friendlyFire {
		ff = "on"
	}
	return fmt.Sprintf(" %s  agents:%d  speed:x%g  ff:%s  [q]uit [space]pause [+/-]speed [s]pawn [f]f [c]lear",
		state, s.mgr.Count(), s.scale, ff)
}
