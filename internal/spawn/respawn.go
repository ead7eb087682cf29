package spawn

import (
	"log/slog"
)

// scheduleRespawn brings a dead agent back after the configured respawn
// delay. The new agent starts a new episode: survivors that were
// celebrating their win go back to fighting.
func (m *Manager) scheduleRespawn(req SpawnRequest) {
	delay := m.cfg.Lifecycle.RespawnDelay
	if delay <= 0 {
		return
	}

	m.respawns.After(delay, func() {
		h, err := m.Spawn(req)
		if err != nil {
			slog.Error("respawning agent",
				"archetype", req.Archetype,
				"faction", req.Faction,
				"error", err)
			return
		}

		for _, other := range m.Handles() {
			a := other.Agent()
			if a.IsVictorious() && a.Faction() != req.Faction {
				a.ResetVictory()
			}
		}

		slog.Info("agent respawned",
			"agent", h.ObjectID(),
			"archetype", req.Archetype,
			"faction", req.Faction)
	})
}
