package combat

import (
	"time"

	"github.com/bonkgamesio/bonkgames-sub000/internal/model"
)

// DefaultHitCooldown is the window after an applied hit during which
// further hits are discarded. One physical overlap spans several frames;
// without the window it would be counted once per frame.
const DefaultHitCooldown = 120 * time.Millisecond

// Outcome is the resolved result of one damage application.
type Outcome int32

const (
	// OutcomeIgnored - hit discarded (dying/dead, cooldown, non-positive amount)
	OutcomeIgnored Outcome = iota
	// OutcomeAbsorbed - shield took the whole hit, health untouched
	OutcomeAbsorbed
	// OutcomeReduced - health reduced, agent survives
	OutcomeReduced
	// OutcomeLethal - health reached zero
	OutcomeLethal
)

// String returns human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAbsorbed:
		return "absorbed"
	case OutcomeReduced:
		return "reduced"
	case OutcomeLethal:
		return "lethal"
	default:
		return "unknown"
	}
}

// ApplyDamage applies amount to the agent's two-layer defense.
//
// A non-empty shield consumes the whole hit: shield is reduced (floored at
// zero) and health is not touched even when amount exceeds what was left
// of the shield. Damage never carries over from shield into health within
// the same hit. Only with the shield already empty does health drop.
//
// Every applied hit opens a cooldown window of the given length.
func ApplyDamage(a *model.Agent, amount int32, now time.Time, cooldown time.Duration) Outcome {
	if amount <= 0 || !a.IsAlive() || a.RecentlyDamaged(now) {
		return OutcomeIgnored
	}

	a.SetDamageCooldownUntil(now.Add(cooldown))

	if shield := a.Shield(); shield > 0 {
		a.SetShield(shield - amount)
		return OutcomeAbsorbed
	}

	a.SetHealth(a.Health() - amount)
	if a.Health() == 0 {
		return OutcomeLethal
	}
	return OutcomeReduced
}
