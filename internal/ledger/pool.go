package ledger

import (
	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// ResourcePool is one consumable quantity owned by a character. The
// invariant 0 <= Current <= Maximum holds before and after every
// mutation; violations clamp, never go negative or over max.
type ResourcePool struct {
	Name    string `json:"name"`
	Current int    `json:"current"`
	Maximum int    `json:"maximum"`

	// Recovery is the rest tier that refills the pool. Short-rest pools
	// refill on both tiers, long-rest pools only on a long rest.
	Recovery rulebook.RestTier `json:"recovery"`

	// PartialAmount, when set, is a formula for partial recovery: the
	// pool regains that many instead of refilling to Maximum
	PartialAmount string `json:"partial_amount,omitempty"`

	// PartialOn is the rest tier that triggers partial recovery
	PartialOn rulebook.RestTier `json:"partial_on,omitempty"`

	// MaximumSpec is the declared maximum, re-evaluated on level change
	MaximumSpec rulebook.Amount `json:"maximum_spec,omitempty"`

	// Source is the feature that granted the pool, for diagnostics
	Source string `json:"source,omitempty"`
}

// SetMaximum applies a freshly computed maximum, clamping Current so a
// de-level or build change never leaves the pool artificially full
func (p *ResourcePool) SetMaximum(maximum int) {
	if maximum < 0 {
		maximum = 0
	}
	p.Maximum = maximum
	if p.Current > p.Maximum {
		p.Current = p.Maximum
	}
	if p.Current < 0 {
		p.Current = 0
	}
}

// Spend decrements the pool. Fails with InsufficientResource and no
// mutation when the pool holds less than the requested amount.
func (p *ResourcePool) Spend(amount int) error {
	if amount < 0 {
		return errors.InvalidArgumentf("cannot spend a negative amount of %s", p.Name)
	}
	if p.Current < amount {
		return errors.InsufficientResourcef("%s has %d remaining, %d requested", p.Name, p.Current, amount).
			WithMeta("pool", p.Name).
			WithMeta("current", p.Current).
			WithMeta("requested", amount)
	}
	p.Current -= amount
	return nil
}

// Grant adds to the pool, clamped to Maximum. Returns how much was
// actually gained.
func (p *ResourcePool) Grant(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := p.Current
	p.Current += amount
	if p.Current > p.Maximum {
		p.Current = p.Maximum
	}
	return p.Current - before
}

// Refill sets the pool back to its maximum
func (p *ResourcePool) Refill() {
	p.Current = p.Maximum
}

// recoversOn reports whether a full refill applies at the given tier:
// short-rest pools recover on both tiers, long-rest pools only on long
func (p *ResourcePool) recoversOn(tier rulebook.RestTier) bool {
	switch p.Recovery {
	case rulebook.RestShort:
		return tier == rulebook.RestShort || tier == rulebook.RestLong
	case rulebook.RestLong:
		return tier == rulebook.RestLong
	default:
		return false
	}
}

// checkInvariant reports a defect when the pool's bounds broke outside
// its own mutation methods
func (p *ResourcePool) checkInvariant() error {
	if p.Current < 0 || p.Current > p.Maximum {
		return errors.InvariantViolationf(
			"pool %s holds %d outside [0, %d]", p.Name, p.Current, p.Maximum)
	}
	return nil
}
