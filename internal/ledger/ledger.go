// Package ledger tracks a character's consumable resource pools: spell
// slots, sorcery points, rage charges, per-rest uses. Pool current values
// are genuine runtime state and survive snapshot recomputation; maximums
// are re-derived from the declared specs whenever level or build changes.
package ledger

import (
	"fmt"
	"sort"

	"github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/formula"
	"github.com/toonforge/toonforge/internal/resolver"
	"github.com/toonforge/toonforge/internal/rulebook"
)

// Ledger owns one ResourcePool per declared resource mechanic on a
// resolved feature. Not safe for concurrent use: the owning character
// serializes access.
type Ledger struct {
	pools       map[string]*ResourcePool
	conversions map[string]rulebook.ConversionRate
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		pools:       make(map[string]*ResourcePool),
		conversions: make(map[string]rulebook.ConversionRate),
	}
}

// Rebuild reconciles the ledger against a freshly resolved feature set.
// New pools start full; surviving pools keep their current value, clamped
// to the recomputed maximum; pools no longer granted are dropped.
func (l *Ledger) Rebuild(features []resolver.ResolvedFeature, level int, snap formula.Snapshot) error {
	next := make(map[string]*ResourcePool)
	conversions := make(map[string]rulebook.ConversionRate)

	for i := range features {
		feat := &features[i]
		if feat.Inactive || feat.Mechanics == nil {
			continue
		}
		m := feat.Mechanics

		// Scaling tables resolve at the owning class's level when the
		// resolver recorded one; racial traits fall back to total level
		atLevel := feat.ResolvedLevel
		if atLevel == 0 {
			atLevel = level
		}

		switch m.Type {
		case rulebook.MechanicResource:
			if err := l.buildPool(next, m.Resource, feat.Name, atLevel, snap); err != nil {
				return err
			}
			for _, conv := range m.Conversions {
				conversions[conv.Name] = conv
			}

		case rulebook.MechanicSpellcasting:
			for slotLevel, table := range m.SpellSlots {
				count, active := table.ValueAt(atLevel)
				if !active {
					continue
				}
				spec := &rulebook.ResourceSpec{
					Name:     SpellSlotPool(slotLevel),
					Maximum:  rulebook.LiteralAmount(count),
					Recovery: rulebook.RestLong,
				}
				if err := l.buildPool(next, spec, feat.Name, atLevel, snap); err != nil {
					return err
				}
			}

		case rulebook.MechanicResourceImprovement:
			// Improvements retune an existing pool's recovery; the pool
			// itself must have been granted by an earlier feature
			if err := l.buildPool(next, m.Resource, feat.Name, atLevel, snap); err != nil {
				return err
			}

		case rulebook.MechanicAction, rulebook.MechanicReaction:
			if m.Uses == nil {
				continue
			}
			spec := &rulebook.ResourceSpec{
				Name:     UsesPool(feat.Name),
				Maximum:  m.Uses.Amount,
				Recovery: m.Uses.Recovery,
			}
			if err := l.buildPool(next, spec, feat.Name, atLevel, snap); err != nil {
				return err
			}
		}
	}

	l.pools = next
	l.conversions = conversions
	return l.checkInvariants()
}

// buildPool creates or updates one pool from its spec. A spec whose
// scaling table is not yet active at this level grants nothing.
func (l *Ledger) buildPool(next map[string]*ResourcePool, spec *rulebook.ResourceSpec, source string, level int, snap formula.Snapshot) error {
	if spec == nil || spec.Name == "" {
		return nil
	}

	maximum, active, err := formula.EvaluateAmount(spec.Maximum, level, snap)
	if err != nil {
		return errors.Wrapf(err, "pool %s from feature %s", spec.Name, source)
	}
	if !active {
		return nil
	}

	pool, exists := next[spec.Name]
	if !exists {
		if prior, ok := l.pools[spec.Name]; ok {
			// Surviving pool: keep its runtime current value
			pool = prior
		} else {
			pool = &ResourcePool{Name: spec.Name, Current: maximum}
		}
		next[spec.Name] = pool
	}

	pool.Source = source
	pool.MaximumSpec = spec.Maximum
	pool.Recovery = spec.Recovery
	pool.SetMaximum(maximum)

	if spec.RecoverAmount != "" {
		pool.PartialAmount = spec.RecoverAmount
		pool.PartialOn = spec.RecoverOn
		if pool.PartialOn == "" {
			pool.PartialOn = spec.Recovery
		}
	} else {
		// A surviving pool must not carry a partial rule its current
		// feature set no longer declares
		pool.PartialAmount = ""
		pool.PartialOn = ""
	}
	return nil
}

// SpellSlotPool names the pool backing spell slots of one level
func SpellSlotPool(slotLevel int) string {
	return fmt.Sprintf("spell_slots_%d", slotLevel)
}

// UsesPool names the per-rest uses pool of an action feature
func UsesPool(featureName string) string {
	return fmt.Sprintf("%s_uses", toSnake(featureName))
}

// Pool returns the named pool, or an error when it does not exist
func (l *Ledger) Pool(name string) (*ResourcePool, error) {
	pool, ok := l.pools[name]
	if !ok {
		return nil, errors.NotFoundf("no resource pool named %q", name)
	}
	return pool, nil
}

// Pools returns every pool sorted by name for stable output
func (l *Ledger) Pools() []*ResourcePool {
	out := make([]*ResourcePool, 0, len(l.pools))
	for _, pool := range l.pools {
		out = append(out, pool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Conversions returns the declared conversion rates sorted by name
func (l *Ledger) Conversions() []rulebook.ConversionRate {
	out := make([]rulebook.ConversionRate, 0, len(l.conversions))
	for _, conv := range l.conversions {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GrantMaximumForLevel re-evaluates every pool's maximum at the given
// level, clamping current values down where the maximum shrank
func (l *Ledger) GrantMaximumForLevel(level int, snap formula.Snapshot) error {
	for _, pool := range l.pools {
		if pool.MaximumSpec.IsZero() {
			continue
		}
		maximum, active, err := formula.EvaluateAmount(pool.MaximumSpec, level, snap)
		if err != nil {
			return errors.Wrapf(err, "recomputing maximum of %s", pool.Name)
		}
		if !active {
			maximum = 0
		}
		pool.SetMaximum(maximum)
	}
	return l.checkInvariants()
}

// SetCurrent restores a persisted current value, clamped to the pool's
// bounds. Pools that no longer exist after a rulebook change are skipped:
// stale state must not brick a load.
func (l *Ledger) SetCurrent(name string, current int) {
	pool, ok := l.pools[name]
	if !ok {
		return
	}
	if current < 0 {
		current = 0
	}
	if current > pool.Maximum {
		current = pool.Maximum
	}
	pool.Current = current
}

// Spend decrements the named pool, failing with InsufficientResource and
// no mutation when it holds less than requested
func (l *Ledger) Spend(name string, amount int) error {
	pool, err := l.Pool(name)
	if err != nil {
		return err
	}
	return pool.Spend(amount)
}

// Recover refills pools whose recovery rule matches the rest tier.
// Pools with a partial recovery rule regain their formula amount instead,
// clamped to maximum, and only on their declared tier.
func (l *Ledger) Recover(tier rulebook.RestTier, snap formula.Snapshot) error {
	for _, pool := range l.pools {
		if pool.PartialAmount != "" {
			if tier == pool.PartialOn {
				amount, err := formula.Evaluate(pool.PartialAmount, snap)
				if err != nil {
					return errors.Wrapf(err, "partial recovery of %s", pool.Name)
				}
				pool.Grant(amount)
			} else if pool.recoversOn(tier) {
				pool.Refill()
			}
			continue
		}
		if pool.recoversOn(tier) {
			pool.Refill()
		}
	}
	return l.checkInvariants()
}

// Convert runs one declared paired exchange: debit the source pool, credit
// the destination. All-or-nothing: a failed credit rolls the debit back.
func (l *Ledger) Convert(name string) error {
	rate, ok := l.conversions[name]
	if !ok {
		return errors.NotFoundf("no conversion named %q", name)
	}

	from, err := l.Pool(rate.FromPool)
	if err != nil {
		return err
	}
	to, err := l.Pool(rate.ToPool)
	if err != nil {
		return err
	}

	if err := from.Spend(rate.FromAmount); err != nil {
		return err
	}
	if gained := to.Grant(rate.ToAmount); gained == 0 {
		// Destination already full: roll the debit back so the ledger
		// never shows a debit without its credit
		from.Grant(rate.FromAmount)
		return errors.InvalidArgumentf("pool %s is already full", rate.ToPool).
			WithMeta("conversion", name)
	}
	return l.checkInvariants()
}

func (l *Ledger) checkInvariants() error {
	for _, pool := range l.pools {
		if err := pool.checkInvariant(); err != nil {
			return err
		}
	}
	return nil
}

func toSnake(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
