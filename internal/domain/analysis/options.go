package analysis

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithOrbTable replaces the orb table.
func WithOrbTable(t OrbTable) Option {
	return func(a *Analyzer) {
		if t.maxOrb != nil {
			a.orbs = t
		}
	}
}

// WithDignityTable replaces the dignity table. The table must already be
// validated; NewDignityTable is the only constructor.
func WithDignityTable(t DignityTable) Option {
	return func(a *Analyzer) {
		if t.rules != nil {
			a.dignities = t
		}
	}
}

// WithBalanceThresholds sets the dominance and lacking significance policy.
// Non-positive fields keep their defaults.
func WithBalanceThresholds(th BalanceThresholds) Option {
	return func(a *Analyzer) {
		if th.ElementDominantPct > 0 {
			a.thresholds.ElementDominantPct = th.ElementDominantPct
		}
		if th.ModalityDominantPct > 0 {
			a.thresholds.ModalityDominantPct = th.ModalityDominantPct
		}
		if th.PolarityDominantPct > 0 {
			a.thresholds.PolarityDominantPct = th.PolarityDominantPct
		}
		if th.LackingPct > 0 {
			a.thresholds.LackingPct = th.LackingPct
		}
	}
}

// WithStrictGrandTrines requires grand trine members to share one element.
// When unset, mixed-element trines are reported with the "mixed" label.
func WithStrictGrandTrines(strict bool) Option {
	return func(a *Analyzer) {
		a.strictTrines = strict
	}
}

// WithAngleAspects includes the Ascendant and Midheaven in pairwise aspect
// detection. Angles never join pattern or shape detection.
func WithAngleAspects(include bool) Option {
	return func(a *Analyzer) {
		a.includeAngles = include
	}
}
