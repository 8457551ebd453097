package analysis

import (
	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/zodiac"
)

// Default significance thresholds, in percent. The dominance bounds differ
// per dimension because the dimensions have different category counts.
const (
	DefaultElementDominantPct  = 45.0
	DefaultModalityDominantPct = 60.0
	DefaultPolarityDominantPct = 70.0
	DefaultLackingPct          = 10.0
)

// BalanceThresholds is the significance policy for dominance and lack
// flags. Thresholds are policy, not physical law; they are injected from
// configuration rather than hardcoded at call sites.
type BalanceThresholds struct {
	ElementDominantPct  float64
	ModalityDominantPct float64
	PolarityDominantPct float64
	LackingPct          float64
}

// DefaultBalanceThresholds returns the engine default policy.
func DefaultBalanceThresholds() BalanceThresholds {
	return BalanceThresholds{
		ElementDominantPct:  DefaultElementDominantPct,
		ModalityDominantPct: DefaultModalityDominantPct,
		PolarityDominantPct: DefaultPolarityDominantPct,
		LackingPct:          DefaultLackingPct,
	}
}

// Tally is the membership statistics for one categorical dimension.
// Percentages sum to 100 when bodies are present and are all zero for an
// empty chart. Dominant is empty unless one category's share exceeds the
// dominance threshold; Lacking lists categories below the lacking
// threshold, in canonical category order.
type Tally struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	Dominant    string             `json:"dominant,omitempty"`
	Lacking     []string           `json:"lacking,omitempty"`
}

// Balance groups the three tallies computed for a chart.
type Balance struct {
	Elements   Tally `json:"element_balance"`
	Modalities Tally `json:"modality_balance"`
	Polarities Tally `json:"polarity_balance"`
}

// ComputeBalance tallies element, modality and polarity membership over
// every supplied body. Zero bodies produce all-zero percentages with no
// dominant or lacking flags.
func ComputeBalance(positions []chart.Position, th BalanceThresholds) Balance {
	elements := newTally(elementCategories())
	modalities := newTally(modalityCategories())
	polarities := newTally(polarityCategories())

	for _, p := range positions {
		elements.Counts[zodiac.ElementOf(p.Sign).String()]++
		modalities.Counts[zodiac.ModalityOf(p.Sign).String()]++
		polarities.Counts[zodiac.PolarityOf(p.Sign).String()]++
	}

	total := len(positions)
	finishTally(&elements, elementCategories(), total, th.ElementDominantPct, th.LackingPct)
	finishTally(&modalities, modalityCategories(), total, th.ModalityDominantPct, th.LackingPct)
	finishTally(&polarities, polarityCategories(), total, th.PolarityDominantPct, th.LackingPct)

	return Balance{Elements: elements, Modalities: modalities, Polarities: polarities}
}

func newTally(categories []string) Tally {
	t := Tally{
		Counts:      make(map[string]int, len(categories)),
		Percentages: make(map[string]float64, len(categories)),
	}
	for _, c := range categories {
		t.Counts[c] = 0
		t.Percentages[c] = 0
	}
	return t
}

// finishTally derives percentages and significance flags from raw counts.
func finishTally(t *Tally, categories []string, total int, dominantPct, lackingPct float64) {
	if total == 0 {
		return
	}
	bestPct, best := 0.0, ""
	for _, c := range categories {
		pct := 100 * float64(t.Counts[c]) / float64(total)
		t.Percentages[c] = pct
		if pct > bestPct {
			bestPct, best = pct, c
		}
		if pct < lackingPct {
			t.Lacking = append(t.Lacking, c)
		}
	}
	if bestPct > dominantPct {
		t.Dominant = best
	}
}

func elementCategories() []string {
	out := make([]string, 0, 4)
	for _, e := range zodiac.Elements() {
		out = append(out, e.String())
	}
	return out
}

func modalityCategories() []string {
	out := make([]string, 0, 3)
	for _, m := range zodiac.Modalities() {
		out = append(out, m.String())
	}
	return out
}

func polarityCategories() []string {
	out := make([]string, 0, 2)
	for _, p := range zodiac.Polarities() {
		out = append(out, p.String())
	}
	return out
}
