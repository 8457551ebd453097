package analysis

import (
	"fmt"

	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/zodiac"
)

// DignityState is a body's essential condition in its sign.
type DignityState int

// Dignity states in evaluation priority order. A sign is checked against
// domicile first and fall last; a body matching none is peregrine.
const (
	Domicile DignityState = iota
	Exaltation
	Detriment
	Fall
	Peregrine
)

var dignityNames = [...]string{"domicile", "exaltation", "detriment", "fall", "peregrine"}

// String returns the serialized dignity state name.
func (s DignityState) String() string {
	if s < 0 || int(s) >= len(dignityNames) {
		return "unknown"
	}
	return dignityNames[s]
}

// DignityRule lists the signs granting each dignity state to one body.
// Several bodies rule or fall in more than one sign, so every category is
// a set.
type DignityRule struct {
	Domicile   []zodiac.Sign
	Exaltation []zodiac.Sign
	Detriment  []zodiac.Sign
	Fall       []zodiac.Sign
}

func (r DignityRule) stateOf(sign zodiac.Sign) DignityState {
	switch {
	case containsSign(r.Domicile, sign):
		return Domicile
	case containsSign(r.Exaltation, sign):
		return Exaltation
	case containsSign(r.Detriment, sign):
		return Detriment
	case containsSign(r.Fall, sign):
		return Fall
	default:
		return Peregrine
	}
}

func containsSign(signs []zodiac.Sign, s zodiac.Sign) bool {
	for _, v := range signs {
		if v == s {
			return true
		}
	}
	return false
}

// DignityTable maps bodies to their dignity rules. It is immutable after
// construction and shared across concurrent analyses. Bodies without a
// rule (the nodes, Chiron) are always peregrine.
type DignityTable struct {
	rules map[chart.Body]DignityRule
}

// NewDignityTable builds the default table covering the modern rulerships
// and validates it: every core planet must carry a rule, and every sign in
// a rule must be valid. A malformed table fails here, at load time, rather
// than during a request.
func NewDignityTable() (DignityTable, error) {
	t := DignityTable{rules: map[chart.Body]DignityRule{
		chart.Sun: {
			Domicile:   []zodiac.Sign{zodiac.Leo},
			Exaltation: []zodiac.Sign{zodiac.Aries},
			Detriment:  []zodiac.Sign{zodiac.Aquarius},
			Fall:       []zodiac.Sign{zodiac.Libra},
		},
		chart.Moon: {
			Domicile:   []zodiac.Sign{zodiac.Cancer},
			Exaltation: []zodiac.Sign{zodiac.Taurus},
			Detriment:  []zodiac.Sign{zodiac.Capricorn},
			Fall:       []zodiac.Sign{zodiac.Scorpio},
		},
		chart.Mercury: {
			Domicile:   []zodiac.Sign{zodiac.Gemini, zodiac.Virgo},
			Exaltation: []zodiac.Sign{zodiac.Virgo},
			Detriment:  []zodiac.Sign{zodiac.Sagittarius, zodiac.Pisces},
			Fall:       []zodiac.Sign{zodiac.Pisces},
		},
		chart.Venus: {
			Domicile:   []zodiac.Sign{zodiac.Taurus, zodiac.Libra},
			Exaltation: []zodiac.Sign{zodiac.Pisces},
			Detriment:  []zodiac.Sign{zodiac.Scorpio, zodiac.Aries},
			Fall:       []zodiac.Sign{zodiac.Virgo},
		},
		chart.Mars: {
			Domicile:   []zodiac.Sign{zodiac.Aries, zodiac.Scorpio},
			Exaltation: []zodiac.Sign{zodiac.Capricorn},
			Detriment:  []zodiac.Sign{zodiac.Libra, zodiac.Taurus},
			Fall:       []zodiac.Sign{zodiac.Cancer},
		},
		chart.Jupiter: {
			Domicile:   []zodiac.Sign{zodiac.Sagittarius, zodiac.Pisces},
			Exaltation: []zodiac.Sign{zodiac.Cancer},
			Detriment:  []zodiac.Sign{zodiac.Gemini, zodiac.Virgo},
			Fall:       []zodiac.Sign{zodiac.Capricorn},
		},
		chart.Saturn: {
			Domicile:   []zodiac.Sign{zodiac.Capricorn, zodiac.Aquarius},
			Exaltation: []zodiac.Sign{zodiac.Libra},
			Detriment:  []zodiac.Sign{zodiac.Cancer, zodiac.Leo},
			Fall:       []zodiac.Sign{zodiac.Aries},
		},
		chart.Uranus: {
			Domicile:   []zodiac.Sign{zodiac.Aquarius},
			Exaltation: []zodiac.Sign{zodiac.Scorpio},
			Detriment:  []zodiac.Sign{zodiac.Leo},
			Fall:       []zodiac.Sign{zodiac.Taurus},
		},
		chart.Neptune: {
			Domicile:   []zodiac.Sign{zodiac.Pisces},
			Exaltation: []zodiac.Sign{zodiac.Leo},
			Detriment:  []zodiac.Sign{zodiac.Virgo},
			Fall:       []zodiac.Sign{zodiac.Aquarius},
		},
		chart.Pluto: {
			Domicile:   []zodiac.Sign{zodiac.Scorpio},
			Exaltation: []zodiac.Sign{zodiac.Aries},
			Detriment:  []zodiac.Sign{zodiac.Taurus},
			Fall:       []zodiac.Sign{zodiac.Libra},
		},
	}}
	if err := t.validate(); err != nil {
		return DignityTable{}, err
	}
	return t, nil
}

func (t DignityTable) validate() error {
	for _, b := range chart.CorePlanets() {
		rule, ok := t.rules[b]
		if !ok {
			return fmt.Errorf("%w: no rule for %s", ErrBadDignityTable, b)
		}
		for _, signs := range [][]zodiac.Sign{rule.Domicile, rule.Exaltation, rule.Detriment, rule.Fall} {
			if len(signs) == 0 {
				return fmt.Errorf("%w: incomplete rule for %s", ErrBadDignityTable, b)
			}
			for _, s := range signs {
				if !s.Valid() {
					return fmt.Errorf("%w: invalid sign %d for %s", ErrBadDignityTable, s, b)
				}
			}
		}
	}
	return nil
}

// Lookup returns the dignity state of a body placed in a sign.
func (t DignityTable) Lookup(b chart.Body, sign zodiac.Sign) DignityState {
	rule, ok := t.rules[b]
	if !ok {
		return Peregrine
	}
	return rule.stateOf(sign)
}

// EvaluateDignities returns the dignity state of every chart body, keyed
// by body name.
func EvaluateDignities(positions []chart.Position, table DignityTable) map[string]string {
	out := make(map[string]string, len(positions))
	for _, p := range positions {
		out[p.Body.String()] = table.Lookup(p.Body, p.Sign).String()
	}
	return out
}
