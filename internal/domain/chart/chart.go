// Package chart contains the immutable chart value objects passed between
// layers. A Chart is built once from upstream ephemeris output, validated
// for completeness, and never mutated afterwards.
package chart

import (
	"fmt"

	"github.com/astrium/natal/internal/domain/zodiac"
)

// House numbering bounds.
const (
	FirstHouse = 1
	LastHouse  = 12
	HouseCount = 12
)

// Body identifies a celestial body tracked by the engine.
type Body int

// Bodies in canonical order. The canonical order is the iteration order
// used everywhere aspects or patterns are produced, which keeps analysis
// output deterministic for a given chart.
const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	NorthNode
	SouthNode
	Chiron
)

var bodyNames = [...]string{
	"Sun", "Moon", "Mercury", "Venus", "Mars", "Jupiter", "Saturn",
	"Uranus", "Neptune", "Pluto", "North Node", "South Node", "Chiron",
}

// String returns the display name of the body.
func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return "Unknown"
	}
	return bodyNames[b]
}

// BodyFromName resolves a body by its display name. The second return is
// false for names outside the supported set.
func BodyFromName(name string) (Body, bool) {
	for i, n := range bodyNames {
		if n == name {
			return Body(i), true
		}
	}
	return 0, false
}

// CorePlanets returns Sun through Pluto, the fixed set used for chart
// shape classification. Nodes and Chiron are excluded.
func CorePlanets() []Body {
	return []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// AllBodies returns every supported body in canonical order.
func AllBodies() []Body {
	return []Body{
		Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn,
		Uranus, Neptune, Pluto, NorthNode, SouthNode, Chiron,
	}
}

// AngleKind identifies one of the four chart angles.
type AngleKind int

// The four chart angles.
const (
	Ascendant AngleKind = iota
	Midheaven
	Descendant
	ImumCoeli
)

var angleNames = [...]string{"Ascendant", "Midheaven", "Descendant", "Imum Coeli"}

// String returns the display name of the angle.
func (a AngleKind) String() string {
	if a < 0 || int(a) >= len(angleNames) {
		return "Unknown"
	}
	return angleNames[a]
}

// Position is a placed celestial body: normalized longitude, derived sign
// and degree-in-sign, house membership and motion state.
type Position struct {
	Body       Body
	Longitude  float64
	Sign       zodiac.Sign
	SignDegree float64
	House      int
	Retrograde bool
	Speed      float64
}

// HouseCusp is the start of a house on the ecliptic.
type HouseCusp struct {
	House     int
	Longitude float64
	Sign      zodiac.Sign
}

// Angle is a chart angle with its normalized longitude and derived sign.
type Angle struct {
	Kind      AngleKind
	Longitude float64
	Sign      zodiac.Sign
}

// Chart is a complete computed birth chart. Bodies are held in canonical
// order; houses are indexed 0..11 for houses 1..12.
type Chart struct {
	bodies []Position
	houses [HouseCount]HouseCusp
	angles [4]Angle
}

// BodyInput is the raw upstream record for a single body.
type BodyInput struct {
	Longitude  float64
	House      int
	Retrograde bool
	Speed      float64
}

// Input is the raw upstream ephemeris payload a Chart is built from.
// Bodies and angles are keyed by display name, houses by house number.
type Input struct {
	Bodies map[string]BodyInput
	Houses map[int]float64
	Angles map[string]float64
}

// New validates and normalizes an upstream payload into a Chart. It
// refuses partial charts: all twelve houses and all four angles must be
// present, every longitude must be finite, and at least the Sun and Moon
// must be supplied. Unknown body names are rejected rather than dropped
// so a typo upstream cannot silently thin out the analysis.
func New(in Input) (*Chart, error) {
	c := &Chart{}

	for name := range in.Bodies {
		if _, ok := BodyFromName(name); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
		}
	}

	// Collect bodies in canonical order.
	for _, b := range AllBodies() {
		raw, ok := in.Bodies[b.String()]
		if !ok {
			continue
		}
		lon, err := zodiac.Normalize(raw.Longitude)
		if err != nil {
			return nil, fmt.Errorf("body %s: %w", b, err)
		}
		if raw.House < FirstHouse || raw.House > LastHouse {
			return nil, fmt.Errorf("%w: body %s in house %d", ErrBadHouse, b, raw.House)
		}
		sign, deg := zodiac.SignOf(lon)
		c.bodies = append(c.bodies, Position{
			Body:       b,
			Longitude:  lon,
			Sign:       sign,
			SignDegree: deg,
			House:      raw.House,
			Retrograde: raw.Retrograde,
			Speed:      raw.Speed,
		})
	}
	if _, ok := in.Bodies[Sun.String()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBody, Sun)
	}
	if _, ok := in.Bodies[Moon.String()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingBody, Moon)
	}

	for h := FirstHouse; h <= LastHouse; h++ {
		raw, ok := in.Houses[h]
		if !ok {
			return nil, fmt.Errorf("%w: house %d", ErrMissingHouse, h)
		}
		lon, err := zodiac.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("house %d: %w", h, err)
		}
		sign, _ := zodiac.SignOf(lon)
		c.houses[h-1] = HouseCusp{House: h, Longitude: lon, Sign: sign}
	}

	for _, k := range []AngleKind{Ascendant, Midheaven, Descendant, ImumCoeli} {
		raw, ok := in.Angles[angleInputKey(k)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingAngle, k)
		}
		lon, err := zodiac.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("angle %s: %w", k, err)
		}
		sign, _ := zodiac.SignOf(lon)
		c.angles[k] = Angle{Kind: k, Longitude: lon, Sign: sign}
	}

	return c, nil
}

// angleInputKey maps an angle to its snake_case key in the upstream payload.
func angleInputKey(k AngleKind) string {
	switch k {
	case Ascendant:
		return "ascendant"
	case Midheaven:
		return "midheaven"
	case Descendant:
		return "descendant"
	case ImumCoeli:
		return "imum_coeli"
	}
	return "unknown"
}

// Bodies returns the placed bodies in canonical order. Callers must not
// modify the returned slice.
func (c *Chart) Bodies() []Position {
	return c.bodies
}

// Body returns the position of a single body. The second return is false
// if the chart does not carry that body.
func (c *Chart) Body(b Body) (Position, bool) {
	for _, p := range c.bodies {
		if p.Body == b {
			return p, true
		}
	}
	return Position{}, false
}

// Houses returns the twelve house cusps ordered by house number.
func (c *Chart) Houses() []HouseCusp {
	return c.houses[:]
}

// Angle returns a chart angle.
func (c *Chart) Angle(k AngleKind) Angle {
	return c.angles[k]
}
