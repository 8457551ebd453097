// Package analysis implements the chart-analysis engine: aspect detection,
// multi-body configuration detection, chart shape classification, balance
// statistics and essential dignities. Everything in this package is a pure
// computation over an immutable chart; reference tables are injected at
// construction and shared safely across concurrent analyses.
package analysis

import (
	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/zodiac"
)

// AspectType identifies a named angular relationship between two points.
// The declaration order doubles as the tie-break order: when two types sit
// at the same orb from a measured separation, the earlier (lower-harmonic,
// major before minor) type wins.
type AspectType int

// Aspect types, majors first.
const (
	Conjunction AspectType = iota
	Opposition
	Trine
	Square
	Sextile
	Quincunx
	SemiSextile
	SemiSquare
	Sesquisquare
	Quintile
	BiQuintile
)

// aspectSpec holds the fixed geometry of an aspect type.
type aspectSpec struct {
	name  string
	angle float64
	major bool
}

var aspectSpecs = [...]aspectSpec{
	Conjunction:  {"conjunction", 0, true},
	Opposition:   {"opposition", 180, true},
	Trine:        {"trine", 120, true},
	Square:       {"square", 90, true},
	Sextile:      {"sextile", 60, true},
	Quincunx:     {"quincunx", 150, false},
	SemiSextile:  {"semi-sextile", 30, false},
	SemiSquare:   {"semi-square", 45, false},
	Sesquisquare: {"sesquisquare", 135, false},
	Quintile:     {"quintile", 72, false},
	BiQuintile:   {"bi-quintile", 144, false},
}

// String returns the serialized aspect type name.
func (t AspectType) String() string {
	if t < 0 || int(t) >= len(aspectSpecs) {
		return "unknown"
	}
	return aspectSpecs[t].name
}

// Angle returns the exact angle of the aspect type in degrees.
func (t AspectType) Angle() float64 { return aspectSpecs[t].angle }

// Major reports whether the aspect type is a major (Ptolemaic) aspect.
func (t AspectType) Major() bool { return aspectSpecs[t].major }

// AspectTypes returns all aspect types in tie-break order.
func AspectTypes() []AspectType {
	out := make([]AspectType, len(aspectSpecs))
	for i := range aspectSpecs {
		out[i] = AspectType(i)
	}
	return out
}

// aspectTypeByName resolves a serialized name back to its type.
func aspectTypeByName(name string) (AspectType, bool) {
	for i, s := range aspectSpecs {
		if s.name == name {
			return AspectType(i), true
		}
	}
	return 0, false
}

// Default maximum orbs per aspect type, in degrees. Majors carry the wide
// classical orbs, minors the tight ones.
var defaultMaxOrbs = map[AspectType]float64{
	Conjunction:  10,
	Opposition:   10,
	Trine:        8,
	Square:       8,
	Sextile:      6,
	Quincunx:     3,
	SemiSextile:  2,
	SemiSquare:   2,
	Sesquisquare: 2,
	Quintile:     2,
	BiQuintile:   2,
}

// OrbTable holds the maximum allowed orb per aspect type. It is immutable
// after construction and safe to share across concurrent analyses.
type OrbTable struct {
	maxOrb map[AspectType]float64
}

// NewOrbTable builds an orb table from the engine defaults.
func NewOrbTable() OrbTable {
	m := make(map[AspectType]float64, len(defaultMaxOrbs))
	for t, o := range defaultMaxOrbs {
		m[t] = o
	}
	return OrbTable{maxOrb: m}
}

// WithOverrides returns a copy of the table with per-type maximum orbs
// replaced. Overrides are keyed by serialized aspect name; names that do
// not match a known type are returned so the caller can log them, and
// non-positive orbs are ignored.
func (t OrbTable) WithOverrides(overrides map[string]float64) (OrbTable, []string) {
	out := NewOrbTable()
	for k, v := range t.maxOrb {
		out.maxOrb[k] = v
	}
	var unknown []string
	for name, orb := range overrides {
		at, ok := aspectTypeByName(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if orb > 0 {
			out.maxOrb[at] = orb
		}
	}
	return out, unknown
}

// MaxOrb returns the maximum orb for an aspect type.
func (t OrbTable) MaxOrb(at AspectType) float64 {
	return t.maxOrb[at]
}

// Point is a named chart point participating in aspect detection: a body,
// or optionally an angle such as the Ascendant.
type Point struct {
	Name      string
	Longitude float64
}

// Aspect is a validated angular relationship between two points. First and
// Second follow the canonical point ordering of the input slice, so output
// is stable for a given chart.
type Aspect struct {
	First      string  `json:"planet1"`
	Second     string  `json:"planet2"`
	Type       string  `json:"type"`
	Separation float64 `json:"separation"`
	Orb        float64 `json:"orb"`
	Major      bool    `json:"major"`

	kind AspectType
}

// Kind returns the typed aspect kind.
func (a Aspect) Kind() AspectType { return a.kind }

// DetectAspects computes at most one aspect for every unordered pair of
// points. For each pair the shortest circular separation is matched against
// every aspect type; the type with the smallest orb wins, provided that orb
// is within the table's maximum for the type. Equal orbs fall back to the
// declaration order of AspectType (major before minor). Fewer than two
// points yield an empty result.
func DetectAspects(points []Point, orbs OrbTable) []Aspect {
	if len(points) < 2 {
		return nil
	}
	aspects := make([]Aspect, 0, len(points))
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			sep := zodiac.Separation(points[i].Longitude, points[j].Longitude)
			if a, ok := matchAspect(sep, orbs); ok {
				a.First = points[i].Name
				a.Second = points[j].Name
				aspects = append(aspects, a)
			}
		}
	}
	return aspects
}

// matchAspect picks the qualifying aspect type closest to the separation.
func matchAspect(sep float64, orbs OrbTable) (Aspect, bool) {
	best := Aspect{Orb: -1}
	found := false
	for i := range aspectSpecs {
		t := AspectType(i)
		orb := sep - t.Angle()
		if orb < 0 {
			orb = -orb
		}
		if orb > orbs.MaxOrb(t) {
			continue
		}
		// Strict less keeps the earlier type on ties.
		if !found || orb < best.Orb {
			best = Aspect{
				Type:       t.String(),
				Separation: sep,
				Orb:        orb,
				Major:      t.Major(),
				kind:       t,
			}
			found = true
		}
	}
	return best, found
}

// ChartPoints converts a chart's bodies to aspect detection points in
// canonical order. When includeAngles is set, the Ascendant and Midheaven
// are appended after the bodies; angles never join pattern or shape
// detection, only pairwise aspects.
func ChartPoints(c *chart.Chart, includeAngles bool) []Point {
	bodies := c.Bodies()
	points := make([]Point, 0, len(bodies)+2)
	for _, p := range bodies {
		points = append(points, Point{Name: p.Body.String(), Longitude: p.Longitude})
	}
	if includeAngles {
		asc := c.Angle(chart.Ascendant)
		mc := c.Angle(chart.Midheaven)
		points = append(points,
			Point{Name: asc.Kind.String(), Longitude: asc.Longitude},
			Point{Name: mc.Kind.String(), Longitude: mc.Longitude},
		)
	}
	return points
}
