package analysis

import (
	"sort"

	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/zodiac"
)

// Pattern type names as serialized in reports.
const (
	PatternStellium   = "stellium"
	PatternGrandTrine = "grand_trine"
	PatternTSquare    = "t_square"
	PatternGrandCross = "grand_cross"
	PatternYod        = "yod"
)

// Minimum group size for a stellium.
const stelliumMinBodies = 3

// Pattern is a detected multi-body configuration. Bodies are listed in
// canonical order except for apex patterns, where the apex body is last.
// A body may appear in several patterns at once; detection never suppresses
// overlaps between configurations of different types.
type Pattern struct {
	Type   string   `json:"type"`
	Bodies []string `json:"planets"`
	Apex   string   `json:"apex,omitempty"`
	// Sign is set for sign-based stelliums, Element for grand trines.
	Sign    string `json:"sign,omitempty"`
	Element string `json:"element,omitempty"`
	// Houses lists the distinct houses touched by the participating bodies.
	Houses []int `json:"houses,omitempty"`
	// EmptyLeg is the resolution point of a T-square: the longitude
	// opposite the apex.
	EmptyLeg *float64 `json:"empty_leg,omitempty"`
}

// pairKey is an order-independent key for a body pair.
type pairKey struct {
	a, b string
}

func keyFor(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// aspectIndex provides O(1) pairwise aspect lookups during pattern search.
type aspectIndex map[pairKey]AspectType

func indexAspects(aspects []Aspect) aspectIndex {
	idx := make(aspectIndex, len(aspects))
	for _, a := range aspects {
		idx[keyFor(a.First, a.Second)] = a.kind
	}
	return idx
}

// linked reports whether two bodies share a validated aspect of type t.
func (idx aspectIndex) linked(a, b string, t AspectType) bool {
	got, ok := idx[keyFor(a, b)]
	return ok && got == t
}

// DetectPatterns finds stelliums, grand trines, T-squares, grand crosses
// and yods. Every pairwise relationship a configuration implies must exist
// in the supplied aspect set, which has already been validated against the
// orb table. When strictTrines is set, grand trines whose members span
// more than one element are dropped instead of labeled "mixed".
func DetectPatterns(aspects []Aspect, positions []chart.Position, strictTrines bool) []Pattern {
	if len(positions) < stelliumMinBodies {
		return nil
	}
	idx := indexAspects(aspects)

	var out []Pattern
	out = append(out, signStelliums(positions)...)
	out = append(out, houseStelliums(positions)...)
	out = append(out, grandTrines(idx, positions, strictTrines)...)
	out = append(out, grandCrosses(idx, positions)...)
	out = append(out, tSquares(idx, positions)...)
	out = append(out, yods(idx, positions)...)
	return out
}

// signStelliums reports every sign holding three or more bodies.
func signStelliums(positions []chart.Position) []Pattern {
	bySign := make(map[zodiac.Sign][]chart.Position)
	for _, p := range positions {
		bySign[p.Sign] = append(bySign[p.Sign], p)
	}
	var out []Pattern
	for s := zodiac.Aries; s <= zodiac.Pisces; s++ {
		group := bySign[s]
		if len(group) < stelliumMinBodies {
			continue
		}
		out = append(out, Pattern{
			Type:   PatternStellium,
			Bodies: bodyNamesOf(group),
			Sign:   s.String(),
			Houses: housesOf(group),
		})
	}
	return out
}

// houseStelliums reports every house holding three or more bodies. House
// stelliums are reported independently of sign stelliums; the same group
// can produce both.
func houseStelliums(positions []chart.Position) []Pattern {
	byHouse := make(map[int][]chart.Position)
	for _, p := range positions {
		byHouse[p.House] = append(byHouse[p.House], p)
	}
	var out []Pattern
	for h := chart.FirstHouse; h <= chart.LastHouse; h++ {
		group := byHouse[h]
		if len(group) < stelliumMinBodies {
			continue
		}
		out = append(out, Pattern{
			Type:   PatternStellium,
			Bodies: bodyNamesOf(group),
			Houses: []int{h},
		})
	}
	return out
}

// grandTrines finds triples of bodies pairwise connected by trines.
func grandTrines(idx aspectIndex, positions []chart.Position, strict bool) []Pattern {
	var out []Pattern
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if !idx.linked(name(positions[i]), name(positions[j]), Trine) {
				continue
			}
			for k := j + 1; k < len(positions); k++ {
				if !idx.linked(name(positions[j]), name(positions[k]), Trine) ||
					!idx.linked(name(positions[i]), name(positions[k]), Trine) {
					continue
				}
				group := []chart.Position{positions[i], positions[j], positions[k]}
				element := trineElement(group)
				if strict && element == "mixed" {
					continue
				}
				out = append(out, Pattern{
					Type:    PatternGrandTrine,
					Bodies:  bodyNamesOf(group),
					Element: element,
					Houses:  housesOf(group),
				})
			}
		}
	}
	return out
}

// trineElement labels a trine group with its shared element, or "mixed"
// when the members span elements.
func trineElement(group []chart.Position) string {
	first := zodiac.ElementOf(group[0].Sign)
	for _, p := range group[1:] {
		if zodiac.ElementOf(p.Sign) != first {
			return "mixed"
		}
	}
	return first.String()
}

// tSquares finds an opposition pair with a third body square to both ends.
// The squared body is the apex; the empty leg sits opposite the apex.
func tSquares(idx aspectIndex, positions []chart.Position) []Pattern {
	var out []Pattern
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if !idx.linked(name(positions[i]), name(positions[j]), Opposition) {
				continue
			}
			for k := range positions {
				if k == i || k == j {
					continue
				}
				if !idx.linked(name(positions[i]), name(positions[k]), Square) ||
					!idx.linked(name(positions[j]), name(positions[k]), Square) {
					continue
				}
				group := []chart.Position{positions[i], positions[j], positions[k]}
				leg, err := zodiac.Normalize(positions[k].Longitude + zodiac.FullCircle/2)
				if err != nil {
					continue // unreachable: stored longitudes are finite
				}
				out = append(out, Pattern{
					Type:     PatternTSquare,
					Bodies:   []string{name(positions[i]), name(positions[j]), name(positions[k])},
					Apex:     name(positions[k]),
					Houses:   housesOf(group),
					EmptyLeg: &leg,
				})
			}
		}
	}
	return out
}

// grandCrosses finds four bodies forming two oppositions whose members are
// mutually square: among the six pairs, exactly two oppositions and four
// squares.
func grandCrosses(idx aspectIndex, positions []chart.Position) []Pattern {
	var out []Pattern
	n := len(positions)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					group := []chart.Position{positions[i], positions[j], positions[k], positions[l]}
					if !isGrandCross(idx, group) {
						continue
					}
					out = append(out, Pattern{
						Type:   PatternGrandCross,
						Bodies: bodyNamesOf(group),
						Houses: housesOf(group),
					})
				}
			}
		}
	}
	return out
}

func isGrandCross(idx aspectIndex, group []chart.Position) bool {
	oppositions, squares := 0, 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			t, ok := idx[keyFor(name(group[i]), name(group[j]))]
			if !ok {
				return false
			}
			switch t {
			case Opposition:
				oppositions++
			case Square:
				squares++
			default:
				return false
			}
		}
	}
	return oppositions == 2 && squares == 4
}

// yods finds a sextile pair with both members quincunx a third apex body.
func yods(idx aspectIndex, positions []chart.Position) []Pattern {
	var out []Pattern
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if !idx.linked(name(positions[i]), name(positions[j]), Sextile) {
				continue
			}
			for k := range positions {
				if k == i || k == j {
					continue
				}
				if !idx.linked(name(positions[i]), name(positions[k]), Quincunx) ||
					!idx.linked(name(positions[j]), name(positions[k]), Quincunx) {
					continue
				}
				group := []chart.Position{positions[i], positions[j], positions[k]}
				out = append(out, Pattern{
					Type:   PatternYod,
					Bodies: []string{name(positions[i]), name(positions[j]), name(positions[k])},
					Apex:   name(positions[k]),
					Houses: housesOf(group),
				})
			}
		}
	}
	return out
}

func name(p chart.Position) string { return p.Body.String() }

func bodyNamesOf(group []chart.Position) []string {
	names := make([]string, len(group))
	for i, p := range group {
		names[i] = name(p)
	}
	return names
}

// housesOf returns the distinct houses touched by a group, ascending.
func housesOf(group []chart.Position) []int {
	seen := make(map[int]struct{}, len(group))
	var houses []int
	for _, p := range group {
		if _, ok := seen[p.House]; ok {
			continue
		}
		seen[p.House] = struct{}{}
		houses = append(houses, p.House)
	}
	sort.Ints(houses)
	return houses
}
