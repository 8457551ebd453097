package analysis

import (
	"sort"

	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/zodiac"
)

// Shape names as serialized in reports.
const (
	ShapeBundle       = "bundle"
	ShapeBowl         = "bowl"
	ShapeLocomotive   = "locomotive"
	ShapeSeesaw       = "seesaw"
	ShapeSplash       = "splash"
	ShapeSplay        = "splay"
	ShapeUndetermined = "undetermined"
)

// Classification thresholds, in degrees unless noted.
const (
	bundleMaxSpan      = 120.0
	bowlMaxSpan        = 180.0
	locomotiveGapLow   = 120.0
	locomotiveGapHigh  = 240.0
	clusterGap         = 60.0 // gaps at or above this split clusters
	splashMaxGap       = 90.0
	splashMinSigns     = 7
	splayMinClusters   = 3
	seesawClusterCount = 2
)

// Shape is the classified spatial distribution of the core planets around
// the zodiac circle.
type Shape struct {
	Name string `json:"shape_name"`
	// Bodies holds the core planets ordered by longitude, starting from
	// the leading body where one is designated.
	Bodies []string `json:"planets,omitempty"`
	// Leading is the body immediately following the largest empty gap,
	// set for bundle, bowl and locomotive shapes.
	Leading string  `json:"leading_body,omitempty"`
	Span    float64 `json:"span"`
	MaxGap  float64 `json:"max_gap"`
}

// ClassifyShape classifies the gap structure of the chart. Only the fixed
// core planet set (Sun through Pluto) participates; nodes and Chiron are
// excluded. Checks run in the fixed order bundle, bowl, locomotive,
// seesaw, splash, splay; the first match wins. Fewer than two core
// planets yield an undetermined shape.
func ClassifyShape(positions []chart.Position) Shape {
	core := corePositions(positions)
	if len(core) < 2 {
		return Shape{Name: ShapeUndetermined}
	}

	sort.Slice(core, func(i, j int) bool { return core[i].Longitude < core[j].Longitude })

	gaps := make([]float64, len(core))
	maxGap, maxIdx := 0.0, 0
	for i := range core {
		next := core[(i+1)%len(core)]
		g := next.Longitude - core[i].Longitude
		if g < 0 {
			g += zodiac.FullCircle
		}
		gaps[i] = g
		if g > maxGap {
			maxGap, maxIdx = g, i
		}
	}
	span := zodiac.FullCircle - maxGap

	// Bodies listed from the leading edge of the occupied arc.
	ordered := make([]string, 0, len(core))
	for i := range core {
		ordered = append(ordered, core[(maxIdx+1+i)%len(core)].Body.String())
	}
	leading := ordered[0]

	shape := Shape{Bodies: ordered, Span: span, MaxGap: maxGap}
	switch {
	case span <= bundleMaxSpan:
		shape.Name, shape.Leading = ShapeBundle, leading
	case span <= bowlMaxSpan:
		shape.Name, shape.Leading = ShapeBowl, leading
	case maxGap > locomotiveGapLow && maxGap < locomotiveGapHigh:
		shape.Name, shape.Leading = ShapeLocomotive, leading
	case clusterCount(gaps) == seesawClusterCount:
		shape.Name = ShapeSeesaw
	case distinctSigns(core) >= splashMinSigns && maxGap <= splashMaxGap:
		shape.Name = ShapeSplash
	case clusterCount(gaps) >= splayMinClusters:
		shape.Name = ShapeSplay
	default:
		shape.Name = ShapeUndetermined
	}
	return shape
}

// corePositions filters the chart bodies down to the Sun..Pluto set.
func corePositions(positions []chart.Position) []chart.Position {
	core := make([]chart.Position, 0, len(positions))
	for _, p := range positions {
		if p.Body <= chart.Pluto {
			core = append(core, p)
		}
	}
	return core
}

// clusterCount counts groups of bodies separated by gaps of at least
// clusterGap degrees. Splitting at every such gap guarantees each cluster's
// internal gaps stay below the threshold.
func clusterCount(gaps []float64) int {
	n := 0
	for _, g := range gaps {
		if g >= clusterGap {
			n++
		}
	}
	return n
}

func distinctSigns(positions []chart.Position) int {
	seen := make(map[zodiac.Sign]struct{}, len(positions))
	for _, p := range positions {
		seen[p.Sign] = struct{}{}
	}
	return len(seen)
}
