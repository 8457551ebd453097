package testcharts

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/astrium/natal/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor  = 1000000
	distributionDivisor = 6
	retrogradeDivisor   = 5
)

// Zodiac geometry constants.
const (
	fullCircle = 360.0
	signSpan   = 30.0
	houseCount = 12
)

// Constants for chart distribution cases.
const (
	caseScattered  = 0
	caseClustered  = 1
	caseHemisphere = 2
	caseOpposed    = 3
	caseTrined     = 4
	caseWide       = 5
)

// Cluster geometry for shaped distributions.
const (
	clusterWidth    = 100.0
	hemisphereWidth = 170.0
	oppositionOrb   = 6.0
	trineOrb        = 5.0
)

// Body speed ranges, degrees per day, loosely matching real ephemeris output.
var bodySpeeds = map[string]float64{
	"Sun":     1.0,
	"Moon":    13.2,
	"Mercury": 1.4,
	"Venus":   1.2,
	"Mars":    0.6,
	"Jupiter": 0.2,
	"Saturn":  0.1,
	"Uranus":  0.05,
	"Neptune": 0.03,
	"Pluto":   0.02,
}

var coreBodyNames = []string{
	"Sun", "Moon", "Mercury", "Venus", "Mars",
	"Jupiter", "Saturn", "Uranus", "Neptune", "Pluto",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateCharts creates the specified number of charts with unique chart IDs.
func generateCharts(ctx context.Context, config *Config, stats *Stats) ([]ChartPayload, error) {
	logger.Get().Info(ctx, "generating charts with unique chart IDs", logger.Int("numCharts", config.NumCharts))

	charts := make([]ChartPayload, config.NumCharts)

	// Pre-allocate chart IDs to ensure uniqueness
	chartIDs := make([]string, config.NumCharts)
	for i := 0; i < config.NumCharts; i++ {
		chartIDs[i] = uuid.New().String()
	}

	// Generate charts concurrently
	type chartResult struct {
		index int
		chart ChartPayload
		err   error
	}

	resultChan := make(chan chartResult, config.NumCharts)

	// Use worker pool for chart generation
	workerCount := minInt(config.Workers, config.NumCharts)
	chartsPerWorker := config.NumCharts / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * chartsPerWorker
		end := start + chartsPerWorker
		if worker == workerCount-1 {
			end = config.NumCharts // Last worker gets remaining charts
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- chartResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- chartResult{index: i, chart: generateSingleChart(chartIDs[i])}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumCharts; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during chart generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate chart %d: %w", result.index, result.err)
			}
			charts[result.index] = result.chart
		}
	}

	stats.ChartsGenerated = len(charts)
	logger.Get().Info(ctx, "generated charts successfully", logger.Int("count", len(charts)))

	return charts, nil
}

// generateSingleChart creates a single chart with the given chart ID.
func generateSingleChart(chartID string) ChartPayload {
	ascendant := getRandomFloat() * fullCircle
	longitudes := generateBodyLongitudes()

	bodies := make(map[string]BodySpec, len(coreBodyNames))
	for i, name := range coreBodyNames {
		lon := longitudes[i]
		bodies[name] = BodySpec{
			Longitude:  lon,
			House:      houseForLongitude(lon, ascendant),
			Retrograde: randomRetrograde(name),
			Speed:      bodySpeeds[name] * (0.5 + getRandomFloat()),
		}
	}

	// Equal houses from the ascendant.
	houses := make(map[string]CuspSpec, houseCount)
	for h := 1; h <= houseCount; h++ {
		cusp := normalize(ascendant + float64(h-1)*signSpan)
		houses[strconv.Itoa(h)] = CuspSpec{Longitude: cusp}
	}

	angles := map[string]CuspSpec{
		"ascendant":  {Longitude: ascendant},
		"descendant": {Longitude: normalize(ascendant + 180)},
		"midheaven":  {Longitude: normalize(ascendant + 270)},
		"imum_coeli": {Longitude: normalize(ascendant + 90)},
	}

	return ChartPayload{
		ChartID: chartID,
		Bodies:  bodies,
		Houses:  houses,
		Angles:  angles,
	}
}

// generateBodyLongitudes places the ten core bodies following one of several
// distributions so the analyzed charts exercise different shapes and patterns.
func generateBodyLongitudes() []float64 {
	longitudes := make([]float64, len(coreBodyNames))

	randNum, _ := rand.Int(rand.Reader, big.NewInt(distributionDivisor))
	switch randNum.Int64() {
	case caseScattered:
		// Spread across the full circle
		for i := range longitudes {
			longitudes[i] = getRandomFloat() * fullCircle
		}
	case caseClustered:
		// Bundle-like: everything within a narrow arc
		base := getRandomFloat() * fullCircle
		for i := range longitudes {
			longitudes[i] = normalize(base + getRandomFloat()*clusterWidth)
		}
	case caseHemisphere:
		// Bowl-like: everything within half the circle
		base := getRandomFloat() * fullCircle
		for i := range longitudes {
			longitudes[i] = normalize(base + getRandomFloat()*hemisphereWidth)
		}
	case caseOpposed:
		// Two opposing groups, likely to produce oppositions and t-squares
		base := getRandomFloat() * fullCircle
		for i := range longitudes {
			offset := getRandomFloat()*oppositionOrb*2 - oppositionOrb
			if i%2 == 0 {
				longitudes[i] = normalize(base + offset)
			} else {
				longitudes[i] = normalize(base + 180 + offset)
			}
		}
	case caseTrined:
		// Three groups 120 degrees apart, likely to produce grand trines
		base := getRandomFloat() * fullCircle
		for i := range longitudes {
			offset := getRandomFloat()*trineOrb*2 - trineOrb
			longitudes[i] = normalize(base + float64(i%3)*120 + offset)
		}
	case caseWide:
		// Uneven spread with one large gap, locomotive-like
		base := getRandomFloat() * fullCircle
		for i := range longitudes {
			longitudes[i] = normalize(base + getRandomFloat()*220)
		}
	default:
		for i := range longitudes {
			longitudes[i] = getRandomFloat() * fullCircle
		}
	}

	return longitudes
}

// houseForLongitude assigns an equal-house placement relative to the ascendant.
func houseForLongitude(lon, ascendant float64) int {
	sep := normalize(lon - ascendant)
	return int(sep/signSpan)%houseCount + 1
}

// randomRetrograde flags outer bodies retrograde roughly a fifth of the time.
func randomRetrograde(name string) bool {
	if name == "Sun" || name == "Moon" {
		return false
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(retrogradeDivisor))
	return n.Int64() == 0
}

// normalize wraps a longitude into [0, 360).
func normalize(deg float64) float64 {
	m := math.Mod(deg, fullCircle)
	if m < 0 {
		m += fullCircle
	}
	return m
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
