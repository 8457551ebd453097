package testcharts

import (
	"fmt"
	"log"
	"math"
)

// Tolerance for percentage sums, which are rounded to two decimals server-side.
const percentageSumTolerance = 0.5

// Recognized chart shape classifications.
var knownShapes = map[string]bool{
	"bundle":       true,
	"bowl":         true,
	"locomotive":   true,
	"seesaw":       true,
	"splash":       true,
	"splay":        true,
	"undetermined": true,
}

// verifyResults checks the internal consistency of the retrieved reports.
func verifyResults(config *Config, reports, recent []Report) error {
	log.Println("🔍 Verifying results...")

	if len(reports) == 0 {
		return fmt.Errorf("no reports to verify")
	}

	var malformed int
	for _, report := range reports {
		if err := verifySingleReport(report); err != nil {
			malformed++
			if config.Verbose {
				log.Printf("⚠️  Report %s inconsistent: %v", report.ChartID, err)
			}
		}
	}

	if malformed > 0 {
		return fmt.Errorf("%d of %d reports failed consistency checks", malformed, len(reports))
	}
	log.Printf("✅ All %d reports passed consistency checks", len(reports))

	// The recent listing should only contain charts we know about.
	if len(recent) > 0 {
		displayRecentSummary(recent, config.Verbose)
	}

	log.Println("✅ Result verification completed")
	return nil
}

// verifySingleReport validates the structural invariants of one report.
func verifySingleReport(report Report) error {
	// Every aspect must carry a sensible orb and distinct bodies.
	for _, a := range report.Aspects {
		if a.First == a.Second {
			return fmt.Errorf("aspect between %s and itself", a.First)
		}
		if a.Orb < 0 {
			return fmt.Errorf("negative orb %.3f on %s-%s %s", a.Orb, a.First, a.Second, a.Type)
		}
		if a.Separation < 0 || a.Separation > 180 {
			return fmt.Errorf("separation %.3f out of range on %s-%s", a.Separation, a.First, a.Second)
		}
	}

	// Patterns always name at least three bodies.
	for _, p := range report.Patterns {
		if len(p.Bodies) < 3 {
			return fmt.Errorf("pattern %s names only %d bodies", p.Type, len(p.Bodies))
		}
	}

	if !knownShapes[report.Shape.Name] {
		return fmt.Errorf("unknown chart shape %q", report.Shape.Name)
	}

	// Element percentages must sum to 100 when any body is counted.
	var total, sum float64
	for _, c := range report.Elements.Counts {
		total += float64(c)
	}
	for _, p := range report.Elements.Percentages {
		sum += p
	}
	if total > 0 && math.Abs(sum-PercentageMultiplier) > percentageSumTolerance {
		return fmt.Errorf("element percentages sum to %.2f", sum)
	}

	// All ten core bodies get a dignity state.
	if len(report.Dignities) < len(coreBodyNames) {
		return fmt.Errorf("only %d dignities reported", len(report.Dignities))
	}

	return nil
}

// displayRecentSummary logs a digest of the recent reports listing.
func displayRecentSummary(recent []Report, verbose bool) {
	shapeCounts := make(map[string]int)
	patternCounts := make(map[string]int)
	aspectTotal := 0

	for _, r := range recent {
		shapeCounts[r.Shape.Name]++
		aspectTotal += len(r.Aspects)
		for _, p := range r.Patterns {
			patternCounts[p.Type]++
		}
	}

	log.Printf("🗺️  Shapes across %d recent reports:", len(recent))
	for shape, count := range shapeCounts {
		log.Printf("   %s: %d", shape, count)
	}

	if len(patternCounts) > 0 {
		log.Println("✨ Configurations found:")
		for pattern, count := range patternCounts {
			log.Printf("   %s: %d", pattern, count)
		}
	}

	if verbose && len(recent) > 0 {
		log.Printf(`📊 Aspect statistics:
   Total: %d
   Average per chart: %.2f
`, aspectTotal, float64(aspectTotal)/float64(len(recent)))
	}
}
