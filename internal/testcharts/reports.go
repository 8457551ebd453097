package testcharts

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveReports retrieves analysis reports for all submitted charts concurrently.
func retrieveReports(ctx context.Context, config *Config, charts []ChartPayload, stats *Stats) ([]Report, error) {
	log.Printf("🔭 Retrieving reports for %d charts with %d workers...", len(charts), config.Workers)

	client := newHTTPClient(config.Timeout)

	chartIDs := make([]string, len(charts))
	for i, c := range charts {
		chartIDs[i] = c.ChartID
	}

	// Results storage
	reports := make([]Report, len(chartIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	idChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range idChan {
				select {
				case <-ctx.Done():
					return
				default:
					chartID := chartIDs[index]
					report, err := retrieveSingleReport(client, config.BaseURL, chartID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get report for %s: %v", chartID, err)
						}
					} else {
						reports[index] = report
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Report progress: %d/%d retrieved (success: %d, failed: %d)",
								total, len(chartIDs), ret, fail)
						} else {
							log.Printf("\r🔭 Reports: %d/%d retrieved (success: %d, failed: %d)",
								total, len(chartIDs), ret, fail)
						}
					}
				}
			}
		}()
	}

	// Send chart indices to workers
	go func() {
		defer close(idChan)
		for i := range chartIDs {
			select {
			case <-ctx.Done():
				return
			case idChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Filter out empty entries (failed retrievals)
	validReports := make([]Report, 0, len(reports))
	for _, report := range reports {
		if report.ChartID != "" { // Empty ChartID indicates failed retrieval
			validReports = append(validReports, report)
		}
	}

	// Update stats
	stats.ReportsRetrieved = len(validReports)

	log.Printf(`✅ Report retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validReports), int(atomic.LoadInt64(&failed)))

	return validReports, nil
}

// retrieveSingleReport retrieves the analysis report for a single chart.
func retrieveSingleReport(client *HTTPClient, baseURL, chartID string) (Report, error) {
	url := fmt.Sprintf("%s/reports/%s", baseURL, chartID)

	resp, err := client.Get(url)
	if err != nil {
		return Report{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Report{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var report Report
	if err := unmarshalJSON(body, &report); err != nil {
		return Report{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return report, nil
}

// getRecentReports retrieves the N most recent reports.
func getRecentReports(ctx context.Context, config *Config, stats *Stats) ([]Report, error) {
	log.Printf("🕐 Getting %d most recent reports...", config.RecentN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/reports?limit=%d", config.BaseURL, config.RecentN)

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var recent []Report
	if err := unmarshalJSON(body, &recent); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.RecentReports = len(recent)
	log.Printf("✅ Retrieved %d recent reports", len(recent))

	return recent, nil
}
