package testcharts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/astrium/natal/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete chart test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting natal chart test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("charts", config.NumCharts),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("recentN", config.RecentN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate charts
	charts, err := generateCharts(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("chart generation failed: %w", err)
	}

	// Step 3: Submit charts concurrently
	if err := submitCharts(ctx, config, charts, stats); err != nil {
		return fmt.Errorf("chart submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for charts to be analyzed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve reports concurrently
	reports, err := retrieveReports(ctx, config, charts, stats)
	if err != nil {
		return fmt.Errorf("report retrieval failed: %w", err)
	}

	// Step 6: Get recent reports listing
	recent, err := getRecentReports(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("recent reports retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(config, reports, recent); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save charts to file
	if err := saveChartsToFile(ctx, config, charts); err != nil {
		logger.Get().Warn(ctx, "failed to save charts to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveChartsToFile saves the generated charts to a JSON file.
func saveChartsToFile(ctx context.Context, config *Config, charts []ChartPayload) error {
	if len(charts) == 0 {
		return fmt.Errorf("no charts to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_charts_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write charts to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, payload := range charts {
		jsonData, err := marshalJSON(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal chart %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write chart %d: %w", i, err)
		}

		// Add comma except for last chart
		if i < len(charts)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "charts saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, chartsPerSecond float64

	if stats.ChartsSubmitted > 0 {
		successRate = float64(stats.ChartsSuccessful) / float64(stats.ChartsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		chartsPerSecond = float64(stats.ChartsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("chartsGenerated", stats.ChartsGenerated),
		logger.Int("chartsSubmitted", stats.ChartsSubmitted),
		logger.Int("chartsSuccessful", stats.ChartsSuccessful),
		logger.Int("chartsDuplicate", stats.ChartsDuplicate),
		logger.Int("chartsFailed", stats.ChartsFailed),
		logger.Int("reportsRetrieved", stats.ReportsRetrieved),
		logger.Int("recentReports", stats.RecentReports),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("chartsPerSecond", chartsPerSecond))
}
