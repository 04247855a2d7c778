package forecast

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"supplychain/charts"
	"supplychain/models"
	"supplychain/store"
)

// Run executes the full forecast pipeline for one product: extract the demand
// series, fit and project the model, evaluate accuracy against the historical
// overlap, render charts, and replace the product's persisted results.
//
// Chart rendering is best-effort: a failed chart logs a warning and leaves its
// path empty. Metrics computation and persistence are not.
func Run(ctx context.Context, st store.RecordStore, productID, outputDir string) (*models.ForecastResult, error) {
	series, err := st.ProductSeries(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("query series for %s: %w", productID, err)
	}
	if len(series) == 0 {
		return nil, ErrNoData
	}

	model, err := Fit(series)
	if err != nil {
		return nil, err
	}
	points := model.Forecast(productID)

	metrics, err := Evaluate(productID, series, points)
	if err != nil {
		return nil, err
	}

	graphs := renderCharts(ctx, st, productID, outputDir, series, points, *metrics)

	if err := st.ReplaceForecast(ctx, productID, points); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := st.ReplaceMetrics(ctx, *metrics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &models.ForecastResult{
		Metrics:  *metrics,
		Forecast: points,
		Graphs:   graphs,
	}, nil
}

func renderCharts(ctx context.Context, st store.RecordStore, productID, outputDir string,
	series []models.SeriesPoint, points []models.ForecastPoint, metrics models.ForecastMetrics) models.ChartPaths {

	var paths models.ChartPaths

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Printf("Error creating output directory %s: %v", outputDir, err)
		return paths
	}

	j := joinByDate(series, points)

	linePath := filepath.Join(outputDir, productID+"_line_chart.png")
	if err := charts.Line(linePath, productID, j.dates, j.actual, j.predicted); err != nil {
		log.Printf("Error rendering line chart for %s: %v", productID, err)
	} else {
		paths.LineChart = linePath
	}

	barPath := filepath.Join(outputDir, productID+"_bar_chart.png")
	if err := charts.MetricsBar(barPath, metrics); err != nil {
		log.Printf("Error rendering bar chart for %s: %v", productID, err)
	} else {
		paths.BarChart = barPath
	}

	heatmapPath := filepath.Join(outputDir, productID+"_heatmap.png")
	records, err := st.AllRecords(ctx)
	if err != nil {
		log.Printf("Error loading records for heatmap: %v", err)
		return paths
	}
	if err := charts.Heatmap(heatmapPath, records); err != nil {
		log.Printf("Error rendering heatmap for %s: %v", productID, err)
	} else {
		paths.Heatmap = heatmapPath
	}

	return paths
}
