package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/models"
)

func TestEvaluatePerfectPrediction(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{10, 20, 30})

	points := make([]models.ForecastPoint, len(series))
	for i, p := range series {
		points[i] = models.ForecastPoint{ProductID: "P1", Date: p.Date, Predicted: p.Units}
	}

	m, err := Evaluate("P1", series, points)
	require.NoError(t, err)
	assert.Equal(t, "P1", m.ProductID)
	assert.InDelta(t, 0, m.MAE, 1e-12)
	assert.InDelta(t, 0, m.MSE, 1e-12)
	assert.InDelta(t, 1, m.R2, 1e-12)
}

func TestEvaluateKnownErrors(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{10, 20})
	points := []models.ForecastPoint{
		{Date: series[0].Date, Predicted: 12}, // error +2
		{Date: series[1].Date, Predicted: 16}, // error -4
	}

	m, err := Evaluate("P1", series, points)
	require.NoError(t, err)
	assert.InDelta(t, 3, m.MAE, 1e-12)  // (2+4)/2
	assert.InDelta(t, 10, m.MSE, 1e-12) // (4+16)/2
	// ssTot = 50, ssRes = 20
	assert.InDelta(t, 1-20.0/50.0, m.R2, 1e-12)
}

func TestEvaluateConstantActuals(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{5, 5, 5})

	exact := []models.ForecastPoint{
		{Date: series[0].Date, Predicted: 5},
		{Date: series[1].Date, Predicted: 5},
		{Date: series[2].Date, Predicted: 5},
	}
	m, err := Evaluate("P1", series, exact)
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.R2)

	off := []models.ForecastPoint{
		{Date: series[0].Date, Predicted: 6},
		{Date: series[1].Date, Predicted: 6},
		{Date: series[2].Date, Predicted: 6},
	}
	m, err = Evaluate("P1", series, off)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.R2)
}

func TestEvaluateDegenerateJoin(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, []float64{1, 2})

	// Predictions dated entirely outside the historical range.
	points := []models.ForecastPoint{
		{Date: start.AddDate(0, 0, 100), Predicted: 1},
	}
	_, err := Evaluate("P1", series, points)
	assert.ErrorIs(t, err, ErrDegenerateJoin)
}

func TestJoinPairsDuplicateDates(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := []models.SeriesPoint{
		{Date: day, Units: 10},
		{Date: day, Units: 14},
		{Date: day.AddDate(0, 0, 1), Units: 20},
	}
	points := []models.ForecastPoint{
		{Date: day, Predicted: 12},
		{Date: day.AddDate(0, 0, 1), Predicted: 20},
	}

	j := joinByDate(series, points)
	// Both duplicate actual rows pair with the single prediction for their date.
	require.Len(t, j.actual, 3)
	assert.Equal(t, []float64{12, 12, 20}, j.predicted)
}
