package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/models"
)

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "supply.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

func day(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestAppendAndSeriesOrdering(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	name := "Widget"
	require.NoError(t, st.AppendRecords(ctx, []models.SalesRecord{
		{Date: day(2), ProductID: "P1", UnitsSold: 30, ProductName: &name},
		{Date: day(0), ProductID: "P1", UnitsSold: 10},
		{Date: day(1), ProductID: "P1", UnitsSold: 20},
		{Date: day(0), ProductID: "P2", UnitsSold: 99},
	}))

	series, err := st.ProductSeries(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{series[0].Units, series[1].Units, series[2].Units})
	assert.True(t, series[0].Date.Before(series[1].Date))
	assert.True(t, series[1].Date.Before(series[2].Date))
}

func TestDuplicateRowsAreRetained(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.AppendRecords(ctx, []models.SalesRecord{
		{Date: day(0), ProductID: "P1", UnitsSold: 10},
		{Date: day(0), ProductID: "P1", UnitsSold: 10},
	}))

	series, err := st.ProductSeries(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, series, 2)

	n, err := st.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUnknownProductYieldsEmptySeries(t *testing.T) {
	st := newSQLite(t)

	series, err := st.ProductSeries(context.Background(), "P404")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestAllRecordsRoundTripsOptionalFields(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	name := "Widget"
	price := 12.5
	trend := 80
	require.NoError(t, st.AppendRecords(ctx, []models.SalesRecord{
		{Date: day(0), ProductID: "P1", UnitsSold: 10,
			ProductName: &name, UnitPrice: &price, GoogleTrendScore: &trend},
		{Date: day(1), ProductID: "P1", UnitsSold: 12},
	}))

	records, err := st.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].ProductName)
	assert.Equal(t, "Widget", *records[0].ProductName)
	require.NotNil(t, records[0].UnitPrice)
	assert.Equal(t, 12.5, *records[0].UnitPrice)
	require.NotNil(t, records[0].GoogleTrendScore)
	assert.Equal(t, 80, *records[0].GoogleTrendScore)

	assert.Nil(t, records[1].ProductName)
	assert.Nil(t, records[1].UnitPrice)
	assert.Nil(t, records[1].GoogleTrendScore)
}

func TestListRecordsPagination(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	var records []models.SalesRecord
	for i := 0; i < 25; i++ {
		records = append(records, models.SalesRecord{Date: day(i), ProductID: "P1", UnitsSold: i})
	}
	require.NoError(t, st.AppendRecords(ctx, records))

	page, err := st.ListRecords(ctx, 10, 20)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, 20, page[0].UnitsSold)
}

func TestReplaceForecastIsScopedToProduct(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	p1 := []models.ForecastPoint{
		{ProductID: "P1", Date: day(0), Predicted: 10, Lower: 8, Upper: 12},
		{ProductID: "P1", Date: day(1), Predicted: 11, Lower: 9, Upper: 13},
	}
	p2 := []models.ForecastPoint{
		{ProductID: "P2", Date: day(0), Predicted: 99, Lower: 90, Upper: 108},
	}
	require.NoError(t, st.ReplaceForecast(ctx, "P1", p1))
	require.NoError(t, st.ReplaceForecast(ctx, "P2", p2))

	replacement := []models.ForecastPoint{
		{ProductID: "P1", Date: day(0), Predicted: 20, Lower: 18, Upper: 22},
	}
	require.NoError(t, st.ReplaceForecast(ctx, "P1", replacement))

	got, err := st.ForecastPoints(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 20.0, got[0].Predicted)

	// P2 untouched.
	got2, err := st.ForecastPoints(ctx, "P2")
	require.NoError(t, err)
	assert.Len(t, got2, 1)
}

func TestReplaceMetricsKeepsOneRecordPerProduct(t *testing.T) {
	st := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.ReplaceMetrics(ctx, models.ForecastMetrics{ProductID: "P1", MAE: 1, MSE: 2, R2: 0.5}))
	require.NoError(t, st.ReplaceMetrics(ctx, models.ForecastMetrics{ProductID: "P1", MAE: 3, MSE: 4, R2: 0.9}))

	m, err := st.Metrics(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, m.MAE)
	assert.Equal(t, 0.9, m.R2)
}

func TestMetricsNotFound(t *testing.T) {
	st := newSQLite(t)

	_, err := st.Metrics(context.Background(), "P404")
	assert.ErrorIs(t, err, ErrNotFound)
}
