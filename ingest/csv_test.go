package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain/store"
)

func TestParseFullSchema(t *testing.T) {
	input := strings.Join([]string{
		"date,product_id,product_name,category,region,units_sold,unit_price,revenue,competitor_price,google_trend_score,market_sentiment,stock_level,lead_time_days",
		"2024-01-01,P1,Widget,Tools,EU,10,9.99,99.90,8.50,75,positive,120,5",
		"2024-01-02,P1,Widget,Tools,EU,12,9.99,119.88,8.40,80,neutral,108,5",
	}, "\n")

	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "P1", r.ProductID)
	assert.Equal(t, 10, r.UnitsSold)
	require.NotNil(t, r.ProductName)
	assert.Equal(t, "Widget", *r.ProductName)
	require.NotNil(t, r.Revenue)
	assert.Equal(t, 99.90, *r.Revenue)
	require.NotNil(t, r.GoogleTrendScore)
	assert.Equal(t, 75, *r.GoogleTrendScore)
	require.NotNil(t, r.LeadTimeDays)
	assert.Equal(t, 5, *r.LeadTimeDays)
}

func TestParseMinimalColumnsAndAliases(t *testing.T) {
	input := strings.Join([]string{
		"Date,Product_ID,Units_Sold,trend_score,sentiment",
		"2024-01-01,P1,10,55,negative",
	}, "\n")

	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NotNil(t, records[0].GoogleTrendScore)
	assert.Equal(t, 55, *records[0].GoogleTrendScore)
	require.NotNil(t, records[0].MarketSentiment)
	assert.Equal(t, "negative", *records[0].MarketSentiment)
	assert.Nil(t, records[0].UnitPrice)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	input := "date,units_sold\n2024-01-01,10\n"

	_, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_id")
}

func TestParseBadValues(t *testing.T) {
	_, err := Parse(strings.NewReader("date,product_id,units_sold\nnot-a-date,P1,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = Parse(strings.NewReader("date,product_id,units_sold\n2024-01-01,P1,ten\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "units_sold")

	_, err = Parse(strings.NewReader("date,product_id,units_sold\n2024-01-01,,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_id")
}

func TestFileIngestsIntoStore(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "supply.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	path := filepath.Join(t.TempDir(), "upload.csv")
	content := "date,product_id,units_sold\n2024-01-01,P1,10\n2024-01-02,P1,12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n, err := File(context.Background(), st, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	series, err := st.ProductSeries(context.Background(), "P1")
	require.NoError(t, err)
	assert.Len(t, series, 2)
}
