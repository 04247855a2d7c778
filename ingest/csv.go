// Package ingest parses uploaded tabular sales files and appends their rows
// to the record store.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"supplychain/models"
	"supplychain/store"
)

// dateLayouts are the accepted calendar-date formats, tried in order.
var dateLayouts = []string{
	models.DateLayout,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// columnAliases maps alternate header spellings onto the canonical columns.
var columnAliases = map[string]string{
	"trend_score": "google_trend_score",
	"sentiment":   "market_sentiment",
}

// File reads the CSV at path and appends its rows to the store. Returns the
// number of rows ingested. No deduplication and no validation beyond column
// presence and parseability.
func File(ctx context.Context, st store.RecordStore, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return 0, err
	}
	if err := st.AppendRecords(ctx, records); err != nil {
		return 0, fmt.Errorf("store records: %w", err)
	}
	return len(records), nil
}

// Parse reads header-mapped CSV rows into sales records. The date, product_id
// and units_sold columns are required; all other known columns are optional.
func Parse(r io.Reader) ([]models.SalesRecord, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := columnAliases[name]; ok {
			name = canonical
		}
		index[name] = i
	}
	for _, required := range []string{"date", "product_id", "units_sold"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	var records []models.SalesRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		rec, err := parseRow(index, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(index map[string]int, row []string) (models.SalesRecord, error) {
	var rec models.SalesRecord

	date, err := parseDate(field(index, row, "date"))
	if err != nil {
		return rec, err
	}
	rec.Date = date

	rec.ProductID = field(index, row, "product_id")
	if rec.ProductID == "" {
		return rec, fmt.Errorf("empty product_id")
	}

	units, err := strconv.Atoi(field(index, row, "units_sold"))
	if err != nil {
		return rec, fmt.Errorf("parse units_sold: %w", err)
	}
	rec.UnitsSold = units

	rec.ProductName = optString(index, row, "product_name")
	rec.Category = optString(index, row, "category")
	rec.Region = optString(index, row, "region")
	rec.MarketSentiment = optString(index, row, "market_sentiment")

	if rec.UnitPrice, err = optFloat(index, row, "unit_price"); err != nil {
		return rec, err
	}
	if rec.Revenue, err = optFloat(index, row, "revenue"); err != nil {
		return rec, err
	}
	if rec.CompetitorPrice, err = optFloat(index, row, "competitor_price"); err != nil {
		return rec, err
	}
	if rec.GoogleTrendScore, err = optInt(index, row, "google_trend_score"); err != nil {
		return rec, err
	}
	if rec.StockLevel, err = optInt(index, row, "stock_level"); err != nil {
		return rec, err
	}
	if rec.LeadTimeDays, err = optInt(index, row, "lead_time_days"); err != nil {
		return rec, err
	}

	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func field(index map[string]int, row []string, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func optString(index map[string]int, row []string, name string) *string {
	v := field(index, row, name)
	if v == "" {
		return nil
	}
	return &v
}

func optFloat(index map[string]int, row []string, name string) (*float64, error) {
	v := field(index, row, name)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &f, nil
}

func optInt(index map[string]int, row []string, name string) (*int, error) {
	v := field(index, row, name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &n, nil
}
