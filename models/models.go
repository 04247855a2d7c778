package models

import "time"

// DateLayout is the calendar-date format used in CSV input and the relational
// stores.
const DateLayout = "2006-01-02"

// --- Core Models ---

// SalesRecord is a single ingested supply-chain sales row. There is no primary
// key; duplicate (date, product_id) pairs are permitted and both retained.
type SalesRecord struct {
	Date             time.Time `json:"date" bson:"date"`
	ProductID        string    `json:"product_id" bson:"product_id"`
	ProductName      *string   `json:"product_name,omitempty" bson:"product_name,omitempty"`
	Category         *string   `json:"category,omitempty" bson:"category,omitempty"`
	Region           *string   `json:"region,omitempty" bson:"region,omitempty"`
	UnitsSold        int       `json:"units_sold" bson:"units_sold"`
	UnitPrice        *float64  `json:"unit_price,omitempty" bson:"unit_price,omitempty"`
	Revenue          *float64  `json:"revenue,omitempty" bson:"revenue,omitempty"`
	CompetitorPrice  *float64  `json:"competitor_price,omitempty" bson:"competitor_price,omitempty"`
	GoogleTrendScore *int      `json:"google_trend_score,omitempty" bson:"google_trend_score,omitempty"`
	MarketSentiment  *string   `json:"market_sentiment,omitempty" bson:"market_sentiment,omitempty"`
	StockLevel       *int      `json:"stock_level,omitempty" bson:"stock_level,omitempty"`
	LeadTimeDays     *int      `json:"lead_time_days,omitempty" bson:"lead_time_days,omitempty"`
}

// SeriesPoint is one observation of a product's demand series.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Units float64   `json:"units_sold"`
}

// ForecastPoint is one predicted value with its uncertainty band. Points whose
// date falls inside the historical range are used for evaluation; later points
// are forward-looking only.
type ForecastPoint struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Date      time.Time `json:"date" bson:"date"`
	Predicted float64   `json:"predicted_value" bson:"predicted_value"`
	Lower     float64   `json:"lower_bound" bson:"lower_bound"`
	Upper     float64   `json:"upper_bound" bson:"upper_bound"`
}

// ForecastMetrics holds the accuracy metrics for one product's latest forecast
// run. Exactly one record per product is kept in the store.
type ForecastMetrics struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	MAE       float64 `json:"mae" bson:"mae"`
	MSE       float64 `json:"mse" bson:"mse"`
	R2        float64 `json:"r2_score" bson:"r2_score"`
}

// ChartPaths holds the rendered chart artifact locations. A path is empty when
// that chart could not be rendered (charts are best-effort).
type ChartPaths struct {
	LineChart string `json:"line_chart"`
	BarChart  string `json:"bar_chart"`
	Heatmap   string `json:"heatmap"`
}

// ForecastResult is the full outcome of one forecast pipeline run.
type ForecastResult struct {
	Metrics  ForecastMetrics `json:"metrics"`
	Forecast []ForecastPoint `json:"forecast"`
	Graphs   ChartPaths      `json:"graphs"`
}

// --- API Request Structs ---

// ForecastRequest defines the body for requesting a forecast.
type ForecastRequest struct {
	ProductID string `json:"product_id"`
}
