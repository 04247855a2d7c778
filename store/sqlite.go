package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"supplychain/models"
)

// SQLiteStore keeps all data in an embedded SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so chart serving can read while an upload writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS supply_data (
			date               TEXT NOT NULL,
			product_id         TEXT NOT NULL,
			product_name       TEXT,
			category           TEXT,
			region             TEXT,
			units_sold         INTEGER NOT NULL,
			unit_price         REAL,
			revenue            REAL,
			competitor_price   REAL,
			google_trend_score INTEGER,
			market_sentiment   TEXT,
			stock_level        INTEGER,
			lead_time_days     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_supply_product ON supply_data(product_id, date)`,

		`CREATE TABLE IF NOT EXISTS forecast_results (
			product_id      TEXT NOT NULL,
			date            TEXT NOT NULL,
			predicted_value REAL NOT NULL,
			lower_bound     REAL NOT NULL,
			upper_bound     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_product ON forecast_results(product_id, date)`,

		`CREATE TABLE IF NOT EXISTS forecast_metrics (
			product_id TEXT NOT NULL,
			mae        REAL NOT NULL,
			mse        REAL NOT NULL,
			r2_score   REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_product ON forecast_metrics(product_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) AppendRecords(ctx context.Context, records []models.SalesRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO supply_data
		(date, product_id, product_name, category, region, units_sold,
		 unit_price, revenue, competitor_price, google_trend_score,
		 market_sentiment, stock_level, lead_time_days)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx, r.Date.Format(models.DateLayout), r.ProductID,
			r.ProductName, r.Category, r.Region, r.UnitsSold,
			r.UnitPrice, r.Revenue, r.CompetitorPrice, r.GoogleTrendScore,
			r.MarketSentiment, r.StockLevel, r.LeadTimeDays)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ProductSeries(ctx context.Context, productID string) ([]models.SeriesPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, units_sold
		FROM supply_data
		WHERE product_id = ?
		ORDER BY date`, productID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var series []models.SeriesPoint
	for rows.Next() {
		var dateStr string
		var units float64
		if err := rows.Scan(&dateStr, &units); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		date, err := time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		series = append(series, models.SeriesPoint{Date: date, Units: units})
	}
	return series, rows.Err()
}

const sqliteRecordColumns = `date, product_id, product_name, category, region, units_sold,
	unit_price, revenue, competitor_price, google_trend_score,
	market_sentiment, stock_level, lead_time_days`

func (s *SQLiteStore) AllRecords(ctx context.Context) ([]models.SalesRecord, error) {
	return s.queryRecords(ctx, `SELECT `+sqliteRecordColumns+` FROM supply_data ORDER BY date`)
}

func (s *SQLiteStore) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM supply_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, limit, offset int) ([]models.SalesRecord, error) {
	return s.queryRecords(ctx,
		`SELECT `+sqliteRecordColumns+` FROM supply_data ORDER BY date LIMIT ? OFFSET ?`,
		limit, offset)
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.SalesRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var (
			r           models.SalesRecord
			dateStr     string
			name        sql.NullString
			category    sql.NullString
			region      sql.NullString
			unitPrice   sql.NullFloat64
			revenue     sql.NullFloat64
			compPrice   sql.NullFloat64
			trendScore  sql.NullInt64
			sentiment   sql.NullString
			stockLevel  sql.NullInt64
			leadTime    sql.NullInt64
		)
		if err := rows.Scan(&dateStr, &r.ProductID, &name, &category, &region, &r.UnitsSold,
			&unitPrice, &revenue, &compPrice, &trendScore, &sentiment, &stockLevel, &leadTime); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		date, err := time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		r.Date = date
		r.ProductName = nullString(name)
		r.Category = nullString(category)
		r.Region = nullString(region)
		r.UnitPrice = nullFloat(unitPrice)
		r.Revenue = nullFloat(revenue)
		r.CompetitorPrice = nullFloat(compPrice)
		r.GoogleTrendScore = nullInt(trendScore)
		r.MarketSentiment = nullString(sentiment)
		r.StockLevel = nullInt(stockLevel)
		r.LeadTimeDays = nullInt(leadTime)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) ReplaceForecast(ctx context.Context, productID string, points []models.ForecastPoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecast_results WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("delete prior forecast: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO forecast_results
		(product_id, date, predicted_value, lower_bound, upper_bound)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, productID, p.Date.Format(models.DateLayout),
			p.Predicted, p.Lower, p.Upper); err != nil {
			return fmt.Errorf("insert forecast point: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ReplaceMetrics(ctx context.Context, m models.ForecastMetrics) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecast_metrics WHERE product_id = ?`, m.ProductID); err != nil {
		return fmt.Errorf("delete prior metrics: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO forecast_metrics
		(product_id, mae, mse, r2_score) VALUES (?,?,?,?)`,
		m.ProductID, m.MAE, m.MSE, m.R2); err != nil {
		return fmt.Errorf("insert metrics: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) ForecastPoints(ctx context.Context, productID string) ([]models.ForecastPoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, date, predicted_value, lower_bound, upper_bound
		FROM forecast_results
		WHERE product_id = ?
		ORDER BY date`, productID)
	if err != nil {
		return nil, fmt.Errorf("query forecast points: %w", err)
	}
	defer rows.Close()

	var points []models.ForecastPoint
	for rows.Next() {
		var p models.ForecastPoint
		var dateStr string
		if err := rows.Scan(&p.ProductID, &dateStr, &p.Predicted, &p.Lower, &p.Upper); err != nil {
			return nil, fmt.Errorf("scan forecast point: %w", err)
		}
		date, err := time.Parse(models.DateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		p.Date = date
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *SQLiteStore) Metrics(ctx context.Context, productID string) (*models.ForecastMetrics, error) {
	var m models.ForecastMetrics
	err := s.db.QueryRowContext(ctx, `
		SELECT product_id, mae, mse, r2_score
		FROM forecast_metrics
		WHERE product_id = ?`, productID).Scan(&m.ProductID, &m.MAE, &m.MSE, &m.R2)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	return &m, nil
}

func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Printf("Error closing sqlite store: %v", err)
	}
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
