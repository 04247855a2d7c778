package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"supplychain/models"
)

// PostgresStore keeps all data in a PostgreSQL database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore sets up the connection pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("Successfully connected to the database")
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS supply_data (
			date               DATE NOT NULL,
			product_id         TEXT NOT NULL,
			product_name       TEXT,
			category           TEXT,
			region             TEXT,
			units_sold         INTEGER NOT NULL,
			unit_price         DOUBLE PRECISION,
			revenue            DOUBLE PRECISION,
			competitor_price   DOUBLE PRECISION,
			google_trend_score INTEGER,
			market_sentiment   TEXT,
			stock_level        INTEGER,
			lead_time_days     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_supply_product ON supply_data(product_id, date)`,

		`CREATE TABLE IF NOT EXISTS forecast_results (
			product_id      TEXT NOT NULL,
			date            DATE NOT NULL,
			predicted_value DOUBLE PRECISION NOT NULL,
			lower_bound     DOUBLE PRECISION NOT NULL,
			upper_bound     DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_forecast_product ON forecast_results(product_id, date)`,

		`CREATE TABLE IF NOT EXISTS forecast_metrics (
			product_id TEXT NOT NULL,
			mae        DOUBLE PRECISION NOT NULL,
			mse        DOUBLE PRECISION NOT NULL,
			r2_score   DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_metrics_product ON forecast_metrics(product_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) AppendRecords(ctx context.Context, records []models.SalesRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO supply_data
		(date, product_id, product_name, category, region, units_sold,
		 unit_price, revenue, competitor_price, google_trend_score,
		 market_sentiment, stock_level, lead_time_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	for _, r := range records {
		if _, err := tx.Exec(ctx, query, r.Date, r.ProductID,
			r.ProductName, r.Category, r.Region, r.UnitsSold,
			r.UnitPrice, r.Revenue, r.CompetitorPrice, r.GoogleTrendScore,
			r.MarketSentiment, r.StockLevel, r.LeadTimeDays); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ProductSeries(ctx context.Context, productID string) ([]models.SeriesPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT date, units_sold
		FROM supply_data
		WHERE product_id = $1
		ORDER BY date`, productID)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var series []models.SeriesPoint
	for rows.Next() {
		var p models.SeriesPoint
		if err := rows.Scan(&p.Date, &p.Units); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		series = append(series, p)
	}
	return series, rows.Err()
}

const pgRecordColumns = `date, product_id, product_name, category, region, units_sold,
	unit_price, revenue, competitor_price, google_trend_score,
	market_sentiment, stock_level, lead_time_days`

func (s *PostgresStore) AllRecords(ctx context.Context) ([]models.SalesRecord, error) {
	return s.queryRecords(ctx, `SELECT `+pgRecordColumns+` FROM supply_data ORDER BY date`)
}

func (s *PostgresStore) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM supply_data`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, limit, offset int) ([]models.SalesRecord, error) {
	return s.queryRecords(ctx,
		`SELECT `+pgRecordColumns+` FROM supply_data ORDER BY date LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (s *PostgresStore) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.SalesRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.SalesRecord
	for rows.Next() {
		var r models.SalesRecord
		if err := rows.Scan(&r.Date, &r.ProductID, &r.ProductName, &r.Category, &r.Region,
			&r.UnitsSold, &r.UnitPrice, &r.Revenue, &r.CompetitorPrice, &r.GoogleTrendScore,
			&r.MarketSentiment, &r.StockLevel, &r.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *PostgresStore) ReplaceForecast(ctx context.Context, productID string, points []models.ForecastPoint) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM forecast_results WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete prior forecast: %w", err)
	}

	query := `INSERT INTO forecast_results
		(product_id, date, predicted_value, lower_bound, upper_bound)
		VALUES ($1,$2,$3,$4,$5)`
	for _, p := range points {
		if _, err := tx.Exec(ctx, query, productID, p.Date, p.Predicted, p.Lower, p.Upper); err != nil {
			return fmt.Errorf("insert forecast point: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ReplaceMetrics(ctx context.Context, m models.ForecastMetrics) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM forecast_metrics WHERE product_id = $1`, m.ProductID); err != nil {
		return fmt.Errorf("delete prior metrics: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO forecast_metrics
		(product_id, mae, mse, r2_score) VALUES ($1,$2,$3,$4)`,
		m.ProductID, m.MAE, m.MSE, m.R2); err != nil {
		return fmt.Errorf("insert metrics: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ForecastPoints(ctx context.Context, productID string) ([]models.ForecastPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, date, predicted_value, lower_bound, upper_bound
		FROM forecast_results
		WHERE product_id = $1
		ORDER BY date`, productID)
	if err != nil {
		return nil, fmt.Errorf("query forecast points: %w", err)
	}
	defer rows.Close()

	var points []models.ForecastPoint
	for rows.Next() {
		var p models.ForecastPoint
		if err := rows.Scan(&p.ProductID, &p.Date, &p.Predicted, &p.Lower, &p.Upper); err != nil {
			return nil, fmt.Errorf("scan forecast point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *PostgresStore) Metrics(ctx context.Context, productID string) (*models.ForecastMetrics, error) {
	var m models.ForecastMetrics
	err := s.pool.QueryRow(ctx, `
		SELECT product_id, mae, mse, r2_score
		FROM forecast_metrics
		WHERE product_id = $1`, productID).Scan(&m.ProductID, &m.MAE, &m.MSE, &m.R2)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	return &m, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
	log.Println("Database connection pool closed")
}
