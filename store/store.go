package store

import (
	"context"
	"errors"
	"fmt"

	"supplychain/config"
	"supplychain/models"
)

// ErrNotFound is returned when a lookup matches no stored row or document.
var ErrNotFound = errors.New("not found")

// RecordStore is the persistence capability the forecast pipeline runs
// against. Three interchangeable implementations exist: SQLite, Postgres and
// MongoDB. Replacement operations are scoped to a single product; results for
// other products are never touched.
type RecordStore interface {
	// AppendRecords appends sales rows without validation or deduplication.
	AppendRecords(ctx context.Context, records []models.SalesRecord) error

	// ProductSeries returns every (date, units_sold) pair for the product,
	// ordered ascending by date. An unknown product yields an empty slice,
	// not an error.
	ProductSeries(ctx context.Context, productID string) ([]models.SeriesPoint, error)

	// AllRecords returns every stored sales record. Used by the correlation
	// heatmap, which scans the full store on each forecast run.
	AllRecords(ctx context.Context) ([]models.SalesRecord, error)

	CountRecords(ctx context.Context) (int, error)
	ListRecords(ctx context.Context, limit, offset int) ([]models.SalesRecord, error)

	// ReplaceForecast deletes any prior forecast points for the product and
	// inserts the given ones.
	ReplaceForecast(ctx context.Context, productID string, points []models.ForecastPoint) error

	// ReplaceMetrics deletes any prior metrics record for the product and
	// inserts the given one.
	ReplaceMetrics(ctx context.Context, metrics models.ForecastMetrics) error

	ForecastPoints(ctx context.Context, productID string) ([]models.ForecastPoint, error)

	// Metrics returns the persisted metrics for the product, or ErrNotFound.
	Metrics(ctx context.Context, productID string) (*models.ForecastMetrics, error)

	Close()
}

// Open creates the store selected by cfg.StoreBackend and ensures its schema
// exists.
func Open(ctx context.Context, cfg config.Config) (RecordStore, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
