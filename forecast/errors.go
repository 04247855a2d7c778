package forecast

import "errors"

// Terminal pipeline conditions. Handlers translate these with errors.Is; the
// pipeline itself never retries or recovers from them.
var (
	// ErrNoData: the product has zero matching historical records.
	ErrNoData = errors.New("no data found for the given product_id")

	// ErrInsufficientSeries: fewer than MinDistinctDates distinct dates.
	ErrInsufficientSeries = errors.New("not enough data points to fit a forecast model")

	// ErrDegenerateJoin: no overlapping dates between actuals and predictions.
	ErrDegenerateJoin = errors.New("no overlapping dates between actuals and predictions")

	// ErrPersistence wraps store failures while writing results.
	ErrPersistence = errors.New("failed to persist forecast results")
)
