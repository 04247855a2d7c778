package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"supplychain/models"
)

// joined holds the date-aligned actual/predicted pairs used for evaluation
// and for the line chart.
type joined struct {
	dates     []time.Time
	actual    []float64
	predicted []float64
}

// joinByDate inner-joins actual observations with predictions on date. Every
// actual row pairs with its date's prediction, so duplicate dates contribute
// one pair each; predictions past the historical range have no actual and
// drop out naturally.
func joinByDate(series []models.SeriesPoint, points []models.ForecastPoint) joined {
	predicted := make(map[time.Time]float64, len(points))
	for _, p := range points {
		predicted[p.Date] = p.Predicted
	}

	var j joined
	for _, obs := range series {
		d := obs.Date.Truncate(24 * time.Hour)
		yhat, ok := predicted[d]
		if !ok {
			continue
		}
		j.dates = append(j.dates, d)
		j.actual = append(j.actual, obs.Units)
		j.predicted = append(j.predicted, yhat)
	}
	return j
}

// Evaluate computes MAE, MSE and R² over the date-joined pairs.
func Evaluate(productID string, series []models.SeriesPoint, points []models.ForecastPoint) (*models.ForecastMetrics, error) {
	j := joinByDate(series, points)
	if len(j.actual) == 0 {
		return nil, ErrDegenerateJoin
	}

	n := float64(len(j.actual))
	mean := stat.Mean(j.actual, nil)

	var absSum, sqSum, ssTot float64
	for i, y := range j.actual {
		diff := y - j.predicted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		ssTot += (y - mean) * (y - mean)
	}

	// Constant actuals leave R² undefined; report 1 for an exact fit and 0
	// otherwise instead of producing NaN.
	r2 := 0.0
	switch {
	case ssTot > 0:
		r2 = 1 - sqSum/ssTot
	case sqSum == 0:
		r2 = 1
	}

	return &models.ForecastMetrics{
		ProductID: productID,
		MAE:       absSum / n,
		MSE:       sqSum / n,
		R2:        r2,
	}, nil
}
