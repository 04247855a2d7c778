package forecast

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"supplychain/models"
)

const (
	// Horizon is the fixed number of periods projected past the last
	// observed date.
	Horizon = 30

	// MinDistinctDates is the minimum number of distinct observation dates
	// required to fit a model.
	MinDistinctDates = 2

	// zScore95 widens the residual standard deviation into a two-sided 95%
	// band.
	zScore95 = 1.96
)

// Model is an additive demand model: a least-squares linear trend plus, for
// daily series, day-of-week seasonal offsets. Fitting is closed-form, so
// repeated runs on identical input are deterministic.
type Model struct {
	start    time.Time
	cadence  time.Duration
	dates    []time.Time // distinct observed dates, ascending
	alpha    float64     // trend intercept
	beta     float64     // trend slope per period
	seasonal map[time.Weekday]float64 // nil when the cadence is not daily
	sigma    float64     // stddev of fit residuals
}

// Fit estimates the model from the observed series. The series may contain
// duplicate dates; every row contributes to the fit.
func Fit(series []models.SeriesPoint) (*Model, error) {
	dates := distinctDates(series)
	if len(dates) < MinDistinctDates {
		return nil, ErrInsufficientSeries
	}

	m := &Model{
		start:   dates[0],
		cadence: inferCadence(dates),
		dates:   dates,
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = m.periodIndex(p.Date)
		ys[i] = p.Units
	}
	m.alpha, m.beta = stat.LinearRegression(xs, ys, nil, false)

	if m.cadence == 24*time.Hour {
		m.seasonal = weekdayOffsets(series, m)
	}

	residuals := make([]float64, len(series))
	for i, p := range series {
		residuals[i] = p.Units - m.at(p.Date)
	}
	if len(residuals) >= 2 {
		if sd := stat.StdDev(residuals, nil); !math.IsNaN(sd) {
			m.sigma = sd
		}
	}

	return m, nil
}

// Forecast predicts every distinct historical date plus Horizon periods past
// the last one, in date order, tagged with productID.
func (m *Model) Forecast(productID string) []models.ForecastPoint {
	points := make([]models.ForecastPoint, 0, len(m.dates)+Horizon)
	for _, d := range m.dates {
		points = append(points, m.point(productID, d))
	}
	last := m.dates[len(m.dates)-1]
	for i := 1; i <= Horizon; i++ {
		points = append(points, m.point(productID, last.Add(time.Duration(i)*m.cadence)))
	}
	return points
}

func (m *Model) point(productID string, date time.Time) models.ForecastPoint {
	predicted := m.at(date)
	band := zScore95 * m.sigma
	return models.ForecastPoint{
		ProductID: productID,
		Date:      date,
		Predicted: predicted,
		Lower:     predicted - band,
		Upper:     predicted + band,
	}
}

// at evaluates the fitted model at an arbitrary date.
func (m *Model) at(date time.Time) float64 {
	v := m.alpha + m.beta*m.periodIndex(date)
	if m.seasonal != nil {
		v += m.seasonal[date.Weekday()]
	}
	return v
}

func (m *Model) periodIndex(date time.Time) float64 {
	return date.Sub(m.start).Hours() / m.cadence.Hours()
}

// weekdayOffsets averages the trend residuals per weekday, then centers the
// offsets so the trend keeps the overall level.
func weekdayOffsets(series []models.SeriesPoint, m *Model) map[time.Weekday]float64 {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)
	for _, p := range series {
		trend := m.alpha + m.beta*m.periodIndex(p.Date)
		sums[p.Date.Weekday()] += p.Units - trend
		counts[p.Date.Weekday()]++
	}

	offsets := make(map[time.Weekday]float64, len(sums))
	var total float64
	for wd, sum := range sums {
		offsets[wd] = sum / float64(counts[wd])
		total += offsets[wd]
	}
	center := total / float64(len(offsets))
	for wd := range offsets {
		offsets[wd] -= center
	}
	return offsets
}

func distinctDates(series []models.SeriesPoint) []time.Time {
	seen := make(map[time.Time]struct{}, len(series))
	var dates []time.Time
	for _, p := range series {
		d := p.Date.Truncate(24 * time.Hour)
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// inferCadence takes the smallest positive gap between consecutive distinct
// dates as the series period.
func inferCadence(dates []time.Time) time.Duration {
	cadence := dates[1].Sub(dates[0])
	for i := 2; i < len(dates); i++ {
		if gap := dates[i].Sub(dates[i-1]); gap < cadence {
			cadence = gap
		}
	}
	return cadence
}
