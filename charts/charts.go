// Package charts renders the forecast diagnostic artifacts as PNG files:
// an actual-vs-predicted line chart, an accuracy metrics bar chart, and a
// correlation heatmap over every numeric column in the store.
package charts

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"supplychain/models"
)

// Line writes the actual-vs-predicted chart. The three slices are parallel
// and date-aligned: actuals as a marked line, predictions dashed.
func Line(path, productID string, dates []time.Time, actual, predicted []float64) error {
	if len(dates) == 0 {
		return fmt.Errorf("no joined points to plot")
	}

	p := plot.New()
	p.Title.Text = "Forecast for " + productID
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Units Sold"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	actualXYs := make(plotter.XYs, len(dates))
	predictedXYs := make(plotter.XYs, len(dates))
	for i, d := range dates {
		x := float64(d.Unix())
		actualXYs[i] = plotter.XY{X: x, Y: actual[i]}
		predictedXYs[i] = plotter.XY{X: x, Y: predicted[i]}
	}

	actualLine, err := plotter.NewLine(actualXYs)
	if err != nil {
		return fmt.Errorf("build actual line: %w", err)
	}
	actualLine.Color = plotutil.Color(0)

	markers, err := plotter.NewScatter(actualXYs)
	if err != nil {
		return fmt.Errorf("build actual markers: %w", err)
	}
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Color = plotutil.Color(0)

	predictedLine, err := plotter.NewLine(predictedXYs)
	if err != nil {
		return fmt.Errorf("build predicted line: %w", err)
	}
	predictedLine.Color = plotutil.Color(1)
	predictedLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	p.Add(actualLine, markers, predictedLine)
	p.Legend.Add("Actual", actualLine, markers)
	p.Legend.Add("Predicted", predictedLine)
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save line chart: %w", err)
	}
	return nil
}

// MetricsBar writes the three accuracy metrics as labeled bars.
func MetricsBar(path string, m models.ForecastMetrics) error {
	p := plot.New()
	p.Title.Text = "Forecast Accuracy Metrics"

	bars, err := plotter.NewBarChart(plotter.Values{m.MAE, m.MSE, m.R2}, vg.Points(40))
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.Color = plotutil.Color(2)

	p.Add(bars)
	p.NominalX("MAE", "MSE", "R²")

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save bar chart: %w", err)
	}
	return nil
}

// Heatmap writes the pairwise correlation matrix of every numeric column
// across all stored records, annotated with values, on a diverging scale
// centered at zero. Optional columns are included only when present on every
// record.
func Heatmap(path string, records []models.SalesRecord) error {
	names, data := numericColumns(records)
	if len(records) < 2 || len(names) < 2 {
		return fmt.Errorf("correlation undefined: need at least 2 records and 2 numeric columns, have %d and %d",
			len(records), len(names))
	}

	corr := correlationMatrix(data, len(names))

	p := plot.New()
	p.Title.Text = "Feature Correlation Heatmap"

	colorMap := moreland.SmoothBlueRed()
	colorMap.SetMin(-1)
	colorMap.SetMax(1)

	grid := corrGrid{names: names, corr: corr}
	heatmap := plotter.NewHeatMap(grid, colorMap.Palette(255))
	heatmap.Min = -1
	heatmap.Max = 1
	p.Add(heatmap)

	labels, err := annotations(grid)
	if err != nil {
		return fmt.Errorf("build annotations: %w", err)
	}
	p.Add(labels)

	ticks := make([]plot.Tick, len(names))
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}

// correlationMatrix computes the pairwise correlations, scrubbing the NaNs a
// constant column produces: its self-correlation renders as 1, its pairings
// with other columns as 0.
func correlationMatrix(data *mat.Dense, n int) *mat.SymDense {
	corr := mat.NewSymDense(n, nil)
	stat.CorrelationMatrix(corr, data, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if math.IsNaN(corr.At(i, j)) {
				if i == j {
					corr.SetSym(i, j, 1)
				} else {
					corr.SetSym(i, j, 0)
				}
			}
		}
	}
	return corr
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	names []string
	corr  *mat.SymDense
}

func (g corrGrid) Dims() (c, r int)   { return len(g.names), len(g.names) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.corr.At(r, c) }

func annotations(g corrGrid) (*plotter.Labels, error) {
	n := len(g.names)
	xyLabels := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xyLabels.XYs = append(xyLabels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			xyLabels.Labels = append(xyLabels.Labels, fmt.Sprintf("%.2f", g.Z(c, r)))
		}
	}
	return plotter.NewLabels(xyLabels)
}

// numericColumns flattens the records into a column-major selection of the
// numeric fields. units_sold is always present; optional fields join only
// when every record carries them, mirroring a complete-column selection.
func numericColumns(records []models.SalesRecord) ([]string, *mat.Dense) {
	type column struct {
		name  string
		value func(models.SalesRecord) (float64, bool)
	}
	candidates := []column{
		{"units_sold", func(r models.SalesRecord) (float64, bool) { return float64(r.UnitsSold), true }},
		{"unit_price", func(r models.SalesRecord) (float64, bool) { return deref(r.UnitPrice) }},
		{"revenue", func(r models.SalesRecord) (float64, bool) { return deref(r.Revenue) }},
		{"competitor_price", func(r models.SalesRecord) (float64, bool) { return deref(r.CompetitorPrice) }},
		{"google_trend_score", func(r models.SalesRecord) (float64, bool) { return derefInt(r.GoogleTrendScore) }},
		{"stock_level", func(r models.SalesRecord) (float64, bool) { return derefInt(r.StockLevel) }},
		{"lead_time_days", func(r models.SalesRecord) (float64, bool) { return derefInt(r.LeadTimeDays) }},
	}

	var names []string
	var values [][]float64
	for _, cand := range candidates {
		col := make([]float64, 0, len(records))
		complete := true
		for _, r := range records {
			v, ok := cand.value(r)
			if !ok {
				complete = false
				break
			}
			col = append(col, v)
		}
		if complete {
			names = append(names, cand.name)
			values = append(values, col)
		}
	}

	if len(names) == 0 || len(records) == 0 {
		return names, nil
	}

	data := mat.NewDense(len(records), len(names), nil)
	for j, col := range values {
		for i, v := range col {
			data.Set(i, j, v)
		}
	}
	return names, data
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func derefInt(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}
