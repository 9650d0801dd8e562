// Package chart renders a bar chart of token usage per model to a PNG file.
// The chart is illustrative only; nothing downstream consumes it.
package chart

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Render writes a bar chart of per-model token counts to path. Bars are
// ordered by model name so repeated runs produce identical charts.
func Render(usage map[string]int, path string) error {
	if len(usage) == 0 {
		return fmt.Errorf("chart: no token usage data")
	}

	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(plotter.Values, len(names))
	for i, name := range names {
		values[i] = float64(usage[name])
	}

	p := plot.New()
	p.Title.Text = "Token Usage Comparison Across Models"
	p.X.Label.Text = "Models"
	p.Y.Label.Text = "Tokens Used"

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return fmt.Errorf("chart: build bars: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}
