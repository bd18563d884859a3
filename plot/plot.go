// Package plot draws mutation spectra and signature attributions.
package plot

import (
	"fmt"
	"math"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/mutation"
	"github.com/dasnellings/mtsgTools/spectrum"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// Spectrum renders the 96 category counts of v as a terminal graph. Each
// substitution class is drawn in its own color over its 16 contexts.
func Spectrum(sample string, v spectrum.Vector) string {
	series := make([][]float64, len(mutation.Substitutions))
	for i := range series {
		series[i] = make([]float64, mutation.NumCategories)
	}
	for i := range v {
		series[i/16][i] = float64(v[i])
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(10),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(
			asciigraph.Blue,
			asciigraph.Gray,
			asciigraph.Red,
			asciigraph.Olive,
			asciigraph.Green,
			asciigraph.Orange,
		),
		asciigraph.Caption(fmt.Sprintf("%s (burden %d) C>A C>G C>T T>A T>C T>G", sample, v.Burden())))
}

// Attributions saves a stacked bar chart of the contribution of each signature
// to each sample. The image format follows the extension of file (png, svg, pdf, ...).
func Attributions(results []cohort.Attribution, signatures []string, file string) error {
	if len(results) == 0 || len(signatures) == 0 {
		return fmt.Errorf("no attributions to plot")
	}
	p := plot.New()
	p.Title.Text = "Signature attributions"
	p.Y.Label.Text = "Mutations"

	names := make([]string, len(results))
	for i := range results {
		names[i] = results[i].Sample
	}

	width := vg.Points(12)
	var below *plotter.BarChart
	for j, sig := range signatures {
		values := make(plotter.Values, len(results))
		for i := range results {
			values[i] = results[i].Contributions[sig]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("%s: %w", sig, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(j)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(sig, bars)
		below = bars
	}
	p.Legend.Top = true
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = -0.35

	w := vg.Length(len(results))*width*1.5 + 4*vg.Inch
	return p.Save(w, 4*vg.Inch, file)
}
