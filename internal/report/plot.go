package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
	"github.com/KaramelBytes/leapmetrics-cli/internal/utils"
)

// PlotOptions sizes the rendered image.
type PlotOptions struct {
	WidthInches  float64
	HeightInches float64
}

// DefaultPlotOptions is a 14x10 inch figure.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{WidthInches: 14, HeightInches: 10}
}

var boxFill = color.RGBA{R: 173, G: 216, B: 230, A: 255} // light blue

// SessionBox is the data behind one box of the plot.
type SessionBox struct {
	Session int
	Values  []float64
	Stats   analysis.Summary
}

// Boxes groups a result's long-format values by session, ascending.
func Boxes(res *analysis.Result) []SessionBox {
	out := make([]SessionBox, 0, len(res.Sessions))
	for _, s := range res.Sessions {
		vals := make([]float64, 0, len(s.Values))
		for _, v := range s.Values {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
		out = append(out, SessionBox{Session: s.Session, Values: vals, Stats: analysis.Summarize(vals)})
	}
	return out
}

// Annotation is the text block printed under a session's box.
func (b SessionBox) Annotation() string {
	s := b.Stats
	return fmt.Sprintf("Session %d:\nMin: %.2f\nMax: %.2f\nMean: %.2f\nMedian: %.2f\nStd dev: %.2f\nRange: %.2f",
		b.Session, s.Min, s.Max, s.Mean, s.Median, s.Std, s.Range())
}

// RenderBoxPlot draws one box per session of res and writes a PNG to path.
func RenderBoxPlot(res *analysis.Result, client, path string, opt PlotOptions) error {
	if len(res.Sessions) == 0 {
		return fmt.Errorf("plot %s: no sessions", res.Exercise)
	}
	if opt.WidthInches <= 0 || opt.HeightInches <= 0 {
		opt = DefaultPlotOptions()
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s", analysis.Title(res.Exercise), client)
	p.X.Label.Text = "Session Number"
	p.Y.Label.Text = "Value"
	p.Add(plotter.NewGrid())

	boxes := Boxes(res)
	names := make([]string, len(boxes))
	floor := math.Inf(1)
	for _, b := range boxes {
		if b.Stats.Count > 0 && b.Stats.Min < floor {
			floor = b.Stats.Min
		}
	}
	var xys plotter.XYs
	var texts []string
	for i, b := range boxes {
		names[i] = fmt.Sprintf("Session %d", b.Session)
		if len(b.Values) == 0 {
			continue
		}
		bp, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(b.Values))
		if err != nil {
			return fmt.Errorf("plot %s session %d: %w", res.Exercise, b.Session, err)
		}
		bp.FillColor = boxFill
		p.Add(bp)
		xys = append(xys, plotter.XY{X: float64(i), Y: floor})
		texts = append(texts, b.Annotation())
	}
	p.NominalX(names...)
	if len(xys) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return fmt.Errorf("plot %s labels: %w", res.Exercise, err)
		}
		p.Add(labels)
	}

	wt, err := p.WriterTo(vg.Length(opt.WidthInches)*vg.Inch, vg.Length(opt.HeightInches)*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("plot %s: %w", res.Exercise, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("render %s: %w", res.Exercise, err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
