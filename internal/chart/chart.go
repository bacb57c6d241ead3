// Package chart renders daily intake totals as a PNG bar chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"wateryy/internal/model"
)

const (
	Width  = 800 * vg.Inch / 96
	Height = 400 * vg.Inch / 96
)

var (
	barFill  = color.RGBA{R: 52, G: 152, B: 219, A: 204}
	barEdge  = color.RGBA{R: 52, G: 152, B: 219, A: 255}
	goalLine = color.RGBA{R: 46, G: 204, B: 113, A: 255}
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no data points")

// DailyIntake draws one bar per day plus a dashed horizontal goal line.
func DailyIntake(title string, totals []model.DailyTotal, goal int) ([]byte, error) {
	if len(totals) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Water Intake - " + title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Amount (ml)"

	values := make(plotter.Values, len(totals))
	labels := make([]string, len(totals))
	peak := float64(goal)
	for i, t := range totals {
		values[i] = float64(t.Total)
		labels[i] = t.Day
		peak = max(peak, values[i])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth(len(totals))))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barFill
	bars.LineStyle.Color = barEdge
	bars.LineStyle.Width = vg.Points(1)

	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: float64(goal)},
		{X: float64(len(totals)) - 0.5, Y: float64(goal)},
	})
	if err != nil {
		return nil, fmt.Errorf("goal line: %w", err)
	}
	line.Color = goalLine
	line.Width = vg.Points(2)
	line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(bars, line)
	p.Legend.Add("Water Intake (ml)", bars)
	p.Legend.Add(fmt.Sprintf("Daily Goal (%dml)", goal), line)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.Y.Min = 0
	p.Y.Max = peak * 1.1

	w, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barWidth(n int) float64 {
	w := 480.0 / float64(n)
	return min(max(w, 4), 60)
}
