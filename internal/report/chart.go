package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"bifacial-sweep/internal/sweep"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	bifacialColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	monofacialColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	bestBifColor    = color.RGBA{G: 128, A: 255}
	bestMonoColor   = color.RGBA{R: 200, A: 255}
)

// Chart renders annual energy against tilt for both configurations, with a
// vertical marker at each optimum. format is "png" or "svg".
func Chart(res *sweep.Result, format string) ([]byte, error) {
	if res == nil || len(res.Results) == 0 {
		return nil, fmt.Errorf("no sweep results to plot")
	}
	if format != "png" && format != "svg" {
		return nil, fmt.Errorf("unsupported chart format: %s", format)
	}

	p := plot.New()
	p.Title.Text = "Total annual production vs. tilt angle"
	p.X.Label.Text = "Tilt angle [deg]"
	p.Y.Label.Text = "Annual production [kWh]"
	p.Add(plotter.NewGrid())

	bif := make(plotter.XYs, len(res.Results))
	mono := make(plotter.XYs, len(res.Results))
	ticks := make([]plot.Tick, len(res.Results))
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for i, r := range res.Results {
		x := float64(r.TiltDegrees)
		bif[i] = plotter.XY{X: x, Y: r.BifacialAnnualKWh}
		mono[i] = plotter.XY{X: x, Y: r.MonofacialAnnualKWh}
		ticks[i] = plot.Tick{Value: x, Label: fmt.Sprintf("%d", r.TiltDegrees)}
		yMin = math.Min(yMin, math.Min(r.BifacialAnnualKWh, r.MonofacialAnnualKWh))
		yMax = math.Max(yMax, math.Max(r.BifacialAnnualKWh, r.MonofacialAnnualKWh))
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = math.Max(1, yMax*0.05)
	}
	yMin -= pad
	yMax += pad

	bifLine, bifPoints, err := plotter.NewLinePoints(bif)
	if err != nil {
		return nil, fmt.Errorf("failed to create bifacial line: %v", err)
	}
	bifLine.Color = bifacialColor
	bifLine.LineStyle.Width = vg.Points(1.5)
	bifPoints.Shape = draw.CircleGlyph{}
	bifPoints.Color = bifacialColor

	monoLine, monoPoints, err := plotter.NewLinePoints(mono)
	if err != nil {
		return nil, fmt.Errorf("failed to create monofacial line: %v", err)
	}
	monoLine.Color = monofacialColor
	monoLine.LineStyle.Width = vg.Points(1.5)
	monoLine.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	monoPoints.Shape = draw.CrossGlyph{}
	monoPoints.Color = monofacialColor

	p.Add(bifLine, bifPoints, monoLine, monoPoints)
	p.Legend.Add("Bifacial annual kWh", bifLine, bifPoints)
	p.Legend.Add("Monofacial annual kWh", monoLine, monoPoints)

	s := res.Summary
	for _, m := range []struct {
		tilt  int
		label string
		color color.Color
	}{
		{s.BestBifacialTilt, fmt.Sprintf("Best bifacial tilt: %d deg", s.BestBifacialTilt), bestBifColor},
		{s.BestMonofacialTilt, fmt.Sprintf("Best monofacial tilt: %d deg", s.BestMonofacialTilt), bestMonoColor},
	} {
		x := float64(m.tilt)
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
		if err != nil {
			return nil, fmt.Errorf("failed to create optimum marker: %v", err)
		}
		marker.Color = m.color
		marker.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(marker)
		p.Legend.Add(m.label, marker)
	}

	first, last := res.Results[0].TiltDegrees, res.Results[len(res.Results)-1].TiltDegrees
	p.X.Min = float64(first) - 0.5
	p.X.Max = float64(last) + 0.5
	p.Y.Min = yMin
	p.Y.Max = yMax
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = vg.Points(10)

	writer, err := p.WriterTo(vg.Points(1000), vg.Points(500), format)
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
