package main

import (
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// perfTracker records how long each frame took to produce, so
// --perf can plot the session's frame-time history on exit. It is
// bounded so a long session doesn't grow the plot without limit.
type perfTracker struct {
	samples []time.Duration
	max     int
}

func newPerfTracker(max int) *perfTracker {
	return &perfTracker{max: max}
}

func (p *perfTracker) record(d time.Duration) {
	if len(p.samples) >= p.max {
		p.samples = p.samples[1:]
	}
	p.samples = append(p.samples, d)
}

// writePlot renders the recorded frame times to path as a line
// chart, in milliseconds.
func (p *perfTracker) writePlot(path string) error {
	pts := make(plotter.XYs, len(p.samples))
	for i, d := range p.samples {
		pts[i].X = float64(i)
		pts[i].Y = float64(d.Microseconds()) / 1000
	}

	plt := plot.New()
	plt.Title.Text = "frame time"
	plt.X.Label.Text = "frame"
	plt.Y.Label.Text = "ms"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	plt.Add(line)

	return plt.Save(8*vg.Inch, 4*vg.Inch, path)
}
