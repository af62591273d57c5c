// Package charts - PNG charts of per-frame detection counts.
package charts

import (
	"os"
	"path/filepath"

	"github.com/nvr-ai/vehdet/counts"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Output file names.
const (
	TotalVsTimeFile    = "total_dets_vs_time.png"
	PerClassVsTimeFile = "per_class_dets_vs_time.png"
	PerSecondFile      = "total_dets_per_second.png"
)

// DPI is the resolution of saved charts.
const DPI = 200

// Chart sizes.
var (
	DefaultWidth, DefaultHeight   = 6.4 * vg.Inch, 4.8 * vg.Inch
	PerClassWidth, PerClassHeight = 10 * vg.Inch, 5 * vg.Inch
)

func newPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// TotalVsTime plots total detections per frame against the frame time.
func TotalVsTime(t *counts.Table) (*plot.Plot, error) {
	p := newPlot("Total detections vs time", "total detections per frame")
	pts := make(plotter.XYs, len(t.Frames))
	for i, fc := range t.Frames {
		pts[i] = plotter.XY{X: fc.TimeSec, Y: float64(fc.Total)}
	}
	if err := addLine(p, pts, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// PerClassVsTime plots one line per class column against the frame time.
func PerClassVsTime(t *counts.Table) (*plot.Plot, error) {
	p := newPlot("Per-class detections vs time", "detections per frame")
	for c, name := range t.Names {
		pts := make(plotter.XYs, len(t.Frames))
		for i, fc := range t.Frames {
			pts[i] = plotter.XY{X: fc.TimeSec, Y: float64(fc.PerClass[c])}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "plotting %s", name)
		}
		line.Color = plotutil.Color(c)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(name, line)
	}
	p.Legend.Top = true
	return p, nil
}

// PerSecondTotals plots the mean total detections of each second.
func PerSecondTotals(means []counts.SecondMean) (*plot.Plot, error) {
	p := newPlot("Total detections per second (avg over frames)", "avg detections per second")
	pts := make(plotter.XYs, len(means))
	for i, m := range means {
		pts[i] = plotter.XY{X: float64(m.Sec), Y: m.MeanTotal}
	}
	if err := addLine(p, pts, 0); err != nil {
		return nil, err
	}
	return p, nil
}

func addLine(p *plot.Plot, pts plotter.XYs, colorIdx int) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "building line")
	}
	line.Color = plotutil.Color(colorIdx)
	line.Width = vg.Points(1)
	p.Add(line)
	return nil
}

// SavePNG renders p at DPI into path.
func SavePNG(p *plot.Plot, w, h vg.Length, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(DPI))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// Render writes the charts for t into outdir, creating it if needed, and
// returns the paths written. The per-second chart is only drawn when perSecond is set.
func Render(t *counts.Table, outdir string, perSecond bool) ([]string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", outdir)
	}

	type job struct {
		file  string
		build func() (*plot.Plot, error)
		w, h  vg.Length
	}
	jobs := []job{
		{TotalVsTimeFile, func() (*plot.Plot, error) { return TotalVsTime(t) }, DefaultWidth, DefaultHeight},
		{PerClassVsTimeFile, func() (*plot.Plot, error) { return PerClassVsTime(t) }, PerClassWidth, PerClassHeight},
	}
	if perSecond {
		jobs = append(jobs, job{PerSecondFile, func() (*plot.Plot, error) { return PerSecondTotals(counts.PerSecond(t.Frames)) }, DefaultWidth, DefaultHeight})
	}

	var saved []string
	for _, j := range jobs {
		p, err := j.build()
		if err != nil {
			return saved, err
		}
		path := filepath.Join(outdir, j.file)
		if err := SavePNG(p, j.w, j.h, path); err != nil {
			return saved, err
		}
		saved = append(saved, path)
	}
	return saved, nil
}
