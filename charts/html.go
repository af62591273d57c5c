package charts

import (
	"os"
	"path/filepath"
	"strconv"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/nvr-ai/vehdet/counts"
	"github.com/pkg/errors"
)

// DashboardFile is the interactive page written by RenderHTML.
const DashboardFile = "counts_dashboard.html"

func timeAxis(t *counts.Table) []string {
	xs := make([]string, len(t.Frames))
	for i, fc := range t.Frames {
		xs[i] = strconv.FormatFloat(fc.TimeSec, 'f', 2, 64)
	}
	return xs
}

func newLineChart(title, subtitle, ylabel string) *echarts.Line {
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: "Detection counts", Width: "100%", Height: "480px"}),
		echarts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		echarts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "time (s)", NameLocation: "middle", NameGap: 25}),
		echarts.WithYAxisOpts(opts.YAxis{Name: ylabel}),
	)
	return line
}

// TotalLine is the interactive counterpart of TotalVsTime.
func TotalLine(t *counts.Table) *echarts.Line {
	line := newLineChart("Total detections vs time", strconv.Itoa(len(t.Frames))+" frames", "detections")
	data := make([]opts.LineData, len(t.Frames))
	for i, fc := range t.Frames {
		data[i] = opts.LineData{Value: fc.Total}
	}
	line.SetXAxis(timeAxis(t)).AddSeries(counts.ColTotal, data)
	return line
}

// PerClassLines is the interactive counterpart of PerClassVsTime.
func PerClassLines(t *counts.Table) *echarts.Line {
	line := newLineChart("Per-class detections vs time", "", "detections")
	line.SetXAxis(timeAxis(t))
	for c, name := range t.Names {
		data := make([]opts.LineData, len(t.Frames))
		for i, fc := range t.Frames {
			data[i] = opts.LineData{Value: fc.PerClass[c]}
		}
		line.AddSeries(name, data)
	}
	return line
}

// RenderHTML writes a single page holding both time series to outdir and
// returns its path.
func RenderHTML(t *counts.Table, outdir string) (string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", outdir)
	}
	page := components.NewPage()
	page.PageTitle = "Detection counts"
	page.AddCharts(TotalLine(t), PerClassLines(t))

	path := filepath.Join(outdir, DashboardFile)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s", path)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "rendering %s", path)
	}
	return path, errors.Wrapf(f.Close(), "closing %s", path)
}
