package main

import (
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/nvr-ai/vehdet/charts"
	"github.com/nvr-ai/vehdet/counts"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("plot", "Chart the per-frame detection counts written by infer")
	csvPath := parser.String("", "csv", &argparse.Options{Help: "Counts CSV, e.g. runs/detect/veh_demo_video/veh_demo_counts.csv", Required: true})
	outdir := parser.String("", "outdir", &argparse.Options{Help: "Directory for the PNG charts", Default: "assets/plots"})
	perSecond := parser.Flag("", "per_second", &argparse.Options{Help: "Also chart the mean total per second"})
	html := parser.Flag("", "html", &argparse.Options{Help: "Also write an interactive HTML page of the time series"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	table, err := counts.ReadFile(*csvPath)
	check(err)

	saved, err := charts.Render(table, *outdir, *perSecond)
	check(err)
	if *html {
		path, err := charts.RenderHTML(table, *outdir)
		check(err)
		saved = append(saved, path)
	}
	for _, path := range saved {
		fmt.Printf("[Saved] %s\n", path)
	}
}
