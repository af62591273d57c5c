package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/fatih/color"
	"github.com/nvr-ai/vehdet/dataset"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("prepare", "Convert the 21-class road vehicle dataset to the 5-class vehicle dataset")
	src := parser.String("", "src", &argparse.Options{Help: "Source dataset root, containing train/ and valid/", Required: true})
	dst := parser.String("", "dst", &argparse.Options{Help: "Destination dataset root", Default: "datasets/RoadVehicleData2_5c"})
	yamlOut := parser.String("", "yaml_out", &argparse.Options{Help: "Dataset descriptor to write", Default: "veh5_data2.yaml"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	conv := dataset.NewConverter(logger)
	conv.Progress = os.Stderr
	res, err := conv.Convert(*src, *dst)
	check(err)

	_, err = dataset.WriteDescriptor(*dst, *yamlOut)
	check(err)

	printSummary(os.Stdout, res, conv.Mapping.To().Names(), *yamlOut)
}

// printSummary writes the image and per-class object counts of a conversion.
func printSummary(w io.Writer, res *dataset.Result, names []string, yamlOut string) {
	train, _ := res.Split("train")
	valid, _ := res.Split("valid")
	totals := res.Totals()

	color.New(color.FgGreen).Fprintln(w, "Done.")
	fmt.Fprintf(w, "Train images: %d, Valid images: %d\n", train.Images, valid.Images)
	fmt.Fprintln(w, "Objects per class (Train+Valid):")
	for i, name := range names {
		n := 0
		if i < len(totals) {
			n = totals[i]
		}
		fmt.Fprintf(w, "  %d:%-12s  %d\n", i, name, n)
	}
	fmt.Fprintf(w, "YAML saved to: %s\n", yamlOut)
}
