package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/fatih/color"
	"github.com/nvr-ai/vehdet/yolo"
	"github.com/pkg/errors"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	def := yolo.DefaultValArgs()

	parser := argparse.NewParser("eval", "Evaluate trained weights with the yolo tool")
	data := parser.String("", "data", &argparse.Options{Help: "Dataset descriptor (YAML)", Required: true})
	weights := parser.String("", "weights", &argparse.Options{Help: "Path to best.pt", Required: true})
	imgsz := parser.Int("", "imgsz", &argparse.Options{Help: "Input size", Default: def.ImgSz})
	device := parser.String("", "device", &argparse.Options{Help: "'0' for GPU 0, or 'cpu'", Default: def.Device})
	split := parser.Selector("", "split", yolo.Splits, &argparse.Options{Help: "Dataset split to evaluate", Default: def.Split})
	plots := parser.Flag("", "plots", &argparse.Options{Help: "Save PR and confusion matrix plots"})
	exe := parser.String("", "yolo", &argparse.Options{Help: "yolo executable", Default: yolo.DefaultExecutable})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	// The yolo tool validates the descriptor itself.
	_, err = os.Stat(*data)
	check(errors.Wrapf(err, "dataset %s", *data))
	_, err = os.Stat(*weights)
	check(errors.Wrapf(err, "weights %s", *weights))

	args := yolo.ValArgs{
		Data:    *data,
		Weights: *weights,
		ImgSz:   *imgsz,
		Device:  *device,
		Split:   *split,
		Plots:   *plots,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &yolo.Runner{Executable: *exe, Stdout: os.Stdout, Stderr: os.Stderr, Log: logger}
	out, err := runner.Run(ctx, args.Args())
	check(err)

	fmt.Println()
	color.New(color.FgGreen).Print("Done.")
	fmt.Printf(" Split=%s\n", args.Split)
	if s, ok := yolo.ParseSummary(out); ok {
		m := s.All
		fmt.Printf("P=%.4f  R=%.4f  mAP50=%.4f  mAP50-95=%.4f\n", m.Precision, m.Recall, m.MAP50, m.MAP5095)
	} else {
		color.New(color.FgYellow).Println("Metrics missing; please use the 'all' line above.")
	}
	fmt.Printf("Saved to: %s/%s\n", yolo.DefaultProject, args.RunName())
}
