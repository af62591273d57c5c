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
	def := yolo.DefaultTrainArgs()

	parser := argparse.NewParser("train", "Train a vehicle detector with the yolo tool")
	data := parser.String("", "data", &argparse.Options{Help: "Dataset descriptor (YAML)", Required: true})
	model := parser.String("", "model", &argparse.Options{Help: "Starting weights, e.g. yolov8n.pt or yolov8s.pt", Default: def.Model})
	imgsz := parser.Int("", "imgsz", &argparse.Options{Help: "Input size", Default: def.ImgSz})
	epochs := parser.Int("", "epochs", &argparse.Options{Help: "Training epochs", Default: def.Epochs})
	batch := parser.Int("", "batch", &argparse.Options{Help: "Batch size", Default: def.Batch})
	device := parser.String("", "device", &argparse.Options{Help: "'0' for GPU 0, or 'cpu'", Default: def.Device})
	name := parser.String("", "name", &argparse.Options{Help: "Run name", Default: def.Name})
	project := parser.String("", "project", &argparse.Options{Help: "Output root directory", Default: def.Project})
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

	args := yolo.TrainArgs{
		Data:    *data,
		Model:   *model,
		ImgSz:   *imgsz,
		Epochs:  *epochs,
		Batch:   *batch,
		Device:  *device,
		Project: *project,
		Name:    *name,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &yolo.Runner{Executable: *exe, Stdout: os.Stdout, Stderr: os.Stderr, Log: logger}
	out, err := runner.Run(ctx, args.Args())
	check(err)

	saveDir, ok := yolo.ParseSaveDir(out)
	if !ok {
		saveDir = args.SaveDir()
	}
	color.New(color.FgGreen).Print("Done.")
	fmt.Printf(" Results saved to: %s\n", saveDir)
}
