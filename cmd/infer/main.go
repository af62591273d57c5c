package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/fatih/color"
	"github.com/nvr-ai/vehdet/dataset"
	"github.com/nvr-ai/vehdet/detector"
	"github.com/nvr-ai/vehdet/models"
	"github.com/nvr-ai/vehdet/video"
)

const (
	videoFile  = "veh_demo_boxed.mp4"
	countsFile = "veh_demo_counts.csv"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	def := detector.DefaultConfig()

	parser := argparse.NewParser("infer", "Detect vehicles in a video and write an annotated copy")
	weights := parser.String("", "weights", &argparse.Options{Help: "ONNX export of the trained weights", Required: true})
	source := parser.String("", "source", &argparse.Options{Help: "Input video, e.g. assets/videos/TrafficPolice.mp4", Required: true})
	imgsz := parser.Int("", "imgsz", &argparse.Options{Help: "Input size", Default: def.InputSize})
	conf := parser.Float("", "conf", &argparse.Options{Help: "Confidence threshold", Default: float64(def.ConfidenceThreshold)})
	iou := parser.Float("", "iou", &argparse.Options{Help: "NMS IoU threshold", Default: float64(def.NMSThreshold)})
	device := parser.String("", "device", &argparse.Options{Help: "e.g. 0 or cpu; empty picks automatically", Default: ""})
	backend := parser.Selector("", "backend", []string{string(detector.BackendOpenCV), string(detector.BackendONNXRuntime)},
		&argparse.Options{Help: "Inference backend", Default: string(def.Backend)})
	ortLib := parser.String("", "ort_lib", &argparse.Options{Help: "onnxruntime shared library (onnxruntime backend only)", Default: ""})
	data := parser.String("", "data", &argparse.Options{Help: "Dataset descriptor to take class names from", Default: ""})
	name := parser.String("", "name", &argparse.Options{Help: "Output folder name under save_dir", Default: "veh_demo_video"})
	saveDir := parser.String("", "save_dir", &argparse.Options{Help: "Base output dir", Default: "runs/detect"})
	saveCSV := parser.Flag("", "save_csv", &argparse.Options{Help: "Save per-frame counts to CSV"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	check(err)

	names := models.VehicleClasses().Names()
	if *data != "" {
		desc, err := dataset.LoadDescriptor(*data)
		check(err)
		names = desc.Names
	}

	cfg := def
	cfg.ModelPath = *weights
	cfg.Backend = detector.Backend(*backend)
	cfg.InputSize = *imgsz
	cfg.ConfidenceThreshold = float32(*conf)
	cfg.NMSThreshold = float32(*iou)
	cfg.NumClasses = len(names)
	cfg.Device = *device
	cfg.SharedLibraryPath = *ortLib

	det, err := detector.New(cfg, logger)
	check(err)
	defer det.Close()

	outDir := filepath.Join(*saveDir, *name)
	check(os.MkdirAll(outDir, 0o755))
	job := video.Job{
		Source: *source,
		Output: filepath.Join(outDir, videoFile),
	}
	if *saveCSV {
		job.CountsPath = filepath.Join(outDir, countsFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &video.Runner{Detector: det, Names: names, Log: logger, Progress: os.Stderr}
	s, err := runner.Run(ctx, job)
	check(err)

	color.New(color.FgGreen).Println("=== Video Demo Done ===")
	if s.Interrupted {
		color.New(color.FgYellow).Println("Interrupted before the end of the video")
	}
	fmt.Printf("Input video: %s\n", *source)
	fmt.Printf("Weights: %s\n", *weights)
	fmt.Printf("Frames processed: %d\n", s.Frames)
	fmt.Printf("Elapsed: %.2fs\n", s.Elapsed.Seconds())
	fmt.Printf("Processing FPS (model+write): %.2f\n", s.ProcessingFPS())
	fmt.Printf("Saved video: %s\n", job.Output)
	if job.CountsPath != "" {
		fmt.Printf("Saved counts CSV: %s\n", job.CountsPath)
	}
}
