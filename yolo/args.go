// Package yolo - Invocation of the Ultralytics yolo command line tool.
//
// Training and validation are delegated to the external tool. This package
// builds its key=value arguments, runs it, and reads back the summary it prints.
package yolo

import (
	"path/filepath"
	"strconv"
)

// DefaultProject is the output root the tool writes runs under.
const DefaultProject = "runs"

func kv(key, value string) string {
	return key + "=" + value
}

// pyBool formats a flag the way the tool's argument parser expects.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// TrainArgs configures a training run.
type TrainArgs struct {
	Data    string
	Model   string
	ImgSz   int
	Epochs  int
	Batch   int
	Device  string
	Project string
	Name    string
}

// DefaultTrainArgs returns the baseline training configuration. Data still has to be set.
func DefaultTrainArgs() TrainArgs {
	return TrainArgs{
		Model:   "yolov8n.pt",
		ImgSz:   416,
		Epochs:  50,
		Batch:   4,
		Device:  "0",
		Project: DefaultProject,
		Name:    "veh_baseline",
	}
}

// RunName is the run directory relative to Project.
func (a TrainArgs) RunName() string {
	return "detect/" + a.Name
}

// SaveDir is where the tool writes the run.
func (a TrainArgs) SaveDir() string {
	return filepath.Join(a.Project, "detect", a.Name)
}

// Args returns the command line for `yolo`.
func (a TrainArgs) Args() []string {
	return []string{
		"detect", "train",
		kv("data", a.Data),
		kv("model", a.Model),
		kv("imgsz", strconv.Itoa(a.ImgSz)),
		kv("epochs", strconv.Itoa(a.Epochs)),
		kv("batch", strconv.Itoa(a.Batch)),
		kv("device", a.Device),
		kv("project", a.Project),
		kv("name", a.RunName()),
		kv("exist_ok", pyBool(true)),
		kv("amp", pyBool(true)),
		kv("workers", "2"),
		kv("pretrained", pyBool(true)),
		kv("verbose", pyBool(true)),
	}
}

// Splits accepted by ValArgs.Split.
var Splits = []string{"val", "test"}

// ValArgs configures a validation run of trained weights.
type ValArgs struct {
	Data    string
	Weights string
	ImgSz   int
	Device  string
	Split   string
	Plots   bool
}

// DefaultValArgs returns the default validation configuration. Data and Weights still have to be set.
func DefaultValArgs() ValArgs {
	return ValArgs{ImgSz: 416, Device: "0", Split: "val"}
}

// TrainingRun names the training run that produced the weights: weights are
// expected at runs/detect/<run>/weights/best.pt.
func (a ValArgs) TrainingRun() string {
	return filepath.Base(filepath.Dir(filepath.Dir(a.Weights)))
}

// RunName is the evaluation directory relative to DefaultProject, inside the
// training run directory.
func (a ValArgs) RunName() string {
	return "detect/" + a.TrainingRun() + "/eval_" + a.Split
}

// SaveDir is where the tool writes the evaluation.
func (a ValArgs) SaveDir() string {
	return filepath.Join(DefaultProject, "detect", a.TrainingRun(), "eval_"+a.Split)
}

// Args returns the command line for `yolo`.
func (a ValArgs) Args() []string {
	return []string{
		"detect", "val",
		kv("data", a.Data),
		kv("model", a.Weights),
		kv("imgsz", strconv.Itoa(a.ImgSz)),
		kv("device", a.Device),
		kv("split", a.Split),
		kv("project", DefaultProject),
		kv("name", a.RunName()),
		kv("exist_ok", pyBool(true)),
		kv("plots", pyBool(a.Plots)),
		kv("verbose", pyBool(true)),
	}
}
