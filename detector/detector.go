package detector

import (
	"os"

	"github.com/cyclopcam/logs"
	"github.com/nvr-ai/vehdet/models/postprocess"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Detector finds objects in BGR frames.
// Implementations are safe for use by multiple goroutines.
type Detector interface {
	// Detect returns the detections in img, in img pixel coordinates, by descending score.
	Detect(img gocv.Mat) ([]postprocess.Result, error)
	// Close releases the model.
	Close() error
}

// New creates the detector for cfg.Backend.
func New(cfg Config, log logs.Log) (Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model file %s", cfg.ModelPath)
	}

	switch cfg.Backend {
	case BackendOpenCV:
		return NewNetDetector(cfg, log)
	case BackendONNXRuntime:
		return NewRuntimeDetector(cfg, log)
	default:
		return nil, errors.Errorf("unknown backend %q", cfg.Backend)
	}
}

// useCPU reports whether device forces CPU execution.
func useCPU(device string) bool {
	return device == "cpu"
}
