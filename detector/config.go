// Package detector - Object detection over video frames with YOLOv8 ONNX exports.
package detector

import (
	"github.com/nvr-ai/vehdet/models"
	"github.com/nvr-ai/vehdet/models/postprocess"
	"github.com/pkg/errors"
)

// Backend selects the inference runtime.
type Backend string

const (
	// BackendOpenCV runs the model through the OpenCV DNN module.
	BackendOpenCV Backend = "opencv"
	// BackendONNXRuntime runs the model through ONNX Runtime.
	BackendONNXRuntime Backend = "onnxruntime"
)

// Config represents the configuration of a detector.
type Config struct {
	// ModelPath is the path of the ONNX export.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// Backend is the inference runtime.
	Backend Backend `json:"backend" yaml:"backend"`
	// InputSize is the side of the square model input, a multiple of 32.
	InputSize int `json:"input_size" yaml:"input_size"`
	// ConfidenceThreshold filters detections at or below this confidence level.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// NMSThreshold controls the Non-Maximum Suppression IoU threshold.
	NMSThreshold float32 `json:"nms_threshold" yaml:"nms_threshold"`
	// MaxDetections caps the detections returned per frame.
	MaxDetections int `json:"max_detections" yaml:"max_detections"`
	// NumClasses is the number of classes the model was trained on.
	NumClasses int `json:"num_classes" yaml:"num_classes"`
	// Device is "" to pick automatically, "cpu" to force the CPU, or a CUDA device id.
	Device string `json:"device" yaml:"device"`
	// SharedLibraryPath locates the onnxruntime shared library. Empty uses the system default.
	SharedLibraryPath string `json:"shared_library_path" yaml:"shared_library_path"`
}

// DefaultConfig returns the configuration used by the infer command.
//
// Returns:
//   - Config: Default configuration. ModelPath still has to be set.
func DefaultConfig() Config {
	return Config{
		Backend:             BackendOpenCV,
		InputSize:           416,
		ConfidenceThreshold: 0.25,
		NMSThreshold:        0.7,
		MaxDetections:       300,
		NumClasses:          models.NumVehicleClasses,
	}
}

// Validate checks the configuration for values no backend can run with.
func (c *Config) Validate() error {
	if c.ModelPath == "" {
		return errors.New("model path is required")
	}
	if c.InputSize <= 0 || c.InputSize%32 != 0 {
		return errors.Errorf("input size %d is not a positive multiple of 32", c.InputSize)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.Errorf("confidence threshold %v is outside [0, 1]", c.ConfidenceThreshold)
	}
	if c.NMSThreshold < 0 || c.NMSThreshold > 1 {
		return errors.Errorf("NMS threshold %v is outside [0, 1]", c.NMSThreshold)
	}
	if c.NumClasses <= 0 {
		return errors.Errorf("class count %d must be positive", c.NumClasses)
	}
	return nil
}

func (c *Config) decodeConfig() *postprocess.DecodeConfig {
	return &postprocess.DecodeConfig{
		NumClasses:    c.NumClasses,
		ConfThreshold: c.ConfidenceThreshold,
		MaxDetections: c.MaxDetections,
		NMS: postprocess.NMSConfig{
			IoUThreshold: c.NMSThreshold,
			ClassAware:   true,
		},
	}
}

// numAnchors returns the number of candidate boxes a YOLOv8 head emits for a
// square input: one per cell of the stride 8, 16 and 32 grids.
func numAnchors(size int) int {
	n := 0
	for _, stride := range []int{8, 16, 32} {
		g := size / stride
		n += g * g
	}
	return n
}
