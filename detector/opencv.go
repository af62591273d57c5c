package detector

import (
	"image"
	"sync"

	"github.com/cyclopcam/logs"
	"github.com/nvr-ai/vehdet/images"
	"github.com/nvr-ai/vehdet/models/postprocess"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// NetDetector runs an ONNX export through the OpenCV DNN module.
type NetDetector struct {
	cfg Config
	mu  sync.Mutex
	net gocv.Net
}

// NewNetDetector loads cfg.ModelPath with gocv.
// A numeric cfg.Device selects the CUDA backend, which needs an OpenCV build
// with CUDA support; anything else runs on the CPU.
func NewNetDetector(cfg Config, log logs.Log) (*NetDetector, error) {
	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, errors.Errorf("failed to load ONNX model: %s", cfg.ModelPath)
	}

	backend, target := gocv.NetBackendOpenCV, gocv.NetTargetCPU
	if cfg.Device != "" && !useCPU(cfg.Device) {
		backend, target = gocv.NetBackendCUDA, gocv.NetTargetCUDA
	}
	if err := net.SetPreferableBackend(backend); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "setting DNN backend")
	}
	if err := net.SetPreferableTarget(target); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "setting DNN target")
	}

	if log != nil {
		log.Infof("OpenCV detector loaded %v (input %vx%v, backend %v)", cfg.ModelPath, cfg.InputSize, cfg.InputSize, backend)
	}
	return &NetDetector{cfg: cfg, net: net}, nil
}

// Detect runs inference on img.
func (d *NetDetector) Detect(img gocv.Mat) ([]postprocess.Result, error) {
	if img.Empty() {
		return nil, errors.New("empty frame")
	}

	boxed, lb := images.LetterboxMat(img, d.cfg.InputSize)
	defer boxed.Close()

	size := image.Pt(d.cfg.InputSize, d.cfg.InputSize)
	blob := gocv.BlobFromImage(boxed, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "reading model output")
	}
	return postprocess.DecodeYOLOv8(data, lb, d.cfg.decodeConfig())
}

// Close releases the network.
func (d *NetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
