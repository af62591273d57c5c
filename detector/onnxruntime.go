package detector

import (
	"sync"

	"github.com/cyclopcam/logs"
	"github.com/nvr-ai/vehdet/images"
	"github.com/nvr-ai/vehdet/models/postprocess"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"
)

// The onnxruntime environment is process wide; it lives while any
// RuntimeDetector is open.
var (
	envMu    sync.Mutex
	envUsers int
)

func acquireEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envUsers == 0 {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return errors.Wrap(err, "initializing onnxruntime")
		}
	}
	envUsers++
	return nil
}

func releaseEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()
	envUsers--
	if envUsers == 0 {
		return ort.DestroyEnvironment()
	}
	return nil
}

// RuntimeDetector runs an ONNX export through ONNX Runtime.
type RuntimeDetector struct {
	cfg     Config
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

// NewRuntimeDetector creates a session for cfg.ModelPath.
// With an empty cfg.Device the CUDA provider is tried first and the CPU is
// used if it is unavailable. "cpu" skips CUDA, and a numeric device requires it.
func NewRuntimeDetector(cfg Config, log logs.Log) (*RuntimeDetector, error) {
	if err := acquireEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	d := &RuntimeDetector{cfg: cfg}
	if err := d.open(log); err != nil {
		d.destroy()
		releaseEnvironment()
		return nil, err
	}
	return d, nil
}

func (d *RuntimeDetector) open(log logs.Log) error {
	inputs, outputs, err := ort.GetInputOutputInfo(d.cfg.ModelPath)
	if err != nil {
		return errors.Wrapf(err, "reading model info of %s", d.cfg.ModelPath)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return errors.Errorf("expected a single input and output, model has %d and %d", len(inputs), len(outputs))
	}

	size := int64(d.cfg.InputSize)
	d.input, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return errors.Wrap(err, "creating input tensor")
	}
	d.output, err = ort.NewEmptyTensor[float32](ort.NewShape(1, int64(4+d.cfg.NumClasses), int64(numAnchors(d.cfg.InputSize))))
	if err != nil {
		return errors.Wrap(err, "creating output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	provider := "cpu"
	if !useCPU(d.cfg.Device) {
		if err := appendCUDA(options, d.cfg.Device); err == nil {
			provider = "cuda"
		} else if d.cfg.Device != "" {
			return err
		} else if log != nil {
			log.Warnf("CUDA unavailable, running on CPU: %v", err)
		}
	}

	d.session, err = ort.NewAdvancedSession(d.cfg.ModelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.ArbitraryTensor{d.input}, []ort.ArbitraryTensor{d.output},
		options)
	if err != nil {
		return errors.Wrapf(err, "creating session for %s", d.cfg.ModelPath)
	}

	if log != nil {
		log.Infof("onnxruntime detector loaded %v (input %vx%v, provider %v)", d.cfg.ModelPath, size, size, provider)
	}
	return nil
}

func appendCUDA(options *ort.SessionOptions, device string) error {
	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return errors.Wrap(err, "creating CUDA options")
	}
	defer cuda.Destroy()

	if device == "" {
		device = "0"
	}
	if err := cuda.Update(map[string]string{"device_id": device}); err != nil {
		return errors.Wrapf(err, "selecting CUDA device %s", device)
	}
	if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
		return errors.Wrap(err, "enabling CUDA")
	}
	return nil
}

// Detect runs inference on img.
func (d *RuntimeDetector) Detect(img gocv.Mat) ([]postprocess.Result, error) {
	if img.Empty() {
		return nil, errors.New("empty frame")
	}
	src, err := img.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting frame")
	}
	boxed, lb := images.LetterboxImage(src, d.cfg.InputSize)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := fillCHW(boxed, d.input.GetData()); err != nil {
		return nil, err
	}
	if err := d.session.Run(); err != nil {
		return nil, errors.Wrap(err, "running session")
	}
	return postprocess.DecodeYOLOv8(d.output.GetData(), lb, d.cfg.decodeConfig())
}

// Close releases the session and its tensors.
func (d *RuntimeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return nil
	}
	d.destroy()
	return releaseEnvironment()
}

func (d *RuntimeDetector) destroy() {
	if d.session != nil {
		d.session.Destroy()
		d.session = nil
	}
	if d.input != nil {
		d.input.Destroy()
		d.input = nil
	}
	if d.output != nil {
		d.output.Destroy()
		d.output = nil
	}
}
