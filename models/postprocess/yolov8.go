package postprocess

import (
	"github.com/nvr-ai/vehdet/images"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DecodeConfig controls how raw YOLOv8 output is turned into detections.
type DecodeConfig struct {
	// NumClasses is the number of class score rows after the 4 box rows.
	NumClasses int
	// ConfThreshold drops candidates whose best class score is not above it.
	ConfThreshold float32
	// MaxDetections caps the results kept after NMS. Zero means no cap.
	MaxDetections int
	NMS           NMSConfig
}

// DecodeYOLOv8 decodes the single output of a YOLOv8 detection export.
//
// The output is laid out as [4+NumClasses, N]: one column per candidate,
// holding cx, cy, w, h in model input pixels followed by one score per class.
// Boxes are mapped back to the source frame through lb.
//
// Arguments:
//   - output: The flattened output tensor.
//   - lb: The letterbox used to build the model input.
//   - cfg: Decode configuration.
//
// Returns:
//   - []Result: Detections after NMS, by descending score.
//   - error: An error if the output size does not match the class count.
func DecodeYOLOv8(output []float32, lb images.Letterbox, cfg *DecodeConfig) ([]Result, error) {
	rows := 4 + cfg.NumClasses
	if cfg.NumClasses <= 0 || len(output) == 0 || len(output)%rows != 0 {
		return nil, errors.Errorf("output of %d values does not fit %d classes", len(output), cfg.NumClasses)
	}
	n := len(output) / rows

	// Transposing moves data inside the backing slice, so work on a copy.
	backing := make([]float32, len(output))
	copy(backing, output)
	t := tensor.New(tensor.WithShape(rows, n), tensor.WithBacking(backing))
	if err := t.T(); err != nil {
		return nil, errors.Wrap(err, "transposing output")
	}
	if err := t.Transpose(); err != nil {
		return nil, errors.Wrap(err, "transposing output")
	}
	candidates := t.Data().([]float32)

	var results []Result
	for i := 0; i < n; i++ {
		row := candidates[i*rows : (i+1)*rows]

		classID := 0
		score := row[4]
		for c := 1; c < cfg.NumClasses; c++ {
			if row[4+c] > score {
				score = row[4+c]
				classID = c
			}
		}
		if score <= cfg.ConfThreshold {
			continue
		}

		cx, cy, w, h := row[0], row[1], row[2], row[3]
		box := lb.ToSource(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
		if box.Empty() {
			continue
		}
		results = append(results, Result{Box: box, Score: score, Class: classID})
	}

	SortByScore(results)
	results = ApplyGreedyNMS(results, &cfg.NMS)
	if cfg.MaxDetections > 0 && len(results) > cfg.MaxDetections {
		results = results[:cfg.MaxDetections]
	}
	return results, nil
}
