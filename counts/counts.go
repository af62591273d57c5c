// Package counts - Per-frame detection tallies and their CSV form.
package counts

// FrameCounts is one row of the counts table.
type FrameCounts struct {
	Frame int
	// TimeSec is Frame divided by the input frame rate.
	TimeSec float64
	// Total is the number of detections in the frame, including any whose
	// class falls outside PerClass.
	Total int
	// PerClass counts detections by class index.
	PerClass []int
}

// DefaultFPS is used when a video reports no usable frame rate.
const DefaultFPS = 30.0

// FrameTime returns the timestamp of frame at fps, falling back to DefaultFPS
// when fps is not positive.
func FrameTime(frame int, fps float64) float64 {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return float64(frame) / fps
}

// Tally counts the detected classes of one frame.
//
// Arguments:
//   - frame: Zero based frame index.
//   - fps: Input frame rate.
//   - classes: Class index of every detection in the frame.
//   - numClasses: Number of per-class columns.
//
// Returns:
//   - FrameCounts: The frame's row. Classes outside [0, numClasses) only add to Total.
func Tally(frame int, fps float64, classes []int, numClasses int) FrameCounts {
	fc := FrameCounts{
		Frame:    frame,
		TimeSec:  FrameTime(frame, fps),
		Total:    len(classes),
		PerClass: make([]int, numClasses),
	}
	for _, c := range classes {
		if c >= 0 && c < numClasses {
			fc.PerClass[c]++
		}
	}
	return fc
}
