package postprocess

import (
	"testing"

	"github.com/nvr-ai/vehdet/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// columnMajor lays candidates out the way the detection head emits them:
// row r of the output holds value r of every candidate.
func columnMajor(candidates [][]float32) []float32 {
	rows := len(candidates[0])
	n := len(candidates)
	out := make([]float32, rows*n)
	for i, c := range candidates {
		for r, v := range c {
			out[r*n+i] = v
		}
	}
	return out
}

func candidate(cx, cy, w, h float32, scores ...float32) []float32 {
	return append([]float32{cx, cy, w, h}, scores...)
}

func testDecodeConfig() *DecodeConfig {
	return &DecodeConfig{
		NumClasses:    5,
		ConfThreshold: 0.25,
		NMS:           NMSConfig{IoUThreshold: 0.7, ClassAware: true},
	}
}

func TestDecodeYOLOv8(t *testing.T) {
	out := columnMajor([][]float32{
		candidate(100, 100, 40, 20, 0.1, 0.0, 0.9, 0.0, 0.0), // Car
		candidate(300, 200, 50, 50, 0.0, 0.2, 0.0, 0.0, 0.1), // below threshold
		candidate(200, 300, 60, 80, 0.0, 0.0, 0.0, 0.0, 0.6), // Truck
		candidate(50, 50, 10, 10, 0.25, 0.0, 0.0, 0.0, 0.0),  // exactly at threshold
	})

	got, err := DecodeYOLOv8(out, images.NewLetterbox(416, 416, 416), testDecodeConfig())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 2, got[0].Class)
	assert.InDelta(t, 0.9, got[0].Score, 1e-6)
	assert.Equal(t, images.Rect{X1: 80, Y1: 90, X2: 120, Y2: 110}, got[0].Box)

	assert.Equal(t, 4, got[1].Class)
	assert.Equal(t, images.Rect{X1: 170, Y1: 260, X2: 230, Y2: 340}, got[1].Box)
}

func TestDecodeYOLOv8MapsThroughLetterbox(t *testing.T) {
	lb := images.NewLetterbox(1920, 1080, 416)
	// A box covering the whole scaled frame.
	cy := float32(lb.Top) + float32(lb.H)/2
	out := columnMajor([][]float32{
		candidate(208, cy, 416, float32(lb.H), 0, 0, 0, 0.8, 0),
	})

	got, err := DecodeYOLOv8(out, lb, testDecodeConfig())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, images.Rect{X1: 0, Y1: 0, X2: 1920, Y2: 1080}, got[0].Box)
	assert.Equal(t, 3, got[0].Class)
}

func TestDecodeYOLOv8SuppressesSameClassOverlap(t *testing.T) {
	out := columnMajor([][]float32{
		candidate(100, 100, 100, 100, 0, 0, 0.7, 0, 0),
		candidate(102, 100, 100, 100, 0, 0, 0.8, 0, 0), // same class, IoU ~0.96
		candidate(100, 100, 100, 100, 0, 0, 0, 0, 0.5), // other class, same box
	})

	got, err := DecodeYOLOv8(out, images.NewLetterbox(416, 416, 416), testDecodeConfig())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.8, got[0].Score, 1e-6)
	assert.Equal(t, 2, got[0].Class)
	assert.Equal(t, 4, got[1].Class)
}

func TestDecodeYOLOv8MaxDetections(t *testing.T) {
	out := columnMajor([][]float32{
		candidate(20, 20, 10, 10, 0.5, 0, 0, 0, 0),
		candidate(60, 60, 10, 10, 0.7, 0, 0, 0, 0),
		candidate(100, 100, 10, 10, 0.6, 0, 0, 0, 0),
	})
	cfg := testDecodeConfig()
	cfg.MaxDetections = 2

	got, err := DecodeYOLOv8(out, images.NewLetterbox(416, 416, 416), cfg)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.7, got[0].Score, 1e-6)
	assert.InDelta(t, 0.6, got[1].Score, 1e-6)
}

func TestDecodeYOLOv8DoesNotModifyOutput(t *testing.T) {
	out := columnMajor([][]float32{
		candidate(20, 20, 10, 10, 0.5, 0, 0, 0, 0),
		candidate(60, 60, 10, 10, 0, 0.7, 0, 0, 0),
	})
	before := append([]float32(nil), out...)

	_, err := DecodeYOLOv8(out, images.NewLetterbox(416, 416, 416), testDecodeConfig())
	require.NoError(t, err)
	assert.Equal(t, before, out)
}

func TestDecodeYOLOv8ShapeMismatch(t *testing.T) {
	_, err := DecodeYOLOv8(make([]float32, 10), images.NewLetterbox(416, 416, 416), testDecodeConfig())
	assert.ErrorContains(t, err, "does not fit 5 classes")

	_, err = DecodeYOLOv8(nil, images.NewLetterbox(416, 416, 416), testDecodeConfig())
	assert.Error(t, err)
}
