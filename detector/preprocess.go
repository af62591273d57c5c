package detector

import (
	"image"

	"github.com/pkg/errors"
)

// fillCHW writes img into dst as planar RGB scaled to [0, 1], the layout of
// a [1, 3, H, W] model input.
//
// Arguments:
//   - img: The letterboxed input frame.
//   - dst: The destination tensor data.
//
// Returns:
//   - error: An error if dst does not hold exactly 3 planes of img's size.
func fillCHW(img *image.RGBA, dst []float32) error {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	channelSize := w * h
	if len(dst) != channelSize*3 {
		return errors.Errorf("destination tensor holds %d floats, needs %d (make sure it's the right shape!)", len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	i := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			red[i] = float32(row[x*4]) / 255.0
			green[i] = float32(row[x*4+1]) / 255.0
			blue[i] = float32(row[x*4+2]) / 255.0
			i++
		}
	}
	return nil
}
