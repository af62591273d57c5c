package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/chewxy/math32"
	"github.com/nfnt/resize"
	"gocv.io/x/gocv"
)

// PadColor fills the border added around a letterboxed frame.
var PadColor = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// Letterbox describes how a source frame is fitted into a square model input:
// scaled uniformly to fit, then centred on a padded canvas.
type Letterbox struct {
	// Size is the side of the square model input.
	Size int
	// SrcW and SrcH are the source frame dimensions.
	SrcW, SrcH int
	// Scale is the factor applied to the source frame.
	Scale float32
	// W and H are the dimensions of the scaled frame inside the canvas.
	W, H int
	// Left and Top are the padding offsets of the scaled frame.
	Left, Top int
}

// NewLetterbox computes the letterbox geometry for a srcW x srcH frame.
func NewLetterbox(srcW, srcH, size int) Letterbox {
	scale := math32.Min(float32(size)/float32(srcW), float32(size)/float32(srcH))
	w := min(int(math32.Round(float32(srcW)*scale)), size)
	h := min(int(math32.Round(float32(srcH)*scale)), size)
	return Letterbox{
		Size:  size,
		SrcW:  srcW,
		SrcH:  srcH,
		Scale: scale,
		W:     w,
		H:     h,
		Left:  (size - w) / 2,
		Top:   (size - h) / 2,
	}
}

// ToSource maps a box given in model input coordinates back onto the source
// frame, clipped to its bounds.
func (l Letterbox) ToSource(x1, y1, x2, y2 float32) Rect {
	conv := func(v float32, pad, limit int) int {
		v = (v - float32(pad)) / l.Scale
		return int(math32.Round(math32.Max(0, math32.Min(v, float32(limit)))))
	}
	return Rect{
		X1: conv(x1, l.Left, l.SrcW),
		Y1: conv(y1, l.Top, l.SrcH),
		X2: conv(x2, l.Left, l.SrcW),
		Y2: conv(y2, l.Top, l.SrcH),
	}
}

// LetterboxImage fits img into a size x size RGBA canvas.
func LetterboxImage(img image.Image, size int) (*image.RGBA, Letterbox) {
	b := img.Bounds()
	lb := NewLetterbox(b.Dx(), b.Dy(), size)

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: PadColor}, image.Point{}, draw.Src)

	scaled := resize.Resize(uint(lb.W), uint(lb.H), img, resize.Bilinear)
	dst := image.Rect(lb.Left, lb.Top, lb.Left+lb.W, lb.Top+lb.H)
	draw.Draw(canvas, dst, scaled, scaled.Bounds().Min, draw.Src)
	return canvas, lb
}

// LetterboxMat fits a BGR frame into a size x size Mat. The caller owns the
// returned Mat and must Close it.
func LetterboxMat(src gocv.Mat, size int) (gocv.Mat, Letterbox) {
	lb := NewLetterbox(src.Cols(), src.Rows(), size)

	scaled := gocv.NewMat()
	defer scaled.Close()
	gocv.Resize(src, &scaled, image.Pt(lb.W, lb.H), 0, 0, gocv.InterpolationLinear)

	dst := gocv.NewMat()
	gocv.CopyMakeBorder(scaled, &dst,
		lb.Top, size-lb.H-lb.Top,
		lb.Left, size-lb.W-lb.Left,
		gocv.BorderConstant, PadColor)
	return dst, lb
}
