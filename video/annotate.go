// Package video - Detection over video files: read, detect, annotate, write.
package video

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nvr-ai/vehdet/models/postprocess"
	"gocv.io/x/gocv"
)

// palette colours boxes by class index, cycling for larger class sets.
var palette = []color.RGBA{
	{R: 255, G: 56, B: 56, A: 255},
	{R: 255, G: 157, B: 151, A: 255},
	{R: 255, G: 112, B: 31, A: 255},
	{R: 255, G: 178, B: 29, A: 255},
	{R: 207, G: 210, B: 49, A: 255},
	{R: 72, G: 249, B: 10, A: 255},
	{R: 146, G: 204, B: 23, A: 255},
	{R: 61, G: 219, B: 134, A: 255},
}

// ClassColor returns the drawing colour of a class.
func ClassColor(class int) color.RGBA {
	if class < 0 {
		class = -class
	}
	return palette[class%len(palette)]
}

// Label returns the caption drawn above a detection.
func Label(det postprocess.Result, names []string) string {
	name := fmt.Sprintf("class%d", det.Class)
	if det.Class >= 0 && det.Class < len(names) {
		name = names[det.Class]
	}
	return fmt.Sprintf("%s %.2f", name, det.Score)
}

// Annotate draws every detection onto img in place.
func Annotate(img *gocv.Mat, dets []postprocess.Result, names []string) {
	const (
		thickness = 2
		fontScale = 0.5
	)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	for _, det := range dets {
		c := ClassColor(det.Class)
		box := det.Box.Clip(img.Cols(), img.Rows())
		gocv.Rectangle(img, box.Image(), c, thickness)

		text := Label(det, names)
		size := gocv.GetTextSize(text, gocv.FontHersheySimplex, fontScale, 1)
		top := box.Y1 - size.Y - 4
		if top < 0 {
			top = box.Y1
		}
		bg := image.Rect(box.X1, top, box.X1+size.X+4, top+size.Y+4)
		gocv.Rectangle(img, bg, c, -1)
		gocv.PutText(img, text, image.Pt(box.X1+2, top+size.Y+1), gocv.FontHersheySimplex, fontScale, white, 1)
	}
}
