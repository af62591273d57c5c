// Package images - Box geometry and input framing for detection models.
package images

import "image"

// Rect is a lightweight bounding box in pixel coordinates.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// Width returns the horizontal extent of r, or 0 if r is inverted.
func (r Rect) Width() int { return max(r.X2-r.X1, 0) }

// Height returns the vertical extent of r, or 0 if r is inverted.
func (r Rect) Height() int { return max(r.Y2-r.Y1, 0) }

// Area returns the pixel area of r.
func (r Rect) Area() int { return r.Width() * r.Height() }

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool { return r.Area() == 0 }

// Image converts r to an image.Rectangle, the form gocv drawing calls take.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Clip returns r restricted to a w x h frame.
func (r Rect) Clip(w, h int) Rect {
	return Rect{
		X1: min(max(r.X1, 0), w),
		Y1: min(max(r.Y1, 0), h),
		X2: min(max(r.X2, 0), w),
		Y2: min(max(r.Y2, 0), h),
	}
}

// CalculateIoU returns the intersection over union of two boxes:
//
//	IoU = Area of Intersection / Area of Union
//
// 1.0 means the boxes are identical, 0.0 that they do not overlap.
// Boxes that only touch along an edge have no intersection. If both boxes
// are empty the union is zero and the result is 0.
//
// Arguments:
//   - r: The first box.
//   - o: The other box to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0.
func CalculateIoU(r, o Rect) float32 {
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	// Inclusion-exclusion: Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return float32(interArea) / float32(unionArea)
}
