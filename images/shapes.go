// Package images - Box geometry and image utilities for annotation data.
package images

import "github.com/chewxy/math32"

// Rect is a lightweight axis-aligned bounding box in xyxy form.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 float32
}

// RectFromXYWH builds a Rect from a COCO style [x, y, width, height] box.
//
// Arguments:
//   - x, y: The top-left corner of the box.
//   - w, h: The width and height of the box.
//
// Returns:
//   - Rect: The box in xyxy form.
//
// Example Usage:
// ```go
//
//	r := RectFromXYWH(10, 20, 30, 40) // Rect{X1: 10, Y1: 20, X2: 40, Y2: 60}
//
// ```
func RectFromXYWH(x, y, w, h float32) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// XYWH returns the box as [x, y, width, height].
func (r Rect) XYWH() [4]float32 {
	return [4]float32{r.X1, r.Y1, r.Width(), r.Height()}
}

// Width returns the horizontal extent of the box, never negative.
func (r Rect) Width() float32 {
	return math32.Max(r.X2-r.X1, 0)
}

// Height returns the vertical extent of the box, never negative.
func (r Rect) Height() float32 {
	return math32.Max(r.Y2-r.Y1, 0)
}

// Area returns Width * Height.
func (r Rect) Area() float32 {
	return r.Width() * r.Height()
}

// Clip restricts the box to the [0, w] x [0, h] frame.
func (r Rect) Clip(w, h float32) Rect {
	return Rect{
		X1: math32.Min(math32.Max(r.X1, 0), w),
		Y1: math32.Min(math32.Max(r.Y1, 0), h),
		X2: math32.Min(math32.Max(r.X2, 0), w),
		Y2: math32.Min(math32.Max(r.Y2, 0), h),
	}
}

// CalculateIoU measures the overlap between two boxes as
// Area(Intersection) / Area(Union).
//
//   - 1.0 means the boxes are identical.
//   - 0.0 means the boxes don't overlap at all (touching edges included).
//
// Arguments:
//   - r: The first box.
//   - o: The other box to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0 representing the IoU score.
//
// Example Usage:
// ```go
//
//	rect1 := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
//	rect2 := Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
//
//	iouScore := CalculateIoU(rect1, rect2) // 25 / 175 = 0.142857
//
// ```
func CalculateIoU(r, o Rect) float32 {
	ix1 := math32.Max(r.X1, o.X1)
	iy1 := math32.Max(r.Y1, o.Y1)
	ix2 := math32.Min(r.X2, o.X2)
	iy2 := math32.Min(r.Y2, o.Y2)

	// Zero or negative extent means no overlap.
	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	// Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}
