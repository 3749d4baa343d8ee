// File: api/schemas/geometry.go
package schemas

// Point is a single coordinate pair. Depending on context it is expressed in
// model space, capture space, or absolute device space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box with the invariant X1 <= X2 and
// Y1 <= Y2. A rect with zero width or height is degenerate but still valid.
type Rect struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height returns the vertical extent of the rect.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Area returns the surface of the rect, or zero for degenerate boxes.
func (r Rect) Area() float64 {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Center returns the midpoint of the rect.
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}
