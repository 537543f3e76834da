package geometry

import "math"

// Point is a position or direction in screen space (Y grows downwards)
type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// FromHeading returns the unit vector for a heading in degrees, 0° = +X.
// Positive headings turn clockwise on screen because Y points down.
func FromHeading(deg float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Rect is an axis aligned rectangle with its origin at the top left corner
type Rect struct {
	X, Y, W, H float64
}

// CenteredRect returns a w*h rectangle centered on c
func CenteredRect(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Intersects reports whether the rectangles overlap. Rectangles that only
// share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// RotatedBounds returns the size of the axis aligned box that encloses a
// w*h box rotated by deg degrees.
func RotatedBounds(w, h, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	sin := math.Abs(math.Sin(rad))
	cos := math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}
