// Package core provides the vector, ray and sampling primitives shared by
// every other lumentrace package.
package core

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 represents a point or a direction in world space. It wraps gonum's
// r3.Vec so geometry and transform code can reach for gonum's vector
// algebra directly when that is more convenient than the helpers below.
type Vec3 struct {
	r3.Vec
}

// NewVec3 creates a new Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{r3.Vec{X: x, Y: y, Z: z}}
}

// FromR3 wraps a gonum r3.Vec as a Vec3.
func FromR3(v r3.Vec) Vec3 {
	return Vec3{v}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{r3.Add(v.Vec, other.Vec)}
}

func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{r3.Sub(v.Vec, other.Vec)}
}

func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{r3.Scale(scalar, v.Vec)}
}

func (v Vec3) Negate() Vec3 {
	return v.Multiply(-1)
}

func (v Vec3) Length() float64 {
	return r3.Norm(v.Vec)
}

func (v Vec3) LengthSquared() float64 {
	return r3.Dot(v.Vec, v.Vec)
}

func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(v.Vec, other.Vec)
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{r3.Cross(v.Vec, other.Vec)}
}

// Normalize returns a unit vector in the same direction. The zero vector
// normalizes to itself rather than producing NaNs.
func (v Vec3) Normalize() Vec3 {
	if v.Vec == (r3.Vec{}) {
		return v
	}
	return Vec3{r3.Unit(v.Vec)}
}

// MultiplyVec returns the component-wise product of two vectors.
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return NewVec3(v.X*other.X, v.Y*other.Y, v.Z*other.Z)
}

// NearZero reports whether every component is within eps of zero, used to
// detect degenerate directions (spec's NumericalDegeneracy).
func (v Vec3) NearZero(eps float64) bool {
	return math.Abs(v.X) < eps && math.Abs(v.Y) < eps && math.Abs(v.Z) < eps
}

// ApproxEqual reports whether two vectors differ by less than eps in every
// component, the tolerance the boundary-crossing invariant needs.
func (v Vec3) ApproxEqual(other Vec3, eps float64) bool {
	return math.Abs(v.X-other.X) < eps && math.Abs(v.Y-other.Y) < eps && math.Abs(v.Z-other.Z) < eps
}

// IsFinite reports whether all components are finite (not NaN or Inf).
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Vec2 is a pair of independent random samples, used by delegates that
// need two coordinates (e.g. a disk mask) at once.
type Vec2 struct {
	X, Y float64
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}
