// Package scenegraph implements the tree of nodes that positions geometry,
// materials and light sources in world space. Nodes are stored in an
// arena and referenced by integer index rather than by pointer, the
// approach other_examples/gviegas-neo3's node.Graph and
// other_examples/17twenty-inamate's SceneGraph both take, chosen here for
// the same reason: parent/child links that are plain indices can never
// form an ownership cycle and need no finalizer or explicit teardown.
package scenegraph

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/opticore/lumentrace/pkg/core"
)

// Transform is a translation plus rotation, with no scale component.
// Scale is deliberately unsupported: a scaled local frame would require
// rescaling every reported intersection T back into world units, and
// nothing in this engine's ray-parameter bookkeeping does that. The
// scenebuild descriptors have no scale field, so a scene document cannot
// set one; a "scale" key in the JSON is ignored by decoding, not rejected.
type Transform struct {
	Translation core.Vec3
	Rotation    r3.Rotation
}

// Identity returns the transform with no translation or rotation.
func Identity() Transform {
	return Transform{Rotation: r3.NewRotation(0, r3.Vec{X: 0, Y: 0, Z: 1})}
}

// NewTransform builds a transform from a translation and an axis-angle
// rotation (angle in radians). A zero-length axis is treated as no
// rotation.
func NewTransform(translation core.Vec3, axis core.Vec3, angle float64) Transform {
	if axis.Length() < 1e-12 {
		return Transform{Translation: translation, Rotation: r3.NewRotation(0, r3.Vec{X: 0, Y: 0, Z: 1})}
	}
	return Transform{
		Translation: translation,
		Rotation:    r3.NewRotation(angle, axis.Vec),
	}
}

// Compose returns the transform equivalent to applying inner first, then
// outer: outer.Compose(inner) maps a point through inner into outer's
// parent frame.
func (outer Transform) Compose(inner Transform) Transform {
	return Transform{
		Translation: outer.Apply(inner.Translation),
		Rotation:    r3.Rotation(quat.Mul(quat.Number(outer.rotation()), quat.Number(inner.rotation()))),
	}
}

// rotation returns t's rotation, treating the zero value of r3.Rotation
// (which is not a valid unit quaternion) as identity so a Node built with
// a zero-value Transform behaves as an unrotated one instead of
// propagating NaNs.
func (t Transform) rotation() r3.Rotation {
	if t.Rotation.Real == 0 && t.Rotation.Imag == 0 && t.Rotation.Jmag == 0 && t.Rotation.Kmag == 0 {
		return r3.NewRotation(0, r3.Vec{X: 0, Y: 0, Z: 1})
	}
	return t.Rotation
}

// Apply maps a local point into the frame this transform positions it in.
func (t Transform) Apply(point core.Vec3) core.Vec3 {
	rotated := core.FromR3(t.rotation().Rotate(point.Vec))
	return rotated.Add(t.Translation)
}

// ApplyDirection rotates (but does not translate) a direction vector.
func (t Transform) ApplyDirection(dir core.Vec3) core.Vec3 {
	return core.FromR3(t.rotation().Rotate(dir.Vec))
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	invRot := r3.Rotation(quat.Inv(quat.Number(t.rotation())))
	return Transform{
		Translation: core.FromR3(invRot.Rotate(t.Translation.Negate().Vec)),
		Rotation:    invRot,
	}
}

// ToLocal transforms a world-space ray into the local frame this
// transform describes, per 4.2: the origin is transformed by the inverse
// world transform and the direction is rotated by the inverse rotational
// part only. Direction is renormalized defensively against accumulated
// floating-point drift in repeated rotation composition.
func (t Transform) ToLocal(ray core.Ray) core.Ray {
	inv := t.Inverse()
	origin := inv.Apply(ray.Origin)
	direction := inv.ApplyDirection(ray.Direction)
	if length := direction.Length(); math.Abs(length-1) > 1e-9 && length > 1e-12 {
		direction = direction.Multiply(1 / length)
	}
	return core.NewRay(origin, direction)
}

// ToWorld transforms a local-space point into world space.
func (t Transform) ToWorld(point core.Vec3) core.Vec3 {
	return t.Apply(point)
}

// ToWorldDirection rotates a local-space direction into world space.
func (t Transform) ToWorldDirection(dir core.Vec3) core.Vec3 {
	return t.ApplyDirection(dir)
}

// ToWorldRay transforms a local-space ray into world space, the inverse
// of ToLocal, used once at emission time to place a light source's
// local-frame ray per 4.6 step 4.
func (t Transform) ToWorldRay(ray core.Ray) core.Ray {
	return core.NewRay(t.Apply(ray.Origin), t.ApplyDirection(ray.Direction).Normalize())
}
