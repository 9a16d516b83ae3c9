package lighttree

import (
	"github.com/RasmusSemmle/blender/types"
	"github.com/chewxy/math32"
)

// A Cone describes the orientation bounds for a group of emitters: Axis is
// the mean emission direction, ThetaO bounds the spread of the member
// surface normals around Axis and ThetaE is the largest angle away from a
// member normal at which the member still emits. Both angles are kept
// within [0, pi].
type Cone struct {
	Axis   types.Vec3
	ThetaO float32
	ThetaE float32
}

// Construct the orientation bounds for a single emitter.
func NewCone(axis types.Vec3, thetaO, thetaE float32) Cone {
	return Cone{
		Axis:   axis.Normalize(),
		ThetaO: clampAngle(thetaO),
		ThetaE: clampAngle(thetaE),
	}
}

func clampAngle(theta float32) float32 {
	if theta < 0 {
		return 0
	}
	if theta > math32.Pi {
		return math32.Pi
	}
	return theta
}

// Calculate the union of two orientation bounds. The returned cone covers
// the angular extents of both inputs around a new axis that bisects the
// joint extent; its emission angle is the max of the two inputs.
func ConeUnion(a, b Cone) Cone {
	// Work with the wider of the two cones as the dominant one.
	if b.ThetaO > a.ThetaO {
		a, b = b, a
	}

	axisA := a.Axis.Normalize()
	axisB := b.Axis.Normalize()
	thetaD := angleBetween(axisA, axisB)
	thetaE := math32.Max(a.ThetaE, b.ThetaE)

	// The narrower cone is already contained in the wider one.
	if math32.Min(thetaD+b.ThetaO, math32.Pi) <= a.ThetaO {
		return Cone{Axis: axisA, ThetaO: a.ThetaO, ThetaE: thetaE}
	}

	// Near-antiparallel axes leave no unique bisecting plane; the only safe
	// bound covers every direction.
	if math32.Pi-thetaD < 1e-4 {
		return Cone{Axis: axisA, ThetaO: math32.Pi, ThetaE: thetaE}
	}

	thetaO := (a.ThetaO + thetaD + b.ThetaO) * 0.5
	if thetaO >= math32.Pi {
		return Cone{Axis: axisA, ThetaO: math32.Pi, ThetaE: thetaE}
	}

	// Rotate the dominant axis towards the other one so that the new axis
	// bisects the joint angular extent.
	thetaR := thetaO - a.ThetaO
	axis := rotateTowards(axisA, axisB, thetaR)
	return Cone{Axis: axis, ThetaO: thetaO, ThetaE: thetaE}
}

// Calculate a cone bounding every input cone. The fold is pairwise and only
// guarantees that the result contains all inputs; it is not exactly
// associative. An empty input yields the zero cone.
func AggregateCones(cones []Cone) Cone {
	if len(cones) == 0 {
		return Cone{}
	}

	out := cones[0]
	for _, c := range cones[1:] {
		out = ConeUnion(out, c)
	}
	return out
}

// Calculate the angular measure of the cone. The measure grows
// monotonically with both ThetaO and ThetaE and serves as the orientation
// term of the split cost.
func (c Cone) Measure() float32 {
	thetaO := clampAngle(c.ThetaO)
	// Past pi/2 the emission angle adds no further solid angle; clamping it
	// keeps the measure monotone.
	thetaW := math32.Min(thetaO+math32.Min(c.ThetaE, math32.Pi/2), math32.Pi)

	sinO, cosO := math32.Sincos(thetaO)
	return 2*math32.Pi*(1-cosO) +
		math32.Pi/2*(2*thetaW*sinO-math32.Cos(thetaO-2*thetaW)-2*thetaO*sinO+cosO)
}

// Calculate the angle between two unit vectors.
func angleBetween(a, b types.Vec3) float32 {
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math32.Acos(d)
}

// Rotate unit vector a towards unit vector b by the given angle, staying in
// the plane spanned by both. Falls back to a when the two are (anti)parallel
// and no unique plane exists.
func rotateTowards(a, b types.Vec3, angle float32) types.Vec3 {
	pivot := a.Cross(b)
	if pivot.Len() < 1e-6 {
		return a
	}
	pivot = pivot.Normalize()

	// Rodrigues rotation of a around pivot.
	sinR, cosR := math32.Sincos(angle)
	return a.Mul(cosR).
		Add(pivot.Cross(a).Mul(sinR)).
		Add(pivot.Mul(pivot.Dot(a) * (1 - cosR))).
		Normalize()
}
