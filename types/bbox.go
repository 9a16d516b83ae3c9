package types

import "github.com/chewxy/math32"

// An axis-aligned bounding box. The zero value is NOT a usable box; use
// EmptyBBox to obtain a box that behaves as the identity for Union/Include.
type BBox struct {
	Min Vec3
	Max Vec3
}

// Create an inverted box that yields the other operand when unioned.
func EmptyBBox() BBox {
	return BBox{
		Min: Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
}

// Create a box bounding a single point. The box has zero extent but is
// still a valid bounding volume.
func PointBBox(p Vec3) BBox {
	return BBox{Min: p, Max: p}
}

// Check whether the box bounds at least one point.
func (b BBox) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Grow the box to include a point.
func (b BBox) Include(p Vec3) BBox {
	return BBox{
		Min: MinVec3(b.Min, p),
		Max: MaxVec3(b.Max, p),
	}
}

// Grow the box to include another box.
func (b BBox) Union(b2 BBox) BBox {
	return BBox{
		Min: MinVec3(b.Min, b2.Min),
		Max: MaxVec3(b.Max, b2.Max),
	}
}

// Get the box center.
func (b BBox) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the per-axis extents of the box.
func (b BBox) Diagonal() Vec3 {
	return b.Max.Sub(b.Min)
}

// Calculate the total surface area of the box faces. Invalid boxes report
// zero area.
func (b BBox) SurfaceArea() float32 {
	if !b.Valid() {
		return 0
	}
	d := b.Diagonal()
	return 2 * (d[0]*d[1] + d[1]*d[2] + d[0]*d[2])
}

// Check whether two boxes share any volume, face or point.
func (b BBox) Overlaps(b2 BBox) bool {
	return b.Min[0] <= b2.Max[0] && b.Max[0] >= b2.Min[0] &&
		b.Min[1] <= b2.Max[1] && b.Max[1] >= b2.Min[1] &&
		b.Min[2] <= b2.Max[2] && b.Max[2] >= b2.Min[2]
}
