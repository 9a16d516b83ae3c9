// Package scene holds the emissive side of a scene: objects with emissive
// triangle meshes and discrete light sources. It resolves the per-primitive
// bounds, orientation and energy queries the light tree builder needs.
package scene

import (
	"fmt"

	"github.com/RasmusSemmle/blender/lighttree"
	"github.com/RasmusSemmle/blender/types"
	"github.com/chewxy/math32"
)

// Rec. 709 luminance of an RGB radiance or power value.
func luminance(c types.Vec3) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

// An Object is a named triangle mesh with a uniform RGB emission. Objects
// with zero emission contribute no primitives to the light tree.
type Object struct {
	Name     string
	Vertices []types.Vec3
	Faces    [][3]int
	Emission types.Vec3
}

// Check whether any emission channel is non-zero.
func (o *Object) IsEmissive() bool {
	return luminance(o.Emission) > 0
}

// Get the world-space bounds of a face. Degenerate faces still produce a
// valid (possibly zero-extent) box.
func (o *Object) FaceBounds(face int) types.BBox {
	f := o.Faces[face]
	bbox := types.PointBBox(o.Vertices[f[0]])
	bbox = bbox.Include(o.Vertices[f[1]])
	return bbox.Include(o.Vertices[f[2]])
}

// Get the geometric normal of a face. Degenerate faces yield the zero
// vector.
func (o *Object) FaceNormal(face int) types.Vec3 {
	f := o.Faces[face]
	e1 := o.Vertices[f[1]].Sub(o.Vertices[f[0]])
	e2 := o.Vertices[f[2]].Sub(o.Vertices[f[0]])
	return e1.Cross(e2).Normalize()
}

// Get the surface area of a face.
func (o *Object) FaceArea(face int) float32 {
	f := o.Faces[face]
	e1 := o.Vertices[f[1]].Sub(o.Vertices[f[0]])
	e2 := o.Vertices[f[2]].Sub(o.Vertices[f[0]])
	return 0.5 * e1.Cross(e2).Len()
}

func (o *Object) validate() error {
	for fi, f := range o.Faces {
		for _, v := range f {
			if v < 0 || v >= len(o.Vertices) {
				return fmt.Errorf("scene: object %q face %d references unknown vertex %d", o.Name, fi, v)
			}
		}
	}
	return nil
}

// The type of a discrete light source.
type LightType uint8

const (
	PointLight LightType = iota
	SpotLight
	AreaLight
)

func (t LightType) String() string {
	switch t {
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	case AreaLight:
		return "area"
	}
	return "unknown"
}

// A Light is a discrete (non-mesh) light source.
type Light struct {
	Type     LightType
	Position types.Vec3

	// Emission axis for spot and area lights.
	Direction types.Vec3

	// Source extent for point and spot lights.
	Radius float32

	// Spot cutoff half-angle in radians.
	SpotAngle float32

	// Half-extent vectors spanning an area light.
	AxisU types.Vec3
	AxisV types.Vec3

	// Total RGB power.
	Power types.Vec3
}

// Get the world-space bounds of the lamp.
func (l *Light) Bounds() types.BBox {
	switch l.Type {
	case AreaLight:
		bbox := types.PointBBox(l.Position.Add(l.AxisU).Add(l.AxisV))
		bbox = bbox.Include(l.Position.Add(l.AxisU).Sub(l.AxisV))
		bbox = bbox.Include(l.Position.Sub(l.AxisU).Add(l.AxisV))
		return bbox.Include(l.Position.Sub(l.AxisU).Sub(l.AxisV))
	default:
		r := types.XYZ(l.Radius, l.Radius, l.Radius)
		return types.BBox{Min: l.Position.Sub(r), Max: l.Position.Add(r)}
	}
}

// Get the orientation bounds of the lamp. Point lamps emit in every
// direction, spots are bounded by their cutoff angle and area lights emit
// over the hemisphere around their normal.
func (l *Light) OrientationBounds() lighttree.Cone {
	switch l.Type {
	case SpotLight:
		return lighttree.NewCone(l.Direction, 0, l.SpotAngle)
	case AreaLight:
		return lighttree.NewCone(l.Direction, 0, math32.Pi/2)
	default:
		return lighttree.NewCone(types.XYZ(0, 0, 1), math32.Pi, math32.Pi/2)
	}
}

// Get the total emitted energy of the lamp.
func (l *Light) Energy() float32 {
	if l.Type == AreaLight {
		area := 4 * l.AxisU.Cross(l.AxisV).Len()
		return luminance(l.Power) * area
	}
	return luminance(l.Power)
}

func (l *Light) validate() error {
	switch l.Type {
	case PointLight:
	case SpotLight:
		if l.Direction.Len() == 0 {
			return fmt.Errorf("scene: spot light needs a non-zero direction")
		}
		if l.SpotAngle <= 0 || l.SpotAngle > math32.Pi {
			return fmt.Errorf("scene: spot light angle %g out of range (0, pi]", l.SpotAngle)
		}
	case AreaLight:
		if l.AxisU.Cross(l.AxisV).Len() == 0 {
			return fmt.Errorf("scene: area light axes are degenerate")
		}
		if l.Direction.Len() == 0 {
			return fmt.Errorf("scene: area light needs a non-zero direction")
		}
	default:
		return fmt.Errorf("scene: unknown light type %d", l.Type)
	}
	return nil
}

// A Scene owns the emissive objects and lights and maps global triangle
// indices to the owning object.
type Scene struct {
	Objects []*Object
	Lights  []*Light

	// Global triangle index of the first face of each object.
	triOffsets []int
	totalTris  int
}

func NewScene() *Scene {
	return &Scene{
		Objects: make([]*Object, 0),
		Lights:  make([]*Light, 0),
	}
}

// Add an object to the scene.
func (s *Scene) AddObject(obj *Object) error {
	if err := obj.validate(); err != nil {
		return err
	}
	s.triOffsets = append(s.triOffsets, s.totalTris)
	s.totalTris += len(obj.Faces)
	s.Objects = append(s.Objects, obj)
	return nil
}

// Add a light to the scene.
func (s *Scene) AddLight(light *Light) error {
	if err := light.validate(); err != nil {
		return err
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// Enumerate a well-formed primitive reference for every emissive triangle
// and every lamp in the scene, in declaration order.
func (s *Scene) EmissivePrimitives() []lighttree.Primitive {
	prims := make([]lighttree.Primitive, 0, len(s.Lights))
	for objIndex, obj := range s.Objects {
		if !obj.IsEmissive() {
			continue
		}
		for face := range obj.Faces {
			prims = append(prims, lighttree.TrianglePrimitive(s.triOffsets[objIndex]+face, objIndex))
		}
	}
	for lampIndex := range s.Lights {
		prims = append(prims, lighttree.LampPrimitive(lampIndex))
	}
	return prims
}

// Map a triangle reference to its owning object and local face index. The
// reference must have been validated first.
func (s *Scene) resolveFace(prim lighttree.Primitive) (*Object, int) {
	obj := s.Objects[prim.Object]
	return obj, prim.Triangle - s.triOffsets[prim.Object]
}

// ValidatePrimitive rejects references whose indices do not resolve inside
// this scene. Implements lighttree.PrimitiveValidator.
func (s *Scene) ValidatePrimitive(prim lighttree.Primitive) error {
	switch prim.Kind {
	case lighttree.KindTriangle:
		if prim.Object >= len(s.Objects) {
			return fmt.Errorf("scene: object index %d out of range", prim.Object)
		}
		local := prim.Triangle - s.triOffsets[prim.Object]
		if local < 0 || local >= len(s.Objects[prim.Object].Faces) {
			return fmt.Errorf("scene: triangle index %d outside object %d", prim.Triangle, prim.Object)
		}
	case lighttree.KindLamp:
		if prim.Lamp >= len(s.Lights) {
			return fmt.Errorf("scene: lamp index %d out of range", prim.Lamp)
		}
	default:
		return fmt.Errorf("scene: unknown primitive kind %d", prim.Kind)
	}
	return nil
}

// Bounds implements lighttree.SceneData.
func (s *Scene) Bounds(prim lighttree.Primitive) types.BBox {
	if prim.Kind == lighttree.KindLamp {
		return s.Lights[prim.Lamp].Bounds()
	}
	obj, face := s.resolveFace(prim)
	return obj.FaceBounds(face)
}

// OrientationBounds implements lighttree.SceneData.
func (s *Scene) OrientationBounds(prim lighttree.Primitive) lighttree.Cone {
	if prim.Kind == lighttree.KindLamp {
		return s.Lights[prim.Lamp].OrientationBounds()
	}
	obj, face := s.resolveFace(prim)
	axis := obj.FaceNormal(face)
	if axis.Len() == 0 {
		// Degenerate face; any axis bounds its (zero) emission.
		axis = types.XYZ(0, 0, 1)
	}
	return lighttree.NewCone(axis, 0, math32.Pi/2)
}

// Energy implements lighttree.SceneData.
func (s *Scene) Energy(prim lighttree.Primitive) float32 {
	if prim.Kind == lighttree.KindLamp {
		return s.Lights[prim.Lamp].Energy()
	}
	obj, face := s.resolveFace(prim)
	return luminance(obj.Emission) * obj.FaceArea(face)
}
