package scene

import (
	"math"
	"testing"

	"github.com/RasmusSemmle/blender/lighttree"
	"github.com/RasmusSemmle/blender/types"
	"github.com/chewxy/math32"
)

func quadObject(emission types.Vec3) *Object {
	return &Object{
		Name: "panel",
		Vertices: []types.Vec3{
			types.XYZ(0, 0, 0),
			types.XYZ(1, 0, 0),
			types.XYZ(1, 1, 0),
			types.XYZ(0, 1, 0),
		},
		Faces:    [][3]int{{0, 1, 2}, {0, 2, 3}},
		Emission: emission,
	}
}

func TestFaceQueries(t *testing.T) {
	obj := quadObject(types.XYZ(1, 1, 1))

	bbox := obj.FaceBounds(0)
	want := types.BBox{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 0)}
	if bbox != want {
		t.Fatalf("expected face bounds %+v; got %+v", want, bbox)
	}

	if area := obj.FaceArea(0); math32.Abs(area-0.5) > 1e-6 {
		t.Fatalf("expected face area 0.5; got %g", area)
	}

	normal := obj.FaceNormal(0)
	if normal != types.XYZ(0, 0, 1) {
		t.Fatalf("expected face normal +Z; got %+v", normal)
	}
}

func TestDegenerateFace(t *testing.T) {
	obj := &Object{
		Name:     "degenerate",
		Vertices: []types.Vec3{types.XYZ(1, 2, 3), types.XYZ(1, 2, 3), types.XYZ(1, 2, 3)},
		Faces:    [][3]int{{0, 1, 2}},
		Emission: types.XYZ(1, 1, 1),
	}

	bbox := obj.FaceBounds(0)
	if !bbox.Valid() {
		t.Fatal("expected a valid zero-extent box for a degenerate face")
	}
	if bbox.Diagonal() != (types.Vec3{}) {
		t.Fatalf("expected zero extent; got %+v", bbox.Diagonal())
	}
	if area := obj.FaceArea(0); area != 0 {
		t.Fatalf("expected zero area; got %g", area)
	}
	if normal := obj.FaceNormal(0); normal != (types.Vec3{}) {
		t.Fatalf("expected zero normal; got %+v", normal)
	}
}

func TestObjectValidation(t *testing.T) {
	sc := NewScene()
	obj := &Object{
		Name:     "broken",
		Vertices: []types.Vec3{types.XYZ(0, 0, 0)},
		Faces:    [][3]int{{0, 1, 2}},
	}
	if err := sc.AddObject(obj); err == nil {
		t.Fatal("expected out-of-range face index to be rejected")
	}
}

func TestLightQueries(t *testing.T) {
	point := &Light{Type: PointLight, Position: types.XYZ(1, 2, 3), Radius: 0.5, Power: types.XYZ(10, 10, 10)}
	bbox := point.Bounds()
	if bbox.Min != types.XYZ(0.5, 1.5, 2.5) || bbox.Max != types.XYZ(1.5, 2.5, 3.5) {
		t.Fatalf("unexpected point light bounds %+v", bbox)
	}
	cone := point.OrientationBounds()
	if cone.ThetaO != math32.Pi {
		t.Fatalf("expected point light to bound all directions; got theta_o %g", cone.ThetaO)
	}
	if math32.Abs(point.Energy()-10) > 1e-4 {
		t.Fatalf("expected point light energy 10; got %g", point.Energy())
	}

	spot := &Light{
		Type:      SpotLight,
		Position:  types.XYZ(0, 5, 0),
		Direction: types.XYZ(0, -1, 0),
		SpotAngle: math32.Pi / 4,
		Power:     types.XYZ(1, 1, 1),
	}
	cone = spot.OrientationBounds()
	if cone.ThetaO != 0 || math32.Abs(cone.ThetaE-math32.Pi/4) > 1e-6 {
		t.Fatalf("unexpected spot orientation bounds %+v", cone)
	}

	area := &Light{
		Type:      AreaLight,
		Position:  types.XYZ(0, 0, 0),
		Direction: types.XYZ(0, 0, 1),
		AxisU:     types.XYZ(1, 0, 0),
		AxisV:     types.XYZ(0, 1, 0),
		Power:     types.XYZ(1, 1, 1),
	}
	bbox = area.Bounds()
	if bbox.Min != types.XYZ(-1, -1, 0) || bbox.Max != types.XYZ(1, 1, 0) {
		t.Fatalf("unexpected area light bounds %+v", bbox)
	}
	if math32.Abs(area.Energy()-4) > 1e-4 {
		t.Fatalf("expected area light energy 4; got %g", area.Energy())
	}
}

func TestLightValidation(t *testing.T) {
	sc := NewScene()

	specs := []*Light{
		// Missing direction, zero cutoff, degenerate axes, unknown type.
		{Type: SpotLight, SpotAngle: 1},
		{Type: SpotLight, Direction: types.XYZ(0, -1, 0), SpotAngle: 0},
		{Type: AreaLight, Direction: types.XYZ(0, 0, 1)},
		{Type: LightType(9)},
	}
	for idx, light := range specs {
		if err := sc.AddLight(light); err == nil {
			t.Fatalf("[spec %d] expected light to be rejected", idx)
		}
	}
}

func TestEmissivePrimitives(t *testing.T) {
	sc := NewScene()
	if err := sc.AddObject(quadObject(types.XYZ(0, 0, 0))); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddObject(quadObject(types.XYZ(5, 5, 5))); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddLight(&Light{Type: PointLight, Power: types.XYZ(1, 1, 1)}); err != nil {
		t.Fatal(err)
	}

	prims := sc.EmissivePrimitives()
	if len(prims) != 3 {
		t.Fatalf("expected 2 emissive faces and 1 lamp; got %d primitives", len(prims))
	}

	// The dark object still occupies global triangle indices 0-1, so the
	// emissive faces of the second object start at 2.
	want := []lighttree.Primitive{
		lighttree.TrianglePrimitive(2, 1),
		lighttree.TrianglePrimitive(3, 1),
		lighttree.LampPrimitive(0),
	}
	for idx := range want {
		if prims[idx] != want[idx] {
			t.Fatalf("expected primitive %d to be %s; got %s", idx, want[idx], prims[idx])
		}
	}

	for _, prim := range prims {
		if err := sc.ValidatePrimitive(prim); err != nil {
			t.Fatalf("expected %s to validate; got %v", prim, err)
		}
	}
}

func TestValidatePrimitiveRejectsOutOfRange(t *testing.T) {
	sc := NewScene()
	if err := sc.AddObject(quadObject(types.XYZ(1, 1, 1))); err != nil {
		t.Fatal(err)
	}

	specs := []lighttree.Primitive{
		lighttree.TrianglePrimitive(0, 3),
		lighttree.TrianglePrimitive(7, 0),
		lighttree.LampPrimitive(0),
	}
	for idx, prim := range specs {
		if err := sc.ValidatePrimitive(prim); err == nil {
			t.Fatalf("[spec %d] expected %s to be rejected", idx, prim)
		}
	}
}

func TestSceneDataQueries(t *testing.T) {
	sc := NewScene()
	if err := sc.AddObject(quadObject(types.XYZ(2, 2, 2))); err != nil {
		t.Fatal(err)
	}

	prim := lighttree.TrianglePrimitive(0, 0)
	bbox := sc.Bounds(prim)
	if bbox != (types.BBox{Min: types.XYZ(0, 0, 0), Max: types.XYZ(1, 1, 0)}) {
		t.Fatalf("unexpected triangle bounds %+v", bbox)
	}

	cone := sc.OrientationBounds(prim)
	if cone.Axis != types.XYZ(0, 0, 1) || cone.ThetaO != 0 {
		t.Fatalf("unexpected triangle orientation bounds %+v", cone)
	}

	// luminance(2,2,2) == 2, face area == 0.5.
	if energy := sc.Energy(prim); math32.Abs(energy-1) > 1e-5 {
		t.Fatalf("expected triangle energy 1; got %g", energy)
	}
}

func TestBuildTreeFromScene(t *testing.T) {
	sc := NewScene()
	if err := sc.AddObject(quadObject(types.XYZ(4, 4, 4))); err != nil {
		t.Fatal(err)
	}
	if err := sc.AddLight(&Light{Type: PointLight, Position: types.XYZ(0, 10, 0), Radius: 0.1, Power: types.XYZ(50, 50, 50)}); err != nil {
		t.Fatal(err)
	}

	prims := sc.EmissivePrimitives()
	tree, err := lighttree.Build(sc, prims, lighttree.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if len(tree.Primitives()) != len(prims) {
		t.Fatalf("expected %d primitives in the tree; got %d", len(prims), len(tree.Primitives()))
	}

	var wantEnergy float64
	for _, prim := range prims {
		wantEnergy += float64(sc.Energy(prim))
	}
	if math.Abs(float64(tree.TotalEnergy())-wantEnergy) > 1e-3*wantEnergy {
		t.Fatalf("expected total energy %g; got %g", wantEnergy, tree.TotalEnergy())
	}
}
