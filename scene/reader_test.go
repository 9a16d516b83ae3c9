package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
)

const sceneDoc = `
objects:
  - name: ceiling-panel
    emission: [10, 10, 10]
    vertices:
      - [0, 5, 0]
      - [1, 5, 0]
      - [1, 5, 1]
      - [0, 5, 1]
    faces:
      - [0, 1, 2]
      - [0, 2, 3]
lights:
  - type: point
    position: [3, 3, 3]
    radius: 0.1
    power: [100, 100, 100]
  - type: spot
    position: [0, 4, 0]
    direction: [0, -1, 0]
    angle: 45
    radius: 0.05
    power: [25, 25, 25]
  - type: area
    position: [2, 4, 2]
    direction: [0, -1, 0]
    axis_u: [0.5, 0, 0]
    axis_v: [0, 0, 0.5]
    power: [5, 5, 5]
`

func TestParseScene(t *testing.T) {
	sc, err := ParseScene([]byte(sceneDoc))
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Objects) != 1 {
		t.Fatalf("expected 1 object; got %d", len(sc.Objects))
	}
	obj := sc.Objects[0]
	if obj.Name != "ceiling-panel" || len(obj.Vertices) != 4 || len(obj.Faces) != 2 {
		t.Fatalf("unexpected object %+v", obj)
	}

	if len(sc.Lights) != 3 {
		t.Fatalf("expected 3 lights; got %d", len(sc.Lights))
	}
	if sc.Lights[0].Type != PointLight || sc.Lights[1].Type != SpotLight || sc.Lights[2].Type != AreaLight {
		t.Fatalf("unexpected light types %v %v %v", sc.Lights[0].Type, sc.Lights[1].Type, sc.Lights[2].Type)
	}

	// Angles are given in degrees on disk.
	if got := sc.Lights[1].SpotAngle; math32.Abs(got-math32.Pi/4) > 1e-5 {
		t.Fatalf("expected spot angle pi/4; got %g", got)
	}

	prims := sc.EmissivePrimitives()
	if len(prims) != 5 {
		t.Fatalf("expected 2 emissive faces and 3 lamps; got %d primitives", len(prims))
	}
}

func TestParseSceneErrors(t *testing.T) {
	specs := []struct {
		desc string
		doc  string
	}{
		{"malformed yaml", "objects: ["},
		{"unsupported light type", "lights:\n  - type: laser\n"},
		{
			"face index out of range",
			"objects:\n  - name: broken\n    emission: [1, 1, 1]\n    vertices:\n      - [0, 0, 0]\n    faces:\n      - [0, 1, 2]\n",
		},
		{"invalid spot light", "lights:\n  - type: spot\n    angle: 45\n"},
	}

	for _, spec := range specs {
		if _, err := ParseScene([]byte(spec.doc)); err == nil {
			t.Fatalf("expected error parsing scene with %s", spec.desc)
		}
	}
}

func TestReadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sceneDoc), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := ReadScene(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Objects) != 1 || len(sc.Lights) != 3 {
		t.Fatalf("unexpected scene contents: %d objects, %d lights", len(sc.Objects), len(sc.Lights))
	}

	if _, err := ReadScene(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error reading missing scene file")
	}
}
