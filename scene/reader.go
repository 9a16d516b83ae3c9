package scene

import (
	"fmt"
	"os"

	"github.com/RasmusSemmle/blender/types"
	"github.com/chewxy/math32"
	"gopkg.in/yaml.v3"
)

// On-disk scene description. Angles are given in degrees, everything else
// in world units.
type rawScene struct {
	Objects []rawObject `yaml:"objects"`
	Lights  []rawLight  `yaml:"lights"`
}

type rawObject struct {
	Name     string       `yaml:"name"`
	Emission [3]float32   `yaml:"emission"`
	Vertices [][3]float32 `yaml:"vertices"`
	Faces    [][3]int     `yaml:"faces"`
}

type rawLight struct {
	Type      string     `yaml:"type"`
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
	Radius    float32    `yaml:"radius"`
	Angle     float32    `yaml:"angle"`
	AxisU     [3]float32 `yaml:"axis_u"`
	AxisV     [3]float32 `yaml:"axis_v"`
	Power     [3]float32 `yaml:"power"`
}

func vec(v [3]float32) types.Vec3 {
	return types.XYZ(v[0], v[1], v[2])
}

// Parse a YAML scene description.
func ParseScene(data []byte) (*Scene, error) {
	var raw rawScene
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("scene: malformed scene description: %v", err)
	}

	sc := NewScene()
	for _, ro := range raw.Objects {
		obj := &Object{
			Name:     ro.Name,
			Emission: vec(ro.Emission),
		}
		for _, v := range ro.Vertices {
			obj.Vertices = append(obj.Vertices, vec(v))
		}
		obj.Faces = append(obj.Faces, ro.Faces...)
		if err := sc.AddObject(obj); err != nil {
			return nil, err
		}
	}

	for index, rl := range raw.Lights {
		light := &Light{
			Position:  vec(rl.Position),
			Direction: vec(rl.Direction),
			Radius:    rl.Radius,
			SpotAngle: rl.Angle * math32.Pi / 180,
			AxisU:     vec(rl.AxisU),
			AxisV:     vec(rl.AxisV),
			Power:     vec(rl.Power),
		}
		switch rl.Type {
		case "point":
			light.Type = PointLight
		case "spot":
			light.Type = SpotLight
		case "area":
			light.Type = AreaLight
		default:
			return nil, fmt.Errorf("scene: light %d has unsupported type %q", index, rl.Type)
		}
		if err := sc.AddLight(light); err != nil {
			return nil, err
		}
	}

	return sc, nil
}

// Read a YAML scene description from disk.
func ReadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %v", err)
	}
	return ParseScene(data)
}
