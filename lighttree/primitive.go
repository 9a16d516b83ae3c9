package lighttree

import "fmt"

// The kind of an emissive primitive.
type PrimitiveKind uint8

const (
	// An emissive mesh triangle owned by a scene object.
	KindTriangle PrimitiveKind = iota

	// A discrete light source from the scene light list.
	KindLamp
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindTriangle:
		return "triangle"
	case KindLamp:
		return "lamp"
	}
	return "unknown"
}

// A Primitive is a reference to a single emitter. Exactly one interpretation
// is active for its entire lifetime: a triangle reference carries a global
// triangle index plus the owning object index, a lamp reference carries an
// index into the scene light list.
type Primitive struct {
	Kind PrimitiveKind

	// Global triangle index and owning object index; valid only when
	// Kind == KindTriangle.
	Triangle int
	Object   int

	// Index into the scene light list; valid only when Kind == KindLamp.
	Lamp int
}

// Create a reference to an emissive mesh triangle.
func TrianglePrimitive(globalTri, object int) Primitive {
	return Primitive{Kind: KindTriangle, Triangle: globalTri, Object: object, Lamp: -1}
}

// Create a reference to a discrete light source.
func LampPrimitive(lamp int) Primitive {
	return Primitive{Kind: KindLamp, Triangle: -1, Object: -1, Lamp: lamp}
}

func (p Primitive) String() string {
	switch p.Kind {
	case KindTriangle:
		return fmt.Sprintf("triangle %d of object %d", p.Triangle, p.Object)
	case KindLamp:
		return fmt.Sprintf("lamp %d", p.Lamp)
	}
	return fmt.Sprintf("unknown primitive kind %d", p.Kind)
}

// Check that the reference carries a known tag and non-negative indices for
// the active interpretation.
func (p Primitive) wellFormed() bool {
	switch p.Kind {
	case KindTriangle:
		return p.Triangle >= 0 && p.Object >= 0
	case KindLamp:
		return p.Lamp >= 0
	}
	return false
}
