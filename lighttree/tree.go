// Package lighttree builds a bounding volume hierarchy over every emissive
// primitive of a scene. Splits are chosen with a surface-area-orientation
// heuristic that extends the classic SAH with orientation-cone and energy
// terms, and the finished tree is linearized into a compact node array that
// a sampler can traverse iteratively.
package lighttree

import (
	"errors"
	"fmt"
	"time"

	"github.com/RasmusSemmle/blender/log"
	"github.com/RasmusSemmle/blender/types"
)

var (
	ErrMissingSceneData   = errors.New("lighttree: no scene data supplied")
	ErrMalformedPrimitive = errors.New("lighttree: malformed primitive reference")
)

// SceneData supplies the per-primitive queries the builder needs from the
// scene representation. It is borrowed for the duration of a Build call and
// must not be mutated concurrently; the finished tree keeps no reference to
// it.
type SceneData interface {
	// World-space bounds of the primitive. Degenerate primitives yield a
	// valid zero-extent box.
	Bounds(prim Primitive) types.BBox

	// Orientation bounds of the primitive.
	OrientationBounds(prim Primitive) Cone

	// Non-negative emitted energy: radiance times area for triangles,
	// total power for lamps.
	Energy(prim Primitive) float32
}

// PrimitiveValidator is an optional extension of SceneData. When the scene
// implements it, Build rejects primitives the scene reports as invalid
// (e.g. out-of-range triangle or lamp indices) before touching any query.
type PrimitiveValidator interface {
	ValidatePrimitive(prim Primitive) error
}

const (
	DefaultMaxPrimsInNode = 1
	DefaultNumBuckets     = 4
)

type Options struct {
	// Ranges with at most this many primitives become leafs.
	MaxPrimsInNode int

	// Number of centroid buckets evaluated per axis during the split
	// search.
	NumBuckets int
}

func (o *Options) applyDefaults() {
	if o.MaxPrimsInNode <= 0 {
		o.MaxPrimsInNode = DefaultMaxPrimsInNode
	}
	if o.NumBuckets < 2 {
		o.NumBuckets = DefaultNumBuckets
	}
}

// A LightTree owns the reordered primitive array and the compact node array
// produced by a build. Both arrays are immutable after construction; there
// is no mutation API.
type LightTree struct {
	primitives []Primitive
	nodes      []CompactNode
	stats      buildStats
}

// Build a light tree over the given primitives. The builder queries src for
// per-primitive bounds, orientation bounds and energy, recursively
// partitions the primitives with the surface-area-orientation heuristic and
// flattens the result. It is total for well-formed inputs: an empty
// primitive list yields an empty tree, a single primitive a single leaf and
// co-located primitives a leaf covering all of them.
func Build(src SceneData, prims []Primitive, opts Options) (*LightTree, error) {
	opts.applyDefaults()

	if len(prims) == 0 {
		return &LightTree{}, nil
	}
	if src == nil {
		return nil, ErrMissingSceneData
	}

	validator, _ := src.(PrimitiveValidator)
	for _, prim := range prims {
		if !prim.wellFormed() {
			return nil, fmt.Errorf("%w: %s", ErrMalformedPrimitive, prim)
		}
		if validator != nil {
			if err := validator.ValidatePrimitive(prim); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPrimitive, prim, err)
			}
		}
	}

	logger := log.New("lighttree")
	start := time.Now()

	buildData := make([]primitiveInfo, len(prims))
	for i, prim := range prims {
		bbox := src.Bounds(prim)
		energy := src.Energy(prim)
		if energy < 0 {
			energy = 0
		}
		buildData[i] = primitiveInfo{
			prim:     prim,
			bbox:     bbox,
			centroid: bbox.Center(),
			bcone:    src.OrientationBounds(prim),
			energy:   energy,
		}
	}

	b := &builder{
		buildData:  buildData,
		ordered:    make([]Primitive, 0, len(prims)),
		maxPrims:   opts.MaxPrimsInNode,
		numBuckets: opts.NumBuckets,
	}
	root := b.build(0, len(buildData), 0)

	nodes := make([]CompactNode, 0, b.stats.totalNodes)
	flattenTree(root, &nodes)

	logger.Debugf(
		"light tree build time: %d ms, primitives: %d, nodes: %d, leafs: %d, max depth: %d",
		time.Since(start).Nanoseconds()/1e6,
		len(prims), b.stats.totalNodes, b.stats.leafs, b.stats.maxDepth,
	)

	return &LightTree{
		primitives: b.ordered,
		nodes:      nodes,
		stats:      b.stats,
	}, nil
}

// Get the reordered primitive array. Leaf nodes reference contiguous ranges
// of this array. Callers must treat it as read-only.
func (t *LightTree) Primitives() []Primitive {
	return t.primitives
}

// Get the compact node array. Callers must treat it as read-only.
func (t *LightTree) Nodes() []CompactNode {
	return t.nodes
}

// Get the total node count.
func (t *LightTree) NodeCount() int {
	return len(t.nodes)
}

// Get the leaf node count.
func (t *LightTree) LeafCount() int {
	return t.stats.leafs
}

// Get the depth of the deepest leaf. An empty tree reports zero.
func (t *LightTree) MaxDepth() int {
	return t.stats.maxDepth
}

// Get the summed energy of every primitive in the tree.
func (t *LightTree) TotalEnergy() float32 {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[0].Energy
}
