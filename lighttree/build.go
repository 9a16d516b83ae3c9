package lighttree

import (
	"github.com/RasmusSemmle/blender/types"
	"github.com/chewxy/math32"
)

// Weight of the energy-variance penalty in the split cost. Splits that keep
// primitives with wildly different energies on the same side are penalized
// so that high-variance groups get separated early.
const varianceWeight float32 = 1.0

// Per-primitive build record. Assembled once per input primitive from the
// three SceneData queries and discarded after the build-time tree has been
// flattened.
type primitiveInfo struct {
	prim     Primitive
	bbox     types.BBox
	centroid types.Vec3
	bcone    Cone
	energy   float32
}

// Transient binary tree node used during construction. Leafs reference a
// contiguous range of the reordered primitive array; interior nodes own
// their two children. All aggregates of an interior node are exactly the
// merge of its children's.
type buildNode struct {
	bbox           types.BBox
	bcone          Cone
	energy         float32
	energyVariance float32
	numEmitters    int

	// Interior nodes only.
	children  [2]*buildNode
	splitAxis int

	// Leaf nodes only.
	firstPrim int
	isLeaf    bool
}

type buildStats struct {
	totalNodes int
	leafs      int
	maxDepth   int
}

type builder struct {
	buildData  []primitiveInfo
	ordered    []Primitive
	maxPrims   int
	numBuckets int
	stats      buildStats
}

// Partition the record range [start, end) and return the root of the
// resulting subtree. The builder is total: every input shape maps to a
// valid subtree and the recursion always terminates.
func (b *builder) build(start, end, depth int) *buildNode {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	// Merge the range aggregates: world bounds, centroid bounds,
	// orientation bounds and energy moments.
	bbox := types.EmptyBBox()
	centroidBounds := types.EmptyBBox()
	bcone := b.buildData[start].bcone
	var energy, energySq float64
	for i := start; i < end; i++ {
		info := &b.buildData[i]
		bbox = bbox.Union(info.bbox)
		centroidBounds = centroidBounds.Include(info.centroid)
		if i > start {
			bcone = ConeUnion(bcone, info.bcone)
		}
		energy += float64(info.energy)
		energySq += float64(info.energy) * float64(info.energy)
	}

	n := end - start
	mean := energy / float64(n)
	variance := energySq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}

	// Leaf when the range is small enough or no axis offers distinct
	// centroids to split on (e.g. co-located primitives).
	extent := centroidBounds.Diagonal()
	if n <= b.maxPrims || (extent[0] <= 0 && extent[1] <= 0 && extent[2] <= 0) {
		return b.createLeaf(bbox, bcone, energy, variance, start, end)
	}

	minCost, minDim, minBucket := b.splitSAOH(centroidBounds, start, end)
	if minDim < 0 {
		// No usable split candidate on any axis.
		return b.createLeaf(bbox, bcone, energy, variance, start, end)
	}

	// Splitting must beat the cost of keeping the whole range in one leaf.
	leafCost := (float32(energy) + varianceWeight*float32(n)*math32.Sqrt(float32(variance))) *
		bbox.SurfaceArea() * bcone.Measure()
	if leafCost > 0 && minCost >= leafCost {
		return b.createLeaf(bbox, bcone, energy, variance, start, end)
	}

	mid := b.partition(start, end, minDim, minBucket, centroidBounds)
	if mid == start || mid == end {
		// Degenerate partition; never recurse on an empty range.
		return b.createLeaf(bbox, bcone, energy, variance, start, end)
	}

	left := b.build(start, mid, depth+1)
	right := b.build(mid, end, depth+1)

	b.stats.totalNodes++
	return &buildNode{
		bbox:           left.bbox.Union(right.bbox),
		bcone:          ConeUnion(left.bcone, right.bcone),
		energy:         float32(energy),
		energyVariance: float32(variance),
		numEmitters:    n,
		children:       [2]*buildNode{left, right},
		splitAxis:      minDim,
	}
}

// Emit a leaf covering [start, end): the range's primitives are appended to
// the reordered output array and the leaf records their offset and count.
func (b *builder) createLeaf(bbox types.BBox, bcone Cone, energy, variance float64, start, end int) *buildNode {
	first := len(b.ordered)
	for i := start; i < end; i++ {
		b.ordered = append(b.ordered, b.buildData[i].prim)
	}

	b.stats.totalNodes++
	b.stats.leafs++
	return &buildNode{
		bbox:           bbox,
		bcone:          bcone,
		energy:         float32(energy),
		energyVariance: float32(variance),
		numEmitters:    end - start,
		firstPrim:      first,
		isLeaf:         true,
	}
}

// Calculate the bucket a centroid falls into along the given axis. The
// caller guarantees the centroid bounds have positive extent on that axis.
func bucketIndex(centroid types.Vec3, centroidBounds types.BBox, dim, nBuckets int) int {
	extent := centroidBounds.Max[dim] - centroidBounds.Min[dim]
	idx := int(float32(nBuckets) * (centroid[dim] - centroidBounds.Min[dim]) / extent)
	if idx >= nBuckets {
		idx = nBuckets - 1
	}
	return idx
}

// Reorder [start, end) in place so records whose centroid falls into a
// bucket <= splitBucket along dim precede the rest. Returns the index of
// the first record of the right side.
func (b *builder) partition(start, end, dim, splitBucket int, centroidBounds types.BBox) int {
	mid := start
	for i := start; i < end; i++ {
		if bucketIndex(b.buildData[i].centroid, centroidBounds, dim, b.numBuckets) <= splitBucket {
			b.buildData[mid], b.buildData[i] = b.buildData[i], b.buildData[mid]
			mid++
		}
	}
	return mid
}
