package lighttree

import (
	"github.com/RasmusSemmle/blender/types"
	"github.com/chewxy/math32"
)

// Aggregates for a single candidate bucket or for an accumulated side of a
// candidate split.
type bucket struct {
	count    int
	bbox     types.BBox
	bcone    Cone
	hasCone  bool
	energy   float64
	energySq float64
}

func (bk *bucket) add(info *primitiveInfo) {
	bk.count++
	bk.bbox = bk.bbox.Union(info.bbox)
	if bk.hasCone {
		bk.bcone = ConeUnion(bk.bcone, info.bcone)
	} else {
		bk.bcone = info.bcone
		bk.hasCone = true
	}
	bk.energy += float64(info.energy)
	bk.energySq += float64(info.energy) * float64(info.energy)
}

func (bk *bucket) merge(other *bucket) {
	if other.count == 0 {
		return
	}
	bk.count += other.count
	bk.bbox = bk.bbox.Union(other.bbox)
	if bk.hasCone {
		bk.bcone = ConeUnion(bk.bcone, other.bcone)
	} else {
		bk.bcone = other.bcone
		bk.hasCone = other.hasCone
	}
	bk.energy += other.energy
	bk.energySq += other.energySq
}

// Surface-area-orientation cost of one side of a candidate split: total
// energy (with a variance penalty) times bounds surface area times the
// angular measure of the aggregated orientation bounds.
func (bk *bucket) cost() float32 {
	mean := bk.energy / float64(bk.count)
	variance := bk.energySq/float64(bk.count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	weighted := float32(bk.energy) + varianceWeight*float32(bk.count)*math32.Sqrt(float32(variance))
	return weighted * bk.bbox.SurfaceArea() * bk.bcone.Measure()
}

// Search every (axis, bucket boundary) candidate for the cheapest split of
// the record range [start, end). Axes with zero centroid extent are skipped
// so the bucket index math never divides by zero. Returns minDim == -1 when
// no axis offers a usable candidate.
func (b *builder) splitSAOH(centroidBounds types.BBox, start, end int) (minCost float32, minDim, minBucket int) {
	minCost = math32.MaxFloat32
	minDim = -1
	minBucket = -1

	extent := centroidBounds.Diagonal()
	buckets := make([]bucket, b.numBuckets)

	for dim := 0; dim < 3; dim++ {
		if extent[dim] <= 0 {
			continue
		}

		for i := range buckets {
			buckets[i] = bucket{bbox: types.EmptyBBox()}
		}
		for i := start; i < end; i++ {
			info := &b.buildData[i]
			idx := bucketIndex(info.centroid, centroidBounds, dim, b.numBuckets)
			buckets[idx].add(info)
		}

		// Evaluate every boundary between two consecutive buckets.
		for split := 0; split < b.numBuckets-1; split++ {
			left := bucket{bbox: types.EmptyBBox()}
			right := bucket{bbox: types.EmptyBBox()}
			for i := 0; i <= split; i++ {
				left.merge(&buckets[i])
			}
			for i := split + 1; i < b.numBuckets; i++ {
				right.merge(&buckets[i])
			}

			// Never produce an empty side.
			if left.count == 0 || right.count == 0 {
				continue
			}

			cost := left.cost() + right.cost()
			if cost < minCost {
				minCost = cost
				minDim = dim
				minBucket = split
			}
		}
	}

	return minCost, minDim, minBucket
}
