package lighttree

import "github.com/RasmusSemmle/blender/types"

// Marks a compact node that has no right child, i.e. a leaf.
const LeafMarker int32 = -1

// A CompactNode is the traversal-ready form of a tree node. Interior nodes
// store the array index of their right child in SecondChildOffset; the left
// child always occupies the immediately following slot. Leaf nodes carry
// LeafMarker there and reference their primitives through FirstPrim and
// NumEmitters.
type CompactNode struct {
	Energy         float32
	EnergyVariance float32

	// Index of the right child; LeafMarker for leaf nodes.
	SecondChildOffset int32

	// Offset into the reordered primitive array; -1 for interior nodes.
	FirstPrim int32

	// Number of emitters below this node.
	NumEmitters int32

	// World space bounds.
	BoundsW types.BBox

	// Orientation bounds.
	BoundsO Cone
}

// Check whether the node is a leaf.
func (n *CompactNode) IsLeaf() bool {
	return n.SecondChildOffset == LeafMarker
}

// Linearize the build-time tree below node into the compact array using a
// depth-first pre-order walk. The left child of an interior node lands at
// the next array slot; the right child offset is backpatched once the whole
// left subtree has been written, so it always points forward past index+1.
// Returns the array index the node was written to.
func flattenTree(node *buildNode, nodes *[]CompactNode) int32 {
	idx := int32(len(*nodes))
	*nodes = append(*nodes, CompactNode{
		Energy:            node.energy,
		EnergyVariance:    node.energyVariance,
		SecondChildOffset: LeafMarker,
		FirstPrim:         -1,
		NumEmitters:       int32(node.numEmitters),
		BoundsW:           node.bbox,
		BoundsO:           node.bcone,
	})

	if node.isLeaf {
		(*nodes)[idx].FirstPrim = int32(node.firstPrim)
		return idx
	}

	flattenTree(node.children[0], nodes)
	(*nodes)[idx].SecondChildOffset = flattenTree(node.children[1], nodes)
	return idx
}
