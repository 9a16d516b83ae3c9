package cmd

import (
	"fmt"
	"os"

	"github.com/RasmusSemmle/blender/lighttree"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

type levelStats struct {
	nodes    int
	leafs    int
	emitters int
	energy   float64
}

// Walk the compact node array and aggregate per-depth stats. The left child
// of an interior node at index i sits at i+1, the right child at the node's
// second child offset.
func collectLevelStats(nodes []lighttree.CompactNode) []levelStats {
	levels := make([]levelStats, 0)
	if len(nodes) == 0 {
		return levels
	}

	type entry struct {
		index int32
		depth int
	}
	stack := []entry{{0, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for e.depth >= len(levels) {
			levels = append(levels, levelStats{})
		}

		node := &nodes[e.index]
		lv := &levels[e.depth]
		lv.nodes++
		lv.energy += float64(node.Energy)
		if node.IsLeaf() {
			lv.leafs++
			lv.emitters += int(node.NumEmitters)
			continue
		}

		stack = append(stack, entry{e.index + 1, e.depth + 1})
		stack = append(stack, entry{node.SecondChildOffset, e.depth + 1})
	}
	return levels
}

// Build a light tree for a scene file and dump a per-level breakdown.
func TreeStats(ctx *cli.Context) {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		logger.Error("exactly one scene file expected")
		os.Exit(1)
	}

	sceneFile := ctx.Args().Get(0)
	_, tree, err := buildFromFile(sceneFile, treeOptions(ctx))
	if err != nil {
		logger.Errorf("%s", err.Error())
		os.Exit(1)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Level", "Nodes", "Leafs", "Emitters", "Energy"})
	for depth, lv := range collectLevelStats(tree.Nodes()) {
		table.Append([]string{
			fmt.Sprintf("%d", depth),
			fmt.Sprintf("%d", lv.nodes),
			fmt.Sprintf("%d", lv.leafs),
			fmt.Sprintf("%d", lv.emitters),
			fmt.Sprintf("%.3f", lv.energy),
		})
	}
	table.Render()

	logger.Noticef(
		"%q: %d nodes (%d leafs), max depth %d, total energy %.3f",
		sceneFile, tree.NodeCount(), tree.LeafCount(), tree.MaxDepth(), tree.TotalEnergy(),
	)
}
