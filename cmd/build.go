package cmd

import (
	"os"

	"github.com/RasmusSemmle/blender/lighttree"
	"github.com/RasmusSemmle/blender/scene"
	"github.com/urfave/cli"
)

func treeOptions(ctx *cli.Context) lighttree.Options {
	return lighttree.Options{
		MaxPrimsInNode: ctx.Int("max-prims-per-leaf"),
		NumBuckets:     ctx.Int("buckets"),
	}
}

func buildFromFile(sceneFile string, opts lighttree.Options) (*scene.Scene, *lighttree.LightTree, error) {
	sc, err := scene.ReadScene(sceneFile)
	if err != nil {
		return nil, nil, err
	}

	prims := sc.EmissivePrimitives()
	logger.Infof("%q: %d objects, %d lights, %d emissive primitives", sceneFile, len(sc.Objects), len(sc.Lights), len(prims))

	tree, err := lighttree.Build(sc, prims, opts)
	if err != nil {
		return nil, nil, err
	}
	return sc, tree, nil
}

// Build a light tree for each scene file argument and report summary stats.
func BuildTree(ctx *cli.Context) {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		logger.Error("no scene file specified")
		os.Exit(1)
	}

	opts := treeOptions(ctx)
	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		_, tree, err := buildFromFile(sceneFile, opts)
		if err != nil {
			logger.Errorf("%s", err.Error())
			os.Exit(1)
		}

		logger.Noticef(
			"%q: %d nodes (%d leafs), max depth %d, total energy %.3f",
			sceneFile, tree.NodeCount(), tree.LeafCount(), tree.MaxDepth(), tree.TotalEnergy(),
		)
	}
}
