package main

import (
	"os"

	"github.com/RasmusSemmle/blender/cmd"
	"github.com/RasmusSemmle/blender/lighttree"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	treeFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "max-prims-per-leaf",
			Value: lighttree.DefaultMaxPrimsInNode,
			Usage: "max number of emissive primitives per tree leaf",
		},
		cli.IntFlag{
			Name:  "buckets",
			Value: lighttree.DefaultNumBuckets,
			Usage: "number of centroid buckets evaluated per split axis",
		},
	}

	app := cli.NewApp()
	app.Name = "lighttree"
	app.Usage = "build light trees over emissive scene primitives"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "build",
			Usage: "build a light tree for each scene file",
			Description: `
Parse a YAML scene description, enumerate its emissive triangles and discrete
lights and build a light tree over them. The tree is reported through its
summary stats; use the stats command for a per-level breakdown.`,
			ArgsUsage: "scene_file1.yaml scene_file2.yaml ...",
			Flags:     treeFlags,
			Action:    cmd.BuildTree,
		},
		{
			Name:      "stats",
			Usage:     "build a light tree and dump per-level stats",
			ArgsUsage: "scene_file.yaml",
			Flags:     treeFlags,
			Action:    cmd.TreeStats,
		},
	}

	app.Run(os.Args)
}
