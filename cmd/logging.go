package cmd

import (
	"github.com/RasmusSemmle/blender/log"
	"github.com/urfave/cli"
)

var logger = log.New("lighttree-cli")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
