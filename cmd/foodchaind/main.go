// Package main implements a sandbox node running the food order contract
// on top of a local key/value store.
package main

import (
	"fmt"
	"os"

	foodchain "github.com/chainkitchen/foodchain"
	"github.com/chainkitchen/foodchain/cli/node"
	"github.com/chainkitchen/foodchain/contracts/foodorder/controller"
)

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	builder := node.NewBuilder(controller.NewController())

	app := builder.Build()

	foodchain.Logger.Info().Msg("starting foodchaind")

	return app.Run(args)
}
