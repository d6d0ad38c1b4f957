package main

import (
	"github.com/selimacar/qrmenu/cmd"

	// Subcommands register themselves on RootCmd via init().
	_ "github.com/selimacar/qrmenu/cmd/cli"
	_ "github.com/selimacar/qrmenu/cmd/server"
)

func main() {
	cmd.Execute()
}
