package main

import (
	"fmt"
	"os"

	"couplecall/internal/controller/cli"
)

func main() {
	if err := cli.NewRootCommand(mediaSource).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
