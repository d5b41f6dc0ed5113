package main

import (
	"os"

	"github.com/cowtrade/cowtrade/src/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
