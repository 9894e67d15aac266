package main

import (
	"os"

	"github.com/ivaldepablo/play-sib-v2/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
