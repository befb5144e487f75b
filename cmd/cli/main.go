package main

import (
	"os"

	"github.com/viveksanandiya/pdf-annotator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
