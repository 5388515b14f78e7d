package main

import (
	"os"

	"github.com/canvas-tools/canvasctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
