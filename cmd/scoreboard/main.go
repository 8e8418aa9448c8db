package main

import (
	"github.com/NVIDIA/scoreboard/pkg/cli"
)

func main() {
	cli.Execute()
}
