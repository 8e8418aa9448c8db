package main

import (
	"log"

	"github.com/NVIDIA/scoreboard/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
