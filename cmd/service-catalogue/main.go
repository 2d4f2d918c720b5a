package main

import (
	"os"

	"github.com/apigovau/service-catalogue/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
