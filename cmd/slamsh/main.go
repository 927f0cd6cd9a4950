package main

import (
	"github.com/robotmaps/slam.go/pkg/link"
	"github.com/robotmaps/slam.go/pkg/teleop"
)

//go-build: CGO_ENABLED=0

func init() {
	link.SetupFlags()
}

func main() {
	teleop.Main()
}
