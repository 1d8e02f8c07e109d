package main

import (
	"os"

	cubemcpcmder "github.com/cubestack/cubemcp/cmd/cubemcp"
)

func main() {
	cmd := cubemcpcmder.NewCubemcpCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
