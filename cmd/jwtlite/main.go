package main

import (
	"os"

	"github.com/cybergodev/jwtlite/cmd/jwtlite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
