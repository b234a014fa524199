package main

import (
	"fmt"
	"os"

	"github.com/kilianp07/occupancy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "occupancy:", err)
		os.Exit(1)
	}
}
