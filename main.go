package main

import (
	"os"

	"github.com/youngOS1998/gameskill-data-process/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
