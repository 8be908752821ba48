package main

import (
	"os"

	"mrlens/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
