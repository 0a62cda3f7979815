package main

import (
	"os"

	"skiplint/internal/ui/cli"
)

func main() {
	os.Exit(cli.Execute())
}
