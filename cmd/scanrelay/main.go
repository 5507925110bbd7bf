package main

import (
	"os"

	"github.com/scanrelay/scanrelay/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
