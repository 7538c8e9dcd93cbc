package main

import (
	"os"

	"github.com/dshills/codementor/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
