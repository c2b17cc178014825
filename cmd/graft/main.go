package main

import (
	"os"

	"github.com/srctree/graft/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
