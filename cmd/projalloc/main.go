package main

import (
	"github.com/projalloc/projalloc/internal/cli"
)

func main() {
	cli.Execute()
}
