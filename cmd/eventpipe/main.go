package main

import (
	"github.com/khoward/eventpipe/internal/cli"
)

func main() {
	cli.Execute()
}
