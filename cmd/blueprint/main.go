package main

import (
	"github.com/deployctl/blueprint/internal/cli"
)

func main() {
	cli.Execute()
}
