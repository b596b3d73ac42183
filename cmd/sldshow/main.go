package main

import (
	"github.com/matjam/sldshow/internal/cli"
)

func main() {
	cli.Execute()
}
