package sldshow

import (
	_ "embed"
)

//go:embed VERSION
var Version string

//go:embed sldshow.toml
var DefaultConfig string
