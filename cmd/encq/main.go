package main

import (
	"os"

	"github.com/psantana5/encoder-quality/cmd/encq/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
