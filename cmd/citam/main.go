package main

import "github.com/corning-incorporated/citam/cmd/citam/cmd"

func main() {
	cmd.Execute()
}
