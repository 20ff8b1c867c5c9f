package main

import "github.com/mtml-lang/pkg-manifest/cmd/pkg-manifest/cmd"

func main() {
	cmd.Execute()
}
