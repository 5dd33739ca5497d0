// Package main provides the corrosim CLI.
package main

import "github.com/mesh-intelligence/corrosim/internal/cli"

func main() {
	cli.Execute()
}
