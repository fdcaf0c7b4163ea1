// Package main provides the slpack CLI.
package main

import "github.com/mesh-intelligence/slcmake/internal/cli"

func main() {
	cli.Execute()
}
