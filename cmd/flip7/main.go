package main

import "github.com/mcoot/flip7/internal/cli"

func main() {
	cli.Execute()
}
