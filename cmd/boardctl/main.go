package main

import "github.com/sparkbench/boardcore/cmd/boardctl/cmd"

func main() {
	cmd.Execute()
}
