package main

import "matchgrid/internal/cli"

func main() {
	cli.Execute()
}
