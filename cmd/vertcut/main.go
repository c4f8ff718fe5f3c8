package main

import "github.com/vertcut/vertcut/internal/cli"

func main() {
	cli.Main()
}
