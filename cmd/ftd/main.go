package main

import "github.com/mcoot/ftdgame/internal/cli"

func main() {
	cli.Execute()
}
