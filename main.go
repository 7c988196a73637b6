package main

import (
	"catering-quote/cmd"

	_ "go.uber.org/automaxprocs"
)

func main() {
	cmd.Start()
}
