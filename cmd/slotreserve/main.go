package main

import "github.com/solerma/slotreserve/internal/cli"

func main() {
	cli.Execute()
}
