package main

import "github.com/amebalabs/KefirCLI/internal/cli"

func main() {
	cli.Execute()
}
