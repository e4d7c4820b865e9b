package main

import "github.com/parchment-labs/noteseek/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
