package main

import "server-runner/internal/cli"

func main() {
	cli.Execute()
}
