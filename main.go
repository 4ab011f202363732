package main

import (
	"os"

	"talkie-assistant/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
