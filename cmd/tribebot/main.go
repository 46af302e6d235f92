package main

import (
	"github.com/tribebot/tribebot-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
