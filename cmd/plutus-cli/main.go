package main

import (
	"context"

	"github.com/fortuna/plutus/cmd/plutus-cli/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
