package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/reqkit/cmd/reqkit/commands"
)

func main() {
	if err := commands.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(commands.ExitCode(err))
	}
}
