package main

import (
	"context"
	"os"

	"entrepreedge/internal/commands"
)

func main() {
	if err := commands.Execute(context.Background(), os.Args[1:], nil); err != nil {
		os.Exit(1)
	}
}
