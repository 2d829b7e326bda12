package main

import (
	"context"
	"os"

	"github.com/austinraben/wordhunt/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
