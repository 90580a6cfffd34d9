package main

import (
	"fmt"
	"os"

	"github.com/termspong/spong/internal/app"
	"github.com/termspong/spong/internal/config"
)

func main() {
	cfg, err := config.ParseRemoteArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Plays the joining side of a spong game with only up and down.")
		fmt.Fprintln(os.Stderr, "Keys: UP/w/k, DOWN/s/j, c or Enter to (re)connect, q to quit")
		os.Exit(1)
	}

	if err := app.NewRemoteApp(cfg).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
