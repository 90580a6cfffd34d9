package main

import (
	"fmt"
	"os"

	"github.com/termspong/spong/internal/app"
	"github.com/termspong/spong/internal/config"
)

func main() {
	cfg, err := config.ParseWebArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serves a two-button control page; each browser joins the game")
		fmt.Fprintln(os.Stderr, "at ip:port as the second player.")
		fmt.Fprintln(os.Stderr, "  --listen <addr>     HTTP address (default: :8080)")
		fmt.Fprintln(os.Stderr, "  --log-file <path>   Write a JSON log instead of stderr")
		os.Exit(1)
	}

	if err := app.RunWeb(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
