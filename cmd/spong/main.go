package main

import (
	"fmt"
	"net"
	"os"

	"github.com/pkg/errors"

	"github.com/termspong/spong/internal/app"
	"github.com/termspong/spong/internal/config"
)

func main() {
	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		fail(err)
	}

	// With port 0 the real port is only shown on the waiting screen
	if cfg.IsHost && cfg.Port != 0 {
		showHostInfo(cfg.Port)
	}

	application := app.NewApp(cfg)
	if err := application.Run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	var argErr *config.ArgumentError
	if errors.As(err, &argErr) {
		fmt.Fprintln(os.Stderr, argErr.Advisory)
		if argErr.Reason != "" {
			fmt.Fprintf(os.Stderr, "  (%s)\n", argErr.Reason)
		}
		printFlags()
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printFlags() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  --atrociousness <n>   AI weakness, 4-60 (default: 10)")
	fmt.Fprintln(os.Stderr, "  --ai-name <name>      Player name that lets the AI play (default: AI)")
	fmt.Fprintln(os.Stderr, "  --tick <duration>     Tick interval (default: 33ms)")
	fmt.Fprintln(os.Stderr, "  --timeout-ticks <n>   Ticks to wait for a silent peer (default: 30)")
	fmt.Fprintln(os.Stderr, "  --mute                Disable sound")
	fmt.Fprintln(os.Stderr, "  --log-file <path>     Write a JSON log")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  spong host 0.0.0.0 5000 Felipe")
	fmt.Fprintln(os.Stderr, "  spong join 192.168.1.100 5000 Ana")
	fmt.Fprintln(os.Stderr, "  spong --atrociousness 20 join 192.168.1.100 5000 AI")
}

func showHostInfo(port int) {
	fmt.Printf("Hosting spong on port %d\n", port)
	fmt.Println("The other player can join using:")
	fmt.Println("")

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		fmt.Printf("  spong join localhost %d <name>\n", port)
		return
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip := ipNet.IP
		if ip.IsLoopback() || ip.To4() == nil {
			continue
		}

		fmt.Printf("  spong join %s %d <name>\n", ip.String(), port)
	}

	fmt.Printf("  spong join localhost %d <name>  (same machine)\n", port)
	fmt.Println("")
}
