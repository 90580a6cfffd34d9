package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/termspong/spong/internal/control"
	"github.com/termspong/spong/internal/protocol"
	"github.com/termspong/spong/internal/session"
)

// Default values for configuration
const (
	DefaultAIName    = "AI"
	DefaultWebListen = ":8080"
)

// Advisory messages shown for malformed arguments
const (
	UsageGame   = "Usage: spong [flags] host/join ip port player_name"
	UsageRemote = "Usage: spongctl [flags] ip port player_name"
	UsageWeb    = "Usage: spongweb [flags] ip port"
)

// ArgumentError is a malformed launch argument or an undersized display.
// Error returns the fixed advisory; Reason says what was wrong.
type ArgumentError struct {
	Advisory string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return e.Advisory
}

// Config holds the game launcher configuration
type Config struct {
	IsHost        bool
	Host          string
	Port          int
	PlayerName    string
	AIName        string
	Atrociousness int
	Tick          time.Duration
	TimeoutTicks  int
	Mute          bool
	LogFile       string
}

// Addr returns host:port for listening or dialing
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout is the bound on every peer read and write
func (c *Config) Timeout() time.Duration {
	return c.Tick * time.Duration(c.TimeoutTicks)
}

// IsAI reports whether the local paddle is driven by the heuristic
func (c *Config) IsAI() bool {
	return c.AIName != "" && c.PlayerName == c.AIName
}

// ParseArgs parses `[flags] host|join ip port name`
func ParseArgs(args []string) (*Config, error) {
	fs := newFlagSet("spong")

	atrocious := fs.Int("atrociousness", control.DefaultAtrociousness, "AI atrociousness (4-60, lower plays better)")
	tick := fs.Duration("tick", session.DefaultTick, "tick interval")
	timeoutTicks := fs.Int("timeout-ticks", session.DefaultTimeoutTicks, "ticks to wait on a silent peer")
	aiName := fs.String("ai-name", DefaultAIName, "player name that hands the paddle to the AI")
	mute := fs.Bool("mute", false, "disable sound")
	logFile := fs.String("log-file", "", "write logs to this file")

	if err := fs.Parse(args); err != nil {
		return nil, usageError(UsageGame, err.Error())
	}

	pos := fs.Args()
	if len(pos) != 4 {
		return nil, usageError(UsageGame, fmt.Sprintf("expected 4 arguments, got %d", len(pos)))
	}

	mode := strings.ToLower(pos[0])
	if mode != "host" && mode != "join" {
		return nil, usageError(UsageGame, fmt.Sprintf("unknown mode %q", pos[0]))
	}

	// A host may bind port 0 and let the system pick
	minPort := 1
	if mode == "host" {
		minPort = 0
	}
	port, err := parsePort(pos[2], minPort)
	if err != nil {
		return nil, usageError(UsageGame, err.Error())
	}

	if *tick <= 0 {
		return nil, usageError(UsageGame, fmt.Sprintf("tick must be positive, got %v", *tick))
	}
	if *timeoutTicks < 1 {
		return nil, usageError(UsageGame, fmt.Sprintf("timeout-ticks must be at least 1, got %d", *timeoutTicks))
	}

	cfg := &Config{
		IsHost:        mode == "host",
		Host:          pos[1],
		Port:          port,
		PlayerName:    protocol.Truncate(pos[3]),
		AIName:        *aiName,
		Atrociousness: control.ClampAtrociousness(*atrocious),
		Tick:          *tick,
		TimeoutTicks:  *timeoutTicks,
		Mute:          *mute,
		LogFile:       *logFile,
	}

	return cfg, nil
}

// CheckScreen returns an ArgumentError when the display is too small
func CheckScreen(width, height, minWidth, minHeight int, advisory string) error {
	if width < minWidth || height < minHeight {
		return &ArgumentError{
			Advisory: advisory,
			Reason:   fmt.Sprintf("screen is %dx%d", width, height),
		}
	}
	return nil
}

// RemoteConfig holds the terminal remote controller configuration
type RemoteConfig struct {
	Host    string
	Port    int
	Name    string
	LogFile string
}

// Addr returns host:port of the game host
func (c *RemoteConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseRemoteArgs parses `[flags] ip port name`
func ParseRemoteArgs(args []string) (*RemoteConfig, error) {
	fs := newFlagSet("spongctl")
	logFile := fs.String("log-file", "", "write logs to this file")

	if err := fs.Parse(args); err != nil {
		return nil, usageError(UsageRemote, err.Error())
	}

	pos := fs.Args()
	if len(pos) != 3 {
		return nil, usageError(UsageRemote, fmt.Sprintf("expected 3 arguments, got %d", len(pos)))
	}
	port, err := parsePort(pos[1], 1)
	if err != nil {
		return nil, usageError(UsageRemote, err.Error())
	}

	return &RemoteConfig{
		Host:    pos[0],
		Port:    port,
		Name:    protocol.Truncate(pos[2]),
		LogFile: *logFile,
	}, nil
}

// WebConfig holds the browser remote bridge configuration
type WebConfig struct {
	Listen  string
	Host    string
	Port    int
	LogFile string
}

// Addr returns host:port of the game host
func (c *WebConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ParseWebArgs parses `[flags] ip port`
func ParseWebArgs(args []string) (*WebConfig, error) {
	fs := newFlagSet("spongweb")
	listen := fs.String("listen", DefaultWebListen, "HTTP address for the control page")
	logFile := fs.String("log-file", "", "write logs to this file")

	if err := fs.Parse(args); err != nil {
		return nil, usageError(UsageWeb, err.Error())
	}

	pos := fs.Args()
	if len(pos) != 2 {
		return nil, usageError(UsageWeb, fmt.Sprintf("expected 2 arguments, got %d", len(pos)))
	}
	port, err := parsePort(pos[1], 1)
	if err != nil {
		return nil, usageError(UsageWeb, err.Error())
	}

	return &WebConfig{
		Listen:  *listen,
		Host:    pos[0],
		Port:    port,
		LogFile: *logFile,
	}, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parsePort(s string, minPort int) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("port must be numeric, got %q", s)
		}
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("port must be numeric, got %q", s)
	}
	// Validate port range
	if port < minPort || port > 65535 {
		return 0, fmt.Errorf("port must be between %d and 65535, got %d", minPort, port)
	}
	return port, nil
}

func usageError(advisory, reason string) error {
	return &ArgumentError{Advisory: advisory, Reason: reason}
}
