package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/marcocampos/crummy-http/internal/server"
)

const defaultPort = 7890

var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("crummy-http", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage of crummy-http: crummy-http [flags] [port]\n")
		flags.PrintDefaults()
	}

	var (
		directory = flags.String("root", server.DefaultRoot, "Directory to serve files from")
		logLevel  = flags.String("log-level", "info", "Log level (debug, info, warn, error)")
		dump      = flags.Bool("dump", false, "Print a hex dump of every request line")
	)

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	port, err := parsePort(flags.Args())
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	logger := setupLogger(*logLevel, stdout)
	if port == 0 {
		logger.Warn("port is zero, the system will pick an ephemeral port")
	}

	color.New(color.FgGreen, color.Bold).Fprintf(stdout, "Listening on port %d...\n\n", port)

	srv := server.NewHTTPServer(fmt.Sprintf(":%d", port), *directory, logger)
	if *dump {
		srv.Dump = stdout
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		color.New(color.FgRed).Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// parsePort reads the optional positional port. A missing argument selects
// defaultPort and a non-numeric one becomes 0, letting the system pick a
// port.
func parsePort(args []string) (int, error) {
	if len(args) == 0 {
		return defaultPort, nil
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("expected at most one port argument, got %d", len(args))
	}

	port, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil
	}
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range", port)
	}
	return port, nil
}

func setupLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
