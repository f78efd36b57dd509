package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/vidwin/internal/ipc"
	"github.com/1broseidon/vidwin/internal/mcp"
)

type mcpOptions struct {
	path   string
	socket string
}

// parseMCPServe reads the flags of 'vidwin mcp serve'. flag.ErrHelp is
// returned as is.
func parseMCPServe(args []string, stderr io.Writer) (mcpOptions, error) {
	var o mcpOptions
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.path, "path", "", "Config file path (default: ~/.config/vidwin/config.yaml)")
	fs.StringVar(&o.socket, "socket", "", "Control socket of the window (default: runtime dir)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: vidwin mcp serve [--path PATH] [--socket SOCKET]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Serve window tools over MCP on stdin/stdout. Each tool call is")
		fmt.Fprintln(stderr, "forwarded to a running 'vidwin run' through its control socket,")
		fmt.Fprintln(stderr, "so start the window first with control_socket enabled.")
		fmt.Fprintln(stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return o, nil
}

func runMCP(args []string) int {
	if len(args) == 0 || args[0] != "serve" {
		if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: vidwin mcp serve [--path PATH] [--socket SOCKET]")
			return 0
		}
		fmt.Fprintln(os.Stderr, "Usage: vidwin mcp serve [--path PATH] [--socket SOCKET]")
		return 2
	}

	opts, err := parseMCPServe(args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mcp serve: %v\n", err)
		return 2
	}

	res, err := loadConfig(opts.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	// Logs go to stderr; stdout carries the protocol.
	logger := newLogger(res.Config)

	var ctl mcp.Controller
	if opts.socket != "" {
		ctl = ipc.NewClientAt(opts.socket)
	}
	server := mcp.NewServer(ctl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("mcp server starting", "socket", opts.socket)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "MCP server stopped: %v\n", err)
		return 1
	}
	return 0
}
