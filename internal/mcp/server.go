// Package mcp exposes the running window's controls as MCP tools over
// stdio. Every tool forwards to the control socket of a running
// "vidwin run".
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/vidwin/internal/ipc"
)

const (
	ServerName    = "vidwin"
	ServerVersion = "0.1.0"
)

// Controller is the control-socket surface the tools call. *ipc.Client
// implements it.
type Controller interface {
	GetStatus() (*ipc.StatusData, error)
	ToggleFullscreen() (*ipc.StatusData, error)
	ToggleBorder() (*ipc.StatusData, error)
	ToggleOnTop() (*ipc.StatusData, error)
	GetScreenInfo() (*ipc.StatusData, error)
}

// Server is the MCP server for window control.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to ctl. A nil ctl uses
// the default control socket.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if ctl == nil {
		ctl = ipc.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{ctl: ctl, logger: logger}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_fullscreen",
		Description: "Toggle the video window between windowed and fullscreen. Returns the window state after the switch.",
	}, s.handleToggleFullscreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_border",
		Description: "Show or hide the window border and title bar. Has no visible effect while fullscreen.",
	}, s.handleToggleBorder)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_ontop",
		Description: "Toggle whether the window stays above other windows.",
	}, s.handleToggleOnTop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_screen_info",
		Description: "Re-resolve and return the screen the window is presented on (origin, size, color depth).",
	}, s.handleGetScreenInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_state",
		Description: "Return the current window geometry and presentation flags without changing anything.",
	}, s.handleGetWindowState)
}
