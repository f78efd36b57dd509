package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/vidwin/internal/ipc"
)

func (s *Server) handleToggleFullscreen(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	return s.forward("toggle_fullscreen", s.ctl.ToggleFullscreen)
}

func (s *Server) handleToggleBorder(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	return s.forward("toggle_border", s.ctl.ToggleBorder)
}

func (s *Server) handleToggleOnTop(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	return s.forward("toggle_ontop", s.ctl.ToggleOnTop)
}

func (s *Server) handleGetScreenInfo(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	return s.forward("get_screen_info", s.ctl.GetScreenInfo)
}

func (s *Server) handleGetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	return s.forward("get_window_state", s.ctl.GetStatus)
}

func (s *Server) forward(tool string, call func() (*ipc.StatusData, error)) (*mcpsdk.CallToolResult, WindowStateOutput, error) {
	st, err := call()
	if err != nil {
		s.logger.Warn("tool failed", "tool", tool, "error", err)
		return nil, WindowStateOutput{}, fmt.Errorf("%s: %w", tool, err)
	}
	out := stateOutput(st)
	s.logger.Debug("tool called", "tool", tool,
		"fullscreen", out.Fullscreen, "bordered", out.Bordered, "ontop", out.OnTop)
	return nil, out, nil
}
