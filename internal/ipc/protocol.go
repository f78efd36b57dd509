package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/vidwin/internal/control"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandToggleFullscreen CommandType = "TOGGLE_FULLSCREEN"
	CommandToggleBorder     CommandType = "TOGGLE_BORDER"
	CommandToggleOnTop      CommandType = "TOGGLE_ONTOP"
	CommandGetScreenInfo    CommandType = "GET_SCREEN_INFO"
)

// controlCommands maps wire commands to window commands.
var controlCommands = map[CommandType]control.Command{
	CommandGetStatus:        control.CmdStatus,
	CommandToggleFullscreen: control.CmdFullscreen,
	CommandToggleBorder:     control.CmdBorder,
	CommandToggleOnTop:      control.CmdOnTop,
	CommandGetScreenInfo:    control.CmdScreenInfo,
}

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType `json:"command"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ScreenData is the resolved output screen.
type ScreenData struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// StatusData is returned by every command: the window state after the
// command ran.
type StatusData struct {
	X             int        `json:"x"`
	Y             int        `json:"y"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Fullscreen    bool       `json:"fullscreen"`
	Bordered      bool       `json:"bordered"`
	OnTop         bool       `json:"ontop"`
	ModeSwitching bool       `json:"mode_switching"`
	Screen        ScreenData `json:"screen"`
	UptimeSeconds int64      `json:"uptime_seconds"`
}

// StatusFromResult converts a control result to its wire form.
func StatusFromResult(res control.Result) StatusData {
	st := res.State
	return StatusData{
		X:             st.X,
		Y:             st.Y,
		Width:         st.Width,
		Height:        st.Height,
		Fullscreen:    st.Fullscreen,
		Bordered:      st.Bordered,
		OnTop:         st.OnTop,
		ModeSwitching: st.ModeSwitching,
		Screen: ScreenData{
			X:      res.Screen.X,
			Y:      res.Screen.Y,
			Width:  res.Screen.Width,
			Height: res.Screen.Height,
			Depth:  res.Screen.Depth,
		},
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
