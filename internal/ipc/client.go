package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/vidwin/internal/runtimepath"
)

// Client talks to the control socket of a running window.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient returns a client for the default socket.
func NewClient() *Client {
	// An unresolvable path surfaces as a dial error on first use.
	socketPath, _ := runtimepath.SocketPath()
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for an explicit socket path.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// roundTrip sends one request line and decodes the reply line. An ERROR
// reply becomes a Go error.
func (c *Client) roundTrip(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vidwin: %w (is 'vidwin run' active?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	// Encode terminates the line with '\n'.
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	var resp Response
	if err := json.NewDecoder(bufio.NewReader(conn)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("vidwin error: %s", resp.Error)
	}
	return &resp, nil
}

func (c *Client) status(cmd CommandType) (*StatusData, error) {
	resp, err := c.roundTrip(&Request{Command: cmd})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// GetStatus retrieves the window state.
func (c *Client) GetStatus() (*StatusData, error) {
	return c.status(CommandGetStatus)
}

// ToggleFullscreen switches between fullscreen and windowed.
func (c *Client) ToggleFullscreen() (*StatusData, error) {
	return c.status(CommandToggleFullscreen)
}

// ToggleBorder shows or hides the window frame.
func (c *Client) ToggleBorder() (*StatusData, error) {
	return c.status(CommandToggleBorder)
}

// ToggleOnTop switches the always-on-top layer.
func (c *Client) ToggleOnTop() (*StatusData, error) {
	return c.status(CommandToggleOnTop)
}

// GetScreenInfo re-resolves the output screen and returns the state.
func (c *Client) GetScreenInfo() (*StatusData, error) {
	return c.status(CommandGetScreenInfo)
}

// Ping reports whether a window answers on the socket.
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
