// Package control marshals commands from other goroutines (IPC, hotkeys)
// onto the thread that polls the window, which is the only thread allowed
// to touch it.
package control

import (
	"context"
	"errors"
	"fmt"

	"github.com/1broseidon/vidwin/internal/screen"
	"github.com/1broseidon/vidwin/internal/window"
)

// Command names one window operation.
type Command string

const (
	CmdFullscreen Command = "fullscreen"
	CmdBorder     Command = "border"
	CmdOnTop      Command = "ontop"
	CmdScreenInfo Command = "screen_info"
	CmdStatus     Command = "status"
)

// ParseCommand validates a command name.
func ParseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case CmdFullscreen, CmdBorder, CmdOnTop, CmdScreenInfo, CmdStatus:
		return c, nil
	}
	return "", fmt.Errorf("unknown command %q", s)
}

// ErrQueueFull is returned when the poll thread is not keeping up.
var ErrQueueFull = errors.New("control queue full")

// Target is the window surface commands operate on.
type Target interface {
	ToggleFullscreen() error
	ToggleBorder() error
	ToggleOnTop() error
	QueryScreenInfo() screen.Info
	State() window.State
}

// Result is the window state after a command ran.
type Result struct {
	State  window.State
	Screen screen.Info
}

type request struct {
	cmd   Command
	reply chan response
}

type response struct {
	result Result
	err    error
}

// Queue is a bounded multi-producer queue drained by the poll thread.
type Queue struct {
	ch chan request
}

// NewQueue returns a queue holding up to size pending commands.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{ch: make(chan request, size)}
}

// Submit enqueues cmd and waits for the poll thread to run it.
func (q *Queue) Submit(ctx context.Context, cmd Command) (Result, error) {
	req := request{cmd: cmd, reply: make(chan response, 1)}
	select {
	case q.ch <- req:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		return resp.result, resp.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Enqueue adds cmd without waiting for it to run.
func (q *Queue) Enqueue(cmd Command) error {
	select {
	case q.ch <- request{cmd: cmd}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Drain runs every pending command against t and returns how many ran. It
// never blocks.
func (q *Queue) Drain(t Target) int {
	n := 0
	for {
		select {
		case req := <-q.ch:
			res, err := Execute(t, req.cmd)
			if req.reply != nil {
				req.reply <- response{result: res, err: err}
			}
			n++
		default:
			return n
		}
	}
}

// Execute runs one command against t.
func Execute(t Target, cmd Command) (Result, error) {
	var err error
	switch cmd {
	case CmdFullscreen:
		err = t.ToggleFullscreen()
	case CmdBorder:
		err = t.ToggleBorder()
	case CmdOnTop:
		err = t.ToggleOnTop()
	case CmdScreenInfo:
		info := t.QueryScreenInfo()
		return Result{State: t.State(), Screen: info}, nil
	case CmdStatus:
	default:
		return Result{}, fmt.Errorf("unknown command %q", cmd)
	}
	st := t.State()
	return Result{State: st, Screen: st.Screen}, err
}
