package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/vidwin/internal/ipc"
)

type fakeController struct {
	st    ipc.StatusData
	calls []string
	err   error
}

func (f *fakeController) record(name string) (*ipc.StatusData, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	st := f.st
	return &st, nil
}

func (f *fakeController) GetStatus() (*ipc.StatusData, error) { return f.record("status") }

func (f *fakeController) ToggleFullscreen() (*ipc.StatusData, error) {
	f.st.Fullscreen = !f.st.Fullscreen
	return f.record("fullscreen")
}

func (f *fakeController) ToggleBorder() (*ipc.StatusData, error) {
	f.st.Bordered = !f.st.Bordered
	return f.record("border")
}

func (f *fakeController) ToggleOnTop() (*ipc.StatusData, error) {
	f.st.OnTop = !f.st.OnTop
	return f.record("ontop")
}

func (f *fakeController) GetScreenInfo() (*ipc.StatusData, error) { return f.record("screen") }

func connect(t *testing.T, ctl Controller) *mcpsdk.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	s := NewServer(ctl, nil)
	serverT, clientT := mcpsdk.NewInMemoryTransports()
	ss, err := s.mcpServer.Connect(ctx, serverT, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *mcpsdk.ClientSession, name string) (*mcpsdk.CallToolResult, WindowStateOutput) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	var out WindowStateOutput
	if !res.IsError {
		if len(res.Content) == 0 {
			t.Fatalf("%s: no content", name)
		}
		text, ok := res.Content[0].(*mcpsdk.TextContent)
		if !ok {
			t.Fatalf("%s: content is %T", name, res.Content[0])
		}
		if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
			t.Fatalf("%s: decode %q: %v", name, text.Text, err)
		}
	}
	return res, out
}

func TestToolsAreRegistered(t *testing.T) {
	cs := connect(t, &fakeController{})
	list, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{"get_screen_info", "get_window_state", "toggle_border", "toggle_fullscreen", "toggle_ontop"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("tools (-want +got):\n%s", diff)
	}
}

func TestToolsForwardToController(t *testing.T) {
	ctl := &fakeController{st: ipc.StatusData{
		X: 10, Y: 20, Width: 640, Height: 360, Bordered: true,
		Screen: ipc.ScreenData{Width: 1920, Height: 1080, Depth: 24},
	}}
	cs := connect(t, ctl)

	_, out := callTool(t, cs, "toggle_fullscreen")
	if !out.Fullscreen {
		t.Fatalf("fullscreen not reported: %+v", out)
	}
	_, out = callTool(t, cs, "toggle_border")
	if out.Bordered {
		t.Fatalf("border still reported: %+v", out)
	}
	_, out = callTool(t, cs, "toggle_ontop")
	if !out.OnTop {
		t.Fatalf("ontop not reported: %+v", out)
	}
	_, out = callTool(t, cs, "get_screen_info")
	if diff := cmp.Diff(ScreenOutput{Width: 1920, Height: 1080, Depth: 24}, out.Screen); diff != "" {
		t.Fatalf("screen (-want +got):\n%s", diff)
	}
	_, out = callTool(t, cs, "get_window_state")
	want := WindowStateOutput{
		X: 10, Y: 20, Width: 640, Height: 360,
		Fullscreen: true, OnTop: true,
		Screen: ScreenOutput{Width: 1920, Height: 1080, Depth: 24},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"fullscreen", "border", "ontop", "screen", "status"}, ctl.calls); diff != "" {
		t.Fatalf("calls (-want +got):\n%s", diff)
	}
}

func TestToolErrorIsReportedInResult(t *testing.T) {
	cs := connect(t, &fakeController{err: errors.New("failed to connect to vidwin: is vidwin running?")})
	res, _ := callTool(t, cs, "toggle_border")
	if !res.IsError {
		t.Fatalf("expected tool error result")
	}
}

func TestStateOutputNil(t *testing.T) {
	if diff := cmp.Diff(WindowStateOutput{}, stateOutput(nil)); diff != "" {
		t.Fatalf("nil status (-want +got):\n%s", diff)
	}
}
