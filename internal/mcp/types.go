package mcp

import "github.com/1broseidon/vidwin/internal/ipc"

// NoInput is the input for tools that take no arguments.
type NoInput struct{}

// ScreenOutput describes the presentation screen.
type ScreenOutput struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
	Depth  int `json:"depth"`
}

// WindowStateOutput is returned by every tool.
type WindowStateOutput struct {
	X             int          `json:"x"`
	Y             int          `json:"y"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	Fullscreen    bool         `json:"fullscreen"`
	Bordered      bool         `json:"bordered"`
	OnTop         bool         `json:"ontop"`
	ModeSwitching bool         `json:"mode_switching"`
	Screen        ScreenOutput `json:"screen"`
}

func stateOutput(st *ipc.StatusData) WindowStateOutput {
	if st == nil {
		return WindowStateOutput{}
	}
	return WindowStateOutput{
		X:             st.X,
		Y:             st.Y,
		Width:         st.Width,
		Height:        st.Height,
		Fullscreen:    st.Fullscreen,
		Bordered:      st.Bordered,
		OnTop:         st.OnTop,
		ModeSwitching: st.ModeSwitching,
		Screen: ScreenOutput{
			X:      st.Screen.X,
			Y:      st.Screen.Y,
			Width:  st.Screen.Width,
			Height: st.Screen.Height,
			Depth:  st.Screen.Depth,
		},
	}
}
