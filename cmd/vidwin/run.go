package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/vidwin/internal/aspect"
	"github.com/1broseidon/vidwin/internal/config"
	"github.com/1broseidon/vidwin/internal/control"
	"github.com/1broseidon/vidwin/internal/hotkeys"
	"github.com/1broseidon/vidwin/internal/ipc"
	"github.com/1broseidon/vidwin/internal/keys"
	"github.com/1broseidon/vidwin/internal/platform"
	"github.com/1broseidon/vidwin/internal/window"
)

const frameInterval = 16 * time.Millisecond

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

func runWindow(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/vidwin/config.yaml)")
	fullscreen := fs.Bool("fullscreen", false, "Start fullscreen")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vidwin run [--path PATH] [--fullscreen]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the video window and run until it is closed.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keys in the window:")
		fmt.Fprintln(os.Stderr, "  f         Toggle fullscreen")
		fmt.Fprintln(os.Stderr, "  b         Toggle border")
		fmt.Fprintln(os.Stderr, "  t         Toggle stay-on-top")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	cfg := res.Config
	if *fullscreen {
		cfg.Fullscreen = true
	}
	logger := newLogger(cfg)

	opts, err := cfg.WindowOptions()
	if err != nil {
		log.Printf("Invalid window options: %v", err)
		return 1
	}

	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, logger)
	if err != nil {
		log.Printf("Failed to connect to display: %v", err)
		return 1
	}
	defer backend.Disconnect()

	var pressed keys.FIFO
	win := window.New(window.Config{
		Backend: backend,
		Options: &opts,
		Keys:    &pressed,
		Aspect:  aspect.NewTracker(cfg.AspectRatio()),
		Logger:  logger,
	})
	if err := win.Init(); err != nil {
		log.Printf("Failed to create window: %v", err)
		return 1
	}
	defer win.Shutdown()

	if err := win.Configure(win.CenteredRequest(cfg.Width, cfg.Height, cfg.ConfigureFlags())); err != nil {
		log.Printf("Failed to configure window: %v", err)
		return 1
	}
	st := win.State()
	logger.Info("window ready", "width", st.Width, "height", st.Height,
		"screen", fmt.Sprintf("%dx%d", st.Screen.Width, st.Screen.Height), "fullscreen", st.Fullscreen)

	queue := control.NewQueue(16)

	if cfg.ControlSocket {
		server, err := ipc.NewServer(queue)
		if err != nil {
			log.Printf("Failed to create IPC server: %v", err)
			return 1
		}
		if err := server.Start(); err != nil {
			if errors.Is(err, ipc.ErrAlreadyRunning) {
				log.Printf("%v; continuing without control socket", err)
			} else {
				log.Printf("Failed to start IPC server: %v", err)
				return 1
			}
		} else {
			defer server.Stop()
		}
	}

	bindings := hotkeys.Bindings{
		Fullscreen: cfg.Hotkeys.Fullscreen,
		Border:     cfg.Hotkeys.Border,
		OnTop:      cfg.Hotkeys.OnTop,
	}
	if bindings != (hotkeys.Bindings{}) {
		handler, err := hotkeys.NewHandler(backend, logger)
		if err != nil {
			log.Printf("Warning: global hotkeys unavailable: %v", err)
		} else {
			defer handler.Close()
			if err := handler.Register(bindings, queue); err != nil {
				log.Printf("Warning: %v", err)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop(ctx, win, backend, &pressed, queue, logger)
	logger.Info("shutting down")
	return 0
}

// loop runs the poll thread until the window is closed or ctx is done.
func loop(ctx context.Context, win *window.Window, backend *platform.LinuxBackend, pressed *keys.FIFO, queue *control.Queue, logger *slog.Logger) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		flags := win.PollEvents()
		if flags.Has(window.EventResize) || flags.Has(window.EventMove) {
			st := win.State()
			logger.Debug("geometry changed", "x", st.X, "y", st.Y, "width", st.Width, "height", st.Height)
		}

		for _, k := range pressed.Drain() {
			if !handleKey(win, k, logger) {
				return
			}
		}
		queue.Drain(win)

		if flags.Has(window.EventExpose) {
			backend.Clear(win.Handle())
		}
		backend.Flush()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// handleKey applies the built-in window bindings. It returns false when
// the key asks to quit.
func handleKey(win *window.Window, k keys.Code, logger *slog.Logger) bool {
	var cmd control.Command
	switch k {
	case 'q', keys.KeyEsc, keys.KeyCloseWin:
		return false
	case 'f':
		cmd = control.CmdFullscreen
	case 'b':
		cmd = control.CmdBorder
	case 't':
		cmd = control.CmdOnTop
	default:
		logger.Debug("key", "code", k.String())
		return true
	}
	if _, err := control.Execute(win, cmd); err != nil {
		logger.Warn("command failed", "command", cmd, "error", err)
	}
	return true
}
