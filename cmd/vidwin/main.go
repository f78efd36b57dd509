package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/vidwin/internal/config"
	"github.com/1broseidon/vidwin/internal/ipc"
	"github.com/1broseidon/vidwin/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runWindow(os.Args[2:]))
	case "status":
		os.Exit(runControl("status", os.Args[2:]))
	case "fullscreen":
		os.Exit(runControl("fullscreen", os.Args[2:]))
	case "border":
		os.Exit(runControl("border", os.Args[2:]))
	case "ontop":
		os.Exit(runControl("ontop", os.Args[2:]))
	case "screen":
		os.Exit(runControl("screen", os.Args[2:]))
	case "modes":
		os.Exit(runModes(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vidwin <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the video window (foreground)")
	fmt.Fprintln(w, "  status              Show the running window's state")
	fmt.Fprintln(w, "  fullscreen          Toggle fullscreen on the running window")
	fmt.Fprintln(w, "  border              Toggle the window border")
	fmt.Fprintln(w, "  ontop               Toggle stay-on-top")
	fmt.Fprintln(w, "  screen              Re-resolve and show the output screen")
	fmt.Fprintln(w, "  modes               List display modes")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive settings editor")
	fmt.Fprintln(w, "  mcp serve           Serve window tools over MCP (stdio)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'vidwin <command> --help' for command-specific options.")
}

// wantJSON reports whether machine output was requested or stdout is not a
// terminal.
func wantJSON(flagged bool) bool {
	return flagged || !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

var controlHelp = map[string]string{
	"status":     "Show the running window's geometry and flags via IPC.",
	"fullscreen": "Toggle fullscreen on the running window.",
	"border":     "Toggle the window border. No effect while fullscreen.",
	"ontop":      "Toggle stay-on-top.",
	"screen":     "Re-resolve the output screen and show it.",
}

func runControl(name string, args []string) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vidwin %s [--json]\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, controlHelp[name])
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	var (
		st  *ipc.StatusData
		err error
	)
	switch name {
	case "fullscreen":
		st, err = client.ToggleFullscreen()
	case "border":
		st, err = client.ToggleBorder()
	case "ontop":
		st, err = client.ToggleOnTop()
	case "screen":
		st, err = client.GetScreenInfo()
	default:
		st, err = client.GetStatus()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if wantJSON(*asJSON) {
		if name == "screen" {
			return printJSON(st.Screen)
		}
		return printJSON(st)
	}
	if name == "screen" {
		printScreen(st.Screen)
		return 0
	}
	printStatus(st)
	return 0
}

func printStatus(st *ipc.StatusData) {
	fmt.Printf("position:       %d,%d\n", st.X, st.Y)
	fmt.Printf("size:           %dx%d\n", st.Width, st.Height)
	fmt.Printf("fullscreen:     %v\n", st.Fullscreen)
	fmt.Printf("bordered:       %v\n", st.Bordered)
	fmt.Printf("ontop:          %v\n", st.OnTop)
	fmt.Printf("mode_switching: %v\n", st.ModeSwitching)
	printScreen(st.Screen)
	fmt.Printf("uptime_seconds: %d\n", st.UptimeSeconds)
}

func printScreen(s ipc.ScreenData) {
	fmt.Printf("screen:         %dx%d+%d+%d\n", s.Width, s.Height, s.X, s.Y)
	fmt.Printf("depth:          %d\n", s.Depth)
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  vidwin config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  vidwin config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  vidwin config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/vidwin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/vidwin/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		_ = fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/vidwin/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			fmt.Fprintf(os.Stderr, "known paths: %v\n", config.Paths())
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/vidwin/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: vidwin tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Edit window, display and hotkey settings and drive a running window.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1-4, Tab  Switch tabs")
		fmt.Fprintln(os.Stderr, "  e         Edit the current tab's settings")
		fmt.Fprintln(os.Stderr, "  Ctrl+S    Review and save changes")
		fmt.Fprintln(os.Stderr, "  f/b/t/s   Live tab: toggle fullscreen, border, on-top; query screen")
		fmt.Fprintln(os.Stderr, "  q         Quit")
		return 0
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
