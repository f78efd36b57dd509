// Package runtimepath locates the per-user runtime files of a running
// window: its control socket and the lock that makes it the only owner.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// EnvDir overrides the runtime directory, mainly so several windows can run
// side by side with separate sockets.
const EnvDir = "VIDWIN_RUNTIME_DIR"

const (
	socketName = "vidwin.sock"
	lockName   = "vidwin.lock"
)

// Dir returns the first usable runtime directory: $VIDWIN_RUNTIME_DIR,
// $XDG_RUNTIME_DIR, /run/user/<uid>, or a private /tmp directory which is
// created on demand.
func Dir() (string, error) {
	for _, env := range []string{EnvDir, "XDG_RUNTIME_DIR"} {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}

	uid := strconv.Itoa(os.Getuid())
	if dir := filepath.Join("/run/user", uid); isDir(dir) {
		return dir, nil
	}

	dir := filepath.Join(os.TempDir(), "vidwin-runtime-"+uid)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the control socket path.
func SocketPath() (string, error) { return inDir(socketName) }

// LockPath returns the lock file guarding the control socket, so a second
// instance never unlinks the socket of a live one.
func LockPath() (string, error) { return inDir(lockName) }

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
