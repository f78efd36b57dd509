package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/1broseidon/vidwin/internal/control"
	"github.com/1broseidon/vidwin/internal/runtimepath"
)

// ErrAlreadyRunning is returned by Start when another instance holds the
// socket lock.
var ErrAlreadyRunning = errors.New("another vidwin instance owns the control socket")

// Submitter runs a window command on the poll thread.
type Submitter interface {
	Submit(ctx context.Context, cmd control.Command) (control.Result, error)
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	lockPath     string
	lockFile     *os.File
	listener     net.Listener
	submitter    Submitter
	timeout      time.Duration
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server on the default runtime socket.
func NewServer(submitter Submitter) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	lockPath, err := runtimepath.LockPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC lock path: %w", err)
	}
	return NewServerAt(socketPath, lockPath, submitter), nil
}

// NewServerAt creates a server on an explicit socket and lock path.
func NewServerAt(socketPath, lockPath string, submitter Submitter) *Server {
	return &Server{
		socketPath: socketPath,
		lockPath:   lockPath,
		submitter:  submitter,
		timeout:    5 * time.Second,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start takes the instance lock and begins listening for IPC connections
func (s *Server) Start() error {
	if err := s.lock(); err != nil {
		return err
	}

	// The lock is ours, so any existing socket is stale.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		s.unlock()
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		s.unlock()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

func (s *Server) lock() error {
	f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open IPC lock: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return ErrAlreadyRunning
		}
		return fmt.Errorf("failed to lock %s: %w", s.lockPath, err)
	}
	s.lockFile = f
	return nil
}

func (s *Server) unlock() {
	if s.lockFile == nil {
		return
	}
	_ = unix.Flock(int(s.lockFile.Fd()), unix.LOCK_UN)
	s.lockFile.Close()
	s.lockFile = nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	if err := checkPeer(conn); err != nil {
		log.Printf("IPC rejected peer: %v", err)
		s.sendError(conn, "permission denied")
		return
	}

	conn.SetDeadline(time.Now().Add(s.timeout))
	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand forwards a command to the poll thread and reports the
// window state afterwards.
func (s *Server) handleCommand(req *Request) *Response {
	cmd, ok := controlCommands[req.Command]
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.submitter.Submit(ctx, cmd)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("%s failed: %v", req.Command, err))
	}

	status := StatusFromResult(res)
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		os.Remove(s.socketPath)
	}
	s.unlock()
}
