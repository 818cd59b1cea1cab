package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/runtimepath"
)

// Controller is the daemon side of the IPC protocol. Implementations
// serialize access to the desktop manager.
type Controller interface {
	Status() StatusData
	SetCurrent(n uint) bool
	Move(direction desktop.Direction) bool
	SetCount(n uint) uint
	Rename(n uint, name string) error
	SetRows(rows uint) uint
	SetWrap(enabled bool)
	CreateDesktop(position uint, name string) (desktop.Info, error)
	RemoveDesktop(id string) error
	RemoveDesktopNumber(n uint) error
	Shortcuts() []ShortcutInfo
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server. An empty socketPath resolves to the
// default runtime socket.
func NewServer(socketPath string, ctrl Controller, logger *slog.Logger) (*Server, error) {
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves a single line-delimited JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.writeResponse(conn, s.handleCommand(req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return ok(s.ctrl.Status())
	case CommandSetCurrent:
		return s.handleSetCurrent(req.Payload)
	case CommandMove:
		return s.handleMove(req.Payload)
	case CommandSetCount:
		return s.handleSetCount(req.Payload)
	case CommandRename:
		return s.handleRename(req.Payload)
	case CommandSetRows:
		return s.handleSetRows(req.Payload)
	case CommandSetWrap:
		return s.handleSetWrap(req.Payload)
	case CommandCreateDesktop:
		return s.handleCreateDesktop(req.Payload)
	case CommandRemoveDesktop:
		return s.handleRemoveDesktop(req.Payload)
	case CommandListShortcuts:
		return ok(ShortcutsData{Shortcuts: s.ctrl.Shortcuts()})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")
	if err := s.ctrl.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleSetCurrent(payload json.RawMessage) *Response {
	var req SetCurrentPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set_current payload: %v", err))
	}
	if req.Desktop == 0 {
		return NewErrorResponse("desktop is required")
	}
	changed := s.ctrl.SetCurrent(req.Desktop)
	return ok(SwitchData{Changed: changed, Current: s.ctrl.Status().Current})
}

func (s *Server) handleMove(payload json.RawMessage) *Response {
	var req MovePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	dir, err := desktop.ParseDirection(req.Direction)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	changed := s.ctrl.Move(dir)
	return ok(SwitchData{Changed: changed, Current: s.ctrl.Status().Current})
}

func (s *Server) handleSetCount(payload json.RawMessage) *Response {
	var req SetCountPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set_count payload: %v", err))
	}
	return ok(CountData{Count: s.ctrl.SetCount(req.Count)})
}

func (s *Server) handleRename(payload json.RawMessage) *Response {
	var req RenamePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid rename payload: %v", err))
	}
	if err := s.ctrl.Rename(req.Desktop, req.Name); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleSetRows(payload json.RawMessage) *Response {
	var req SetRowsPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set_rows payload: %v", err))
	}
	return ok(RowsData{Rows: s.ctrl.SetRows(req.Rows)})
}

func (s *Server) handleSetWrap(payload json.RawMessage) *Response {
	var req SetWrapPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid set_wrap payload: %v", err))
	}
	s.ctrl.SetWrap(req.Enabled)
	return ok(nil)
}

func (s *Server) handleCreateDesktop(payload json.RawMessage) *Response {
	var req CreateDesktopPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid create_desktop payload: %v", err))
	}
	info, err := s.ctrl.CreateDesktop(req.Position, req.Name)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(info)
}

func (s *Server) handleRemoveDesktop(payload json.RawMessage) *Response {
	var req RemoveDesktopPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid remove_desktop payload: %v", err))
	}
	var err error
	switch {
	case req.ID != "":
		err = s.ctrl.RemoveDesktop(req.ID)
	case req.Desktop != 0:
		err = s.ctrl.RemoveDesktopNumber(req.Desktop)
	default:
		err = errors.New("id or desktop is required")
	}
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}

func decodePayload(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return errors.New("missing payload")
	}
	return json.Unmarshal(payload, v)
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}
