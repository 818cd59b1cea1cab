package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

const (
	ServerName    = "deskgrid"
	ServerVersion = "0.1.0"
)

// Backend is the daemon connection used by the tools. *ipc.Client
// implements it.
type Backend interface {
	GetStatus() (*ipc.StatusData, error)
	SetCurrent(n uint) (*ipc.SwitchData, error)
	Move(direction desktop.Direction) (*ipc.SwitchData, error)
	SetCount(n uint) (uint, error)
	Rename(n uint, name string) error
	SetRows(rows uint) (uint, error)
}

var _ Backend = (*ipc.Client)(nil)

// Server is the MCP server exposing desktop navigation to agents.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by the daemon.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_desktops",
		Description: "List the virtual desktops with their numbers, names and ids, the current desktop, and the navigation grid (rows of desktop numbers, 0 marks an empty cell).",
	}, s.handleListDesktops)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_desktop",
		Description: "Switch to a desktop by number (1-based). Returns whether the current desktop changed.",
	}, s.handleSwitchDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "navigate_desktop",
		Description: "Move to the neighbouring desktop. up/down/left/right follow the grid; next/previous follow desktop order. Wrapping follows the daemon's navigation_wraps_around setting.",
	}, s.handleNavigateDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_desktop_count",
		Description: "Set the number of desktops. Values are clamped to 1-20. Removing desktops moves the current desktop to the last remaining one when needed.",
	}, s.handleSetDesktopCount)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rename_desktop",
		Description: "Rename a desktop. An empty name restores the default \"Desktop N\" name.",
	}, s.handleRenameDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_rows",
		Description: "Set the number of rows of the desktop grid. Values of 0 or above the desktop count are ignored.",
	}, s.handleSetRows)
}
