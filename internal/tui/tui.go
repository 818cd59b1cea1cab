// Package tui implements the interactive desktop pager.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

// Backend is the daemon surface the pager drives.
type Backend interface {
	GetStatus() (*ipc.StatusData, error)
	SetCurrent(n uint) (*ipc.SwitchData, error)
	Move(direction desktop.Direction) (*ipc.SwitchData, error)
	SetCount(n uint) (uint, error)
	Rename(n uint, name string) error
	SetWrap(enabled bool) error
	CreateDesktop(position uint, name string) (*desktop.Info, error)
}

var _ Backend = (*ipc.Client)(nil)

// DefaultRefresh is how often the pager polls the daemon.
const DefaultRefresh = time.Second

// Run starts the pager on the current terminal.
func Run(backend Backend, refresh time.Duration) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("pager requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	p := tea.NewProgram(newModel(backend, refresh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
