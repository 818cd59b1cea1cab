package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

type mode int

const (
	modeBrowse mode = iota
	modeRename
	modeAdd
)

type statusMsg struct {
	status *ipc.StatusData
	err    error
}

type tickMsg time.Time

// model is the root bubbletea model for the pager.
type model struct {
	backend Backend
	refresh time.Duration

	keys keyMap
	help help.Model

	status    *ipc.StatusData
	lastError string

	mode     mode
	rename   textinput.Model
	renaming uint
	add      *addForm

	width  int
	height int
}

func newModel(backend Backend, refresh time.Duration) model {
	ti := textinput.New()
	ti.Placeholder = "desktop name"
	ti.CharLimit = 64

	m := model{
		backend: backend,
		refresh: refresh,
		keys:    defaultKeyMap(),
		help:    help.New(),
		rename:  ti,
	}
	m.refreshNow()
	return m
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) fetchStatus() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		status, err := backend.GetStatus()
		return statusMsg{status: status, err: err}
	}
}

// refreshNow reloads the daemon status synchronously after a mutation.
func (m *model) refreshNow() {
	status, err := m.backend.GetStatus()
	m.applyStatus(status, err)
}

func (m *model) applyStatus(status *ipc.StatusData, err error) {
	if err != nil {
		m.status = nil
		m.lastError = err.Error()
		return
	}
	m.status = status
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick(m.refresh)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.mode != modeAdd {
			return m, nil
		}
	case tickMsg:
		return m, tea.Batch(m.fetchStatus(), tick(m.refresh))
	case statusMsg:
		m.applyStatus(msg.status, msg.err)
		return m, nil
	}

	switch m.mode {
	case modeRename:
		return m.updateRename(msg)
	case modeAdd:
		return m.updateAdd(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(km)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.status == nil {
		return m, nil
	}
	m.lastError = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(desktop.Up)
	case key.Matches(msg, m.keys.Down):
		m.move(desktop.Down)
	case key.Matches(msg, m.keys.Left):
		m.move(desktop.Left)
	case key.Matches(msg, m.keys.Right):
		m.move(desktop.Right)
	case key.Matches(msg, m.keys.Next):
		m.move(desktop.Next)
	case key.Matches(msg, m.keys.Previous):
		m.move(desktop.Previous)
	case key.Matches(msg, m.keys.Switch):
		n, err := strconv.Atoi(msg.String())
		if err != nil {
			return m, nil
		}
		m.switchTo(uint(n))
	case key.Matches(msg, m.keys.Wrap):
		m.do(m.backend.SetWrap(!m.status.WrapAround))
	case key.Matches(msg, m.keys.More):
		if m.status.Count >= desktop.Maximum {
			m.lastError = fmt.Sprintf("at most %d desktops", desktop.Maximum)
			return m, nil
		}
		_, err := m.backend.SetCount(m.status.Count + 1)
		m.do(err)
	case key.Matches(msg, m.keys.Fewer):
		if m.status.Count <= 1 {
			return m, nil
		}
		_, err := m.backend.SetCount(m.status.Count - 1)
		m.do(err)
	case key.Matches(msg, m.keys.Rename):
		return m, m.startRename()
	case key.Matches(msg, m.keys.Add):
		return m, m.startAdd()
	}
	return m, nil
}

// do records a failed mutation, then refreshes the status.
func (m *model) do(err error) {
	if err != nil {
		m.lastError = err.Error()
	}
	m.refreshNow()
}

func (m *model) move(direction desktop.Direction) {
	_, err := m.backend.Move(direction)
	m.do(err)
}

func (m *model) switchTo(n uint) {
	if n > m.status.Count {
		m.lastError = fmt.Sprintf("desktop %d does not exist", n)
		return
	}
	_, err := m.backend.SetCurrent(n)
	m.do(err)
}

func (m *model) startRename() tea.Cmd {
	m.mode = modeRename
	m.renaming = m.status.Current
	m.rename.SetValue(m.status.DesktopName(m.renaming))
	m.rename.CursorEnd()
	return m.rename.Focus()
}

func (m *model) endRename() {
	m.mode = modeBrowse
	m.renaming = 0
	m.rename.Blur()
	m.rename.Reset()
}

func (m model) updateRename(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.endRename()
			return m, nil
		case tea.KeyEnter:
			// An empty name reverts the desktop to its default name.
			name := strings.TrimSpace(m.rename.Value())
			n := m.renaming
			m.endRename()
			m.do(m.backend.Rename(n, name))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *model) startAdd() tea.Cmd {
	m.mode = modeAdd
	m.add = newAddForm(m.status.Count, m.width-4)
	return m.add.form.Init()
}

func (m model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.mode = modeBrowse
			m.add = nil
			return m, nil
		}
	}

	form, cmd := m.add.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.add.form = f
	}

	switch m.add.form.State {
	case huh.StateCompleted:
		m.finishAdd()
		return m, nil
	case huh.StateAborted:
		m.mode = modeBrowse
		m.add = nil
		return m, nil
	}
	return m, cmd
}

func (m *model) finishAdd() {
	values := m.add
	m.mode = modeBrowse
	m.add = nil

	position, err := parsePosition(values.position, m.status.Count)
	if err != nil {
		m.lastError = err.Error()
		return
	}
	_, err = m.backend.CreateDesktop(position, strings.TrimSpace(values.name))
	m.do(err)
}
