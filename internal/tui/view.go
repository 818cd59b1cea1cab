package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskgrid/internal/ipc"
)

const cellWidth = 14

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2).
			MarginBottom(1)

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Width(cellWidth).
			Align(lipgloss.Center)

	currentCellStyle = cellStyle.
				BorderForeground(lipgloss.Color("42")).
				Foreground(lipgloss.Color("42")).
				Bold(true)

	emptyCellStyle = cellStyle.
			BorderForeground(lipgloss.Color("236")).
			Foreground(lipgloss.Color("236"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1)
)

// View implements tea.Model.
func (m model) View() string {
	sections := []string{titleStyle.Render("deskgrid")}

	if m.status == nil {
		sections = append(sections, errorStyle.Render("daemon not reachable"))
		if m.lastError != "" {
			sections = append(sections, dimStyle.Render(m.lastError))
		}
		sections = append(sections, sectionStyle.Render(m.help.View(m.keys)))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, renderGrid(m.status), renderSummary(m.status))

	switch m.mode {
	case modeRename:
		prompt := fmt.Sprintf("Rename desktop %d: ", m.renaming)
		sections = append(sections, sectionStyle.Render(prompt+m.rename.View()))
	case modeAdd:
		sections = append(sections, sectionStyle.Render(m.add.form.View()))
	}

	if m.lastError != "" {
		sections = append(sections, errorStyle.Render(m.lastError))
	}
	if m.mode == modeBrowse {
		sections = append(sections, sectionStyle.Render(m.help.View(m.keys)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderGrid(s *ipc.StatusData) string {
	rows := make([]string, 0, len(s.Grid))
	for _, row := range s.Grid {
		cells := make([]string, 0, len(row))
		for _, n := range row {
			cells = append(cells, renderCell(s, n))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(s *ipc.StatusData, n uint) string {
	if n == 0 {
		return emptyCellStyle.Render("·\n")
	}
	label := fmt.Sprintf("%d\n%s", n, truncate(s.DesktopName(n), cellWidth-2))
	if n == s.Current {
		return currentCellStyle.Render(label)
	}
	return cellStyle.Render(label)
}

func renderSummary(s *ipc.StatusData) string {
	wrap := "off"
	if s.WrapAround {
		wrap = "on"
	}
	parts := []string{
		fmt.Sprintf("desktop %d/%d", s.Current, s.Count),
		fmt.Sprintf("%d×%d %s", s.Columns, s.Rows, s.Orientation),
		"wrap " + wrap,
	}
	if hidden := hiddenDesktops(s); hidden > 0 {
		parts = append(parts, fmt.Sprintf("%d without a cell", hidden))
	}
	return dimStyle.Render(strings.Join(parts, " · "))
}

// hiddenDesktops counts desktops that do not fit an undersized grid.
func hiddenDesktops(s *ipc.StatusData) int {
	var placed uint
	for _, row := range s.Grid {
		for _, n := range row {
			if n != 0 {
				placed++
			}
		}
	}
	if placed >= s.Count {
		return 0
	}
	return int(s.Count - placed)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
