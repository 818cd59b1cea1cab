package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// addForm holds the form and the values its fields are bound to. It lives on
// the heap so the bindings survive copies of the bubbletea model.
type addForm struct {
	form *huh.Form

	name     string
	position string
}

func newAddForm(count uint, width int) *addForm {
	a := &addForm{}
	a.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Description("Leave empty for the default name").
				CharLimit(64).
				Value(&a.name),

			huh.NewInput().
				Key("position").
				Title("Position").
				Description(fmt.Sprintf("1-%d, empty appends", count+1)).
				Value(&a.position).
				Validate(func(s string) error {
					_, err := parsePosition(s, count)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if width >= 40 {
		a.form = a.form.WithWidth(width)
	}
	return a
}

// parsePosition converts the 1-based position typed by the user. Empty input
// means append and is returned as 0.
func parsePosition(s string, count uint) (uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 || n > uint64(count)+1 {
		return 0, fmt.Errorf("position must be between 1 and %d", count+1)
	}
	return uint(n), nil
}
