package mcp

import "github.com/1broseidon/deskgrid/internal/desktop"

// ListDesktopsInput is the input for the list_desktops tool.
type ListDesktopsInput struct{}

// ListDesktopsOutput is the output for the list_desktops tool.
type ListDesktopsOutput struct {
	Count      uint           `json:"count"`
	Current    uint           `json:"current"`
	Rows       uint           `json:"rows"`
	Columns    int            `json:"columns"`
	WrapAround bool           `json:"wrap_around"`
	Desktops   []desktop.Info `json:"desktops"`
	Grid       [][]uint       `json:"grid"`
}

// SwitchDesktopInput is the input for the switch_desktop tool.
type SwitchDesktopInput struct {
	Desktop uint `json:"desktop" jsonschema:"required,Desktop number to switch to (1-based)"`
}

// SwitchOutput is returned by the tools that change the current desktop.
type SwitchOutput struct {
	Changed bool   `json:"changed"`
	Current uint   `json:"current"`
	Name    string `json:"name"`
}

// NavigateDesktopInput is the input for the navigate_desktop tool.
type NavigateDesktopInput struct {
	Direction string `json:"direction" jsonschema:"required,One of up, down, left, right, next, previous"`
}

// SetDesktopCountInput is the input for the set_desktop_count tool.
type SetDesktopCountInput struct {
	Count uint `json:"count" jsonschema:"required,Number of desktops (clamped to 1-20)"`
}

// SetDesktopCountOutput is the output for the set_desktop_count tool.
type SetDesktopCountOutput struct {
	Count uint `json:"count"`
}

// RenameDesktopInput is the input for the rename_desktop tool.
type RenameDesktopInput struct {
	Desktop uint   `json:"desktop" jsonschema:"required,Desktop number to rename (1-based)"`
	Name    string `json:"name" jsonschema:"New name; empty restores the default name"`
}

// RenameDesktopOutput is the output for the rename_desktop tool.
type RenameDesktopOutput struct {
	Desktop uint   `json:"desktop"`
	Name    string `json:"name"`
}

// SetRowsInput is the input for the set_rows tool.
type SetRowsInput struct {
	Rows uint `json:"rows" jsonschema:"required,Number of rows in the desktop grid (1 to the desktop count)"`
}

// SetRowsOutput is the output for the set_rows tool.
type SetRowsOutput struct {
	Rows    uint `json:"rows"`
	Columns int  `json:"columns"`
}
