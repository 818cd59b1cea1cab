package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/deskgrid/internal/tui"
)

func runPager(args []string) int {
	fs := newCommandFlags("pager", "pager [--refresh DURATION]", "")
	refresh := fs.Duration("refresh", tui.DefaultRefresh, "How often to poll the daemon")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskgrid pager [--refresh DURATION]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive grid of the daemon's desktops.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  ←↑→↓, hjkl  Move in the grid")
		fmt.Fprintln(os.Stderr, "  n/p         Next/previous desktop")
		fmt.Fprintln(os.Stderr, "  1-9         Switch to desktop")
		fmt.Fprintln(os.Stderr, "  r           Rename the current desktop")
		fmt.Fprintln(os.Stderr, "  a           Add a desktop")
		fmt.Fprintln(os.Stderr, "  +/-         Add or drop the last desktop")
		fmt.Fprintln(os.Stderr, "  w           Toggle wrap-around")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C   Quit")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}

	if err := tui.Run(newClient(), *refresh); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
