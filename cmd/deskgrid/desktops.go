package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/desktop"
	"github.com/1broseidon/deskgrid/internal/ipc"
	"github.com/1broseidon/deskgrid/internal/x11"
)

// newClient is replaced in tests.
var newClient = ipc.NewClient

func newCommandFlags(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskgrid "+usage)
		if description != "" {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, description)
		}
		fs.PrintDefaults()
	}
	return fs
}

func parseDesktopNumber(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid desktop number %q", s)
	}
	return uint(n), nil
}

func runStatus(args []string) int {
	fs := newCommandFlags("status", "status [--json]", "Show desktops and the navigation grid via IPC.")
	asJSON := fs.Bool("json", false, "Print the raw status as JSON")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := newClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		printRootState()
		return 1
	}
	if *asJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("desktops:       %d\n", status.Count)
	fmt.Printf("current:        %d (%s)\n", status.Current, status.DesktopName(status.Current))
	fmt.Printf("layout:         %d columns x %d rows, %s\n", status.Columns, status.Rows, status.Orientation)
	fmt.Printf("wrap_around:    %v\n", status.WrapAround)
	fmt.Println("")
	printGrid(status)
	fmt.Println("")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tNAME\tID")
	for _, d := range status.Desktops {
		marker := " "
		if d.Number == status.Current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %d\t%s\t%s\n", marker, d.Number, d.Name, d.ID)
	}
	w.Flush()
	return 0
}

func printGrid(status *ipc.StatusData) {
	for _, row := range status.Grid {
		cells := make([]string, len(row))
		for i, n := range row {
			switch {
			case n == 0:
				cells[i] = "  ."
			case n == status.Current:
				cells[i] = fmt.Sprintf("[%d]", n)
			default:
				cells[i] = fmt.Sprintf(" %d ", n)
			}
			cells[i] = fmt.Sprintf("%4s", cells[i])
		}
		fmt.Println(strings.Join(cells, " "))
	}
}

// printRootState shows what the window manager publishes when the daemon
// cannot be reached.
func printRootState() {
	displayName := ""
	if cfg, err := config.Load(); err == nil {
		displayName = cfg.Display
	}
	display, err := x11.ResolveDisplay(displayName, "")
	if err != nil {
		return
	}
	if err := display.Export(); err != nil {
		return
	}
	st, err := x11.ReadRootStateStandalone(display.Name)
	if err != nil {
		return
	}
	fmt.Fprintf(os.Stderr, "\nwindow manager on %s reports %d desktops, current %d\n", display.Name, st.Count, st.Current)
	for i, name := range st.Names {
		fmt.Fprintf(os.Stderr, "  %d\t%s\n", i+1, name)
	}
}

func runSwitch(args []string) int {
	fs := newCommandFlags("switch", "switch [--display DISPLAY] N",
		"Switch to desktop N. Without a running daemon the request is sent\nto the window manager directly.")
	displayName := fs.String("display", "", "X display used when the daemon is not running")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	n, err := parseDesktopNumber(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := newClient()
	if err := client.Ping(); err != nil {
		if err := switchWithoutDaemon(*displayName, n); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	data, err := client.SetCurrent(n)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !data.Changed && data.Current != n {
		fmt.Fprintf(os.Stderr, "desktop %d does not exist\n", n)
		return 1
	}
	return 0
}

func switchWithoutDaemon(displayName string, n uint) error {
	if displayName == "" {
		if cfg, err := config.Load(); err == nil {
			displayName = cfg.Display
		}
	}
	display, err := x11.ResolveDisplay(displayName, "")
	if err != nil {
		return err
	}
	if err := display.Export(); err != nil {
		return err
	}
	return x11.RequestCurrentDesktopStandalone(display.Name, n)
}

func runMove(args []string) int {
	fs := newCommandFlags("move", "move up|down|left|right|next|previous", "")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	direction, err := desktop.ParseDirection(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := newClient().Move(direction)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if data.Changed {
		fmt.Println(data.Current)
	}
	return 0
}

func runCount(args []string) int {
	fs := newCommandFlags("count", "count N", fmt.Sprintf("Set the number of desktops (1-%d).", desktop.Maximum))
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	n, err := strconv.ParseUint(fs.Arg(0), 10, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid count %q\n", fs.Arg(0))
		return 2
	}

	got, err := newClient().SetCount(uint(n))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if got != uint(n) {
		fmt.Fprintf(os.Stderr, "count clamped to %d\n", got)
	}
	return 0
}

func runRename(args []string) int {
	fs := newCommandFlags("rename", "rename N [NAME]", "Rename desktop N. Without NAME the default name is restored.")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 2
	}
	n, err := parseDesktopNumber(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	name := strings.Join(fs.Args()[1:], " ")

	if err := newClient().Rename(n, name); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runRows(args []string) int {
	fs := newCommandFlags("rows", "rows N", "Set the number of grid rows (1 to the desktop count).")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	rows, err := strconv.ParseUint(fs.Arg(0), 10, 32)
	if err != nil || rows == 0 {
		fmt.Fprintf(os.Stderr, "invalid row count %q\n", fs.Arg(0))
		return 2
	}

	got, err := newClient().SetRows(uint(rows))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if got != uint(rows) {
		fmt.Fprintf(os.Stderr, "rows unchanged (%d); must not exceed the desktop count\n", got)
		return 1
	}
	return 0
}

func runWrap(args []string) int {
	fs := newCommandFlags("wrap", "wrap on|off", "Toggle wrap-around navigation for the running daemon.")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	var enabled bool
	switch strings.ToLower(fs.Arg(0)) {
	case "on", "true", "yes", "1":
		enabled = true
	case "off", "false", "no", "0":
	default:
		fmt.Fprintf(os.Stderr, "expected on or off, got %q\n", fs.Arg(0))
		return 2
	}

	if err := newClient().SetWrap(enabled); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runAdd(args []string) int {
	fs := newCommandFlags("add", "add [--at N] [NAME]", "Create a desktop, appended unless --at is given.")
	at := fs.Uint("at", 0, "1-based position of the new desktop")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	name := strings.Join(fs.Args(), " ")

	info, err := newClient().CreateDesktop(*at, name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("%d\t%s\t%s\n", info.Number, info.Name, info.ID)
	return 0
}

func runRemove(args []string) int {
	fs := newCommandFlags("remove", "remove N | remove --id ID", "Remove a desktop. The last desktop cannot be removed.")
	id := fs.String("id", "", "Desktop id as shown by 'deskgrid status'")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}

	client := newClient()
	var err error
	switch {
	case *id != "" && fs.NArg() == 0:
		err = client.RemoveDesktop(*id)
	case *id == "" && fs.NArg() == 1:
		n, perr := parseDesktopNumber(fs.Arg(0))
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return 2
		}
		err = client.RemoveDesktopNumber(n)
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runShortcuts(args []string) int {
	fs := newCommandFlags("shortcuts", "shortcuts [--all]", "List global shortcuts and their X11 grabs.")
	all := fs.Bool("all", false, "Include actions without a key binding")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}

	shortcuts, err := newClient().ListShortcuts()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tKEYS\tGRAB")
	for _, sc := range shortcuts {
		if !*all && sc.Keys == "" {
			continue
		}
		keys := sc.Keys
		if sc.Disabled {
			keys = "(disabled)"
		}
		bound := sc.Bound
		if bound == "" {
			bound = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", sc.Name, keys, bound)
	}
	w.Flush()
	return 0
}

func runReload(args []string) int {
	fs := newCommandFlags("reload", "reload", "Ask the daemon to re-read its configuration.")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if err := newClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reloaded")
	return 0
}
