package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/daemon"
	"github.com/1broseidon/deskgrid/internal/hotkeys"
	"github.com/1broseidon/deskgrid/internal/ipc"
	"github.com/1broseidon/deskgrid/internal/logging"
	"github.com/1broseidon/deskgrid/internal/runtimepath"
	"github.com/1broseidon/deskgrid/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "count":
		os.Exit(runCount(os.Args[2:]))
	case "rename":
		os.Exit(runRename(os.Args[2:]))
	case "rows":
		os.Exit(runRows(os.Args[2:]))
	case "wrap":
		os.Exit(runWrap(os.Args[2:]))
	case "add":
		os.Exit(runAdd(os.Args[2:]))
	case "remove":
		os.Exit(runRemove(os.Args[2:]))
	case "shortcuts":
		os.Exit(runShortcuts(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "pager":
		os.Exit(runPager(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskgrid <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the deskgrid daemon (foreground)")
	fmt.Fprintln(w, "  status              Show desktops and the navigation grid")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  switch N            Switch to desktop N")
	fmt.Fprintln(w, "  move DIRECTION      Move up, down, left, right, next or previous")
	fmt.Fprintln(w, "  count N             Set the number of desktops")
	fmt.Fprintln(w, "  rename N NAME       Rename desktop N (empty NAME restores the default)")
	fmt.Fprintln(w, "  rows N              Set the number of grid rows")
	fmt.Fprintln(w, "  wrap on|off         Toggle navigation wrapping")
	fmt.Fprintln(w, "  add [NAME]          Create a desktop")
	fmt.Fprintln(w, "  remove N|--id ID    Remove a desktop")
	fmt.Fprintln(w, "  shortcuts           List global shortcuts")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pager               Open the interactive pager")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskgrid <command> --help' for command-specific options.")
}

// parseFlags parses args and maps -h to exit code 0 and other errors to 2.
// A negative return means parsing succeeded.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func loadConfigFrom(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")
	ephemeral := fs.Bool("ephemeral", false, "Keep desktop names and count in memory only")
	displayName := fs.String("display", "", "X display (default: config display, then $DISPLAY)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskgrid daemon [--config PATH] [--display DISPLAY] [--ephemeral]")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	loadConfig := func() (*config.Config, error) {
		return loadConfigFrom(*configPath)
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger, err := logging.New(os.Stderr, cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}

	if pid, ok := runtimepath.ReadPID(); ok {
		fmt.Fprintf(os.Stderr, "deskgrid daemon already running (pid %d)\n", pid)
		return 1
	}
	removePID, err := runtimepath.WritePIDFile()
	if err != nil {
		logger.Error("failed to write pid file", "err", err)
		return 1
	}
	defer removePID()

	store := config.NewMemoryStore()
	if !*ephemeral {
		path, err := cfg.DesktopsPath()
		if err != nil {
			logger.Error("failed to resolve desktops file", "err", err)
			return 1
		}
		if store, err = config.OpenStore(path); err != nil {
			logger.Error("failed to open desktops file", "err", err)
			return 1
		}
		logger.Info("desktop store opened", "path", path)
	}

	name := cfg.Display
	if *displayName != "" {
		name = *displayName
	}
	display, err := x11.ResolveDisplay(name, cfg.XAuthority)
	if err != nil {
		logger.Error("failed to resolve display", "err", err)
		return 1
	}
	if err := display.Export(); err != nil {
		logger.Warn("failed to export XAUTHORITY", "err", err)
	}
	conn, err := x11.NewConnection(display.Name)
	if err != nil {
		logger.Error("failed to connect to display", "display", display.Name, "err", err)
		return 1
	}
	defer conn.Close()
	logger.Info("connected to X server", "display", display.Name)

	var initial uint
	if st, err := conn.ReadRootState(); err == nil {
		initial = st.Current
	}

	session := daemon.NewSession(daemon.SessionConfig{
		Config:         cfg,
		Store:          store,
		RootInfo:       x11.NewRootInfo(conn, logger.With("component", "rootinfo")),
		Logger:         logger,
		LoadConfig:     loadConfig,
		InitialCurrent: initial,
	})

	hotkeyHandler := hotkeys.NewHandler(conn, session, logger.With("component", "hotkeys"))
	if err := session.SetShortcutGrabber(hotkeyHandler); err != nil {
		logger.Warn("some shortcuts are unavailable", "err", err)
	}
	if err := conn.WatchRequests(session, logger.With("component", "x11")); err != nil {
		logger.Error("failed to watch root window", "err", err)
		return 1
	}

	ipcServer, err := ipc.NewServer("", session, logger.With("component", "ipc"))
	if err != nil {
		logger.Error("failed to create IPC server", "err", err)
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.Error("failed to start IPC server", "err", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	if every := cfg.ReconcileEvery(); every > 0 {
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: every,
			Logger:   logger.With("component", "reconciler"),
		}, session, conn.ReadRootState)
		go reconciler.Run(ctx)
	}

	shutdown := func() {
		cancel()
		ipcServer.Stop()
		removePID()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				logger.Info("received SIGHUP, reloading config")
				if err := session.Reload(); err != nil {
					logger.Error("config reload failed", "err", err)
				}
			default:
				logger.Info("shutting down deskgrid daemon")
				shutdown()
				os.Exit(0)
			}
		}
	}()

	logger.Info("entering event loop", "socket", ipcServer.SocketPath())
	conn.EventLoop()
	shutdown()
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  deskgrid config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  deskgrid config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  deskgrid config explain [--path PATH] <yaml.path>")
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskgrid/config.yaml)")

	switch args[0] {
	case "validate":
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if _, err := loadResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadResult(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			if res.File != "" {
				fmt.Printf("# file: %s\n", res.File)
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", src)
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func loadResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}
