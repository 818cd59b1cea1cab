package main

import (
	"path/filepath"
	"testing"

	"github.com/1broseidon/deskgrid/internal/config"
	"github.com/1broseidon/deskgrid/internal/daemon"
	"github.com/1broseidon/deskgrid/internal/ipc"
)

// startDaemon runs a session without an X server behind a real IPC socket
// and points the CLI client at it.
func startDaemon(t *testing.T, count uint) *daemon.Session {
	t.Helper()
	session := daemon.NewSession(daemon.SessionConfig{
		Config: config.DefaultConfig(),
		Store:  config.NewMemoryStore(),
	})
	session.SetCount(count)

	socket := filepath.Join(t.TempDir(), "deskgrid.sock")
	srv, err := ipc.NewServer(socket, session, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)

	orig := newClient
	newClient = func() *ipc.Client { return ipc.NewClientWithSocket(socket) }
	t.Cleanup(func() { newClient = orig })
	return session
}

func TestDesktopCommands(t *testing.T) {
	session := startDaemon(t, 4)

	steps := []struct {
		name string
		run  func([]string) int
		args []string
		rc   int
	}{
		{"switch", runSwitch, []string{"3"}, 0},
		{"switch to missing desktop", runSwitch, []string{"9"}, 1},
		{"switch bad number", runSwitch, []string{"zero"}, 2},
		{"move", runMove, []string{"previous"}, 0},
		{"move bad direction", runMove, []string{"sideways"}, 2},
		{"rename", runRename, []string{"2", "Web", "Browsing"}, 0},
		{"rename missing desktop", runRename, []string{"7", "Nope"}, 1},
		{"rows", runRows, []string{"1"}, 0},
		{"rows above count", runRows, []string{"9"}, 1},
		{"wrap", runWrap, []string{"off"}, 0},
		{"wrap bad value", runWrap, []string{"maybe"}, 2},
		{"count", runCount, []string{"5"}, 0},
		{"status", runStatus, nil, 0},
		{"status json", runStatus, []string{"--json"}, 0},
		{"shortcuts", runShortcuts, []string{"--all"}, 0},
		{"no reload without loader", runReload, nil, 1},
	}
	for _, step := range steps {
		if rc := step.run(step.args); rc != step.rc {
			t.Fatalf("%s: rc=%d, want %d", step.name, rc, step.rc)
		}
	}

	st := session.Status()
	if st.Current != 2 {
		t.Fatalf("current = %d, want 2", st.Current)
	}
	if got := st.DesktopName(2); got != "Web Browsing" {
		t.Fatalf("desktop 2 name = %q", got)
	}
	if st.Rows != 1 || st.WrapAround || st.Count != 5 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestAddAndRemoveCommands(t *testing.T) {
	session := startDaemon(t, 2)

	if rc := runAdd([]string{"--at", "1", "Scratch"}); rc != 0 {
		t.Fatalf("add rc=%d", rc)
	}
	st := session.Status()
	if st.Count != 3 || st.DesktopName(1) != "Scratch" {
		t.Fatalf("after add: %+v", st.Desktops)
	}

	if rc := runRemove([]string{"--id", st.Desktops[0].ID}); rc != 0 {
		t.Fatalf("remove by id rc=%d", rc)
	}
	if rc := runRemove([]string{"2"}); rc != 0 {
		t.Fatalf("remove by number rc=%d", rc)
	}
	if rc := runRemove([]string{"1"}); rc != 1 {
		t.Fatalf("removing the last desktop rc=%d, want 1", rc)
	}
	if rc := runRemove(nil); rc != 2 {
		t.Fatalf("remove without target rc=%d, want 2", rc)
	}
	if got := session.Status().Count; got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Screen = 1
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if rc := runConfig([]string{"validate", "--path", path}); rc != 0 {
		t.Fatalf("validate rc=%d", rc)
	}
	if rc := runConfig([]string{"print", "--path", path}); rc != 0 {
		t.Fatalf("print rc=%d", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path, "screen"}); rc != 0 {
		t.Fatalf("explain rc=%d", rc)
	}
	if rc := runConfig([]string{"explain", "--path", path}); rc != 2 {
		t.Fatalf("explain without path rc=%d, want 2", rc)
	}
	if rc := runConfig([]string{"frobnicate"}); rc != 2 {
		t.Fatalf("unknown subcommand rc=%d, want 2", rc)
	}
}

func TestParseDesktopNumber(t *testing.T) {
	for _, in := range []string{"0", "-1", "", "x"} {
		if _, err := parseDesktopNumber(in); err == nil {
			t.Errorf("parseDesktopNumber(%q) accepted", in)
		}
	}
	if n, err := parseDesktopNumber(" 12 "); err != nil || n != 12 {
		t.Fatalf("parseDesktopNumber(12) = %d, %v", n, err)
	}
}
