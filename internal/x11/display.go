package x11

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const x11SocketDir = "/tmp/.X11-unix"

// Display identifies the X server to connect to and the authority file
// holding its cookie.
type Display struct {
	Name       string
	XAuthority string
}

// Export makes the resolved authority file visible to the X client library.
func (d Display) Export() error {
	if d.XAuthority == "" || os.Getenv("XAUTHORITY") == d.XAuthority {
		return nil
	}
	return os.Setenv("XAUTHORITY", d.XAuthority)
}

// displayProbe holds the lookups ResolveDisplay depends on.
type displayProbe struct {
	getenv   func(string) string
	homeDir  func() (string, error)
	loginctl func(args ...string) (string, error)
	readFile func(string) ([]byte, error)
	readDir  func(string) ([]os.DirEntry, error)
	stat     func(string) (os.FileInfo, error)
	uid      int
}

func systemProbe() displayProbe {
	return displayProbe{
		getenv:  os.Getenv,
		homeDir: os.UserHomeDir,
		loginctl: func(args ...string) (string, error) {
			out, err := exec.Command("loginctl", args...).Output()
			return string(out), err
		},
		readFile: os.ReadFile,
		readDir:  os.ReadDir,
		stat:     os.Stat,
		uid:      os.Getuid(),
	}
}

// ResolveDisplay picks the X server for the daemon. Explicit values win, then
// DISPLAY and XAUTHORITY from the environment, then the graphical login
// session of the current user, then the highest numbered local X socket.
// The daemon is often started from a systemd user unit where DISPLAY is unset.
func ResolveDisplay(name, xauthority string) (Display, error) {
	return systemProbe().resolve(name, xauthority)
}

func (p displayProbe) resolve(name, xauthority string) (Display, error) {
	d := Display{
		Name:       strings.TrimSpace(name),
		XAuthority: strings.TrimSpace(xauthority),
	}
	if d.Name == "" {
		d.Name = strings.TrimSpace(p.getenv("DISPLAY"))
	}
	if d.XAuthority == "" {
		d.XAuthority = strings.TrimSpace(p.getenv("XAUTHORITY"))
	}

	if d.Name == "" || d.XAuthority == "" {
		sessionDisplay, sessionAuth := p.loginSession()
		if d.Name == "" {
			d.Name = sessionDisplay
		}
		if d.XAuthority == "" {
			d.XAuthority = sessionAuth
		}
	}
	if d.Name == "" {
		d.Name = p.newestSocket(x11SocketDir)
	}
	if d.Name == "" {
		return Display{}, fmt.Errorf("no X display found; set display in config (e.g. display: \":0\") or export DISPLAY")
	}

	if d.XAuthority == "" {
		if home, err := p.homeDir(); err == nil && home != "" {
			candidate := filepath.Join(home, ".Xauthority")
			if _, err := p.stat(candidate); err == nil {
				d.XAuthority = candidate
			}
		}
	}
	return d, nil
}

// loginSession returns DISPLAY and XAUTHORITY of the first graphical logind
// session owned by the current user, read from its leader's environment.
func (p displayProbe) loginSession() (display, xauthority string) {
	if p.loginctl == nil {
		return "", ""
	}
	out, err := p.loginctl("list-sessions", "--no-legend")
	if err != nil {
		return "", ""
	}
	for _, id := range sessionsForUID(out, strconv.Itoa(p.uid)) {
		display := p.sessionProp(id, "Display")
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		leader := p.sessionProp(id, "Leader")
		if leader == "" || leader == "0" {
			return display, ""
		}
		env, err := p.processEnv(leader)
		if err != nil {
			return display, ""
		}
		if v := strings.TrimSpace(env["DISPLAY"]); v != "" {
			display = v
		}
		return display, strings.TrimSpace(env["XAUTHORITY"])
	}
	return "", ""
}

func (p displayProbe) sessionProp(id, prop string) string {
	out, err := p.loginctl("show-session", id, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func (p displayProbe) processEnv(pid string) (map[string]string, error) {
	data, err := p.readFile(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil, err
	}
	env := make(map[string]string)
	for _, entry := range strings.Split(string(data), "\x00") {
		k, v, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env, nil
}

// newestSocket returns ":N" for the highest numbered XN socket in dir.
func (p displayProbe) newestSocket(dir string) string {
	entries, err := p.readDir(dir)
	if err != nil {
		return ""
	}
	var numbers []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "X") {
			continue
		}
		n, err := strconv.Atoi(name[1:])
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}
	if len(numbers) == 0 {
		return ""
	}
	sort.Ints(numbers)
	return fmt.Sprintf(":%d", numbers[len(numbers)-1])
}

// sessionsForUID parses `loginctl list-sessions --no-legend` output.
func sessionsForUID(output, uid string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == uid {
			ids = append(ids, fields[0])
		}
	}
	return ids
}
