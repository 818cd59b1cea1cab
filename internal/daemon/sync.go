package daemon

import (
	"fmt"

	"github.com/1broseidon/deskgrid/internal/x11"
)

// Snapshot is the desktop state the daemon publishes on the root window.
type Snapshot struct {
	Count   uint
	Current uint
	Names   []string
}

// Drift lists the differences between the published snapshot and the root
// window state. Names are compared only for existing desktops; window
// managers may keep extra trailing names around.
func Drift(want Snapshot, got x11.RootState) []string {
	var out []string
	if want.Count != got.Count {
		out = append(out, fmt.Sprintf("count %d != %d", got.Count, want.Count))
	}
	if want.Current != got.Current {
		out = append(out, fmt.Sprintf("current %d != %d", got.Current, want.Current))
	}
	for i, name := range want.Names {
		if i >= len(got.Names) {
			out = append(out, fmt.Sprintf("missing names from desktop %d", i+1))
			break
		}
		if got.Names[i] != name {
			out = append(out, fmt.Sprintf("name of desktop %d %q != %q", i+1, got.Names[i], name))
		}
	}
	return out
}
