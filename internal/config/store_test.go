package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/1broseidon/deskgrid/internal/desktop"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktops.yaml")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.Lookup("Desktops", "Number"); ok {
		t.Fatalf("expected empty store")
	}
	if err := s.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("sync without changes should not create the file")
	}
}

func TestStore_SyncAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "desktops.yaml")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Set("Desktops", "Number", "3")
	s.Set("Desktops", "Name_2", "Mail")
	s.Set("Desktops-screen-1", "Number", "2")
	s.Delete("Desktops-screen-1", "Number")
	if err := s.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := reopened.Keys("Desktops"); !reflect.DeepEqual(got, []string{"Name_2", "Number"}) {
		t.Fatalf("keys = %v", got)
	}
	if v, _ := reopened.Lookup("Desktops", "Name_2"); v != "Mail" {
		t.Fatalf("Name_2 = %q", v)
	}
	if len(reopened.Keys("Desktops-screen-1")) != 0 {
		t.Fatalf("expected empty group to be dropped")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestStore_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktops.yaml")
	if err := os.WriteFile(path, []byte("groups: [1, 2"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := OpenStore(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMemoryStore_SyncIsNoop(t *testing.T) {
	s := NewMemoryStore()
	s.Set("Desktops", "Number", "2")
	if err := s.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if s.Path() != "" {
		t.Fatalf("memory store has path %q", s.Path())
	}
}

func TestStore_BacksDesktopManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktops.yaml")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	m := desktop.NewManager(desktop.Options{Store: s})
	m.SetCount(4)
	m.DesktopForX11ID(3).SetName("Chat")
	m.SetRows(1)

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	m2 := desktop.NewManager(desktop.Options{Store: reopened})
	m2.Load()

	if m2.Count() != 4 || m2.Name(3) != "Chat" || m2.Rows() != 1 {
		t.Fatalf("count=%d name=%q rows=%d", m2.Count(), m2.Name(3), m2.Rows())
	}
	if m2.DesktopForX11ID(1).ID() != m.DesktopForX11ID(1).ID() {
		t.Fatalf("desktop ids not persisted")
	}
}
