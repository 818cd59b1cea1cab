package desktop

import (
	"reflect"
	"testing"
)

func TestGroupName(t *testing.T) {
	if got := GroupName(0); got != "Desktops" {
		t.Fatalf("GroupName(0) = %q", got)
	}
	if got := GroupName(2); got != "Desktops-screen-2" {
		t.Fatalf("GroupName(2) = %q", got)
	}
}

func TestLoad_WithoutStoreLeavesCountZero(t *testing.T) {
	m := newTestManager(Options{})
	m.Load()
	if m.Count() != 0 {
		t.Fatalf("count = %d, want 0", m.Count())
	}
}

func TestLoad_EmptyStoreDefaultsToOneDesktop(t *testing.T) {
	m := newTestManager(Options{Store: newMemStore()})
	m.Load()
	if m.Count() != 1 || m.Rows() != 1 {
		t.Fatalf("count=%d rows=%d, want 1/1", m.Count(), m.Rows())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newMemStore()
	m1 := newTestManager(Options{Store: store})
	m1.SetCount(3)
	m1.DesktopForX11ID(2).SetName("Mail")

	m2 := newTestManager(Options{Store: store})
	m2.Load()

	if m2.Count() != 3 {
		t.Fatalf("count = %d, want 3", m2.Count())
	}
	for n := uint(1); n <= 3; n++ {
		if m1.Name(n) != m2.Name(n) {
			t.Errorf("name %d: %q != %q", n, m2.Name(n), m1.Name(n))
		}
		if m1.DesktopForX11ID(n).ID() != m2.DesktopForX11ID(n).ID() {
			t.Errorf("id %d not restored", n)
		}
	}
	if _, ok := store.Lookup("Desktops", "Name_1"); ok {
		t.Fatalf("default name should not be persisted")
	}
}

func TestLoad_DoesNotSave(t *testing.T) {
	store := newMemStore()
	store.Set("Desktops", "Number", "3")
	store.Set("Desktops", "Name_3", "Music")

	m := newTestManager(Options{Store: store})
	m.Load()

	if store.syncs != 0 {
		t.Fatalf("Load flushed the store %d times", store.syncs)
	}
	if m.Name(3) != "Music" {
		t.Fatalf("name 3 = %q", m.Name(3))
	}

	m.SetCount(4)
	if store.syncs == 0 {
		t.Fatalf("SetCount after Load did not save")
	}
}

func TestLoad_ClampsValues(t *testing.T) {
	tests := []struct {
		name      string
		number    string
		rows      string
		wantCount uint
		wantRows  uint
	}{
		{name: "too many", number: "40", rows: "2", wantCount: Maximum, wantRows: 2},
		{name: "zero", number: "0", rows: "2", wantCount: 1, wantRows: 1},
		{name: "garbage", number: "abc", rows: "x", wantCount: 1, wantRows: 1},
		{name: "rows above count", number: "3", rows: "9", wantCount: 3, wantRows: 3},
		{name: "zero rows", number: "4", rows: "0", wantCount: 4, wantRows: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.Set("Desktops", "Number", tt.number)
			store.Set("Desktops", "Rows", tt.rows)

			m := newTestManager(Options{Store: store})
			m.Load()

			if m.Count() != tt.wantCount || m.Rows() != tt.wantRows {
				t.Fatalf("count=%d rows=%d, want %d/%d", m.Count(), m.Rows(), tt.wantCount, tt.wantRows)
			}
		})
	}
}

func TestLoad_AppliesRows(t *testing.T) {
	store := newMemStore()
	store.Set("Desktops", "Number", "6")
	store.Set("Desktops", "Rows", "3")

	m := newTestManager(Options{Store: store})
	m.Load()

	if m.Grid().Width() != 2 || m.Grid().Height() != 3 {
		t.Fatalf("grid = %v, want 2x3", m.Grid().Size())
	}
}

func TestLoad_PublishesToRootInfo(t *testing.T) {
	store := newMemStore()
	store.Set("Desktops-screen-1", "Number", "4")
	store.Set("Desktops-screen-1", "Name_2", "Code")
	store.Set("Desktops-screen-1", "Rows", "1")

	ri := newFakeRootInfo()
	m := newTestManager(Options{Store: store, Screen: 1})
	m.SetRootInfo(ri)
	m.Load()

	want := map[uint]string{1: "Desktop 1", 2: "Code", 3: "Desktop 3", 4: "Desktop 4"}
	if !reflect.DeepEqual(ri.names, want) {
		t.Fatalf("names = %v", ri.names)
	}
	if ri.activated != 1 {
		t.Fatalf("activated = %d, want 1", ri.activated)
	}
	if ri.layout == nil || ri.layout.Rows != 1 || ri.layout.Columns != 4 {
		t.Fatalf("layout = %+v", ri.layout)
	}
}

func TestSave_RemovesStaleKeys(t *testing.T) {
	store := newMemStore()
	m := newTestManager(Options{Store: store})
	m.SetCount(4)
	m.DesktopForX11ID(4).SetName("Scratch")
	if v, _ := store.Lookup("Desktops", "Name_4"); v != "Scratch" {
		t.Fatalf("Name_4 = %q", v)
	}

	m.SetCount(2)

	for _, key := range []string{"Name_4", "Id_4", "Id_3"} {
		if _, ok := store.Lookup("Desktops", key); ok {
			t.Errorf("%s still stored", key)
		}
	}
	if v, _ := store.Lookup("Desktops", "Number"); v != "2" {
		t.Fatalf("Number = %q", v)
	}
}

func TestSave_RevertToDefaultNameDeletesKey(t *testing.T) {
	store := newMemStore()
	m := newTestManager(Options{Store: store})
	m.SetCount(2)
	d := m.DesktopForX11ID(1)

	d.SetName("Work")
	if _, ok := store.Lookup("Desktops", "Name_1"); !ok {
		t.Fatalf("Name_1 not stored")
	}
	d.SetName(DefaultName(1))
	if _, ok := store.Lookup("Desktops", "Name_1"); ok {
		t.Fatalf("Name_1 still stored after revert")
	}
}

func TestSave_EmptyNameBecomesDefault(t *testing.T) {
	store := newMemStore()
	m := newTestManager(Options{Store: store})
	m.SetCount(1)

	m.DesktopForX11ID(1).SetName("")

	if m.Name(1) != "Desktop 1" {
		t.Fatalf("name = %q", m.Name(1))
	}
}

func TestSave_SyncErrorIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.syncErr = errSync
	m := newTestManager(Options{Store: store})

	if got := m.SetCount(2); got != 2 {
		t.Fatalf("SetCount = %d", got)
	}
	if store.syncs == 0 {
		t.Fatalf("expected a sync attempt")
	}
}
