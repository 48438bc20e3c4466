package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

func testState(balance int) *auction.State {
	return &auction.State{
		Remaining: []string{"P1", "P2"},
		Skipped:   []string{},
		Rosters:   map[string][]auction.RosterEntry{"Alpha": {}},
		Balances:  map[string]int{"Alpha": balance},
	}
}

func TestFileStoreStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, err := fs.LoadState(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load before save err = %v, want ErrNotFound", err)
	}

	if err := fs.SaveState(ctx, "a1", testState(200)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := fs.LoadState(ctx, "a1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Balances["Alpha"] != 200 || len(got.Remaining) != 2 {
		t.Fatalf("unexpected state: %+v", got)
	}
}

func TestFileStoreBackupRotation(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	// No backup until a second generation exists.
	if err := fs.SaveState(ctx, "a1", testState(200)); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if _, err := fs.LoadBackupState(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("backup err = %v, want ErrNotFound", err)
	}

	if err := fs.SaveState(ctx, "a1", testState(150)); err != nil {
		t.Fatalf("save 2: %v", err)
	}
	if err := fs.SaveState(ctx, "a1", testState(100)); err != nil {
		t.Fatalf("save 3: %v", err)
	}

	cur, err := fs.LoadState(ctx, "a1")
	if err != nil {
		t.Fatalf("load current: %v", err)
	}
	if cur.Balances["Alpha"] != 100 {
		t.Fatalf("current balance = %d, want 100", cur.Balances["Alpha"])
	}
	prev, err := fs.LoadBackupState(ctx, "a1")
	if err != nil {
		t.Fatalf("load backup: %v", err)
	}
	if prev.Balances["Alpha"] != 150 {
		t.Fatalf("backup balance = %d, want 150", prev.Balances["Alpha"])
	}
}

func TestFileStoreCorruptPrimary(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if err := fs.SaveState(ctx, "a1", testState(200)); err != nil {
		t.Fatalf("save 1: %v", err)
	}
	if err := fs.SaveState(ctx, "a1", testState(150)); err != nil {
		t.Fatalf("save 2: %v", err)
	}

	// Clobber the current record; the backup generation must survive.
	if err := os.WriteFile(filepath.Join(dir, "a1"+stateSuffix), []byte("{truncated"), 0o644); err != nil {
		t.Fatalf("clobber: %v", err)
	}
	if _, err := fs.LoadState(ctx, "a1"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("load err = %v, want ErrCorrupt", err)
	}
	prev, err := fs.LoadBackupState(ctx, "a1")
	if err != nil {
		t.Fatalf("load backup: %v", err)
	}
	if prev.Balances["Alpha"] != 200 {
		t.Fatalf("backup balance = %d, want 200", prev.Balances["Alpha"])
	}
}

func TestFileStoreConfigAndList(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	cfg := auction.Config{
		SeasonName:    "season-9",
		BasePrice:     5,
		TeamSize:      8,
		InitialPoints: 200,
		Players:       []auction.Player{{Name: "P1", Photo: "p1.jpg"}},
		Captains:      []auction.Captain{{Name: "Alpha"}},
	}
	if err := fs.SaveConfig(ctx, "beta", cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if err := fs.SaveConfig(ctx, "alpha", cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	got, err := fs.LoadConfig(ctx, "beta")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got.SeasonName != "season-9" || got.Players[0].Photo != "p1.jpg" {
		t.Fatalf("unexpected config: %+v", got)
	}

	ids, err := fs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Fatalf("ids = %v, want [alpha beta]", ids)
	}

	if err := fs.Delete(ctx, "beta"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fs.LoadConfig(ctx, "beta"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load after delete err = %v, want ErrNotFound", err)
	}
	ids, err = fs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "alpha" {
		t.Fatalf("ids = %v, want [alpha]", ids)
	}
}
