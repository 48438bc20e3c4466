package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/connect2sanju/cricket-auction-system/internal/auction"
)

const (
	configSuffix = ".config.json"
	stateSuffix  = ".state.json"
	backupSuffix = ".state.json.backup"
)

// FileStore persists auctions as JSON files under a data directory.
// Writes go to a temp file first; the previous durable copy is rotated
// into the backup before the rename, so a crash mid-write can never
// lose the last known-good state.
type FileStore struct {
	dir string
}

func NewFile(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) configPath(id string) string { return filepath.Join(f.dir, id+configSuffix) }
func (f *FileStore) statePath(id string) string  { return filepath.Join(f.dir, id+stateSuffix) }
func (f *FileStore) backupPath(id string) string { return filepath.Join(f.dir, id+backupSuffix) }

func (f *FileStore) SaveConfig(_ context.Context, id string, cfg auction.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(f.configPath(id), data)
}

func (f *FileStore) LoadConfig(_ context.Context, id string) (auction.Config, error) {
	data, err := os.ReadFile(f.configPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return auction.Config{}, ErrNotFound
	}
	if err != nil {
		return auction.Config{}, err
	}
	var cfg auction.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return auction.Config{}, fmt.Errorf("%w: config for %q: %v", ErrCorrupt, id, err)
	}
	return cfg, nil
}

func (f *FileStore) SaveState(_ context.Context, id string, st *auction.State) error {
	rec := stateRecord{SavedAt: time.Now().UTC(), State: st}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	target := f.statePath(id)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	// Rotate the old durable copy before the new one lands.
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, f.backupPath(id)); err != nil {
			return fmt.Errorf("rotate backup: %w", err)
		}
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

func (f *FileStore) LoadState(_ context.Context, id string) (*auction.State, error) {
	return readStateFile(f.statePath(id), id)
}

func (f *FileStore) LoadBackupState(_ context.Context, id string) (*auction.State, error) {
	return readStateFile(f.backupPath(id), id)
}

func readStateFile(path, id string) (*auction.State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: state for %q: %v", ErrCorrupt, id, err)
	}
	if rec.State == nil {
		return nil, fmt.Errorf("%w: state for %q: empty record", ErrCorrupt, id)
	}
	return rec.State, nil
}

func (f *FileStore) Delete(_ context.Context, id string) error {
	for _, path := range []string{f.statePath(id), f.backupPath(id), f.configPath(id)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (f *FileStore) List(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(f.dir, "*"+configSuffix))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		base := filepath.Base(m)
		ids = append(ids, strings.TrimSuffix(base, configSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *FileStore) Close() {}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
