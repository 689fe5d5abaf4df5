// Package store implements snapshot.Store on the local filesystem, Postgres
// and Redis. Every backend keeps only the current day.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/em1rekinci/analizsitesi/internal/snapshot"
	"github.com/em1rekinci/analizsitesi/internal/stats"
)

// FileStore keeps matches_<day>.json and teams_<day>.json under a directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Ping checks that the data directory still exists.
func (s *FileStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", s.dir)
	}
	return nil
}

func (s *FileStore) matchesPath(day string) string {
	return filepath.Join(s.dir, "matches_"+day+".json")
}

func (s *FileStore) teamsPath(day string) string {
	return filepath.Join(s.dir, "teams_"+day+".json")
}

// Load reads the day's snapshot. A missing or unreadable file is a miss.
func (s *FileStore) Load(_ context.Context, day string) (*snapshot.Snapshot, error) {
	var snap snapshot.Snapshot
	if err := s.readJSON(s.matchesPath(day), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes the snapshot atomically, then removes other days' files.
func (s *FileStore) Save(_ context.Context, snap *snapshot.Snapshot) error {
	if err := s.writeJSON(s.matchesPath(snap.Date), snap); err != nil {
		return err
	}
	s.cleanup(snap.Date)
	return nil
}

// LoadTeams reads the day's team cache.
func (s *FileStore) LoadTeams(_ context.Context, day string) (map[string]stats.Profile, error) {
	teams := map[string]stats.Profile{}
	if err := s.readJSON(s.teamsPath(day), &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// SaveTeams writes the day's team cache atomically.
func (s *FileStore) SaveTeams(_ context.Context, day string, teams map[string]stats.Profile) error {
	if teams == nil {
		teams = map[string]stats.Profile{}
	}
	return s.writeJSON(s.teamsPath(day), teams)
}

func (s *FileStore) readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return snapshot.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("Discarding corrupt cache file", "file", filepath.Base(path), "error", err)
		return snapshot.ErrNotFound
	}
	return nil
}

// writeJSON writes to a temp file in the same directory and renames it into
// place so readers never see a partial document.
func (s *FileStore) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// cleanup removes cache files that do not belong to day.
func (s *FileStore) cleanup(day string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("Cache cleanup failed", "error", err)
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.Contains(name, day) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Warn("Failed to remove old cache file", "file", name, "error", err)
			continue
		}
		s.logger.Info("Removed old cache file", "file", name)
	}
}
