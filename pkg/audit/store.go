// Zaparoo Arcade
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Arcade.
//
// Zaparoo Arcade is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Arcade is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Arcade.  If not, see <http://www.gnu.org/licenses/>.

package audit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	filePrefix = "mame_avail_"
	fileSuffix = ".ini"

	// DefaultSettleDelay is how long Build waits after the verifier exits
	// before looking for the availability file it writes.
	DefaultSettleDelay = 500 * time.Millisecond
)

// Store reads and writes availability snapshots under one directory.
type Store struct {
	fs          afero.Fs
	clock       clockwork.Clock
	cmd         command.Executor
	dir         string
	homeDir     string
	workDir     string
	settleDelay time.Duration
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces the clock used for the settle delay and timestamps.
func WithClock(clock clockwork.Clock) StoreOption {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithHomeDir sets the home directory searched for ~/.mame/ui.
func WithHomeDir(dir string) StoreOption {
	return func(s *Store) {
		s.homeDir = dir
	}
}

// WithWorkDir sets the directory searched for a relative ui/ folder.
func WithWorkDir(dir string) StoreOption {
	return func(s *Store) {
		s.workDir = dir
	}
}

// WithSettleDelay overrides DefaultSettleDelay.
func WithSettleDelay(d time.Duration) StoreOption {
	return func(s *Store) {
		s.settleDelay = d
	}
}

// NewStore returns a Store keeping snapshots in dir.
func NewStore(fs afero.Fs, dir string, cmd command.Executor, opts ...StoreOption) *Store {
	s := &Store{
		fs:          fs,
		dir:         dir,
		cmd:         cmd,
		clock:       clockwork.NewRealClock(),
		settleDelay: DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory snapshots are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the cache file for identity.
func (s *Store) Path(identity string) string {
	return filepath.Join(s.dir, filePrefix+identity+fileSuffix)
}

// Load reads the snapshot for identity. A missing or unreadable file
// reports false.
func (s *Store) Load(identity string) (*Snapshot, bool) {
	path := s.Path(identity)

	info, err := s.fs.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("failed to stat audit cache")
		}
		return nil, false
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read audit cache")
		return nil, false
	}

	available, err := Parse(data)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring unparseable audit cache")
		return nil, false
	}

	return &Snapshot{
		Identity:  identity,
		Available: available,
		Updated:   info.ModTime(),
	}, true
}

// Save replaces the cache file for the snapshot's identity.
func (s *Store) Save(snap *Snapshot) error {
	if snap == nil || snap.Identity == "" {
		return errors.New("snapshot has no identity")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap.Available); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	path := s.Path(snap.Identity)
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write audit cache: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace audit cache: %w", err)
	}

	log.Info().
		Str("identity", snap.Identity).
		Int("available", len(snap.Available)).
		Msg("saved audit cache")
	return nil
}

// Remove deletes the cache file for identity. Removing a missing file is
// not an error.
func (s *Store) Remove(identity string) error {
	err := s.fs.Remove(s.Path(identity))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove audit cache for %s: %w", identity, err)
	}
	return nil
}

// List returns the identities that have a cache file, in lexical order.
func (s *Store) List() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list audit directory: %w", err)
	}

	var ids []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Prune removes every cache file whose identity is not in keep and returns
// the identities removed.
func (s *Store) Prune(keep []string) ([]string, error) {
	ids, err := s.List()
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, id := range ids {
		if slices.Contains(keep, id) {
			continue
		}
		if err := s.Remove(id); err != nil {
			return removed, err
		}
		log.Info().Str("identity", id).Msg("removed orphaned audit cache")
		removed = append(removed, id)
	}
	return removed, nil
}
