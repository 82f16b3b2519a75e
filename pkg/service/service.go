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

package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/audit"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoEmulator is returned by jobs that need an emulator when none is
	// configured.
	ErrNoEmulator = errors.New("no emulator selected")
	// ErrNotLoaded is returned by jobs that need a machine list first.
	ErrNotLoaded = errors.New("machine list not loaded")
)

// Service owns the State and starts jobs that update it.
type Service struct {
	cmd     command.Executor
	scanner *archives.Scanner
	store   *audit.Store
	state   *State
	clock   clockwork.Clock
	// generation counters let a finished job tell whether a newer job of
	// the same kind was started after it.
	loads      atomic.Uint64
	reconciles atomic.Uint64
}

type Option func(*Service)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithState shares an existing State.
func WithState(state *State) Option {
	return func(s *Service) {
		s.state = state
	}
}

func New(cmd command.Executor, scanner *archives.Scanner, store *audit.Store, opts ...Option) *Service {
	s := &Service{
		cmd:     cmd,
		scanner: scanner,
		store:   store,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.state == nil {
		s.state = NewState()
	}
	return s
}

func (s *Service) State() *State {
	return s.state
}

// LoadCatalog loads the machine list and version of the emulator at path.
// On success the State holds the new machines with no reconciled result.
func (s *Service) LoadCatalog(ctx context.Context, path string) *Job[*Snapshot] {
	gen := s.loads.Add(1)
	return startJob("catalog", func(progress func(string)) (*Snapshot, error) {
		if path == "" {
			return nil, ErrNoEmulator
		}

		emu := Emulator{Path: path, Name: catalog.Name(path)}
		progress("Querying emulator version")
		emu.Version = catalog.Version(ctx, s.cmd, path)

		progress("Loading machine list")
		machines, err := catalog.Load(ctx, s.cmd, path)
		if err != nil {
			return nil, err
		}
		stats := catalog.Summarize(machines)
		progress(fmt.Sprintf("Loaded %d games (%d working)", stats.Total, stats.Working))

		published, _ := s.state.UpdateIf(func(next *Snapshot) bool {
			if s.loads.Load() != gen {
				log.Info().Str("emulator", path).Msg("newer catalog load started, not publishing")
				return false
			}
			next.Emulator = emu
			next.Machines = machines
			next.LoadedAt = s.clock.Now()
			next.Result = nil
			next.Audit = nil
			next.Classification = romset.Unknown
			next.catalog = gen
			return true
		})
		return published, nil
	})
}

// ReconcileRequest selects the inventory source and expansion mode.
type ReconcileRequest struct {
	RomDirs []string
	Options romset.Options
	// UseAudit prefers the cached availability snapshot of the current
	// emulator over a directory scan.
	UseAudit bool
}

// Reconcile rebuilds the ROM collection from the current machine list.
func (s *Service) Reconcile(req ReconcileRequest) *Job[*Snapshot] {
	gen := s.reconciles.Add(1)
	current := s.state.Current()
	machines := maps.Clone(current.Machines)
	emu := current.Emulator
	catalogGen := current.catalog
	dirs := append([]string(nil), req.RomDirs...)

	return startJob("reconcile", func(progress func(string)) (*Snapshot, error) {
		if len(machines) == 0 {
			return nil, ErrNotLoaded
		}

		var snap *audit.Snapshot
		if req.UseAudit {
			cached, ok := s.store.Load(emu.Identity())
			switch {
			case !ok:
				progress("No audit found for this emulator, scanning directories")
			case cached.Empty():
				progress("Audit lists no available sets, scanning directories")
			default:
				snap = cached
			}
		}

		progress(fmt.Sprintf("Scanning %d ROM directories", len(dirs)))
		entries := s.scanner.Scan(dirs)
		class := romset.ClassifyEntries(sample(entries), machines)
		progress(fmt.Sprintf("Detected %s sets", class))

		result := romset.Reconcile(romset.Input{
			Machines:  machines,
			Inspector: s.scanner,
			Snapshot:  snap,
			Entries:   entries,
		}, req.Options, progress)

		published, ok := s.state.UpdateIf(func(next *Snapshot) bool {
			switch {
			case s.reconciles.Load() != gen:
				log.Info().Msg("newer reconcile started, not publishing")
				return false
			case next.catalog != catalogGen:
				log.Info().Msg("machine list changed during reconcile, not publishing")
				return false
			}
			next.Result = result
			next.Audit = snap
			next.Classification = class
			next.ReconciledAt = s.clock.Now()
			return true
		})
		if !ok {
			progress("Discarded: a newer reconcile or machine list replaced this one")
		}
		return published, nil
	})
}

// sample mirrors the per-directory sampling order of romset.Classify over
// an already scanned entry list.
func sample(entries []archives.Entry) []archives.Entry {
	if len(entries) > romset.SampleSize {
		return entries[:romset.SampleSize]
	}
	return entries
}

// Audit runs the emulator's verifier and stores the resulting snapshot.
// It does not reconcile; start Reconcile afterwards to use it.
func (s *Service) Audit(ctx context.Context, romDirs []string) *Job[audit.BuildResult] {
	emu := s.state.Current().Emulator
	dirs := append([]string(nil), romDirs...)

	return startJob("audit", func(progress func(string)) (audit.BuildResult, error) {
		if emu.Path == "" {
			return audit.BuildResult{}, ErrNoEmulator
		}
		res, err := s.store.Build(ctx, audit.BuildRequest{
			EmulatorPath: emu.Path,
			Identity:     emu.Identity(),
			RomDirs:      dirs,
		}, progress)
		if err != nil {
			return res, fmt.Errorf("audit failed: %w", err)
		}
		if res.Warning != "" {
			progress(res.Warning)
		} else {
			progress("Audit complete: " + res.Report.String())
		}
		return res, nil
	})
}
