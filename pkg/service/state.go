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

// Package service runs the slow parts of the front-end off the caller's
// goroutine and holds the latest results.
//
// Catalog loading, reconciliation and audit builds each return a Job the
// caller polls for progress. Finished results are published as a new
// immutable Snapshot; readers never see a half-updated collection.
package service

import (
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/audit"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
)

// Emulator identifies the emulator a catalog was loaded from.
type Emulator struct {
	Path    string
	Name    string
	Version string
}

// Identity is the audit cache key for the emulator.
func (e Emulator) Identity() string {
	return audit.Identity(e.Name, e.Version)
}

// Snapshot is one consistent view of the front-end state. Nothing
// reachable from a published Snapshot is modified afterwards.
type Snapshot struct {
	Machines       map[string]catalog.Machine
	Result         *romset.Result
	Audit          *audit.Snapshot
	LoadedAt       time.Time
	ReconciledAt   time.Time
	Emulator       Emulator
	Classification romset.Classification
	// catalog numbers the machine list load this snapshot carries, so a
	// result built from an older list is never paired with a newer one.
	catalog uint64
}

// Loaded reports whether a machine list is present.
func (s *Snapshot) Loaded() bool {
	return len(s.Machines) > 0
}

// State publishes Snapshots. The zero value is not usable, use NewState.
type State struct {
	current atomic.Pointer[Snapshot]
}

func NewState() *State {
	s := &State{}
	s.current.Store(&Snapshot{})
	return s
}

// Current returns the latest Snapshot. Callers must not modify it.
func (s *State) Current() *Snapshot {
	return s.current.Load()
}

// Update publishes a copy of the current Snapshot with fn applied. fn may
// run more than once if another update wins the race, so it must only
// touch the copy it is given.
func (s *State) Update(fn func(next *Snapshot)) *Snapshot {
	next, _ := s.UpdateIf(func(next *Snapshot) bool {
		fn(next)
		return true
	})
	return next
}

// UpdateIf is Update for changes that only apply to some snapshots. When
// fn returns false nothing is published and the current Snapshot is
// returned with false.
func (s *State) UpdateIf(fn func(next *Snapshot) bool) (*Snapshot, bool) {
	for {
		prev := s.current.Load()
		next := *prev
		if !fn(&next) {
			return prev, false
		}
		if s.current.CompareAndSwap(prev, &next) {
			return &next, true
		}
	}
}
