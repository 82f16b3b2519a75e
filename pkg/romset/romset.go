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

// Package romset decides which machines in a ROM collection are playable.
//
// Reconcile combines the emulator's machine catalog with the archives found
// on disk (or a verified availability snapshot) and returns an immutable
// Result. Nothing is updated incrementally: any change to directories,
// emulator or mode means calling Reconcile again and replacing the old
// Result wholesale.
package romset

import (
	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/audit"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
)

// Mode selects how clones inside parent archives are detected.
type Mode int

const (
	// ModeAccurate adds a clone only when the parent archive appears to
	// hold its files.
	ModeAccurate Mode = iota
	// ModeFast assumes every parent archive is a merged set and adds all
	// of its known clones without opening it.
	ModeFast
)

func (m Mode) String() string {
	if m == ModeFast {
		return "fast"
	}
	return "accurate"
}

// DefaultMergedThreshold is the interior file count above which a parent
// archive is treated as a merged bundle in accurate mode.
const DefaultMergedThreshold = 5

// Options tunes reconciliation.
type Options struct {
	Mode Mode
	// MergedThreshold is compared against a parent archive's file count
	// in accurate mode. Zero or less means DefaultMergedThreshold.
	MergedThreshold int
}

func (o Options) threshold() int {
	if o.MergedThreshold <= 0 {
		return DefaultMergedThreshold
	}
	return o.MergedThreshold
}

// Source records which inventory policy produced a Result.
type Source int

const (
	SourceScan Source = iota
	SourceAudit
)

func (s Source) String() string {
	if s == SourceAudit {
		return "audit"
	}
	return "scan"
}

// Rom is one row of the reconciled collection.
type Rom struct {
	Name      string
	ID        string
	Parent    string
	IsClone   bool
	HasClones bool
	IsVirtual bool
}

// Ref names a machine by title and identifier.
type Ref struct {
	Name string
	ID   string
}

// Plan is the parent/clone structure of one reconciled collection. It is
// rebuilt with every Result and never patched.
type Plan struct {
	// ParentToClones lists the clones present in the collection under
	// their parent, ordered by title.
	ParentToClones map[string][]Ref
	CloneToParent  map[string]string
	// VirtualParents maps a missing parent to its synthesized title.
	VirtualParents map[string]string
}

// HasClones reports whether id has at least one clone in the collection.
func (p *Plan) HasClones(id string) bool {
	return len(p.ParentToClones[id]) > 0
}

// Result is an immutable reconciled collection.
type Result struct {
	Plan Plan
	// OnDisk maps each archive stem found on disk to its first path.
	OnDisk  map[string]string
	Roms    []Rom
	Virtual []Rom
	Source  Source
	Mode    Mode
}

// Len returns the number of real entries.
func (r *Result) Len() int {
	return len(r.Roms)
}

// Find returns the entry with the given identifier, real or virtual.
func (r *Result) Find(id string) (Rom, bool) {
	for _, list := range [][]Rom{r.Roms, r.Virtual} {
		for i := range list {
			if list[i].ID == id {
				return list[i], true
			}
		}
	}
	return Rom{}, false
}

// IDs returns the real identifiers in result order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Roms))
	for i := range r.Roms {
		ids[i] = r.Roms[i].ID
	}
	return ids
}

// Inspector lists the files inside an archive.
type Inspector interface {
	List(path string) ([]string, error)
}

// Input is everything one reconciliation reads.
type Input struct {
	Machines  map[string]catalog.Machine
	Inspector Inspector
	// Snapshot is the availability for the selected emulator. Nil or
	// empty selects the scan-driven inventory.
	Snapshot *audit.Snapshot
	Entries  []archives.Entry
}
