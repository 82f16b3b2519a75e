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

// Package diagnostics explains why a ROM collection looks the way it does.
package diagnostics

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/audit"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
	"github.com/spf13/afero"
)

// Input is everything the report looks at. Nil Result and Audit are
// allowed.
type Input struct {
	Fs             afero.Fs
	Scanner        *archives.Scanner
	Machines       map[string]catalog.Machine
	Result         *romset.Result
	Audit          *audit.Snapshot
	RomDirs        []string
	Classification romset.Classification
	UseAudit       bool
}

type DirStatus struct {
	Path     string
	Archives int
	Exists   bool
}

type AuditStatus struct {
	Updated   time.Time
	Available int
	Enabled   bool
	Found     bool
}

// MissingParent is a clone in the collection whose parent is not.
type MissingParent struct {
	Clone  string
	Parent string
}

// Report is a snapshot of the setup. String renders it for people.
type Report struct {
	Dirs           []DirStatus
	MissingParents []MissingParent
	Hints          []string
	Audit          AuditStatus
	Classification romset.Classification
	Games          int
	Virtual        int
}

// Diagnose builds a Report.
func Diagnose(in Input) *Report {
	r := &Report{
		Classification: in.Classification,
		Audit: AuditStatus{
			Enabled: in.UseAudit,
			Found:   in.Audit != nil,
		},
	}
	if in.Audit != nil {
		r.Audit.Available = len(in.Audit.Available)
		r.Audit.Updated = in.Audit.Updated
	}
	if in.Result != nil {
		r.Games = in.Result.Len()
		r.Virtual = len(in.Result.Virtual)
		r.MissingParents = MissingParents(in.Result, in.Machines)
	}

	for _, dir := range in.RomDirs {
		status := DirStatus{Path: dir}
		if ok, err := afero.DirExists(in.Fs, dir); err == nil && ok {
			status.Exists = true
			status.Archives = in.Scanner.CountArchives(dir)
		}
		r.Dirs = append(r.Dirs, status)
	}

	r.Hints = hints(r, in)
	return r
}

func hints(r *Report, in Input) []string {
	var out []string
	for _, d := range r.Dirs {
		if !d.Exists {
			out = append(out, fmt.Sprintf("ROM directory %s does not exist; check the path", d.Path))
		}
	}
	if len(in.RomDirs) == 0 {
		out = append(out, "No ROM directories configured")
	}
	if len(in.Machines) == 0 {
		out = append(out, "No machine list loaded; check the emulator path")
	}
	if r.Classification == romset.Merged && !in.UseAudit {
		out = append(out, "Merged sets detected; enable audit mode to list clones inside parent archives")
	}
	if in.UseAudit && in.Audit == nil {
		out = append(out, "Audit mode is on but no audit exists for this emulator; run an audit")
	}
	if in.Result != nil && r.Games == 0 && len(in.RomDirs) > 0 {
		out = append(out,
			"No games loaded. Possible causes: merged sets without an audit, "+
				"sets not stored as zip or 7z archives, a wrong ROM directory, "+
				"or filters hiding every game")
	}
	return out
}

// MissingParents lists clones in result whose parent is neither a real
// entry nor synthesized, ordered by clone identifier. Virtual parents
// count as missing, since their data is not on disk.
func MissingParents(result *romset.Result, machines map[string]catalog.Machine) []MissingParent {
	if result == nil {
		return nil
	}
	present := make(map[string]bool, len(result.Roms))
	for i := range result.Roms {
		present[result.Roms[i].ID] = true
	}

	var out []MissingParent
	for i := range result.Roms {
		m, ok := machines[result.Roms[i].ID]
		if !ok || m.Parent == "" || present[m.Parent] {
			continue
		}
		out = append(out, MissingParent{Clone: m.ID, Parent: m.Parent})
	}
	slices.SortFunc(out, func(a, b MissingParent) int {
		return strings.Compare(a.Clone, b.Clone)
	})
	return out
}

func (r *Report) String() string {
	var b strings.Builder

	b.WriteString("ROM directories:\n")
	if len(r.Dirs) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, d := range r.Dirs {
		if d.Exists {
			fmt.Fprintf(&b, "  ok       %s (%d archives)\n", d.Path, d.Archives)
		} else {
			fmt.Fprintf(&b, "  missing  %s\n", d.Path)
		}
	}

	fmt.Fprintf(&b, "\nSet type: %s\n", r.Classification)

	b.WriteString("\nAudit:\n")
	switch {
	case !r.Audit.Enabled:
		b.WriteString("  disabled\n")
	case !r.Audit.Found:
		b.WriteString("  enabled, no audit found\n")
	default:
		fmt.Fprintf(&b, "  enabled, %d sets available\n", r.Audit.Available)
		if !r.Audit.Updated.IsZero() {
			fmt.Fprintf(&b, "  last audit: %s\n", r.Audit.Updated.Format(time.DateTime))
		}
	}

	fmt.Fprintf(&b, "\nGames loaded: %d (%d virtual parents)\n", r.Games, r.Virtual)
	if len(r.MissingParents) > 0 {
		fmt.Fprintf(&b, "Clones without their parent: %d\n", len(r.MissingParents))
	}

	if len(r.Hints) > 0 {
		b.WriteString("\nTroubleshooting:\n")
		for _, h := range r.Hints {
			fmt.Fprintf(&b, "  - %s\n", h)
		}
	}
	return b.String()
}
