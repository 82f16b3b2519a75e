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

package romset

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/rs/zerolog/log"
)

const (
	virtualSuffix    = " (Parent ROM)"
	progressInterval = 250
)

// Lineage maps every parent in the catalog to its clone identifiers in
// lexical order.
func Lineage(machines map[string]catalog.Machine) map[string][]string {
	lineage := make(map[string][]string)
	for id := range machines {
		if parent := machines[id].Parent; parent != "" {
			lineage[parent] = append(lineage[parent], id)
		}
	}
	for parent := range lineage {
		slices.Sort(lineage[parent])
	}
	return lineage
}

// Reconcile builds the playable collection. progress, when set, receives
// human-readable status lines in order.
func Reconcile(in Input, opts Options, progress func(string)) *Result {
	report := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		log.Debug().Msg(msg)
		if progress != nil {
			progress(msg)
		}
	}

	result := &Result{
		Mode:   opts.Mode,
		OnDisk: make(map[string]string, len(in.Entries)),
	}
	for _, e := range in.Entries {
		if _, ok := result.OnDisk[e.Stem]; !ok {
			result.OnDisk[e.Stem] = e.Path
		}
	}

	var ids []string
	if !in.Snapshot.Empty() {
		result.Source = SourceAudit
		ids = auditInventory(in)
		report("Loaded %d verified sets from audit", len(ids))
	} else {
		result.Source = SourceScan
		ids = scanInventory(in, opts, report)
	}

	result.Roms = make([]Rom, 0, len(ids))
	for _, id := range ids {
		m, known := in.Machines[id]
		result.Roms = append(result.Roms, Rom{
			Name:    catalog.Title(in.Machines, id),
			ID:      id,
			Parent:  m.Parent,
			IsClone: known && m.Parent != "",
		})
	}
	sortRoms(result.Roms)

	result.Plan = buildPlan(result.Roms)
	result.Virtual = virtualParents(in.Machines, result)
	for i := range result.Roms {
		result.Roms[i].HasClones = result.Plan.HasClones(result.Roms[i].ID)
	}

	log.Info().
		Str("source", result.Source.String()).
		Str("mode", result.Mode.String()).
		Int("roms", len(result.Roms)).
		Int("virtual", len(result.Virtual)).
		Msg("reconciled rom collection")
	report("Found %d games (%d virtual parents)", len(result.Roms), len(result.Virtual))

	return result
}

func auditInventory(in Input) []string {
	all := in.Snapshot.IDs()
	ids := make([]string, 0, len(all))
	for _, id := range all {
		if m, ok := in.Machines[id]; ok && !m.IsGame() {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func scanInventory(in Input, opts Options, report func(string, ...any)) []string {
	lineage := Lineage(in.Machines)
	seen := make(map[string]bool, len(in.Entries))
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for i, e := range in.Entries {
		add(e.Stem)

		clones := lineage[e.Stem]
		if len(clones) > 0 {
			switch opts.Mode {
			case ModeFast:
				for _, clone := range clones {
					add(clone)
				}
			case ModeAccurate:
				for _, clone := range presentClones(in, e, clones, opts.threshold()) {
					add(clone)
				}
			}
		}

		if (i+1)%progressInterval == 0 {
			report("Scanned %d of %d archives", i+1, len(in.Entries))
		}
	}
	report("Scanned %d archives", len(in.Entries))
	return ids
}

// presentClones opens the parent archive once and returns the clones it
// appears to contain.
func presentClones(in Input, e archives.Entry, clones []string, threshold int) []string {
	if in.Inspector == nil {
		return nil
	}
	names, err := in.Inspector.List(e.Path)
	if err != nil {
		log.Debug().Err(err).Str("path", e.Path).Msg("cannot inspect parent archive, assuming no clones")
		return nil
	}

	var found []string
	for _, clone := range clones {
		_, known := in.Machines[clone]
		if archives.HasEntryPrefix(names, clone) || (known && len(names) > threshold) {
			found = append(found, clone)
		}
	}
	return found
}

func buildPlan(roms []Rom) Plan {
	plan := Plan{
		ParentToClones: make(map[string][]Ref),
		CloneToParent:  make(map[string]string),
	}
	for i := range roms {
		if !roms[i].IsClone {
			continue
		}
		parent := roms[i].Parent
		plan.CloneToParent[roms[i].ID] = parent
		plan.ParentToClones[parent] = append(plan.ParentToClones[parent], Ref{
			Name: roms[i].Name,
			ID:   roms[i].ID,
		})
	}
	return plan
}

// virtualParents synthesizes an entry for every parent that has clones in
// the collection but is neither on disk nor in the collection itself.
func virtualParents(machines map[string]catalog.Machine, result *Result) []Rom {
	present := make(map[string]bool, len(result.Roms))
	for i := range result.Roms {
		present[result.Roms[i].ID] = true
	}

	result.Plan.VirtualParents = make(map[string]string)
	var virtual []Rom
	for parent, clones := range result.Plan.ParentToClones {
		if present[parent] || len(clones) == 0 {
			continue
		}
		if _, onDisk := result.OnDisk[parent]; onDisk {
			continue
		}
		name := VirtualName(machines, parent, clones)
		result.Plan.VirtualParents[parent] = name
		virtual = append(virtual, Rom{
			Name:      name,
			ID:        parent,
			HasClones: true,
			IsVirtual: true,
		})
	}
	sortRoms(virtual)
	return virtual
}

// VirtualName titles a parent that is missing from the collection: its
// own description when the catalog has one, otherwise the description of
// its first clone (by identifier) with any parenthesized suffix removed,
// otherwise the identifier in upper case. The last two carry a
// "(Parent ROM)" marker.
func VirtualName(machines map[string]catalog.Machine, parent string, clones []Ref) string {
	if m, ok := machines[parent]; ok && m.Description != "" {
		return m.Description
	}

	if len(clones) > 0 {
		first := slices.MinFunc(clones, func(a, b Ref) int {
			return cmp.Compare(a.ID, b.ID)
		})
		if m, ok := machines[first.ID]; ok && m.Description != "" {
			base, _, _ := strings.Cut(m.Description, "(")
			if base = strings.TrimSpace(base); base != "" {
				return base + virtualSuffix
			}
		}
	}

	return strings.ToUpper(parent) + virtualSuffix
}

// sortRoms orders by case-insensitive title, then identifier.
func sortRoms(roms []Rom) {
	slices.SortStableFunc(roms, compareRoms)
}

func compareRoms(a, b Rom) int {
	if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
