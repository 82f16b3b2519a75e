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

import "slices"

// DisplayOptions controls which rows Display emits.
type DisplayOptions struct {
	// Expanded holds the parents whose clones are listed beneath them.
	Expanded map[string]bool
	// Filter decides whether a real entry is shown. Virtual entries are
	// never filtered. Nil shows everything.
	Filter        func(Rom) bool
	ShowAllClones bool
}

func (o DisplayOptions) keep(r Rom) bool {
	return r.IsVirtual || o.Filter == nil || o.Filter(r)
}

// Display returns the rows to show for a result. Real and virtual entries
// are sorted together by title. A clone appears only when its parent is
// expanded or ShowAllClones is set; clones of an expanded parent are
// listed directly beneath it. No identifier is emitted twice.
func Display(result *Result, opts DisplayOptions) []Rom {
	all := make([]Rom, 0, len(result.Roms)+len(result.Virtual))
	all = append(all, result.Roms...)
	all = append(all, result.Virtual...)
	slices.SortStableFunc(all, compareRoms)

	byID := make(map[string]Rom, len(all))
	for _, r := range all {
		if _, ok := byID[r.ID]; !ok {
			byID[r.ID] = r
		}
	}

	// listed parents take their expanded clones with them
	listed := make(map[string]bool)
	for _, r := range all {
		if !r.IsClone && opts.keep(r) {
			listed[r.ID] = true
		}
	}

	out := make([]Rom, 0, len(all))
	emitted := make(map[string]bool, len(all))
	emit := func(r Rom) {
		r.HasClones = result.Plan.HasClones(r.ID)
		out = append(out, r)
		emitted[r.ID] = true
	}

	for _, r := range all {
		if emitted[r.ID] {
			continue
		}

		if r.IsClone {
			expanded := opts.Expanded[r.Parent]
			if !expanded && !opts.ShowAllClones {
				continue
			}
			if expanded && listed[r.Parent] {
				continue
			}
			if opts.keep(r) {
				emit(r)
			}
			continue
		}

		if !opts.keep(r) {
			continue
		}
		emit(r)

		if !opts.Expanded[r.ID] {
			continue
		}
		for _, ref := range result.Plan.ParentToClones[r.ID] {
			clone, ok := byID[ref.ID]
			if !ok || emitted[clone.ID] || !opts.keep(clone) {
				continue
			}
			emit(clone)
		}
	}

	return out
}
