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

package cli

import (
	"flag"
	"strings"
)

type Flags struct {
	Emulator       *string
	RomDirs        *string
	Search         *string
	Sort           *string
	Launch         *string
	Export         *string
	Expand         *string
	List           *bool
	Classify       *bool
	Audit          *bool
	Diagnose       *bool
	MissingParents *bool
	Prune          *bool
	Watch          *bool
	DryRun         *bool
	Descending     *bool
	Fast           *bool
	Version        *bool
	Debug          *bool
}

// SetupFlags defines every CLI flag on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Emulator: fs.String(
			"emulator",
			"",
			"emulator executable to use instead of the configured one",
		),
		RomDirs: fs.String(
			"roms",
			"",
			"semicolon separated ROM directories to use instead of the configured ones",
		),
		Search: fs.String(
			"search",
			"",
			"only list games whose title or id contains this text",
		),
		Sort: fs.String(
			"sort",
			"",
			"sort column: title, id, year, manufacturer or status",
		),
		Launch: fs.String(
			"launch",
			"",
			"launch the game with this id",
		),
		Export: fs.String(
			"export",
			"",
			"write the game list to this CSV file",
		),
		Expand: fs.String(
			"expand",
			"",
			"comma separated parents whose clones are listed beneath them",
		),
		List: fs.Bool(
			"list",
			false,
			"print the game list",
		),
		Classify: fs.Bool(
			"classify",
			false,
			"print the detected ROM set type",
		),
		Audit: fs.Bool(
			"audit",
			false,
			"verify ROM sets with the emulator and cache the results",
		),
		Diagnose: fs.Bool(
			"diagnose",
			false,
			"print a report on the ROM setup",
		),
		MissingParents: fs.Bool(
			"missing-parents",
			false,
			"list clones whose parent set is not present",
		),
		Prune: fs.Bool(
			"prune",
			false,
			"remove cached audits for emulators no longer configured",
		),
		Watch: fs.Bool(
			"watch",
			false,
			"keep running and rebuild the list when ROM directories change",
		),
		DryRun: fs.Bool(
			"dry-run",
			false,
			"print the launch command instead of running it",
		),
		Descending: fs.Bool(
			"desc",
			false,
			"sort descending",
		),
		Fast: fs.Bool(
			"fast",
			false,
			"assume clones are inside parent archives without checking",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
}

func isFlagPassed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// splitList splits on sep and drops empty items.
func splitList(s, sep string) []string {
	var out []string
	for _, item := range strings.Split(s, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
