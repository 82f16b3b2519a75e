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

package launch

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNoMachine is returned when no machine identifier is given.
var ErrNoMachine = errors.New("no machine to launch")

// Request is one launch.
type Request struct {
	ID       string
	RomDirs  []string
	Graphics Graphics
	Settings Settings
	// DataDirs adds relative nvram, cfg, state and snapshot directories,
	// for emulators started in a dedicated data directory.
	DataDirs bool
}

// Build returns the emulator arguments for req: the ROM path, the
// machine's graphics preset, the video settings and finally the machine
// identifier, which is always last.
func Build(req Request) ([]string, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrNoMachine
	}
	if err := Validate(&req.Settings); err != nil {
		return nil, err
	}

	args := []string{"-rompath", strings.Join(req.RomDirs, ";")}

	if req.DataDirs {
		args = append(args,
			"-nvram_directory", "nvram",
			"-cfg_directory", "cfg",
			"-state_directory", "sta",
			"-snapshot_directory", "snap",
		)
	}

	preset := req.Graphics.ForMachine(req.ID)
	args = append(args, preset.Args()...)
	args = append(args, req.Settings.Args()...)

	return append(args, req.ID), nil
}

// Args returns the emulator arguments for the video settings.
func (s *Settings) Args() []string {
	var args []string

	if s.Backend != "" && s.Backend != BackendAuto {
		args = append(args, "-video", s.Backend)
	}
	if s.Window {
		args = append(args, "-window")
	}
	if s.Maximize {
		args = append(args, "-maximize")
	}
	if s.WaitVSync {
		args = append(args, "-waitvsync")
	}
	if s.SyncRefresh {
		args = append(args, "-syncrefresh")
	}
	if s.Prescale > 0 {
		args = append(args, "-prescale", strconv.Itoa(s.Prescale))
	}
	if !s.KeepAspect {
		args = append(args, "-nokeepaspect")
	}
	if !s.Filter {
		args = append(args, "-nofilter")
	}
	if s.NumScreens > 1 {
		args = append(args, "-numscreens", strconv.Itoa(s.NumScreens))
	}

	return append(args, strings.Fields(s.CustomArgs)...)
}
