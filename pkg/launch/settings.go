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

// Package launch builds the emulator command line for a machine from the
// user's video settings and graphics presets.
package launch

const (
	BackendAuto     = "auto"
	BackendOpenGL   = "opengl"
	BackendBGFX     = "bgfx"
	BackendSoftware = "soft"
	BackendD3D      = "d3d"
	BackendMetal    = "metal"
)

// Backends lists every accepted video backend value.
var Backends = []string{BackendAuto, BackendOpenGL, BackendBGFX, BackendSoftware, BackendD3D, BackendMetal}

// Settings are the user's global video options. They are applied after
// the graphics preset, so an explicit setting wins over the preset.
type Settings struct {
	Backend     string `toml:"backend" validate:"backend"`
	CustomArgs  string `toml:"custom_args,omitempty"`
	Prescale    int    `toml:"prescale" validate:"min=0,max=3"`
	NumScreens  int    `toml:"num_screens" validate:"min=1,max=4"`
	Window      bool   `toml:"window"`
	Maximize    bool   `toml:"maximize"`
	WaitVSync   bool   `toml:"wait_vsync"`
	SyncRefresh bool   `toml:"sync_refresh"`
	KeepAspect  bool   `toml:"keep_aspect"`
	Filter      bool   `toml:"filter"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendAuto,
		Window:     true,
		KeepAspect: true,
		Filter:     true,
		NumScreens: 1,
	}
}
