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
	"strconv"
	"strings"
)

// DefaultPresetName is the global preset when none is configured.
const DefaultPresetName = "Original"

// Preset is a named bundle of rendering options.
type Preset struct {
	Name        string   `toml:"name" validate:"required"`
	Description string   `toml:"description,omitempty"`
	Backend     string   `toml:"backend" validate:"backend"`
	ShaderChain string   `toml:"shader_chain,omitempty"`
	CustomArgs  []string `toml:"custom_args,omitempty"`
	Prescale    int      `toml:"prescale" validate:"min=0,max=8"`
	Filter      bool     `toml:"filter"`
	Scanlines   bool     `toml:"scanlines"`
	KeepAspect  bool     `toml:"keep_aspect"`
}

// DefaultPresets returns the built-in presets.
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:        DefaultPresetName,
			Description: "Raw pixels, no enhancements",
			Backend:     BackendAuto,
			Prescale:    1,
			KeepAspect:  true,
		},
		{
			Name:        "CRT Classic",
			Description: "Arcade monitor with scanlines and curvature",
			Backend:     BackendBGFX,
			ShaderChain: "crt-geom",
			Filter:      true,
			Prescale:    1,
			Scanlines:   true,
			KeepAspect:  true,
		},
		{
			Name:        "CRT Deluxe",
			Description: "Enhanced CRT with bloom and halation",
			Backend:     BackendBGFX,
			ShaderChain: "crt-geom-deluxe",
			Filter:      true,
			Prescale:    1,
			Scanlines:   true,
			KeepAspect:  true,
			CustomArgs:  []string{"-bloom_lvl", "1.5"},
		},
		{
			Name:        "Sharp Pixels",
			Description: "Integer scaled, no filtering",
			Backend:     BackendOpenGL,
			Prescale:    3,
			KeepAspect:  true,
			CustomArgs:  []string{"-nounevenstretch"},
		},
		{
			Name:        "Smooth HD",
			Description: "Bilinear filtering for smooth appearance",
			Backend:     BackendOpenGL,
			Filter:      true,
			Prescale:    2,
			KeepAspect:  true,
		},
		{
			Name:        "LCD Grid",
			Description: "Modern LCD/LED display simulation",
			Backend:     BackendBGFX,
			ShaderChain: "lcd-grid",
			Filter:      true,
			Prescale:    1,
			KeepAspect:  true,
		},
		{
			Name:        "Arcade Phosphor",
			Description: "Phosphor glow and aperture grille",
			Backend:     BackendBGFX,
			ShaderChain: "crt-geom,aperture,bloom",
			Filter:      true,
			Prescale:    1,
			Scanlines:   true,
			KeepAspect:  true,
		},
	}
}

// Args returns the emulator arguments for the preset.
func (p *Preset) Args() []string {
	var args []string

	if p.Backend != "" && p.Backend != BackendAuto {
		args = append(args, "-video", p.Backend)
	}

	if p.ShaderChain != "" {
		switch p.Backend {
		case BackendBGFX:
			args = append(args, "-bgfx_screen_chains", p.ShaderChain)
		case BackendOpenGL:
			args = append(args, "-gl_glsl", "1", "-glsl_shader_mame0", p.ShaderChain)
		}
	}

	if p.Filter {
		args = append(args, "-filter")
	} else {
		args = append(args, "-nofilter")
	}

	if p.Prescale > 1 {
		args = append(args, "-prescale", strconv.Itoa(p.Prescale))
	}

	if p.KeepAspect {
		args = append(args, "-keepaspect")
	}

	return append(args, p.CustomArgs...)
}

// Override pins a machine to a preset, optionally with extra arguments.
type Override struct {
	Preset     string   `toml:"preset"`
	CustomArgs []string `toml:"custom_args,omitempty"`
}

// Graphics is the preset configuration: the built-in presets, any user
// presets, the global default and per-machine overrides.
type Graphics struct {
	Overrides    map[string]Override `toml:"overrides,omitempty"`
	GlobalPreset string              `toml:"global_preset"`
	Custom       []Preset            `toml:"custom_presets,omitempty" validate:"dive"`
}

// DefaultGraphics returns the graphics configuration used when none is
// configured.
func DefaultGraphics() Graphics {
	return Graphics{GlobalPreset: DefaultPresetName}
}

// Presets returns the built-in presets followed by the custom ones.
func (g *Graphics) Presets() []Preset {
	return append(DefaultPresets(), g.Custom...)
}

// Lookup finds a preset by name, case-insensitively. Built-in presets
// shadow custom presets of the same name.
func (g *Graphics) Lookup(name string) (Preset, bool) {
	for _, p := range g.Presets() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// ForMachine resolves the preset for id: its override when it names a
// known preset, else the global preset, else the first built-in preset.
// Override arguments are appended to the preset's own.
func (g *Graphics) ForMachine(id string) Preset {
	if o, ok := g.Overrides[id]; ok {
		if p, found := g.Lookup(o.Preset); found {
			p.CustomArgs = append(append([]string(nil), p.CustomArgs...), o.CustomArgs...)
			return p
		}
	}
	if p, ok := g.Lookup(g.GlobalPreset); ok {
		return p
	}
	return DefaultPresets()[0]
}
