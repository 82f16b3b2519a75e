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

package config

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// v1Values is the flat layout written before schema 2. It had no video or
// graphics sections; those come from the defaults.
type v1Values struct {
	AuditDir         string   `toml:"audit_dir"`
	MameExecutables  []string `toml:"mame_executables"`
	RomDirs          []string `toml:"rom_dirs"`
	ExtraRomDirs     []string `toml:"extra_rom_dirs"`
	FavoriteGames    []string `toml:"favorite_games"`
	SelectedMame     int      `toml:"selected_mame_index"`
	ConfigSchema     int      `toml:"config_schema"`
	UseMameAudit     bool     `toml:"use_mame_audit"`
	AssumeMergedSets bool     `toml:"assume_merged_sets"`
	DebugLogging     bool     `toml:"debug_logging"`
}

// migrateV1 maps a schema 1 (or unversioned) file onto defaults. Fields
// the old layout lacks keep their default values.
//
//nolint:gocritic // defaults copied on purpose
func migrateV1(data []byte, defaults Values) (Values, error) {
	var old v1Values
	if err := toml.Unmarshal(data, &old); err != nil {
		return Values{}, fmt.Errorf("failed to unmarshal schema %d config: %w", old.ConfigSchema, err)
	}
	log.Info().Msgf("migrating config from schema %d to %d", old.ConfigSchema, SchemaVersion)

	vals := defaults
	vals.ConfigSchema = SchemaVersion
	vals.DebugLogging = old.DebugLogging
	vals.AuditDir = old.AuditDir
	vals.Emulators.Paths = old.MameExecutables
	vals.Emulators.Selected = old.SelectedMame
	vals.Roms.Dirs = old.RomDirs
	vals.Roms.ExtraDirs = old.ExtraRomDirs
	vals.Roms.Favorites = old.FavoriteGames
	vals.Roms.UseAudit = old.UseMameAudit
	vals.Roms.AssumeMerged = old.AssumeMergedSets
	return vals, nil
}
