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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/filters"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/launch"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 2
	CfgEnv        = "ARCADE_CFG"
)

type Values struct {
	Graphics     launch.Graphics  `toml:"graphics"`
	Emulators    Emulators        `toml:"emulators"`
	Filters      filters.Settings `toml:"filters"`
	AuditDir     string           `toml:"audit_dir,omitempty"`
	Roms         Roms             `toml:"roms"`
	Video        launch.Settings  `toml:"video"`
	ConfigSchema int              `toml:"config_schema"`
	DebugLogging bool             `toml:"debug_logging"`
}

type Emulators struct {
	Paths    []string `toml:"paths,omitempty,multiline"`
	Selected int      `toml:"selected"`

	// DataDirs keeps nvram, cfg, state and snapshot folders next to the
	// emulator instead of wherever it was started from.
	DataDirs bool `toml:"data_dirs"`
}

type Roms struct {
	Dirs            []string `toml:"dirs,omitempty,multiline"`
	ExtraDirs       []string `toml:"extra_dirs,omitempty,multiline"`
	Favorites       []string `toml:"favorites,omitempty,multiline"`
	SortColumn      string   `toml:"sort_column,omitempty"`
	MergedThreshold int      `toml:"merged_threshold"`
	UseAudit        bool     `toml:"use_audit"`
	AssumeMerged    bool     `toml:"assume_merged"`
	ShowAllClones   bool     `toml:"show_all_clones"`
	SortDescending  bool     `toml:"sort_descending"`
}

// BaseDefaults returns the values used for anything a config file does
// not set.
func BaseDefaults() Values {
	return Values{
		ConfigSchema: SchemaVersion,
		Emulators:    Emulators{DataDirs: true},
		Roms: Roms{
			MergedThreshold: 5,
			SortColumn:      string(filters.ColumnTitle),
		},
		Video:    launch.DefaultSettings(),
		Graphics: launch.DefaultGraphics(),
		Filters:  filters.Settings{Status: filters.StatusAll},
	}
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file in configDir, or the file named by
// ARCADE_CFG, writing defaults first if it does not exist.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Path returns the config file location.
func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals, migrated, err := decode(data, c.defaults)
	if err != nil {
		return err
	}

	if err := launch.Validate(&newVals.Video); err != nil {
		log.Warn().Err(err).Msg("invalid video settings, using defaults")
		newVals.Video = c.defaults.Video
	}
	if err := launch.Validate(&newVals.Graphics); err != nil {
		log.Warn().Err(err).Msg("invalid graphics settings, using defaults")
		newVals.Graphics = c.defaults.Graphics
	}
	if newVals.Emulators.Selected < 0 || newVals.Emulators.Selected >= len(newVals.Emulators.Paths) {
		newVals.Emulators.Selected = 0
	}

	c.vals = newVals

	if migrated {
		log.Info().Int("schema", SchemaVersion).Msg("saving migrated config")
		if err := c.save(); err != nil {
			return err
		}
	}
	return nil
}

// decode overlays data on defaults, migrating older schemas. It reports
// whether a migration happened.
//
//nolint:gocritic // defaults copied on purpose
func decode(data []byte, defaults Values) (Values, bool, error) {
	var header struct {
		ConfigSchema int `toml:"config_schema"`
	}
	if err := toml.Unmarshal(data, &header); err != nil {
		return Values{}, false, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch {
	case header.ConfigSchema == SchemaVersion:
		vals := defaults
		if err := toml.Unmarshal(data, &vals); err != nil {
			return Values{}, false, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		return vals, false, nil
	case header.ConfigSchema < SchemaVersion:
		vals, err := migrateV1(data, defaults)
		if err != nil {
			return Values{}, false, err
		}
		return vals, true, nil
	default:
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			header.ConfigSchema,
			SchemaVersion,
		)
		return Values{}, false, errors.New("schema version mismatch")
	}
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save()
}

func (c *Instance) save() error {
	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// AuditDir is where availability snapshots are cached. dataDir is used
// when the config does not name one.
func (c *Instance) AuditDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.AuditDir != "" {
		return c.vals.AuditDir
	}
	return filepath.Join(dataDir, AuditDir)
}
