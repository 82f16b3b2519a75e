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

package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/rs/zerolog/log"
)

// UnknownVersion is reported when the emulator does not answer -version.
const UnknownVersion = "Unknown"

// Load runs the emulator with -listxml and parses its machine list.
func Load(ctx context.Context, exec command.Executor, emulatorPath string) (map[string]Machine, error) {
	log.Info().Str("emulator", emulatorPath).Msg("loading machine list")

	out, err := exec.OutputWithOptions(
		ctx,
		command.Options{Dir: filepath.Dir(emulatorPath), HideWindow: true},
		emulatorPath,
		"-listxml",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s -listxml: %w", emulatorPath, err)
	}

	machines, err := ParseBytes(ctx, out)
	if err != nil {
		return nil, err
	}
	return machines, nil
}

// Version returns the first line the emulator prints for -version, or
// UnknownVersion when it cannot be queried.
func Version(ctx context.Context, exec command.Executor, emulatorPath string) string {
	out, err := exec.OutputWithOptions(
		ctx,
		command.Options{Dir: filepath.Dir(emulatorPath), HideWindow: true},
		emulatorPath,
		"-version",
	)
	if err != nil {
		log.Warn().Err(err).Str("emulator", emulatorPath).Msg("failed to query emulator version")
		return UnknownVersion
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return UnknownVersion
}

// Name returns the emulator's display name derived from its executable.
func Name(emulatorPath string) string {
	base := filepath.Base(emulatorPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
