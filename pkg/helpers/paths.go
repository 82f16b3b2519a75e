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

package helpers

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/config"
)

// UserDir is the directory next to the executable that turns an install
// portable: config, logs and the audit cache all live inside it.
const UserDir = "user"

// AppEnv overrides the executable path used to find UserDir.
const AppEnv = "ARCADE_APP"

var (
	userDirOnce   sync.Once
	userDirCache  string
	userDirExists bool
)

func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

// FindUserDir returns the UserDir beside exePath when it exists.
func FindUserDir(exePath string) (string, bool) {
	if exePath == "" {
		return "", false
	}
	dir := filepath.Join(filepath.Dir(exePath), UserDir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}

// HasUserDir reports whether this is a portable install. The result is
// cached after the first call.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exe := os.Getenv(AppEnv)
		if exe == "" {
			var err error
			if exe, err = os.Executable(); err != nil {
				return
			}
		}
		userDirCache, userDirExists = FindUserDir(exe)
	})
	return userDirCache, userDirExists
}

func ConfigDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return config.ConfigDir()
}

func DataDir() string {
	if v, ok := HasUserDir(); ok {
		return v
	}
	return config.DataDir()
}
