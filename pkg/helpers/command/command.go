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

// Package command wraps exec.Command so emulator invocations can be mocked.
package command

import (
	"context"
	"os/exec"
)

// Options configures how an emulator process is started.
type Options struct {
	// Dir is the working directory of the process. Empty inherits the
	// caller's working directory.
	Dir string
	// HideWindow prevents a console window from appearing (Windows-only).
	HideWindow bool
}

// Executor runs external emulator processes.
type Executor interface {
	// Output runs a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// OutputWithOptions runs a command with the given options and returns its
	// standard output. A non-zero exit still returns whatever was written to
	// stdout alongside an *exec.ExitError.
	OutputWithOptions(ctx context.Context, opts Options, name string, args ...string) ([]byte, error)

	// StartWithOptions starts a command without waiting for it to exit.
	StartWithOptions(ctx context.Context, opts Options, name string, args ...string) error
}

// RealExecutor runs commands with os/exec.
type RealExecutor struct{}

// Output runs a command and returns its standard output.
//
//nolint:wrapcheck // exec errors carry the exit status
func (*RealExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// OutputWithOptions runs a command in opts.Dir and returns its standard output.
//
//nolint:wrapcheck // exec errors carry the exit status
func (*RealExecutor) OutputWithOptions(
	ctx context.Context,
	opts Options,
	name string,
	args ...string,
) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	applyOptions(cmd, opts)
	return cmd.Output()
}

// StartWithOptions starts a command without waiting for it to complete.
//
//nolint:wrapcheck // exec errors carry the exit status
func (*RealExecutor) StartWithOptions(
	ctx context.Context,
	opts Options,
	name string,
	args ...string,
) error {
	cmd := exec.CommandContext(ctx, name, args...)
	applyOptions(cmd, opts)
	return cmd.Start()
}
