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
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/config"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Setup creates the data directory, starts logging and loads the config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(configDir, dataDir string, defaults config.Values, writers []io.Writer) (*config.Instance, error) {
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := helpers.InitLogging(
		filepath.Join(dataDir, config.LogsDir), false, writers,
	); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.NewConfig(configDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	helpers.SetDebugLogging(cfg.DebugLogging())
	log.Info().Str("version", config.AppVersion).Str("config", cfg.Path()).Msg("starting")
	return cfg, nil
}

// Env is what Run needs from the outside world.
type Env struct {
	Cfg     *config.Instance
	Cmd     command.Executor
	Fs      afero.Fs
	Stdout  io.Writer
	Stderr  io.Writer
	DataDir string
}

// Run parses args and performs the requested actions. With no action flag
// the game list is printed.
func Run(ctx context.Context, env *Env, args []string, opts ...Option) error {
	fs := flag.NewFlagSet("arcade", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	flags := SetupFlags(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	if *flags.Version {
		_, _ = fmt.Fprintf(env.Stdout, "Zaparoo Arcade v%s\n", config.AppVersion)
		return nil
	}
	if *flags.Debug {
		helpers.SetDebugLogging(true)
	}

	appOpts := []Option{WithDataDir(env.DataDir), WithProgress(env.Stderr)}
	if *flags.Emulator != "" {
		appOpts = append(appOpts, WithEmulator(*flags.Emulator))
	}
	if dirs := splitList(*flags.RomDirs, ";"); len(dirs) > 0 {
		appOpts = append(appOpts, WithRomDirs(dirs))
	}
	if *flags.Fast {
		appOpts = append(appOpts, WithFastMode())
	}
	app := NewApp(env.Cfg, env.Cmd, env.Fs, env.Stdout, append(appOpts, opts...)...)

	if *flags.Prune {
		if _, err := app.Prune(ctx); err != nil {
			return err
		}
		if !wantsCollection(fs) {
			return nil
		}
	}

	if _, err := app.LoadCatalog(ctx); err != nil {
		return err
	}
	if *flags.Audit {
		if _, err := app.Audit(ctx); err != nil {
			return err
		}
	}
	snap, err := app.Reconcile(ctx)
	if err != nil {
		return err
	}

	listOpts := ListOptions{
		Search:     *flags.Search,
		Sort:       *flags.Sort,
		Descending: *flags.Descending,
		Expand:     splitList(*flags.Expand, ","),
	}

	if *flags.Classify {
		app.Classify(snap)
	}
	if *flags.Diagnose {
		app.Diagnose(snap)
	}
	if *flags.MissingParents {
		app.MissingParents(snap)
	}
	if *flags.Export != "" {
		rows, err := app.Rows(snap, listOpts)
		if err != nil {
			return err
		}
		if err := app.Export(snap, rows, *flags.Export); err != nil {
			return err
		}
	}
	if *flags.List || !wantsAction(fs) {
		rows, err := app.Rows(snap, listOpts)
		if err != nil {
			return err
		}
		if err := app.List(snap, rows); err != nil {
			return err
		}
	}
	if *flags.Launch != "" {
		if err := app.Launch(ctx, snap, *flags.Launch, *flags.DryRun); err != nil {
			return err
		}
	}
	if *flags.Watch {
		return app.Watch(ctx)
	}
	return nil
}

var actionFlags = []string{
	"list", "classify", "audit", "diagnose", "missing-parents", "export", "launch", "watch", "prune",
}

func wantsAction(fs *flag.FlagSet) bool {
	for _, name := range actionFlags {
		if isFlagPassed(fs, name) {
			return true
		}
	}
	return false
}

// wantsCollection reports whether any action other than prune was given.
func wantsCollection(fs *flag.FlagSet) bool {
	for _, name := range actionFlags {
		if name != "prune" && isFlagPassed(fs, name) {
			return true
		}
	}
	return false
}

// Watch rebuilds the collection whenever an archive in a ROM directory
// changes, until ctx ends.
func (a *App) Watch(ctx context.Context) error {
	changed := make(chan struct{}, 1)
	w, err := service.WatchDirs(a.RomDirs(), a.scanner.IsArchive, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch rom directories: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close watcher")
		}
	}()

	_, _ = fmt.Fprintln(a.progress, "Watching ROM directories, press Ctrl-C to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			snap, err := a.Reconcile(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				log.Error().Err(err).Msg("rebuild after directory change failed")
				continue
			}
			_, _ = fmt.Fprintf(a.out, "ROM directories changed: %d games\n", snap.Result.Len())
		}
	}
}
