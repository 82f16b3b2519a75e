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

// Package cli wires configuration, the service jobs and the ROM list
// together for the command line front-end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/archives"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/audit"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/catalog"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/config"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/diagnostics"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/filters"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/launch"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/romset"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/service"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrUnknownRom is returned when a launch names a game that is not in the
// collection.
var ErrUnknownRom = errors.New("unknown rom")

// SuggestLimit is how many near matches an unknown id reports.
const SuggestLimit = 5

// App runs CLI actions against one configuration.
type App struct {
	cfg      *config.Instance
	cmd      command.Executor
	fs       afero.Fs
	clock    clockwork.Clock
	out      io.Writer
	progress io.Writer
	scanner  *archives.Scanner
	store    *audit.Store
	svc      *service.Service
	emulator string
	romDirs  []string
	dataDir  string
	fastMode bool
}

type Option func(*App)

func WithClock(clock clockwork.Clock) Option {
	return func(a *App) {
		a.clock = clock
	}
}

// WithProgress sends job progress lines to w.
func WithProgress(w io.Writer) Option {
	return func(a *App) {
		a.progress = w
	}
}

func WithDataDir(dir string) Option {
	return func(a *App) {
		a.dataDir = dir
	}
}

// WithEmulator overrides the configured emulator.
func WithEmulator(path string) Option {
	return func(a *App) {
		a.emulator = path
	}
}

// WithRomDirs overrides the configured ROM directories.
func WithRomDirs(dirs []string) Option {
	return func(a *App) {
		a.romDirs = dirs
	}
}

// WithFastMode forces the fast clone expansion.
func WithFastMode() Option {
	return func(a *App) {
		a.fastMode = true
	}
}

func NewApp(cfg *config.Instance, cmd command.Executor, fs afero.Fs, out io.Writer, opts ...Option) *App {
	a := &App{
		cfg:      cfg,
		cmd:      cmd,
		fs:       fs,
		out:      out,
		progress: io.Discard,
		clock:    clockwork.NewRealClock(),
		dataDir:  config.DataDir(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.scanner = archives.NewScanner(fs)
	a.store = audit.NewStore(fs, cfg.AuditDir(a.dataDir), cmd, audit.WithClock(a.clock))
	a.svc = service.New(cmd, a.scanner, a.store, service.WithClock(a.clock))
	return a
}

// EmulatorPath is the override, else the selected emulator.
func (a *App) EmulatorPath() (string, error) {
	if a.emulator != "" {
		return a.emulator, nil
	}
	path, err := a.cfg.SelectedEmulator()
	if err != nil {
		return "", fmt.Errorf("%w: add one to %s or pass -emulator", err, a.cfg.Path())
	}
	return path, nil
}

func (a *App) RomDirs() []string {
	if len(a.romDirs) > 0 {
		return a.romDirs
	}
	return a.cfg.RomDirs()
}

func (a *App) options() romset.Options {
	opts := a.cfg.RomsetOptions()
	if a.fastMode {
		opts.Mode = romset.ModeFast
	}
	return opts
}

func (a *App) report(msg string) {
	_, _ = fmt.Fprintln(a.progress, msg)
}

// LoadCatalog loads the emulator's machine list without reconciling.
func (a *App) LoadCatalog(ctx context.Context) (*service.Snapshot, error) {
	path, err := a.EmulatorPath()
	if err != nil {
		return nil, err
	}
	snap, err := a.svc.LoadCatalog(ctx, path).Wait(ctx, a.report)
	if err != nil {
		return nil, fmt.Errorf("failed to load machine list: %w", err)
	}
	return snap, nil
}

// Reconcile rebuilds the collection from the loaded catalog.
func (a *App) Reconcile(ctx context.Context) (*service.Snapshot, error) {
	snap, err := a.svc.Reconcile(service.ReconcileRequest{
		RomDirs:  a.RomDirs(),
		Options:  a.options(),
		UseAudit: a.cfg.UseAudit(),
	}).Wait(ctx, a.report)
	if err != nil {
		return nil, fmt.Errorf("failed to build rom list: %w", err)
	}
	return snap, nil
}

// Load loads the catalog and reconciles it.
func (a *App) Load(ctx context.Context) (*service.Snapshot, error) {
	if _, err := a.LoadCatalog(ctx); err != nil {
		return nil, err
	}
	return a.Reconcile(ctx)
}

// ListOptions narrow the list beyond the configured filters.
type ListOptions struct {
	Search     string
	Sort       string
	Expand     []string
	Descending bool
}

// Rows applies the configured filters and sort to the collection.
// Title order keeps clones grouped beneath expanded parents; any other
// order is a flat sort of the visible rows.
func (a *App) Rows(snap *service.Snapshot, opts ListOptions) ([]romset.Rom, error) {
	if snap.Result == nil {
		return nil, nil
	}

	settings := a.cfg.Filters()
	if opts.Search != "" {
		settings.Search = opts.Search
	}
	f := filters.New(settings, snap.Machines, filters.WithFavorites(a.cfg.Favorites()))

	expanded := make(map[string]bool, len(opts.Expand))
	for _, id := range opts.Expand {
		expanded[id] = true
	}
	rows := romset.Display(snap.Result, romset.DisplayOptions{
		Expanded:      expanded,
		Filter:        f.Match,
		ShowAllClones: a.cfg.ShowAllClones(),
	})

	col, desc := a.cfg.Sort()
	if opts.Sort != "" {
		parsed, err := filters.ParseColumn(opts.Sort)
		if err != nil {
			return nil, err
		}
		col = parsed
	}
	desc = desc || opts.Descending
	if col != filters.ColumnTitle || desc {
		filters.Sort(rows, snap.Machines, col, desc)
	}
	return rows, nil
}

// List prints rows as a table.
func (a *App) List(snap *service.Snapshot, rows []romset.Rom) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tMANUFACTURER\tSTATUS\t")
	for _, r := range rows {
		m, known := snap.Machines[r.ID]
		status := "not working"
		if known && !r.IsVirtual {
			status = m.Status().String()
		}
		title := r.Name
		switch {
		case r.IsVirtual:
			title += " [virtual]"
		case r.IsClone:
			title = "  " + title
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", r.ID, title, m.Year, m.Manufacturer, status)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write list: %w", err)
	}

	stats := catalog.Summarize(snap.Machines)
	_, _ = fmt.Fprintf(a.out, "\n%d shown, %d in collection (%s, %s); catalog has %d games, %d working\n",
		len(rows), snap.Result.Len(), snap.Result.Source, snap.Result.Mode, stats.Total, stats.Working)
	return nil
}

// Classify prints the detected set type.
func (a *App) Classify(snap *service.Snapshot) {
	class := romset.Classify(a.scanner, a.RomDirs(), snap.Machines)
	_, _ = fmt.Fprintf(a.out, "ROM set type: %s\n", class)
	if class == romset.Merged && !a.cfg.UseAudit() {
		_, _ = fmt.Fprintln(a.out, "Clones inside parent archives are only listed with audit mode or -fast")
	}
}

// Audit verifies the sets and caches the result for the current emulator.
func (a *App) Audit(ctx context.Context) (audit.BuildResult, error) {
	res, err := a.svc.Audit(ctx, a.RomDirs()).Wait(ctx, a.report)
	if err != nil {
		return res, err //nolint:wrapcheck // job errors are already wrapped
	}
	if res.Warning != "" {
		_, _ = fmt.Fprintf(a.out, "Warning: %s\n", res.Warning)
	} else {
		_, _ = fmt.Fprintf(a.out, "Audit saved: %s\n", res.Report)
	}
	return res, nil
}

// LaunchArgs resolves id and returns the emulator and its arguments.
func (a *App) LaunchArgs(snap *service.Snapshot, id string) (string, []string, error) {
	emu := snap.Emulator.Path
	if emu == "" {
		var err error
		if emu, err = a.EmulatorPath(); err != nil {
			return "", nil, err
		}
	}

	if snap.Result != nil {
		rom, ok := snap.Result.Find(id)
		if !ok {
			return "", nil, unknownRom(snap.Result, id)
		}
		if rom.IsVirtual {
			return "", nil, fmt.Errorf("%s has no archive on disk; launch one of its clones", id)
		}
	}

	args, err := launch.Build(launch.Request{
		ID:       id,
		RomDirs:  a.RomDirs(),
		Graphics: a.cfg.Graphics(),
		Settings: a.cfg.Video(),
		DataDirs: a.cfg.EmulatorDataDirs(),
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to build launch arguments: %w", err)
	}
	return emu, args, nil
}

func unknownRom(result *romset.Result, id string) error {
	suggestions := romset.Suggest(result, id, SuggestLimit)
	if len(suggestions) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownRom, id)
	}
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = fmt.Sprintf("%s (%s)", s.ID, s.Name)
	}
	return fmt.Errorf("%w: %s, did you mean %s?", ErrUnknownRom, id, strings.Join(names, ", "))
}

// Launch starts the emulator for id, or prints the command when dryRun
// is set. The process is not supervised.
func (a *App) Launch(ctx context.Context, snap *service.Snapshot, id string, dryRun bool) error {
	emu, args, err := a.LaunchArgs(snap, id)
	if err != nil {
		return err
	}
	if dryRun {
		_, _ = fmt.Fprintln(a.out, strings.Join(append([]string{emu}, args...), " "))
		return nil
	}

	log.Info().Str("emulator", emu).Strs("args", args).Msg("launching game")
	err = a.cmd.StartWithOptions(ctx, command.Options{Dir: filepath.Dir(emu)}, emu, args...)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", emu, err)
	}
	_, _ = fmt.Fprintf(a.out, "Launched %s\n", id)
	return nil
}

// Diagnose prints the setup report.
func (a *App) Diagnose(snap *service.Snapshot) {
	report := diagnostics.Diagnose(diagnostics.Input{
		Fs:             a.fs,
		Scanner:        a.scanner,
		Machines:       snap.Machines,
		Result:         snap.Result,
		Audit:          snap.Audit,
		RomDirs:        a.RomDirs(),
		Classification: snap.Classification,
		UseAudit:       a.cfg.UseAudit(),
	})
	if report.Audit.Enabled && !report.Audit.Found && snap.Emulator.Path != "" {
		if cached, ok := a.store.Load(snap.Emulator.Identity()); ok {
			report.Audit.Found = true
			report.Audit.Available = len(cached.Available)
			report.Audit.Updated = cached.Updated
		}
	}
	_, _ = fmt.Fprint(a.out, report.String())
}

// MissingParents prints clones whose parent set is absent.
func (a *App) MissingParents(snap *service.Snapshot) {
	missing := diagnostics.MissingParents(snap.Result, snap.Machines)
	if len(missing) == 0 {
		_, _ = fmt.Fprintln(a.out, "Every clone has its parent set")
		return
	}
	for _, m := range missing {
		_, _ = fmt.Fprintf(a.out, "%s needs %s (%s)\n", m.Clone, m.Parent, catalog.Title(snap.Machines, m.Parent))
	}
}

// Prune removes cached audits whose identity matches no configured
// emulator.
func (a *App) Prune(ctx context.Context) ([]string, error) {
	emulators := a.cfg.Emulators()
	if a.emulator != "" {
		emulators = append(emulators, a.emulator)
	}
	keep := make([]string, 0, len(emulators))
	for _, path := range emulators {
		keep = append(keep, audit.Identity(catalog.Name(path), catalog.Version(ctx, a.cmd, path)))
	}

	removed, err := a.store.Prune(keep)
	if err != nil {
		return nil, fmt.Errorf("failed to prune audit cache: %w", err)
	}
	for _, id := range removed {
		_, _ = fmt.Fprintf(a.out, "Removed audit %s\n", id)
	}
	return removed, nil
}
