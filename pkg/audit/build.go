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

package audit

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// AvailabilityFile is the file the emulator writes into its ui folder
// after verifying sets.
const AvailabilityFile = "mame_avail.ini"

// Report counts verifier results. Each output line mentioning "romset"
// is one set.
type Report struct {
	Good     int
	Bad      int
	NotFound int
	Total    int
}

// ParseReport counts the set results in verifier output.
func ParseReport(out []byte) Report {
	var r Report
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(line, "romset") {
			continue
		}
		r.Total++
		switch {
		case strings.Contains(line, "is good"), strings.Contains(line, "is best available"):
			r.Good++
		case strings.Contains(line, "is bad"):
			r.Bad++
		case strings.Contains(line, "NOT FOUND"):
			r.NotFound++
		}
	}
	return r
}

func (r Report) String() string {
	return fmt.Sprintf("%d good, %d bad, %d not found", r.Good, r.Bad, r.NotFound)
}

// BuildRequest describes one verification run.
type BuildRequest struct {
	EmulatorPath string
	Identity     string
	RomDirs      []string
}

// BuildResult is the outcome of a verification run. Warning is set when
// the verifier ran but no availability file could be found, in which case
// Snapshot is nil.
type BuildResult struct {
	Snapshot *Snapshot
	Source   string
	Warning  string
	Report   Report
}

// Build runs the emulator's verifier over the ROM directories, then moves
// the availability file it produced into the store. progress may be nil.
// Only a verifier that could not be started, or a failure to save the
// snapshot, is returned as an error.
func (s *Store) Build(ctx context.Context, req BuildRequest, progress func(string)) (BuildResult, error) {
	report := func(msg string) {
		log.Info().Str("identity", req.Identity).Msg(msg)
		if progress != nil {
			progress(msg)
		}
	}

	if req.EmulatorPath == "" || req.Identity == "" {
		return BuildResult{}, errors.New("audit request needs an emulator and identity")
	}

	emuDir := filepath.Dir(req.EmulatorPath)
	s.prepare(emuDir)
	report(fmt.Sprintf("Verifying sets in %d directories", len(req.RomDirs)))

	out, err := s.cmd.OutputWithOptions(
		ctx,
		command.Options{Dir: emuDir, HideWindow: true},
		req.EmulatorPath,
		"-rompath", strings.Join(req.RomDirs, ";"),
		"-verifyroms",
	)
	if err != nil {
		// The verifier exits non-zero whenever a set is missing or bad.
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return BuildResult{}, fmt.Errorf("failed to start verifier: %w", err)
		}
		log.Debug().Err(err).Msg("verifier exited with non-zero status")
	}

	result := BuildResult{Report: ParseReport(out)}
	report("Verified " + result.Report.String())

	select {
	case <-ctx.Done():
		return result, fmt.Errorf("audit cancelled: %w", ctx.Err())
	case <-s.clock.After(s.settleDelay):
	}

	source, ok := s.findAvailabilityFile(emuDir)
	if !ok {
		result.Warning = "verification finished but no " + AvailabilityFile + " was written"
		report(result.Warning)
		return result, nil
	}

	data, err := afero.ReadFile(s.fs, source)
	if err != nil {
		result.Warning = fmt.Sprintf("failed to read %s: %v", source, err)
		report(result.Warning)
		return result, nil
	}
	available, err := Parse(data)
	if err != nil {
		result.Warning = fmt.Sprintf("failed to parse %s: %v", source, err)
		report(result.Warning)
		return result, nil
	}

	snap := &Snapshot{
		Identity:  req.Identity,
		Available: available,
		Updated:   s.clock.Now(),
	}
	if err := s.Save(snap); err != nil {
		return result, err
	}
	if err := s.fs.Remove(source); err != nil {
		log.Warn().Err(err).Str("path", source).Msg("failed to remove emulator availability file")
	}

	result.Snapshot = snap
	result.Source = source
	report(fmt.Sprintf("Cached %d available sets", len(available)))
	return result, nil
}

// prepare creates the ui folder the emulator writes into and removes any
// availability file left from an earlier run, so only this run's output is
// picked up.
func (s *Store) prepare(emuDir string) {
	uiDir := filepath.Join(emuDir, "ui")
	if err := s.fs.MkdirAll(uiDir, 0o750); err != nil {
		log.Warn().Err(err).Str("path", uiDir).Msg("failed to create emulator ui directory")
	}
	for _, path := range s.candidates(emuDir) {
		err := s.fs.Remove(path)
		switch {
		case err == nil:
			log.Debug().Str("path", path).Msg("removed stale availability file")
		case !errors.Is(err, fs.ErrNotExist):
			log.Warn().Err(err).Str("path", path).Msg("failed to remove stale availability file")
		}
	}
}

// candidates lists where the emulator may have written its availability
// file, in search order.
func (s *Store) candidates(emuDir string) []string {
	paths := []string{
		filepath.Join(emuDir, "ui", AvailabilityFile),
		filepath.Join(emuDir, ".mame", "ui", AvailabilityFile),
	}
	if s.homeDir != "" {
		paths = append(paths, filepath.Join(s.homeDir, ".mame", "ui", AvailabilityFile))
	}
	paths = append(paths, filepath.Join(s.workDir, "ui", AvailabilityFile))
	return paths
}

func (s *Store) findAvailabilityFile(emuDir string) (string, bool) {
	for _, path := range s.candidates(emuDir) {
		info, err := s.fs.Stat(path)
		if err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
