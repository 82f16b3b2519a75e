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

// Package archives lists ROM archives in the configured directories and
// reads the file names stored inside them.
package archives

import (
	"archive/zip"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// DefaultExtensions are the archive formats the emulator loads sets from.
var DefaultExtensions = []string{".zip", ".7z"}

// Entry is one archive found on disk. Stem is the file name without its
// extension, which is the machine identifier the archive provides.
type Entry struct {
	Stem string
	Path string
	Dir  string
}

// Scanner lists and inspects archives on a filesystem.
type Scanner struct {
	fs   afero.Fs
	exts []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithExtensions overrides the recognised archive extensions. Extensions
// are matched case-insensitively and must include the leading dot.
func WithExtensions(exts ...string) Option {
	return func(s *Scanner) {
		s.exts = make([]string, 0, len(exts))
		for _, ext := range exts {
			s.exts = append(s.exts, strings.ToLower(ext))
		}
	}
}

// NewScanner returns a Scanner reading from fs.
func NewScanner(fs afero.Fs, opts ...Option) *Scanner {
	s := &Scanner{
		fs:   fs,
		exts: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsArchive reports whether name has a recognised archive extension.
func (s *Scanner) IsArchive(name string) bool {
	return slices.Contains(s.exts, strings.ToLower(filepath.Ext(name)))
}

// Scan lists every archive directly inside each directory, directories in
// the given order and files in lexical order. Subdirectories are not
// descended into. A directory that cannot be read is skipped.
func (s *Scanner) Scan(dirs []string) []Entry {
	var entries []Entry
	for _, dir := range dirs {
		found, err := s.ScanDir(dir)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("skipping unreadable rom directory")
			continue
		}
		entries = append(entries, found...)
	}
	return entries
}

// ScanDir lists the archives directly inside dir.
func (s *Scanner) ScanDir(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() || !s.IsArchive(info.Name()) {
			continue
		}
		name := info.Name()
		entries = append(entries, Entry{
			Stem: strings.TrimSuffix(name, filepath.Ext(name)),
			Path: filepath.Join(dir, name),
			Dir:  dir,
		})
	}
	return entries, nil
}

// CountArchives returns the number of archives directly inside dir, or 0
// when it cannot be read.
func (s *Scanner) CountArchives(dir string) int {
	entries, err := s.ScanDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}

// List returns the base names of the files stored in an archive.
// Directory entries are skipped.
func (s *Scanner) List(archivePath string) ([]string, error) {
	f, err := s.fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer func(f afero.File) {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", archivePath).Msg("close archive failed")
		}
	}(f)

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive %s: %w", archivePath, err)
	}

	var names []string
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".7z":
		r, err := sevenzip.NewReader(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("failed to read 7z %s: %w", archivePath, err)
		}
		names = make([]string, 0, len(r.File))
		for _, zf := range r.File {
			if zf.FileInfo().IsDir() {
				continue
			}
			names = append(names, baseName(zf.Name))
		}
	default:
		r, err := zip.NewReader(f, info.Size())
		if err != nil {
			return nil, fmt.Errorf("failed to read zip %s: %w", archivePath, err)
		}
		names = make([]string, 0, len(r.File))
		for _, zf := range r.File {
			if zf.FileInfo().IsDir() {
				continue
			}
			names = append(names, baseName(zf.Name))
		}
	}

	return names, nil
}

// ContainsEntryNamed reports whether the archive holds a file whose base
// name starts with stem followed by a dot. An archive that cannot be read
// holds nothing.
func (s *Scanner) ContainsEntryNamed(archivePath, stem string) bool {
	names, err := s.List(archivePath)
	if err != nil {
		log.Debug().Err(err).Str("path", archivePath).Msg("archive not readable")
		return false
	}
	return HasEntryPrefix(names, stem)
}

// HasEntryPrefix reports whether any name starts with stem followed by a
// dot.
func HasEntryPrefix(names []string, stem string) bool {
	prefix := stem + "."
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// baseName strips any directory prefix from an archive member name. Both
// separators are accepted since some packers write backslashes.
func baseName(name string) string {
	return path.Base(strings.ReplaceAll(name, "\\", "/"))
}
