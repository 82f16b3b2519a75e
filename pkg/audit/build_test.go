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
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-arcade/pkg/helpers/command"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-arcade/pkg/testing/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	emuPath = "/opt/mame/mame"
	emuDir  = "/opt/mame"
)

const verifierOutput = `romset pacman is good
romset puckman [pacman] is best available
romset galaxian is bad
romset dkong NOT FOUND
romset joust is bad
3 romsets found, 1 were OK.
`

func verifierMock(out string, err error) *mocks.MockCommandExecutor {
	return verifierWriting(out, err, nil)
}

// verifierWriting is verifierMock with write run while the verifier is
// executing, the way the emulator produces its availability file.
func verifierWriting(out string, err error, write func()) *mocks.MockCommandExecutor {
	cmd := &mocks.MockCommandExecutor{}
	call := cmd.On("OutputWithOptions", mock.Anything,
		command.Options{Dir: emuDir, HideWindow: true},
		emuPath, []string{"-rompath", "/roms;/extra", "-verifyroms"},
	)
	if write != nil {
		call = call.Run(func(mock.Arguments) { write() })
	}
	call.Return([]byte(out), err)
	return cmd
}

func writeFile(t *testing.T, h *helpers.FSHelper, path, data string) func() {
	t.Helper()
	return func() {
		assert.NoError(t, h.WriteFile(path, []byte(data)))
	}
}

// runBuild calls Build and advances the fake clock past the settle delay
// once Build is waiting on it.
func runBuild(
	t *testing.T,
	store *Store,
	clock *clockwork.FakeClock,
	req BuildRequest,
) (BuildResult, []string, error) {
	t.Helper()

	var (
		mu       sync.Mutex
		messages []string
	)
	progress := func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		messages = append(messages, msg)
	}

	type outcome struct {
		err    error
		result BuildResult
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := store.Build(context.Background(), req, progress)
		done <- outcome{result: result, err: err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err == nil {
		clock.Advance(DefaultSettleDelay)
	}

	select {
	case o := <-done:
		mu.Lock()
		defer mu.Unlock()
		return o.result, messages, o.err
	case <-time.After(5 * time.Second):
		t.Fatal("build did not finish")
		return BuildResult{}, nil, nil
	}
}

func request() BuildRequest {
	return BuildRequest{
		EmulatorPath: emuPath,
		Identity:     "mame_0_262",
		RomDirs:      []string{"/roms", "/extra"},
	}
}

func TestParseReport(t *testing.T) {
	t.Parallel()

	r := ParseReport([]byte(verifierOutput))
	assert.Equal(t, Report{Good: 2, Bad: 2, NotFound: 1, Total: 6}, r)
	assert.Equal(t, "2 good, 2 bad, 1 not found", r.String())
	assert.Equal(t, Report{}, ParseReport(nil))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	source := filepath.Join(emuDir, "ui", AvailabilityFile)

	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	cmd := verifierWriting(verifierOutput, &exec.ExitError{},
		writeFile(t, h, source, "[AVAILABLE]\npacman = 1\npuckman = 1\n"))
	store := NewStore(h.Fs, cacheDir, cmd, WithClock(clock))

	result, messages, err := runBuild(t, store, clock, request())
	require.NoError(t, err)
	assert.Empty(t, result.Warning)
	assert.Equal(t, source, result.Source)
	assert.Equal(t, 2, result.Report.Good)
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, []string{"pacman", "puckman"}, result.Snapshot.IDs())
	assert.Equal(t, clock.Now(), result.Snapshot.Updated)
	assert.NotEmpty(t, messages)

	exists, err := afero.Exists(h.Fs, source)
	require.NoError(t, err)
	assert.False(t, exists, "emulator copy is removed")

	loaded, ok := store.Load("mame_0_262")
	require.True(t, ok)
	assert.Equal(t, result.Snapshot.Available, loaded.Available)
	cmd.AssertExpectations(t)
}

func TestBuildFallbackLocations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{name: "hidden dir next to emulator", source: filepath.Join(emuDir, ".mame", "ui", AvailabilityFile)},
		{name: "home dir", source: filepath.Join("/home/player", ".mame", "ui", AvailabilityFile)},
		{name: "working dir", source: filepath.Join("/work", "ui", AvailabilityFile)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := helpers.NewMemoryFS()
			clock := clockwork.NewFakeClock()
			cmd := verifierWriting(verifierOutput, nil, writeFile(t, h, tt.source, "[AVAILABLE]\ndkong = 1\n"))
			store := NewStore(h.Fs, cacheDir, cmd,
				WithClock(clock), WithHomeDir("/home/player"), WithWorkDir("/work"))

			result, _, err := runBuild(t, store, clock, request())
			require.NoError(t, err)
			assert.Equal(t, tt.source, result.Source)
			require.NotNil(t, result.Snapshot)
			assert.Equal(t, []string{"dkong"}, result.Snapshot.IDs())
		})
	}
}

func TestBuildNoAvailabilityFile(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	clock := clockwork.NewFakeClock()
	store := NewStore(h.Fs, cacheDir, verifierMock(verifierOutput, nil), WithClock(clock))

	result, messages, err := runBuild(t, store, clock, request())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warning)
	assert.Nil(t, result.Snapshot)
	assert.Equal(t, 6, result.Report.Total)
	assert.Contains(t, messages, result.Warning)

	_, ok := store.Load("mame_0_262")
	assert.False(t, ok)
}

func TestBuildIgnoresStaleAvailabilityFile(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	stale := []string{
		filepath.Join(emuDir, "ui", AvailabilityFile),
		filepath.Join("/home/player", ".mame", "ui", AvailabilityFile),
	}
	for _, path := range stale {
		require.NoError(t, h.WriteFile(path, []byte("[AVAILABLE]\noldgame = 1\n")))
	}

	clock := clockwork.NewFakeClock()
	store := NewStore(h.Fs, cacheDir, verifierMock("romset pacman NOT FOUND\n", nil),
		WithClock(clock), WithHomeDir("/home/player"))

	result, _, err := runBuild(t, store, clock, request())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warning)
	assert.Nil(t, result.Snapshot)

	_, ok := store.Load("mame_0_262")
	assert.False(t, ok, "a file from an earlier run is never cached")
	for _, path := range stale {
		exists, err := afero.Exists(h.Fs, path)
		require.NoError(t, err)
		assert.False(t, exists, path)
	}
}

func TestBuildCreatesUIDir(t *testing.T) {
	t.Parallel()

	h := helpers.NewMemoryFS()
	clock := clockwork.NewFakeClock()
	source := filepath.Join(emuDir, "ui", AvailabilityFile)

	var dirReady bool
	cmd := verifierWriting(verifierOutput, nil, func() {
		isDir, err := afero.IsDir(h.Fs, filepath.Join(emuDir, "ui"))
		dirReady = err == nil && isDir
		assert.NoError(t, h.WriteFile(source, []byte("[AVAILABLE]\npacman = 1\n")))
	})
	store := NewStore(h.Fs, cacheDir, cmd, WithClock(clock))

	result, _, err := runBuild(t, store, clock, request())
	require.NoError(t, err)
	assert.True(t, dirReady, "ui directory exists before the verifier runs")
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, []string{"pacman"}, result.Snapshot.IDs())
}

func TestBuildStartFailure(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), cacheDir,
		verifierMock("", errors.New(`exec: "mame": executable file not found in $PATH`)),
		WithClock(clockwork.NewFakeClock()))

	_, err := store.Build(context.Background(), request(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start verifier")
}

func TestBuildCancelledDuringSettle(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), cacheDir, verifierMock(verifierOutput, nil),
		WithClock(clockwork.NewFakeClock()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Build(ctx, request(), nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildInvalidRequest(t *testing.T) {
	t.Parallel()

	store := NewStore(afero.NewMemMapFs(), cacheDir, &mocks.MockCommandExecutor{})
	_, err := store.Build(context.Background(), BuildRequest{}, nil)
	require.Error(t, err)
}
