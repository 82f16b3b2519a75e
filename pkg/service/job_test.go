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

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func drain[T any](t *testing.T, j *Job[T]) []Message[T] {
	t.Helper()
	ctx := testContext(t)
	var msgs []Message[T]
	for {
		msg, err := j.Next(ctx)
		require.NoError(t, err)
		msgs = append(msgs, msg)
		if msg.Final() {
			return msgs
		}
	}
}

func TestJobDeliversInOrder(t *testing.T) {
	t.Parallel()

	j := startJob("test", func(progress func(string)) (int, error) {
		progress("one")
		progress("two")
		return 42, nil
	})

	msgs := drain(t, j)
	require.Len(t, msgs, 3)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
	assert.Equal(t, KindComplete, msgs[2].Kind)
	assert.Equal(t, 42, msgs[2].Value)
	assert.NotEmpty(t, j.ID)

	<-j.Done()
	_, ok := j.Poll()
	assert.False(t, ok, "messages are consumed once")
}

func TestJobFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	j := startJob("test", func(progress func(string)) (string, error) {
		progress("starting")
		return "", boom
	})

	msgs := drain(t, j)
	last := msgs[len(msgs)-1]
	assert.Equal(t, KindFailed, last.Kind)
	require.ErrorIs(t, last.Err, boom)
	assert.Equal(t, "boom", last.Text)
}

func TestJobPanicBecomesFailure(t *testing.T) {
	t.Parallel()

	j := startJob("test", func(func(string)) (int, error) {
		panic("bad input")
	})

	_, err := j.Wait(testContext(t), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
}

func TestJobProgressOverflowKeepsFinalMessage(t *testing.T) {
	t.Parallel()

	j := startJob("test", func(progress func(string)) (int, error) {
		for i := range JobBuffer * 3 {
			progress(fmt.Sprintf("step %d", i))
		}
		return 1, nil
	})
	<-j.Done()

	var kinds []Kind
	for {
		msg, ok := j.Poll()
		if !ok {
			break
		}
		kinds = append(kinds, msg.Kind)
	}
	require.Len(t, kinds, JobBuffer)
	assert.Equal(t, KindComplete, kinds[len(kinds)-1])
}

func TestJobPollDoesNotBlock(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	j := startJob("test", func(func(string)) (int, error) {
		<-release
		return 7, nil
	})

	_, ok := j.Poll()
	assert.False(t, ok)

	close(release)
	var seen []string
	v, err := j.Wait(testContext(t), func(s string) { seen = append(seen, s) })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Empty(t, seen)
}

func TestJobDiscard(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	j := startJob("test", func(progress func(string)) (int, error) {
		<-release
		progress("ignored")
		return 3, nil
	})
	j.Discard()
	close(release)
	<-j.Done()

	msg, ok := j.Poll()
	require.True(t, ok)
	assert.Equal(t, KindComplete, msg.Kind)
}

func TestJobNextHonoursContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	j := startJob("test", func(func(string)) (int, error) {
		<-release
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := j.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	<-j.Done()
}
