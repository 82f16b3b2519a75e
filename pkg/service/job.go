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
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// JobBuffer is the number of undelivered messages a job holds. Progress
// beyond that is dropped; the final message always fits.
const JobBuffer = 64

// Kind tells a progress line from a final message.
type Kind int

const (
	KindProgress Kind = iota
	KindComplete
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindComplete:
		return "complete"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Message is one update from a Job. Value is only set on KindComplete and
// Err only on KindFailed.
type Message[T any] struct {
	Value T
	Err   error
	Text  string
	Kind  Kind
}

// Final reports whether no further messages will follow.
func (m Message[T]) Final() bool {
	return m.Kind == KindComplete || m.Kind == KindFailed
}

// Job is a running background task. The last message it delivers is
// always KindComplete or KindFailed.
type Job[T any] struct {
	ch        chan Message[T]
	done      chan struct{}
	ID        string
	Name      string
	discarded atomic.Bool
}

// startJob runs fn on its own goroutine. fn receives a progress function
// that never blocks.
func startJob[T any](name string, fn func(progress func(string)) (T, error)) *Job[T] {
	j := &Job[T]{
		ID:   uuid.New().String(),
		Name: name,
		ch:   make(chan Message[T], JobBuffer),
		done: make(chan struct{}),
	}
	log.Debug().Str("job", j.ID).Msgf("starting %s job", name)

	go func() {
		defer close(j.done)

		value, err := run(fn, j.progress)
		if err != nil {
			log.Error().Err(err).Str("job", j.ID).Msgf("%s job failed", name)
			j.ch <- Message[T]{Kind: KindFailed, Err: err, Text: err.Error()}
			return
		}
		log.Debug().Str("job", j.ID).Msgf("%s job complete", name)
		j.ch <- Message[T]{Kind: KindComplete, Value: value}
	}()

	return j
}

func run[T any](fn func(progress func(string)) (T, error), progress func(string)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return fn(progress)
}

// progress keeps one slot free for the final message. Only the job's own
// goroutine sends, so the length check cannot race with another sender.
func (j *Job[T]) progress(text string) {
	if j.discarded.Load() {
		return
	}
	if len(j.ch) >= cap(j.ch)-1 {
		log.Debug().Str("job", j.ID).Msg("dropping progress message")
		return
	}
	j.ch <- Message[T]{Kind: KindProgress, Text: text}
}

// Poll returns the next undelivered message without blocking. Each
// message is returned once.
func (j *Job[T]) Poll() (Message[T], bool) {
	select {
	case msg := <-j.ch:
		return msg, true
	default:
		return Message[T]{}, false
	}
}

// Next blocks until a message is available or ctx ends.
func (j *Job[T]) Next(ctx context.Context) (Message[T], error) {
	select {
	case msg := <-j.ch:
		return msg, nil
	case <-ctx.Done():
		return Message[T]{}, fmt.Errorf("waiting for %s job: %w", j.Name, ctx.Err())
	}
}

// Wait drains messages until the final one, passing progress text to
// onProgress when it is set.
func (j *Job[T]) Wait(ctx context.Context, onProgress func(string)) (T, error) {
	for {
		msg, err := j.Next(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		switch msg.Kind {
		case KindProgress:
			if onProgress != nil {
				onProgress(msg.Text)
			}
		case KindFailed:
			return msg.Value, msg.Err
		case KindComplete:
			return msg.Value, nil
		}
	}
}

// Done is closed once the final message has been queued.
func (j *Job[T]) Done() <-chan struct{} {
	return j.done
}

// Discard stops further progress from being queued. The job keeps
// running to completion; its result is simply never read.
func (j *Job[T]) Discard() {
	j.discarded.Store(true)
}
