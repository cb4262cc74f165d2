// go-rc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-rc522.
//
// go-rc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-rc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-rc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package polling runs the probe loop that owns the reader until cancelled.
package polling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ZaparooProject/go-rc522/probe"
	"github.com/sirupsen/logrus"
)

// Session-specific errors
var (
	ErrSessionRunning = errors.New("session is already running")
	ErrSessionClosed  = errors.New("session was closed")
)

// Prober runs one probe. *probe.Prober implements it.
type Prober interface {
	ProbeOnce() probe.Result
}

// Session owns a reader for the lifetime of a polling loop. Cancellation is
// checked between probes only, so a probe in progress always completes. The
// resource handed to NewSession is closed exactly once when the loop ends or
// Close is called, whichever comes first.
type Session struct {
	prober    Prober
	resource  io.Closer
	config    *Config
	log       logrus.FieldLogger
	OnResult  func(probe.Result)
	closeErr  error
	done      chan struct{} // closed by Close to stop the loop
	finished  chan struct{} // closed once Run has released the resource
	stats     Stats
	stopOnce  sync.Once
	closeOnce sync.Once
	mu        sync.Mutex
	closing   bool
}

// NewSession creates a session probing with prober and releasing resource on exit
func NewSession(prober Prober, resource io.Closer, config *Config) (*Session, error) {
	if prober == nil {
		return nil, errors.New("prober cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Session{
		prober:   prober,
		resource: resource,
		config:   config.Clone(),
		log:      logrus.StandardLogger(),
		done:     make(chan struct{}),
	}, nil
}

// SetLogger sets the logger for lifecycle messages
func (s *Session) SetLogger(log logrus.FieldLogger) {
	s.log = log
}

// Run probes until ctx is cancelled or Close is called, then releases the
// resource. A cancellation is a normal stop and returns nil; the only error
// is a failure to release the resource.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.finished != nil {
		s.mu.Unlock()
		return ErrSessionRunning
	}
	finished := make(chan struct{})
	s.finished = finished
	s.mu.Unlock()
	defer close(finished)

	s.log.Debug("polling started")
	s.loop(ctx)

	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	snap := s.stats.Snapshot()
	s.log.WithFields(logrus.Fields{
		"polls": snap.Polls,
		"cards": snap.Cards,
		"keys":  snap.KeysFound,
	}).Debug("polling stopped")

	return s.release()
}

func (s *Session) loop(ctx context.Context) {
	var pause *time.Timer
	if s.config.PollInterval > 0 {
		pause = time.NewTimer(s.config.PollInterval)
		defer pause.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		default:
		}

		res := s.prober.ProbeOnce()
		s.stats.record(res)
		if s.OnResult != nil {
			s.OnResult(res)
		}

		if pause == nil {
			continue
		}
		// Pause between probes without delaying shutdown
		pause.Reset(s.config.PollInterval)
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-pause.C:
		}
	}
}

// Close stops the loop and releases the resource. It may be called from
// another goroutine than Run, in which case it waits for the probe in
// progress to complete and Run to release the resource. It must not be
// called from OnResult. Later calls return the first result.
func (s *Session) Close() error {
	s.stopOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	s.closing = true
	finished := s.finished
	s.mu.Unlock()

	if finished != nil {
		<-finished
	}
	return s.release()
}

func (s *Session) release() error {
	s.closeOnce.Do(func() {
		if s.resource == nil {
			return
		}
		if err := s.resource.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to release reader: %w", err)
		}
	})
	return s.closeErr
}

// Stats returns a snapshot of the probe counters
func (s *Session) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}
