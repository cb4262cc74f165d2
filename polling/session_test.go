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

package polling

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZaparooProject/go-rc522/probe"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCloser struct {
	err   error
	calls atomic.Int32
}

func (c *countingCloser) Close() error {
	c.calls.Add(1)
	return c.err
}

// blockingProber blocks inside ProbeOnce until released
type blockingProber struct {
	entered   chan struct{}
	release   chan struct{}
	calls     atomic.Int32
	completed atomic.Int32
}

func newBlockingProber() *blockingProber {
	return &blockingProber{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (p *blockingProber) ProbeOnce() probe.Result {
	p.calls.Add(1)
	select {
	case p.entered <- struct{}{}:
	default:
	}
	<-p.release
	p.completed.Add(1)
	return probe.Result{Outcome: probe.NoCard}
}

type funcProber func() probe.Result

func (f funcProber) ProbeOnce() probe.Result {
	return f()
}

func newQuietSession(t *testing.T, prober Prober, closer *countingCloser, config *Config) *Session {
	t.Helper()
	session, err := NewSession(prober, closer, config)
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	session.SetLogger(logger)
	return session
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	_, err := NewSession(nil, nil, nil)
	require.Error(t, err)

	_, err = NewSession(funcProber(func() probe.Result { return probe.Result{} }), nil, &Config{PollInterval: -time.Second})
	require.Error(t, err)

	session, err := NewSession(funcProber(func() probe.Result { return probe.Result{} }), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, session.config.PollInterval)
}

func TestSession_CancelDuringProbe(t *testing.T) {
	t.Parallel()

	prober := newBlockingProber()
	closer := &countingCloser{}
	session := newQuietSession(t, prober, closer, &Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- session.Run(ctx)
	}()

	<-prober.entered
	cancel()

	// The probe in progress is not interrupted
	select {
	case <-done:
		t.Fatal("Run returned before the probe in progress completed")
	case <-time.After(20 * time.Millisecond):
	}
	close(prober.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.Equal(t, int32(1), prober.calls.Load())
	assert.Equal(t, int32(1), prober.completed.Load())
	assert.Equal(t, int32(1), closer.calls.Load())

	// Closing again does not release twice
	require.NoError(t, session.Close())
	assert.Equal(t, int32(1), closer.calls.Load())
}

func TestSession_CancelDuringPause(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	prober := funcProber(func() probe.Result {
		calls.Add(1)
		return probe.Result{Outcome: probe.NoCard}
	})
	closer := &countingCloser{}
	session := newQuietSession(t, prober, closer, &Config{PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- session.Run(ctx)
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pause delayed shutdown")
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), closer.calls.Load())
}

func TestSession_KeepsPollingWithoutCard(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	prober := funcProber(func() probe.Result {
		if calls.Add(1) == 100 {
			cancel()
		}
		return probe.Result{Outcome: probe.NoCard}
	})
	closer := &countingCloser{}
	session := newQuietSession(t, prober, closer, &Config{})

	var cards int
	session.OnResult = func(res probe.Result) {
		if res.UID != nil {
			cards++
		}
	}

	require.NoError(t, session.Run(ctx))
	assert.Equal(t, int32(100), calls.Load())
	assert.Zero(t, cards)

	stats := session.Stats()
	assert.Equal(t, uint64(100), stats.Polls)
	assert.Zero(t, stats.Cards)
	assert.Equal(t, int32(1), closer.calls.Load())
}

func TestSession_CloseError(t *testing.T) {
	t.Parallel()

	errRelease := errors.New("spi end failed")
	closer := &countingCloser{err: errRelease}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := newQuietSession(t, funcProber(func() probe.Result { return probe.Result{} }), closer, &Config{})

	err := session.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errRelease)
	assert.Equal(t, int32(1), closer.calls.Load())
}

func TestSession_RunAfterClose(t *testing.T) {
	t.Parallel()

	closer := &countingCloser{}
	session := newQuietSession(t, funcProber(func() probe.Result { return probe.Result{} }), closer, nil)

	require.NoError(t, session.Close())
	assert.ErrorIs(t, session.Run(context.Background()), ErrSessionClosed)
	assert.Equal(t, int32(1), closer.calls.Load())
}

func TestSession_LogsSummary(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	prober := funcProber(func() probe.Result {
		cancel()
		return probe.Result{Outcome: probe.KeyFound, UID: nil}
	})
	session, err := NewSession(prober, nil, &Config{})
	require.NoError(t, err)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	session.SetLogger(logger)

	require.NoError(t, session.Run(ctx))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "polling stopped", hook.LastEntry().Message)
	assert.Equal(t, uint64(1), hook.LastEntry().Data["keys"])
}

func TestSession_CloseFromAnotherGoroutine(t *testing.T) {
	t.Parallel()

	closer := &countingCloser{}
	var calls, afterClose atomic.Int32
	prober := funcProber(func() probe.Result {
		calls.Add(1)
		if closer.calls.Load() > 0 {
			afterClose.Add(1)
		}
		return probe.Result{Outcome: probe.NoCard}
	})
	session := newQuietSession(t, prober, closer, &Config{PollInterval: time.Millisecond})

	done := make(chan error, 1)
	go func() {
		done <- session.Run(context.Background())
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 5 }, time.Second, time.Millisecond)
	require.NoError(t, session.Close())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run kept polling after Close")
	}
	assert.Zero(t, afterClose.Load(), "no probe may use a released reader")
	assert.Equal(t, int32(1), closer.calls.Load())
	assert.ErrorIs(t, session.Run(context.Background()), ErrSessionClosed)
}

func TestSession_CloseWaitsForProbeInProgress(t *testing.T) {
	t.Parallel()

	prober := newBlockingProber()
	closer := &countingCloser{}
	session := newQuietSession(t, prober, closer, &Config{})

	done := make(chan error, 1)
	go func() {
		done <- session.Run(context.Background())
	}()
	<-prober.entered
	assert.ErrorIs(t, session.Run(context.Background()), ErrSessionRunning)

	closed := make(chan error, 1)
	go func() {
		closed <- session.Close()
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a probe was using the reader")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Zero(t, closer.calls.Load())
	close(prober.release)

	for _, ch := range []chan error{closed, done} {
		select {
		case err := <-ch:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("session did not stop")
		}
	}
	assert.Equal(t, int32(1), prober.completed.Load())
	assert.Equal(t, int32(1), closer.calls.Load())
}
