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

package transport

import (
	"errors"
	"testing"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()

	calls := 0
	retries := 0
	got, err := WithRetry(RetryConfig{
		Description: "read",
		MaxRetries:  3,
		OnRetry: func() error {
			retries++
			return nil
		},
	}, func() (byte, bool, error) {
		calls++
		if calls < 3 {
			return 0, true, nil
		}
		return 0x92, false, nil
	})

	require.NoError(t, err)
	assert.Equal(t, byte(0x92), got)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestWithRetry_Exhausted(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := WithRetry(RetryConfig{Description: "write", Port: "/dev/ttyS0", MaxRetries: 2},
		func() (struct{}, bool, error) {
			calls++
			return struct{}{}, true, nil
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, rc522.ErrTransportTimeout)
	assert.Contains(t, err.Error(), "/dev/ttyS0")
	assert.Equal(t, 3, calls)
}

func TestWithRetry_PermanentErrorStops(t *testing.T) {
	t.Parallel()

	permanent := errors.New("bus gone")
	calls := 0
	_, err := WithRetry(RetryConfig{MaxRetries: 5}, func() (int, bool, error) {
		calls++
		return 0, false, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_OnRetryErrorStops(t *testing.T) {
	t.Parallel()

	hookErr := errors.New("flush failed")
	_, err := WithRetry(RetryConfig{
		MaxRetries: 5,
		OnRetry:    func() error { return hookErr },
	}, func() (int, bool, error) {
		return 0, true, nil
	})

	assert.ErrorIs(t, err, hookErr)
}

func TestTimeoutRetry(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsResult", func(t *testing.T) {
		t.Parallel()
		calls := 0
		got, err := TimeoutRetry(time.Second, "test", func() (int, bool, error) {
			calls++
			return calls, calls < 2, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("TimesOut", func(t *testing.T) {
		t.Parallel()
		start := time.Now()
		_, err := TimeoutRetry(20*time.Millisecond, "test", func() (int, bool, error) {
			return 0, true, nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, rc522.ErrTransportTimeout)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}
