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

package i2c

import (
	"testing"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDev struct {
	regs   map[byte][]byte
	writes [][]byte
}

func (f *fakeDev) Tx(w, r []byte) error {
	f.writes = append(f.writes, append([]byte(nil), w...))
	if len(r) > 0 {
		copy(r, f.regs[w[0]])
	}
	return nil
}

type fakeBus struct {
	calls int
}

func (f *fakeBus) Close() error {
	f.calls++
	return nil
}

func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := newTransport(&fakeDev{}, &fakeBus{}, "/dev/i2c-1", 0x28)
	assert.Equal(t, rc522.TransportI2C, transport.Type())
	assert.True(t, transport.IsConnected())

	assert.False(t, (&Transport{}).IsConnected())
}

func TestRegisterAccess(t *testing.T) {
	t.Parallel()

	dev := &fakeDev{regs: map[byte][]byte{0x37: {0x91}, 0x09: {0x04, 0x00}}}
	transport := newTransport(dev, &fakeBus{}, "/dev/i2c-1", 0x28)

	require.NoError(t, transport.WriteRegister(rc522.TModeReg, 0x80))
	assert.Equal(t, []byte{0x2A, 0x80}, dev.writes[0])

	version, err := transport.ReadRegister(rc522.VersionReg)
	require.NoError(t, err)
	assert.Equal(t, byte(0x91), version)

	fifo, err := transport.ReadRegisters(rc522.FIFODataReg, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x00}, fifo)
}

func TestCloseOnce(t *testing.T) {
	t.Parallel()

	bus := &fakeBus{}
	transport := newTransport(&fakeDev{}, bus, "/dev/i2c-1", 0x28)

	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
	assert.Equal(t, 1, bus.calls)

	_, err := transport.ReadRegister(rc522.VersionReg)
	assert.ErrorIs(t, err, rc522.ErrTransportClosed)
}
