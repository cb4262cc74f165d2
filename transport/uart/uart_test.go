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

package uart

import (
	"bytes"
	"testing"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort answers like an RC522 in UART mode: writes are echoed, reads
// return the register value
type fakePort struct {
	regs     map[byte]byte
	written  bytes.Buffer
	pending  []byte
	badEcho  int
	resets   int
	closes   int
	pendAddr int
}

func newFakePort() *fakePort {
	return &fakePort{regs: map[byte]byte{}, pendAddr: -1}
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.written.Write(p)
	for _, b := range p {
		switch {
		case f.pendAddr >= 0:
			f.regs[byte(f.pendAddr)] = b
			echo := byte(f.pendAddr)
			if f.badEcho > 0 {
				f.badEcho--
				echo ^= 0xFF
			}
			f.pending = append(f.pending, echo)
			f.pendAddr = -1
		case b&0x80 != 0:
			f.pending = append(f.pending, f.regs[b&0x3F])
		default:
			f.pendAddr = int(b)
		}
	}
	return len(p), nil
}

func (f *fakePort) Read(p []byte) (int, error) {
	if len(f.pending) == 0 {
		return 0, nil
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func (f *fakePort) ResetInputBuffer() error {
	f.resets++
	f.pending = nil
	return nil
}

func (f *fakePort) Close() error {
	f.closes++
	return nil
}

func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := newTransport(newFakePort(), "/dev/ttyUSB0")
	assert.Equal(t, rc522.TransportUART, transport.Type())
	assert.True(t, transport.IsConnected())

	assert.False(t, (&Transport{portName: "/dev/ttyUSB0"}).IsConnected())
}

func TestWriteAndReadRegister(t *testing.T) {
	t.Parallel()

	p := newFakePort()
	transport := newTransport(p, "/dev/ttyUSB0")

	require.NoError(t, transport.WriteRegister(rc522.TModeReg, 0x80))
	assert.Equal(t, []byte{0x2A, 0x80}, p.written.Bytes())

	v, err := transport.ReadRegister(rc522.TModeReg)
	require.NoError(t, err)
	assert.Equal(t, byte(0x80), v)
}

func TestEchoMismatchIsRetried(t *testing.T) {
	t.Parallel()

	p := newFakePort()
	p.badEcho = 1
	transport := newTransport(p, "/dev/ttyUSB0")

	require.NoError(t, transport.WriteRegister(rc522.ModeReg, 0x3D))
	assert.Equal(t, 1, p.resets)
}

func TestEchoMismatchExhausted(t *testing.T) {
	t.Parallel()

	p := newFakePort()
	p.badEcho = 10
	transport := newTransport(p, "/dev/ttyUSB0")

	err := transport.WriteRegister(rc522.ModeReg, 0x3D)
	require.Error(t, err)
	assert.ErrorIs(t, err, rc522.ErrEchoMismatch)
}

func TestReadTimeout(t *testing.T) {
	t.Parallel()

	p := newFakePort()
	transport := newTransport(p, "/dev/ttyUSB0")

	_, err := transport.readByte()
	assert.ErrorIs(t, err, rc522.ErrTransportTimeout)
}

func TestCloseOnce(t *testing.T) {
	t.Parallel()

	p := newFakePort()
	transport := newTransport(p, "/dev/ttyUSB0")

	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
	assert.Equal(t, 1, p.closes)
	assert.False(t, transport.IsConnected())

	assert.ErrorIs(t, transport.WriteRegister(rc522.ModeReg, 0x3D), rc522.ErrTransportClosed)
}
