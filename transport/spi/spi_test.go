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

package spi

import (
	"errors"
	"testing"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// fakeConn records MOSI bytes and answers reads from a register map
type fakeConn struct {
	regs   map[byte]byte
	err    error
	writes [][]byte
}

func (f *fakeConn) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, append([]byte(nil), w...))
	if w[0]&0x80 == 0 {
		return nil
	}
	// Read: every MOSI address byte clocks out the previous register value
	for i := 0; i < len(w)-1; i++ {
		reg := (w[i] & 0x7E) >> 1
		r[i+1] = f.regs[reg]
	}
	return nil
}

type fakeCloser struct {
	calls int
}

func (f *fakeCloser) Close() error {
	f.calls++
	return nil
}

func TestTransportCreation(t *testing.T) {
	t.Parallel()

	transport := newTransport(&fakeConn{}, &fakeCloser{}, nil, "SPI0.0")
	assert.Equal(t, rc522.TransportSPI, transport.Type())
	assert.True(t, transport.IsConnected())
	assert.Equal(t, "SPI0.0", transport.String())
	assert.Nil(t, transport.ResetPin())

	uninitialized := &Transport{}
	assert.False(t, uninitialized.IsConnected())
}

func TestWriteRegister(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{}
	transport := newTransport(conn, &fakeCloser{}, nil, "SPI0.0")

	require.NoError(t, transport.WriteRegister(rc522.FIFODataReg, 0x93, 0x20))
	require.Len(t, conn.writes, 1)
	assert.Equal(t, []byte{0x12, 0x93, 0x20}, conn.writes[0])

	// No values is a no-op
	require.NoError(t, transport.WriteRegister(rc522.CommandReg))
	assert.Len(t, conn.writes, 1)
}

func TestReadRegisters(t *testing.T) {
	t.Parallel()

	conn := &fakeConn{regs: map[byte]byte{0x37: 0x92, 0x09: 0x44}}
	transport := newTransport(conn, &fakeCloser{}, nil, "SPI0.0")

	version, err := transport.ReadRegister(rc522.VersionReg)
	require.NoError(t, err)
	assert.Equal(t, byte(0x92), version)
	assert.Equal(t, []byte{0xEE, 0x00}, conn.writes[0])

	fifo, err := transport.ReadRegisters(rc522.FIFODataReg, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x44, 0x44, 0x44}, fifo)
	assert.Equal(t, []byte{0x92, 0x92, 0x92, 0x00}, conn.writes[1])

	_, err = transport.ReadRegisters(rc522.FIFODataReg, 0)
	assert.ErrorIs(t, err, rc522.ErrInvalidParameter)
}

func TestTransferErrorIsWrapped(t *testing.T) {
	t.Parallel()

	busErr := errors.New("spidev: EIO")
	transport := newTransport(&fakeConn{err: busErr}, &fakeCloser{}, nil, "SPI0.0")

	_, err := transport.ReadRegister(rc522.VersionReg)
	require.Error(t, err)
	assert.ErrorIs(t, err, busErr)

	var transportErr *rc522.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "SPI0.0", transportErr.Port)
}

func TestCloseOnce(t *testing.T) {
	t.Parallel()

	closer := &fakeCloser{}
	transport := newTransport(&fakeConn{}, closer, nil, "SPI0.0")

	require.NoError(t, transport.Close())
	require.NoError(t, transport.Close())
	assert.Equal(t, 1, closer.calls)
	assert.False(t, transport.IsConnected())

	err := transport.WriteRegister(rc522.CommandReg, 0x00)
	assert.ErrorIs(t, err, rc522.ErrTransportClosed)
}

func TestWithSpeedValidation(t *testing.T) {
	t.Parallel()

	cfg := &config{}
	require.NoError(t, WithSpeed(DefaultSpeed)(cfg))
	assert.Equal(t, DefaultSpeed, cfg.speed)

	assert.ErrorIs(t, WithSpeed(0)(cfg), rc522.ErrInvalidParameter)
	assert.ErrorIs(t, WithSpeed(2*MaxSpeed)(cfg), rc522.ErrInvalidParameter)
}

// stuckPin fails every level change
type stuckPin struct {
	gpiotest.Pin
}

func (*stuckPin) Out(gpio.Level) error {
	return errors.New("gpio: export failed")
}

func TestCloseHoldsChipInPowerDown(t *testing.T) {
	t.Parallel()

	pin := &gpiotest.Pin{N: "GPIO25", Num: 25, L: gpio.High}
	closer := &fakeCloser{}
	transport := newTransport(&fakeConn{}, closer, pin, "SPI0.0")

	require.NoError(t, transport.Close())
	assert.Equal(t, gpio.Low, pin.Read())
	assert.Equal(t, 1, closer.calls)
}

func TestCloseReportsResetPinFailure(t *testing.T) {
	t.Parallel()

	closer := &fakeCloser{}
	transport := newTransport(&fakeConn{}, closer, &stuckPin{Pin: gpiotest.Pin{N: "GPIO25"}}, "SPI0.0")

	err := transport.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to drive reset pin low")
	assert.Equal(t, 1, closer.calls, "the port is released even when the pin fails")
}
