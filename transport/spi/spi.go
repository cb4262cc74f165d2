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

// Package spi provides SPI transport implementation for RC522
package spi

import (
	"errors"
	"fmt"
	"io"
	"sync"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/internal/frame"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

const (
	// DefaultSpeed is the SPI clock used unless overridden. The RC522 accepts up to 10 MHz.
	DefaultSpeed = 4 * physic.MegaHertz
	// MaxSpeed is the fastest SPI clock the RC522 supports
	MaxSpeed = 10 * physic.MegaHertz

	bitsPerWord = 8
)

// txer is the part of spi.Conn the transport needs
type txer interface {
	Tx(w, r []byte) error
}

type config struct {
	resetPin string
	speed    physic.Frequency
}

// Option configures the SPI transport
type Option func(*config) error

// WithSpeed sets the SPI clock frequency
func WithSpeed(speed physic.Frequency) Option {
	return func(c *config) error {
		if speed <= 0 || speed > MaxSpeed {
			return fmt.Errorf("%w: SPI speed %s outside (0, %s]", rc522.ErrInvalidParameter, speed, MaxSpeed)
		}
		c.speed = speed
		return nil
	}
}

// WithResetPin names the GPIO wired to the RC522 NRSTPD line, e.g. "GPIO25"
func WithResetPin(name string) Option {
	return func(c *config) error {
		c.resetPin = name
		return nil
	}
}

// Transport implements the rc522.Transport interface for SPI communication
type Transport struct {
	conn      txer
	port      io.Closer
	resetPin  gpio.PinIO
	closeErr  error
	portName  string
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

// New initializes the host, opens the SPI port and connects with MSB first,
// 8 bit words. An empty portName selects the first port registered.
func New(portName string, opts ...Option) (*Transport, error) {
	cfg := &config{
		speed: DefaultSpeed,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Initialize host
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", portName, err)
	}

	conn, err := port.Connect(cfg.speed, spi.Mode0, bitsPerWord)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect to SPI port %q: %w", portName, err)
	}

	var resetPin gpio.PinIO
	if cfg.resetPin != "" {
		resetPin = gpioreg.ByName(cfg.resetPin)
		if resetPin == nil {
			_ = port.Close()
			return nil, fmt.Errorf("%w: unknown reset pin %q", rc522.ErrInvalidParameter, cfg.resetPin)
		}
	}

	if portName == "" {
		portName = port.String()
	}
	return newTransport(conn, port, resetPin, portName), nil
}

func newTransport(conn txer, port io.Closer, resetPin gpio.PinIO, portName string) *Transport {
	return &Transport{
		conn:     conn,
		port:     port,
		resetPin: resetPin,
		portName: portName,
	}
}

// ResetPin returns the reset line, or nil when none was configured
func (t *Transport) ResetPin() gpio.PinOut {
	if t.resetPin == nil {
		return nil
	}
	return t.resetPin
}

// WriteRegister writes values to reg in a single transfer
func (t *Transport) WriteRegister(reg rc522.Register, values ...byte) error {
	if len(values) == 0 {
		return nil
	}
	w := frame.SPIWriteFrame(frame.GetBuffer(len(values)+1), byte(reg), values)
	defer frame.PutBuffer(w)
	r := frame.GetBuffer(len(w))
	defer frame.PutBuffer(r)

	if err := t.tx(w, r); err != nil {
		return rc522.NewTransportError("WriteRegister", t.portName, err)
	}
	return nil
}

// ReadRegister reads a single register
func (t *Transport) ReadRegister(reg rc522.Register) (byte, error) {
	values, err := t.ReadRegisters(reg, 1)
	if err != nil {
		return 0, err
	}
	return values[0], nil
}

// ReadRegisters reads count values from reg in a single transfer
func (t *Transport) ReadRegisters(reg rc522.Register, count int) ([]byte, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: read count %d", rc522.ErrInvalidParameter, count)
	}
	w := frame.SPIReadFrame(frame.GetBuffer(count+1), byte(reg), count)
	defer frame.PutBuffer(w)
	r := frame.GetBuffer(len(w))
	defer frame.PutBuffer(r)

	if err := t.tx(w, r); err != nil {
		return nil, rc522.NewTransportError("ReadRegisters", t.portName, err)
	}

	values := make([]byte, count)
	copy(values, r[1:])
	return values, nil
}

func (t *Transport) tx(w, r []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return rc522.ErrTransportClosed
	}
	if err := t.conn.Tx(w, r); err != nil {
		return fmt.Errorf("SPI transfer failed: %w", err)
	}
	return nil
}

// Close ends the SPI session and releases the port. Calling Close again
// returns the first result without touching the hardware.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closed = true
		t.mu.Unlock()

		var errs []error
		if t.resetPin != nil {
			// Hold the chip in hard power down
			if err := t.resetPin.Out(gpio.Low); err != nil {
				errs = append(errs, fmt.Errorf("failed to drive reset pin low: %w", err))
			}
		}
		if t.port != nil {
			if err := t.port.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close SPI port %s: %w", t.portName, err))
			}
		}
		t.closeErr = errors.Join(errs...)
	})
	return t.closeErr
}

// IsConnected returns true if the transport is connected
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil && !t.closed
}

// Type returns the transport type
func (*Transport) Type() rc522.TransportType {
	return rc522.TransportSPI
}

// String returns the port name
func (t *Transport) String() string {
	return t.portName
}

// Ensure Transport implements rc522.Transport
var _ rc522.Transport = (*Transport)(nil)
