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

// Package testing provides a register-level RC522 simulator for tests
package testing

import (
	"bytes"
	"sync"

	rc522 "github.com/ZaparooProject/go-rc522"
)

// Register values the simulator reacts to
const (
	cmdIdle       = 0x00
	cmdTransceive = 0x0C
	cmdMFAuthent  = 0x0E
	cmdSoftReset  = 0x0F

	irqTimer = 0x01
	irqIdle  = 0x10
	irqRx    = 0x20

	errColl   = 0x08
	crypto1On = 0x08
	startSend = 0x80

	// Version reported by genuine v2.0 chips
	DefaultVersion = 0x92
)

// VirtualChip simulates an RC522 at register level and implements rc522.Transport.
// A Transceive runs when StartSend is set in BitFramingReg; MFAuthent runs as
// soon as it is written to CommandReg. A card that stays silent raises TimerIRq.
type VirtualChip struct {
	card     *VirtualCard
	err      error
	regs     [64]byte
	fifo     []byte
	mu       sync.Mutex
	Version  byte
	closed   bool
	closes   int
	halts    int
	stops    int
	auths    int
	commands []byte
}

// NewVirtualChip creates a powered-up chip with card in its field (card may be nil)
func NewVirtualChip(card *VirtualCard) *VirtualChip {
	c := &VirtualChip{card: card, Version: DefaultVersion}
	c.softReset()
	return c
}

// SetCard replaces the card in the field
func (c *VirtualChip) SetCard(card *VirtualCard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.card = card
}

// SetError makes every following register access fail with err (nil clears it)
func (c *VirtualChip) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Register returns the raw value of reg
func (c *VirtualChip) Register(reg rc522.Register) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[reg&0x3F]
}

// HaltCount returns how many HLTA frames reached the card
func (c *VirtualChip) HaltCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halts
}

// StopCryptoCount returns how many times Status2Reg was written with MFCrypto1On clear
func (c *VirtualChip) StopCryptoCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}

// AuthCount returns how many MFAuthent commands were executed
func (c *VirtualChip) AuthCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.auths
}

// CloseCount returns how many times Close was called
func (c *VirtualChip) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Commands returns the first byte of every frame sent to the card
func (c *VirtualChip) Commands() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.commands...)
}

// WriteRegister implements rc522.Transport
func (c *VirtualChip) WriteRegister(reg rc522.Register, values ...byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return err
	}

	for _, v := range values {
		c.write(reg, v)
	}
	return nil
}

// ReadRegister implements rc522.Transport
func (c *VirtualChip) ReadRegister(reg rc522.Register) (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return 0, err
	}
	return c.read(reg), nil
}

// ReadRegisters implements rc522.Transport
func (c *VirtualChip) ReadRegisters(reg rc522.Register, count int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(); err != nil {
		return nil, err
	}
	values := make([]byte, count)
	for i := range values {
		values[i] = c.read(reg)
	}
	return values, nil
}

// Close implements rc522.Transport
func (c *VirtualChip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	c.closed = true
	return nil
}

// IsConnected implements rc522.Transport
func (c *VirtualChip) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Type implements rc522.Transport
func (*VirtualChip) Type() rc522.TransportType {
	return rc522.TransportMock
}

func (c *VirtualChip) check() error {
	if c.closed {
		return rc522.ErrTransportClosed
	}
	return c.err
}

func (c *VirtualChip) read(reg rc522.Register) byte {
	switch reg {
	case rc522.FIFODataReg:
		if len(c.fifo) == 0 {
			return 0
		}
		v := c.fifo[0]
		c.fifo = c.fifo[1:]
		return v
	case rc522.FIFOLevelReg:
		return byte(len(c.fifo))
	case rc522.VersionReg:
		return c.Version
	default:
		return c.regs[reg&0x3F]
	}
}

func (c *VirtualChip) write(reg rc522.Register, v byte) {
	switch reg {
	case rc522.FIFODataReg:
		c.fifo = append(c.fifo, v)
	case rc522.FIFOLevelReg:
		if v&0x80 != 0 {
			c.fifo = nil
		}
	case rc522.ComIrqReg:
		// Set1 selects whether the marked bits are set or cleared
		if v&0x80 != 0 {
			c.regs[rc522.ComIrqReg] |= v & 0x7F
		} else {
			c.regs[rc522.ComIrqReg] &^= v & 0x7F
		}
	case rc522.Status2Reg:
		if v&crypto1On == 0 {
			c.stops++
			if c.card != nil {
				c.card.authenticated = false
			}
		}
		c.regs[rc522.Status2Reg] = v
	case rc522.CommandReg:
		c.regs[rc522.CommandReg] = v
		switch v & 0x0F {
		case cmdSoftReset:
			c.softReset()
		case cmdMFAuthent:
			c.mfAuthent()
		}
	case rc522.BitFramingReg:
		c.regs[rc522.BitFramingReg] = v
		if v&startSend != 0 && c.regs[rc522.CommandReg]&0x0F == cmdTransceive {
			c.transceive(v & 0x07)
		}
	default:
		c.regs[reg&0x3F] = v
	}
}

func (c *VirtualChip) softReset() {
	c.regs = [64]byte{}
	c.fifo = nil
	c.regs[rc522.CommandReg] = 0x20
	c.regs[rc522.ModeReg] = 0x3F
	c.regs[rc522.TxControlReg] = 0x80
	c.regs[rc522.RFCfgReg] = 0x48
	c.regs[rc522.ModWidthReg] = 0x26
}

// answer places a card response in the FIFO
func (c *VirtualChip) answer(data []byte, lastBits byte) {
	c.fifo = append(c.fifo[:0], data...)
	c.regs[rc522.ControlReg] = lastBits
	c.regs[rc522.ComIrqReg] |= irqRx | irqIdle
	c.regs[rc522.CommandReg] = cmdIdle
}

// silence simulates a card that does not answer before the timer runs out
func (c *VirtualChip) silence() {
	c.fifo = c.fifo[:0]
	c.regs[rc522.ComIrqReg] |= irqTimer
}

func (c *VirtualChip) transceive(validBits byte) {
	frame := append([]byte(nil), c.fifo...)
	c.regs[rc522.ErrorReg] = 0
	c.regs[rc522.ControlReg] = 0
	if len(frame) > 0 {
		c.commands = append(c.commands, frame[0])
	}

	card := c.card
	if card == nil || !card.Present || len(frame) == 0 {
		c.silence()
		return
	}

	// Short frames: REQA and WUPA
	if validBits == 7 && len(frame) == 1 {
		switch {
		case frame[0] == 0x26 && card.state == stateIdle,
			frame[0] == 0x52 && (card.state == stateIdle || card.state == stateHalt):
			card.state = stateReady
			card.level = 0
			card.authenticated = false
			c.answer(card.atqa(), 0)
		default:
			c.silence()
		}
		return
	}

	switch frame[0] {
	case 0x93, 0x95, 0x97:
		c.selectFrame(card, frame)
	case 0x50:
		if len(frame) == 4 && frame[1] == 0x00 && rc522.CheckCRCA(frame) {
			c.halts++
			card.state = stateHalt
		}
		c.silence()
	case 0x30:
		c.readFrame(card, frame)
	default:
		c.silence()
	}
}

func (c *VirtualChip) selectFrame(card *VirtualCard, frame []byte) {
	levels, saks := card.cascadeLevels()
	level := int(frame[0]-0x93) / 2
	if card.state != stateReady || level != card.level || level >= len(levels) || len(frame) < 2 {
		c.silence()
		return
	}

	switch {
	case frame[1] == 0x20:
		if card.Collide {
			c.regs[rc522.ErrorReg] |= errColl
		}
		c.answer(levels[level], 0)
	case frame[1] == 0x70 && len(frame) == 9 && rc522.CheckCRCA(frame):
		if !bytes.Equal(frame[2:7], levels[level]) {
			c.silence()
			return
		}
		sak := saks[level]
		if sak&0x04 != 0 {
			card.level++
		} else {
			card.state = stateActive
		}
		c.answer(rc522.AppendCRCA([]byte{sak}), 0)
	default:
		c.silence()
	}
}

func (c *VirtualChip) readFrame(card *VirtualCard, frame []byte) {
	if card.state != stateActive || len(frame) != 4 || !rc522.CheckCRCA(frame) {
		c.silence()
		return
	}
	if !card.authenticated || card.ReadFails {
		// 4 bit NAK
		c.answer([]byte{0x04}, 4)
		return
	}
	block := card.Blocks[frame[1]]
	if block == nil {
		block = make([]byte, 16)
	}
	c.answer(rc522.AppendCRCA(append([]byte(nil), block...)), 0)
}

func (c *VirtualChip) mfAuthent() {
	c.auths++
	frame := append([]byte(nil), c.fifo...)
	c.regs[rc522.ErrorReg] = 0
	card := c.card
	if card == nil || !card.Present || card.state != stateActive || len(frame) != 12 ||
		card.SAK&0x18 == 0 || !card.checkKey(frame[0], frame[2:8], frame[8:12]) {
		// A failed authentication leaves the card idle
		if card != nil && card.state == stateActive {
			card.state = stateIdle
		}
		c.silence()
		return
	}
	card.authenticated = true
	c.regs[rc522.Status2Reg] |= crypto1On
	c.fifo = c.fifo[:0]
	c.regs[rc522.ComIrqReg] |= irqIdle
	c.regs[rc522.CommandReg] = cmdIdle
}

// Ensure VirtualChip implements rc522.Transport
var _ rc522.Transport = (*VirtualChip)(nil)
