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

package rc522

import (
	"fmt"
	"time"
)

// exchange describes one PCD command and the FIFO data that goes with it
type exchange struct {
	data      []byte
	maxBack   int  // largest response accepted, 0 when none is read
	command   byte // PCD command written to CommandReg
	waitIRq   byte // ComIrqReg bits that signal completion
	validBits byte // valid bits in the last transmitted byte, 0 means all 8
	rxAlign   byte // bit position for the first received bit
	checkCRC  bool
}

// response is the FIFO content read back after an exchange
type response struct {
	data      []byte
	validBits byte // valid bits in the last received byte, 0 means all 8
}

// transceive sends data to the PICC and collects its answer
func (d *Device) transceive(ex exchange) (response, error) {
	ex.command = pcdTransceive
	ex.waitIRq = irqRx | irqIdle
	return d.communicate(ex)
}

// communicate runs a PCD command through the FIFO and checks the chip's error flags
func (d *Device) communicate(ex exchange) (response, error) {
	t := d.transport
	bitFraming := (ex.rxAlign << 4) | ex.validBits

	if err := t.WriteRegister(CommandReg, pcdIdle); err != nil {
		return response{}, fmt.Errorf("failed to idle PCD: %w", err)
	}
	if err := t.WriteRegister(ComIrqReg, 0x7F); err != nil {
		return response{}, fmt.Errorf("failed to clear interrupts: %w", err)
	}
	if err := t.WriteRegister(FIFOLevelReg, fifoFlush); err != nil {
		return response{}, fmt.Errorf("failed to flush FIFO: %w", err)
	}
	if len(ex.data) > 0 {
		if err := t.WriteRegister(FIFODataReg, ex.data...); err != nil {
			return response{}, fmt.Errorf("failed to fill FIFO: %w", err)
		}
	}
	if err := t.WriteRegister(BitFramingReg, bitFraming); err != nil {
		return response{}, fmt.Errorf("failed to set bit framing: %w", err)
	}
	if err := t.WriteRegister(CommandReg, ex.command); err != nil {
		return response{}, fmt.Errorf("failed to start command 0x%02X: %w", ex.command, err)
	}
	if ex.command == pcdTransceive {
		if err := setBitMask(t, BitFramingReg, bitFramingSend); err != nil {
			return response{}, fmt.Errorf("failed to start transmission: %w", err)
		}
	}

	if err := d.waitForIRQ(ex.waitIRq); err != nil {
		return response{}, err
	}

	errReg, err := t.ReadRegister(ErrorReg)
	if err != nil {
		return response{}, fmt.Errorf("failed to read error register: %w", err)
	}
	if errReg&errFatalMask != 0 {
		return response{}, fmt.Errorf("%w: ErrorReg=0x%02X", ErrProtocol, errReg)
	}

	var res response
	if ex.maxBack > 0 {
		res, err = d.readFIFO(ex.maxBack)
		if err != nil {
			return response{}, err
		}
	}

	if errReg&errColl != 0 {
		return res, ErrCollision
	}

	if ex.checkCRC {
		if len(res.data) == 1 && res.validBits == 4 {
			return res, fmt.Errorf("%w: 0x%X", ErrMIFARENack, res.data[0])
		}
		if len(res.data) < 2 || res.validBits != 0 || !CheckCRCA(res.data) {
			return res, ErrCRCMismatch
		}
	}

	return res, nil
}

// readFIFO drains the FIFO into a response no larger than maxBack
func (d *Device) readFIFO(maxBack int) (response, error) {
	level, err := d.transport.ReadRegister(FIFOLevelReg)
	if err != nil {
		return response{}, fmt.Errorf("failed to read FIFO level: %w", err)
	}
	n := int(level & 0x7F)
	if n > maxBack {
		return response{}, fmt.Errorf("%w: %d bytes pending, room for %d", ErrNoRoom, n, maxBack)
	}

	var res response
	if n > 0 {
		res.data, err = d.transport.ReadRegisters(FIFODataReg, n)
		if err != nil {
			return response{}, fmt.Errorf("failed to read FIFO: %w", err)
		}
	}

	control, err := d.transport.ReadRegister(ControlReg)
	if err != nil {
		return response{}, fmt.Errorf("failed to read control register: %w", err)
	}
	res.validBits = control & controlRxLastBits
	return res, nil
}

// waitForIRQ polls ComIrqReg until one of mask's bits, the timer interrupt or
// the configured deadline
func (d *Device) waitForIRQ(mask byte) error {
	deadline := time.Now().Add(d.config.Timeout)
	for {
		n, err := d.transport.ReadRegister(ComIrqReg)
		if err != nil {
			return fmt.Errorf("failed to read interrupts: %w", err)
		}
		if n&mask != 0 {
			return nil
		}
		if n&irqTimer != 0 {
			return ErrTimeout
		}
		if time.Now().After(deadline) {
			debugln("no interrupt from PCD before deadline, communication may be lost")
			return fmt.Errorf("%w: no interrupt within %s", ErrTimeout, d.config.Timeout)
		}
	}
}
