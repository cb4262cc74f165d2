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

	"periph.io/x/conn/v3/gpio"
)

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithTimeout sets how long a single PCD command may wait for the chip
func WithTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: timeout must be positive", ErrInvalidParameter)
		}
		d.config.Timeout = timeout
		return nil
	}
}

// WithResetPin wires the chip's NRSTPD line so Init performs a hard reset
func WithResetPin(pin gpio.PinOut) Option {
	return func(d *Device) error {
		d.resetPin = pin
		return nil
	}
}

// WithResetDelay sets how long Init waits after a reset
func WithResetDelay(delay time.Duration) Option {
	return func(d *Device) error {
		if delay < 0 {
			return fmt.Errorf("%w: reset delay cannot be negative", ErrInvalidParameter)
		}
		d.config.ResetDelay = delay
		return nil
	}
}

// WithAntennaGain sets the receiver gain applied during Init
func WithAntennaGain(gain AntennaGain) Option {
	return func(d *Device) error {
		if _, ok := antennaGainBits[gain]; !ok && gain != RxGainDefault {
			return fmt.Errorf("%w: antenna gain %d", ErrInvalidParameter, gain)
		}
		d.config.AntennaGain = gain
		return nil
	}
}
