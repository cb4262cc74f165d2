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

// AntennaGain is the receiver gain programmed into RFCfgReg. The zero value
// leaves the chip's reset default (33 dB) untouched.
type AntennaGain int

const (
	RxGainDefault AntennaGain = iota
	RxGain18dB
	RxGain23dB
	RxGain33dB
	RxGain38dB
	RxGain43dB
	RxGain48dB
)

var antennaGainBits = map[AntennaGain]byte{
	RxGain18dB: 0x02 << 4,
	RxGain23dB: 0x03 << 4,
	RxGain33dB: 0x04 << 4,
	RxGain38dB: 0x05 << 4,
	RxGain43dB: 0x06 << 4,
	RxGain48dB: 0x07 << 4,
}

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Timeout bounds a single PCD command while waiting for its interrupt
	Timeout time.Duration

	// ResetDelay is how long the chip gets to start its oscillator after a reset
	ResetDelay time.Duration

	// AntennaGain is applied during Init when not RxGainDefault
	AntennaGain AntennaGain
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Timeout:    36 * time.Millisecond,
		ResetDelay: 50 * time.Millisecond,
	}
}

// Device represents an RC522 reader (PCD)
//
// Thread Safety: Device is NOT thread-safe. The chip holds a single FIFO and
// Crypto1 state, so all methods must be called from one goroutine.
type Device struct {
	transport Transport
	config    *DeviceConfig
	resetPin  gpio.PinOut
	version   byte
}

// New creates a new RC522 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport cannot be nil", ErrInvalidParameter)
	}
	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Init resets the chip, verifies it answers and programs the defaults used
// for ISO/IEC 14443 A at 106 kBd: a 25 ms receive timer, 100% ASK modulation
// and CRC preset 0x6363. The antenna is switched on last.
func (d *Device) Init() error {
	if err := d.reset(); err != nil {
		return fmt.Errorf("failed to reset RC522: %w", err)
	}

	version, err := d.transport.ReadRegister(VersionReg)
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if version == 0x00 || version == 0xFF {
		return fmt.Errorf("%w: VersionReg returned 0x%02X", ErrNoChip, version)
	}
	d.version = version
	debugf("RC522 firmware: %s", VersionName(version))

	initRegs := []struct {
		reg Register
		val byte
	}{
		{TxModeReg, 0x00},
		{RxModeReg, 0x00},
		{ModWidthReg, 0x26},
		// TAuto: timer starts after every transmission
		{TModeReg, 0x80},
		// 13.56 MHz / (2*169+1) gives a 25 us tick
		{TPrescalerReg, 0xA9},
		// 1000 ticks
		{TReloadRegH, 0x03},
		{TReloadRegL, 0xE8},
		{TxASKReg, 0x40},
		{ModeReg, 0x3D},
	}
	for _, r := range initRegs {
		if err := d.transport.WriteRegister(r.reg, r.val); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", r.reg, err)
		}
	}

	if d.config.AntennaGain != RxGainDefault {
		if err := d.SetAntennaGain(d.config.AntennaGain); err != nil {
			return err
		}
	}

	return d.AntennaOn()
}

// reset uses the reset line when one is wired, a SoftReset command otherwise
func (d *Device) reset() error {
	if d.resetPin != nil {
		if err := d.resetPin.Out(gpio.Low); err != nil {
			return fmt.Errorf("failed to pull reset low: %w", err)
		}
		time.Sleep(time.Millisecond)
		if err := d.resetPin.Out(gpio.High); err != nil {
			return fmt.Errorf("failed to release reset: %w", err)
		}
		time.Sleep(d.config.ResetDelay)
		return nil
	}
	return d.SoftReset()
}

// SoftReset issues the SoftReset command and waits for the PowerDown bit to clear
func (d *Device) SoftReset() error {
	if err := d.transport.WriteRegister(CommandReg, pcdSoftReset); err != nil {
		return fmt.Errorf("failed to send soft reset: %w", err)
	}

	const maxChecks = 3
	for i := 0; i < maxChecks; i++ {
		time.Sleep(d.config.ResetDelay)
		v, err := d.transport.ReadRegister(CommandReg)
		if err != nil {
			return fmt.Errorf("failed to read command register: %w", err)
		}
		if v&commandPowerDown == 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: chip still powered down after soft reset", ErrTimeout)
}

// Version returns the VersionReg value read during Init
func (d *Device) Version() byte {
	return d.version
}

// VersionName describes a VersionReg value
func VersionName(v byte) string {
	switch v {
	case versionFM17522:
		return "0x88 (clone FM17522)"
	case versionV0:
		return "0x90 (v0.0)"
	case versionV1:
		return "0x91 (v1.0)"
	case versionV2:
		return "0x92 (v2.0)"
	case versionFM17522E:
		return "0x12 (counterfeit chip)"
	default:
		return fmt.Sprintf("0x%02X (unknown)", v)
	}
}

// AntennaOn enables the TX1 and TX2 antenna drivers
func (d *Device) AntennaOn() error {
	v, err := d.transport.ReadRegister(TxControlReg)
	if err != nil {
		return fmt.Errorf("failed to read antenna state: %w", err)
	}
	if v&txControlAntenna == txControlAntenna {
		return nil
	}
	if err := d.transport.WriteRegister(TxControlReg, v|txControlAntenna); err != nil {
		return fmt.Errorf("failed to enable antenna: %w", err)
	}
	return nil
}

// AntennaOff disables the antenna drivers
func (d *Device) AntennaOff() error {
	return clearBitMask(d.transport, TxControlReg, txControlAntenna)
}

// SetAntennaGain programs the receiver gain
func (d *Device) SetAntennaGain(gain AntennaGain) error {
	bits, ok := antennaGainBits[gain]
	if !ok {
		return fmt.Errorf("%w: antenna gain %d", ErrInvalidParameter, gain)
	}
	v, err := d.transport.ReadRegister(RFCfgReg)
	if err != nil {
		return fmt.Errorf("failed to read antenna gain: %w", err)
	}
	if err := d.transport.WriteRegister(RFCfgReg, (v&^rfCfgRxGainMask)|bits); err != nil {
		return fmt.Errorf("failed to set antenna gain: %w", err)
	}
	d.config.AntennaGain = gain
	return nil
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}
