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

// Package i2c detects I2C buses an RC522 may be attached to
package i2c

import (
	"context"
	"fmt"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/detection"
	"github.com/ZaparooProject/go-rc522/internal/frame"
	i2ctransport "github.com/ZaparooProject/go-rc522/transport/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultRC522Address is the I2C address of an RC522 with its address pins low
const DefaultRC522Address = frame.DefaultI2CAddr

// detector implements the Detector interface for I2C buses
type detector struct{}

// New creates a new I2C detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return string(rc522.TransportI2C)
}

// Detect lists the I2C buses known to periph
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, ref := range i2creg.All() {
		if err := detection.CheckContext(ctx); err != nil {
			return devices, err
		}

		path := ref.Name
		if ref.Number >= 0 {
			path = fmt.Sprintf("/dev/i2c-%d", ref.Number)
		}
		if detection.IsPathIgnored(path, opts.IgnorePaths) || detection.IsPathIgnored(ref.Name, opts.IgnorePaths) {
			continue
		}
		if opts.Mode >= detection.Safe && !detection.Accessible(path) {
			continue
		}

		device := detection.DeviceInfo{
			Transport: string(rc522.TransportI2C),
			Path:      ref.Name,
			Name:      fmt.Sprintf("I2C bus %s address 0x%02X", ref.Name, DefaultRC522Address),
			Metadata: map[string]string{
				"bus":     path,
				"address": fmt.Sprintf("0x%02X", DefaultRC522Address),
			},
		}

		if opts.Mode == detection.Full {
			version, err := readVersion(ref.Name)
			if err != nil {
				continue
			}
			device.Metadata["version"] = rc522.VersionName(version)
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// readVersion reads VersionReg from the default address on bus
func readVersion(bus string) (byte, error) {
	t, err := i2ctransport.New(bus, DefaultRC522Address)
	if err != nil {
		return 0, err
	}
	defer func() { _ = t.Close() }()

	version, err := t.ReadRegister(rc522.VersionReg)
	if err != nil {
		return 0, err
	}
	if version == 0x00 || version == 0xFF {
		return 0, rc522.ErrNoChip
	}
	return version, nil
}
