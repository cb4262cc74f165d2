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

// Package uart detects serial ports an RC522 may be attached to
package uart

import (
	"context"
	"fmt"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/detection"
	uarttransport "github.com/ZaparooProject/go-rc522/transport/uart"
	"go.bug.st/serial/enumerator"
)

// detector implements the Detector interface for serial ports
type detector struct{}

// New creates a new UART detector
func New() detection.Detector {
	return &detector{}
}

// init registers the detector on package import
func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return string(rc522.TransportUART)
}

// Detect lists serial ports. USB adapters in the blocklist are skipped.
func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, port := range ports {
		if err := detection.CheckContext(ctx); err != nil {
			return devices, err
		}

		device, ok := describe(port, opts)
		if !ok {
			continue
		}

		if opts.Mode == detection.Full {
			version, err := readVersion(port.Name)
			if err != nil {
				continue
			}
			device.Metadata["version"] = rc522.VersionName(version)
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// describe builds the DeviceInfo for port, or reports false when it must be skipped
func describe(port *enumerator.PortDetails, opts *detection.Options) (detection.DeviceInfo, bool) {
	if detection.IsPathIgnored(port.Name, opts.IgnorePaths) {
		return detection.DeviceInfo{}, false
	}
	if opts.Mode >= detection.Safe && !detection.Accessible(port.Name) {
		return detection.DeviceInfo{}, false
	}

	device := detection.DeviceInfo{
		Transport: string(rc522.TransportUART),
		Path:      port.Name,
		Name:      "Serial port " + port.Name,
		Metadata:  map[string]string{},
	}
	if port.IsUSB {
		vidpid := port.VID + ":" + port.PID
		if detection.IsBlocked(vidpid, opts.Blocklist) {
			return detection.DeviceInfo{}, false
		}
		device.Metadata["vidpid"] = vidpid
		if port.Product != "" {
			device.Name = port.Product + " (" + port.Name + ")"
		}
		if port.SerialNumber != "" {
			device.Metadata["serial"] = port.SerialNumber
		}
	}
	return device, true
}

// readVersion opens port at the chip's reset baud rate and reads VersionReg
func readVersion(port string) (byte, error) {
	t, err := uarttransport.New(port, 0)
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
