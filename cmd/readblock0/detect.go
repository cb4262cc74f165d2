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

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ZaparooProject/go-rc522/detection"
	// Register every detector
	_ "github.com/ZaparooProject/go-rc522/detection/i2c"
	_ "github.com/ZaparooProject/go-rc522/detection/spi"
	_ "github.com/ZaparooProject/go-rc522/detection/uart"
	"github.com/spf13/cobra"
)

var detectionModes = map[string]detection.Mode{
	"passive": detection.Passive,
	"safe":    detection.Safe,
	"full":    detection.Full,
}

func newDetectCommand(opts *options, stdout io.Writer) *cobra.Command {
	var ignore []string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "List buses and ports an RC522 may be attached to",
		Long: "Lists SPI ports, I2C buses and serial ports. In full mode every candidate\n" +
			"is opened and its VersionReg read, which may disturb other devices.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, ok := detectionModes[opts.mode]
			if !ok {
				return fmt.Errorf("unknown detection mode %q: must be one of passive, safe, full", opts.mode)
			}

			detectOpts := detection.DefaultOptions()
			detectOpts.Mode = mode
			detectOpts.IgnorePaths = ignore

			devices, err := detection.DetectAll(cmd.Context(), &detectOpts)
			if err != nil {
				return &exitError{err: err, code: exitInitFail}
			}
			printDevices(stdout, devices)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", opts.mode, "detection mode (passive|safe|full)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "device paths to skip")
	return cmd
}

func printDevices(w io.Writer, devices []detection.DeviceInfo) {
	for _, d := range devices {
		_, _ = fmt.Fprintf(w, "%-5s %-20s %s", d.Transport, d.Path, d.Name)
		if len(d.Metadata) > 0 {
			keys := make([]string, 0, len(d.Metadata))
			for k := range d.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, len(keys))
			for i, k := range keys {
				pairs[i] = k + "=" + d.Metadata[k]
			}
			_, _ = fmt.Fprintf(w, " [%s]", strings.Join(pairs, " "))
		}
		_, _ = fmt.Fprintln(w)
	}
}
