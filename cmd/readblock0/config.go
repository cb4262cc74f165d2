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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/internal/frame"
	"github.com/ZaparooProject/go-rc522/transport/spi"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"periph.io/x/conn/v3/physic"
)

const envPrefix = "RC522_"

// options holds every setting of the command. Flags win over RC522_*
// environment variables, which win over the defaults.
type options struct {
	transport    string
	device       string
	resetPin     string
	envFile      string
	mode         string
	spiHz        int64
	baud         int
	pollInterval time.Duration
	timeout      time.Duration
	antennaGain  int
	i2cAddr      uint16
	debug        bool
}

func defaultOptions() *options {
	return &options{
		transport:    "spi",
		resetPin:     "GPIO25",
		envFile:      ".env",
		mode:         "safe",
		spiHz:        int64(spi.DefaultSpeed / physic.Hertz),
		baud:         frame.DefaultUARTBaud,
		pollInterval: 10 * time.Millisecond,
		timeout:      36 * time.Millisecond,
		i2cAddr:      frame.DefaultI2CAddr,
	}
}

// loadEnvFile reads KEY=value pairs into the environment without overriding
// variables that are already set. A missing default file is not an error.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// applyEnv sets every flag the user did not pass from its RC522_* variable
func applyEnv(flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" {
			return
		}
		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if err := flags.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName(f.Name), err))
		}
	})
	return errors.Join(errs...)
}

// envName maps a flag name to its environment variable, e.g. reset-pin to RC522_RESET_PIN
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

var antennaGains = map[int]rc522.AntennaGain{
	0:  rc522.RxGainDefault,
	18: rc522.RxGain18dB,
	23: rc522.RxGain23dB,
	33: rc522.RxGain33dB,
	38: rc522.RxGain38dB,
	43: rc522.RxGain43dB,
	48: rc522.RxGain48dB,
}

// validate checks values the flag parser cannot
func (o *options) validate() error {
	switch o.transport {
	case "spi", "i2c", "uart":
	default:
		return fmt.Errorf("unknown transport %q: must be one of spi, i2c, uart", o.transport)
	}
	if o.transport == "uart" && o.device == "" {
		return errors.New("--device is required for the uart transport")
	}
	if _, ok := antennaGains[o.antennaGain]; !ok {
		return fmt.Errorf("unsupported antenna gain %d dB", o.antennaGain)
	}
	if o.pollInterval < 0 {
		return errors.New("--poll-interval cannot be negative")
	}
	if o.timeout <= 0 {
		return errors.New("--timeout must be positive")
	}
	if o.spiHz <= 0 {
		return errors.New("--spi-hz must be positive")
	}
	return nil
}
