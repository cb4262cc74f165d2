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
	"context"
	"errors"
	"fmt"
	"io"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/ZaparooProject/go-rc522/polling"
	"github.com/ZaparooProject/go-rc522/probe"
	"github.com/ZaparooProject/go-rc522/transport/i2c"
	"github.com/ZaparooProject/go-rc522/transport/spi"
	"github.com/ZaparooProject/go-rc522/transport/uart"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/physic"
)

// Exit codes
const (
	exitOK           = 0
	exitUsage        = 1
	exitInitFail     = 2
	exitShutdownFail = 3
)

const banner = "Try the most used default keys to print block 0 of a MIFARE PICC.\n" +
	"Press Ctrl + C to EXIT\n"

// exitError carries the process exit code of a failed command
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// execute runs the command line and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	log := newLogger(stderr)
	cmd := newRootCommand(stdout, log)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		log.WithError(ee.err).Error("readblock0 failed")
		return ee.code
	}
	_, _ = fmt.Fprintln(stderr, "Error:", err)
	return exitUsage
}

func newLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

func newRootCommand(stdout io.Writer, log *logrus.Logger) *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "readblock0",
		Short: "Print block 0 of MIFARE Classic cards using well known keys",
		Long: "Polls an RC522 reader. For every new card the UID and type are printed,\n" +
			"then the default MIFARE keys are tried as Key A until block 0 can be read.\n" +
			"Every flag can also be set with an RC522_* environment variable or in a .env file.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvFile(opts.envFile, cmd.Flags().Changed("env-file")); err != nil {
				return err
			}
			if err := applyEnv(cmd.Flags()); err != nil {
				return err
			}
			if opts.debug {
				log.SetLevel(logrus.DebugLevel)
				rc522.SetLogger(log)
				rc522.SetDebugEnabled(true)
			}
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd.Context(), opts, stdout, log)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.transport, "transport", opts.transport, "bus the RC522 is wired to (spi|i2c|uart)")
	flags.StringVarP(&opts.device, "device", "d", opts.device,
		"SPI port, I2C bus or serial port; empty selects the first SPI port or I2C bus")
	flags.StringVar(&opts.resetPin, "reset-pin", opts.resetPin, "GPIO wired to RST, empty for a soft reset (spi only)")
	flags.Int64Var(&opts.spiHz, "spi-hz", opts.spiHz, "SPI clock in Hz")
	flags.Uint16Var(&opts.i2cAddr, "i2c-addr", opts.i2cAddr, "I2C address of the RC522")
	flags.IntVar(&opts.baud, "baud", opts.baud, "UART baud rate")
	flags.DurationVar(&opts.pollInterval, "poll-interval", opts.pollInterval, "pause between two polls, 0 polls back to back")
	flags.DurationVar(&opts.timeout, "timeout", opts.timeout, "how long one PCD command may take")
	flags.IntVar(&opts.antennaGain, "antenna-gain", opts.antennaGain,
		"receiver gain in dB (18, 23, 33, 38, 43, 48), 0 keeps the chip default")
	flags.StringVar(&opts.envFile, "env-file", opts.envFile, "file with RC522_* variables")
	flags.BoolVar(&opts.debug, "debug", opts.debug, "log driver traces to stderr")

	cmd.AddCommand(newDetectCommand(opts, stdout))
	return cmd
}

// openTransport opens the configured bus. The device options carry the reset pin when the transport owns one.
func openTransport(opts *options) (rc522.Transport, []rc522.Option, error) {
	switch opts.transport {
	case "i2c":
		t, err := i2c.New(opts.device, opts.i2cAddr)
		if err != nil {
			return nil, nil, err
		}
		return t, nil, nil
	case "uart":
		t, err := uart.New(opts.device, opts.baud)
		if err != nil {
			return nil, nil, err
		}
		return t, nil, nil
	default:
		t, err := spi.New(opts.device,
			spi.WithSpeed(physic.Frequency(opts.spiHz)*physic.Hertz),
			spi.WithResetPin(opts.resetPin))
		if err != nil {
			return nil, nil, err
		}
		var devOpts []rc522.Option
		if pin := t.ResetPin(); pin != nil {
			devOpts = append(devOpts, rc522.WithResetPin(pin))
		}
		return t, devOpts, nil
	}
}

// openDevice opens the transport and initializes the reader. On failure
// everything acquired so far is released.
func openDevice(opts *options) (*rc522.Device, error) {
	transport, devOpts, err := openTransport(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s transport: %w", opts.transport, err)
	}

	devOpts = append(devOpts,
		rc522.WithTimeout(opts.timeout),
		rc522.WithAntennaGain(antennaGains[opts.antennaGain]))
	device, err := rc522.New(transport, devOpts...)
	if err != nil {
		_ = transport.Close()
		return nil, err
	}
	if err := device.Init(); err != nil {
		_ = device.Close()
		return nil, fmt.Errorf("failed to initialize RC522: %w", err)
	}
	return device, nil
}

// runProbe initializes the reader and polls until SIGINT or SIGTERM
func runProbe(ctx context.Context, opts *options, stdout io.Writer, log *logrus.Logger) error {
	device, err := openDevice(opts)
	if err != nil {
		return &exitError{err: err, code: exitInitFail}
	}
	log.WithFields(logrus.Fields{
		"transport": device.Transport().Type(),
		"version":   rc522.VersionName(device.Version()),
	}).Debug("reader initialized")

	prober := probe.New(device, stdout, probe.WithLogger(log))
	session, err := polling.NewSession(prober, device, &polling.Config{PollInterval: opts.pollInterval})
	if err != nil {
		_ = device.Close()
		return &exitError{err: err, code: exitInitFail}
	}
	session.SetLogger(log)

	ctx, stop := notifyContext(ctx)
	defer stop()

	return runSession(ctx, session, stdout)
}

// runSession prints the banner and polls until ctx is done. Failing to
// release the reader on the way out is its own exit code.
func runSession(ctx context.Context, session *polling.Session, stdout io.Writer) error {
	_, _ = fmt.Fprint(stdout, banner)
	if err := session.Run(ctx); err != nil {
		return &exitError{err: err, code: exitShutdownFail}
	}
	return nil
}
