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

// Package probe recovers block 0 of MIFARE Classic cards by trying well known keys.
package probe

import (
	"errors"
	"fmt"
	"io"

	rc522 "github.com/ZaparooProject/go-rc522"
	"github.com/sirupsen/logrus"
)

// Block is the block every probe reads
const Block byte = 0

// Probe errors
var (
	ErrReadFailed = errors.New("block read failed after authentication")
	ErrCardLost   = errors.New("card lost during key trials")
)

// Reader is the part of the RC522 driver a probe needs. *rc522.Device implements it.
type Reader interface {
	IsNewCardPresent() bool
	ReadCardSerial() (*rc522.UID, error)
	Authenticate(keyType rc522.KeyType, block byte, key rc522.Key, uid *rc522.UID) error
	ReadBlock(block byte, buf []byte) (int, error)
	HaltA() error
	StopCrypto1() error
}

// Waker is implemented by readers that can wake a halted card. When the
// reader supports it, the card is woken and selected again before every key
// after the first, since each trial ends with HLTA.
type Waker interface {
	WakeupA() ([]byte, error)
}

// Outcome classifies a probe
type Outcome int

const (
	// NoCard means no idle card answered REQA
	NoCard Outcome = iota
	// SelectFailed means a card answered but anticollision or select failed
	SelectFailed
	// KeyFound means a key authenticated and block 0 was read
	KeyFound
	// NoKeyWorked means no key authenticated
	NoKeyWorked
	// ReadFailed means at least one key authenticated but every read failed
	ReadFailed
	// CardLost means the card could not be selected again before every key
	// was tried
	CardLost
)

var outcomeNames = map[Outcome]string{
	NoCard:       "no card",
	SelectFailed: "select failed",
	KeyFound:     "key found",
	NoKeyWorked:  "no key worked",
	ReadFailed:   "read failed",
	CardLost:     "card lost",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result describes one probe. UID and Type are set once a card was selected,
// Key and Block only for KeyFound. Err holds why the key trials stopped
// early and wraps ErrCardLost.
type Result struct {
	UID     *rc522.UID
	Err     error
	Block   []byte
	Key     rc522.Key
	Type    rc522.PICCType
	Outcome Outcome
	Tried   int // keys tried
}

// Prober runs detect, select, key trials and halt against a Reader and
// writes the report to an io.Writer.
//
// Thread Safety: Prober is NOT thread-safe; it owns the reader while probing.
type Prober struct {
	reader Reader
	out    io.Writer
	log    logrus.FieldLogger
	keys   KeyTable
}

// Option is a functional option for configuring a Prober
type Option func(*Prober)

// WithLogger sets the logger for diagnostics that are not part of the report
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Prober) {
		p.log = log
	}
}

// New creates a Prober writing its report to out
func New(reader Reader, out io.Writer, opts ...Option) *Prober {
	p := &Prober{
		reader: reader,
		out:    out,
		log:    logrus.StandardLogger(),
		keys:   DefaultKeys(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProbeOnce checks for a new card and, when one is selected, tries every key
// until block 0 is read. A missing card returns at once without side effects.
func (p *Prober) ProbeOnce() Result {
	if !p.reader.IsNewCardPresent() {
		return Result{Outcome: NoCard}
	}

	uid, err := p.reader.ReadCardSerial()
	if err != nil {
		p.log.WithError(err).Debug("card answered but could not be selected")
		return Result{Outcome: SelectFailed}
	}

	res := Result{UID: uid, Type: uid.Type(), Outcome: NoKeyWorked}
	_, _ = fmt.Fprintf(p.out, "Card UID:%s\n", hexBytes(uid.Bytes))
	_, _ = fmt.Fprintf(p.out, "PICC type: %s\n", res.Type)

	log := p.log.WithField("uid", uid.String())
	authenticated := 0
	for i, key := range p.keys {
		if i > 0 {
			if err := p.reselect(uid); err != nil {
				res.Err = err
				break
			}
		}

		res.Tried++
		block, err := p.TryKey(key, uid)
		if err == nil {
			res.Outcome = KeyFound
			res.Key = key
			res.Block = block
			return res
		}
		if errors.Is(err, ErrReadFailed) {
			authenticated++
			log.WithError(err).WithField("key", key.String()).Warn("key authenticated but block read failed")
			continue
		}
		log.WithError(err).WithField("key", key.String()).Debug("key rejected")
	}

	switch {
	case authenticated > 0:
		res.Outcome = ReadFailed
		log.WithField("keys", authenticated).Warn("keys authenticated but no block could be read")
	case res.Err != nil:
		res.Outcome = CardLost
		log.WithError(res.Err).WithFields(logrus.Fields{
			"tried": res.Tried,
			"keys":  len(p.keys),
		}).Info("card lost before every key was tried")
	default:
		log.Info("no known key works for this card")
	}
	return res
}

// reselect wakes and selects the card again when the reader supports it
func (p *Prober) reselect(uid *rc522.UID) error {
	w, ok := p.reader.(Waker)
	if !ok {
		return nil
	}
	if _, err := w.WakeupA(); err != nil {
		return fmt.Errorf("%w: wakeup: %w", ErrCardLost, err)
	}
	again, err := p.reader.ReadCardSerial()
	if err != nil {
		return fmt.Errorf("%w: select: %w", ErrCardLost, err)
	}
	if again.String() != uid.String() {
		return fmt.Errorf("%w: card %s answered instead", ErrCardLost, again)
	}
	return nil
}

// TryKey authenticates block 0 with key as Key A and reads it. The card is
// halted and Crypto1 stopped before it returns, whatever the outcome. On
// success the report lines are written and the 16 block bytes returned.
func (p *Prober) TryKey(key rc522.Key, uid *rc522.UID) (block []byte, err error) {
	defer func() {
		if haltErr := p.reader.HaltA(); haltErr != nil {
			p.log.WithError(haltErr).Debug("failed to halt card")
		}
		if stopErr := p.reader.StopCrypto1(); stopErr != nil {
			p.log.WithError(stopErr).Debug("failed to stop Crypto1")
		}
	}()

	if err := p.reader.Authenticate(rc522.MIFAREKeyA, Block, key, uid); err != nil {
		return nil, err
	}

	buf := make([]byte, rc522.MIFAREReadBufferSize)
	n, readErr := p.reader.ReadBlock(Block, buf)
	if readErr == nil && n < rc522.MIFAREBlockSize {
		readErr = fmt.Errorf("%w: %d bytes", rc522.ErrProtocol, n)
	}
	if readErr != nil {
		_, _ = fmt.Fprintln(p.out)
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, readErr)
	}

	block = buf[:rc522.MIFAREBlockSize]
	_, _ = fmt.Fprintf(p.out, "Success with key:%s\n", hexBytes(key[:]))
	_, _ = fmt.Fprintf(p.out, "Block %d:%s\n", Block, hexBytes(block))
	_, _ = fmt.Fprintln(p.out)
	return block, nil
}
