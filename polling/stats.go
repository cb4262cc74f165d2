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

package polling

import (
	"sync/atomic"

	"github.com/ZaparooProject/go-rc522/probe"
)

// Stats counts probe outcomes. The counters can be read while the session runs.
type Stats struct {
	Polls      atomic.Uint64
	Cards      atomic.Uint64
	KeysFound  atomic.Uint64
	ReadFailed atomic.Uint64
}

// StatsSnapshot is a point in time copy of Stats
type StatsSnapshot struct {
	Polls      uint64
	Cards      uint64
	KeysFound  uint64
	ReadFailed uint64
}

func (s *Stats) record(res probe.Result) {
	s.Polls.Add(1)
	if res.UID != nil {
		s.Cards.Add(1)
	}
	switch res.Outcome {
	case probe.KeyFound:
		s.KeysFound.Add(1)
	case probe.ReadFailed:
		s.ReadFailed.Add(1)
	case probe.NoCard, probe.SelectFailed, probe.NoKeyWorked, probe.CardLost:
	}
}

// Snapshot copies the current counters
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Polls:      s.Polls.Load(),
		Cards:      s.Cards.Load(),
		KeysFound:  s.KeysFound.Load(),
		ReadFailed: s.ReadFailed.Load(),
	}
}
