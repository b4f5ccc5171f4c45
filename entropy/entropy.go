/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package entropy defines the raw entropy sources generator backends mix
// into fresh instances. Sources are deliberately weak individually; backends
// XOR one reading from every available source into each state word and rely
// on proper seeding to reach full strength later.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/entrolab/entropyd/common/flogging"
)

var logger = flogging.MustGetLogger("entropy")

// A Source returns one raw entropy reading. The boolean reports whether a
// reading was available; an unavailable reading contributes nothing and the
// caller moves on.
type Source func() (uint64, bool)

var processStart = time.Now()

// CoarseTime reads the monotonic clock at scheduler-tick granularity. It is
// always available.
func CoarseTime() (uint64, bool) {
	return uint64(time.Since(processStart) / time.Millisecond), true
}

// CycleCounter reads the monotonic clock at its full resolution, standing in
// for a hardware cycle counter. It is always available.
func CycleCounter() (uint64, bool) {
	return uint64(time.Since(processStart)), true
}

// HardwareRandom reads eight bytes from the operating system random source.
// It reports unavailable when the read fails, so callers degrade to the
// clock sources instead of blocking.
func HardwareRandom() (uint64, bool) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		logger.Warnw("operating system random source unavailable", "error", err)
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[:]), true
}

// Boot returns the source set usable before the operating system random
// source is ready.
func Boot() []Source {
	return []Source{CoarseTime, CycleCounter}
}

// Runtime returns the full source set.
func Runtime() []Source {
	return []Source{CoarseTime, CycleCounter, HardwareRandom}
}
