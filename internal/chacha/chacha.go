/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package chacha implements the raw ChaCha20 block function over an exposed
// 16-word state. The deterministic generators built on top of it manipulate
// the key, counter and nonce words of the state directly, which the
// high-level stream cipher APIs deliberately prevent.
package chacha

import (
	"encoding/binary"
	"math/bits"
)

const (
	// KeySize is the width in bytes of the key occupying state words 4
	// through 11.
	KeySize = 32

	// BlockSize is the width in bytes of one serialized keystream block.
	BlockSize = 64

	// StateWords is the number of 32-bit words in the working state.
	StateWords = 16
)

// Constants is the "expand 32-byte k" tag occupying state words 0 through 3.
var Constants = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

// Block computes one keystream block from state, serializes the 16 output
// words little-endian into out, and advances the counter word state[12] by
// one. Every other word is left untouched; the caller owns their values.
// len(out) must be at least BlockSize.
func Block(state *[StateWords]uint32, out []byte) {
	if len(out) < BlockSize {
		panic("chacha: output shorter than one block")
	}

	x0, x1, x2, x3 := state[0], state[1], state[2], state[3]
	x4, x5, x6, x7 := state[4], state[5], state[6], state[7]
	x8, x9, x10, x11 := state[8], state[9], state[10], state[11]
	x12, x13, x14, x15 := state[12], state[13], state[14], state[15]

	for i := 0; i < 10; i++ {
		x0, x4, x8, x12 = quarterRound(x0, x4, x8, x12)
		x1, x5, x9, x13 = quarterRound(x1, x5, x9, x13)
		x2, x6, x10, x14 = quarterRound(x2, x6, x10, x14)
		x3, x7, x11, x15 = quarterRound(x3, x7, x11, x15)

		x0, x5, x10, x15 = quarterRound(x0, x5, x10, x15)
		x1, x6, x11, x12 = quarterRound(x1, x6, x11, x12)
		x2, x7, x8, x13 = quarterRound(x2, x7, x8, x13)
		x3, x4, x9, x14 = quarterRound(x3, x4, x9, x14)
	}

	binary.LittleEndian.PutUint32(out[0:4], x0+state[0])
	binary.LittleEndian.PutUint32(out[4:8], x1+state[1])
	binary.LittleEndian.PutUint32(out[8:12], x2+state[2])
	binary.LittleEndian.PutUint32(out[12:16], x3+state[3])
	binary.LittleEndian.PutUint32(out[16:20], x4+state[4])
	binary.LittleEndian.PutUint32(out[20:24], x5+state[5])
	binary.LittleEndian.PutUint32(out[24:28], x6+state[6])
	binary.LittleEndian.PutUint32(out[28:32], x7+state[7])
	binary.LittleEndian.PutUint32(out[32:36], x8+state[8])
	binary.LittleEndian.PutUint32(out[36:40], x9+state[9])
	binary.LittleEndian.PutUint32(out[40:44], x10+state[10])
	binary.LittleEndian.PutUint32(out[44:48], x11+state[11])
	binary.LittleEndian.PutUint32(out[48:52], x12+state[12])
	binary.LittleEndian.PutUint32(out[52:56], x13+state[13])
	binary.LittleEndian.PutUint32(out[56:60], x14+state[14])
	binary.LittleEndian.PutUint32(out[60:64], x15+state[15])

	state[12]++
}

func quarterRound(a, b, c, d uint32) (uint32, uint32, uint32, uint32) {
	a += b
	d = bits.RotateLeft32(d^a, 16)
	c += d
	b = bits.RotateLeft32(b^c, 12)
	a += b
	d = bits.RotateLeft32(d^a, 8)
	c += d
	b = bits.RotateLeft32(b^c, 7)
	return a, b, c, d
}
