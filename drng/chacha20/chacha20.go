/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package chacha20 implements a deterministic random number generator on the
// raw ChaCha20 block function. The keystream itself is the output; after
// every request the key words are re-derived from keystream the caller never
// saw, so a captured state does not reveal earlier output.
package chacha20

import (
	"encoding/binary"

	"github.com/entrolab/entropyd/entropy"
	"github.com/entrolab/entropyd/internal/chacha"
)

const (
	keyWordBase   = 4
	keyWords      = chacha.KeySize / 4
	counterWord   = 12
	nonceWordBase = 13
	nonceWords    = 3
)

func init() {
	// The update fold pairs each key word with one word of the other block
	// half and therefore requires this exact geometry.
	if chacha.BlockSize != 2*chacha.KeySize {
		panic("chacha20: block size must be twice the key size")
	}
	if 4*chacha.StateWords != chacha.BlockSize {
		panic("chacha20: serialized state must span exactly one block")
	}
}

// state is one generator instance: the 16-word block function state plus the
// provenance Deallocate needs to release it.
type state struct {
	words  [chacha.StateWords]uint32
	static bool
	slot   int
}

// InstanceKind reports whether the instance lives in the static pool or on
// the heap.
func (s *state) InstanceKind() string {
	if s.static {
		return "static"
	}
	return "heap"
}

// initialize mixes one reading from every available source into each key and
// nonce word, then advances the state once so the first request never emits
// keystream derived from the raw readings alone.
func (s *state) initialize(sources []entropy.Source) {
	copy(s.words[:keyWordBase], chacha.Constants[:])

	for i := 0; i < keyWords; i++ {
		for _, src := range sources {
			if v, ok := src(); ok {
				s.words[keyWordBase+i] ^= uint32(v)
			}
		}
	}

	s.words[counterWord] = 0

	for i := 0; i < nonceWords; i++ {
		for _, src := range sources {
			if v, ok := src(); ok {
				s.words[nonceWordBase+i] ^= uint32(v)
			}
		}
	}

	s.update(nil, chacha.StateWords)
}

// update rekeys the state after output left it. tail is the serialized block
// most recently produced and usedWords counts how many of its 16 words the
// caller saw: when more than a key's worth was disclosed a fresh mixing
// block is drawn, otherwise the undisclosed tail words are folded back
// directly. The nonce then advances as a 96-bit little-endian counter. Only
// block generation moves the counter word.
func (s *state) update(tail []byte, usedWords int) {
	if usedWords > keyWords {
		var block [chacha.BlockSize]byte
		chacha.Block(&s.words, block[:])
		for i := 0; i < keyWords; i++ {
			s.words[keyWordBase+i] ^= binary.LittleEndian.Uint32(block[4*i:])
		}
		burnBytes(block[:])
	} else {
		for i := 0; i < keyWords; i++ {
			s.words[keyWordBase+i] ^= binary.LittleEndian.Uint32(tail[4*(usedWords+i):])
		}
	}

	// Nonce increment as required by RFC 7539 chapter 4.
	s.words[nonceWordBase]++
	if s.words[nonceWordBase] == 0 {
		s.words[nonceWordBase+1]++
		if s.words[nonceWordBase+1] == 0 {
			s.words[nonceWordBase+2]++
		}
	}
}

// seed absorbs input in chunks of at most one key's worth. Each chunk is
// XORed onto the key bytes and followed by a forced rekey so consecutive
// chunks cannot cancel each other out of the key.
func (s *state) seed(input []byte) {
	for len(input) > 0 {
		todo := len(input)
		if todo > chacha.KeySize {
			todo = chacha.KeySize
		}

		for i := 0; i < todo; i++ {
			s.words[keyWordBase+i/4] ^= uint32(input[i]) << (8 * uint(i%4))
		}

		s.update(nil, chacha.StateWords)

		input = input[todo:]
	}
}

// generate fills out with keystream, whole blocks directly and a trailing
// partial through a scratch block. Exactly one update closes the request;
// after a partial block it reuses the scratch words the caller never saw.
func (s *state) generate(out []byte) {
	for len(out) >= chacha.BlockSize {
		chacha.Block(&s.words, out)
		out = out[chacha.BlockSize:]
	}

	if len(out) == 0 {
		s.update(nil, chacha.StateWords)
		return
	}

	var scratch [chacha.BlockSize]byte
	chacha.Block(&s.words, scratch[:])
	copy(out, scratch[:])
	s.update(scratch[:], (len(out)+3)/4)
	burnBytes(scratch[:])
}

// generateFull emits at most half of every block: the upper eight words are
// folded onto the lower eight so each output bit can carry a full bit of
// entropy. Every block counts as fully disclosed, hence the closing update
// always draws a fresh mixing block.
func (s *state) generateFull(out []byte) {
	var scratch [chacha.BlockSize]byte
	for len(out) > 0 {
		chacha.Block(&s.words, scratch[:])

		for i := 0; i < keyWords; i++ {
			lo := binary.LittleEndian.Uint32(scratch[4*i:])
			hi := binary.LittleEndian.Uint32(scratch[4*(keyWords+i):])
			binary.LittleEndian.PutUint32(scratch[4*i:], lo^hi)
		}

		n := copy(out, scratch[:chacha.KeySize])
		out = out[n:]
	}
	burnBytes(scratch[:])

	s.update(nil, chacha.StateWords)
}

// zeroize burns every state word, key and bookkeeping alike.
func (s *state) zeroize() {
	for i := range s.words {
		s.words[i] = 0
	}
}

func burnBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
