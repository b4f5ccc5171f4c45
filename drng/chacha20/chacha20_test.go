/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chacha20

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/entropy"
	"github.com/entrolab/entropyd/internal/chacha"
	"github.com/stretchr/testify/require"
	xchacha "golang.org/x/crypto/chacha20"
)

// oracleBlock computes the keystream block an independent implementation
// produces from the given state.
func oracleBlock(t *testing.T, words [chacha.StateWords]uint32) []byte {
	key := make([]byte, chacha.KeySize)
	for i := 0; i < keyWords; i++ {
		binary.LittleEndian.PutUint32(key[4*i:], words[keyWordBase+i])
	}
	nonce := make([]byte, xchacha.NonceSize)
	for i := 0; i < nonceWords; i++ {
		binary.LittleEndian.PutUint32(nonce[4*i:], words[nonceWordBase+i])
	}

	cipher, err := xchacha.NewUnauthenticatedCipher(key, nonce)
	require.NoError(t, err)
	cipher.SetCounter(words[counterWord])

	block := make([]byte, chacha.BlockSize)
	cipher.XORKeyStream(block, block)
	return block
}

func TestSelfTest(t *testing.T) {
	require.NoError(t, SelfTest())
}

func TestName(t *testing.T) {
	require.Equal(t, "ChaCha20 DRNG", New().Name())
}

func TestDeterministicConstruction(t *testing.T) {
	p := New()
	a, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	b, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)

	seed := make([]byte, 48)
	_, err = rand.Read(seed)
	require.NoError(t, err)
	require.NoError(t, p.Seed(a, seed))
	require.NoError(t, p.Seed(b, seed))

	outA := make([]byte, 200)
	outB := make([]byte, 200)
	n, err := p.Generate(a, outA)
	require.NoError(t, err)
	require.Equal(t, len(outA), n)
	_, err = p.Generate(b, outB)
	require.NoError(t, err)
	require.Equal(t, outA, outB)

	fullA := make([]byte, 96)
	fullB := make([]byte, 96)
	_, err = p.GenerateFull(a, fullA)
	require.NoError(t, err)
	_, err = p.GenerateFull(b, fullB)
	require.NoError(t, err)
	require.Equal(t, fullA, fullB)
}

func TestSeedChunkBoundaries(t *testing.T) {
	for _, split := range []int{32, 16} {
		p := New()
		whole, err := p.Allocate(drng.SecurityStrengthBytes)
		require.NoError(t, err)
		pieces, err := p.Allocate(drng.SecurityStrengthBytes)
		require.NoError(t, err)

		material := make([]byte, 32+split)
		_, err = rand.Read(material)
		require.NoError(t, err)

		require.NoError(t, p.Seed(whole, material))
		require.NoError(t, p.Seed(pieces, material[:32]))
		require.NoError(t, p.Seed(pieces, material[32:]))

		require.Equal(t, whole.(*state).words, pieces.(*state).words)
	}
}

func TestEmptySeed(t *testing.T) {
	p := New()
	inst, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)

	before := inst.(*state).words
	require.NoError(t, p.Seed(inst, nil))
	require.NoError(t, p.Seed(inst, []byte{}))
	require.Equal(t, before, inst.(*state).words)
}

func TestGenerateMatchesKeystream(t *testing.T) {
	p := New()
	inst, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	require.NoError(t, p.Seed(inst, []byte("leave the constant starting state behind")))
	s := inst.(*state)

	before := s.words
	out := make([]byte, chacha.BlockSize)
	n, err := p.Generate(inst, out)
	require.NoError(t, err)
	require.Equal(t, chacha.BlockSize, n)

	require.Equal(t, oracleBlock(t, before), out)
	require.Equal(t, before[nonceWordBase]+1, s.words[nonceWordBase])
}

func TestFullStrengthFold(t *testing.T) {
	p := New()
	inst, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	s := inst.(*state)

	before := s.words
	out := make([]byte, chacha.KeySize)
	_, err = p.GenerateFull(inst, out)
	require.NoError(t, err)

	block := oracleBlock(t, before)
	expected := make([]byte, chacha.KeySize)
	for i := range expected {
		expected[i] = block[i] ^ block[chacha.KeySize+i]
	}
	require.Equal(t, expected, out)
}

func TestNonceCarry(t *testing.T) {
	tests := []struct {
		name   string
		before [nonceWords]uint32
		after  [nonceWords]uint32
	}{
		{"increment", [nonceWords]uint32{5, 0, 7}, [nonceWords]uint32{6, 0, 7}},
		{"single wrap", [nonceWords]uint32{0xFFFFFFFF, 0, 0}, [nonceWords]uint32{0, 1, 0}},
		{"double wrap", [nonceWords]uint32{0xFFFFFFFF, 0xFFFFFFFF, 5}, [nonceWords]uint32{0, 0, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testVectorState()
			copy(s.words[nonceWordBase:], tt.before[:])
			s.update(nil, chacha.StateWords)
			require.Equal(t, tt.after[:], s.words[nonceWordBase:])
		})
	}
}

func TestAllocateStrength(t *testing.T) {
	p := New()

	_, err := p.Allocate(33)
	var strengthErr *drng.InvalidSecurityStrengthError
	require.ErrorAs(t, err, &strengthErr)
	require.Equal(t, uint32(33), strengthErr.Requested)
	require.Equal(t, uint32(32), strengthErr.Capability)

	_, err = p.AllocateStatic(0, 33)
	require.ErrorAs(t, err, &strengthErr)

	inst, err := p.Allocate(32)
	require.NoError(t, err)
	p.Deallocate(inst)

	inst, err = p.Allocate(16)
	require.NoError(t, err)
	p.Deallocate(inst)
}

func TestStaticPool(t *testing.T) {
	p := New()

	inst, err := p.AllocateStatic(0, drng.SecurityStrengthBytes)
	require.NoError(t, err)
	require.Equal(t, "static", inst.(*state).InstanceKind())

	_, err = p.AllocateStatic(0, drng.SecurityStrengthBytes)
	require.ErrorIs(t, err, drng.ErrOutOfMemory)
	_, err = p.AllocateStatic(StaticInstances, drng.SecurityStrengthBytes)
	require.ErrorIs(t, err, drng.ErrOutOfMemory)
	_, err = p.AllocateStatic(-1, drng.SecurityStrengthBytes)
	require.ErrorIs(t, err, drng.ErrOutOfMemory)

	out := make([]byte, 33)
	_, err = p.Generate(inst, out)
	require.NoError(t, err)

	p.Deallocate(inst)
	require.Equal(t, [chacha.StateWords]uint32{}, staticPool[0].words)

	reused, err := p.AllocateStatic(0, drng.SecurityStrengthBytes)
	require.NoError(t, err)
	p.Deallocate(reused)
}

func TestDeallocateZeroizesHeap(t *testing.T) {
	p := New(entropy.Runtime()...)
	inst, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	s := inst.(*state)
	require.Equal(t, "heap", s.InstanceKind())
	require.NotEqual(t, [chacha.StateWords]uint32{}, s.words)

	p.Deallocate(inst)
	require.Equal(t, [chacha.StateWords]uint32{}, s.words)
}

func TestGenerateNonContinuity(t *testing.T) {
	p := New()
	split, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	joined, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)

	splitOut := make([]byte, 64)
	_, err = p.Generate(split, splitOut[:40])
	require.NoError(t, err)
	_, err = p.Generate(split, splitOut[40:])
	require.NoError(t, err)

	joinedOut := make([]byte, 64)
	_, err = p.Generate(joined, joinedOut)
	require.NoError(t, err)

	require.Equal(t, joinedOut[:40], splitOut[:40])
	require.NotEqual(t, joinedOut[40:], splitOut[40:])
}

func TestUpdateCarryReuse(t *testing.T) {
	p := New()
	inst, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	s := inst.(*state)

	before := s.words
	block := oracleBlock(t, before)

	out := make([]byte, 8)
	_, err = p.Generate(inst, out)
	require.NoError(t, err)
	require.Equal(t, block[:8], out)

	for i := 0; i < keyWords; i++ {
		expected := before[keyWordBase+i] ^ binary.LittleEndian.Uint32(block[4*(2+i):])
		require.Equal(t, expected, s.words[keyWordBase+i], "key word %d", i)
	}
	require.Equal(t, before[counterWord]+1, s.words[counterWord])
	require.Equal(t, before[nonceWordBase]+1, s.words[nonceWordBase])
}

func TestZeroLengthRequests(t *testing.T) {
	p := New()
	inst, err := p.Allocate(drng.SecurityStrengthBytes)
	require.NoError(t, err)
	s := inst.(*state)

	before := s.words
	n, err := p.Generate(inst, nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NotEqual(t, before, s.words)

	before = s.words
	n, err = p.GenerateFull(inst, nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NotEqual(t, before, s.words)
}

func TestForeignInstance(t *testing.T) {
	p := New()

	err := p.Seed(42, []byte("x"))
	require.EqualError(t, err, "not a ChaCha20 DRNG instance: int")

	_, err = p.Generate("bogus", make([]byte, 4))
	require.EqualError(t, err, "not a ChaCha20 DRNG instance: string")

	_, err = p.GenerateFull(nil, make([]byte, 4))
	require.EqualError(t, err, "not a ChaCha20 DRNG instance: <nil>")

	require.NotPanics(t, func() { p.Deallocate(42) })
}

func TestConditioningHash(t *testing.T) {
	p := New()
	require.Equal(t, "SHA-1", p.HashName())
	require.Equal(t, 20, p.DigestSize())

	h := p.NewHash()
	_, err := h.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", hex.EncodeToString(h.Sum(nil)))
}
