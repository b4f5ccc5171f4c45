/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chacha20

import (
	"bytes"
	"encoding/hex"

	"github.com/entrolab/entropyd/internal/chacha"
	"github.com/pkg/errors"
)

// Keystream block from the RFC 7539 section 2.3.2 example: key bytes
// 0x00..0x1f, block counter 1, nonce words 0x09000000, 0x4a000000, 0.
const rfc7539BlockHex = "10f1e7e4d13b5915500fdd1fa32071c4" +
	"c7d1f4c733c068030422aa9ac3d46c4e" +
	"d2826446079faa0914c2d705d98b02a2" +
	"b5129cd1de164eb9cbd083e8a2503c4e"

var testVectorKey = [keyWords]uint32{
	0x03020100, 0x07060504, 0x0b0a0908, 0x0f0e0d0c,
	0x13121110, 0x17161514, 0x1b1a1918, 0x1f1e1d1c,
}

// SelfTest verifies the block function against the RFC 7539 known answer and
// both generate paths against values derived from it. The daemon refuses to
// serve when it fails.
func SelfTest() error {
	expected, err := hex.DecodeString(rfc7539BlockHex)
	if err != nil {
		return errors.Wrap(err, "known answer vector corrupted")
	}

	if err := blockKAT(expected); err != nil {
		return err
	}
	if err := generateKAT(expected); err != nil {
		return err
	}
	return generateFullKAT(expected)
}

func testVectorState() *state {
	s := &state{}
	copy(s.words[:keyWordBase], chacha.Constants[:])
	copy(s.words[keyWordBase:keyWordBase+keyWords], testVectorKey[:])
	s.words[counterWord] = 1
	s.words[nonceWordBase] = 0x09000000
	s.words[nonceWordBase+1] = 0x4a000000
	s.words[nonceWordBase+2] = 0
	return s
}

func blockKAT(expected []byte) error {
	s := testVectorState()
	var got [chacha.BlockSize]byte
	chacha.Block(&s.words, got[:])

	if !bytes.Equal(got[:], expected) {
		return errors.New("block function known answer mismatch")
	}
	if s.words[counterWord] != 2 {
		return errors.New("block function did not advance the counter")
	}
	return nil
}

func generateKAT(expected []byte) error {
	s := testVectorState()
	var out [chacha.BlockSize]byte
	s.generate(out[:])

	if !bytes.Equal(out[:], expected) {
		return errors.New("generate known answer mismatch")
	}
	if s.words[nonceWordBase] != 0x09000001 {
		return errors.New("generate did not advance the nonce")
	}
	return nil
}

func generateFullKAT(expected []byte) error {
	folded := make([]byte, chacha.KeySize)
	for i := range folded {
		folded[i] = expected[i] ^ expected[chacha.KeySize+i]
	}

	s := testVectorState()
	out := make([]byte, chacha.KeySize)
	s.generateFull(out)

	if !bytes.Equal(out, folded) {
		return errors.New("full strength generate known answer mismatch")
	}
	return nil
}
