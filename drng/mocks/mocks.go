/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"hash"

	"github.com/entrolab/entropyd/drng"
)

// MockProvider is a programmable backend for tests above the provider layer.
// Generate fills output with GenerateByte so transfers can be traced through
// seeding; Seed records a copy of its input because callers wipe transfer
// buffers after use.
type MockProvider struct {
	NameValue string

	AllocateValue     drng.Instance
	AllocateErr       error
	AllocateStrengths []uint32

	DeallocatedInstances []drng.Instance

	SeedErr    error
	SeedInputs [][]byte

	GenerateByte  byte
	GenerateErr   error
	GenerateSizes []int

	GenerateFullByte  byte
	GenerateFullErr   error
	GenerateFullSizes []int
}

func (m *MockProvider) Name() string {
	return m.NameValue
}

func (m *MockProvider) Allocate(securityStrength uint32) (drng.Instance, error) {
	m.AllocateStrengths = append(m.AllocateStrengths, securityStrength)
	if m.AllocateErr != nil {
		return nil, m.AllocateErr
	}
	return m.AllocateValue, nil
}

func (m *MockProvider) Deallocate(inst drng.Instance) {
	m.DeallocatedInstances = append(m.DeallocatedInstances, inst)
}

func (m *MockProvider) Seed(inst drng.Instance, input []byte) error {
	m.SeedInputs = append(m.SeedInputs, append([]byte(nil), input...))
	return m.SeedErr
}

func (m *MockProvider) Generate(inst drng.Instance, out []byte) (int, error) {
	if m.GenerateErr != nil {
		return 0, m.GenerateErr
	}
	m.GenerateSizes = append(m.GenerateSizes, len(out))
	for i := range out {
		out[i] = m.GenerateByte
	}
	return len(out), nil
}

func (m *MockProvider) GenerateFull(inst drng.Instance, out []byte) (int, error) {
	if m.GenerateFullErr != nil {
		return 0, m.GenerateFullErr
	}
	m.GenerateFullSizes = append(m.GenerateFullSizes, len(out))
	for i := range out {
		out[i] = m.GenerateFullByte
	}
	return len(out), nil
}

// MockHashProvider is a MockProvider that also offers a conditioning hash.
type MockHashProvider struct {
	MockProvider

	HashNameValue   string
	DigestSizeValue int
	NewHashValue    func() hash.Hash
}

func (m *MockHashProvider) HashName() string {
	return m.HashNameValue
}

func (m *MockHashProvider) DigestSize() int {
	return m.DigestSizeValue
}

func (m *MockHashProvider) NewHash() hash.Hash {
	if m.NewHashValue == nil {
		return nil
	}
	return m.NewHashValue()
}

// MockInstance reports a fixed provenance.
type MockInstance struct {
	KindValue string
}

func (m *MockInstance) InstanceKind() string {
	return m.KindValue
}
