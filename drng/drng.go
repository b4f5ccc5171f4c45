/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package drng defines the contract between deterministic random number
// generator backends and the code that manages them. A backend hands out
// opaque instances, absorbs seed material into them and produces output
// from them; everything above the backend (locking, request splitting,
// reseed policy, switching) is the caller's concern.
package drng

import "hash"

const (
	// SecurityStrengthBytes is the seed and key material size every
	// backend must support.
	SecurityStrengthBytes = 32

	// SecurityStrengthBits is SecurityStrengthBytes expressed in bits.
	SecurityStrengthBits = SecurityStrengthBytes * 8

	// MaxRequestSize caps the output requested from a backend in a single
	// call. Larger reads are split by the managed instance so a backend
	// never sees an unbounded request.
	MaxRequestSize = 1 << 12
)

// Instance is an opaque handle for generator state. An Instance is only
// meaningful to the Provider that allocated it.
type Instance interface{}

// Provider is implemented by DRNG backends.
//
// Allocate returns a fully initialized instance or an error; it must reject
// a security strength above the backend's capability with an
// InvalidSecurityStrengthError. Deallocate zeroizes the instance state
// unconditionally and never fails. Seed absorbs the input without length
// restriction; an empty input is a no-op. Generate fills out with exactly
// len(out) bytes. GenerateFull does the same but caps the entropy content
// of the underlying primitive's output it releases per block, for callers
// that feed other generators.
type Provider interface {
	Name() string
	Allocate(securityStrength uint32) (Instance, error)
	Deallocate(inst Instance)
	Seed(inst Instance, input []byte) error
	Generate(inst Instance, out []byte) (int, error)
	GenerateFull(inst Instance, out []byte) (int, error)
}

// StaticAllocator is implemented by backends that keep a fixed pool of
// pre-provisioned instances addressed by a stable slot index. Static
// instances serve callers that need a generator before heap allocation is
// safe or warranted; they are zeroized in place on deallocation and their
// slot becomes available again.
type StaticAllocator interface {
	AllocateStatic(slot int, securityStrength uint32) (Instance, error)
}

// ConditioningHash is the companion digest a backend offers to callers that
// condition raw material before seeding. Only the surface is defined here;
// the digest arithmetic is the hash implementation's business.
type ConditioningHash interface {
	HashName() string
	DigestSize() int
	NewHash() hash.Hash
}

// KindReporter is implemented by instances that can describe their
// provenance (static slot or heap) for status reporting.
type KindReporter interface {
	InstanceKind() string
}
