/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chacha20

import (
	"crypto/sha1"
	"hash"
	"sync"

	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/entropy"
	"github.com/entrolab/entropyd/internal/chacha"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("drng.chacha20")

// StaticInstances is the number of pre-provisioned instances available
// through AllocateStatic.
const StaticInstances = 2

// The static pool backs the earliest consumers, before heap allocation is
// warranted. Slots are shared by every provider of this backend.
var (
	staticMutex sync.Mutex
	staticPool  [StaticInstances]state
	staticUsed  [StaticInstances]bool
)

// Opts configures the provider a factory constructs.
type Opts struct {
	// EntropyPhase selects the sources mixed into fresh instances: "boot"
	// restricts initialization to the clock sources, any other value uses
	// the full runtime set.
	EntropyPhase string `mapstructure:"entropyPhase" json:"entropyPhase,omitempty" yaml:"entropyPhase,omitempty"`
}

// Provider is the ChaCha20 backend.
type Provider struct {
	sources []entropy.Source
}

var (
	_ drng.Provider         = (*Provider)(nil)
	_ drng.StaticAllocator  = (*Provider)(nil)
	_ drng.ConditioningHash = (*Provider)(nil)
)

// New returns a backend that mixes one reading from every listed source into
// each instance it initializes. With no sources instances start from the
// constant state; that is only appropriate in tests.
func New(sources ...entropy.Source) *Provider {
	return &Provider{sources: sources}
}

// Name identifies the backend in status output.
func (p *Provider) Name() string {
	return "ChaCha20 DRNG"
}

// Allocate returns a freshly initialized heap instance.
func (p *Provider) Allocate(securityStrength uint32) (drng.Instance, error) {
	if err := checkStrength(securityStrength); err != nil {
		return nil, err
	}

	s := &state{}
	s.initialize(p.sources)
	logger.Debugf("heap instance allocated at %d bit strength", securityStrength*8)
	return s, nil
}

// AllocateStatic initializes and returns the pre-provisioned instance in
// slot. An occupied or out-of-range slot yields drng.ErrOutOfMemory.
func (p *Provider) AllocateStatic(slot int, securityStrength uint32) (drng.Instance, error) {
	if err := checkStrength(securityStrength); err != nil {
		return nil, err
	}

	staticMutex.Lock()
	defer staticMutex.Unlock()

	if slot < 0 || slot >= StaticInstances || staticUsed[slot] {
		return nil, drng.ErrOutOfMemory
	}

	s := &staticPool[slot]
	*s = state{static: true, slot: slot}
	s.initialize(p.sources)
	staticUsed[slot] = true
	logger.Debugf("static instance %d allocated at %d bit strength", slot, securityStrength*8)
	return s, nil
}

func checkStrength(securityStrength uint32) error {
	if securityStrength > chacha.KeySize {
		return &drng.InvalidSecurityStrengthError{
			Requested:  securityStrength,
			Capability: chacha.KeySize,
		}
	}
	if securityStrength < chacha.KeySize {
		logger.Warnf("generator delivers %d bit security strength, %d bits requested", chacha.KeySize*8, securityStrength*8)
	}
	return nil
}

// Deallocate zeroizes the instance. Static instances stay in place and their
// slot opens up again; heap instances are left to the collector. A foreign
// instance is ignored with a warning.
func (p *Provider) Deallocate(inst drng.Instance) {
	s, ok := inst.(*state)
	if !ok {
		logger.Warnf("deallocate ignoring foreign instance %T", inst)
		return
	}

	s.zeroize()
	if s.static {
		staticMutex.Lock()
		staticUsed[s.slot] = false
		staticMutex.Unlock()
		logger.Debugf("static instance %d zeroized", s.slot)
		return
	}
	logger.Debug("heap instance zeroized")
}

// Seed absorbs input into the instance key. Input longer than the key is
// processed in key-sized chunks; empty input changes nothing.
func (p *Provider) Seed(inst drng.Instance, input []byte) error {
	s, err := p.state(inst)
	if err != nil {
		return err
	}
	s.seed(input)
	return nil
}

// Generate fills out with keystream and rekeys the instance.
func (p *Provider) Generate(inst drng.Instance, out []byte) (int, error) {
	s, err := p.state(inst)
	if err != nil {
		return 0, err
	}
	s.generate(out)
	return len(out), nil
}

// GenerateFull fills out with folded keystream so every output bit can carry
// a full bit of entropy, and rekeys the instance.
func (p *Provider) GenerateFull(inst drng.Instance, out []byte) (int, error) {
	s, err := p.state(inst)
	if err != nil {
		return 0, err
	}
	s.generateFull(out)
	return len(out), nil
}

// HashName identifies the conditioning digest offered with this backend.
func (p *Provider) HashName() string {
	return "SHA-1"
}

// DigestSize returns the conditioning digest width in bytes.
func (p *Provider) DigestSize() int {
	return sha1.Size
}

// NewHash returns a fresh conditioning digest.
func (p *Provider) NewHash() hash.Hash {
	return sha1.New()
}

func (p *Provider) state(inst drng.Instance) (*state, error) {
	s, ok := inst.(*state)
	if !ok {
		return nil, errors.Errorf("not a ChaCha20 DRNG instance: %T", inst)
	}
	return s, nil
}
