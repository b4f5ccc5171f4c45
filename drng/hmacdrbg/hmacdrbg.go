/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hmacdrbg implements the SP 800-90Ar1 section 10.1.2 HMAC_DRBG over
// SHA-256 as a switchable backend. Extraction is already capped at the
// digest size per round, so the full-strength path needs no folding.
package hmacdrbg

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/entropy"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("drng.hmacdrbg")

// Opts configures the provider a factory constructs.
type Opts struct {
	// EntropyPhase selects the sources absorbed as instantiation material:
	// "boot" restricts it to the clock sources, any other value uses the
	// full runtime set.
	EntropyPhase string `mapstructure:"entropyPhase" json:"entropyPhase,omitempty" yaml:"entropyPhase,omitempty"`
}

// state holds the SP 800-90Ar1 working variables.
type state struct {
	k [sha256.Size]byte
	v [sha256.Size]byte
}

// InstanceKind reports the instance provenance. This backend has no static
// pool.
func (s *state) InstanceKind() string {
	return "heap"
}

// instantiate resets K and V to their section 10.1.2.3 constants and absorbs
// the instantiation material.
func (s *state) instantiate(material []byte) {
	for i := range s.k {
		s.k[i] = 0
	}
	for i := range s.v {
		s.v[i] = 1
	}
	s.update(material)
}

// update is the section 10.1.2.2 state transition. The second round runs
// only when provided data is present.
func (s *state) update(data []byte) {
	buf := make([]byte, 0, len(s.v)+1+len(data))
	buf = append(buf, s.v[:]...)
	buf = append(buf, 0)
	buf = append(buf, data...)

	mac := hmac.New(sha256.New, s.k[:])
	mac.Write(buf)
	mac.Sum(s.k[:0])

	mac = hmac.New(sha256.New, s.k[:])
	mac.Write(s.v[:])
	mac.Sum(s.v[:0])

	if len(data) > 0 {
		copy(buf, s.v[:])
		buf[len(s.v)] = 1

		mac = hmac.New(sha256.New, s.k[:])
		mac.Write(buf)
		mac.Sum(s.k[:0])

		mac = hmac.New(sha256.New, s.k[:])
		mac.Write(s.v[:])
		mac.Sum(s.v[:0])
	}
}

// generate extracts keystream into out, then runs the closing update so a
// captured state does not reveal what was handed out.
func (s *state) generate(out []byte) {
	done := 0
	for done < len(out) {
		mac := hmac.New(sha256.New, s.k[:])
		mac.Write(s.v[:])
		mac.Sum(s.v[:0])

		done += copy(out[done:], s.v[:])
	}

	s.update(nil)
}

func (s *state) zeroize() {
	for i := range s.k {
		s.k[i] = 0
	}
	for i := range s.v {
		s.v[i] = 0
	}
}

// Provider is the HMAC-DRBG backend.
type Provider struct {
	sources []entropy.Source
}

var (
	_ drng.Provider         = (*Provider)(nil)
	_ drng.ConditioningHash = (*Provider)(nil)
)

// New returns a backend that absorbs one reading from every listed source as
// instantiation material. With no sources instances start from the constant
// state; that is only appropriate in tests.
func New(sources ...entropy.Source) *Provider {
	return &Provider{sources: sources}
}

// Name identifies the backend in status output.
func (p *Provider) Name() string {
	return "HMAC-DRBG SHA-256"
}

// Allocate returns a freshly instantiated instance.
func (p *Provider) Allocate(securityStrength uint32) (drng.Instance, error) {
	if securityStrength > sha256.Size {
		return nil, &drng.InvalidSecurityStrengthError{
			Requested:  securityStrength,
			Capability: sha256.Size,
		}
	}
	if securityStrength < sha256.Size {
		logger.Warnf("generator delivers %d bit security strength, %d bits requested", sha256.Size*8, securityStrength*8)
	}

	s := &state{}
	s.instantiate(p.material())
	logger.Debugf("instance instantiated at %d bit strength", securityStrength*8)
	return s, nil
}

// material concatenates one reading from every available source.
func (p *Provider) material() []byte {
	buf := make([]byte, 0, 8*len(p.sources))
	var reading [8]byte
	for _, src := range p.sources {
		v, ok := src()
		if !ok {
			continue
		}
		binary.LittleEndian.PutUint64(reading[:], v)
		buf = append(buf, reading[:]...)
	}
	return buf
}

// Deallocate zeroizes the working variables. A foreign instance is ignored
// with a warning.
func (p *Provider) Deallocate(inst drng.Instance) {
	s, ok := inst.(*state)
	if !ok {
		logger.Warnf("deallocate ignoring foreign instance %T", inst)
		return
	}
	s.zeroize()
	logger.Debug("instance zeroized")
}

// Seed absorbs input as reseed material. Empty input changes nothing.
func (p *Provider) Seed(inst drng.Instance, input []byte) error {
	s, err := p.state(inst)
	if err != nil {
		return err
	}
	if len(input) == 0 {
		return nil
	}
	s.update(input)
	return nil
}

// Generate extracts len(out) bytes and rekeys the instance.
func (p *Provider) Generate(inst drng.Instance, out []byte) (int, error) {
	s, err := p.state(inst)
	if err != nil {
		return 0, err
	}
	s.generate(out)
	return len(out), nil
}

// GenerateFull is identical to Generate for this backend.
func (p *Provider) GenerateFull(inst drng.Instance, out []byte) (int, error) {
	return p.Generate(inst, out)
}

// HashName identifies the conditioning digest offered with this backend.
func (p *Provider) HashName() string {
	return "SHA-256"
}

// DigestSize returns the conditioning digest width in bytes.
func (p *Provider) DigestSize() int {
	return sha256.Size
}

// NewHash returns a fresh conditioning digest.
func (p *Provider) NewHash() hash.Hash {
	return sha256.New()
}

func (p *Provider) state(inst drng.Instance) (*state, error) {
	s, ok := inst.(*state)
	if !ok {
		return nil, errors.Errorf("not an HMAC-DRBG instance: %T", inst)
	}
	return s, nil
}
