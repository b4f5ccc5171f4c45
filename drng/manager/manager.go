/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package manager wraps one backend instance behind the locking and
// request-splitting discipline shared by every consumer of the daemon.
package manager

import (
	"context"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/common/metrics/disabled"
	"github.com/entrolab/entropyd/drng"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("drng.manager")

// ManagedDRNG owns one backend instance. The seed mutex serializes the slow
// path (Inject, Switch); the generate mutex guards instance state and is
// held only per chunk, so seeders are never starved behind a large read.
// Seeders take both, in that order.
type ManagedDRNG struct {
	seedLock sync.Mutex
	genLock  sync.Mutex

	provider drng.Provider
	instance drng.Instance

	clock   clock.Clock
	metrics *Metrics

	lastSeeded     time.Time
	bytesSinceSeed uint64
	totalBytes     uint64
}

// Options configures New.
type Options struct {
	// Provider is the backend; required.
	Provider drng.Provider

	// Instance is an existing instance to manage. When nil, a heap
	// instance is allocated at full security strength.
	Instance drng.Instance

	// Clock drives seed age accounting; defaults to the wall clock.
	Clock clock.Clock

	// Metrics counts requests and output; defaults to disabled metrics.
	Metrics *Metrics
}

// Status is a point-in-time description of a managed instance.
type Status struct {
	Generator            string    `json:"generator"`
	ConditioningHash     string    `json:"conditioning_hash,omitempty"`
	SecurityStrengthBits int       `json:"security_strength_bits"`
	InstanceKind         string    `json:"instance_kind"`
	LastSeeded           time.Time `json:"last_seeded"`
	BytesSinceSeed       uint64    `json:"bytes_since_seed"`
	TotalBytes           uint64    `json:"total_bytes"`
}

// New returns a managed instance over the configured backend.
func New(opts Options) (*ManagedDRNG, error) {
	if opts.Provider == nil {
		return nil, errors.New("a backend provider is required")
	}

	instance := opts.Instance
	if instance == nil {
		var err error
		instance, err = opts.Provider.Allocate(drng.SecurityStrengthBytes)
		if err != nil {
			return nil, errors.WithMessage(err, "allocating managed instance")
		}
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.NewClock()
	}

	m := opts.Metrics
	if m == nil {
		m = NewMetrics(&disabled.Provider{})
	}

	return &ManagedDRNG{
		provider:   opts.Provider,
		instance:   instance,
		clock:      clk,
		metrics:    m,
		lastSeeded: clk.Now(),
	}, nil
}

// Generate fills out with output from the managed instance. Requests are
// split so the backend never sees more than drng.MaxRequestSize bytes at
// once and seeders can cut in between chunks.
func (m *ManagedDRNG) Generate(out []byte) (int, error) {
	return m.generate(out, "standard")
}

// GenerateFull is Generate through the backend's full-strength path.
func (m *ManagedDRNG) GenerateFull(out []byte) (int, error) {
	return m.generate(out, "full")
}

func (m *ManagedDRNG) generate(out []byte, mode string) (int, error) {
	if len(out) == 0 {
		return 0, nil
	}

	processed := 0
	for processed < len(out) {
		todo := len(out) - processed
		if todo > drng.MaxRequestSize {
			todo = drng.MaxRequestSize
		}

		m.genLock.Lock()
		if m.instance == nil {
			m.genLock.Unlock()
			return processed, errors.New("managed instance is closed")
		}

		var n int
		var err error
		if mode == "full" {
			n, err = m.provider.GenerateFull(m.instance, out[processed:processed+todo])
		} else {
			n, err = m.provider.Generate(m.instance, out[processed:processed+todo])
		}
		if err == nil {
			m.bytesSinceSeed += uint64(n)
			m.totalBytes += uint64(n)
		}
		m.genLock.Unlock()

		if err != nil {
			return processed, errors.WithMessagef(err, "generating %s output", mode)
		}
		processed += n
	}

	m.metrics.Requests.With("mode", mode).Add(1)
	m.metrics.GeneratedBytes.With("mode", mode).Add(float64(len(out)))

	return processed, nil
}

// Inject seeds the managed instance with material. Deciding when to reseed
// is the caller's policy; Inject performs only the mechanics.
func (m *ManagedDRNG) Inject(material []byte) error {
	m.seedLock.Lock()
	defer m.seedLock.Unlock()
	m.genLock.Lock()
	defer m.genLock.Unlock()

	if m.instance == nil {
		return errors.New("managed instance is closed")
	}

	logger.Debugf("seeding managed instance with %d bytes", len(material))
	if err := m.provider.Seed(m.instance, material); err != nil {
		return errors.WithMessage(err, "seeding managed instance")
	}

	m.lastSeeded = m.clock.Now()
	m.bytesSinceSeed = 0
	m.metrics.SeedCount.Add(1)
	return nil
}

// Switch replaces the backend with next, carrying the working entropy over:
// a transfer seed drawn from the old instance primes the new one, the swap
// happens under both locks, and the old instance is deallocated afterwards.
func (m *ManagedDRNG) Switch(next drng.Provider) error {
	if next == nil {
		return errors.New("a backend provider is required")
	}

	m.seedLock.Lock()
	defer m.seedLock.Unlock()

	newInstance, err := next.Allocate(drng.SecurityStrengthBytes)
	if err != nil {
		return errors.WithMessagef(err, "allocating %s instance", next.Name())
	}

	var transfer [drng.SecurityStrengthBytes]byte
	m.genLock.Lock()
	if m.instance == nil {
		m.genLock.Unlock()
		next.Deallocate(newInstance)
		return errors.New("managed instance is closed")
	}
	_, err = m.provider.Generate(m.instance, transfer[:])
	m.genLock.Unlock()
	if err != nil {
		next.Deallocate(newInstance)
		return errors.WithMessage(err, "drawing transfer seed from old instance")
	}

	err = next.Seed(newInstance, transfer[:])
	for i := range transfer {
		transfer[i] = 0
	}
	if err != nil {
		next.Deallocate(newInstance)
		return errors.WithMessage(err, "seeding new instance")
	}

	m.genLock.Lock()
	oldProvider, oldInstance := m.provider, m.instance
	m.provider, m.instance = next, newInstance
	m.lastSeeded = m.clock.Now()
	m.bytesSinceSeed = 0
	m.genLock.Unlock()

	oldProvider.Deallocate(oldInstance)
	m.metrics.SwitchCount.Add(1)

	logger.Infof("switched backend from %s to %s", oldProvider.Name(), next.Name())
	return nil
}

// Status reports the generator identity and seed accounting.
func (m *ManagedDRNG) Status() Status {
	m.genLock.Lock()
	defer m.genLock.Unlock()

	st := Status{
		Generator:            m.provider.Name(),
		SecurityStrengthBits: drng.SecurityStrengthBits,
		InstanceKind:         "unknown",
		LastSeeded:           m.lastSeeded,
		BytesSinceSeed:       m.bytesSinceSeed,
		TotalBytes:           m.totalBytes,
	}
	if ch, ok := m.provider.(drng.ConditioningHash); ok {
		st.ConditioningHash = ch.HashName()
	}
	if kr, ok := m.instance.(drng.KindReporter); ok {
		st.InstanceKind = kr.InstanceKind()
	}
	return st
}

// Close deallocates the managed instance. Further operations fail.
func (m *ManagedDRNG) Close() {
	m.seedLock.Lock()
	defer m.seedLock.Unlock()
	m.genLock.Lock()
	defer m.genLock.Unlock()

	if m.instance == nil {
		return
	}
	m.provider.Deallocate(m.instance)
	m.instance = nil
}

// HealthCheck reports whether the managed instance can produce output. It
// satisfies the healthz checker contract of the operations system.
func (m *ManagedDRNG) HealthCheck(context.Context) error {
	var probe [16]byte
	_, err := m.Generate(probe[:])
	return err
}
