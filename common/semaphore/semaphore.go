/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package semaphore provides a counting semaphore used to bound the number
// of concurrent random output requests served by the daemon.
package semaphore

import "context"

// Semaphore limits concurrency.
type Semaphore interface {
	// Acquire acquires a permit. It blocks until a permit is available or
	// the provided context is completed.
	Acquire(ctx context.Context) error
	// Release returns a permit.
	Release()
}

// CountingSemaphore is a buffered channel based counting semaphore.
type CountingSemaphore struct {
	buf chan struct{}
}

// New creates a Semaphore with the specified number of permits.
func New(permits int) Semaphore {
	if permits <= 0 {
		panic("permits must be greater than 0")
	}
	return &CountingSemaphore{buf: make(chan struct{}, permits)}
}

// Acquire acquires a permit. If the provided context completes first, the
// cancellation error is returned and no permit is held.
func (s *CountingSemaphore) Acquire(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.buf <- struct{}{}:
		return nil
	}
}

// Release returns a permit. Releasing a permit that was never acquired
// panics.
func (s *CountingSemaphore) Release() {
	select {
	case <-s.buf:
	default:
		panic("semaphore buffer is empty")
	}
}

// Disabled is a no-op semaphore for configurations without a concurrency
// bound.
var Disabled = &disabled{}

type disabled struct{}

func (d *disabled) Acquire(ctx context.Context) error { return nil }

func (d *disabled) Release() {}
