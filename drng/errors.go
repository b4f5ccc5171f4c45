/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drng

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfMemory is returned when a backend cannot provision an instance,
// for example when a static slot is occupied or out of range.
var ErrOutOfMemory = errors.New("drng: no instance slot available")

// InvalidSecurityStrengthError is returned by Allocate when the requested
// security strength exceeds what the backend can deliver. Both figures are
// carried in bytes.
type InvalidSecurityStrengthError struct {
	Requested  uint32
	Capability uint32
}

func (e *InvalidSecurityStrengthError) Error() string {
	return fmt.Sprintf(
		"requested security strength (%d bits) exceeds generator capability (%d bits)",
		e.Requested*8,
		e.Capability*8,
	)
}
