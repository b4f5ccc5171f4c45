/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package drng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidSecurityStrengthError(t *testing.T) {
	err := &InvalidSecurityStrengthError{Requested: 48, Capability: 32}
	require.EqualError(t, err, "requested security strength (384 bits) exceeds generator capability (256 bits)")
}

func TestErrOutOfMemory(t *testing.T) {
	require.EqualError(t, ErrOutOfMemory, "drng: no instance slot available")
}
