/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package daemon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/drng/chacha20"
	"github.com/entrolab/entropyd/drng/hmacdrbg"
	"github.com/entrolab/entropyd/entropy"
)

func TestAllocateInstanceUsesStaticPool(t *testing.T) {
	provider := chacha20.New(entropy.Runtime()...)
	inst := allocateInstance(provider)
	require.NotNil(t, inst)

	reporter, ok := inst.(drng.KindReporter)
	require.True(t, ok)
	require.Equal(t, "static", reporter.InstanceKind())

	provider.Deallocate(inst)
}

func TestAllocateInstanceFallsBackToHeap(t *testing.T) {
	provider := hmacdrbg.New(entropy.Runtime()...)
	require.Nil(t, allocateInstance(provider))
}
