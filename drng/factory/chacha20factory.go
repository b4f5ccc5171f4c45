/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package factory

import (
	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/drng/chacha20"
)

// ChaCha20BasedFactoryName is the name of the factory of the ChaCha20-based
// backend.
const ChaCha20BasedFactoryName = "CHACHA20"

// ChaCha20Factory is the factory of the ChaCha20-based backend.
type ChaCha20Factory struct{}

// Name returns the name of this factory.
func (f *ChaCha20Factory) Name() string {
	return ChaCha20BasedFactoryName
}

// Get returns an instance of drng.Provider using config.
func (f *ChaCha20Factory) Get(config *FactoryOpts) (drng.Provider, error) {
	phase := ""
	if config != nil && config.ChaCha20 != nil {
		phase = config.ChaCha20.EntropyPhase
	}
	return chacha20.New(sourcesForPhase(phase)...), nil
}
