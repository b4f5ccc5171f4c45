/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package factory

import (
	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/drng/hmacdrbg"
)

// HMACDRBGBasedFactoryName is the name of the factory of the HMAC-DRBG-based
// backend.
const HMACDRBGBasedFactoryName = "HMACDRBG"

// HMACDRBGFactory is the factory of the HMAC-DRBG-based backend.
type HMACDRBGFactory struct{}

// Name returns the name of this factory.
func (f *HMACDRBGFactory) Name() string {
	return HMACDRBGBasedFactoryName
}

// Get returns an instance of drng.Provider using config.
func (f *HMACDRBGFactory) Get(config *FactoryOpts) (drng.Provider, error) {
	phase := ""
	if config != nil && config.HMACDRBG != nil {
		phase = config.HMACDRBG.EntropyPhase
	}
	return hmacdrbg.New(sourcesForPhase(phase)...), nil
}
