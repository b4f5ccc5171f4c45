/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package factory

import (
	"github.com/entrolab/entropyd/drng/chacha20"
	"github.com/entrolab/entropyd/drng/hmacdrbg"
)

// FactoryOpts holds configuration information used to initialize factory
// implementations.
type FactoryOpts struct {
	Default  string         `mapstructure:"default" json:"default" yaml:"default"`
	ChaCha20 *chacha20.Opts `mapstructure:"chaCha20,omitempty" json:"chaCha20,omitempty" yaml:"chaCha20,omitempty"`
	HMACDRBG *hmacdrbg.Opts `mapstructure:"hmacDrbg,omitempty" json:"hmacDrbg,omitempty" yaml:"hmacDrbg,omitempty"`
}

// GetDefaultOpts offers a default implementation for Opts, returning a new
// instance every time.
func GetDefaultOpts() *FactoryOpts {
	return &FactoryOpts{
		Default: ChaCha20BasedFactoryName,
		ChaCha20: &chacha20.Opts{
			EntropyPhase: "runtime",
		},
	}
}

// FactoryName returns the name of the configured provider.
func (o *FactoryOpts) FactoryName() string {
	return o.Default
}
