/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package factory

import (
	"sync"

	"github.com/entrolab/entropyd/common/flogging"
	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/drng/chacha20"
	"github.com/entrolab/entropyd/entropy"
	"github.com/pkg/errors"
)

var logger = flogging.MustGetLogger("drng.factory")

// DRNGFactory constructs generator backends from configuration.
type DRNGFactory interface {
	// Name returns the name of this factory.
	Name() string

	// Get returns an instance of drng.Provider using opts.
	Get(opts *FactoryOpts) (drng.Provider, error)
}

var factories = map[string]DRNGFactory{
	ChaCha20BasedFactoryName: &ChaCha20Factory{},
	HMACDRBGBasedFactoryName: &HMACDRBGFactory{},
}

var (
	defaultProvider drng.Provider

	factoriesInitOnce sync.Once
	factoriesInitErr  error

	bootProvider     drng.Provider
	bootProviderOnce sync.Once
)

// InitFactories initializes the default provider from config. Only the first
// call has an effect; later calls return the first call's result.
func InitFactories(config *FactoryOpts) error {
	factoriesInitOnce.Do(func() {
		factoriesInitErr = initFactories(config)
	})
	return factoriesInitErr
}

func initFactories(config *FactoryOpts) error {
	if config == nil {
		config = GetDefaultOpts()
	}
	if config.Default == "" {
		config.Default = ChaCha20BasedFactoryName
	}
	if config.ChaCha20 == nil {
		config.ChaCha20 = GetDefaultOpts().ChaCha20
	}

	f, ok := factories[config.Default]
	if !ok {
		return errors.Errorf("could not find factory, no '%s' provider", config.Default)
	}

	provider, err := f.Get(config)
	if err != nil {
		return errors.Wrapf(err, "failed initializing %s provider", config.Default)
	}

	defaultProvider = provider
	return nil
}

// GetDefault returns the provider selected by InitFactories. Before
// initialization it falls back to a runtime-sourced ChaCha20 provider.
func GetDefault() drng.Provider {
	if defaultProvider == nil {
		logger.Debug("Before using the factory, please call InitFactories(). Falling back to the boot provider.")
		bootProviderOnce.Do(func() {
			bootProvider = chacha20.New(entropy.Runtime()...)
		})
		return bootProvider
	}
	return defaultProvider
}

// GetProviderByName constructs a provider through the factory registered
// under name.
func GetProviderByName(name string, config *FactoryOpts) (drng.Provider, error) {
	f, ok := factories[name]
	if !ok {
		return nil, errors.Errorf("could not find factory, no '%s' provider", name)
	}
	return f.Get(config)
}

// sourcesForPhase maps the configured entropy phase to a source set.
func sourcesForPhase(phase string) []entropy.Source {
	if phase == "boot" {
		return entropy.Boot()
	}
	return entropy.Runtime()
}
