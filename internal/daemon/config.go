/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package daemon loads the entropyd configuration and runs the daemon: the
// managed generator, seed persistence, and the operations system.
package daemon

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/entrolab/entropyd/drng/factory"
	"github.com/entrolab/entropyd/operations"
)

// Prefix is the environment variable prefix for configuration overrides.
// A key such as operations.listenAddress is overridden by
// ENTROPYD_OPERATIONS_LISTENADDRESS.
const Prefix = "ENTROPYD"

// Logging configures the logging spec and record format.
type Logging struct {
	Spec   string `mapstructure:"spec" yaml:"spec"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Seed configures durable seed storage.
type Seed struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// Statsd configures the statsd metrics destination.
type Statsd struct {
	Network       string        `mapstructure:"network" yaml:"network"`
	Address       string        `mapstructure:"address" yaml:"address"`
	WriteInterval time.Duration `mapstructure:"writeInterval" yaml:"writeInterval"`
	Prefix        string        `mapstructure:"prefix" yaml:"prefix"`
}

// Metrics selects the metrics provider.
type Metrics struct {
	Provider string `mapstructure:"provider" yaml:"provider"`
	Statsd   Statsd `mapstructure:"statsd" yaml:"statsd"`
}

// Operations configures the operations endpoint.
type Operations struct {
	ListenAddress   string  `mapstructure:"listenAddress" yaml:"listenAddress"`
	MaxRequestBytes int     `mapstructure:"maxRequestBytes" yaml:"maxRequestBytes"`
	Concurrency     int     `mapstructure:"concurrency" yaml:"concurrency"`
	Metrics         Metrics `mapstructure:"metrics" yaml:"metrics"`
}

// Config corresponds directly to the entropyd configuration yaml.
type Config struct {
	Logging    Logging              `mapstructure:"logging" yaml:"logging"`
	DRNG       *factory.FactoryOpts `mapstructure:"drng" yaml:"drng"`
	Seed       Seed                 `mapstructure:"seed" yaml:"seed"`
	Operations Operations           `mapstructure:"operations" yaml:"operations"`
}

// DefaultConfig returns the configuration used when no file, environment, or
// flag overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{
			Spec:   "info",
			Format: "logfmt",
		},
		DRNG: factory.GetDefaultOpts(),
		Seed: Seed{
			Path: "/var/lib/entropyd/seed",
		},
		Operations: Operations{
			ListenAddress:   "127.0.0.1:9443",
			MaxRequestBytes: operations.DefaultMaxRequestBytes,
			Concurrency:     operations.DefaultConcurrency,
			Metrics: Metrics{
				Provider: "disabled",
				Statsd: Statsd{
					Network:       "udp",
					Address:       "127.0.0.1:8125",
					WriteInterval: 30 * time.Second,
					Prefix:        "entropyd",
				},
			},
		},
	}
}

// Load reads the configuration from configFile, or from entropyd.yaml on the
// search path when configFile is empty, applies ENTROPYD_ environment
// overrides, and fills everything else from the defaults.
func Load(configFile string) (*Config, error) {
	config := viper.New()
	if configFile != "" {
		config.SetConfigFile(configFile)
	} else {
		config.SetConfigName("entropyd")
		config.AddConfigPath("./")
		config.AddConfigPath("/etc/entropyd/")
	}

	config.SetEnvPrefix(Prefix)
	config.AutomaticEnv()
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(config)

	if err := config.ReadInConfig(); err != nil {
		// A missing file on the search path is fine; an explicit file
		// that cannot be read is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.WithMessage(err, "reading configuration")
		}
	}

	conf := &Config{}
	durationHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := config.Unmarshal(conf, durationHook); err != nil {
		return nil, errors.WithMessage(err, "unmarshaling configuration")
	}
	if conf.DRNG == nil {
		conf.DRNG = factory.GetDefaultOpts()
	}
	return conf, nil
}

// setDefaults registers every leaf key so environment overrides bind even
// when the key is absent from the configuration file.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("logging.spec", defaults.Logging.Spec)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("drng.default", defaults.DRNG.Default)
	v.SetDefault("drng.chaCha20.entropyPhase", defaults.DRNG.ChaCha20.EntropyPhase)
	v.SetDefault("seed.path", defaults.Seed.Path)
	v.SetDefault("operations.listenAddress", defaults.Operations.ListenAddress)
	v.SetDefault("operations.maxRequestBytes", defaults.Operations.MaxRequestBytes)
	v.SetDefault("operations.concurrency", defaults.Operations.Concurrency)
	v.SetDefault("operations.metrics.provider", defaults.Operations.Metrics.Provider)
	v.SetDefault("operations.metrics.statsd.network", defaults.Operations.Metrics.Statsd.Network)
	v.SetDefault("operations.metrics.statsd.address", defaults.Operations.Metrics.Statsd.Address)
	v.SetDefault("operations.metrics.statsd.writeInterval", defaults.Operations.Metrics.Statsd.WriteInterval)
	v.SetDefault("operations.metrics.statsd.prefix", defaults.Operations.Metrics.Statsd.Prefix)
}
