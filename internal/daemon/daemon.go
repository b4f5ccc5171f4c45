/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package daemon

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/entrolab/entropyd/common/flogging"
	floggingmetrics "github.com/entrolab/entropyd/common/flogging/metrics"
	"github.com/entrolab/entropyd/common/metadata"
	"github.com/entrolab/entropyd/drng"
	"github.com/entrolab/entropyd/drng/chacha20"
	"github.com/entrolab/entropyd/drng/factory"
	"github.com/entrolab/entropyd/drng/manager"
	"github.com/entrolab/entropyd/operations"
	"github.com/entrolab/entropyd/seedfile"
)

var logger = flogging.MustGetLogger("daemon")

// Daemon ties the managed generator, the seed file, and the operations
// system together and runs them until a stop signal arrives.
type Daemon struct {
	config     *Config
	configFile string

	managed  *manager.ManagedDRNG
	system   *operations.System
	seedFile *seedfile.File
}

// New returns a daemon for conf. configFile is re-read on SIGHUP; it may be
// empty, in which case reloads use the default search paths.
func New(conf *Config, configFile string) *Daemon {
	return &Daemon{
		config:     conf,
		configFile: configFile,
	}
}

// Run brings the daemon up and blocks until SIGINT or SIGTERM. On the way
// down it persists the seed file, stops the operations system, and zeroizes
// the managed instance.
func (d *Daemon) Run() error {
	flogging.Init(flogging.Config{
		Format:  d.config.Logging.Format,
		LogSpec: d.config.Logging.Spec,
		Writer:  os.Stderr,
	})

	if err := chacha20.SelfTest(); err != nil {
		return errors.WithMessage(err, "start-time self-test")
	}
	logger.Debug("Block function self-test passed")

	if err := factory.InitFactories(d.config.DRNG); err != nil {
		return errors.WithMessage(err, "initializing backend factories")
	}
	provider := factory.GetDefault()

	opsConf := d.config.Operations
	d.system = operations.NewSystem(operations.Options{
		ListenAddress: opsConf.ListenAddress,
		Metrics: operations.MetricsOptions{
			Provider: opsConf.Metrics.Provider,
			Statsd: &operations.Statsd{
				Network:       opsConf.Metrics.Statsd.Network,
				Address:       opsConf.Metrics.Statsd.Address,
				WriteInterval: opsConf.Metrics.Statsd.WriteInterval,
				Prefix:        opsConf.Metrics.Statsd.Prefix,
			},
		},
		Rand: operations.RandOptions{
			MaxRequestBytes: opsConf.MaxRequestBytes,
			Concurrency:     opsConf.Concurrency,
		},
		Version: metadata.Version,
	})

	flogging.SetObserver(floggingmetrics.NewObserver(d.system.Provider))

	managed, err := manager.New(manager.Options{
		Provider: provider,
		Instance: allocateInstance(provider),
		Metrics:  manager.NewMetrics(d.system.Provider),
	})
	if err != nil {
		return errors.WithMessage(err, "creating managed instance")
	}
	d.managed = managed

	if err := d.system.RegisterDRNG(managed); err != nil {
		return errors.WithMessage(err, "registering random API")
	}

	d.seedFile = seedfile.New(d.config.Seed.Path, managed)
	// Not fatal: the instance is already seeded from its entropy sources.
	if err := d.seedFile.Load(); err != nil {
		logger.Warningf("Stored seed not loaded: %s", err)
	}

	if err := d.system.Start(); err != nil {
		return errors.WithMessage(err, "starting operations system")
	}
	logger.Infof("entropyd %s serving on %s", metadata.Version, d.system.Addr())

	serve := make(chan error, 1)
	handleSignals(map[os.Signal]func(){
		syscall.SIGINT:  func() { serve <- nil },
		syscall.SIGTERM: func() { serve <- nil },
		syscall.SIGHUP:  func() { d.reload() },
	})

	err = <-serve
	d.shutdown()
	return err
}

// allocateInstance takes slot 0 of the backend's static pool when it has
// one. Backends without a pool get a heap instance from the manager.
func allocateInstance(provider drng.Provider) drng.Instance {
	sa, ok := provider.(drng.StaticAllocator)
	if !ok {
		return nil
	}
	inst, err := sa.AllocateStatic(0, drng.SecurityStrengthBytes)
	if err != nil {
		logger.Warningf("Static instance unavailable, using a heap instance: %s", err)
		return nil
	}
	return inst
}

// reload re-reads the configuration, applies a changed logging spec, and
// switches the backend when drng.default changed. Runs on the signal
// goroutine, so reloads are serialized.
func (d *Daemon) reload() {
	conf, err := Load(d.configFile)
	if err != nil {
		logger.Errorf("Configuration reload failed: %s", err)
		return
	}

	if spec := conf.Logging.Spec; spec != d.config.Logging.Spec {
		if err := flogging.Global.ActivateSpec(spec); err != nil {
			logger.Errorf("Invalid logging spec %q: %s", spec, err)
		} else {
			logger.Infof("Logging spec set to %q", spec)
		}
	}

	if next := conf.DRNG.Default; next != d.config.DRNG.Default {
		provider, err := factory.GetProviderByName(next, conf.DRNG)
		if err != nil {
			logger.Errorf("Backend %q unavailable: %s", next, err)
			return
		}
		if err := d.managed.Switch(provider); err != nil {
			logger.Errorf("Backend switch to %q failed: %s", next, err)
			return
		}
	}

	d.config = conf
}

// shutdown persists the seed file, then stops the endpoint and zeroizes the
// managed instance.
func (d *Daemon) shutdown() {
	if err := d.seedFile.Store(); err != nil {
		logger.Warningf("Seed not persisted: %s", err)
	}
	if err := d.system.Stop(); err != nil {
		logger.Warningf("Operations system stop: %s", err)
	}
	d.managed.Close()
	logger.Info("entropyd stopped")
}

// handleSignals dispatches each received signal to its handler on a
// dedicated goroutine.
func handleSignals(handlers map[os.Signal]func()) {
	var signals []os.Signal
	for sig := range handlers {
		signals = append(signals, sig)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, signals...)

	go func() {
		for sig := range signalChan {
			logger.Infof("Received signal: %d (%s)", sig, sig)
			handlers[sig]()
		}
	}()
}
