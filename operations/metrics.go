/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package operations

import (
	"sync"

	"github.com/entrolab/entropyd/common/metrics"
	"github.com/entrolab/entropyd/common/metrics/prometheus"
)

var (
	entropydVersion = metrics.GaugeOpts{
		Name:         "entropyd_version",
		Help:         "The active version of entropyd.",
		LabelNames:   []string{"version"},
		StatsdFormat: "%{#fqname}.%{version}",
	}

	gaugeLock        sync.Mutex
	promVersionGauge metrics.Gauge
)

// The prometheus registry panics on duplicate registration, so the process
// shares one version gauge across systems.
func versionGauge(provider metrics.Provider) metrics.Gauge {
	switch provider.(type) {
	case *prometheus.Provider:
		gaugeLock.Lock()
		defer gaugeLock.Unlock()
		if promVersionGauge == nil {
			promVersionGauge = provider.NewGauge(entropydVersion)
		}
		return promVersionGauge

	default:
		return provider.NewGauge(entropydVersion)
	}
}
