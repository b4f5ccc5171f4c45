/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package manager

import "github.com/entrolab/entropyd/common/metrics"

var (
	requestsOpts = metrics.CounterOpts{
		Namespace:    "drng",
		Name:         "requests",
		Help:         "The number of generate requests served.",
		LabelNames:   []string{"mode"},
		StatsdFormat: "%{#fqname}.%{mode}",
	}

	generatedBytesOpts = metrics.CounterOpts{
		Namespace:    "drng",
		Name:         "generated_bytes",
		Help:         "The number of random bytes handed out.",
		LabelNames:   []string{"mode"},
		StatsdFormat: "%{#fqname}.%{mode}",
	}

	seedCountOpts = metrics.CounterOpts{
		Namespace:    "drng",
		Name:         "seed_count",
		Help:         "The number of times the managed instance was seeded.",
		StatsdFormat: "%{#fqname}",
	}

	switchCountOpts = metrics.CounterOpts{
		Namespace:    "drng",
		Name:         "switch_count",
		Help:         "The number of backend switches performed.",
		StatsdFormat: "%{#fqname}",
	}
)

// Metrics is the set of meters a managed instance maintains.
type Metrics struct {
	Requests       metrics.Counter
	GeneratedBytes metrics.Counter
	SeedCount      metrics.Counter
	SwitchCount    metrics.Counter
}

// NewMetrics creates the managed instance meters with the supplied provider.
func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		Requests:       p.NewCounter(requestsOpts),
		GeneratedBytes: p.NewCounter(generatedBytesOpts),
		SeedCount:      p.NewCounter(seedCountOpts),
		SwitchCount:    p.NewCounter(switchCountOpts),
	}
}
