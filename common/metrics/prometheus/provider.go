/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package prometheus

import (
	"github.com/entrolab/entropyd/common/metrics"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Provider constructs metrics on the client_golang default registerer. The
// operations server exposes them through its /metrics endpoint.
type Provider struct{}

func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter {
	vec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: o.Namespace,
		Subsystem: o.Subsystem,
		Name:      o.Name,
		Help:      o.Help,
	}, o.LabelNames)
	prom.MustRegister(vec)
	return &Counter{vec: vec}
}

func (p *Provider) NewGauge(o metrics.GaugeOpts) metrics.Gauge {
	vec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: o.Namespace,
		Subsystem: o.Subsystem,
		Name:      o.Name,
		Help:      o.Help,
	}, o.LabelNames)
	prom.MustRegister(vec)
	return &Gauge{vec: vec}
}

func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram {
	vec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: o.Namespace,
		Subsystem: o.Subsystem,
		Name:      o.Name,
		Help:      o.Help,
		Buckets:   o.Buckets,
	}, o.LabelNames)
	prom.MustRegister(vec)
	return &Histogram{vec: vec}
}

// Counter carries the label values accumulated through With and resolves the
// labeled child of the vector when Add is called.
type Counter struct {
	vec         *prom.CounterVec
	labelValues []string
}

func (c *Counter) With(labelValues ...string) metrics.Counter {
	return &Counter{vec: c.vec, labelValues: extend(c.labelValues, labelValues)}
}

func (c *Counter) Add(delta float64) {
	c.vec.With(labelsFrom(c.labelValues)).Add(delta)
}

type Gauge struct {
	vec         *prom.GaugeVec
	labelValues []string
}

func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return &Gauge{vec: g.vec, labelValues: extend(g.labelValues, labelValues)}
}

func (g *Gauge) Add(delta float64) {
	g.vec.With(labelsFrom(g.labelValues)).Add(delta)
}

func (g *Gauge) Set(value float64) {
	g.vec.With(labelsFrom(g.labelValues)).Set(value)
}

type Histogram struct {
	vec         *prom.HistogramVec
	labelValues []string
}

func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return &Histogram{vec: h.vec, labelValues: extend(h.labelValues, labelValues)}
}

func (h *Histogram) Observe(value float64) {
	h.vec.With(labelsFrom(h.labelValues)).Observe(value)
}

func extend(base, added []string) []string {
	combined := make([]string, 0, len(base)+len(added))
	combined = append(combined, base...)
	return append(combined, added...)
}

// labelsFrom pairs up label names and values. A trailing name without a value
// reports the value as unknown rather than dropping the sample.
func labelsFrom(labelValues []string) prom.Labels {
	labels := prom.Labels{}
	for i := 0; i+1 < len(labelValues); i += 2 {
		labels[labelValues[i]] = labelValues[i+1]
	}
	if len(labelValues)%2 != 0 {
		labels[labelValues[len(labelValues)-1]] = "unknown"
	}
	return labels
}
