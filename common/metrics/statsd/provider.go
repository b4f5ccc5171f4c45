/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package statsd

import (
	"github.com/entrolab/entropyd/common/metrics"
	"github.com/entrolab/entropyd/common/metrics/internal/namer"
	kitstatsd "github.com/go-kit/kit/metrics/statsd"
)

const defaultFormat = "%{#fqname}"

type Provider struct {
	Statsd *kitstatsd.Statsd
}

func (p *Provider) NewCounter(o metrics.CounterOpts) metrics.Counter {
	if o.StatsdFormat == "" {
		o.StatsdFormat = defaultFormat
	}
	counter := &Counter{
		statsdProvider: p.Statsd,
		namer:          namer.NewCounterNamer(o),
	}

	if len(o.LabelNames) == 0 {
		counter.Counter = p.Statsd.NewCounter(counter.namer.Format(), 1.0)
	}

	return counter
}

func (p *Provider) NewGauge(o metrics.GaugeOpts) metrics.Gauge {
	if o.StatsdFormat == "" {
		o.StatsdFormat = defaultFormat
	}
	gauge := &Gauge{
		statsdProvider: p.Statsd,
		namer:          namer.NewGaugeNamer(o),
	}

	if len(o.LabelNames) == 0 {
		gauge.Gauge = p.Statsd.NewGauge(gauge.namer.Format())
	}

	return gauge
}

func (p *Provider) NewHistogram(o metrics.HistogramOpts) metrics.Histogram {
	if o.StatsdFormat == "" {
		o.StatsdFormat = defaultFormat
	}
	histogram := &Histogram{
		statsdProvider: p.Statsd,
		namer:          namer.NewHistogramNamer(o),
	}

	if len(o.LabelNames) == 0 {
		histogram.Timing = p.Statsd.NewTiming(histogram.namer.Format(), 1.0)
	}

	return histogram
}

type Counter struct {
	Counter        *kitstatsd.Counter
	namer          *namer.Namer
	statsdProvider *kitstatsd.Statsd
}

func (c *Counter) With(labelValues ...string) metrics.Counter {
	if c.namer == nil {
		panic("label values have already been provided")
	}
	return &Counter{
		Counter: c.statsdProvider.NewCounter(c.namer.Format(labelValues...), 1.0),
	}
}

func (c *Counter) Add(delta float64) {
	if c.Counter == nil {
		panic("label values must be provided to create the metric")
	}
	c.Counter.Add(delta)
}

type Gauge struct {
	Gauge          *kitstatsd.Gauge
	namer          *namer.Namer
	statsdProvider *kitstatsd.Statsd
}

func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	if g.namer == nil {
		panic("label values have already been provided")
	}
	return &Gauge{
		Gauge: g.statsdProvider.NewGauge(g.namer.Format(labelValues...)),
	}
}

func (g *Gauge) Add(delta float64) {
	if g.Gauge == nil {
		panic("label values must be provided to create the metric")
	}
	g.Gauge.Add(delta)
}

func (g *Gauge) Set(value float64) {
	if g.Gauge == nil {
		panic("label values must be provided to create the metric")
	}
	g.Gauge.Set(value)
}

type Histogram struct {
	Timing         *kitstatsd.Timing
	namer          *namer.Namer
	statsdProvider *kitstatsd.Statsd
}

func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	if h.namer == nil {
		panic("label values have already been provided")
	}
	return &Histogram{
		Timing: h.statsdProvider.NewTiming(h.namer.Format(labelValues...), 1.0),
	}
}

// Observe records a value expressed in seconds as a statsd timing in
// milliseconds.
func (h *Histogram) Observe(value float64) {
	if h.Timing == nil {
		panic("label values must be provided to create the metric")
	}
	h.Timing.Observe(value * 1000)
}
