/*
Copyright the Entropyd Authors. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

//go:generate counterfeiter -o metricsfakes/provider.go -fake-name Provider . Provider

// A Provider is an abstraction for a metrics provider. It is a factory for
// Counter, Gauge, and Histogram.
type Provider interface {
	// NewCounter creates a new instance of a Counter.
	NewCounter(CounterOpts) Counter
	// NewGauge creates a new instance of a Gauge.
	NewGauge(GaugeOpts) Gauge
	// NewHistogram creates a new instance of a Histogram.
	NewHistogram(HistogramOpts) Histogram
}

//go:generate counterfeiter -o metricsfakes/counter.go -fake-name Counter . Counter

// A Counter represents a monotonically increasing value.
type Counter interface {
	// With is used to provide label values when updating a Counter. This
	// must be used to provide values for all LabelNames provided to
	// CounterOpts.
	With(labelValues ...string) Counter

	// Add increments a counter value.
	Add(delta float64)
}

// CounterOpts is used to provide basic information about a counter to be
// created.
type CounterOpts struct {
	// Namespace, Subsystem, and Name are components of the fully-qualified
	// name of the Metric. The fully-qualified name is created by joining
	// these components with an appropriate separator. Only Name is mandatory,
	// the others merely help structuring the name. Note that the
	// fully-qualified name of the metric must be a valid Prometheus metric
	// name.
	Namespace string
	Subsystem string
	Name      string

	// Help provides information about this metric.
	Help string

	// LabelNames holds the label names. Note that the label names are only
	// used to validate the provided values in With when the metric is
	// recorded by Prometheus.
	LabelNames []string

	// StatsdFormat determines how the fully-qualified statsd bucket name is
	// constructed from Namespace, Subsystem, Name, and Labels. This is done
	// by including field references in `%{reference}` format.
	//
	// The following reference names are supported:
	//   #namespace - the value of Namespace
	//   #subsystem - the value of Subsystem
	//   #name      - the value of Name
	//   #fqname    - the fully-qualified metric name
	//   label_name - the value associated with the named label
	//
	// The result of the formatting must be a valid statsd bucket name.
	StatsdFormat string
}

//go:generate counterfeiter -o metricsfakes/gauge.go -fake-name Gauge . Gauge

// A Gauge is a meter that expresses the current value of some metric.
type Gauge interface {
	// With is used to provide label values when recording a Gauge value. It
	// must be used to provide values for all LabelNames provided to
	// GaugeOpts.
	With(labelValues ...string) Gauge

	// Add increments a Gauge value.
	Add(delta float64)

	// Set is used to update the current value associated with a Gauge.
	Set(value float64)
}

// GaugeOpts is used to provide basic information about a gauge to be created.
type GaugeOpts struct {
	// Namespace, Subsystem, and Name are components of the fully-qualified
	// name of the Metric. The fully-qualified name is created by joining
	// these components with an appropriate separator. Only Name is mandatory,
	// the others merely help structuring the name. Note that the
	// fully-qualified name of the metric must be a valid Prometheus metric
	// name.
	Namespace string
	Subsystem string
	Name      string

	// Help provides information about this metric.
	Help string

	// LabelNames holds the label names. Note that the label names are only
	// used to validate the provided values in With when the metric is
	// recorded by Prometheus.
	LabelNames []string

	// StatsdFormat determines how the fully-qualified statsd bucket name is
	// constructed from Namespace, Subsystem, Name, and Labels. This is done
	// by including field references in `%{reference}` format.
	//
	// The following reference names are supported:
	//   #namespace - the value of Namespace
	//   #subsystem - the value of Subsystem
	//   #name      - the value of Name
	//   #fqname    - the fully-qualified metric name
	//   label_name - the value associated with the named label
	//
	// The result of the formatting must be a valid statsd bucket name.
	StatsdFormat string
}

//go:generate counterfeiter -o metricsfakes/histogram.go -fake-name Histogram . Histogram

// A Histogram is a meter that records an observed value into quantized
// buckets.
type Histogram interface {
	// With is used to provide label values when recording a Histogram
	// observation. This must be used to provide values for all LabelNames
	// provided to HistogramOpts.
	With(labelValues ...string) Histogram
	Observe(value float64)
}

// HistogramOpts is used to provide basic information about a histogram to be
// created.
type HistogramOpts struct {
	// Namespace, Subsystem, and Name are components of the fully-qualified
	// name of the Metric. The fully-qualified name is created by joining
	// these components with an appropriate separator. Only Name is mandatory,
	// the others merely help structuring the name. Note that the
	// fully-qualified name of the metric must be a valid Prometheus metric
	// name.
	Namespace string
	Subsystem string
	Name      string

	// Help provides information about this metric.
	Help string

	// Buckets can be used to provide the bucket boundaries for Prometheus
	// histograms.
	Buckets []float64

	// LabelNames holds the label names. Note that the label names are only
	// used to validate the provided values in With when the metric is
	// recorded by Prometheus.
	LabelNames []string

	// StatsdFormat determines how the fully-qualified statsd bucket name is
	// constructed from Namespace, Subsystem, Name, and Labels. This is done
	// by including field references in `%{reference}` format.
	//
	// The following reference names are supported:
	//   #namespace - the value of Namespace
	//   #subsystem - the value of Subsystem
	//   #name      - the value of Name
	//   #fqname    - the fully-qualified metric name
	//   label_name - the value associated with the named label
	//
	// The result of the formatting must be a valid statsd bucket name.
	StatsdFormat string
}
